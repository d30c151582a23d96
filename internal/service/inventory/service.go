// Package inventory serves the stock ledger to concurrent callers. It owns
// the in-memory ledger, serialises every operation behind one mutex and
// loads/saves the ledger through a repository.Store.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/domain/models"
	"github.com/mamadbah2/warehouse/internal/repository"
)

// Service guards one ledger.
type Service struct {
	mu      sync.Mutex
	ledger  *ledger.Ledger
	dirty   bool
	// version counts successful mutations; Save clears dirty only when no
	// mutation happened while its snapshot was being written.
	version uint64
	store   repository.Store
	logger  *zap.Logger
}

// NewService returns a service holding an empty ledger. Call Load to read the
// persisted state.
func NewService(store repository.Store, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{ledger: ledger.New(), store: store, logger: logger}
}

// Load replaces the in-memory ledger with the stored one. When nothing has
// been stored yet the service starts from an empty ledger. On any other
// failure the current ledger is kept.
func (s *Service) Load(ctx context.Context) error {
	doc, err := s.store.Load(ctx)
	if errors.Is(err, repository.ErrNotFound) {
		s.logger.Warn("no stored ledger, starting empty")
		s.mu.Lock()
		s.ledger, s.dirty = ledger.New(), false
		s.version++
		s.mu.Unlock()
		return nil
	}
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	l, err := ledger.FromDocument(doc)
	if err != nil {
		return fmt.Errorf("load ledger: %w", err)
	}

	s.mu.Lock()
	s.ledger, s.dirty = l, false
	s.version++
	s.mu.Unlock()

	s.logger.Info("ledger loaded", zap.Int("products", l.Len()))
	return nil
}

// Save writes the current ledger to the store. Changes made while the write
// is in flight keep the ledger dirty.
func (s *Service) Save(ctx context.Context) error {
	s.mu.Lock()
	doc := s.ledger.Snapshot()
	version := s.version
	s.mu.Unlock()

	if err := s.store.Save(ctx, doc); err != nil {
		return fmt.Errorf("save ledger: %w", err)
	}

	s.mu.Lock()
	if s.version == version {
		s.dirty = false
	} else {
		s.logger.Debug("ledger changed during save, keeping it dirty")
	}
	s.mu.Unlock()
	return nil
}

// Flush saves the ledger only when it changed since the last load or save.
// It reports whether a save happened.
func (s *Service) Flush(ctx context.Context) (bool, error) {
	s.mu.Lock()
	dirty := s.dirty
	s.mu.Unlock()
	if !dirty {
		return false, nil
	}
	if err := s.Save(ctx); err != nil {
		return false, err
	}
	return true, nil
}

// Dirty reports unsaved changes.
func (s *Service) Dirty() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.dirty
}

// Document returns a snapshot of the whole ledger.
func (s *Service) Document() ledger.Document {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.ledger.Snapshot()
}

// Summary lists every product, sheet and page with its current balance.
// An empty ledger yields an empty, non-nil slice.
func (s *Service) Summary() []models.ProductSummary {
	s.mu.Lock()
	defer s.mu.Unlock()

	out := make([]models.ProductSummary, 0, s.ledger.Len())
	for i, p := range s.ledger.Products() {
		ps := models.ProductSummary{Index: i, Name: p.Name, Unit: p.Unit, Sheets: make([]models.SheetSummary, 0, p.Len())}
		for j, sh := range p.Sheets() {
			ss := models.SheetSummary{Index: j, Year: sh.Year, Month: sh.Month, Pages: make([]models.PageSummary, 0, sh.Len())}
			for k, pg := range sh.Pages() {
				closing := pg.ClosingStock()
				ss.Pages = append(ss.Pages, models.PageSummary{
					Index:        k,
					Price:        pg.Price,
					InitialStock: pg.InitialStock,
					Records:      pg.Len(),
					ClosingStock: closing,
					StockValue:   closing.Mul(pg.Price),
				})
			}
			ps.Sheets = append(ps.Sheets, ss)
		}
		out = append(out, ps)
	}
	return out
}

// Selection reports the cursors along the selected product, sheet and page.
// Levels below an empty container report 0.
func (s *Service) Selection() models.Selection {
	s.mu.Lock()
	defer s.mu.Unlock()

	sel := models.Selection{Product: s.ledger.SelectedProduct()}
	p, err := s.ledger.Product(sel.Product)
	if err != nil {
		return sel
	}
	sel.Sheet = p.SelectedSheet()
	sh, err := p.Sheet(sel.Sheet)
	if err != nil {
		return sel
	}
	sel.Page = sh.SelectedPage()
	pg, err := sh.Page(sel.Page)
	if err != nil {
		return sel
	}
	sel.Record = pg.SelectedRecord()
	return sel
}

// mutate runs fn under the lock and marks the ledger dirty when fn succeeds.
func (s *Service) mutate(fn func(l *ledger.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := fn(s.ledger); err != nil {
		return err
	}
	s.dirty = true
	s.version++
	return nil
}

// read runs fn under the lock without marking the ledger dirty.
func (s *Service) read(fn func(l *ledger.Ledger) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return fn(s.ledger)
}
