// Package mirror copies the ledger into a spreadsheet tab as flat rows.
package mirror

import (
	"context"
	"fmt"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	repo "github.com/mamadbah2/warehouse/internal/repository/sheets"
)

// Header names the mirrored columns.
var Header = []interface{}{
	"product", "unit", "year", "month", "page", "price", "initial_stock",
	"record", "day", "doc_id", "doc_type", "input", "output", "opening_stock", "closing_stock", "comment",
}

// Source provides the ledger snapshot to mirror.
type Source interface {
	Document() ledger.Document
}

// Service writes ledger snapshots to a spreadsheet tab.
type Service struct {
	source Source
	repo   repo.Repository
	tab    string
	logger *zap.Logger
}

// NewService wires a new mirror service instance.
func NewService(source Source, repository repo.Repository, tab string, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{source: source, repo: repository, tab: tab, logger: logger}
}

// Sync replaces the tab contents with the current ledger.
func (s *Service) Sync(ctx context.Context) error {
	rows := Rows(s.source.Document())
	if err := s.repo.ReplaceRows(ctx, s.tab, rows); err != nil {
		return fmt.Errorf("mirror ledger: %w", err)
	}
	s.logger.Info("ledger mirrored", zap.String("tab", s.tab), zap.Int("rows", len(rows)-1))
	return nil
}

// Rows flattens a document into a header row followed by one row per record.
// Pages without records still get a row with the record columns left blank;
// products and sheets without pages are not represented.
func Rows(doc ledger.Document) [][]interface{} {
	rows := [][]interface{}{Header}
	for _, p := range doc.Products {
		for _, s := range p.Sheets {
			for k, pg := range s.Pages {
				base := []interface{}{str(p.Name), str(p.Unit), num(s.Year), num(s.Month), k, qty(pg.Price), qty(pg.InitialStock)}
				if len(pg.Records) == 0 {
					rows = append(rows, append(base, "", "", "", "", "", "", "", "", ""))
					continue
				}
				for m, r := range pg.Records {
					row := make([]interface{}, 0, len(Header))
					row = append(row, base...)
					row = append(row, m, num(r.Day), str(r.DocID), str(r.DocType), qty(r.Input), qty(r.Output), qty(r.OpeningStock), qty(r.ClosingStock), str(r.Comment))
					rows = append(rows, row)
				}
			}
		}
	}
	return rows
}

func str(v *string) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

func num(v *int) interface{} {
	if v == nil {
		return ""
	}
	return *v
}

// qty keeps full decimal precision by writing quantities as their string form.
func qty(v *ledger.Quantity) interface{} {
	if v == nil {
		return ""
	}
	return v.String()
}
