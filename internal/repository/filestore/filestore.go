// Package filestore persists the ledger document as an indented JSON file.
package filestore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"

	"go.uber.org/zap"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/repository"
)

// Store keeps the ledger in a single JSON file.
type Store struct {
	path   string
	logger *zap.Logger
}

// New returns a store backed by path. The file is not touched until Load or Save.
func New(path string, logger *zap.Logger) *Store {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Store{path: path, logger: logger}
}

// Path returns the backing file path.
func (s *Store) Path() string { return s.path }

// Load reads and decodes the ledger file.
func (s *Store) Load(ctx context.Context) (ledger.Document, error) {
	if err := ctx.Err(); err != nil {
		return ledger.Document{}, err
	}

	f, err := os.Open(s.path)
	if errors.Is(err, fs.ErrNotExist) {
		return ledger.Document{}, repository.ErrNotFound
	}
	if err != nil {
		return ledger.Document{}, fmt.Errorf("%w: open %s: %w", repository.ErrIO, s.path, err)
	}
	defer f.Close()

	b, err := io.ReadAll(f)
	if err != nil {
		return ledger.Document{}, fmt.Errorf("%w: read %s: %w", repository.ErrIO, s.path, err)
	}

	var doc ledger.Document
	if err := json.Unmarshal(b, &doc); err != nil {
		return ledger.Document{}, fmt.Errorf("%w: decode %s: %v", ledger.ErrMalformedState, s.path, err)
	}

	s.logger.Debug("ledger file loaded", zap.String("path", s.path), zap.Int("products", len(doc.Products)))
	return doc, nil
}

// Save writes the document to a temporary file in the same directory and
// renames it over the ledger file, so a failed write leaves the previous file intact.
func (s *Store) Save(ctx context.Context, doc ledger.Document) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	dir := filepath.Dir(s.path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(s.path)+".*")
	if err != nil {
		return fmt.Errorf("%w: create temp file in %s: %w", repository.ErrIO, dir, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.Write(append(b, '\n')); err != nil {
		tmp.Close()
		return fmt.Errorf("%w: write %s: %w", repository.ErrIO, tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("%w: close %s: %w", repository.ErrIO, tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), s.path); err != nil {
		return fmt.Errorf("%w: replace %s: %w", repository.ErrIO, s.path, err)
	}

	s.logger.Debug("ledger file saved", zap.String("path", s.path), zap.Int("bytes", len(b)))
	return nil
}

// Close is a no-op; the file is only held open inside Load and Save.
func (s *Store) Close(context.Context) error { return nil }
