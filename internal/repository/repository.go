// Package repository defines the persistence contract shared by the ledger
// stores.
package repository

import (
	"context"
	"errors"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
)

var (
	// ErrNotFound indicates that no ledger has been saved under the configured name yet.
	ErrNotFound = errors.New("ledger not found")

	// ErrIO indicates that the storage medium could not be reached or written.
	ErrIO = errors.New("ledger storage unavailable")
)

// Store loads and saves a whole ledger document.
//
// Load returns ErrNotFound when nothing was saved yet, an error wrapping
// ledger.ErrMalformedState when the stored data cannot be decoded and an
// error wrapping ErrIO when the medium fails.
type Store interface {
	Load(ctx context.Context) (ledger.Document, error)
	Save(ctx context.Context, doc ledger.Document) error
	Close(ctx context.Context) error
}
