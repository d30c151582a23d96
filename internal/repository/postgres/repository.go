// Package postgres stores the ledger document as a JSONB snapshot through gorm.
package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.uber.org/zap"
	"gorm.io/datatypes"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/repository"
)

// LedgerSnapshot is one stored ledger, keyed by its name.
type LedgerSnapshot struct {
	Name      string         `gorm:"primaryKey;size:64"`
	Document  datatypes.JSON `gorm:"type:jsonb;not null"`
	UpdatedAt time.Time
}

// Repository implements repository.Store on top of a gorm connection.
type Repository struct {
	db     *gorm.DB
	name   string
	logger *zap.Logger
}

// Open connects to PostgreSQL, migrates the snapshot table and returns a
// store for the ledger saved under name.
func Open(dsn, name string, logger *zap.Logger) (*Repository, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{})
	if err != nil {
		return nil, fmt.Errorf("%w: connect to postgres: %w", repository.ErrIO, err)
	}
	return New(db, name, logger)
}

// New wraps an existing gorm connection.
func New(db *gorm.DB, name string, logger *zap.Logger) (*Repository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	if err := db.AutoMigrate(&LedgerSnapshot{}); err != nil {
		return nil, fmt.Errorf("%w: migrate ledger snapshots: %w", repository.ErrIO, err)
	}
	return &Repository{db: db, name: name, logger: logger}, nil
}

// Load reads the snapshot row and decodes its document.
func (r *Repository) Load(ctx context.Context) (ledger.Document, error) {
	var row LedgerSnapshot
	err := r.db.WithContext(ctx).Where("name = ?", r.name).First(&row).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ledger.Document{}, repository.ErrNotFound
	}
	if err != nil {
		return ledger.Document{}, fmt.Errorf("%w: select ledger %q: %w", repository.ErrIO, r.name, err)
	}

	var doc ledger.Document
	if err := json.Unmarshal(row.Document, &doc); err != nil {
		return ledger.Document{}, fmt.Errorf("%w: decode ledger %q: %v", ledger.ErrMalformedState, r.name, err)
	}

	r.logger.Debug("ledger loaded", zap.String("name", r.name), zap.Time("updated_at", row.UpdatedAt))
	return doc, nil
}

// Save upserts the snapshot row.
func (r *Repository) Save(ctx context.Context, doc ledger.Document) error {
	b, err := json.Marshal(doc)
	if err != nil {
		return fmt.Errorf("encode ledger: %w", err)
	}

	row := LedgerSnapshot{Name: r.name, Document: datatypes.JSON(b), UpdatedAt: time.Now().UTC()}
	err = r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "name"}},
		DoUpdates: clause.AssignmentColumns([]string{"document", "updated_at"}),
	}).Create(&row).Error
	if err != nil {
		return fmt.Errorf("%w: upsert ledger %q: %w", repository.ErrIO, r.name, err)
	}
	return nil
}

// Close releases the underlying connection pool.
func (r *Repository) Close(context.Context) error {
	sqlDB, err := r.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
