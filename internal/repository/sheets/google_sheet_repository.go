package sheets

import (
	"context"
	"fmt"

	"go.uber.org/zap"
	"google.golang.org/api/option"
	sheetsapi "google.golang.org/api/sheets/v4"

	"github.com/mamadbah2/warehouse/internal/config"
)

// Repository defines the spreadsheet operations used by the ledger mirror.
type Repository interface {
	ReplaceRows(ctx context.Context, tab string, rows [][]interface{}) error
}

// GoogleSheetRepository implements the Repository interface using the official Google Sheets API.
type GoogleSheetRepository struct {
	service       *sheetsapi.Service
	spreadsheetID string
	logger        *zap.Logger
}

// NewGoogleSheetRepository builds a Google Sheets backed repository instance.
// Extra client options are appended after the credentials from cfg.
func NewGoogleSheetRepository(ctx context.Context, cfg config.SheetsConfig, logger *zap.Logger, opts ...option.ClientOption) (*GoogleSheetRepository, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	clientOpts := []option.ClientOption{option.WithScopes(sheetsapi.SpreadsheetsScope)}
	if cfg.CredentialsPath != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(cfg.CredentialsPath))
	}
	clientOpts = append(clientOpts, opts...)

	service, err := sheetsapi.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize sheets client: %w", err)
	}

	return &GoogleSheetRepository{
		service:       service,
		spreadsheetID: cfg.SpreadsheetID,
		logger:        logger,
	}, nil
}

// ReplaceRows clears the tab and writes rows starting at its first cell.
func (r *GoogleSheetRepository) ReplaceRows(ctx context.Context, tab string, rows [][]interface{}) error {
	if tab == "" {
		return fmt.Errorf("tab must not be empty")
	}

	clearCall := r.service.Spreadsheets.Values.Clear(r.spreadsheetID, tab, &sheetsapi.ClearValuesRequest{}).Context(ctx)
	if _, err := clearCall.Do(); err != nil {
		return fmt.Errorf("clear tab %s: %w", tab, err)
	}

	if len(rows) == 0 {
		return nil
	}

	target := tab + "!A1"
	payload := &sheetsapi.ValueRange{Range: target, Values: rows}
	call := r.service.Spreadsheets.Values.Update(r.spreadsheetID, target, payload).
		ValueInputOption("RAW").
		Context(ctx)

	if _, err := call.Do(); err != nil {
		return fmt.Errorf("write range %s: %w", target, err)
	}

	r.logger.Debug("ledger mirrored to sheet", zap.String("tab", tab), zap.Int("rows", len(rows)))
	return nil
}
