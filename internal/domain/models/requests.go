package models

import "github.com/mamadbah2/warehouse/internal/domain/ledger"

// CreateProductRequest is the body of POST /products.
type CreateProductRequest struct {
	Name string `json:"name" binding:"required"`
	Unit string `json:"unit" binding:"required"`
}

// CreateSheetRequest is the body of POST /products/:product/sheets.
type CreateSheetRequest struct {
	Year  int `json:"year" binding:"required"`
	Month int `json:"month" binding:"required,min=1,max=12"`
}

// CreatePageRequest is the body of POST .../pages.
type CreatePageRequest struct {
	Price        ledger.Quantity `json:"price"`
	InitialStock ledger.Quantity `json:"initial_stock"`
}

// UpdatePageRequest is the body of PATCH .../pages/:page. Absent fields are left unchanged.
type UpdatePageRequest struct {
	Price        *ledger.Quantity `json:"price"`
	InitialStock *ledger.Quantity `json:"initial_stock"`
}

// RecordRequest is the body of POST and PUT .../records. Position, when set
// on POST, inserts the record before the record currently at that index.
type RecordRequest struct {
	Day      int             `json:"day"`
	DocID    string          `json:"doc_id"`
	DocType  string          `json:"doc_type"`
	Input    ledger.Quantity `json:"input"`
	Output   ledger.Quantity `json:"output"`
	Comment  string          `json:"comment"`
	Position *int            `json:"position,omitempty"`
}

// Entry converts the request into a ledger entry.
func (r RecordRequest) Entry() ledger.Entry {
	return ledger.Entry{
		Day:     r.Day,
		DocID:   r.DocID,
		DocType: r.DocType,
		Input:   r.Input,
		Output:  r.Output,
		Comment: r.Comment,
	}
}
