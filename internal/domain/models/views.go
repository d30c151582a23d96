package models

import "github.com/mamadbah2/warehouse/internal/domain/ledger"

// ProductSummary lists one product with its sheets.
type ProductSummary struct {
	Index  int            `json:"index"`
	Name   string         `json:"name"`
	Unit   string         `json:"unit"`
	Sheets []SheetSummary `json:"sheets"`
}

// SheetSummary lists one monthly sheet with its pages.
type SheetSummary struct {
	Index int           `json:"index"`
	Year  int           `json:"year"`
	Month int           `json:"month"`
	Pages []PageSummary `json:"pages"`
}

// PageSummary reports the current balance of one price lot.
type PageSummary struct {
	Index        int             `json:"index"`
	Price        ledger.Quantity `json:"price"`
	InitialStock ledger.Quantity `json:"initial_stock"`
	Records      int             `json:"records"`
	ClosingStock ledger.Quantity `json:"closing_stock"`
	StockValue   ledger.Quantity `json:"stock_value"`
}

// PageView is a page with its records, as returned by GET .../pages/:page.
type PageView struct {
	Path           ledger.Path     `json:"path"`
	Price          ledger.Quantity `json:"price"`
	InitialStock   ledger.Quantity `json:"initial_stock"`
	ClosingStock   ledger.Quantity `json:"closing_stock"`
	SelectedRecord int             `json:"selected_record"`
	Records        []ledger.Record `json:"records"`
}

// NewPageView builds the view of the page at path.
func NewPageView(path ledger.Path, p *ledger.Page) PageView {
	return PageView{
		Path:           path,
		Price:          p.Price,
		InitialStock:   p.InitialStock,
		ClosingStock:   p.ClosingStock(),
		SelectedRecord: p.SelectedRecord(),
		Records:        p.Records(),
	}
}

// Selection reports the advisory cursors along the selected path.
type Selection struct {
	Product int `json:"product"`
	Sheet   int `json:"sheet"`
	Page    int `json:"page"`
	Record  int `json:"record"`
}

// ErrorResponse is the failure body returned by the API.
type ErrorResponse struct {
	Error     string `json:"error"`
	Container string `json:"container,omitempty"`
	Index     *int   `json:"index,omitempty"`
	Len       *int   `json:"len,omitempty"`
}
