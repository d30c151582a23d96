package cli

import (
	"flag"
	"fmt"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/domain/models"
)

// quantityValue lets a flag.FlagSet parse exact decimal quantities.
type quantityValue struct{ q *ledger.Quantity }

func (v quantityValue) String() string {
	if v.q == nil {
		return "0"
	}
	return v.q.String()
}

func (v quantityValue) Set(s string) error {
	q, err := ledger.ParseQuantity(s)
	if err != nil {
		return err
	}
	*v.q = q
	return nil
}

// pathFlags addresses one page.
type pathFlags struct {
	path ledger.Path
}

func (p *pathFlags) register(f *flag.FlagSet) {
	f.IntVar(&p.path.Product, "product", 0, "Product index.")
	f.IntVar(&p.path.Sheet, "sheet", 0, "Sheet index within the product.")
	f.IntVar(&p.path.Page, "page", 0, "Page index within the sheet.")
}

// entryFlags collects the fields of one movement.
type entryFlags struct {
	req models.RecordRequest
}

func (e *entryFlags) register(f *flag.FlagSet) {
	f.IntVar(&e.req.Day, "day", 0, "Day of month of the movement.")
	f.StringVar(&e.req.DocID, "doc", "", "Supporting document identifier.")
	f.StringVar(&e.req.DocType, "type", "", "Supporting document type (NIR, BC, ...).")
	f.Var(quantityValue{&e.req.Input}, "in", "Quantity received.")
	f.Var(quantityValue{&e.req.Output}, "out", "Quantity issued.")
	f.StringVar(&e.req.Comment, "comment", "", "Free text comment.")
}

// overlay copies onto base the entry fields explicitly set on the command line.
func (e *entryFlags) overlay(f *flag.FlagSet, base models.RecordRequest) models.RecordRequest {
	f.Visit(func(fl *flag.Flag) {
		switch fl.Name {
		case "day":
			base.Day = e.req.Day
		case "doc":
			base.DocID = e.req.DocID
		case "type":
			base.DocType = e.req.DocType
		case "in":
			base.Input = e.req.Input
		case "out":
			base.Output = e.req.Output
		case "comment":
			base.Comment = e.req.Comment
		}
	})
	return base
}

func requestFromRecord(r ledger.Record) models.RecordRequest {
	e := r.Entry()
	return models.RecordRequest{
		Day:     e.Day,
		DocID:   e.DocID,
		DocType: e.DocType,
		Input:   e.Input,
		Output:  e.Output,
		Comment: e.Comment,
	}
}

func formatPath(p ledger.Path) string {
	return fmt.Sprintf("product %d, sheet %d, page %d", p.Product, p.Sheet, p.Page)
}
