package ledger

import (
	"errors"
	"fmt"
)

// Document is the persisted shape of a ledger. Scalar fields are pointers so
// that a missing field can be told apart from a zero value on load; nested
// arrays may be omitted and are read as empty.
type Document struct {
	Products []ProductDoc `json:"products" bson:"products"`
}

type ProductDoc struct {
	Name   *string    `json:"name" bson:"name"`
	Unit   *string    `json:"unit" bson:"unit"`
	Sheets []SheetDoc `json:"sheets" bson:"sheets"`
}

type SheetDoc struct {
	Year  *int      `json:"year" bson:"year"`
	Month *int      `json:"month" bson:"month"`
	Pages []PageDoc `json:"pages" bson:"pages"`
}

type PageDoc struct {
	Price        *Quantity   `json:"price" bson:"price"`
	InitialStock *Quantity   `json:"initial_stock" bson:"initial_stock"`
	Records      []RecordDoc `json:"records" bson:"records"`
}

type RecordDoc struct {
	Day          *int      `json:"day" bson:"day"`
	DocID        *string   `json:"doc_id" bson:"doc_id"`
	DocType      *string   `json:"doc_type" bson:"doc_type"`
	Input        *Quantity `json:"input" bson:"input"`
	Output       *Quantity `json:"output" bson:"output"`
	OpeningStock *Quantity `json:"opening_stock" bson:"opening_stock"`
	ClosingStock *Quantity `json:"closing_stock" bson:"closing_stock"`
	Comment      *string   `json:"comment" bson:"comment"`
}

// Snapshot copies the ledger into its persisted shape. Every slice in the
// result is non-nil so that empty containers encode as [] rather than null.
func (l *Ledger) Snapshot() Document {
	doc := Document{Products: make([]ProductDoc, 0, len(l.products))}
	for _, p := range l.products {
		pd := ProductDoc{Name: ptr(p.Name), Unit: ptr(p.Unit), Sheets: make([]SheetDoc, 0, len(p.sheets))}
		for _, s := range p.sheets {
			sd := SheetDoc{Year: ptr(s.Year), Month: ptr(s.Month), Pages: make([]PageDoc, 0, len(s.pages))}
			for _, pg := range s.pages {
				gd := PageDoc{Price: ptr(pg.Price), InitialStock: ptr(pg.InitialStock), Records: make([]RecordDoc, 0, len(pg.records))}
				for _, r := range pg.records {
					gd.Records = append(gd.Records, RecordDoc{
						Day:          ptr(r.Day),
						DocID:        ptr(r.DocID),
						DocType:      ptr(r.DocType),
						Input:        ptr(r.Input),
						Output:       ptr(r.Output),
						OpeningStock: ptr(r.OpeningStock),
						ClosingStock: ptr(r.ClosingStock),
						Comment:      ptr(r.Comment),
					})
				}
				sd.Pages = append(sd.Pages, gd)
			}
			pd.Sheets = append(pd.Sheets, sd)
		}
		doc.Products = append(doc.Products, pd)
	}
	return doc
}

// FromDocument rebuilds a ledger from its persisted shape. Stored opening and
// closing stocks are authoritative: a document whose balance chain does not
// hold is rejected with ErrMalformedState instead of being silently repaired.
func FromDocument(doc Document) (*Ledger, error) {
	l := New()
	for i, pd := range doc.Products {
		if pd.Name == nil || pd.Unit == nil {
			return nil, malformed("products[%d]: name and unit are required", i)
		}
		p := &Product{Name: *pd.Name, Unit: *pd.Unit}
		for j, sd := range pd.Sheets {
			if sd.Year == nil || sd.Month == nil {
				return nil, malformed("products[%d].sheets[%d]: year and month are required", i, j)
			}
			if *sd.Month < 1 || *sd.Month > 12 {
				return nil, malformed("products[%d].sheets[%d]: month %d outside 1..12", i, j, *sd.Month)
			}
			s := &Sheet{Year: *sd.Year, Month: *sd.Month}
			for k, gd := range sd.Pages {
				pg, err := pageFromDoc(gd)
				if err != nil {
					return nil, malformed("products[%d].sheets[%d].pages[%d]: %v", i, j, k, err)
				}
				s.pages = append(s.pages, pg)
			}
			p.sheets = append(p.sheets, s)
		}
		l.products = append(l.products, p)
	}
	return l, nil
}

func pageFromDoc(gd PageDoc) (*Page, error) {
	if gd.Price == nil || gd.InitialStock == nil {
		return nil, errors.New("price and initial_stock are required")
	}
	pg := NewPage(*gd.Price, *gd.InitialStock)
	for m, rd := range gd.Records {
		if rd.Day == nil || rd.DocID == nil || rd.DocType == nil || rd.Comment == nil {
			return nil, fmt.Errorf("records[%d]: day, doc_id, doc_type and comment are required", m)
		}
		if rd.Input == nil || rd.Output == nil || rd.OpeningStock == nil || rd.ClosingStock == nil {
			return nil, fmt.Errorf("records[%d]: input, output, opening_stock and closing_stock are required", m)
		}
		pg.records = append(pg.records, Record{
			Day:          *rd.Day,
			DocID:        *rd.DocID,
			DocType:      *rd.DocType,
			Input:        *rd.Input,
			Output:       *rd.Output,
			OpeningStock: *rd.OpeningStock,
			ClosingStock: *rd.ClosingStock,
			Comment:      *rd.Comment,
		})
	}
	if i, ok := pg.verify(); !ok {
		return nil, fmt.Errorf("records[%d]: running balance does not hold", i)
	}
	return pg, nil
}

func ptr[T any](v T) *T { return &v }
