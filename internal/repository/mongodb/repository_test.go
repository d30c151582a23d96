package mongodb

import (
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
)

func TestLedgerDocument_BSONRoundTrip(t *testing.T) {
	l := ledger.New()
	p := l.CreateProduct("oil", "l")
	s, _ := p.CreateSheet(2025, 2)
	pg := s.CreatePage(ledger.Q(7.35), ledger.Q(12.5))
	pg.AppendRecord(ledger.Entry{Day: 4, DocID: "F-88", DocType: "NIR", Input: ledger.Q(100.125)})
	pg.AppendRecord(ledger.Entry{Day: 6, DocID: "C-2", DocType: "BC", Output: ledger.Q(0.005), Comment: "sample"})

	want := ledgerDocument{Name: "default", Products: l.Snapshot().Products, UpdatedAt: time.Date(2025, 2, 6, 8, 0, 0, 0, time.UTC)}
	b, err := bson.Marshal(want)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}

	var got ledgerDocument
	if err := bson.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	opt := cmp.Comparer(func(a, b ledger.Quantity) bool { return a.Equal(b) })
	if diff := cmp.Diff(want, got, opt); diff != "" {
		t.Errorf("round trip mismatch (-want +got):\n%s", diff)
	}

	if _, err := ledger.FromDocument(ledger.Document{Products: got.Products}); err != nil {
		t.Errorf("FromDocument() error = %v", err)
	}
}

func TestLedgerDocument_QuantitiesStoredAsDecimal128(t *testing.T) {
	l := ledger.New()
	s, _ := l.CreateProduct("tape", "roll").CreateSheet(2025, 1)
	s.CreatePage(ledger.Q(0.1), ledger.Q(3))

	b, err := bson.Marshal(ledgerDocument{Name: "x", Products: l.Snapshot().Products})
	if err != nil {
		t.Fatal(err)
	}
	price := bson.Raw(b).Lookup("products", "0", "sheets", "0", "pages", "0", "price")
	d, ok := price.Decimal128OK()
	if !ok {
		t.Fatalf("price stored as %s, want decimal128", price.Type)
	}
	if want, _ := primitive.ParseDecimal128("0.1"); d != want {
		t.Errorf("price = %s, want 0.1", d)
	}
}

func TestLedgerDocument_AcceptsDoubles(t *testing.T) {
	raw, err := bson.Marshal(bson.M{
		"_id": "legacy",
		"products": bson.A{bson.M{
			"name": "wire", "unit": "m",
			"sheets": bson.A{bson.M{
				"year": 2024, "month": 11,
				"pages": bson.A{bson.M{
					"price": 2.5, "initial_stock": int32(10),
					"records": bson.A{bson.M{
						"day": 1, "doc_id": "a", "doc_type": "b", "comment": "",
						"input": 5.0, "output": int64(3), "opening_stock": 10, "closing_stock": "12",
					}},
				}},
			}},
		}},
	})
	if err != nil {
		t.Fatal(err)
	}

	var got ledgerDocument
	if err := bson.Unmarshal(raw, &got); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	l, err := ledger.FromDocument(ledger.Document{Products: got.Products})
	if err != nil {
		t.Fatalf("FromDocument() error = %v", err)
	}
	pg, err := l.Page(ledger.Path{})
	if err != nil {
		t.Fatal(err)
	}
	if !pg.ClosingStock().Equal(ledger.Q(12)) {
		t.Errorf("ClosingStock() = %s, want 12", pg.ClosingStock())
	}
}
