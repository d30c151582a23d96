// Package ledger implements the warehouse stock ledger: products hold monthly
// sheets, sheets hold price-lot pages and pages hold an ordered running
// balance of stock movements.
//
// Every page keeps the invariant
//
//	records[0].OpeningStock == InitialStock
//	records[i].OpeningStock == records[i-1].ClosingStock
//	records[i].ClosingStock == OpeningStock + Input - Output
//
// across appends, inserts, updates and deletes. A Ledger is not safe for
// concurrent use.
package ledger

// Path addresses a page inside a ledger.
type Path struct {
	Product int `json:"product"`
	Sheet   int `json:"sheet"`
	Page    int `json:"page"`
}

// Ledger is the root collection of products.
type Ledger struct {
	products []*Product
	cursor   int
}

// New returns an empty ledger.
func New() *Ledger {
	return &Ledger{}
}

// Len returns the number of products.
func (l *Ledger) Len() int { return len(l.products) }

// Products returns the products in display order.
func (l *Ledger) Products() []*Product {
	out := make([]*Product, len(l.products))
	copy(out, l.products)
	return out
}

// CreateProduct appends a product and selects it.
func (l *Ledger) CreateProduct(name, unit string) *Product {
	p := &Product{Name: name, Unit: unit}
	l.products = append(l.products, p)
	l.cursor = len(l.products) - 1
	return p
}

// Product returns the product at index.
func (l *Ledger) Product(index int) (*Product, error) {
	if index < 0 || index >= len(l.products) {
		return nil, outOfRange("product", index, len(l.products))
	}
	return l.products[index], nil
}

// SelectProduct moves the product cursor; false when index is out of bounds.
func (l *Ledger) SelectProduct(index int) bool {
	if index < 0 || index >= len(l.products) {
		return false
	}
	l.cursor = index
	return true
}

// SelectedProduct returns the product cursor.
func (l *Ledger) SelectedProduct() int { return l.cursor }

// DeleteProduct removes the product at index with everything it owns.
// Indices of later products shift down by one.
func (l *Ledger) DeleteProduct(index int) error {
	if index < 0 || index >= len(l.products) {
		return outOfRange("product", index, len(l.products))
	}
	l.products = append(l.products[:index], l.products[index+1:]...)
	l.cursor = clampCursor(l.cursor, index, len(l.products))
	return nil
}

// Sheet resolves a product and sheet index pair.
func (l *Ledger) Sheet(product, sheet int) (*Sheet, error) {
	p, err := l.Product(product)
	if err != nil {
		return nil, err
	}
	return p.Sheet(sheet)
}

// Page resolves a path to its page.
func (l *Ledger) Page(path Path) (*Page, error) {
	s, err := l.Sheet(path.Product, path.Sheet)
	if err != nil {
		return nil, err
	}
	return s.Page(path.Page)
}

// Recalculate rebuilds the running balance of every page.
func (l *Ledger) Recalculate() {
	for _, p := range l.products {
		for _, s := range p.sheets {
			for _, pg := range s.pages {
				pg.RecalculateFrom(0)
			}
		}
	}
}
