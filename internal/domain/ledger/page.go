package ledger

// Page is a price lot: an ordered running balance of stock movements that
// starts from InitialStock.
type Page struct {
	Price        Quantity
	InitialStock Quantity
	records      []Record
	cursor       int
}

// NewPage returns an empty page.
func NewPage(price, initialStock Quantity) *Page {
	return &Page{Price: price, InitialStock: initialStock}
}

// Len returns the number of records.
func (p *Page) Len() int { return len(p.records) }

// Records returns a copy of the records in calculation order.
func (p *Page) Records() []Record {
	out := make([]Record, len(p.records))
	copy(out, p.records)
	return out
}

// Record returns the record at index.
func (p *Page) Record(index int) (Record, error) {
	if index < 0 || index >= len(p.records) {
		return Record{}, outOfRange("record", index, len(p.records))
	}
	return p.records[index], nil
}

// ClosingStock is the stock on hand after the last record, or the initial
// stock when the page has no records.
func (p *Page) ClosingStock() Quantity {
	if len(p.records) == 0 {
		return p.InitialStock
	}
	return p.records[len(p.records)-1].ClosingStock
}

// AppendRecord appends a movement opening at the current closing stock.
func (p *Page) AppendRecord(e Entry) Record {
	r := newRecord(e, p.ClosingStock())
	p.records = append(p.records, r)
	p.cursor = len(p.records) - 1
	return r
}

// InsertRecord places a movement at index, shifting later records down and
// recalculating them. index == Len() behaves like AppendRecord.
func (p *Page) InsertRecord(index int, e Entry) (Record, error) {
	if index < 0 || index > len(p.records) {
		return Record{}, outOfRange("record", index, len(p.records)+1)
	}
	if index == len(p.records) {
		return p.AppendRecord(e), nil
	}

	r := Record{}
	r.apply(e)
	p.records = append(p.records, Record{})
	copy(p.records[index+1:], p.records[index:])
	p.records[index] = r
	p.RecalculateFrom(index)
	p.cursor = index
	return p.records[index], nil
}

// UpdateRecord replaces the caller-supplied fields of the record at index and
// recalculates it and every later record.
func (p *Page) UpdateRecord(index int, e Entry) (Record, error) {
	if index < 0 || index >= len(p.records) {
		return Record{}, outOfRange("record", index, len(p.records))
	}
	p.records[index].apply(e)
	p.RecalculateFrom(index)
	return p.records[index], nil
}

// DeleteRecord removes the record at index. Later records are relinked to the
// closing stock of the record that now precedes them.
func (p *Page) DeleteRecord(index int) error {
	if index < 0 || index >= len(p.records) {
		return outOfRange("record", index, len(p.records))
	}
	p.records = append(p.records[:index], p.records[index+1:]...)
	if index < len(p.records) {
		p.RecalculateFrom(index)
	}
	p.cursor = clampCursor(p.cursor, index, len(p.records))
	return nil
}

// SetInitialStock changes the page's starting stock and recalculates every record.
func (p *Page) SetInitialStock(q Quantity) {
	p.InitialStock = q
	p.RecalculateFrom(0)
}

// RecalculateFrom rewrites opening and closing stock for records[start:].
// A negative start is treated as 0.
func (p *Page) RecalculateFrom(start int) {
	if start < 0 {
		start = 0
	}
	for i := start; i < len(p.records); i++ {
		opening := p.InitialStock
		if i > 0 {
			opening = p.records[i-1].ClosingStock
		}
		p.records[i].settle(opening)
	}
}

// SelectRecord moves the record cursor. It reports false and leaves the
// cursor untouched when index is out of bounds.
func (p *Page) SelectRecord(index int) bool {
	if index < 0 || index >= len(p.records) {
		return false
	}
	p.cursor = index
	return true
}

// SelectedRecord returns the record cursor.
func (p *Page) SelectedRecord() int { return p.cursor }

// verify checks the running-balance chain and returns the first broken index.
func (p *Page) verify() (int, bool) {
	opening := p.InitialStock
	for i, r := range p.records {
		if !r.OpeningStock.Equal(opening) {
			return i, false
		}
		if !r.ClosingStock.Equal(r.OpeningStock.Add(r.Input).Sub(r.Output)) {
			return i, false
		}
		opening = r.ClosingStock
	}
	return -1, true
}

// clampCursor keeps a cursor pointing at the same element after a removal at
// removed, or at the nearest remaining one.
func clampCursor(cursor, removed, n int) int {
	if cursor > removed {
		cursor--
	}
	if cursor >= n {
		cursor = n - 1
	}
	if cursor < 0 {
		cursor = 0
	}
	return cursor
}
