package ledger

// Product is a named, unit-tagged stock item.
type Product struct {
	Name   string
	Unit   string
	sheets []*Sheet
	cursor int
}

// Len returns the number of sheets.
func (p *Product) Len() int { return len(p.sheets) }

// Sheets returns the sheets in display order.
func (p *Product) Sheets() []*Sheet {
	out := make([]*Sheet, len(p.sheets))
	copy(out, p.sheets)
	return out
}

// CreateSheet appends a monthly sheet and selects it.
func (p *Product) CreateSheet(year, month int) (*Sheet, error) {
	if month < 1 || month > 12 {
		return nil, ErrInvalidMonth
	}
	s := &Sheet{Year: year, Month: month}
	p.sheets = append(p.sheets, s)
	p.cursor = len(p.sheets) - 1
	return s, nil
}

// Sheet returns the sheet at index.
func (p *Product) Sheet(index int) (*Sheet, error) {
	if index < 0 || index >= len(p.sheets) {
		return nil, outOfRange("sheet", index, len(p.sheets))
	}
	return p.sheets[index], nil
}

// SelectSheet moves the sheet cursor; false when index is out of bounds.
func (p *Product) SelectSheet(index int) bool {
	if index < 0 || index >= len(p.sheets) {
		return false
	}
	p.cursor = index
	return true
}

// SelectedSheet returns the sheet cursor.
func (p *Product) SelectedSheet() int { return p.cursor }

// DeleteSheet removes the sheet at index together with its pages.
func (p *Product) DeleteSheet(index int) error {
	if index < 0 || index >= len(p.sheets) {
		return outOfRange("sheet", index, len(p.sheets))
	}
	p.sheets = append(p.sheets[:index], p.sheets[index+1:]...)
	p.cursor = clampCursor(p.cursor, index, len(p.sheets))
	return nil
}
