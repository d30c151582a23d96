package ledger

// Sheet groups the pages of one product for a calendar month. Pages are
// independent stock lines.
type Sheet struct {
	Year   int
	Month  int
	pages  []*Page
	cursor int
}

// Len returns the number of pages.
func (s *Sheet) Len() int { return len(s.pages) }

// Pages returns the pages in display order.
func (s *Sheet) Pages() []*Page {
	out := make([]*Page, len(s.pages))
	copy(out, s.pages)
	return out
}

// CreatePage appends a new page and selects it.
func (s *Sheet) CreatePage(price, initialStock Quantity) *Page {
	p := NewPage(price, initialStock)
	s.pages = append(s.pages, p)
	s.cursor = len(s.pages) - 1
	return p
}

// Page returns the page at index.
func (s *Sheet) Page(index int) (*Page, error) {
	if index < 0 || index >= len(s.pages) {
		return nil, outOfRange("page", index, len(s.pages))
	}
	return s.pages[index], nil
}

// SelectPage moves the page cursor; false when index is out of bounds.
func (s *Sheet) SelectPage(index int) bool {
	if index < 0 || index >= len(s.pages) {
		return false
	}
	s.cursor = index
	return true
}

// SelectedPage returns the page cursor.
func (s *Sheet) SelectedPage() int { return s.cursor }

// DeletePage removes the page at index together with its records.
func (s *Sheet) DeletePage(index int) error {
	if index < 0 || index >= len(s.pages) {
		return outOfRange("page", index, len(s.pages))
	}
	s.pages = append(s.pages[:index], s.pages[index+1:]...)
	s.cursor = clampCursor(s.cursor, index, len(s.pages))
	return nil
}
