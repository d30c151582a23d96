package ledger

// Entry carries the caller-supplied fields of a stock movement.
type Entry struct {
	Day     int      `json:"day"`
	DocID   string   `json:"doc_id"`
	DocType string   `json:"doc_type"`
	Input   Quantity `json:"input"`
	Output  Quantity `json:"output"`
	Comment string   `json:"comment"`
}

// Record is one stock movement with its derived opening and closing stock.
// Records are owned by a Page and only change through Page methods.
type Record struct {
	Day          int      `json:"day"`
	DocID        string   `json:"doc_id"`
	DocType      string   `json:"doc_type"`
	Input        Quantity `json:"input"`
	Output       Quantity `json:"output"`
	OpeningStock Quantity `json:"opening_stock"`
	ClosingStock Quantity `json:"closing_stock"`
	Comment      string   `json:"comment"`
}

func newRecord(e Entry, opening Quantity) Record {
	r := Record{}
	r.apply(e)
	r.settle(opening)
	return r
}

func (r *Record) apply(e Entry) {
	r.Day = e.Day
	r.DocID = e.DocID
	r.DocType = e.DocType
	r.Input = e.Input
	r.Output = e.Output
	r.Comment = e.Comment
}

// settle derives the closing stock from the given opening stock.
func (r *Record) settle(opening Quantity) {
	r.OpeningStock = opening
	r.ClosingStock = opening.Add(r.Input).Sub(r.Output)
}

// Entry returns the caller-supplied part of the record.
func (r Record) Entry() Entry {
	return Entry{
		Day:     r.Day,
		DocID:   r.DocID,
		DocType: r.DocType,
		Input:   r.Input,
		Output:  r.Output,
		Comment: r.Comment,
	}
}
