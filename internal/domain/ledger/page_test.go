package ledger

import (
	"errors"
	"math/rand"
	"testing"

	"github.com/google/go-cmp/cmp"
)

var quantityComparer = cmp.Comparer(func(a, b Quantity) bool { return a.Equal(b) })

func move(in, out float64) Entry {
	return Entry{Input: Q(in), Output: Q(out)}
}

// checkBalance fails the test when the running balance of p is broken.
func checkBalance(t *testing.T, p *Page) {
	t.Helper()
	if i, ok := p.verify(); !ok {
		t.Fatalf("running balance broken at record %d: %+v", i, p.Records())
	}
}

type stock struct{ Open, Close float64 }

func stocks(p *Page) []stock {
	var out []stock
	for _, r := range p.Records() {
		out = append(out, stock{r.OpeningStock.Float64(), r.ClosingStock.Float64()})
	}
	return out
}

func TestPage_AppendRecord(t *testing.T) {
	p := NewPage(Q(2.5), Q(100))

	r := p.AppendRecord(move(0, 20))
	if !r.OpeningStock.Equal(Q(100)) || !r.ClosingStock.Equal(Q(80)) {
		t.Errorf("first append = %s->%s, want 100->80", r.OpeningStock, r.ClosingStock)
	}

	r = p.AppendRecord(move(50, 0))
	if !r.OpeningStock.Equal(Q(80)) || !r.ClosingStock.Equal(Q(130)) {
		t.Errorf("second append = %s->%s, want 80->130", r.OpeningStock, r.ClosingStock)
	}

	if got := p.SelectedRecord(); got != 1 {
		t.Errorf("SelectedRecord() = %d, want 1", got)
	}
	if !p.ClosingStock().Equal(Q(130)) {
		t.Errorf("ClosingStock() = %s, want 130", p.ClosingStock())
	}
	checkBalance(t, p)
}

func TestPage_AppendKeepsMetadata(t *testing.T) {
	p := NewPage(Q(1), Q(0))
	got := p.AppendRecord(Entry{Day: 12, DocID: "NIR-7", DocType: "NIR", Input: Q(3), Comment: "first delivery"})

	want := Record{Day: 12, DocID: "NIR-7", DocType: "NIR", Input: Q(3), Output: Q(0), OpeningStock: Q(0), ClosingStock: Q(3), Comment: "first delivery"}
	if diff := cmp.Diff(want, got, quantityComparer); diff != "" {
		t.Errorf("AppendRecord() mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_DeleteRecord(t *testing.T) {
	testCases := []struct {
		name  string
		index int
		want  []stock
	}{
		{name: "first", index: 0, want: []stock{{0, 2}, {2, 0}}},
		{name: "middle relinks to previous closing", index: 1, want: []stock{{0, 10}, {10, 8}}},
		{name: "last", index: 2, want: []stock{{0, 10}, {10, 12}}},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			p := NewPage(Q(1), Q(0))
			p.AppendRecord(move(10, 0))
			p.AppendRecord(move(5, 3))
			p.AppendRecord(move(0, 2))

			if diff := cmp.Diff([]stock{{0, 10}, {10, 12}, {12, 10}}, stocks(p)); diff != "" {
				t.Fatalf("setup mismatch (-want +got):\n%s", diff)
			}

			if err := p.DeleteRecord(tc.index); err != nil {
				t.Fatalf("DeleteRecord(%d) error = %v", tc.index, err)
			}
			if diff := cmp.Diff(tc.want, stocks(p)); diff != "" {
				t.Errorf("DeleteRecord(%d) mismatch (-want +got):\n%s", tc.index, diff)
			}
			checkBalance(t, p)
		})
	}
}

func TestPage_DeleteRecordOutOfRange(t *testing.T) {
	p := NewPage(Q(1), Q(5))
	p.AppendRecord(move(1, 0))
	before := p.Records()

	for _, index := range []int{-1, 1, 7} {
		err := p.DeleteRecord(index)
		if !errors.Is(err, ErrOutOfRange) {
			t.Errorf("DeleteRecord(%d) error = %v, want ErrOutOfRange", index, err)
		}
		var oor *OutOfRangeError
		if !errors.As(err, &oor) || oor.Container != "record" || oor.Index != index || oor.Len != 1 {
			t.Errorf("DeleteRecord(%d) error = %#v", index, err)
		}
	}
	if diff := cmp.Diff(before, p.Records(), quantityComparer); diff != "" {
		t.Errorf("page changed after rejected deletes (-want +got):\n%s", diff)
	}
}

func TestPage_UpdateRecord(t *testing.T) {
	p := NewPage(Q(1), Q(0))
	p.AppendRecord(move(10, 0))
	p.AppendRecord(move(5, 3))
	p.AppendRecord(move(0, 2))

	got, err := p.UpdateRecord(1, Entry{Day: 4, DocID: "BC-1", Input: Q(1), Output: Q(6)})
	if err != nil {
		t.Fatalf("UpdateRecord() error = %v", err)
	}
	if got.DocID != "BC-1" || got.Day != 4 {
		t.Errorf("UpdateRecord() metadata not applied: %+v", got)
	}
	if diff := cmp.Diff([]stock{{0, 10}, {10, 5}, {5, 3}}, stocks(p)); diff != "" {
		t.Errorf("UpdateRecord() mismatch (-want +got):\n%s", diff)
	}

	if _, err := p.UpdateRecord(3, move(1, 1)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("UpdateRecord(3) error = %v, want ErrOutOfRange", err)
	}
}

func TestPage_InsertRecord(t *testing.T) {
	p := NewPage(Q(1), Q(10))
	p.AppendRecord(move(0, 4))
	p.AppendRecord(move(2, 0))

	if _, err := p.InsertRecord(0, move(5, 0)); err != nil {
		t.Fatalf("InsertRecord(0) error = %v", err)
	}
	if diff := cmp.Diff([]stock{{10, 15}, {15, 11}, {11, 13}}, stocks(p)); diff != "" {
		t.Errorf("InsertRecord(0) mismatch (-want +got):\n%s", diff)
	}

	if _, err := p.InsertRecord(3, move(0, 3)); err != nil {
		t.Fatalf("InsertRecord(len) error = %v", err)
	}
	if !p.ClosingStock().Equal(Q(10)) {
		t.Errorf("ClosingStock() = %s, want 10", p.ClosingStock())
	}

	if _, err := p.InsertRecord(5, move(1, 0)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("InsertRecord(5) error = %v, want ErrOutOfRange", err)
	}
	if _, err := p.InsertRecord(-1, move(1, 0)); !errors.Is(err, ErrOutOfRange) {
		t.Errorf("InsertRecord(-1) error = %v, want ErrOutOfRange", err)
	}
	checkBalance(t, p)
}

func TestPage_SetInitialStock(t *testing.T) {
	p := NewPage(Q(1), Q(0))
	p.AppendRecord(move(10, 0))
	p.AppendRecord(move(0, 4))

	p.SetInitialStock(Q(100))
	if diff := cmp.Diff([]stock{{100, 110}, {110, 106}}, stocks(p)); diff != "" {
		t.Errorf("SetInitialStock() mismatch (-want +got):\n%s", diff)
	}
}

func TestPage_RecalculateIsIdempotent(t *testing.T) {
	p := NewPage(Q(3.2), Q(0.1))
	p.AppendRecord(move(0.2, 0))
	p.AppendRecord(move(0.7, 0.3))
	p.AppendRecord(move(0, 0.05))

	p.RecalculateFrom(0)
	first := p.Records()
	p.RecalculateFrom(0)
	if diff := cmp.Diff(first, p.Records(), quantityComparer); diff != "" {
		t.Errorf("second RecalculateFrom(0) changed records (-first +second):\n%s", diff)
	}
	if !p.ClosingStock().Equal(Q(0.65)) {
		t.Errorf("ClosingStock() = %s, want exactly 0.65", p.ClosingStock())
	}
}

func TestPage_NegativeMovementsAccepted(t *testing.T) {
	p := NewPage(Q(-1), Q(0))
	r := p.AppendRecord(move(-5, 0))
	if !r.ClosingStock.Equal(Q(-5)) {
		t.Errorf("ClosingStock = %s, want -5", r.ClosingStock)
	}
}

func TestPage_RandomOperationsKeepBalance(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	p := NewPage(Q(1), Q(50))

	for step := 0; step < 500; step++ {
		e := move(float64(rng.Intn(20)), float64(rng.Intn(20)))
		n := p.Len()
		switch op := rng.Intn(5); {
		case op == 0 || n == 0:
			p.AppendRecord(e)
		case op == 1:
			if _, err := p.InsertRecord(rng.Intn(n+1), e); err != nil {
				t.Fatalf("step %d: InsertRecord error = %v", step, err)
			}
		case op == 2:
			if _, err := p.UpdateRecord(rng.Intn(n), e); err != nil {
				t.Fatalf("step %d: UpdateRecord error = %v", step, err)
			}
		case op == 3:
			if err := p.DeleteRecord(rng.Intn(n)); err != nil {
				t.Fatalf("step %d: DeleteRecord error = %v", step, err)
			}
		default:
			p.SetInitialStock(Q(float64(rng.Intn(100))))
		}
		checkBalance(t, p)
	}
}

func TestPage_SelectRecord(t *testing.T) {
	p := NewPage(Q(1), Q(0))
	p.AppendRecord(move(1, 0))
	p.AppendRecord(move(1, 0))

	if !p.SelectRecord(0) || p.SelectedRecord() != 0 {
		t.Fatalf("SelectRecord(0) did not move the cursor")
	}
	for _, index := range []int{-1, 2} {
		if p.SelectRecord(index) {
			t.Errorf("SelectRecord(%d) = true, want false", index)
		}
		if p.SelectedRecord() != 0 {
			t.Errorf("SelectRecord(%d) moved the cursor to %d", index, p.SelectedRecord())
		}
	}
}
