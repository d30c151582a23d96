package inventory

import (
	"context"
	"errors"
	"sync"
	"testing"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/mamadbah2/warehouse/internal/domain/ledger"
	"github.com/mamadbah2/warehouse/internal/repository"
)

// memStore is an in-memory repository.Store.
type memStore struct {
	doc     *ledger.Document
	loadErr error
	saveErr error
	saves   int
}

func (m *memStore) Load(context.Context) (ledger.Document, error) {
	if m.loadErr != nil {
		return ledger.Document{}, m.loadErr
	}
	if m.doc == nil {
		return ledger.Document{}, repository.ErrNotFound
	}
	return *m.doc, nil
}

func (m *memStore) Save(_ context.Context, doc ledger.Document) error {
	if m.saveErr != nil {
		return m.saveErr
	}
	m.doc = &doc
	m.saves++
	return nil
}

func (m *memStore) Close(context.Context) error { return nil }

// blockingStore holds every Save until release is closed.
type blockingStore struct {
	memStore
	mu      sync.Mutex
	started chan struct{}
	release chan struct{}
}

func newBlockingStore() *blockingStore {
	return &blockingStore{started: make(chan struct{}, 1), release: make(chan struct{})}
}

func (b *blockingStore) Save(ctx context.Context, doc ledger.Document) error {
	select {
	case b.started <- struct{}{}:
	default:
	}
	<-b.release
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.memStore.Save(ctx, doc)
}

func (b *blockingStore) stored() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.doc == nil {
		return 0
	}
	return len(b.doc.Products)
}

func seeded(t *testing.T, store *memStore) (*Service, ledger.Path) {
	t.Helper()
	svc := NewService(store, nil)
	p := svc.CreateProduct("flour", "kg")
	sh, err := svc.CreateSheet(p, 2025, 4)
	if err != nil {
		t.Fatal(err)
	}
	path, err := svc.CreatePage(p, sh, ledger.Q(2), ledger.Q(0))
	if err != nil {
		t.Fatal(err)
	}
	return svc, path
}

func TestService_LoadMissingStartsEmpty(t *testing.T) {
	svc := NewService(&memStore{}, nil)
	if err := svc.Load(context.Background()); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	summary := svc.Summary()
	if summary == nil || len(summary) != 0 {
		t.Errorf("Summary() = %#v, want empty non-nil slice", summary)
	}
}

func TestService_SaveLoad(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	svc, path := seeded(t, store)
	for _, e := range []ledger.Entry{{Input: ledger.Q(10)}, {Input: ledger.Q(5), Output: ledger.Q(3)}, {Output: ledger.Q(2)}} {
		if _, _, err := svc.AppendRecord(path, e, nil); err != nil {
			t.Fatal(err)
		}
	}
	if !svc.Dirty() {
		t.Fatal("Dirty() = false after mutations")
	}
	if err := svc.Save(ctx); err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if svc.Dirty() {
		t.Error("Dirty() = true after Save")
	}

	other := NewService(store, nil)
	if err := other.Load(ctx); err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	view, err := other.Page(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Records) != 3 || !view.ClosingStock.Equal(ledger.Q(10)) {
		t.Errorf("reloaded page = %+v", view)
	}
}

func TestService_LoadFailureKeepsLedger(t *testing.T) {
	store := &memStore{}
	svc, _ := seeded(t, store)

	store.loadErr = repository.ErrIO
	if err := svc.Load(context.Background()); !errors.Is(err, repository.ErrIO) {
		t.Errorf("Load() error = %v, want ErrIO", err)
	}
	if len(svc.Summary()) != 1 {
		t.Error("in-memory ledger replaced after failed load")
	}

	store.loadErr = nil
	bad := 2
	store.doc = &ledger.Document{Products: []ledger.ProductDoc{{Name: nil, Sheets: []ledger.SheetDoc{{Month: &bad}}}}}
	if err := svc.Load(context.Background()); !errors.Is(err, ledger.ErrMalformedState) {
		t.Errorf("Load() error = %v, want ErrMalformedState", err)
	}
	if len(svc.Summary()) != 1 {
		t.Error("in-memory ledger replaced after malformed load")
	}
}

func TestService_SaveFailureKeepsDirty(t *testing.T) {
	store := &memStore{saveErr: repository.ErrIO}
	svc, _ := seeded(t, store)

	if err := svc.Save(context.Background()); !errors.Is(err, repository.ErrIO) {
		t.Fatalf("Save() error = %v, want ErrIO", err)
	}
	if !svc.Dirty() {
		t.Error("Dirty() = false after failed save")
	}
}

func TestService_Flush(t *testing.T) {
	ctx := context.Background()
	store := &memStore{}
	svc, path := seeded(t, store)

	saved, err := svc.Flush(ctx)
	if err != nil || !saved {
		t.Fatalf("Flush() = %v, %v; want true, nil", saved, err)
	}
	saved, err = svc.Flush(ctx)
	if err != nil || saved {
		t.Fatalf("second Flush() = %v, %v; want false, nil", saved, err)
	}

	if _, err := svc.SelectPage(path); err != nil {
		t.Fatal(err)
	}
	if svc.Dirty() {
		t.Error("selection marked the ledger dirty")
	}
	if store.saves != 1 {
		t.Errorf("saves = %d, want 1", store.saves)
	}
}

func TestService_FailedMutationIsNotDirty(t *testing.T) {
	svc := NewService(&memStore{}, nil)
	if err := svc.DeleteProduct(0); !errors.Is(err, ledger.ErrOutOfRange) {
		t.Fatalf("DeleteProduct(0) error = %v", err)
	}
	if _, err := svc.CreateSheet(0, 2025, 1); !errors.Is(err, ledger.ErrOutOfRange) {
		t.Fatalf("CreateSheet() error = %v", err)
	}
	if svc.Dirty() {
		t.Error("Dirty() = true after rejected mutations")
	}
}

func TestService_RecordLifecycle(t *testing.T) {
	svc, path := seeded(t, &memStore{})
	if _, err := svc.UpdatePage(path, nil, ptr(ledger.Q(100))); err != nil {
		t.Fatal(err)
	}

	rec, index, err := svc.AppendRecord(path, ledger.Entry{Output: ledger.Q(20)}, nil)
	if err != nil || index != 0 || !rec.ClosingStock.Equal(ledger.Q(80)) {
		t.Fatalf("AppendRecord() = %+v, %d, %v", rec, index, err)
	}
	rec, _, _ = svc.AppendRecord(path, ledger.Entry{Input: ledger.Q(50)}, nil)
	if !rec.OpeningStock.Equal(ledger.Q(80)) || !rec.ClosingStock.Equal(ledger.Q(130)) {
		t.Fatalf("second AppendRecord() = %+v", rec)
	}

	rec, index, err = svc.AppendRecord(path, ledger.Entry{Input: ledger.Q(1)}, ptr(0))
	if err != nil || index != 0 || !rec.ClosingStock.Equal(ledger.Q(101)) {
		t.Fatalf("insert at 0 = %+v, %d, %v", rec, index, err)
	}

	if _, err := svc.UpdateRecord(path, 1, ledger.Entry{Output: ledger.Q(1)}); err != nil {
		t.Fatal(err)
	}
	if err := svc.DeleteRecord(path, 0); err != nil {
		t.Fatal(err)
	}

	view, err := svc.Page(path)
	if err != nil {
		t.Fatal(err)
	}
	if !view.ClosingStock.Equal(ledger.Q(149)) {
		t.Errorf("ClosingStock = %s, want 149", view.ClosingStock)
	}

	summary := svc.Summary()
	pg := summary[0].Sheets[0].Pages[0]
	if pg.Records != 2 || !pg.StockValue.Equal(ledger.Q(298)) {
		t.Errorf("page summary = %+v", pg)
	}

	if _, _, err := svc.AppendRecord(path, ledger.Entry{}, ptr(9)); !errors.Is(err, ledger.ErrOutOfRange) {
		t.Errorf("insert at 9 error = %v, want ErrOutOfRange", err)
	}
}

func TestService_Selection(t *testing.T) {
	svc, path := seeded(t, &memStore{})
	svc.CreateProduct("sugar", "kg")

	if !svc.SelectProduct(0) {
		t.Fatal("SelectProduct(0) = false")
	}
	if svc.SelectProduct(5) {
		t.Error("SelectProduct(5) = true")
	}
	if ok, err := svc.SelectPage(ledger.Path{Product: 0, Sheet: 0, Page: 3}); ok || err != nil {
		t.Errorf("SelectPage(out of bounds) = %v, %v; want false, nil", ok, err)
	}
	if _, err := svc.SelectSheet(7, 0); !errors.Is(err, ledger.ErrOutOfRange) {
		t.Errorf("SelectSheet(7, 0) error = %v", err)
	}

	sel := svc.Selection()
	if sel.Product != 0 || sel.Sheet != path.Sheet || sel.Page != path.Page {
		t.Errorf("Selection() = %+v", sel)
	}
}

func TestService_ConcurrentAppends(t *testing.T) {
	svc, path := seeded(t, &memStore{})

	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, _ = svc.AppendRecord(path, ledger.Entry{Input: ledger.Q(2), Output: ledger.Q(1)}, nil)
		}()
	}
	wg.Wait()

	view, err := svc.Page(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(view.Records) != 50 || !view.ClosingStock.Equal(ledger.Q(50)) {
		t.Errorf("after concurrent appends: %d records, closing %s", len(view.Records), view.ClosingStock)
	}
}

func TestService_MutationDuringSaveStaysDirty(t *testing.T) {
	store := newBlockingStore()
	svc := NewService(store, nil)
	svc.CreateProduct("flour", "kg")

	done := make(chan error, 1)
	go func() { done <- svc.Save(context.Background()) }()

	<-store.started
	svc.CreateProduct("sugar", "kg")
	close(store.release)

	if err := <-done; err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if got := store.stored(); got != 1 {
		t.Fatalf("stored products after first save = %d, want 1", got)
	}
	if !svc.Dirty() {
		t.Fatal("Dirty() = false after a change made during Save")
	}

	saved, err := svc.Flush(context.Background())
	if err != nil || !saved {
		t.Fatalf("Flush() = %v, %v; want true, nil", saved, err)
	}
	if got := store.stored(); got != 2 {
		t.Errorf("stored products after Flush = %d, want 2", got)
	}
	if svc.Dirty() {
		t.Error("Dirty() = true after a quiet Flush")
	}
}

func TestService_SelectionDuringSaveIsClean(t *testing.T) {
	store := newBlockingStore()
	svc := NewService(store, nil)
	svc.CreateProduct("flour", "kg")

	done := make(chan error, 1)
	go func() { done <- svc.Save(context.Background()) }()

	<-store.started
	svc.SelectProduct(0)
	close(store.release)

	if err := <-done; err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if svc.Dirty() {
		t.Error("Dirty() = true although only the selection changed during Save")
	}
}

func TestService_WarnsOnNegativeClosingStock(t *testing.T) {
	core, logs := observer.New(zapcore.WarnLevel)
	svc := NewService(&memStore{}, zap.New(core))
	p := svc.CreateProduct("flour", "kg")
	sh, err := svc.CreateSheet(p, 2025, 4)
	if err != nil {
		t.Fatal(err)
	}
	path, err := svc.CreatePage(p, sh, ledger.Q(2), ledger.Q(3))
	if err != nil {
		t.Fatal(err)
	}

	if _, _, err := svc.AppendRecord(path, ledger.Entry{Output: ledger.Q(2)}, nil); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("closing stock below zero").Len(); n != 0 {
		t.Fatalf("warnings after a positive balance = %d, want 0", n)
	}

	rec, _, err := svc.AppendRecord(path, ledger.Entry{Output: ledger.Q(5)}, nil)
	if err != nil || !rec.ClosingStock.Equal(ledger.Q(-4)) {
		t.Fatalf("AppendRecord() = %+v, %v", rec, err)
	}
	if _, err := svc.UpdateRecord(path, 0, ledger.Entry{Output: ledger.Q(4)}); err != nil {
		t.Fatal(err)
	}
	if n := logs.FilterMessage("closing stock below zero").Len(); n != 2 {
		t.Errorf("warnings = %d, want 2", n)
	}
}

func ptr[T any](v T) *T { return &v }
