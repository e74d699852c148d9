package sheetsync_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
	"github.com/oriharu-heaven/ExpenseTracker/internal/sheetsync"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store/inmemory"
)

type fakeAppender struct {
	rows  [][]interface{}
	calls int
	err   error
}

func (f *fakeAppender) AppendRows(ctx context.Context, values [][]interface{}) error {
	f.calls++
	if f.err != nil {
		return f.err
	}
	f.rows = append(f.rows, values...)
	return nil
}

func seedStore(t *testing.T) *inmemory.Store {
	t.Helper()
	st := inmemory.NewStore()
	day := func(d int) time.Time { return time.Date(2024, 5, d, 0, 0, 0, 0, time.UTC) }

	older := domain.NewRecord(day(1), "Coffee", 450, domain.CategoryFood)
	newer := domain.NewRecord(day(3), "Taxi", 2200, domain.CategoryTransport)
	already := domain.NewRecord(day(2), "Book", 1500, domain.CategoryInvestment)
	already.SyncedToSheets = true

	for _, rec := range []*domain.Record{older, newer, already} {
		if err := st.Insert(context.Background(), rec); err != nil {
			t.Fatalf("Insert(%s) error = %v", rec.Title, err)
		}
	}
	return st
}

func TestSyncRecords(t *testing.T) {
	st := seedStore(t)
	appender := &fakeAppender{}

	n, err := sheetsync.SyncRecords(context.Background(), st, appender, false)
	if err != nil {
		t.Fatalf("SyncRecords() error = %v", err)
	}
	if n != 2 {
		t.Errorf("exported %d records, want 2 (already-synced row skipped)", n)
	}
	if len(appender.rows) != 2 {
		t.Fatalf("sheet received %d rows, want 2", len(appender.rows))
	}

	// Appends land oldest expense first, ledger style.
	if got := appender.rows[0][1]; got != "Coffee" {
		t.Errorf("first row title = %v, want Coffee", got)
	}
	if got := appender.rows[1][1]; got != "Taxi" {
		t.Errorf("second row title = %v, want Taxi", got)
	}
	if got := appender.rows[0][0]; got != "2024/05/01" {
		t.Errorf("date cell = %v, want 2024/05/01", got)
	}
	if got := appender.rows[1][3]; got != "交通費" {
		t.Errorf("category cell = %v, want 交通費", got)
	}

	// All exported records are now flagged; a second run is a no-op.
	n, err = sheetsync.SyncRecords(context.Background(), st, appender, false)
	if err != nil {
		t.Fatalf("second SyncRecords() error = %v", err)
	}
	if n != 0 || len(appender.rows) != 2 {
		t.Errorf("second run exported %d, appended total %d rows; want 0 and 2", n, len(appender.rows))
	}
}

func TestSyncRecords_DryRun(t *testing.T) {
	st := seedStore(t)
	appender := &fakeAppender{}

	n, err := sheetsync.SyncRecords(context.Background(), st, appender, true)
	if err != nil {
		t.Fatalf("SyncRecords() error = %v", err)
	}
	if n != 2 {
		t.Errorf("dry run reported %d records, want 2", n)
	}
	if appender.calls != 0 {
		t.Errorf("dry run touched the sheet %d times", appender.calls)
	}

	// Nothing was flagged; a real run afterwards still exports both.
	n, err = sheetsync.SyncRecords(context.Background(), st, appender, false)
	if err != nil {
		t.Fatalf("SyncRecords() after dry run error = %v", err)
	}
	if n != 2 {
		t.Errorf("real run after dry run exported %d, want 2", n)
	}
}

func TestSyncRecords_AppendFailure(t *testing.T) {
	st := seedStore(t)
	appender := &fakeAppender{err: errors.New("quota exceeded")}

	if _, err := sheetsync.SyncRecords(context.Background(), st, appender, false); err == nil {
		t.Fatal("SyncRecords() succeeded despite append failure")
	}

	// No record may be flagged when the append never landed.
	records, _ := st.QueryAll(context.Background())
	for _, rec := range records {
		if rec.Title != "Book" && rec.SyncedToSheets {
			t.Errorf("record %s flagged synced after failed append", rec.Title)
		}
	}
}

func TestSyncRecords_EmptyStore(t *testing.T) {
	appender := &fakeAppender{}
	n, err := sheetsync.SyncRecords(context.Background(), inmemory.NewStore(), appender, false)
	if err != nil {
		t.Fatalf("SyncRecords() error = %v", err)
	}
	if n != 0 || appender.calls != 0 {
		t.Errorf("empty store: exported %d, calls %d; want 0 and 0", n, appender.calls)
	}
}
