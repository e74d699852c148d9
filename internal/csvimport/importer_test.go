package csvimport_test

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/oriharu-heaven/ExpenseTracker/internal/csvimport"
	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store/inmemory"
)

func TestImport_SingleValidRow(t *testing.T) {
	st := inmemory.NewStore()
	result := csvimport.New(st).Import(context.Background(), "2024/05/01,Lunch,1200,食費")

	if result.SuccessCount != 1 {
		t.Fatalf("SuccessCount = %d, want 1 (errors: %v)", result.SuccessCount, result.Errors)
	}
	if len(result.Errors) != 0 {
		t.Fatalf("Errors = %v, want none", result.Errors)
	}

	rec := result.Records[0]
	if want := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC); !rec.Date.Equal(want) {
		t.Errorf("Date = %v, want %v", rec.Date, want)
	}
	if rec.Title != "Lunch" {
		t.Errorf("Title = %q, want Lunch", rec.Title)
	}
	if rec.Amount != 1200 {
		t.Errorf("Amount = %d, want 1200", rec.Amount)
	}
	if rec.Category != domain.CategoryFood {
		t.Errorf("Category = %q, want CategoryFood", rec.Category)
	}
	if rec.IsBusiness {
		t.Error("CSV import must never set the business flag")
	}
	if st.Len() != 1 {
		t.Errorf("store has %d records, want 1", st.Len())
	}
}

func TestImport_RowErrors(t *testing.T) {
	tests := []struct {
		name      string
		line      string
		wantError string
	}{
		{
			name:      "too few columns",
			line:      "2024/05/01,Lunch,1200",
			wantError: "1行目: フォーマット不正 (カラム不足)",
		},
		{
			name:      "invalid month",
			line:      "2024/13/01,Lunch,1200,食費",
			wantError: "1行目: 日付形式エラー (2024/13/01)",
		},
		{
			name:      "wrong date layout",
			line:      "2024-05-01,Lunch,1200,食費",
			wantError: "1行目: 日付形式エラー (2024-05-01)",
		},
		{
			name:      "negative amount",
			line:      "2024/05/01,Taxi,-50,交通費",
			wantError: "1行目: 金額エラー (-50)",
		},
		{
			name:      "non-numeric amount",
			line:      "2024/05/01,Taxi,abc,交通費",
			wantError: "1行目: 金額エラー (abc)",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			st := inmemory.NewStore()
			result := csvimport.New(st).Import(context.Background(), tt.line)

			if result.SuccessCount != 0 {
				t.Errorf("SuccessCount = %d, want 0", result.SuccessCount)
			}
			if len(result.Errors) != 1 || result.Errors[0] != tt.wantError {
				t.Errorf("Errors = %v, want [%q]", result.Errors, tt.wantError)
			}
			if st.Len() != 0 {
				t.Errorf("store has %d records, want 0", st.Len())
			}
		})
	}
}

func TestImport_ErrorReferencesPhysicalLine(t *testing.T) {
	csv := "日付,項目,金額,カテゴリ\n2024/13/01,Lunch,1200,食費"
	result := csvimport.New(inmemory.NewStore()).Import(context.Background(), csv)

	if len(result.Errors) != 1 {
		t.Fatalf("Errors = %v, want exactly one", result.Errors)
	}
	if want := "2行目: 日付形式エラー (2024/13/01)"; result.Errors[0] != want {
		t.Errorf("error = %q, want %q", result.Errors[0], want)
	}
}

func TestImport_SkipsHeadersAndBlankLines(t *testing.T) {
	csv := strings.Join([]string{
		"日付,項目,金額,カテゴリ",
		"",
		"date,title,amount,category",
		"   ",
		"2024/05/01,Lunch,1200,食費",
	}, "\n")

	result := csvimport.New(inmemory.NewStore()).Import(context.Background(), csv)
	if result.SuccessCount != 1 || len(result.Errors) != 0 {
		t.Errorf("got %d successes, errors %v; want 1 success, no errors",
			result.SuccessCount, result.Errors)
	}
}

func TestImport_PartialSuccess(t *testing.T) {
	csv := strings.Join([]string{
		"2024/05/01,Lunch,1200,食費",
		"broken line",
		"2024/05/02,Taxi,-50,交通費",
		"2024/05/03,Books,2000,自己投資",
	}, "\n")

	st := inmemory.NewStore()
	result := csvimport.New(st).Import(context.Background(), csv)

	if result.SuccessCount != 2 {
		t.Errorf("SuccessCount = %d, want 2", result.SuccessCount)
	}
	if len(result.Errors) != 2 {
		t.Errorf("Errors = %v, want 2 entries", result.Errors)
	}
	// successCount + errors covers every non-skipped line.
	if result.SuccessCount+len(result.Errors) != 4 {
		t.Errorf("successes(%d) + errors(%d) != 4 non-skipped lines",
			result.SuccessCount, len(result.Errors))
	}
	// Errors come back in line order.
	if !strings.HasPrefix(result.Errors[0], "2行目:") || !strings.HasPrefix(result.Errors[1], "3行目:") {
		t.Errorf("errors out of line order: %v", result.Errors)
	}
	if st.Len() != 2 {
		t.Errorf("store has %d records, want 2", st.Len())
	}
}

func TestImport_NewlineConventions(t *testing.T) {
	tests := []struct {
		name string
		csv  string
	}{
		{name: "LF", csv: "2024/05/01,A,1,食費\n2024/05/02,B,2,食費"},
		{name: "CRLF", csv: "2024/05/01,A,1,食費\r\n2024/05/02,B,2,食費"},
		{name: "CR", csv: "2024/05/01,A,1,食費\r2024/05/02,B,2,食費"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := csvimport.New(inmemory.NewStore()).Import(context.Background(), tt.csv)
			if result.SuccessCount != 2 || len(result.Errors) != 0 {
				t.Errorf("got %d successes, errors %v; want 2 successes",
					result.SuccessCount, result.Errors)
			}
		})
	}
}

func TestImport_CategoryNormalization(t *testing.T) {
	csv := strings.Join([]string{
		"2024/05/01,A,1, 交通費 ", // surrounding whitespace trimmed
		"2024/05/02,B,2,unknown", // unknown label falls back to Other
	}, "\n")

	result := csvimport.New(inmemory.NewStore()).Import(context.Background(), csv)
	if result.SuccessCount != 2 {
		t.Fatalf("SuccessCount = %d, want 2 (errors: %v)", result.SuccessCount, result.Errors)
	}
	if got := result.Records[0].Category; got != domain.CategoryTransport {
		t.Errorf("category = %q, want CategoryTransport", got)
	}
	if got := result.Records[1].Category; got != domain.CategoryOther {
		t.Errorf("category = %q, want CategoryOther", got)
	}
}

func TestImport_ExtraColumnsIgnored(t *testing.T) {
	result := csvimport.New(inmemory.NewStore()).
		Import(context.Background(), "2024/05/01,Lunch,1200,食費,extra,columns")
	if result.SuccessCount != 1 || len(result.Errors) != 0 {
		t.Errorf("got %d successes, errors %v; want 1 success", result.SuccessCount, result.Errors)
	}
}

// failingStore rejects every insert.
type failingStore struct{}

func (failingStore) Insert(ctx context.Context, rec *domain.Record) error {
	return errors.New("store unavailable")
}
func (failingStore) Update(ctx context.Context, id string, upd store.RecordUpdate) error {
	return errors.New("store unavailable")
}
func (failingStore) Delete(ctx context.Context, id string) error {
	return errors.New("store unavailable")
}
func (failingStore) QueryAll(ctx context.Context) ([]*domain.Record, error) {
	return nil, errors.New("store unavailable")
}

func TestImport_InsertFailureIsRowError(t *testing.T) {
	result := csvimport.New(failingStore{}).Import(context.Background(), "2024/05/01,Lunch,1200,食費")
	if result.SuccessCount != 0 {
		t.Errorf("SuccessCount = %d, want 0", result.SuccessCount)
	}
	if len(result.Errors) != 1 || !strings.HasPrefix(result.Errors[0], "1行目:") {
		t.Errorf("Errors = %v, want one error for line 1", result.Errors)
	}
}
