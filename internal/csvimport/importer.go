// Package csvimport turns user-supplied CSV text into validated expense
// records. Rows are processed strictly in file order; a malformed row is
// reported and skipped without aborting the rest of the file, and every
// valid row is committed to the store as soon as it validates.
package csvimport

import (
	"context"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
	"github.com/oriharu-heaven/ExpenseTracker/internal/logger"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
)

// DateLayout is the expected date format of the first CSV column.
const DateLayout = "2006/01/02"

// headerTokens are the localized "date" labels that mark a header row. The
// check is a case-sensitive prefix match, not a schema check; a data row
// that happens to start with one of these tokens is skipped too. That
// heuristic is kept as-is for compatibility with existing files.
var headerTokens = []string{"日付", "date"}

// Result is what a CSV import returns: how many rows were committed, the
// committed records in file order, and one human-readable message per
// rejected row, also in file order.
type Result struct {
	SuccessCount int
	Records      []*domain.Record
	Errors       []string
}

// Importer parses CSV text and inserts each valid row into the store.
type Importer struct {
	store store.RecordStore
}

// New creates an Importer committing into the given store.
func New(st store.RecordStore) *Importer {
	return &Importer{store: st}
}

// Import parses the CSV text line by line. Expected columns per data row:
// date (yyyy/MM/dd), title, amount (non-negative integer), category label.
// Fields are split on "," with no quote handling; embedded commas are a
// documented format limitation.
func (imp *Importer) Import(ctx context.Context, text string) Result {
	log := logger.FromContext(ctx)

	var result Result
	for i, line := range splitLines(text) {
		lineNumber := i + 1
		trimmed := strings.TrimSpace(line)

		if trimmed == "" || isHeader(trimmed) {
			continue
		}

		columns := strings.Split(trimmed, ",")
		if len(columns) < 4 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%d行目: フォーマット不正 (カラム不足)", lineNumber))
			continue
		}

		date, err := time.Parse(DateLayout, columns[0])
		if err != nil {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%d行目: 日付形式エラー (%s)", lineNumber, columns[0]))
			continue
		}

		amount, err := strconv.Atoi(columns[2])
		if err != nil || amount < 0 {
			result.Errors = append(result.Errors,
				fmt.Sprintf("%d行目: 金額エラー (%s)", lineNumber, columns[2]))
			continue
		}

		// Title is taken verbatim; category is trimmed and mapped through
		// the infallible lookup. CSV import never sets the business flag.
		title := columns[1]
		category := domain.CategoryFromLabel(strings.TrimSpace(columns[3]))

		rec := domain.NewRecord(date, title, amount, category)
		if err := imp.store.Insert(ctx, rec); err != nil {
			log.Error().Err(err).Int("line", lineNumber).Msg("CSV row insert failed")
			result.Errors = append(result.Errors,
				fmt.Sprintf("%d行目: 保存エラー (%v)", lineNumber, err))
			continue
		}

		result.Records = append(result.Records, rec)
		result.SuccessCount++
	}

	log.Info().
		Int("success_count", result.SuccessCount).
		Int("error_count", len(result.Errors)).
		Msg("CSV import finished")

	return result
}

// splitLines splits on any newline convention.
func splitLines(text string) []string {
	normalized := strings.ReplaceAll(text, "\r\n", "\n")
	normalized = strings.ReplaceAll(normalized, "\r", "\n")
	return strings.Split(normalized, "\n")
}

func isHeader(trimmed string) bool {
	for _, token := range headerTokens {
		if strings.HasPrefix(trimmed, token) {
			return true
		}
	}
	return false
}
