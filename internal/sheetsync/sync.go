// Package sheetsync exports committed expense records to a Google Sheet.
// Records carry a synced_to_sheets flag; the sync appends every unsynced
// record and flips the flag through the store, so reruns only pick up what
// is new. The export is best-effort and append-only: rows already in the
// sheet are never rewritten.
package sheetsync

import (
	"context"
	"fmt"

	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
	"github.com/oriharu-heaven/ExpenseTracker/internal/logger"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
)

// RowAppender is the slice of the spreadsheet API the sync needs. The
// concrete Google Sheets implementation lives in sheets.go; tests substitute
// their own.
type RowAppender interface {
	AppendRows(ctx context.Context, values [][]interface{}) error
}

// SyncRecords appends every record with synced_to_sheets == false to the
// sheet, oldest expense date first, then marks them synced in the store. It
// returns the number of records exported. With dryRun set, it only reports
// what would be exported.
func SyncRecords(ctx context.Context, st store.RecordStore, appender RowAppender, dryRun bool) (int, error) {
	log := logger.FromContext(ctx)

	records, err := st.QueryAll(ctx)
	if err != nil {
		return 0, fmt.Errorf("sheetsync: query records: %w", err)
	}

	var pending []*domain.Record
	for _, rec := range records {
		if !rec.SyncedToSheets {
			pending = append(pending, rec)
		}
	}

	log.Info().
		Int("record_count", len(records)).
		Int("pending_count", len(pending)).
		Bool("dry_run", dryRun).
		Msg("Starting sheet sync")

	if len(pending) == 0 {
		return 0, nil
	}

	// QueryAll is newest-first; the ledger appends oldest-first.
	values := make([][]interface{}, 0, len(pending))
	for i := len(pending) - 1; i >= 0; i-- {
		values = append(values, recordRow(pending[i]))
	}

	if dryRun {
		log.Info().Int("would_export", len(pending)).Msg("Dry run, skipping append")
		return len(pending), nil
	}

	if err := appender.AppendRows(ctx, values); err != nil {
		return 0, fmt.Errorf("sheetsync: append rows: %w", err)
	}

	synced := true
	for _, rec := range pending {
		if err := st.Update(ctx, rec.ID, store.RecordUpdate{SyncedToSheets: &synced}); err != nil {
			// The row is already in the sheet; losing the flag means the
			// record is re-exported next run. Log and keep going.
			log.Error().Err(err).Str("record_id", rec.ID).Msg("Failed to mark record synced")
		}
	}

	log.Info().Int("exported", len(pending)).Msg("Sheet sync finished")
	return len(pending), nil
}

func recordRow(rec *domain.Record) []interface{} {
	return []interface{}{
		rec.Date.Format("2006/01/02"),
		rec.Title,
		rec.Amount,
		rec.Category.Label(),
		rec.IsBusiness,
		rec.Note,
		rec.LocationFrom,
		rec.LocationTo,
		rec.ID,
	}
}
