package bigquery

import (
	"context"
	"fmt"
	"strings"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"
	"google.golang.org/api/iterator"

	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
)

// Insert streams one record row into the expenses table.
func (s *Store) Insert(ctx context.Context, rec *domain.Record) error {
	if rec == nil {
		return fmt.Errorf("Insert: nil record")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("Insert: %w", err)
	}

	table := s.client.DatasetInProject(s.projectID, s.datasetID).Table(s.tableID)
	if err := table.Inserter().Put(ctx, rowFromRecord(rec)); err != nil {
		return fmt.Errorf("Insert: inserting row %s: %w", rec.ID, err)
	}
	return nil
}

// Update runs a parameterized DML UPDATE for the non-nil fields of upd.
func (s *Store) Update(ctx context.Context, id string, upd store.RecordUpdate) error {
	var (
		sets   []string
		params = []bigquery.QueryParameter{{Name: "record_id", Value: id}}
	)

	addSet := func(column, param string, value interface{}) {
		sets = append(sets, fmt.Sprintf("%s = @%s", column, param))
		params = append(params, bigquery.QueryParameter{Name: param, Value: value})
	}

	if upd.Date != nil {
		addSet("expense_date", "expense_date", civil.DateOf(*upd.Date))
	}
	if upd.Title != nil {
		addSet("title", "title", *upd.Title)
	}
	if upd.Amount != nil {
		addSet("amount", "amount", int64(*upd.Amount))
	}
	if upd.Category != nil {
		addSet("category", "category", upd.Category.Label())
	}
	if upd.IsBusiness != nil {
		addSet("is_business", "is_business", *upd.IsBusiness)
	}
	if upd.Note != nil {
		addSet("note", "note", *upd.Note)
	}
	if upd.LocationFrom != nil {
		addSet("location_from", "location_from", *upd.LocationFrom)
	}
	if upd.LocationTo != nil {
		addSet("location_to", "location_to", *upd.LocationTo)
	}
	if upd.SyncedToSheets != nil {
		addSet("synced_to_sheets", "synced_to_sheets", *upd.SyncedToSheets)
	}

	if len(sets) == 0 {
		return nil
	}

	q := s.client.Query(fmt.Sprintf(`
		UPDATE %s.%s
		SET %s
		WHERE record_id = @record_id
	`, s.datasetID, s.tableID, strings.Join(sets, ", ")))
	q.Parameters = params

	affected, err := s.runDML(ctx, q, "Update")
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("Update: %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// Delete removes the record row by id.
func (s *Store) Delete(ctx context.Context, id string) error {
	q := s.client.Query(fmt.Sprintf(`
		DELETE FROM %s.%s
		WHERE record_id = @record_id
	`, s.datasetID, s.tableID))
	q.Parameters = []bigquery.QueryParameter{{Name: "record_id", Value: id}}

	affected, err := s.runDML(ctx, q, "Delete")
	if err != nil {
		return err
	}
	if affected == 0 {
		return fmt.Errorf("Delete: %s: %w", id, store.ErrNotFound)
	}
	return nil
}

// QueryAll returns every record, newest expense date first.
func (s *Store) QueryAll(ctx context.Context) ([]*domain.Record, error) {
	q := s.client.Query(fmt.Sprintf(`
		SELECT
			record_id,
			expense_date,
			title,
			amount,
			category,
			is_business,
			note,
			location_from,
			location_to,
			source_image_hash,
			synced_to_sheets,
			created_ts
		FROM %s.%s
		ORDER BY expense_date DESC, created_ts DESC
	`, s.datasetID, s.tableID))

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("QueryAll: running query: %w", err)
	}

	var records []*domain.Record
	for {
		var row RecordRow
		err := it.Next(&row)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("QueryAll: reading row: %w", err)
		}
		records = append(records, row.toRecord())
	}
	return records, nil
}

func (s *Store) runDML(ctx context.Context, q *bigquery.Query, op string) (int64, error) {
	job, err := q.Run(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: running query: %w", op, err)
	}
	status, err := job.Wait(ctx)
	if err != nil {
		return 0, fmt.Errorf("%s: waiting for job: %w", op, err)
	}
	if err := status.Err(); err != nil {
		return 0, fmt.Errorf("%s: job error: %w", op, err)
	}
	if qs, ok := status.Statistics.Details.(*bigquery.QueryStatistics); ok {
		return qs.NumDMLAffectedRows, nil
	}
	return 0, nil
}
