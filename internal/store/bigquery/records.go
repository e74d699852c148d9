// Package bigquery implements the RecordStore on BigQuery. Expense records
// live in a single table; streaming inserts give durability before Insert
// returns, and updates/deletes run as parameterized DML.
package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"cloud.google.com/go/civil"

	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
)

// RecordRow is the BigQuery schema for one expense record.
type RecordRow struct {
	RecordID        string     `bigquery:"record_id"`
	ExpenseDate     civil.Date `bigquery:"expense_date"`
	Title           string     `bigquery:"title"`
	Amount          int64      `bigquery:"amount"`
	Category        string     `bigquery:"category"`
	IsBusiness      bool       `bigquery:"is_business"`
	Note            string     `bigquery:"note"`
	LocationFrom    string     `bigquery:"location_from"`
	LocationTo      string     `bigquery:"location_to"`
	SourceImageHash string     `bigquery:"source_image_hash"`
	SyncedToSheets  bool       `bigquery:"synced_to_sheets"`
	CreatedTS       time.Time  `bigquery:"created_ts"`
}

func rowFromRecord(rec *domain.Record) *RecordRow {
	return &RecordRow{
		RecordID:        rec.ID,
		ExpenseDate:     civil.DateOf(rec.Date),
		Title:           rec.Title,
		Amount:          int64(rec.Amount),
		Category:        rec.Category.Label(),
		IsBusiness:      rec.IsBusiness,
		Note:            rec.Note,
		LocationFrom:    rec.LocationFrom,
		LocationTo:      rec.LocationTo,
		SourceImageHash: rec.SourceImageHash,
		SyncedToSheets:  rec.SyncedToSheets,
		CreatedTS:       time.Now(),
	}
}

func (r *RecordRow) toRecord() *domain.Record {
	return &domain.Record{
		ID:              r.RecordID,
		Date:            r.ExpenseDate.In(time.UTC),
		Title:           r.Title,
		Amount:          int(r.Amount),
		Category:        domain.CategoryFromLabel(r.Category),
		IsBusiness:      r.IsBusiness,
		Note:            r.Note,
		LocationFrom:    r.LocationFrom,
		LocationTo:      r.LocationTo,
		SourceImageHash: r.SourceImageHash,
		SyncedToSheets:  r.SyncedToSheets,
	}
}

// Store is the BigQuery-backed implementation of store.RecordStore.
type Store struct {
	client    *bigquery.Client
	projectID string
	datasetID string
	tableID   string
}

// NewStore creates a Store with a shared BigQuery client.
func NewStore(ctx context.Context, projectID, datasetID, tableID string) (*Store, error) {
	client, err := bigquery.NewClient(ctx, projectID)
	if err != nil {
		return nil, fmt.Errorf("NewStore: bigquery client: %w", err)
	}
	return &Store{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
		tableID:   tableID,
	}, nil
}

// Close closes the BigQuery client connection.
func (s *Store) Close() error {
	if s.client != nil {
		return s.client.Close()
	}
	return nil
}

// Ensure Store implements the RecordStore interface.
var _ store.RecordStore = (*Store)(nil)
