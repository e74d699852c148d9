package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Record is the canonical validated expense record. This is a domain struct,
// not a storage row; each RecordStore implementation maps it into its own
// schema.
type Record struct {
	ID string `json:"id"`

	Date       time.Time `json:"date"` // calendar date, no time-of-day
	Title      string    `json:"title"`
	Amount     int       `json:"amount"`
	Category   Category  `json:"category"`
	IsBusiness bool      `json:"is_business"`
	Note       string    `json:"note"`

	LocationFrom string `json:"location_from"`
	LocationTo   string `json:"location_to"`

	// SourceImageHash fingerprints the originating receipt image. It is a
	// reconciliation hook for future duplicate detection; nothing enforces
	// uniqueness today.
	SourceImageHash string `json:"source_image_hash"`

	// SyncedToSheets tracks whether the record has been exported to the
	// spreadsheet. Owned by the sheet sync, never touched by the parsers.
	SyncedToSheets bool `json:"synced_to_sheets"`
}

// NewRecord creates a Record with a generated id and the given required
// fields. Optional fields default to their zero values.
func NewRecord(date time.Time, title string, amount int, category Category) *Record {
	return &Record{
		ID:       uuid.NewString(),
		Date:     truncateToDate(date),
		Title:    title,
		Amount:   amount,
		Category: category,
	}
}

// Validate checks the invariants every persisted record must hold.
func (r *Record) Validate() error {
	if r.ID == "" {
		return fmt.Errorf("record: missing id")
	}
	if r.Title == "" {
		return fmt.Errorf("record %s: empty title", r.ID)
	}
	if r.Amount < 0 {
		return fmt.Errorf("record %s: negative amount %d", r.ID, r.Amount)
	}
	if !r.Category.Valid() {
		return fmt.Errorf("record %s: unknown category %q", r.ID, r.Category)
	}
	if r.Date.IsZero() {
		return fmt.Errorf("record %s: zero date", r.ID)
	}
	return nil
}

func truncateToDate(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
