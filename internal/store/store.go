// Package store defines the record store contract the ingestion pipeline
// writes into. The pipeline treats the store as externally synchronized and
// performs no locking or retry of its own; each call is a single synchronous
// operation from the pipeline's point of view.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
)

// ErrNotFound is returned by Update and Delete when no record has the id.
var ErrNotFound = errors.New("record not found")

// RecordUpdate carries the mutated fields for an Update call. Nil fields are
// left untouched.
type RecordUpdate struct {
	Date           *time.Time
	Title          *string
	Amount         *int
	Category       *domain.Category
	IsBusiness     *bool
	Note           *string
	LocationFrom   *string
	LocationTo     *string
	SyncedToSheets *bool
}

// RecordStore is the persistent store the pipeline commits into. Insert must
// assign durability before returning; QueryAll must reflect all prior
// inserts, updates and deletes from the same process, sorted by date
// descending.
type RecordStore interface {
	Insert(ctx context.Context, rec *domain.Record) error
	Update(ctx context.Context, id string, upd RecordUpdate) error
	Delete(ctx context.Context, id string) error
	QueryAll(ctx context.Context) ([]*domain.Record, error)
}
