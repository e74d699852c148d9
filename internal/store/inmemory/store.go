// Package inmemory provides a RecordStore held entirely in memory. It backs
// tests and local runs; data is lost on restart.
package inmemory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
)

// Store is an in-memory implementation of store.RecordStore. It is safe for
// concurrent use.
type Store struct {
	mu      sync.RWMutex
	records map[string]*domain.Record
	order   map[string]int // insertion sequence, tie-breaker for equal dates
	seq     int
}

// NewStore creates an empty in-memory record store.
func NewStore() *Store {
	return &Store{
		records: make(map[string]*domain.Record),
		order:   make(map[string]int),
	}
}

// Insert implements store.RecordStore. The record is validated before it is
// accepted; an invalid record is never made durable.
func (s *Store) Insert(ctx context.Context, rec *domain.Record) error {
	if rec == nil {
		return fmt.Errorf("inmemory: nil record")
	}
	if err := rec.Validate(); err != nil {
		return fmt.Errorf("inmemory: %w", err)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[rec.ID]; exists {
		return fmt.Errorf("inmemory: duplicate record id %s", rec.ID)
	}

	// Copy to keep the stored value isolated from caller mutation.
	cp := *rec
	s.records[rec.ID] = &cp
	s.order[rec.ID] = s.seq
	s.seq++
	return nil
}

// Update implements store.RecordStore. Nil fields on upd are left untouched.
func (s *Store) Update(ctx context.Context, id string, upd store.RecordUpdate) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, exists := s.records[id]
	if !exists {
		return fmt.Errorf("inmemory: update %s: %w", id, store.ErrNotFound)
	}

	// Apply on a copy so a failed validation leaves the record untouched.
	rec := *cur

	if upd.Date != nil {
		rec.Date = *upd.Date
	}
	if upd.Title != nil {
		rec.Title = *upd.Title
	}
	if upd.Amount != nil {
		rec.Amount = *upd.Amount
	}
	if upd.Category != nil {
		rec.Category = *upd.Category
	}
	if upd.IsBusiness != nil {
		rec.IsBusiness = *upd.IsBusiness
	}
	if upd.Note != nil {
		rec.Note = *upd.Note
	}
	if upd.LocationFrom != nil {
		rec.LocationFrom = *upd.LocationFrom
	}
	if upd.LocationTo != nil {
		rec.LocationTo = *upd.LocationTo
	}
	if upd.SyncedToSheets != nil {
		rec.SyncedToSheets = *upd.SyncedToSheets
	}

	if err := rec.Validate(); err != nil {
		return fmt.Errorf("inmemory: update %s: %w", id, err)
	}
	*cur = rec
	return nil
}

// Delete implements store.RecordStore.
func (s *Store) Delete(ctx context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.records[id]; !exists {
		return fmt.Errorf("inmemory: delete %s: %w", id, store.ErrNotFound)
	}
	delete(s.records, id)
	delete(s.order, id)
	return nil
}

// QueryAll implements store.RecordStore. Records are returned newest date
// first; records on the same date keep insertion order.
func (s *Store) QueryAll(ctx context.Context) ([]*domain.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Record, 0, len(s.records))
	for _, rec := range s.records {
		cp := *rec
		result = append(result, &cp)
	}

	sort.SliceStable(result, func(i, j int) bool {
		if !result[i].Date.Equal(result[j].Date) {
			return result[i].Date.After(result[j].Date)
		}
		return s.order[result[i].ID] < s.order[result[j].ID]
	})
	return result, nil
}

// Len returns the number of stored records.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.records)
}

// Ensure Store implements the RecordStore interface.
var _ store.RecordStore = (*Store)(nil)
