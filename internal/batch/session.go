// Package batch holds the editable in-memory batch between a receipt scan
// and its commit into the store. A Session is an explicit state machine
// (Empty → Scanning → Ready | Failed) so illegal operations, like committing
// while a scan is still running, are rejected structurally instead of by ad
// hoc flags.
package batch

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
	"github.com/oriharu-heaven/ExpenseTracker/internal/logger"
	"github.com/oriharu-heaven/ExpenseTracker/internal/receipt"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
)

// CommitDateLayout is the date format expected from the model and from user
// edits at commit time.
const CommitDateLayout = "2006-01-02"

// State is the lifecycle phase of a scan session.
type State string

const (
	// StateEmpty is the initial state; no scan has been submitted yet. A
	// committed session returns here with its batch cleared.
	StateEmpty State = "empty"
	// StateScanning means the image is at the model; only the scan itself
	// may move the session out of this state.
	StateScanning State = "scanning"
	// StateReady means a batch was decoded and may be edited, trimmed and
	// committed.
	StateReady State = "ready"
	// StateFailed means the scan attempt failed. The only way forward is a
	// new session with a new image.
	StateFailed State = "failed"
)

var (
	// ErrScanAlreadyStarted is returned by Scan on any session that is not
	// in its initial state.
	ErrScanAlreadyStarted = errors.New("scan already started for this session")
	// ErrBatchNotReady is returned by Edit, Delete and Commit unless the
	// session holds a decoded batch.
	ErrBatchNotReady = errors.New("batch is not ready")
	// ErrItemNotFound is returned when no batch item has the given id.
	ErrItemNotFound = errors.New("batch item not found")
)

// Item is one provisional record in the editable batch. Its fields mirror
// receipt.ParsedItem, still unnormalized, plus a stable id so individual
// rows can be addressed for edit and delete.
type Item struct {
	ID           string `json:"id"`
	Date         string `json:"date"`
	Title        string `json:"title"`
	Amount       int    `json:"amount"`
	Category     string `json:"category"`
	IsBusiness   bool   `json:"is_business"`
	LocationFrom string `json:"location_from"`
	LocationTo   string `json:"location_to"`
}

func newItem(p receipt.ParsedItem) Item {
	it := Item{
		ID:         uuid.NewString(),
		Date:       p.Date,
		Title:      p.Title,
		Amount:     p.Amount,
		Category:   p.Category,
		IsBusiness: p.IsBusiness,
	}
	if p.LocationFrom != nil {
		it.LocationFrom = *p.LocationFrom
	}
	if p.LocationTo != nil {
		it.LocationTo = *p.LocationTo
	}
	return it
}

// ItemEdit carries field replacements for one batch item. Nil fields are
// left untouched.
type ItemEdit struct {
	Date         *string `json:"date"`
	Title        *string `json:"title"`
	Amount       *int    `json:"amount"`
	Category     *string `json:"category"`
	IsBusiness   *bool   `json:"is_business"`
	LocationFrom *string `json:"location_from"`
	LocationTo   *string `json:"location_to"`
}

// InsertResult records the outcome of one item's insert during commit. The
// commit loop is best-effort and non-transactional; results are kept
// per-record so a stricter all-or-nothing mode can be layered on later.
type InsertResult struct {
	ItemID   string `json:"item_id"`
	RecordID string `json:"record_id,omitempty"`
	Err      error  `json:"-"`
}

// Session is one scan-and-commit flow. All methods are safe for concurrent
// use, but a batch itself is single-threaded: no two items of the same
// session are ever processed concurrently.
type Session struct {
	mu        sync.Mutex
	id        string
	state     State
	items     []Item
	failure   string
	imageHash string
	store     store.RecordStore
	now       func() time.Time // injected for the date-leniency tests
}

// NewSession creates a session in StateEmpty committing into the given store.
func NewSession(st store.RecordStore) *Session {
	return &Session{
		id:    uuid.NewString(),
		state: StateEmpty,
		store: st,
		now:   time.Now,
	}
}

// ID returns the session's stable identifier.
func (s *Session) ID() string {
	return s.id
}

// State returns the current lifecycle phase.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// Failure returns the human-readable reason the scan failed, or "" if it
// has not.
func (s *Session) Failure() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.failure
}

// Items returns a copy of the current batch in its edited order.
func (s *Session) Items() []Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	items := make([]Item, len(s.items))
	copy(items, s.items)
	return items
}

// Scan sends the image to the analyzer and decodes the result into an
// editable batch. It transitions Empty → Scanning, then Ready on success or
// Failed on any analyzer or parse error. Cancellation counts as a failure:
// the session ends in Failed, never partially Ready.
func (s *Session) Scan(ctx context.Context, analyzer receipt.Analyzer, imageBytes []byte, mimeType string) error {
	s.mu.Lock()
	if s.state != StateEmpty {
		s.mu.Unlock()
		return fmt.Errorf("session %s in state %q: %w", s.id, s.state, ErrScanAlreadyStarted)
	}
	s.state = StateScanning
	s.mu.Unlock()

	log := logger.FromContext(ctx)
	log.Info().Str("session_id", s.id).Int("image_bytes", len(imageBytes)).Msg("Starting receipt scan")

	rawText, err := analyzer.AnalyzeReceipt(ctx, imageBytes, mimeType)
	if err == nil {
		err = ctx.Err()
	}

	var parsed []receipt.ParsedItem
	if err == nil {
		parsed, err = receipt.Parse(rawText)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		s.state = StateFailed
		s.failure = err.Error()
		log.Error().Err(err).Str("session_id", s.id).Msg("Receipt scan failed")
		return err
	}

	hash := sha256.Sum256(imageBytes)
	s.imageHash = hex.EncodeToString(hash[:])
	s.items = make([]Item, 0, len(parsed))
	for _, p := range parsed {
		s.items = append(s.items, newItem(p))
	}
	s.state = StateReady

	log.Info().Str("session_id", s.id).Int("item_count", len(s.items)).Msg("Receipt scan ready")
	return nil
}

// Edit replaces fields of the addressed item in place. Only valid in
// StateReady; the store is untouched until commit.
func (s *Session) Edit(itemID string, edit ItemEdit) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return fmt.Errorf("session %s in state %q: %w", s.id, s.state, ErrBatchNotReady)
	}

	for i := range s.items {
		if s.items[i].ID != itemID {
			continue
		}
		it := &s.items[i]
		if edit.Date != nil {
			it.Date = *edit.Date
		}
		if edit.Title != nil {
			it.Title = *edit.Title
		}
		if edit.Amount != nil {
			it.Amount = *edit.Amount
		}
		if edit.Category != nil {
			it.Category = *edit.Category
		}
		if edit.IsBusiness != nil {
			it.IsBusiness = *edit.IsBusiness
		}
		if edit.LocationFrom != nil {
			it.LocationFrom = *edit.LocationFrom
		}
		if edit.LocationTo != nil {
			it.LocationTo = *edit.LocationTo
		}
		return nil
	}
	return fmt.Errorf("session %s: item %s: %w", s.id, itemID, ErrItemNotFound)
}

// Delete removes the addressed item from the batch. Only valid in StateReady.
func (s *Session) Delete(itemID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return fmt.Errorf("session %s in state %q: %w", s.id, s.state, ErrBatchNotReady)
	}

	for i := range s.items {
		if s.items[i].ID == itemID {
			s.items = append(s.items[:i], s.items[i+1:]...)
			return nil
		}
	}
	return fmt.Errorf("session %s: item %s: %w", s.id, itemID, ErrItemNotFound)
}

// Commit normalizes and persists the surviving items in their edited order,
// one insert per item with no rollback on partial failure. A date that does
// not parse as YYYY-MM-DD is replaced with today instead of rejecting the
// item, so a malformed model date never blocks an otherwise good record.
// Committing an empty batch performs no store operation. Either way the
// batch is cleared and the session returns to StateEmpty.
func (s *Session) Commit(ctx context.Context) ([]InsertResult, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state != StateReady {
		return nil, fmt.Errorf("session %s in state %q: %w", s.id, s.state, ErrBatchNotReady)
	}

	log := logger.FromContext(ctx)
	results := make([]InsertResult, 0, len(s.items))

	for _, it := range s.items {
		date, err := time.Parse(CommitDateLayout, it.Date)
		if err != nil {
			date = s.now()
		}
		category := domain.CategoryFromLabel(it.Category)

		rec := domain.NewRecord(date, it.Title, it.Amount, category)
		rec.IsBusiness = it.IsBusiness
		rec.Note = "" // notes are never populated from extraction
		rec.LocationFrom = it.LocationFrom
		rec.LocationTo = it.LocationTo
		rec.SourceImageHash = s.imageHash

		res := InsertResult{ItemID: it.ID, RecordID: rec.ID}
		if err := s.store.Insert(ctx, rec); err != nil {
			res.RecordID = ""
			res.Err = err
			log.Error().Err(err).Str("session_id", s.id).Str("item_id", it.ID).Msg("Batch item insert failed")
		}
		results = append(results, res)
	}

	log.Info().Str("session_id", s.id).Int("committed", len(results)).Msg("Batch commit finished")

	s.items = nil
	s.imageHash = ""
	s.failure = ""
	s.state = StateEmpty

	return results, nil
}
