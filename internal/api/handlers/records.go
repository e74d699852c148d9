package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/rs/zerolog"

	"github.com/oriharu-heaven/ExpenseTracker/internal/api/middleware"
	"github.com/oriharu-heaven/ExpenseTracker/internal/batch"
	"github.com/oriharu-heaven/ExpenseTracker/internal/domain"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
)

// RecordsHandler exposes the record store: list, edit and delete.
type RecordsHandler struct {
	store store.RecordStore
	log   zerolog.Logger
}

// NewRecordsHandler creates a records handler.
func NewRecordsHandler(st store.RecordStore, log zerolog.Logger) *RecordsHandler {
	return &RecordsHandler{store: st, log: log}
}

// ListRecords handles GET /api/records, newest expense date first.
func (h *RecordsHandler) ListRecords(w http.ResponseWriter, r *http.Request) {
	records, err := h.store.QueryAll(r.Context())
	if err != nil {
		h.log.Error().Err(err).Msg("Failed to list records")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to list records")
		return
	}
	if records == nil {
		records = []*domain.Record{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"records": records,
		"count":   len(records),
	})
}

// recordPatch is the wire shape of a record edit. Date uses the same
// YYYY-MM-DD form the scan flow edits with.
type recordPatch struct {
	Date         *string `json:"date"`
	Title        *string `json:"title"`
	Amount       *int    `json:"amount"`
	Category     *string `json:"category"`
	IsBusiness   *bool   `json:"is_business"`
	Note         *string `json:"note"`
	LocationFrom *string `json:"location_from"`
	LocationTo   *string `json:"location_to"`
}

// UpdateRecord handles PATCH /api/records/{id}.
func (h *RecordsHandler) UpdateRecord(w http.ResponseWriter, r *http.Request) {
	var patch recordPatch
	if err := json.NewDecoder(r.Body).Decode(&patch); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	upd := store.RecordUpdate{
		Title:        patch.Title,
		Amount:       patch.Amount,
		IsBusiness:   patch.IsBusiness,
		Note:         patch.Note,
		LocationFrom: patch.LocationFrom,
		LocationTo:   patch.LocationTo,
	}
	if patch.Date != nil {
		date, err := time.Parse(batch.CommitDateLayout, *patch.Date)
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Date must be YYYY-MM-DD")
			return
		}
		upd.Date = &date
	}
	if patch.Category != nil {
		category := domain.CategoryFromLabel(*patch.Category)
		upd.Category = &category
	}

	if err := h.store.Update(r.Context(), r.PathValue("id"), upd); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Record not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to update record")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to update record")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "updated"})
}

// DeleteRecord handles DELETE /api/records/{id}.
func (h *RecordsHandler) DeleteRecord(w http.ResponseWriter, r *http.Request) {
	if err := h.store.Delete(r.Context(), r.PathValue("id")); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			middleware.WriteError(w, http.StatusNotFound, "Record not found")
			return
		}
		h.log.Error().Err(err).Msg("Failed to delete record")
		middleware.WriteError(w, http.StatusInternalServerError, "Failed to delete record")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]string{"status": "deleted"})
}
