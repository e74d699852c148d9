// Package handlers implements the HTTP surface of the ingestion pipeline:
// CSV import, scan sessions with edit/delete/commit, and the record store
// endpoints.
package handlers

import (
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/oriharu-heaven/ExpenseTracker/internal/api/middleware"
	"github.com/oriharu-heaven/ExpenseTracker/internal/csvimport"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
)

// maxCSVBytes bounds the accepted CSV body.
const maxCSVBytes = 10 << 20

// ImportHandler handles CSV import requests.
type ImportHandler struct {
	importer *csvimport.Importer
	log      zerolog.Logger
}

// NewImportHandler creates a handler importing into the given store.
func NewImportHandler(st store.RecordStore, log zerolog.Logger) *ImportHandler {
	return &ImportHandler{
		importer: csvimport.New(st),
		log:      log,
	}
}

// ImportCSV handles POST /api/import/csv. The request body is the raw CSV
// text; the response reports the committed row count and one message per
// rejected row, in line order.
func (h *ImportHandler) ImportCSV(w http.ResponseWriter, r *http.Request) {
	body, err := io.ReadAll(io.LimitReader(r.Body, maxCSVBytes))
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Failed to read request body")
		return
	}
	if len(body) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "CSV body is empty")
		return
	}

	result := h.importer.Import(r.Context(), string(body))

	recordsImported.Add(float64(result.SuccessCount))
	importErrors.Add(float64(len(result.Errors)))

	errs := result.Errors
	if errs == nil {
		errs = []string{}
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"success_count": result.SuccessCount,
		"errors":        errs,
	})
}
