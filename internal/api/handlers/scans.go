package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/rs/zerolog"

	"github.com/oriharu-heaven/ExpenseTracker/internal/api/middleware"
	"github.com/oriharu-heaven/ExpenseTracker/internal/batch"
	"github.com/oriharu-heaven/ExpenseTracker/internal/gcs"
	"github.com/oriharu-heaven/ExpenseTracker/internal/receipt"
	"github.com/oriharu-heaven/ExpenseTracker/internal/store"
)

// maxImageBytes bounds the accepted receipt image.
const maxImageBytes = 20 << 20

// ScansHandler hosts scan sessions: create (analyze an image), inspect,
// edit, delete items, and commit.
type ScansHandler struct {
	registry *batch.Registry
	store    store.RecordStore
	analyzer receipt.Analyzer
	log      zerolog.Logger
}

// NewScansHandler creates a scans handler.
func NewScansHandler(registry *batch.Registry, st store.RecordStore, analyzer receipt.Analyzer, log zerolog.Logger) *ScansHandler {
	return &ScansHandler{
		registry: registry,
		store:    st,
		analyzer: analyzer,
		log:      log,
	}
}

type scanResponse struct {
	SessionID string       `json:"session_id"`
	State     batch.State  `json:"state"`
	Items     []batch.Item `json:"items"`
	Error     string       `json:"error,omitempty"`
}

func sessionBody(s *batch.Session) scanResponse {
	items := s.Items()
	if items == nil {
		items = []batch.Item{}
	}
	return scanResponse{
		SessionID: s.ID(),
		State:     s.State(),
		Items:     items,
		Error:     s.Failure(),
	}
}

// CreateScan handles POST /api/scans. The image arrives either as the
// multipart field "image" or as JSON {"gcs_uri": "gs://..."}. The scan runs
// synchronously; the response carries the resulting state, Ready with items
// or Failed with the reason.
func (h *ScansHandler) CreateScan(w http.ResponseWriter, r *http.Request) {
	imageBytes, mimeType, err := h.readImage(r)
	if err != nil {
		middleware.WriteError(w, http.StatusBadRequest, err.Error())
		return
	}

	session := h.registry.Create(h.store)
	if err := session.Scan(r.Context(), h.analyzer, imageBytes, mimeType); err != nil {
		scansProcessed.WithLabelValues("failed").Inc()
	} else {
		scansProcessed.WithLabelValues("ready").Inc()
	}

	middleware.WriteJSON(w, http.StatusCreated, sessionBody(session))
}

// GetScan handles GET /api/scans/{id}.
func (h *ScansHandler) GetScan(w http.ResponseWriter, r *http.Request) {
	session, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Scan session not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, sessionBody(session))
}

// EditItem handles PATCH /api/scans/{id}/items/{itemID}. The body carries
// the replaced fields; absent fields stay as they are.
func (h *ScansHandler) EditItem(w http.ResponseWriter, r *http.Request) {
	session, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Scan session not found")
		return
	}

	var edit batch.ItemEdit
	if err := json.NewDecoder(r.Body).Decode(&edit); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	if err := session.Edit(r.PathValue("itemID"), edit); err != nil {
		h.writeSessionError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, sessionBody(session))
}

// DeleteItem handles DELETE /api/scans/{id}/items/{itemID}.
func (h *ScansHandler) DeleteItem(w http.ResponseWriter, r *http.Request) {
	session, err := h.registry.Get(r.PathValue("id"))
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Scan session not found")
		return
	}

	if err := session.Delete(r.PathValue("itemID")); err != nil {
		h.writeSessionError(w, err)
		return
	}
	middleware.WriteJSON(w, http.StatusOK, sessionBody(session))
}

type commitResult struct {
	ItemID   string `json:"item_id"`
	RecordID string `json:"record_id,omitempty"`
	Error    string `json:"error,omitempty"`
}

// CommitScan handles POST /api/scans/{id}/commit. Inserts are best-effort
// per record; the response lists each item's outcome. The session leaves the
// registry either way, ending the flow.
func (h *ScansHandler) CommitScan(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	session, err := h.registry.Get(id)
	if err != nil {
		middleware.WriteError(w, http.StatusNotFound, "Scan session not found")
		return
	}

	results, err := session.Commit(r.Context())
	if err != nil {
		h.writeSessionError(w, err)
		return
	}

	committed := 0
	body := make([]commitResult, 0, len(results))
	for _, res := range results {
		cr := commitResult{ItemID: res.ItemID, RecordID: res.RecordID}
		if res.Err != nil {
			cr.Error = res.Err.Error()
		} else {
			committed++
		}
		body = append(body, cr)
	}
	recordsCommitted.Add(float64(committed))

	if err := h.registry.Remove(id); err != nil {
		h.log.Warn().Err(err).Str("session_id", id).Msg("Failed to drop committed session")
	}

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"committed": committed,
		"failed":    len(results) - committed,
		"results":   body,
	})
}

func (h *ScansHandler) readImage(r *http.Request) ([]byte, string, error) {
	contentType := r.Header.Get("Content-Type")

	if contentType == "application/json" {
		var req struct {
			GCSURI string `json:"gcs_uri"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.GCSURI == "" {
			return nil, "", errors.New("gcs_uri is required")
		}
		data, mimeType, err := gcs.FetchImage(r.Context(), req.GCSURI)
		if err != nil {
			return nil, "", err
		}
		return data, mimeType, nil
	}

	file, header, err := r.FormFile("image")
	if err != nil {
		return nil, "", errors.New("multipart field 'image' is required")
	}
	defer file.Close()

	data, err := io.ReadAll(io.LimitReader(file, maxImageBytes))
	if err != nil {
		return nil, "", errors.New("failed to read image")
	}

	mimeType := header.Header.Get("Content-Type")
	if mimeType == "" {
		mimeType = http.DetectContentType(data)
	}
	return data, mimeType, nil
}

func (h *ScansHandler) writeSessionError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, batch.ErrItemNotFound):
		middleware.WriteError(w, http.StatusNotFound, "Batch item not found")
	case errors.Is(err, batch.ErrBatchNotReady), errors.Is(err, batch.ErrScanAlreadyStarted):
		middleware.WriteError(w, http.StatusConflict, err.Error())
	default:
		middleware.WriteError(w, http.StatusInternalServerError, err.Error())
	}
}
