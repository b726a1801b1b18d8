// Package entry implements the manual batch-entry and quantity-split
// endpoints.
package entry

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/zoepiqian/bufferplan/api/respond"
	"github.com/zoepiqian/bufferplan/core/order"
	"github.com/zoepiqian/bufferplan/core/session"
	"github.com/zoepiqian/bufferplan/infra/logger"
)

// BatchHandler serves the /api/batch endpoints.
type BatchHandler struct {
	store *session.MemoryStore
	log   logger.Logger
}

// NewBatchHandler creates the batch-entry handler.
func NewBatchHandler(store *session.MemoryStore, log logger.Logger) *BatchHandler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &BatchHandler{store: store, log: log}
}

// Register mounts the handler's routes on mux.
func (h *BatchHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/batch", h.get)
	mux.HandleFunc("/api/batch/rows", h.rows)
	mux.HandleFunc("/api/batch/client", h.client)
	mux.HandleFunc("/api/batch/submit", h.submit)
}

func (h *BatchHandler) get(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.MethodNotAllowed(w)
		return
	}
	b, err := h.store.Batch(r.URL.Query().Get("planner"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	if b.Entries == nil {
		b.Entries = []order.Order{}
	}
	respond.JSON(w, http.StatusOK, b)
}

type rowRequest struct {
	Planner string     `json:"planner"`
	ID      string     `json:"id,omitempty"`
	CAD     string     `json:"cad"`
	Qty     int        `json:"qty"`
	Date    order.Date `json:"arrival_date"`
}

func (h *BatchHandler) rows(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		var req rowRequest
		if err := decode(r, &req); err != nil {
			respond.ErrorStatus(w, http.StatusBadRequest, err)
			return
		}
		entry, err := h.store.AddEntry(req.Planner, order.Order{CAD: req.CAD, Qty: req.Qty, Arrival: req.Date})
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusCreated, entry)
	case http.MethodPut:
		var req rowRequest
		if err := decode(r, &req); err != nil {
			respond.ErrorStatus(w, http.StatusBadRequest, err)
			return
		}
		err := h.store.UpdateEntry(req.Planner, order.Order{ID: req.ID, CAD: req.CAD, Qty: req.Qty, Arrival: req.Date})
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "updated"})
	case http.MethodDelete:
		q := r.URL.Query()
		if err := h.store.RemoveEntry(q.Get("planner"), q.Get("id")); err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		respond.MethodNotAllowed(w)
	}
}

func (h *BatchHandler) client(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPut {
		respond.MethodNotAllowed(w)
		return
	}
	var req struct {
		Planner string `json:"planner"`
		Client  string `json:"client"`
	}
	if err := decode(r, &req); err != nil {
		respond.ErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.SelectClient(req.Planner, req.Client); err != nil {
		respond.Error(w, err)
		return
	}
	respond.JSON(w, http.StatusOK, map[string]string{"status": "selected"})
}

func (h *BatchHandler) submit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respond.MethodNotAllowed(w)
		return
	}
	var req struct {
		Planner string `json:"planner"`
	}
	if err := decode(r, &req); err != nil {
		respond.ErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	n, err := h.store.SubmitBatch(req.Planner)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.log.Infof("batch submitted: planner=%s rows=%d", req.Planner, n)
	respond.JSON(w, http.StatusOK, map[string]int{"submitted": n})
}

func decode(r *http.Request, v any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(v); err != nil {
		return fmt.Errorf("decode request: %w", err)
	}
	return nil
}
