// Package upload implements the order-file upload endpoints.
package upload

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/zoepiqian/bufferplan/api/respond"
	"github.com/zoepiqian/bufferplan/core/order"
	"github.com/zoepiqian/bufferplan/core/session"
	"github.com/zoepiqian/bufferplan/infra/logger"
	"github.com/zoepiqian/bufferplan/internal/ingest"
)

// previewRows caps how many parsed rows are echoed back after an upload.
const previewRows = 10

// Handler serves /api/upload.
type Handler struct {
	store    *session.MemoryStore
	maxBytes int64
	log      logger.Logger
}

// NewHandler creates the upload handler. maxBytes caps the accepted file
// size.
func NewHandler(store *session.MemoryStore, maxBytes int64, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{store: store, maxBytes: maxBytes, log: log}
}

// Register mounts the handler's routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/upload", h.handle)
}

func (h *Handler) handle(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		h.get(w, r)
	case http.MethodPost:
		h.post(w, r)
	default:
		respond.MethodNotAllowed(w)
	}
}

type uploadResponse struct {
	Rows    int           `json:"rows"`
	Preview []order.Order `json:"preview"`
}

func (h *Handler) post(w http.ResponseWriter, r *http.Request) {
	planner := r.URL.Query().Get("planner")
	r.Body = http.MaxBytesReader(w, r.Body, h.maxBytes)
	if err := r.ParseMultipartForm(h.maxBytes); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) || strings.Contains(err.Error(), "request body too large") {
			respond.ErrorStatus(w, http.StatusRequestEntityTooLarge,
				fmt.Errorf("file exceeds %d bytes", h.maxBytes))
			return
		}
		respond.ErrorStatus(w, http.StatusBadRequest, fmt.Errorf("parse form: %w", err))
		return
	}
	if planner == "" {
		planner = r.FormValue("planner")
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		respond.ErrorStatus(w, http.StatusBadRequest, fmt.Errorf("missing file field"))
		return
	}
	defer func() { _ = file.Close() }()

	rows, err := ingest.ReadFile(file, header.Filename)
	if err != nil {
		respond.ErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	if err := h.store.ReplaceUpload(planner, rows); err != nil {
		respond.Error(w, err)
		return
	}
	h.log.Infof("upload accepted: planner=%s file=%s rows=%d", planner, header.Filename, len(rows))

	preview := rows
	if len(preview) > previewRows {
		preview = preview[:previewRows]
	}
	respond.JSON(w, http.StatusOK, uploadResponse{Rows: len(rows), Preview: preview})
}

func (h *Handler) get(w http.ResponseWriter, r *http.Request) {
	rows, err := h.store.Upload(r.URL.Query().Get("planner"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	if rows == nil {
		rows = []order.Order{}
	}
	respond.JSON(w, http.StatusOK, rows)
}
