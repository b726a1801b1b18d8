// Package report implements the aggregated-view, statistics and export
// endpoints.
package report

import (
	"fmt"
	"net/http"
	"time"

	"github.com/zoepiqian/bufferplan/api/respond"
	"github.com/zoepiqian/bufferplan/core/order"
	"github.com/zoepiqian/bufferplan/core/report"
	"github.com/zoepiqian/bufferplan/core/session"
	"github.com/zoepiqian/bufferplan/infra/logger"
	"github.com/zoepiqian/bufferplan/pkg/export"
)

// Meta describes the configured entry options surfaced to clients.
type Meta struct {
	Planners          []string `json:"planners"`
	Clients           []string `json:"clients"`
	DefaultSplitTotal int      `json:"default_split_total"`
	DefaultSplitSize  int      `json:"default_split_size"`
}

// Handler serves the read-side endpoints.
type Handler struct {
	store *session.MemoryStore
	meta  Meta
	log   logger.Logger
	now   func() time.Time
}

// NewHandler creates the reporting handler.
func NewHandler(store *session.MemoryStore, meta Meta, log logger.Logger) *Handler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &Handler{store: store, meta: meta, log: log, now: time.Now}
}

// Register mounts the handler's routes on mux.
func (h *Handler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/meta", h.metaHandler)
	mux.HandleFunc("/api/summary", h.summary)
	mux.HandleFunc("/api/summary/stats", h.stats)
	mux.HandleFunc("/api/summary/export", h.exportSummary)
	mux.HandleFunc("/api/history", h.history)
	mux.HandleFunc("/api/history/export", h.exportHistory)
}

func (h *Handler) metaHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.MethodNotAllowed(w)
		return
	}
	respond.JSON(w, http.StatusOK, h.meta)
}

func (h *Handler) summary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.MethodNotAllowed(w)
		return
	}
	rows, err := report.Aggregate(h.store)
	if err != nil {
		respond.ErrorStatus(w, http.StatusInternalServerError, err)
		return
	}
	respond.JSON(w, http.StatusOK, rows)
}

type statsResponse struct {
	By     report.GroupBy      `json:"by"`
	Groups []report.GroupTotal `json:"groups"`
	Stats  report.Stats        `json:"stats"`
}

func (h *Handler) stats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.MethodNotAllowed(w)
		return
	}
	by := report.GroupBy(r.URL.Query().Get("by"))
	if by == "" {
		by = report.ByClient
	}
	rows, err := report.Aggregate(h.store)
	if err != nil {
		respond.ErrorStatus(w, http.StatusInternalServerError, err)
		return
	}
	groups, err := report.GroupTotals(rows, by)
	if err != nil {
		respond.ErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	respond.JSON(w, http.StatusOK, statsResponse{By: by, Groups: groups, Stats: report.Describe(rows)})
}

func (h *Handler) exportSummary(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.MethodNotAllowed(w)
		return
	}
	rows, err := report.Aggregate(h.store)
	if err != nil {
		respond.ErrorStatus(w, http.StatusInternalServerError, err)
		return
	}
	name := r.URL.Query().Get("name")
	if name == "" {
		name = "buffer_summary"
	}
	h.writeExport(w, r.URL.Query().Get("format"), name, export.ToTemplate(rows, h.now()))
}

func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.MethodNotAllowed(w)
		return
	}
	rows, err := h.store.Submitted(r.URL.Query().Get("planner"))
	if err != nil {
		respond.Error(w, err)
		return
	}
	if rows == nil {
		rows = []order.Order{}
	}
	respond.JSON(w, http.StatusOK, rows)
}

func (h *Handler) exportHistory(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		respond.MethodNotAllowed(w)
		return
	}
	planner := r.URL.Query().Get("planner")
	rows, err := h.store.Submitted(planner)
	if err != nil {
		respond.Error(w, err)
		return
	}
	now := h.now()
	name := fmt.Sprintf("%s_template_export_%s", planner, now.Format("20060102"))
	h.writeExport(w, "csv", name, export.ToTemplate(rows, now))
}

func (h *Handler) writeExport(w http.ResponseWriter, format, name string, rows []export.Row) {
	if format == "" {
		format = "csv"
	}
	var err error
	switch format {
	case "csv":
		w.Header().Set("Content-Type", "text/csv; charset=utf-8")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".csv"))
		err = export.WriteCSV(w, rows)
	case "xlsx":
		w.Header().Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", name+".xlsx"))
		err = export.WriteXLSX(w, rows)
	case "json":
		w.Header().Set("Content-Type", "application/json")
		err = export.WriteJSON(w, rows)
	default:
		respond.ErrorStatus(w, http.StatusBadRequest, fmt.Errorf("unknown export format %q", format))
		return
	}
	if err != nil {
		// Headers are already written; the truncated body is all we can
		// signal. Log and move on.
		h.log.Errorf("export %s: %v", format, err)
	}
}
