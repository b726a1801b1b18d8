package entry

import (
	"net/http"

	"github.com/zoepiqian/bufferplan/api/respond"
	"github.com/zoepiqian/bufferplan/core/order"
	"github.com/zoepiqian/bufferplan/core/session"
	"github.com/zoepiqian/bufferplan/infra/logger"
)

// SplitDefaults pre-fill the split form when the request omits a value.
type SplitDefaults struct {
	Total int
	Size  int
}

// SplitHandler serves the /api/split endpoints.
type SplitHandler struct {
	store    *session.MemoryStore
	defaults SplitDefaults
	log      logger.Logger
}

// NewSplitHandler creates the quantity-split handler.
func NewSplitHandler(store *session.MemoryStore, defaults SplitDefaults, log logger.Logger) *SplitHandler {
	if log == nil {
		log = logger.NopLogger{}
	}
	return &SplitHandler{store: store, defaults: defaults, log: log}
}

// Register mounts the handler's routes on mux.
func (h *SplitHandler) Register(mux *http.ServeMux) {
	mux.HandleFunc("/api/split", h.plan)
	mux.HandleFunc("/api/split/rows", h.rows)
	mux.HandleFunc("/api/split/confirm", h.confirm)
}

type splitRequest struct {
	Planner string     `json:"planner"`
	Client  string     `json:"client"`
	CAD     string     `json:"cad"`
	Total   int        `json:"total"`
	Size    int        `json:"size"`
	Date    order.Date `json:"base_date"`
}

// planView is the plan plus the drift between requested and current total.
type planView struct {
	*order.SplitPlan
	CurrentTotal int `json:"current_total"`
}

func (h *SplitHandler) plan(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		h.generate(w, r)
	case http.MethodGet:
		p, err := h.store.SplitPlan(r.URL.Query().Get("planner"))
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, planView{SplitPlan: p, CurrentTotal: p.CurrentTotal()})
	case http.MethodDelete:
		if err := h.store.DiscardSplit(r.URL.Query().Get("planner")); err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "discarded"})
	default:
		respond.MethodNotAllowed(w)
	}
}

func (h *SplitHandler) generate(w http.ResponseWriter, r *http.Request) {
	var req splitRequest
	if err := decode(r, &req); err != nil {
		respond.ErrorStatus(w, http.StatusBadRequest, err)
		return
	}
	if req.Total == 0 {
		req.Total = h.defaults.Total
	}
	if req.Size == 0 {
		req.Size = h.defaults.Size
	}
	plan, err := order.NewSplitPlan(req.Client, req.CAD, req.Total, req.Size, req.Date)
	if err != nil {
		respond.Error(w, err)
		return
	}
	if err := h.store.StageSplit(req.Planner, plan); err != nil {
		respond.Error(w, err)
		return
	}
	h.log.Infof("split staged: planner=%s cad=%s total=%d size=%d rows=%d",
		req.Planner, req.CAD, req.Total, req.Size, len(plan.Rows))
	respond.JSON(w, http.StatusCreated, planView{SplitPlan: plan, CurrentTotal: plan.CurrentTotal()})
}

type splitRowRequest struct {
	Planner string      `json:"planner"`
	ID      string      `json:"id"`
	Qty     *int        `json:"qty,omitempty"`
	Date    *order.Date `json:"arrival_date,omitempty"`
}

func (h *SplitHandler) rows(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPatch:
		var req splitRowRequest
		if err := decode(r, &req); err != nil {
			respond.ErrorStatus(w, http.StatusBadRequest, err)
			return
		}
		if req.Qty != nil {
			if err := h.store.EditSplitQty(req.Planner, req.ID, *req.Qty); err != nil {
				respond.Error(w, err)
				return
			}
		}
		if req.Date != nil {
			if err := h.store.EditSplitDate(req.Planner, req.ID, *req.Date); err != nil {
				respond.Error(w, err)
				return
			}
		}
		p, err := h.store.SplitPlan(req.Planner)
		if err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, planView{SplitPlan: p, CurrentTotal: p.CurrentTotal()})
	case http.MethodDelete:
		q := r.URL.Query()
		if err := h.store.RemoveSplitRow(q.Get("planner"), q.Get("id")); err != nil {
			respond.Error(w, err)
			return
		}
		respond.JSON(w, http.StatusOK, map[string]string{"status": "deleted"})
	default:
		respond.MethodNotAllowed(w)
	}
}

func (h *SplitHandler) confirm(w http.ResponseWriter, r *http.Request) {
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
	n, err := h.store.ConfirmSplit(req.Planner)
	if err != nil {
		respond.Error(w, err)
		return
	}
	h.log.Infof("split confirmed: planner=%s rows=%d", req.Planner, n)
	respond.JSON(w, http.StatusOK, map[string]int{"submitted": n})
}
