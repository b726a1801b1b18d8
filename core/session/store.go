// Package session holds the transient per-planner working state: the
// uploaded table, the batch draft, the pending split plan and the submitted
// table. Everything lives in memory for the lifetime of the process.
package session

import (
	"errors"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/zoepiqian/bufferplan/core/events"
	"github.com/zoepiqian/bufferplan/core/order"
	"github.com/zoepiqian/bufferplan/internal/eventbus"
)

var (
	// ErrUnknownPlanner is returned for operations against a planner that
	// is not in the configured set.
	ErrUnknownPlanner = errors.New("unknown planner")
	// ErrUnknownClient is returned when a client outside the configured
	// list is selected.
	ErrUnknownClient = errors.New("unknown client")
	// ErrNoSplitPlan is returned when a split operation runs without a
	// staged plan.
	ErrNoSplitPlan = errors.New("no split plan staged")
	// ErrEntryNotFound is returned when a batch entry id does not exist.
	ErrEntryNotFound = errors.New("batch entry not found")
)

// Batch is one planner's manual-entry draft: a shared client plus the rows
// typed so far.
type Batch struct {
	Client  string        `json:"client"`
	Entries []order.Order `json:"entries"`
}

// Store exposes the per-planner session state.
type Store interface {
	Planners() []string

	ReplaceUpload(planner string, rows []order.Order) error
	Upload(planner string) ([]order.Order, error)

	SelectClient(planner, client string) error
	AddEntry(planner string, entry order.Order) (order.Order, error)
	UpdateEntry(planner string, entry order.Order) error
	RemoveEntry(planner, id string) error
	Batch(planner string) (Batch, error)
	SubmitBatch(planner string) (int, error)

	StageSplit(planner string, plan *order.SplitPlan) error
	SplitPlan(planner string) (*order.SplitPlan, error)
	EditSplitQty(planner, id string, qty int) error
	EditSplitDate(planner, id string, d order.Date) error
	RemoveSplitRow(planner, id string) error
	ConfirmSplit(planner string) (int, error)
	DiscardSplit(planner string) error

	Submitted(planner string) ([]order.Order, error)
	Reset(planner string) error
}

type plannerState struct {
	upload    []order.Order
	batch     Batch
	split     *order.SplitPlan
	submitted []order.Order
}

// MemoryStore is the in-memory Store implementation. A single RWMutex
// guards all planners; contention is irrelevant at this scale.
type MemoryStore struct {
	mu       sync.RWMutex
	order    []string
	clients  []string
	planners map[string]*plannerState
	bus      eventbus.EventBus
}

var _ Store = (*MemoryStore)(nil)

// NewMemoryStore creates a store for the configured planners and clients.
// Events are published on bus when rows land; bus may be nil.
func NewMemoryStore(planners, clients []string, bus eventbus.EventBus) *MemoryStore {
	s := &MemoryStore{
		order:    append([]string(nil), planners...),
		clients:  append([]string(nil), clients...),
		planners: make(map[string]*plannerState, len(planners)),
		bus:      bus,
	}
	for _, p := range planners {
		s.planners[p] = &plannerState{}
	}
	return s
}

// Planners returns the configured planner names in configuration order.
func (s *MemoryStore) Planners() []string {
	return append([]string(nil), s.order...)
}

// Clients returns the configured client list.
func (s *MemoryStore) Clients() []string {
	return append([]string(nil), s.clients...)
}

func (s *MemoryStore) state(planner string) (*plannerState, error) {
	st, ok := s.planners[planner]
	if !ok {
		return nil, ErrUnknownPlanner
	}
	return st, nil
}

func (s *MemoryStore) knownClient(client string) bool {
	if len(s.clients) == 0 {
		return true
	}
	for _, c := range s.clients {
		if c == client {
			return true
		}
	}
	return false
}

func (s *MemoryStore) publish(e eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(e)
	}
}

// ReplaceUpload swaps the planner's uploaded table for rows. Uploading a
// new file always replaces the previous one wholesale.
func (s *MemoryStore) ReplaceUpload(planner string, rows []order.Order) error {
	s.mu.Lock()
	st, err := s.state(planner)
	if err != nil {
		s.mu.Unlock()
		return err
	}
	st.upload = make([]order.Order, len(rows))
	for i, r := range rows {
		r.Source = order.SourceUpload
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		st.upload[i] = r
	}
	n := len(st.upload)
	s.mu.Unlock()

	s.publish(events.UploadEvent{Planner: planner, Rows: n, Time: time.Now()})
	return nil
}

// Upload returns a copy of the planner's uploaded table.
func (s *MemoryStore) Upload(planner string) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, err := s.state(planner)
	if err != nil {
		return nil, err
	}
	return append([]order.Order(nil), st.upload...), nil
}

// SelectClient sets the shared client for the planner's batch draft. An
// empty client clears the selection.
func (s *MemoryStore) SelectClient(planner, client string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.state(planner)
	if err != nil {
		return err
	}
	if client != "" && !s.knownClient(client) {
		return ErrUnknownClient
	}
	st.batch.Client = client
	return nil
}

// AddEntry appends a draft row and returns it with its assigned id. A zero
// arrival date defaults to today, matching the entry form.
func (s *MemoryStore) AddEntry(planner string, entry order.Order) (order.Order, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.state(planner)
	if err != nil {
		return order.Order{}, err
	}
	entry.ID = uuid.NewString()
	entry.Source = order.SourceManual
	if entry.Arrival.IsZero() {
		entry.Arrival = order.Today()
	}
	st.batch.Entries = append(st.batch.Entries, entry)
	return entry, nil
}

// UpdateEntry replaces the draft row identified by entry.ID.
func (s *MemoryStore) UpdateEntry(planner string, entry order.Order) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.state(planner)
	if err != nil {
		return err
	}
	for i := range st.batch.Entries {
		if st.batch.Entries[i].ID == entry.ID {
			entry.Source = order.SourceManual
			st.batch.Entries[i] = entry
			return nil
		}
	}
	return ErrEntryNotFound
}

// RemoveEntry deletes one draft row.
func (s *MemoryStore) RemoveEntry(planner, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.state(planner)
	if err != nil {
		return err
	}
	for i := range st.batch.Entries {
		if st.batch.Entries[i].ID == id {
			st.batch.Entries = append(st.batch.Entries[:i], st.batch.Entries[i+1:]...)
			return nil
		}
	}
	return ErrEntryNotFound
}

// Batch returns a copy of the planner's draft.
func (s *MemoryStore) Batch(planner string) (Batch, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, err := s.state(planner)
	if err != nil {
		return Batch{}, err
	}
	return Batch{
		Client:  st.batch.Client,
		Entries: append([]order.Order(nil), st.batch.Entries...),
	}, nil
}

// SubmitBatch validates the draft, stamps the shared client on every row,
// appends the rows to the submitted table and clears the draft. It returns
// the number of committed rows.
func (s *MemoryStore) SubmitBatch(planner string) (int, error) {
	s.mu.Lock()
	st, err := s.state(planner)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if err := order.ValidateBatch(st.batch.Client, st.batch.Entries); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	qty := 0
	for i := range st.batch.Entries {
		st.batch.Entries[i].Client = st.batch.Client
		st.batch.Entries[i].CAD = strings.TrimSpace(st.batch.Entries[i].CAD)
		qty += st.batch.Entries[i].Qty
	}
	n := len(st.batch.Entries)
	st.submitted = append(st.submitted, st.batch.Entries...)
	st.batch = Batch{}
	s.mu.Unlock()

	s.publish(events.CommitEvent{
		Planner: planner, Source: order.SourceManual,
		Rows: n, Qty: qty, Time: time.Now(),
	})
	return n, nil
}

// StageSplit stores the pending split plan, replacing any previous one.
func (s *MemoryStore) StageSplit(planner string, plan *order.SplitPlan) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.state(planner)
	if err != nil {
		return err
	}
	if plan != nil && plan.Client != "" && !s.knownClient(plan.Client) {
		return ErrUnknownClient
	}
	st.split = plan
	return nil
}

// SplitPlan returns a snapshot of the staged plan, or ErrNoSplitPlan when
// none is staged. Edits go through the EditSplit* methods.
func (s *MemoryStore) SplitPlan(planner string) (*order.SplitPlan, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, err := s.state(planner)
	if err != nil {
		return nil, err
	}
	if st.split == nil {
		return nil, ErrNoSplitPlan
	}
	cp := *st.split
	cp.Rows = append([]order.Order(nil), st.split.Rows...)
	return &cp, nil
}

func (s *MemoryStore) editSplit(planner string, edit func(*order.SplitPlan) error) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.state(planner)
	if err != nil {
		return err
	}
	if st.split == nil {
		return ErrNoSplitPlan
	}
	return edit(st.split)
}

// EditSplitQty adjusts one staged row's quantity.
func (s *MemoryStore) EditSplitQty(planner, id string, qty int) error {
	return s.editSplit(planner, func(p *order.SplitPlan) error { return p.SetQty(id, qty) })
}

// EditSplitDate adjusts one staged row's arrival date.
func (s *MemoryStore) EditSplitDate(planner, id string, d order.Date) error {
	return s.editSplit(planner, func(p *order.SplitPlan) error { return p.SetDate(id, d) })
}

// RemoveSplitRow drops one staged row.
func (s *MemoryStore) RemoveSplitRow(planner, id string) error {
	return s.editSplit(planner, func(p *order.SplitPlan) error { return p.Remove(id) })
}

// ConfirmSplit validates the staged plan, commits its rows and clears it.
func (s *MemoryStore) ConfirmSplit(planner string) (int, error) {
	s.mu.Lock()
	st, err := s.state(planner)
	if err != nil {
		s.mu.Unlock()
		return 0, err
	}
	if st.split == nil {
		s.mu.Unlock()
		return 0, ErrNoSplitPlan
	}
	if err := st.split.Validate(); err != nil {
		s.mu.Unlock()
		return 0, err
	}
	n := len(st.split.Rows)
	qty := st.split.CurrentTotal()
	st.submitted = append(st.submitted, st.split.Rows...)
	st.split = nil
	s.mu.Unlock()

	s.publish(events.CommitEvent{
		Planner: planner, Source: order.SourceSplit,
		Rows: n, Qty: qty, Time: time.Now(),
	})
	return n, nil
}

// DiscardSplit drops the staged plan without committing it.
func (s *MemoryStore) DiscardSplit(planner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	st, err := s.state(planner)
	if err != nil {
		return err
	}
	st.split = nil
	return nil
}

// Submitted returns a copy of the planner's submitted table.
func (s *MemoryStore) Submitted(planner string) ([]order.Order, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	st, err := s.state(planner)
	if err != nil {
		return nil, err
	}
	return append([]order.Order(nil), st.submitted...), nil
}

// Reset drops all of one planner's session state.
func (s *MemoryStore) Reset(planner string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, err := s.state(planner); err != nil {
		return err
	}
	s.planners[planner] = &plannerState{}
	return nil
}
