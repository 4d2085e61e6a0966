// Package engine implements the ticket store: it owns every ticket and the
// containers that reference them, and persists the whole state through a
// state.Backend after each mutation.
package engine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"go.uber.org/zap"

	"helpdesk/internal/collections"
	"helpdesk/internal/config"
	"helpdesk/internal/domain"
	"helpdesk/internal/state"
	"helpdesk/internal/undo"
)

var (
	ErrNotFound      = errors.New("ticket not found")
	ErrAlreadyClosed = errors.New("ticket already closed")
	ErrUnresolvable  = errors.New("ticket has unresolved dependencies")
	ErrNothingToUndo = errors.New("nothing to undo")
)

// Engine is the ticket store. It is not safe for concurrent use; each CLI
// invocation builds one, performs a single operation and exits.
type Engine struct {
	Backend state.Backend
	Config  *config.Config
	Logger  *zap.Logger
	Now     func() time.Time

	nextID   int
	tickets  map[int]*domain.Ticket
	history  *collections.History
	standard *collections.Queue
	high     *collections.PriorityQueue
	actions  *undo.Log
}

// New returns an empty store. Call Load to replay persisted state.
func New(backend state.Backend, cfg *config.Config, logger *zap.Logger) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	e := &Engine{
		Backend: backend,
		Config:  cfg,
		Logger:  logger,
		Now:     time.Now,
	}
	e.reset()
	return e
}

// Open builds a store and loads its persisted state.
func Open(ctx context.Context, backend state.Backend, cfg *config.Config, logger *zap.Logger) (*Engine, error) {
	e := New(backend, cfg, logger)
	if err := e.Load(ctx); err != nil {
		return nil, err
	}
	return e, nil
}

func (e *Engine) now() time.Time {
	if e.Now != nil {
		return e.Now()
	}
	return time.Now()
}

func (e *Engine) reset() {
	e.nextID = 1
	e.tickets = map[int]*domain.Ticket{}
	e.history = collections.NewHistory()
	e.standard = collections.NewQueue()
	e.high = collections.NewPriorityQueue()
	e.actions = undo.NewLog()
}

// Load replaces the in-memory state with the persisted one. A backend with
// nothing stored yields an empty store.
func (e *Engine) Load(ctx context.Context) error {
	st, err := e.Backend.Load(ctx)
	if err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	if st == nil {
		e.reset()
		e.Logger.Debug("no persisted state; starting empty")
		return nil
	}
	if err := e.restore(st); err != nil {
		return fmt.Errorf("load state: %w", err)
	}
	e.Logger.Debug("state loaded", zap.Int("tickets", len(e.tickets)), zap.Int("next_id", e.nextID))
	return nil
}

func (e *Engine) save(ctx context.Context, op string, ticketID int) error {
	ctx = state.WithOperation(ctx, state.Operation{Name: op, TicketID: ticketID})
	if err := e.Backend.Save(ctx, e.Snapshot()); err != nil {
		e.Logger.Error("save state", zap.String("op", op), zap.Int("ticket_id", ticketID), zap.Error(err))
		return fmt.Errorf("save state: %w", err)
	}
	return nil
}

// CreateOptions are parameters for creating a ticket.
type CreateOptions struct {
	Description string
	Priority    domain.Priority
	ParentID    *int
	OwnerID     *string
}

// CreateTicket allocates the next id, records the ticket in history and
// enqueues it by priority.
func (e *Engine) CreateTicket(ctx context.Context, opts CreateOptions) (*domain.Ticket, error) {
	if strings.TrimSpace(opts.Description) == "" {
		return nil, errors.New("description is required")
	}
	if opts.Priority == "" {
		opts.Priority = domain.PriorityMedium
	}
	if opts.Priority.Rank() < 0 {
		return nil, fmt.Errorf("invalid priority %q", opts.Priority)
	}
	if opts.ParentID != nil && *opts.ParentID < 1 {
		return nil, fmt.Errorf("invalid parent id %d", *opts.ParentID)
	}
	t := domain.NewTicket(e.nextID, opts.Description, opts.Priority, opts.ParentID, e.now())
	t.OwnerID = opts.OwnerID
	e.tickets[t.ID] = t
	e.history.Append(t)
	e.enqueue(t)
	e.actions.Push(undo.Create{ID: t.ID})
	e.nextID++
	e.Logger.Debug("ticket created", zap.Int("ticket_id", t.ID), zap.String("priority", string(t.Priority)))
	if err := e.save(ctx, "ticket.create", t.ID); err != nil {
		return t, err
	}
	return t, nil
}

func (e *Engine) enqueue(t *domain.Ticket) {
	if t.Priority == domain.PriorityHigh {
		e.high.Enqueue(t)
		return
	}
	e.standard.Enqueue(t)
}

// dispatchable reports whether a queue entry is still the live, open
// ticket for its id.
func (e *Engine) dispatchable(t *domain.Ticket) bool {
	live, exists := e.tickets[t.ID]
	return exists && live == t && t.IsOpen()
}

func (e *Engine) queued(id int) bool {
	return e.high.Contains(id) || e.standard.Contains(id)
}

// IsResolvable reports whether every ancestor of id is closed. Unknown ids,
// missing parents and cyclic parent chains are not resolvable.
func (e *Engine) IsResolvable(id int) bool {
	_, err := e.blockingAncestor(id)
	return err == nil
}

// blockingAncestor walks the parent chain iteratively. It returns the id
// of the first ancestor that is missing or open.
func (e *Engine) blockingAncestor(id int) (int, error) {
	cur, ok := e.tickets[id]
	if !ok {
		return id, ErrNotFound
	}
	visited := map[int]struct{}{}
	for cur.ParentID != nil {
		if _, seen := visited[cur.ID]; seen {
			return cur.ID, fmt.Errorf("%w: parent chain of #%d is cyclic", ErrUnresolvable, id)
		}
		visited[cur.ID] = struct{}{}
		parentID := *cur.ParentID
		parent, ok := e.tickets[parentID]
		if !ok {
			return parentID, fmt.Errorf("%w: ancestor #%d does not exist", ErrUnresolvable, parentID)
		}
		if !parent.IsOpen() {
			cur = parent
			continue
		}
		return parentID, fmt.Errorf("%w: ancestor #%d is still open", ErrUnresolvable, parentID)
	}
	return 0, nil
}

// Explain returns why CloseTicket would fail for id, or nil if it would
// succeed. The error wraps ErrNotFound, ErrAlreadyClosed or ErrUnresolvable.
func (e *Engine) Explain(id int) error {
	t, ok := e.tickets[id]
	if !ok {
		return fmt.Errorf("%w: #%d", ErrNotFound, id)
	}
	if _, err := e.blockingAncestor(id); err != nil {
		return err
	}
	if !t.IsOpen() {
		return fmt.Errorf("%w: #%d", ErrAlreadyClosed, id)
	}
	return nil
}

// CloseTicket closes id when it exists, is open and is resolvable. It
// leaves the ticket in whatever queue holds it; dispatch skips closed
// entries.
func (e *Engine) CloseTicket(ctx context.Context, id int) (bool, error) {
	t, ok := e.tickets[id]
	if !ok || !e.IsResolvable(id) {
		return false, nil
	}
	if !t.Close(e.now()) {
		return false, nil
	}
	e.actions.Push(undo.Close{ID: id, PrevStatus: domain.StatusOpen})
	e.Logger.Debug("ticket closed", zap.Int("ticket_id", id))
	return true, e.save(ctx, "ticket.close", id)
}

// ProcessNextTicket dispatches the next open ticket, high priority first.
// Entries that were closed or deleted while queued are consumed and
// skipped. Dispatch does not change the ticket's status.
func (e *Engine) ProcessNextTicket(ctx context.Context) (*domain.Ticket, bool, error) {
	skipped := 0
	next := func(dequeue func() (*domain.Ticket, bool)) *domain.Ticket {
		for {
			t, ok := dequeue()
			if !ok {
				return nil
			}
			if e.dispatchable(t) {
				return t
			}
			skipped++
		}
	}
	t := next(e.high.Dequeue)
	if t == nil {
		t = next(e.standard.Dequeue)
	}
	if t == nil && skipped == 0 {
		return nil, false, nil
	}
	if skipped > 0 {
		e.Logger.Debug("skipped stale queue entries", zap.Int("count", skipped))
	}
	id := 0
	if t != nil {
		id = t.ID
		e.Logger.Debug("ticket dispatched", zap.Int("ticket_id", id))
	}
	if err := e.save(ctx, "ticket.process", id); err != nil {
		return t, t != nil, err
	}
	return t, t != nil, nil
}

// AssignTicket sets the assignee; an empty userID clears it.
func (e *Engine) AssignTicket(ctx context.Context, id int, userID string) (bool, error) {
	t, ok := e.tickets[id]
	if !ok {
		return false, nil
	}
	e.actions.Push(undo.Assign{ID: id, PrevAssigned: t.AssigneeID})
	t.AssigneeID = domain.StringPtr(strings.TrimSpace(userID))
	e.Logger.Debug("ticket assigned", zap.Int("ticket_id", id), zap.String("assignee", userID))
	return true, e.save(ctx, "ticket.assign", id)
}

// TagTicket merges tags into the ticket's tag set.
func (e *Engine) TagTicket(ctx context.Context, id int, tags []string) (bool, error) {
	t, ok := e.tickets[id]
	if !ok {
		return false, nil
	}
	e.actions.Push(undo.Tag{ID: id, PrevTags: append([]string{}, t.Tags...)})
	added := t.AddTags(tags...)
	e.Logger.Debug("ticket tagged", zap.Int("ticket_id", id), zap.Int("added", added))
	return true, e.save(ctx, "ticket.tag", id)
}

// UndoLastAction reverses the most recent recorded mutation. It returns
// false without touching state when the log is empty. Undoing a close
// re-enqueues the ticket at a fresh position unless it is still queued.
func (e *Engine) UndoLastAction(ctx context.Context) (undo.Action, bool, error) {
	a, ok := e.actions.Pop()
	if !ok {
		return nil, false, nil
	}
	if !a.Revert(reverter{e}) {
		e.Logger.Warn("undo target missing", zap.String("action", string(a.Kind())), zap.Int("ticket_id", a.TicketID()))
	}
	e.Logger.Debug("action undone", zap.String("action", string(a.Kind())), zap.Int("ticket_id", a.TicketID()))
	return a, true, e.save(ctx, "undo."+string(a.Kind()), a.TicketID())
}

// Get returns the ticket with id.
func (e *Engine) Get(id int) (*domain.Ticket, bool) {
	t, ok := e.tickets[id]
	return t, ok
}

// NextID is the id the next created ticket will receive.
func (e *Engine) NextID() int { return e.nextID }

// ListFilter narrows List. Zero values match everything.
type ListFilter struct {
	Status   domain.Status
	Priority domain.Priority
	// UserID matches tickets owned by or assigned to the user.
	UserID string
	Tag    string
}

// List returns matching tickets ordered by id.
func (e *Engine) List(f ListFilter) []*domain.Ticket {
	var out []*domain.Ticket
	for _, t := range e.tickets {
		if f.Status != "" && t.Status != f.Status {
			continue
		}
		if f.Priority != "" && t.Priority != f.Priority {
			continue
		}
		if f.UserID != "" && !involves(t, f.UserID) {
			continue
		}
		if f.Tag != "" && !t.HasTag(f.Tag) {
			continue
		}
		out = append(out, t)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func involves(t *domain.Ticket, userID string) bool {
	return (t.OwnerID != nil && *t.OwnerID == userID) || (t.AssigneeID != nil && *t.AssigneeID == userID)
}

// History returns every ticket ever created, in creation order.
func (e *Engine) History() []*domain.Ticket { return e.history.Items() }

// RenderHistory is the one-line-per-ticket history view.
func (e *Engine) RenderHistory() string { return e.history.Render() }

// Queues returns the tickets ProcessNextTicket would dispatch, in order,
// without consuming them. Stale entries are left out.
func (e *Engine) Queues() (high, standard []*domain.Ticket) {
	return e.live(e.high.Items()), e.live(e.standard.Items())
}

func (e *Engine) live(items []*domain.Ticket) []*domain.Ticket {
	out := make([]*domain.Ticket, 0, len(items))
	for _, t := range items {
		if e.dispatchable(t) {
			out = append(out, t)
		}
	}
	return out
}

// LastAction returns the action UndoLastAction would reverse.
func (e *Engine) LastAction() (undo.Action, bool) { return e.actions.Peek() }

// UndoDepth is the number of recorded actions.
func (e *Engine) UndoDepth() int { return e.actions.Len() }
