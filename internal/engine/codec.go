package engine

import (
	"fmt"
	"strconv"

	"helpdesk/internal/collections"
	"helpdesk/internal/domain"
	"helpdesk/internal/state"
	"helpdesk/internal/undo"
)

// Snapshot exports the full store in its persisted form.
func (e *Engine) Snapshot() *state.State {
	st := state.Empty()
	st.NextID = e.nextID
	for id, t := range e.tickets {
		st.Tickets[strconv.Itoa(id)] = t.Record()
	}
	st.History = e.history.Records()
	st.StandardQueue = e.standard.Records()
	st.HighPriorityQueue = e.high.Records()
	st.UndoStack = e.actions.Records()
	return st
}

// restore rebuilds every container by replaying its exported records
// through the container's normal insert operation. Records whose id is in
// the ticket map resolve to the map's ticket so that all containers share
// one object per ticket. Records of tickets deleted by undo are rebuilt
// once and shared between the containers that still mention them.
func (e *Engine) restore(st *state.State) error {
	tickets := make(map[int]*domain.Ticket, len(st.Tickets))
	for _, rec := range st.Tickets {
		t, err := domain.TicketFromRecord(rec)
		if err != nil {
			return fmt.Errorf("%w: %v", state.ErrCorrupt, err)
		}
		tickets[t.ID] = t
	}
	detached := map[int]*domain.Ticket{}
	resolve := func(rec domain.TicketRecord) (*domain.Ticket, error) {
		if t, ok := tickets[rec.TicketID]; ok {
			return t, nil
		}
		if t, ok := detached[rec.TicketID]; ok {
			return t, nil
		}
		t, err := domain.TicketFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", state.ErrCorrupt, err)
		}
		detached[t.ID] = t
		return t, nil
	}

	history := collections.NewHistory()
	for _, rec := range st.History {
		t, err := resolve(rec)
		if err != nil {
			return err
		}
		history.Append(t)
	}
	standard := collections.NewQueue()
	for _, rec := range st.StandardQueue {
		t, err := resolve(rec)
		if err != nil {
			return err
		}
		standard.Enqueue(t)
	}
	high := collections.NewPriorityQueue()
	for _, rec := range st.HighPriorityQueue {
		t, err := resolve(rec)
		if err != nil {
			return err
		}
		high.Enqueue(t)
	}
	actions, err := undo.LogFromRecords(st.UndoStack)
	if err != nil {
		return fmt.Errorf("%w: %v", state.ErrCorrupt, err)
	}

	e.nextID = st.NextID
	e.tickets = tickets
	e.history = history
	e.standard = standard
	e.high = high
	e.actions = actions
	return nil
}
