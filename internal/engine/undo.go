package engine

import "helpdesk/internal/domain"

// reverter applies undo records to the engine. It is kept separate from
// Engine so the reversal operations are not part of the public API.
type reverter struct {
	e *Engine
}

// DeleteTicket removes the ticket from the map. History keeps its entry and
// any queue entry becomes stale and is skipped at dispatch.
func (r reverter) DeleteTicket(id int) bool {
	if _, ok := r.e.tickets[id]; !ok {
		return false
	}
	delete(r.e.tickets, id)
	return true
}

func (r reverter) ReopenTicket(id int, prev domain.Status) bool {
	t, ok := r.e.tickets[id]
	if !ok {
		return false
	}
	if prev == domain.StatusOpen {
		t.Reopen()
	}
	if t.IsOpen() && !r.e.queued(id) {
		r.e.enqueue(t)
	}
	return true
}

func (r reverter) RestoreAssignee(id int, prev *string) bool {
	t, ok := r.e.tickets[id]
	if !ok {
		return false
	}
	t.AssigneeID = prev
	return true
}

func (r reverter) RestoreTags(id int, prev []string) bool {
	t, ok := r.e.tickets[id]
	if !ok {
		return false
	}
	t.Tags = append([]string{}, prev...)
	return true
}
