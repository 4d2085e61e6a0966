// Package collections holds the containers the engine orchestrates. Every
// container stores *domain.Ticket so it shares identity with the engine's
// ticket map.
package collections

import (
	"strings"

	"helpdesk/internal/domain"
)

// EmptyHistory is rendered when nothing has been recorded yet.
const EmptyHistory = "No history yet."

// History is an append-only record of tickets in creation order.
type History struct {
	items []*domain.Ticket
}

func NewHistory() *History { return &History{} }

func (h *History) Append(t *domain.Ticket) { h.items = append(h.items, t) }

func (h *History) Len() int { return len(h.items) }

// Items returns a copy of the entries in insertion order.
func (h *History) Items() []*domain.Ticket {
	return append([]*domain.Ticket(nil), h.items...)
}

// Render lists one ticket summary per line, or EmptyHistory.
func (h *History) Render() string {
	if len(h.items) == 0 {
		return EmptyHistory
	}
	lines := make([]string, len(h.items))
	for i, t := range h.items {
		lines[i] = t.String()
	}
	return strings.Join(lines, "\n")
}

// Records exports the history in order.
func (h *History) Records() []domain.TicketRecord {
	out := make([]domain.TicketRecord, len(h.items))
	for i, t := range h.items {
		out[i] = t.Record()
	}
	return out
}
