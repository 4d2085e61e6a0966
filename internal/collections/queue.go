package collections

import "helpdesk/internal/domain"

// Queue is a FIFO of tickets awaiting dispatch.
type Queue struct {
	items []*domain.Ticket
}

func NewQueue() *Queue { return &Queue{} }

func (q *Queue) Enqueue(t *domain.Ticket) { q.items = append(q.items, t) }

// Dequeue removes the head. It returns nil, false on an empty queue.
func (q *Queue) Dequeue() (*domain.Ticket, bool) {
	if len(q.items) == 0 {
		return nil, false
	}
	t := q.items[0]
	q.items[0] = nil
	q.items = q.items[1:]
	return t, true
}

func (q *Queue) IsEmpty() bool { return len(q.items) == 0 }

func (q *Queue) Len() int { return len(q.items) }

// Contains reports whether a ticket with id is queued.
func (q *Queue) Contains(id int) bool {
	for _, t := range q.items {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Items returns the queued tickets head first.
func (q *Queue) Items() []*domain.Ticket {
	return append([]*domain.Ticket(nil), q.items...)
}

// Records exports the queue in dequeue order.
func (q *Queue) Records() []domain.TicketRecord {
	out := make([]domain.TicketRecord, len(q.items))
	for i, t := range q.items {
		out[i] = t.Record()
	}
	return out
}
