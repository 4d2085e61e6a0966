package collections

import (
	"container/heap"

	"helpdesk/internal/domain"
)

// PriorityQueue is a min-heap of tickets keyed by (priority rank, created
// at, id). The key is strictly total so dispatch order is deterministic.
type PriorityQueue struct {
	h ticketHeap
}

func NewPriorityQueue() *PriorityQueue { return &PriorityQueue{} }

// Less reports whether a dispatches before b.
func Less(a, b *domain.Ticket) bool {
	if ra, rb := a.Priority.Rank(), b.Priority.Rank(); ra != rb {
		return ra < rb
	}
	if !a.CreatedAt.Equal(b.CreatedAt) {
		return a.CreatedAt.Before(b.CreatedAt)
	}
	return a.ID < b.ID
}

func (pq *PriorityQueue) Enqueue(t *domain.Ticket) { heap.Push(&pq.h, t) }

// Dequeue pops the minimum. It returns nil, false on an empty queue.
func (pq *PriorityQueue) Dequeue() (*domain.Ticket, bool) {
	if len(pq.h) == 0 {
		return nil, false
	}
	return heap.Pop(&pq.h).(*domain.Ticket), true
}

func (pq *PriorityQueue) IsEmpty() bool { return len(pq.h) == 0 }

func (pq *PriorityQueue) Len() int { return len(pq.h) }

func (pq *PriorityQueue) Contains(id int) bool {
	for _, t := range pq.h {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Items returns the queued tickets in dispatch order. It drains a copy of
// the heap, so the result never depends on the internal array layout.
func (pq *PriorityQueue) Items() []*domain.Ticket {
	tmp := append(ticketHeap(nil), pq.h...)
	out := make([]*domain.Ticket, 0, len(tmp))
	for len(tmp) > 0 {
		out = append(out, heap.Pop(&tmp).(*domain.Ticket))
	}
	return out
}

// Records exports the queue sorted by the ordering key.
func (pq *PriorityQueue) Records() []domain.TicketRecord {
	items := pq.Items()
	out := make([]domain.TicketRecord, len(items))
	for i, t := range items {
		out[i] = t.Record()
	}
	return out
}

// ticketHeap implements container/heap.Interface.
type ticketHeap []*domain.Ticket

func (h ticketHeap) Len() int           { return len(h) }
func (h ticketHeap) Less(i, j int) bool { return Less(h[i], h[j]) }
func (h ticketHeap) Swap(i, j int)      { h[i], h[j] = h[j], h[i] }
func (h *ticketHeap) Push(x any)        { *h = append(*h, x.(*domain.Ticket)) }
func (h *ticketHeap) Pop() any {
	old := *h
	t := old[len(old)-1]
	old[len(old)-1] = nil
	*h = old[:len(old)-1]
	return t
}
