package collections_test

import (
	"math/rand"
	"testing"
	"time"

	"helpdesk/internal/collections"
	"helpdesk/internal/domain"
)

var base = time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)

func ticket(id int, p domain.Priority, offset time.Duration) *domain.Ticket {
	return domain.NewTicket(id, "t", p, nil, base.Add(offset))
}

func TestHistoryRender(t *testing.T) {
	h := collections.NewHistory()
	if got := h.Render(); got != collections.EmptyHistory {
		t.Fatalf("empty render = %q", got)
	}
	h.Append(ticket(1, domain.PriorityLow, 0))
	h.Append(ticket(2, domain.PriorityHigh, time.Second))
	want := "Ticket 1: (t), (low), (open)\nTicket 2: (t), (high), (open)"
	if got := h.Render(); got != want {
		t.Fatalf("render = %q, want %q", got, want)
	}
	recs := h.Records()
	if len(recs) != 2 || recs[0].TicketID != 1 || recs[1].TicketID != 2 {
		t.Fatalf("records out of order: %+v", recs)
	}
}

func TestQueueFIFO(t *testing.T) {
	q := collections.NewQueue()
	if _, ok := q.Dequeue(); ok {
		t.Fatalf("expected empty dequeue to fail")
	}
	for i := 1; i <= 3; i++ {
		q.Enqueue(ticket(i, domain.PriorityMedium, 0))
	}
	if !q.Contains(2) || q.Contains(9) {
		t.Fatalf("contains mismatch")
	}
	for i := 1; i <= 3; i++ {
		got, ok := q.Dequeue()
		if !ok || got.ID != i {
			t.Fatalf("dequeue %d: got %v", i, got)
		}
	}
	if !q.IsEmpty() {
		t.Fatalf("queue should be empty")
	}
}

func TestPriorityQueueOrdering(t *testing.T) {
	pq := collections.NewPriorityQueue()
	if _, ok := pq.Dequeue(); ok {
		t.Fatalf("expected empty dequeue to fail")
	}
	// same timestamp for 3 and 4 exercises the id tie-break
	tickets := []*domain.Ticket{
		ticket(1, domain.PriorityLow, 0),
		ticket(2, domain.PriorityHigh, 2*time.Second),
		ticket(3, domain.PriorityHigh, time.Second),
		ticket(4, domain.PriorityHigh, time.Second),
		ticket(5, domain.PriorityMedium, 0),
	}
	rng := rand.New(rand.NewSource(7))
	rng.Shuffle(len(tickets), func(i, j int) { tickets[i], tickets[j] = tickets[j], tickets[i] })
	for _, tk := range tickets {
		pq.Enqueue(tk)
	}
	want := []int{3, 4, 2, 5, 1}
	items := pq.Items()
	for i, tk := range items {
		if tk.ID != want[i] {
			t.Fatalf("items[%d] = %d, want %d", i, tk.ID, want[i])
		}
	}
	if pq.Len() != len(want) {
		t.Fatalf("Items must not drain the queue")
	}
	for _, id := range want {
		got, ok := pq.Dequeue()
		if !ok || got.ID != id {
			t.Fatalf("dequeue got %v, want %d", got, id)
		}
	}
}

func TestPriorityQueueExportReimport(t *testing.T) {
	pq := collections.NewPriorityQueue()
	for i := 10; i >= 1; i-- {
		p := domain.Priorities[i%3]
		pq.Enqueue(ticket(i, p, time.Duration(i%4)*time.Minute))
	}
	recs := pq.Records()
	for i := 1; i < len(recs); i++ {
		a, _ := domain.TicketFromRecord(recs[i-1])
		b, _ := domain.TicketFromRecord(recs[i])
		if collections.Less(b, a) {
			t.Fatalf("export not sorted at %d", i)
		}
	}
	re := collections.NewPriorityQueue()
	for _, rec := range recs {
		tk, err := domain.TicketFromRecord(rec)
		if err != nil {
			t.Fatal(err)
		}
		re.Enqueue(tk)
	}
	for !pq.IsEmpty() {
		a, _ := pq.Dequeue()
		b, ok := re.Dequeue()
		if !ok || a.ID != b.ID {
			t.Fatalf("dequeue order diverged: %d vs %v", a.ID, b)
		}
	}
	if !re.IsEmpty() {
		t.Fatalf("reimported queue has extra entries")
	}
}
