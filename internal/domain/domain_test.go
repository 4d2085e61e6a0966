package domain

import (
	"reflect"
	"testing"
	"time"
)

var t0 = time.Date(2024, 3, 1, 8, 0, 0, 5000, time.UTC)

func TestCloseOnce(t *testing.T) {
	tk := NewTicket(1, "desk", PriorityLow, nil, t0)
	if !tk.Close(t0.Add(time.Hour)) {
		t.Fatalf("first close should succeed")
	}
	if tk.Status != StatusClosed || tk.ClosedAt == nil || !tk.ClosedAt.Equal(t0.Add(time.Hour)) {
		t.Fatalf("unexpected state after close: %+v", tk)
	}
	if tk.Close(t0.Add(2 * time.Hour)) {
		t.Fatalf("second close should fail")
	}
	if !tk.ClosedAt.Equal(t0.Add(time.Hour)) {
		t.Fatalf("closed_at must not be overwritten")
	}
	if got := tk.Age(t0.Add(10 * time.Hour)); got != time.Hour {
		t.Fatalf("age of closed ticket = %v", got)
	}
	tk.Reopen()
	if !tk.IsOpen() || tk.ClosedAt != nil {
		t.Fatalf("reopen must clear closed_at")
	}
}

func TestRecordRoundTrip(t *testing.T) {
	bare := NewTicket(1, "bare", PriorityMedium, nil, t0)
	full := NewTicket(2, "full", PriorityHigh, IntPtr(1), t0)
	full.OwnerID = StringPtr("owner")
	full.AssigneeID = StringPtr("agent")
	full.AddTags("a", "b")
	full.Close(t0.Add(90 * time.Minute))

	for _, tk := range []*Ticket{bare, full} {
		back, err := TicketFromRecord(tk.Record())
		if err != nil {
			t.Fatalf("ticket %d: %v", tk.ID, err)
		}
		if !reflect.DeepEqual(back, tk) {
			t.Fatalf("round trip mismatch:\n got %+v\nwant %+v", back, tk)
		}
	}
	if rec := bare.Record(); rec.Tags == nil || rec.ParentID != nil || rec.ClosedAt != nil {
		t.Fatalf("bare record should keep empty tags and null optionals: %+v", rec)
	}
}

func TestTicketFromRecordRejects(t *testing.T) {
	good := NewTicket(1, "x", PriorityLow, nil, t0).Record()
	cases := map[string]func(r *TicketRecord){
		"status":     func(r *TicketRecord) { r.Status = "pending" },
		"priority":   func(r *TicketRecord) { r.Priority = "urgent" },
		"created":    func(r *TicketRecord) { r.CreatedAt = "yesterday" },
		"closed nil": func(r *TicketRecord) { r.Status = StatusClosed },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			rec := good
			mutate(&rec)
			if _, err := TicketFromRecord(rec); err == nil {
				t.Fatalf("expected error")
			}
		})
	}
}

func TestAddTagsSuppressesDuplicates(t *testing.T) {
	tk := NewTicket(1, "x", PriorityLow, nil, t0)
	if n := tk.AddTags("b", "a", "b", " ", "a"); n != 2 {
		t.Fatalf("added = %d", n)
	}
	if !reflect.DeepEqual(tk.Tags, []string{"b", "a"}) {
		t.Fatalf("tags = %v", tk.Tags)
	}
}

func TestParsePriority(t *testing.T) {
	for in, want := range map[string]Priority{"HIGH": PriorityHigh, " medium ": PriorityMedium, "Low": PriorityLow} {
		got, err := ParsePriority(in)
		if err != nil || got != want {
			t.Fatalf("ParsePriority(%q) = %q, %v", in, got, err)
		}
	}
	if _, err := ParsePriority("urgent"); err == nil {
		t.Fatalf("expected error")
	}
	if NormalizeRole("Admin") != RoleAdmin || NormalizeRole("root") != RoleUser {
		t.Fatalf("NormalizeRole mismatch")
	}
}
