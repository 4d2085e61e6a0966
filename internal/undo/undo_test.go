package undo

import (
	"reflect"
	"testing"

	"helpdesk/internal/domain"
)

type recorder struct {
	calls []string
}

func (r *recorder) DeleteTicket(id int) bool { r.calls = append(r.calls, "delete"); return true }
func (r *recorder) ReopenTicket(id int, prev domain.Status) bool {
	r.calls = append(r.calls, "reopen:"+string(prev))
	return true
}
func (r *recorder) RestoreAssignee(id int, prev *string) bool {
	v := "<nil>"
	if prev != nil {
		v = *prev
	}
	r.calls = append(r.calls, "assignee:"+v)
	return true
}
func (r *recorder) RestoreTags(id int, prev []string) bool {
	r.calls = append(r.calls, "tags")
	return id == 4
}

func TestLogIsLIFO(t *testing.T) {
	l := NewLog()
	if _, ok := l.Pop(); ok {
		t.Fatalf("pop on empty log should fail")
	}
	l.Push(Create{ID: 1})
	l.Push(Close{ID: 1, PrevStatus: domain.StatusOpen})
	l.Push(Assign{ID: 1, PrevAssigned: domain.StringPtr("bob")})
	want := []Kind{KindAssign, KindClose, KindCreate}
	for _, k := range want {
		a, ok := l.Pop()
		if !ok || a.Kind() != k {
			t.Fatalf("pop = %v, want %s", a, k)
		}
	}
	if !l.IsEmpty() {
		t.Fatalf("log should be empty")
	}
}

func TestRevertDispatchesPerVariant(t *testing.T) {
	r := &recorder{}
	actions := []Action{
		Create{ID: 1},
		Close{ID: 2, PrevStatus: domain.StatusOpen},
		Assign{ID: 3},
		Tag{ID: 4, PrevTags: []string{"a"}},
	}
	for _, a := range actions {
		if !a.Revert(r) {
			t.Fatalf("%s revert reported missing ticket", a.Kind())
		}
	}
	want := []string{"delete", "reopen:open", "assignee:<nil>", "tags"}
	if !reflect.DeepEqual(r.calls, want) {
		t.Fatalf("calls = %v, want %v", r.calls, want)
	}
}

func TestRecordsRoundTrip(t *testing.T) {
	l := NewLog()
	l.Push(Create{ID: 1})
	l.Push(Close{ID: 1, PrevStatus: domain.StatusOpen})
	l.Push(Assign{ID: 1, PrevAssigned: domain.StringPtr("alice")})
	l.Push(Tag{ID: 1, PrevTags: []string{"vpn", "laptop"}})
	recs := l.Records()
	if recs[0].Action != KindCreate || recs[3].Action != KindTag {
		t.Fatalf("records must be oldest first: %+v", recs)
	}
	back, err := LogFromRecords(recs)
	if err != nil {
		t.Fatal(err)
	}
	if !reflect.DeepEqual(back.Records(), recs) {
		t.Fatalf("round trip mismatch:\n%+v\n%+v", back.Records(), recs)
	}
}

func TestFromRecordRejectsUnknownKind(t *testing.T) {
	if _, err := FromRecord(Record{Action: "reassign", TicketID: 1}); err == nil {
		t.Fatalf("expected error for unknown kind")
	}
	if _, err := FromRecord(Record{Action: KindClose, TicketID: 1, PrevStatus: "pending"}); err == nil {
		t.Fatalf("expected error for invalid prev_status")
	}
}
