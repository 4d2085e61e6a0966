package domain

import (
	"fmt"
	"strings"
	"time"
)

type Status string

const (
	StatusOpen   Status = "open"
	StatusClosed Status = "closed"
)

type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// Priorities lists the tiers in dispatch order.
var Priorities = []Priority{PriorityHigh, PriorityMedium, PriorityLow}

// ParsePriority accepts any casing of high, medium or low.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if p.Rank() < 0 {
		return "", fmt.Errorf("invalid priority %q (want high, medium or low)", s)
	}
	return p, nil
}

// Rank orders priorities for dispatch: high=0, medium=1, low=2. Unknown values return -1.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return -1
}

// TimeLayout is used for every persisted timestamp.
const TimeLayout = time.RFC3339Nano

// Ticket is a unit of reported work. Containers hold *Ticket so that a
// mutation is visible through every container referencing it.
type Ticket struct {
	ID          int
	Description string
	Status      Status
	Priority    Priority
	ParentID    *int
	OwnerID     *string
	AssigneeID  *string
	Tags        []string
	CreatedAt   time.Time
	ClosedAt    *time.Time
}

// NewTicket returns an open ticket created at now.
func NewTicket(id int, description string, priority Priority, parentID *int, now time.Time) *Ticket {
	return &Ticket{
		ID:          id,
		Description: description,
		Status:      StatusOpen,
		Priority:    priority,
		ParentID:    parentID,
		Tags:        []string{},
		CreatedAt:   now.UTC(),
	}
}

// Close transitions open -> closed and stamps ClosedAt. Closing an already
// closed ticket changes nothing and returns false.
func (t *Ticket) Close(now time.Time) bool {
	if t.Status != StatusOpen {
		return false
	}
	ts := now.UTC()
	t.Status = StatusClosed
	t.ClosedAt = &ts
	return true
}

// Reopen restores the open status and clears ClosedAt.
func (t *Ticket) Reopen() {
	t.Status = StatusOpen
	t.ClosedAt = nil
}

func (t *Ticket) IsOpen() bool { return t.Status == StatusOpen }

// AddTags merges tags into the set, keeping the existing order and appending
// unseen values. It returns the number of tags actually added.
func (t *Ticket) AddTags(tags ...string) int {
	seen := make(map[string]struct{}, len(t.Tags))
	for _, tag := range t.Tags {
		seen[tag] = struct{}{}
	}
	added := 0
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		if tag == "" {
			continue
		}
		if _, ok := seen[tag]; ok {
			continue
		}
		seen[tag] = struct{}{}
		t.Tags = append(t.Tags, tag)
		added++
	}
	return added
}

// HasTag reports whether tag is in the set.
func (t *Ticket) HasTag(tag string) bool {
	for _, v := range t.Tags {
		if v == tag {
			return true
		}
	}
	return false
}

// Age is measured up to ClosedAt for closed tickets and up to now otherwise.
func (t *Ticket) Age(now time.Time) time.Duration {
	end := now
	if t.ClosedAt != nil {
		end = *t.ClosedAt
	}
	return end.Sub(t.CreatedAt)
}

func (t *Ticket) String() string {
	return fmt.Sprintf("Ticket %d: (%s), (%s), (%s)", t.ID, t.Description, t.Priority, t.Status)
}

// TicketRecord is the flat persisted form of a Ticket.
type TicketRecord struct {
	TicketID    int      `json:"ticket_id"`
	Description string   `json:"description"`
	Status      Status   `json:"status"`
	Priority    Priority `json:"priority"`
	ParentID    *int     `json:"parent_id"`
	OwnerID     *string  `json:"owner_user_id"`
	AssigneeID  *string  `json:"assigned_to_user_id"`
	Tags        []string `json:"tags"`
	CreatedAt   string   `json:"created_at"`
	ClosedAt    *string  `json:"closed_at"`
}

// Record converts the ticket to its persisted form.
func (t *Ticket) Record() TicketRecord {
	rec := TicketRecord{
		TicketID:    t.ID,
		Description: t.Description,
		Status:      t.Status,
		Priority:    t.Priority,
		ParentID:    copyInt(t.ParentID),
		OwnerID:     copyString(t.OwnerID),
		AssigneeID:  copyString(t.AssigneeID),
		Tags:        append([]string{}, t.Tags...),
		CreatedAt:   t.CreatedAt.UTC().Format(TimeLayout),
	}
	if t.ClosedAt != nil {
		s := t.ClosedAt.UTC().Format(TimeLayout)
		rec.ClosedAt = &s
	}
	return rec
}

// TicketFromRecord rebuilds a Ticket, validating enums and timestamps.
func TicketFromRecord(rec TicketRecord) (*Ticket, error) {
	if rec.Status != StatusOpen && rec.Status != StatusClosed {
		return nil, fmt.Errorf("ticket %d: invalid status %q", rec.TicketID, rec.Status)
	}
	if rec.Priority.Rank() < 0 {
		return nil, fmt.Errorf("ticket %d: invalid priority %q", rec.TicketID, rec.Priority)
	}
	created, err := time.Parse(TimeLayout, rec.CreatedAt)
	if err != nil {
		return nil, fmt.Errorf("ticket %d: created_at: %w", rec.TicketID, err)
	}
	t := &Ticket{
		ID:          rec.TicketID,
		Description: rec.Description,
		Status:      rec.Status,
		Priority:    rec.Priority,
		ParentID:    copyInt(rec.ParentID),
		OwnerID:     copyString(rec.OwnerID),
		AssigneeID:  copyString(rec.AssigneeID),
		Tags:        append([]string{}, rec.Tags...),
		CreatedAt:   created.UTC(),
	}
	if rec.ClosedAt != nil {
		closed, err := time.Parse(TimeLayout, *rec.ClosedAt)
		if err != nil {
			return nil, fmt.Errorf("ticket %d: closed_at: %w", rec.TicketID, err)
		}
		closed = closed.UTC()
		t.ClosedAt = &closed
	}
	if (t.Status == StatusClosed) != (t.ClosedAt != nil) {
		return nil, fmt.Errorf("ticket %d: closed_at must be set iff status is closed", rec.TicketID)
	}
	return t, nil
}

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

// NormalizeRole maps anything other than admin to user.
func NormalizeRole(s string) Role {
	if Role(strings.ToLower(strings.TrimSpace(s))) == RoleAdmin {
		return RoleAdmin
	}
	return RoleUser
}

// User is the identity stored in the session file.
type User struct {
	UserID string  `json:"user_id"`
	Name   string  `json:"name"`
	Role   Role    `json:"role"`
	Email  *string `json:"email"`
}

func copyInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func copyString(p *string) *string {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

// StringPtr returns nil for the empty string.
func StringPtr(s string) *string {
	if s == "" {
		return nil
	}
	return &s
}

// IntPtr returns a pointer to v.
func IntPtr(v int) *int { return &v }
