// Package undo models reversible mutations. Each Action variant carries only
// the fields needed to reverse itself and applies its reversal through a
// Reverter supplied by the owner of the tickets.
package undo

import (
	"fmt"

	"helpdesk/internal/domain"
)

type Kind string

const (
	KindCreate Kind = "create"
	KindClose  Kind = "close"
	KindAssign Kind = "assign"
	KindTag    Kind = "tag"
)

// Reverter applies the inverse of a recorded mutation. Each method returns
// false when the ticket no longer exists.
type Reverter interface {
	DeleteTicket(id int) bool
	ReopenTicket(id int, prev domain.Status) bool
	RestoreAssignee(id int, prev *string) bool
	RestoreTags(id int, prev []string) bool
}

// Action is a closed sum type: only the variants in this package implement it.
type Action interface {
	Kind() Kind
	TicketID() int
	Revert(r Reverter) bool
	Record() Record
	sealed()
}

type Create struct {
	ID int
}

type Close struct {
	ID         int
	PrevStatus domain.Status
}

type Assign struct {
	ID           int
	PrevAssigned *string
}

type Tag struct {
	ID       int
	PrevTags []string
}

func (a Create) Kind() Kind { return KindCreate }
func (a Close) Kind() Kind  { return KindClose }
func (a Assign) Kind() Kind { return KindAssign }
func (a Tag) Kind() Kind    { return KindTag }

func (a Create) TicketID() int { return a.ID }
func (a Close) TicketID() int  { return a.ID }
func (a Assign) TicketID() int { return a.ID }
func (a Tag) TicketID() int    { return a.ID }

func (a Create) Revert(r Reverter) bool { return r.DeleteTicket(a.ID) }
func (a Close) Revert(r Reverter) bool  { return r.ReopenTicket(a.ID, a.PrevStatus) }
func (a Assign) Revert(r Reverter) bool { return r.RestoreAssignee(a.ID, a.PrevAssigned) }
func (a Tag) Revert(r Reverter) bool    { return r.RestoreTags(a.ID, a.PrevTags) }

func (Create) sealed() {}
func (Close) sealed()  {}
func (Assign) sealed() {}
func (Tag) sealed()    {}

// Record is the persisted form of an Action. Only the fields of the
// record's kind are populated.
type Record struct {
	Action       Kind          `json:"action"`
	TicketID     int           `json:"ticket_id"`
	PrevStatus   domain.Status `json:"prev_status,omitempty"`
	PrevAssigned *string       `json:"prev_assigned,omitempty"`
	PrevTags     []string      `json:"prev_tags,omitempty"`
}

func (a Create) Record() Record { return Record{Action: KindCreate, TicketID: a.ID} }

func (a Close) Record() Record {
	return Record{Action: KindClose, TicketID: a.ID, PrevStatus: a.PrevStatus}
}

func (a Assign) Record() Record {
	return Record{Action: KindAssign, TicketID: a.ID, PrevAssigned: a.PrevAssigned}
}

func (a Tag) Record() Record {
	return Record{Action: KindTag, TicketID: a.ID, PrevTags: append([]string{}, a.PrevTags...)}
}

// FromRecord decodes a persisted record into its Action variant.
func FromRecord(rec Record) (Action, error) {
	switch rec.Action {
	case KindCreate:
		return Create{ID: rec.TicketID}, nil
	case KindClose:
		prev := rec.PrevStatus
		if prev == "" {
			prev = domain.StatusOpen
		}
		if prev != domain.StatusOpen && prev != domain.StatusClosed {
			return nil, fmt.Errorf("close action for ticket %d: invalid prev_status %q", rec.TicketID, prev)
		}
		return Close{ID: rec.TicketID, PrevStatus: prev}, nil
	case KindAssign:
		return Assign{ID: rec.TicketID, PrevAssigned: rec.PrevAssigned}, nil
	case KindTag:
		return Tag{ID: rec.TicketID, PrevTags: append([]string{}, rec.PrevTags...)}, nil
	}
	return nil, fmt.Errorf("unknown action %q for ticket %d", rec.Action, rec.TicketID)
}
