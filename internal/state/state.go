// Package state defines the persisted record of a ticket store and the
// backends that read and write it.
package state

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"helpdesk/internal/domain"
	"helpdesk/internal/undo"
)

// ErrCorrupt wraps any failure to decode a persisted record.
var ErrCorrupt = errors.New("corrupt state")

// State is the flat, versionless record written after every mutation.
// Tickets are keyed by the decimal ticket id.
type State struct {
	NextID            int                            `json:"next_id"`
	Tickets           map[string]domain.TicketRecord `json:"tickets"`
	History           []domain.TicketRecord          `json:"history"`
	StandardQueue     []domain.TicketRecord          `json:"standard_queue"`
	HighPriorityQueue []domain.TicketRecord          `json:"high_priority_queue"`
	UndoStack         []undo.Record                  `json:"undo_stack"`
}

// Empty returns the state of a fresh install.
func Empty() *State {
	return &State{
		NextID:            1,
		Tickets:           map[string]domain.TicketRecord{},
		History:           []domain.TicketRecord{},
		StandardQueue:     []domain.TicketRecord{},
		HighPriorityQueue: []domain.TicketRecord{},
		UndoStack:         []undo.Record{},
	}
}

// Backend loads and saves State. Load returns nil, nil when nothing has
// been persisted yet.
type Backend interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, st *State) error
}

// Marshal renders st as indented JSON.
func Marshal(st *State) ([]byte, error) {
	data, err := json.MarshalIndent(st, "", "    ")
	if err != nil {
		return nil, fmt.Errorf("marshal state: %w", err)
	}
	return append(data, '\n'), nil
}

// Unmarshal decodes and sanity checks a persisted record.
func Unmarshal(data []byte) (*State, error) {
	var st State
	if err := json.Unmarshal(data, &st); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrCorrupt, err)
	}
	if err := st.Validate(); err != nil {
		return nil, err
	}
	st.fillNil()
	return &st, nil
}

// Validate checks the invariants a record must satisfy before it is replayed.
func (st *State) Validate() error {
	if st.NextID < 1 {
		return fmt.Errorf("%w: next_id must be >= 1, got %d", ErrCorrupt, st.NextID)
	}
	for key, rec := range st.Tickets {
		if key != fmt.Sprint(rec.TicketID) {
			return fmt.Errorf("%w: ticket key %q does not match ticket_id %d", ErrCorrupt, key, rec.TicketID)
		}
		if rec.TicketID >= st.NextID {
			return fmt.Errorf("%w: ticket %d is not below next_id %d", ErrCorrupt, rec.TicketID, st.NextID)
		}
	}
	return nil
}

func (st *State) fillNil() {
	if st.Tickets == nil {
		st.Tickets = map[string]domain.TicketRecord{}
	}
	if st.History == nil {
		st.History = []domain.TicketRecord{}
	}
	if st.StandardQueue == nil {
		st.StandardQueue = []domain.TicketRecord{}
	}
	if st.HighPriorityQueue == nil {
		st.HighPriorityQueue = []domain.TicketRecord{}
	}
	if st.UndoStack == nil {
		st.UndoStack = []undo.Record{}
	}
}

type operationKey struct{}

// Operation names the mutation that triggered a save. Backends that keep a
// journal record it alongside the snapshot.
type Operation struct {
	Name     string
	TicketID int
}

func WithOperation(ctx context.Context, op Operation) context.Context {
	return context.WithValue(ctx, operationKey{}, op)
}

func OperationFrom(ctx context.Context) (Operation, bool) {
	op, ok := ctx.Value(operationKey{}).(Operation)
	return op, ok
}
