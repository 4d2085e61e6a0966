package state

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"helpdesk/internal/events"
)

// SQLiteBackend stores the record as a single snapshot row and journals
// every save in the events table. The schema comes from internal/migrate.
type SQLiteBackend struct {
	DB     *sql.DB
	Events events.Writer
	Now    func() time.Time
}

func NewSQLiteBackend(db *sql.DB) SQLiteBackend {
	return SQLiteBackend{DB: db, Events: events.Writer{}, Now: time.Now}
}

func (b SQLiteBackend) now() time.Time {
	if b.Now != nil {
		return b.Now()
	}
	return time.Now()
}

func (b SQLiteBackend) Load(ctx context.Context) (*State, error) {
	var payload string
	err := b.DB.QueryRowContext(ctx, `SELECT payload FROM state_snapshots WHERE id=1`).Scan(&payload)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Unmarshal([]byte(payload))
}

func (b SQLiteBackend) Save(ctx context.Context, st *State) error {
	data, err := Marshal(st)
	if err != nil {
		return err
	}
	tx, err := b.DB.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	now := b.now().UTC().Format(time.RFC3339)
	if _, err := tx.ExecContext(ctx, `INSERT INTO state_snapshots(id,payload,saved_at) VALUES (1,?,?)
ON CONFLICT(id) DO UPDATE SET payload=excluded.payload, saved_at=excluded.saved_at`, string(data), now); err != nil {
		return fmt.Errorf("write snapshot: %w", err)
	}
	evtType, ref := "state.saved", ""
	if op, ok := OperationFrom(ctx); ok {
		evtType = op.Name
		if op.TicketID > 0 {
			ref = fmt.Sprint(op.TicketID)
		}
	}
	w := b.Events
	w.Now = b.now
	if err := w.Append(ctx, tx, evtType, ref, events.EventPayload{
		"tickets":    len(st.Tickets),
		"standard":   len(st.StandardQueue),
		"high":       len(st.HighPriorityQueue),
		"undo_depth": len(st.UndoStack),
		"bytes":      len(data),
		"digest":     Digest(data),
	}); err != nil {
		return fmt.Errorf("journal save: %w", err)
	}
	return tx.Commit()
}
