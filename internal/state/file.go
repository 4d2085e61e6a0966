package state

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/google/uuid"
)

// FileBackend keeps the record in a single JSON file. Writes go to a
// temporary file in the same directory which is fsynced and renamed into
// place, so readers never observe a partial record. There is no lock:
// concurrent processes are last writer wins.
type FileBackend struct {
	Path string
}

func (b FileBackend) Load(ctx context.Context) (*State, error) {
	data, err := os.ReadFile(b.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read state %s: %w", b.Path, err)
	}
	st, err := Unmarshal(data)
	if err != nil {
		return nil, fmt.Errorf("state %s: %w", b.Path, err)
	}
	return st, nil
}

func (b FileBackend) Save(ctx context.Context, st *State) error {
	data, err := Marshal(st)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(b.Path), 0o755); err != nil {
		return err
	}
	tmp := b.Path + ".tmp." + uuid.NewString()
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_WRONLY|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("create temporary state file: %w", err)
	}
	if _, err := f.Write(data); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("write state: %w", err)
	}
	if err := f.Sync(); err != nil {
		f.Close()
		os.Remove(tmp)
		return fmt.Errorf("sync state: %w", err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmp)
		return err
	}
	if err := os.Rename(tmp, b.Path); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("replace state: %w", err)
	}
	return nil
}
