package state

import "context"

// MemoryBackend keeps the encoded record in memory. It goes through the
// same JSON encoding as FileBackend so tests exercise the full codec.
type MemoryBackend struct {
	data  []byte
	Saves int
}

func NewMemoryBackend() *MemoryBackend { return &MemoryBackend{} }

func (b *MemoryBackend) Load(ctx context.Context) (*State, error) {
	if b.data == nil {
		return nil, nil
	}
	return Unmarshal(b.data)
}

func (b *MemoryBackend) Save(ctx context.Context, st *State) error {
	data, err := Marshal(st)
	if err != nil {
		return err
	}
	b.data = data
	b.Saves++
	return nil
}

// Bytes returns the last saved encoding.
func (b *MemoryBackend) Bytes() []byte { return b.data }

// SetBytes replaces the stored encoding, for seeding or corrupting state in tests.
func (b *MemoryBackend) SetBytes(data []byte) { b.data = data }
