package undo

// Log is a LIFO of reversible actions. The last element is the next one
// to undo.
type Log struct {
	items []Action
}

func NewLog() *Log { return &Log{} }

func (l *Log) Push(a Action) { l.items = append(l.items, a) }

// Pop removes the most recent action. It returns nil, false when empty.
func (l *Log) Pop() (Action, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	a := l.items[len(l.items)-1]
	l.items[len(l.items)-1] = nil
	l.items = l.items[:len(l.items)-1]
	return a, true
}

// Peek returns the most recent action without removing it.
func (l *Log) Peek() (Action, bool) {
	if len(l.items) == 0 {
		return nil, false
	}
	return l.items[len(l.items)-1], true
}

func (l *Log) IsEmpty() bool { return len(l.items) == 0 }

func (l *Log) Len() int { return len(l.items) }

// Records exports the log oldest first.
func (l *Log) Records() []Record {
	out := make([]Record, len(l.items))
	for i, a := range l.items {
		out[i] = a.Record()
	}
	return out
}

// LogFromRecords rebuilds a log from records exported by Records.
func LogFromRecords(recs []Record) (*Log, error) {
	l := NewLog()
	for _, rec := range recs {
		a, err := FromRecord(rec)
		if err != nil {
			return nil, err
		}
		l.Push(a)
	}
	return l, nil
}
