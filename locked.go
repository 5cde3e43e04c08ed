package robintable

import "sync"

// Locked wraps a Table with a mutex so that many goroutines can share it.
// Every call takes the lock for its whole duration, grows included.
type Locked struct {
	mu sync.Mutex
	t  *Table
}

func NewLocked(t *Table) *Locked {
	return &Locked{t: t}
}

func (l *Locked) Insert(key, value uint32) (InsertOutcome, error) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Insert(key, value)
}

func (l *Locked) Lookup(key uint32) (uint32, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Lookup(key)
}

func (l *Locked) Delete(key uint32) (uint32, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Delete(key)
}

func (l *Locked) Len() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Len()
}

func (l *Locked) Cap() int {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Cap()
}

func (l *Locked) Stats() Stats {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.t.Stats()
}
