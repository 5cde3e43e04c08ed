package robintable

import (
	"fmt"
	"math"
	"runtime"

	"github.com/pkg/errors"
)

// What Insert did with the key.
type InsertOutcome uint8

const (
	// The key was not in the table and now it is.
	Inserted InsertOutcome = iota + 1
	// The key was already in the table. Its value got overwritten.
	Updated
)

func (o InsertOutcome) String() string {
	switch o {
	case Inserted:
		return "inserted"
	case Updated:
		return "updated"
	default:
		return fmt.Sprintf("InsertOutcome(%d)", uint8(o))
	}
}

type entry struct {
	key   uint32
	value uint32
	hash  uint
	// number of slots past the home slot. Kept in sync whenever the entry
	// moves.
	dist uint
}

type slot struct {
	entry
	occupied bool
}

// A Robin Hood hash table, or robin for short. Maps uint32 keys to uint32
// values.
//
// Collisions are resolved with linear probing where the entry that is further
// away from its home slot ("poorer") always gets to steal the slot from a
// "richer" one. Deletes shift the following entries back so there are no
// tombstones, ever.
//
// Not safe for concurrent use. See Locked for that.
type Table struct {
	hasher func(key uint32) uint

	slots         []slot
	len           int
	maxLoadFactor float64
	maxCapacity   int

	grows int
}

// New makes a table with room for initialCapacity slots. The table doubles
// its slots whenever an insert would push len/capacity past maxLoadFactor.
//
// initialCapacity must be at least 1 and maxLoadFactor must be in (0, 1].
// Nothing gets clamped, bad parameters are an error.
func New(initialCapacity int, maxLoadFactor float64, opts ...Option) (*Table, error) {
	return newWithHasher(initialCapacity, maxLoadFactor, Hash, opts...)
}

// MustNew is like New but panics on bad parameters.
func MustNew(initialCapacity int, maxLoadFactor float64, opts ...Option) *Table {
	t, err := New(initialCapacity, maxLoadFactor, opts...)
	if err != nil {
		panic(err)
	}
	return t
}

func newWithHasher(initialCapacity int, maxLoadFactor float64, hasher func(uint32) uint, opts ...Option) (*Table, error) {
	if initialCapacity < 1 {
		return nil, errors.Wrapf(ErrInvalidCapacity, "got %d", initialCapacity)
	}
	// NOTE: NaN fails both comparisons, so spell the check out positively.
	if !(maxLoadFactor > 0 && maxLoadFactor <= 1) {
		return nil, errors.Wrapf(ErrInvalidLoadFactor, "got %v", maxLoadFactor)
	}

	t := &Table{
		hasher:        hasher,
		maxLoadFactor: maxLoadFactor,
		maxCapacity:   defaultMaxCapacity,
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.maxCapacity < initialCapacity {
		return nil, errors.Wrapf(ErrInvalidCapacity, "initial capacity %d is above the max capacity %d", initialCapacity, t.maxCapacity)
	}

	slots, err := makeSlots(initialCapacity)
	if err != nil {
		return nil, err
	}
	t.slots = slots
	return t, nil
}

// Len returns the number of entries in the table.
func (t *Table) Len() int {
	return t.len
}

// Cap returns the number of slots in the table.
func (t *Table) Cap() int {
	return len(t.slots)
}

func (t *Table) MaxLoadFactor() float64 {
	return t.maxLoadFactor
}

// Lookup returns the value stored for key.
func (t *Table) Lookup(key uint32) (uint32, bool) {
	idx, ok := t.find(key, t.hasher(key))
	if !ok {
		return 0, false
	}
	return t.slots[idx].value, true
}

// find walks the probe sequence of key and returns the slot holding it.
func (t *Table) find(key uint32, hash uint) (int, bool) {
	n := uint(len(t.slots))
	idx := hash % n
	for steps := uint(0); steps < n; steps++ {
		s := &t.slots[idx]
		if !s.occupied {
			return 0, false
		}
		if s.hash == hash && s.key == key {
			return int(idx), true
		}
		// The occupant is richer than we would be here. Had our key been
		// inserted, it would have stolen this slot.
		if s.dist < steps {
			return 0, false
		}

		idx++
		if idx == n {
			idx = 0
		}
	}

	// A completely full table (max load factor of 1) can make us walk around
	// it without seeing an empty slot or a richer entry.
	if t.len == len(t.slots) {
		return 0, false
	}
	t.corrupted("lookup", key)
	return 0, false
}

// Insert puts the key-value pair into the table. An existing key gets its
// value overwritten.
//
// The only error is ErrCapacityExhausted, in which case the table is left
// exactly as it was.
func (t *Table) Insert(key, value uint32) (InsertOutcome, error) {
	hash := t.hasher(key)

	if t.overloaded(t.len+1, len(t.slots)) {
		// Updating doesn't add an entry, so don't grow for it. Otherwise a
		// table at its max capacity couldn't update its keys anymore.
		if idx, ok := t.find(key, hash); ok {
			t.slots[idx].value = value
			return Updated, nil
		}
		if err := t.grow(t.len + 1); err != nil {
			return 0, err
		}
	}

	return t.insert(entry{key: key, value: value, hash: hash}), nil
}

// insert assumes that there's room for one more entry.
func (t *Table) insert(e entry) InsertOutcome {
	n := uint(len(t.slots))
	idx := e.hash % n

	// Once we evict someone we know that our key was not in the table. From
	// then on we are just carrying the evicted entries forward.
	displacing := false

	for steps := uint(0); steps < n; steps++ {
		s := &t.slots[idx]
		if !s.occupied {
			s.entry = e
			s.occupied = true
			t.len++
			return Inserted
		}

		if !displacing && s.hash == e.hash && s.key == e.key {
			s.value = e.value
			return Updated
		}

		// Take from the rich, give to the poor. The evicted entry keeps its
		// distance, it's still correct for this slot.
		if e.dist > s.dist {
			e, s.entry = s.entry, e
			displacing = true
		}

		e.dist++
		idx++
		if idx == n {
			idx = 0
		}
	}

	t.corrupted("insert", e.key)
	return 0
}

// Delete removes the key from the table and returns the value it had.
func (t *Table) Delete(key uint32) (uint32, bool) {
	idx, ok := t.find(key, t.hasher(key))
	if !ok {
		return 0, false
	}

	value := t.slots[idx].value
	t.len--
	t.backshift(idx)
	return value, true
}

// backshift fills the hole at i by pulling the displaced entries that follow
// it one slot back. Stops at the first empty slot or at an entry that already
// sits in its home slot.
func (t *Table) backshift(i int) {
	n := len(t.slots)
	for moved := 0; ; moved++ {
		if moved == n {
			t.corrupted("delete", t.slots[i].key)
		}

		next := i + 1
		if next == n {
			next = 0
		}

		s := &t.slots[next]
		if !s.occupied || s.dist == 0 {
			break
		}

		t.slots[i].entry = s.entry
		t.slots[i].dist--
		i = next
	}

	t.slots[i] = slot{}
}

// Clear removes all of the entries. The capacity stays.
func (t *Table) Clear() {
	for i := range t.slots {
		t.slots[i] = slot{}
	}
	t.len = 0
}

// Iterates over all of the key-value pairs in slot order. Stops when iter
// returns false. Don't modify the table while iterating.
func (t *Table) Iterate(iter func(key, value uint32) bool) {
	for i := range t.slots {
		s := &t.slots[i]
		if !s.occupied {
			continue
		}
		if !iter(s.key, s.value) {
			return
		}
	}
}

func (t *Table) overloaded(entries, capacity int) bool {
	return float64(entries) > float64(capacity)*t.maxLoadFactor
}

// grow makes room for the given number of entries by doubling the capacity
// as many times as needed and rehashing everything into the new slots. The
// old slots stay untouched until the new ones are fully built.
func (t *Table) grow(entries int) error {
	newCap := len(t.slots)
	for t.overloaded(entries, newCap) {
		if newCap >= t.maxCapacity {
			return errors.Wrapf(ErrCapacityExhausted, "%d entries need more than %d slots", entries, t.maxCapacity)
		}
		if newCap > t.maxCapacity/2 {
			newCap = t.maxCapacity
		} else {
			newCap *= 2
		}
	}

	slots, err := makeSlots(newCap)
	if err != nil {
		return err
	}

	grown := Table{
		hasher:        t.hasher,
		slots:         slots,
		maxLoadFactor: t.maxLoadFactor,
		maxCapacity:   t.maxCapacity,
	}
	for i := range t.slots {
		s := &t.slots[i]
		if !s.occupied {
			continue
		}
		// The hash doesn't depend on the capacity, only the home slot does.
		e := s.entry
		e.dist = 0
		grown.insert(e)
	}

	t.slots = grown.slots
	t.grows++
	return nil
}

// makeSlots turns the runtime's complaint about a too large allocation into
// an error.
func makeSlots(n int) (slots []slot, err error) {
	defer func() {
		if r := recover(); r != nil {
			re, ok := r.(runtime.Error)
			if !ok {
				panic(r)
			}
			slots, err = nil, errors.Wrapf(ErrCapacityExhausted, "allocating %d slots: %v", n, re)
		}
	}()
	return make([]slot, n), nil
}

// corrupted is called when a probe walk goes around the whole table without
// resolving. That can't happen unless the probe distances are broken.
func (t *Table) corrupted(op string, key uint32) {
	panic(fmt.Sprintf("robintable: %s of key %d walked past all %d slots (len=%d), table is corrupted", op, key, len(t.slots), t.len))
}

const defaultMaxCapacity = math.MaxInt / 2
