package robintable

// Option tweaks a table at construction.
type Option func(*Table)

// WithMaxCapacity caps the number of slots the table may grow to. Inserts
// that would need more slots fail with ErrCapacityExhausted.
//
// Values < 1 are ignored.
func WithMaxCapacity(n int) Option {
	return func(t *Table) {
		if n >= 1 {
			t.maxCapacity = n
		}
	}
}
