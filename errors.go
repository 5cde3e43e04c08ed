package robintable

import "github.com/pkg/errors"

var (
	// ErrInvalidCapacity is returned by New when the initial capacity is < 1.
	ErrInvalidCapacity = errors.New("robintable: initial capacity must be at least 1")

	// ErrInvalidLoadFactor is returned by New when the max load factor is not
	// in (0, 1].
	ErrInvalidLoadFactor = errors.New("robintable: max load factor must be in (0, 1]")

	// ErrCapacityExhausted is returned by Insert when the table would need to
	// grow past its maximum capacity. The table is left as it was.
	ErrCapacityExhausted = errors.New("robintable: capacity exhausted")
)
