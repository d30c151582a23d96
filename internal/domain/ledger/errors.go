package ledger

import (
	"errors"
	"fmt"
)

var (
	// ErrOutOfRange is matched by every *OutOfRangeError.
	ErrOutOfRange = errors.New("index out of range")

	// ErrMalformedState reports a persisted document that cannot be loaded.
	ErrMalformedState = errors.New("malformed ledger state")

	// ErrInvalidMonth is returned when a sheet month falls outside 1..12.
	ErrInvalidMonth = errors.New("month must be between 1 and 12")

	// ErrQuantityRange rejects quantities a Decimal128 cannot hold.
	ErrQuantityRange = errors.New("quantity exceeds 34 significant digits or exponent range")
)

// OutOfRangeError names the container and the index that was rejected.
type OutOfRangeError struct {
	Container string
	Index     int
	Len       int
}

func (e *OutOfRangeError) Error() string {
	return fmt.Sprintf("%s index %d out of range [0,%d)", e.Container, e.Index, e.Len)
}

// Is lets errors.Is(err, ErrOutOfRange) match.
func (e *OutOfRangeError) Is(target error) bool {
	return target == ErrOutOfRange
}

func outOfRange(container string, index, n int) error {
	return &OutOfRangeError{Container: container, Index: index, Len: n}
}

func malformed(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrMalformedState, fmt.Sprintf(format, args...))
}
