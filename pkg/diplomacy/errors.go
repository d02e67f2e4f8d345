package diplomacy

import (
	"errors"
	"fmt"
)

var (
	// ErrInvariant reports a construction bug: an order type the active judge
	// cannot adjudicate, or a move-only helper handed something else.
	ErrInvariant = errors.New("diplomacy: invariant violation")

	// ErrTooIntensive is returned when exhaustive permutation is requested for
	// more orders than the configured bound.
	ErrTooIntensive = errors.New("diplomacy: too many orders for exhaustive permutation")

	// ErrUnknownProvince is returned when an order or edge names a province the
	// map does not define.
	ErrUnknownProvince = errors.New("diplomacy: unknown province")
)

// InvariantError describes a fatal invariant violation. It is raised with
// panic deep inside a judging pass and recovered at the Judge boundary.
type InvariantError struct {
	Order   Order
	Message string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%s: %s", e.Message, e.Order.Describe())
}

func (e *InvariantError) Unwrap() error {
	return ErrInvariant
}

func violate(o *Order, format string, args ...any) {
	panic(&InvariantError{Order: *o, Message: fmt.Sprintf(format, args...)})
}

// recoverInvariant turns an InvariantError panic into *err. Any other panic
// is re-raised.
func recoverInvariant(err *error) {
	r := recover()
	if r == nil {
		return
	}
	if ie, ok := r.(*InvariantError); ok {
		*err = ie
		return
	}
	panic(r)
}

// IllegalOrderError describes why Cleanse removed an order.
type IllegalOrderError struct {
	Order   Order
	Message string
}

func (e *IllegalOrderError) Error() string {
	return fmt.Sprintf("illegal order %s: %s", e.Order.Describe(), e.Message)
}
