package forms

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrFormNotFound       = errors.New("form not found")
	ErrFormExists         = errors.New("a form with that name already exists")
	ErrCapacity           = errors.New("form already has the maximum of 5 fields")
	ErrDuplicateLabel     = errors.New("a field with that label already exists")
	ErrUnknownField       = errors.New("unknown field")
	ErrBadPosition        = errors.New("position is out of range")
	ErrEmptyForm          = errors.New("form has no fields")
	ErrFieldCountMismatch = errors.New("submitted answers do not match the current form fields")
	ErrValueTooLong       = errors.New("value too long")
	ErrEmptyLabel         = errors.New("label is empty")
)

// ValidationError names the field whose answer violated a constraint.
type ValidationError struct {
	Label  string
	Reason string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("'%s' %s", e.Label, e.Reason)
}

// CooldownError reports an active cooldown and how long is left on it.
type CooldownError struct {
	Remaining time.Duration
}

func (e *CooldownError) Error() string {
	return fmt.Sprintf("cooldown active for another %s", e.Remaining.Round(time.Second))
}

// DispatchError wraps a thread-delivery failure. It is transient: the
// cooldown is not committed and the same answers may be retried.
type DispatchError struct {
	Op  string
	Err error
}

func (e *DispatchError) Error() string {
	return fmt.Sprintf("dispatch %s: %v", e.Op, e.Err)
}

func (e *DispatchError) Unwrap() error { return e.Err }
