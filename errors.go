package tierstore

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks an invalid level configuration. Fatal at construction.
	ErrConfig = errors.New("tierstore: invalid configuration")

	// ErrUnsupportedOperation is returned by every removal-style call
	// (delete, clear, pop, popitem). It signals a caller bug and must not be retried.
	ErrUnsupportedOperation = errors.New("tierstore: unsupported operation")

	// ErrCapacity reports a level holding more entries than its capacity
	// after an insert. It points at a purge defect, not a runtime condition.
	ErrCapacity = errors.New("tierstore: capacity invariant violated")

	// ErrInvalidObject wraps Verify/Consistency failures and key mismatches.
	ErrInvalidObject = errors.New("tierstore: invalid object")

	// ErrRejected is returned when a provider refused a write under pressure.
	ErrRejected = errors.New("tierstore: write rejected by provider")
)

type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("tierstore: invalid configuration: %s: %s", e.Field, e.Reason)
}

func (e *ConfigError) Unwrap() error { return ErrConfig }

type CapacityError struct {
	Level    string
	Len      int
	Capacity int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("tierstore: level %q holds %d entries, capacity %d", e.Level, e.Len, e.Capacity)
}

func (e *CapacityError) Unwrap() error { return ErrCapacity }

// WriteBackError reports a purge that stopped because the next level
// refused a dirty entry. The entry and every victim after it stay resident.
type WriteBackError struct {
	Level    string
	Key      any
	Evicted  int // victims removed before the failure
	Retained int // victims still resident, including Key
	Err      error
}

func (e *WriteBackError) Error() string {
	return fmt.Sprintf("tierstore: level %q: write-back of %v failed (evicted=%d retained=%d): %v",
		e.Level, e.Key, e.Evicted, e.Retained, e.Err)
}

func (e *WriteBackError) Unwrap() error { return e.Err }

type ObjectError struct {
	Key   any
	Stage string // "verify", "consistency" or "key"
	Err   error
}

func (e *ObjectError) Error() string {
	return fmt.Sprintf("tierstore: object %v failed %s: %v", e.Key, e.Stage, e.Err)
}

func (e *ObjectError) Unwrap() []error {
	errs := make([]error, 0, 2)
	errs = append(errs, ErrInvalidObject)
	if e.Err != nil {
		errs = append(errs, e.Err)
	}
	return errs
}

func unsupported(op string) error {
	return fmt.Errorf("%w: %s", ErrUnsupportedOperation, op)
}

func errKeyMismatch(want, got any) error {
	return fmt.Errorf("key %v does not match object key %v", want, got)
}
