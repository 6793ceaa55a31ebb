package apperr

import (
	"errors"
	"fmt"
)

// Sentinel error kinds.
var (
	ErrIO             = errors.New("io error")
	ErrNetworkTimeout = errors.New("network timeout")
	ErrRemote         = errors.New("remote error")
	ErrCorruptArchive = errors.New("corrupt archive")
	ErrUnsafePath     = errors.New("unsafe path")
	ErrCancelled      = errors.New("cancelled")
	ErrSizeUnknown    = errors.New("remote did not advertise a content length")
	ErrFailedPartial  = errors.New("apply failed after partial completion")
)

// RemoteError is returned when the remote answers with a non-2xx status.
type RemoteError struct {
	Status int
	Reason string
}

func (e *RemoteError) Error() string {
	return fmt.Sprintf("remote responded with %d %s", e.Status, e.Reason)
}

func (e *RemoteError) Is(target error) bool {
	return target == ErrRemote
}

// TimeoutError is returned when a connection or read exceeds its deadline.
type TimeoutError struct {
	Op   string
	Hint string
	Err  error
}

func (e *TimeoutError) Error() string {
	msg := fmt.Sprintf("timeout during %s", e.Op)
	if e.Hint != "" {
		msg += " (" + e.Hint + ")"
	}
	return msg
}

func (e *TimeoutError) Unwrap() error {
	return e.Err
}

func (e *TimeoutError) Is(target error) bool {
	return target == ErrNetworkTimeout
}

// IO wraps a filesystem failure so it matches ErrIO while keeping the cause.
func IO(op, path string, err error) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s %s: %w", op, path, errors.Join(ErrIO, err))
}

// UnsafePath reports a name that would escape its base directory.
func UnsafePath(name string) error {
	return fmt.Errorf("%w: %q", ErrUnsafePath, name)
}

// IsCancelled reports whether err stems from an operator cancellation.
func IsCancelled(err error) bool {
	return errors.Is(err, ErrCancelled)
}
