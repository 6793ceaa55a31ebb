package remote

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"os"

	"modsync/core/apperr"
)

// ConnectivityHint is attached to every timeout surfaced to the operator.
const ConnectivityHint = "check VPN/connectivity"

// Source opens named remote resources as byte streams.
type Source interface {
	// Open starts a transfer of name. size is -1 when the remote does not
	// advertise a length. The caller closes body.
	Open(ctx context.Context, name string) (body io.ReadCloser, size int64, err error)
}

// Classify maps transport failures onto the error kinds: deadline expiries
// become TimeoutError, caller cancellation becomes ErrCancelled.
func Classify(op string, err error) error {
	if err == nil {
		return nil
	}
	var timeout *apperr.TimeoutError
	if errors.As(err, &timeout) {
		return err
	}
	if errors.Is(err, context.Canceled) {
		return fmt.Errorf("%s: %w", op, apperr.ErrCancelled)
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return &apperr.TimeoutError{Op: op, Hint: ConnectivityHint, Err: err}
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, os.ErrDeadlineExceeded) {
		return &apperr.TimeoutError{Op: op, Hint: ConnectivityHint, Err: err}
	}
	return fmt.Errorf("%s: %w", op, err)
}
