package remote

import (
	"context"
	"io"
	"sync/atomic"
	"time"

	"modsync/core/apperr"
)

// idleTimeoutBody fails a transfer that goes timeout without receiving data.
// The timer runs only while a Read is outstanding.
type idleTimeoutBody struct {
	body     io.ReadCloser
	op       string
	timeout  time.Duration
	cancel   context.CancelFunc
	timer    *time.Timer
	timedOut atomic.Bool
}

func newIdleTimeoutBody(body io.ReadCloser, op string, timeout time.Duration, cancel context.CancelFunc) *idleTimeoutBody {
	b := &idleTimeoutBody{body: body, op: op, timeout: timeout, cancel: cancel}
	b.timer = time.AfterFunc(timeout, b.expire)
	b.timer.Stop()
	return b
}

func (b *idleTimeoutBody) expire() {
	b.timedOut.Store(true)
	b.cancel()
}

func (b *idleTimeoutBody) Read(p []byte) (int, error) {
	if b.timedOut.Load() {
		return 0, b.timeoutError()
	}

	b.timer.Reset(b.timeout)
	n, err := b.body.Read(p)
	b.timer.Stop()

	if err != nil && err != io.EOF && b.timedOut.Load() {
		return n, b.timeoutError()
	}
	return n, err
}

func (b *idleTimeoutBody) Close() error {
	b.timer.Stop()
	err := b.body.Close()
	b.cancel()
	return err
}

func (b *idleTimeoutBody) timeoutError() error {
	return &apperr.TimeoutError{Op: b.op, Hint: ConnectivityHint, Err: context.DeadlineExceeded}
}
