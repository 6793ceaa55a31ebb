// Package apperr defines the error kinds shared by every modsync component.
//
// Callers classify failures with errors.Is against the sentinel kinds
// (ErrIO, ErrNetworkTimeout, ErrRemote, ...). Typed errors such as RemoteError
// and TimeoutError carry details and report their kind through an Is method,
// so wrapping with fmt.Errorf("...: %w", err) keeps the classification intact.
//
// # Severity
//
// ErrCancelled is an operator decision, not a failure. The CLI treats it as a
// graceful exit with status 0.
package apperr
