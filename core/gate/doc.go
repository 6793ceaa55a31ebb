// Package gate implements the synchronous operator prompts.
//
// Every prompt runs the same loop: read a line, normalize it (trim, lowercase),
// validate it against the accepted tokens, then accept it or ask again.
// Cancelling the context passed to a prompt (for example on SIGINT) unblocks
// it immediately with Cancelled; so does reaching the end of the input.
//
// Confirm is the gate in front of destructive work. It prints every file that
// would be removed before asking, and approves silently when nothing would be.
package gate
