package gate

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"sort"
	"strings"
	"sync"

	"github.com/buger/goterm"
)

// Decision is the outcome of a prompt.
type Decision int

const (
	Approved Decision = iota
	Declined
	Cancelled
)

func (d Decision) String() string {
	switch d {
	case Approved:
		return "approved"
	case Declined:
		return "declined"
	default:
		return "cancelled"
	}
}

// Yes/no token set used by every confirmation prompt.
const (
	Yes = "y"
	No  = "n"
)

// Gate asks the operator questions on a line-based terminal. A single reader
// goroutine feeds lines to whichever prompt is waiting, so a prompt blocked on
// input can always be abandoned through its context.
type Gate struct {
	in          io.Reader
	out         io.Writer
	autoApprove bool

	once  sync.Once
	lines chan string
}

// Option configures a Gate.
type Option func(*Gate)

// WithAutoApprove answers every yes/no and removal confirmation with Approved.
func WithAutoApprove(auto bool) Option {
	return func(g *Gate) {
		g.autoApprove = auto
	}
}

// New creates a gate reading answers from in and writing prompts to out.
func New(in io.Reader, out io.Writer, opts ...Option) *Gate {
	g := &Gate{in: in, out: out}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Confirm lists every name slated for removal, sorted, then asks prompt.
// An empty list is approved without reading input.
func (g *Gate) Confirm(ctx context.Context, prompt string, pendingRemovalNames []string) Decision {
	if len(pendingRemovalNames) == 0 {
		return Approved
	}

	names := append([]string(nil), pendingRemovalNames...)
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(g.out, "  %s %s\n", goterm.Color("D:", goterm.RED), name)
	}

	return g.AskYesNo(ctx, prompt)
}

// AskYesNo asks a y/n question.
func (g *Gate) AskYesNo(ctx context.Context, prompt string) Decision {
	if g.autoApprove {
		fmt.Fprintf(g.out, "%s (%s,%s): %s (auto-confirmed)\n", prompt, Yes, No, Yes)
		return Approved
	}

	answer, decision := g.Choose(ctx, prompt, []string{Yes, No})
	if decision != Approved {
		return decision
	}
	if answer == Yes {
		return Approved
	}
	return Declined
}

// Choose repeats prompt until the answer matches one of tokens, compared
// case-insensitively. It returns the matched token in lowercase.
func (g *Gate) Choose(ctx context.Context, prompt string, tokens []string) (string, Decision) {
	valid := make(map[string]struct{}, len(tokens))
	for _, t := range tokens {
		valid[strings.ToLower(t)] = struct{}{}
	}
	query := fmt.Sprintf("%s (%s): ", prompt, strings.Join(tokens, ","))

	for {
		fmt.Fprint(g.out, query)
		line, ok := g.readLine(ctx)
		if !ok {
			fmt.Fprintln(g.out)
			return "", Cancelled
		}

		answer := strings.ToLower(strings.TrimSpace(line))
		if _, ok := valid[answer]; ok {
			return answer, Approved
		}
	}
}

// Ask reads a free-form, non-empty answer.
func (g *Gate) Ask(ctx context.Context, prompt string) (string, Decision) {
	for {
		fmt.Fprintf(g.out, "%s: ", prompt)
		line, ok := g.readLine(ctx)
		if !ok {
			fmt.Fprintln(g.out)
			return "", Cancelled
		}
		if answer := strings.TrimSpace(line); answer != "" {
			return answer, Approved
		}
	}
}

// readLine waits for the next input line. It reports false when ctx is done
// or the input is exhausted.
func (g *Gate) readLine(ctx context.Context) (string, bool) {
	g.once.Do(g.startReader)

	select {
	case <-ctx.Done():
		return "", false
	case line, ok := <-g.lines:
		return line, ok
	}
}

func (g *Gate) startReader() {
	g.lines = make(chan string)
	go func() {
		defer close(g.lines)
		scanner := bufio.NewScanner(g.in)
		for scanner.Scan() {
			g.lines <- scanner.Text()
		}
	}()
}
