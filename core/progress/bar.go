package progress

import (
	"fmt"
	"io"
	"strings"

	"github.com/buger/goterm"
)

// Eighth-block glyphs, from one eighth to a full cell.
var blocks = []rune{'▏', '▎', '▍', '▌', '▋', '▊', '▉', '█'}

const (
	hideCursor = "\x1b[?25l"
	showCursor = "\x1b[?25h"
)

// Bar renders a single-line progress bar. It assumes exclusive use of the
// current terminal line between Start and Finish.
type Bar struct {
	out     io.Writer
	width   int
	color   int
	total   int64
	started bool
}

// New creates a bar of width cells. A color of -1 disables coloring.
func New(out io.Writer, width, color int) *Bar {
	if width < 1 {
		width = 1
	}
	return &Bar{out: out, width: width, color: color}
}

// Start hides the cursor and records the expected total, -1 when unknown.
func (b *Bar) Start(total int64) {
	b.total = total
	b.started = true
	fmt.Fprint(b.out, hideCursor)
}

// Update redraws the bar for written bytes out of total, starting the bar on
// first use. It has the shape of a fetch progress callback.
func (b *Bar) Update(written, total int64) {
	if !b.started {
		b.Start(total)
	}
	b.total = total
	if total <= 0 {
		fmt.Fprintf(b.out, "\r%s received", FormatBytes(written))
		return
	}

	ratio := float64(written) / float64(total)
	if ratio > 1 {
		ratio = 1
	}
	fmt.Fprintf(b.out, "\r|%s| %.2f%%", b.render(ratio), 100*ratio)
}

// Finish restores the cursor and ends the line. It does nothing if the bar
// was never drawn.
func (b *Bar) Finish() {
	if !b.started {
		return
	}
	b.started = false
	fmt.Fprintln(b.out, showCursor)
}

func (b *Bar) render(ratio float64) string {
	full := int(ratio * float64(b.width))
	partial := int(ratio*float64(b.width)*8) % 8

	var sb strings.Builder
	sb.WriteString(strings.Repeat(string(blocks[7]), full))
	cells := full
	if partial > 0 && full < b.width {
		sb.WriteRune(blocks[partial-1])
		cells++
	}
	sb.WriteString(strings.Repeat(" ", b.width-cells))

	if b.color < 0 {
		return sb.String()
	}
	return goterm.Color(sb.String(), b.color)
}

// FormatBytes renders n with a binary unit suffix.
func FormatBytes(n int64) string {
	const unit = 1024
	if n < unit {
		return fmt.Sprintf("%d B", n)
	}
	div, exp := int64(unit), 0
	for m := n / unit; m >= unit; m /= unit {
		div *= unit
		exp++
	}
	return fmt.Sprintf("%.1f %ciB", float64(n)/float64(div), "KMGTPE"[exp])
}
