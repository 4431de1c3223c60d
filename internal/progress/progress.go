// Package progress reports the advance of long-running batch work on a terminal.
//
// A Reporter prints a status line each time another tenth of the work is
// done. A Spinner animates while a single step of unknown length runs, such
// as building or loading the search indexes. Both overwrite their line in
// place when writing to a terminal and fall back to plain lines otherwise.
package progress

import (
	"fmt"
	"io"
	"os"
	"sync"

	"golang.org/x/term"
)

// clearLine returns the cursor to the start of the line and erases it.
const clearLine = "\r\033[2K"

// Reporter counts processed items and prints a status line at every 10% of total.
type Reporter struct {
	writer   io.Writer
	total    int
	interval int // items between status lines
	done     int
	tty      bool
	mu       sync.Mutex
}

// NewReporter creates a Reporter for total items. A nil writer discards output.
func NewReporter(writer io.Writer, total int) *Reporter {
	if writer == nil {
		writer = io.Discard
	}

	interval := (total + 5) / 10 // tenth of total, rounded
	if interval < 1 {
		interval = 1
	}

	return &Reporter{
		writer:   writer,
		total:    total,
		interval: interval,
		tty:      isTerminal(writer),
	}
}

// Advance records one processed item.
func (r *Reporter) Advance() {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.done++
	if r.done%r.interval != 0 || r.done >= r.total {
		return
	}

	percentage := r.done * 100 / r.total
	if r.tty {
		fmt.Fprintf(r.writer, "%s%d songs analyzed... (%d%%)", clearLine, r.done, percentage)
	} else {
		fmt.Fprintf(r.writer, "%d songs analyzed... (%d%%)\n", r.done, percentage)
	}
}

// Done returns the number of items recorded so far.
func (r *Reporter) Done() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.done
}

// Finish prints the final status line.
func (r *Reporter) Finish() {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.tty {
		fmt.Fprint(r.writer, clearLine)
	}
	fmt.Fprintf(r.writer, "%d songs analyzed. (100%%)\n", r.done)
}

// isTerminal reports whether w is a terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}
