package output

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/mattn/go-isatty"
)

const (
	// OfflineTitle and OfflineMessage are shown when dispatch is skipped
	// because no network route is available.
	OfflineTitle   = "Internet Status"
	OfflineMessage = "Internet connection is not available"

	indicatorText = "Loading..."
)

// TerminalNotifier renders UI notifications on a terminal: a colored alert
// for offline state and a single status line for the loading indicator.
// It is meant to sit behind a notify.Queue, which serializes calls.
type TerminalNotifier struct {
	w           io.Writer
	interactive bool
	scheme      *ColorScheme
	noColor     bool

	mu      sync.Mutex
	showing bool
}

// NewTerminalNotifier writes to w. The indicator redraws in place only
// when w is a terminal.
func NewTerminalNotifier(w io.Writer, noColor bool) *TerminalNotifier {
	interactive := false
	if f, ok := w.(*os.File); ok {
		interactive = isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
	}
	if !interactive {
		noColor = true
	}
	return &TerminalNotifier{
		w:           w,
		interactive: interactive,
		scheme:      SchemeFor(noColor),
		noColor:     noColor,
	}
}

// NotifyOffline prints the offline alert.
func (n *TerminalNotifier) NotifyOffline() {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.clearLocked()
	fmt.Fprintf(n.w, "%s %s: %s [Ok]\n",
		WarningIcon(n.noColor),
		n.scheme.Alert.Sprint(OfflineTitle),
		OfflineMessage)
}

// NotifyIndicator shows or hides the loading line. Repeated calls with
// the same value are ignored.
func (n *TerminalNotifier) NotifyIndicator(show bool) {
	n.mu.Lock()
	defer n.mu.Unlock()
	if show == n.showing {
		return
	}
	if !show {
		n.clearLocked()
		return
	}
	n.showing = true
	if n.interactive {
		fmt.Fprintf(n.w, "%s %s", n.scheme.Highlight.Sprint("⠿"), indicatorText)
		return
	}
	fmt.Fprintln(n.w, indicatorText)
}

func (n *TerminalNotifier) clearLocked() {
	if !n.showing {
		return
	}
	n.showing = false
	if n.interactive {
		fmt.Fprint(n.w, "\r\033[K")
	}
}
