package progress

import (
	"fmt"
	"io"
	"math"
	"os"
	"strings"
	"sync"
	"time"

	"golang.org/x/term"

	"github.com/phyten/grepx/internal/textutil"
)

// Observer receives snapshots while a read is in flight and once at the end.
type Observer interface {
	Publish(Snapshot)
	Done(Snapshot)
}

type NoopObserver struct{}

func (NoopObserver) Publish(Snapshot) {}
func (NoopObserver) Done(Snapshot)    {}

// ObserverFunc adapts a function to Observer; Done is ignored.
type ObserverFunc func(Snapshot)

func (f ObserverFunc) Publish(s Snapshot) { f(s) }
func (ObserverFunc) Done(Snapshot)        {}

// ShouldShowProgress: --no-progress wins, --progress forces, otherwise
// both stdout and stderr must be terminals.
func ShouldShowProgress(force, no bool, stdout, stderr io.Writer) bool {
	switch {
	case no:
		return false
	case force:
		return true
	}
	return isTTY(stdout) && isTTY(stderr)
}

const clearLine = "\r\033[K"

// streamObserver writes one rendering per snapshot. In place, each
// rendering overwrites the previous one and Done erases it.
type streamObserver struct {
	mu      sync.Mutex
	w       io.Writer
	inPlace bool
	columns func() int
}

// NewTTYObserver redraws a single status line on w.
func NewTTYObserver(w io.Writer) Observer {
	return &streamObserver{w: orStderr(w), inPlace: true, columns: columnsOf(w)}
}

// NewLineObserver appends one key=value line per snapshot to w.
func NewLineObserver(w io.Writer) Observer {
	return &streamObserver{w: orStderr(w)}
}

// NewAutoObserver picks the TTY observer when w is a terminal.
func NewAutoObserver(w io.Writer) Observer {
	w = orStderr(w)
	if isTTY(w) {
		return NewTTYObserver(w)
	}
	return NewLineObserver(w)
}

func (o *streamObserver) Publish(s Snapshot) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if !o.inPlace {
		_, _ = fmt.Fprintln(o.w, renderLine(s))
		return
	}
	line := renderTTY(s)
	if cols := o.columns(); cols > 1 {
		line = textutil.TruncateByWidth(line, cols-1, "…")
	}
	_, _ = io.WriteString(o.w, clearLine+line)
}

func (o *streamObserver) Done(Snapshot) {
	if !o.inPlace {
		return
	}
	o.mu.Lock()
	defer o.mu.Unlock()
	_, _ = io.WriteString(o.w, clearLine)
}

func renderTTY(s Snapshot) string {
	speed, eta, p90 := "--/s", "--:--", ""
	if !s.Warmup {
		if s.RateEMA > 0 {
			speed = formatBytes(int64(s.RateEMA)) + "/s"
		}
		if s.ETAP50 > 0 {
			eta = formatETA(s.ETAP50)
		}
		if s.ETAP90 > 0 {
			p90 = " (P90 " + formatETA(s.ETAP90) + ")"
		}
	}
	var b strings.Builder
	b.WriteString("[reading] ")
	if s.Label != "" {
		b.WriteString(s.Label + " ")
	}
	fmt.Fprintf(&b, "%3d%% %s/%s %s ETA %s%s", percent(s.Done, s.Total), formatBytes(s.Done), formatBytes(s.Total), speed, eta, p90)
	return b.String()
}

func renderLine(s Snapshot) string {
	return fmt.Sprintf("progress label=%q total=%d done=%d rate=%.3f eta_p50=%g eta_p90=%g warmup=%t updated_at=%s",
		s.Label, s.Total, s.Done, s.RateEMA, seconds(s.ETAP50), seconds(s.ETAP90), s.Warmup, s.UpdatedAt.Format(time.RFC3339Nano))
}

// formatETA renders hh:mm:ss, capping hours at 99.
func formatETA(d time.Duration) string {
	secs := int(math.Max(0, math.Round(d.Seconds())))
	h := min(secs/3600, 99)
	return fmt.Sprintf("%02d:%02d:%02d", h, secs%3600/60, secs%60)
}

var byteUnits = []string{"KiB", "MiB", "GiB", "TiB"}

func formatBytes(n int64) string {
	if n < 0 {
		return "?"
	}
	if n < 1024 {
		return fmt.Sprintf("%dB", n)
	}
	v := float64(n) / 1024
	i := 0
	for v >= 1024 && i < len(byteUnits)-1 {
		v /= 1024
		i++
	}
	return fmt.Sprintf("%.1f%s", v, byteUnits[i])
}

// seconds returns -1 for an unknown (non-positive) duration.
func seconds(d time.Duration) float64 {
	if d <= 0 {
		return -1
	}
	return d.Seconds()
}

// percent is done/total clamped to 0..100. Work with no known total is
// complete as soon as anything is done.
func percent(done, total int64) int {
	switch {
	case done <= 0:
		return 0
	case total <= 0 || done >= total:
		return 100
	}
	return int(done * 100 / total)
}

func orStderr(w io.Writer) io.Writer {
	if w == nil {
		return os.Stderr
	}
	return w
}

func columnsOf(w io.Writer) func() int {
	f, ok := w.(*os.File)
	if !ok {
		return func() int { return 0 }
	}
	return func() int {
		cols, _, err := term.GetSize(int(f.Fd()))
		if err != nil {
			return 0
		}
		return cols
	}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && f != nil && term.IsTerminal(int(f.Fd()))
}
