package progress

import (
	"math"
	"slices"
)

// window is a fixed-size ring of recent rate samples.
type window struct {
	buf  []float64
	next int
	full bool
}

func newWindow(size int) *window {
	return &window{buf: make([]float64, max(size, 1))}
}

func (w *window) Add(v float64) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return
	}
	w.buf[w.next] = v
	w.next = (w.next + 1) % len(w.buf)
	if w.next == 0 {
		w.full = true
	}
}

func (w *window) values() []float64 {
	if w.full {
		return slices.Clone(w.buf)
	}
	return slices.Clone(w.buf[:w.next])
}

// Quantile interpolates linearly between the nearest ranks. An empty window
// yields 0.
func (w *window) Quantile(q float64) float64 {
	vals := w.values()
	if len(vals) == 0 {
		return 0
	}
	slices.Sort(vals)
	q = math.Min(math.Max(q, 0), 1)
	pos := q * float64(len(vals)-1)
	lo := int(math.Floor(pos))
	hi := int(math.Ceil(pos))
	frac := pos - float64(lo)
	return vals[lo] + (vals[hi]-vals[lo])*frac
}
