package progress

import "io"

// Reporter feeds a Tracker and forwards due snapshots to an Observer.
type Reporter struct {
	tracker  *Tracker
	observer Observer
}

func NewReporter(label string, total int64, cfg Config, obs Observer) *Reporter {
	if obs == nil {
		obs = NoopObserver{}
	}
	return &Reporter{tracker: NewTracker(label, total, cfg), observer: obs}
}

func (r *Reporter) Add(n int64) {
	if snap, notify := r.tracker.Advance(n); notify {
		r.observer.Publish(snap)
	}
}

func (r *Reporter) Finish() Snapshot {
	snap := r.tracker.Complete()
	r.observer.Done(snap)
	return snap
}

type countingReader struct {
	r   io.Reader
	rep *Reporter
}

// NewReader reports every byte read from r to rep.
func NewReader(r io.Reader, rep *Reporter) io.Reader {
	return &countingReader{r: r, rep: rep}
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	if n > 0 {
		c.rep.Add(int64(n))
	}
	return n, err
}
