// Package progress tracks how much of a file has been read and renders it
// on stderr.
package progress

import (
	"math"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// Snapshot is the state of a Tracker at one instant. Rates are bytes per
// second; a Remaining of -1 means the total is unknown.
type Snapshot struct {
	Label     string
	Total     int64
	Done      int64
	Remaining int64
	RateEMA   float64
	RateP50   float64
	RateP10   float64
	ETAP50    time.Duration
	ETAP90    time.Duration
	Warmup    bool
	StartedAt time.Time
	UpdatedAt time.Time
	Elapsed   time.Duration
}

// Config tunes estimation. Zero fields take the DefaultConfig value.
type Config struct {
	Alpha          float64
	WindowSize     int
	WarmupSamples  int
	WarmupDuration time.Duration
	NotifyInterval time.Duration
	// SlowFallback scales the median rate when no slow sample exists yet.
	SlowFallback float64
}

func DefaultConfig() Config {
	return Config{
		Alpha:          0.2,
		WindowSize:     60,
		WarmupSamples:  4,
		WarmupDuration: 500 * time.Millisecond,
		NotifyInterval: 100 * time.Millisecond,
		SlowFallback:   0.6,
	}
}

func (c Config) withDefaults() Config {
	d := DefaultConfig()
	if c.Alpha <= 0 {
		c.Alpha = d.Alpha
	}
	if c.WindowSize <= 0 {
		c.WindowSize = d.WindowSize
	}
	if c.WarmupSamples <= 0 {
		c.WarmupSamples = d.WarmupSamples
	}
	if c.WarmupDuration <= 0 {
		c.WarmupDuration = d.WarmupDuration
	}
	if c.NotifyInterval <= 0 {
		c.NotifyInterval = d.NotifyInterval
	}
	if c.SlowFallback <= 0 {
		c.SlowFallback = d.SlowFallback
	}
	return c
}

// Tracker counts completed bytes against a total. It is safe for
// concurrent use.
type Tracker struct {
	mu      sync.Mutex
	cfg     Config
	label   string
	limiter *rate.Limiter

	start time.Time
	last  time.Time
	total int64
	done  int64

	samples int
	ema     float64
	recent  *window
}

// NewTracker starts tracking now. A negative total means unknown.
func NewTracker(label string, total int64, cfg Config) *Tracker {
	cfg = cfg.withDefaults()
	now := time.Now()
	return &Tracker{
		cfg:     cfg,
		label:   label,
		limiter: rate.NewLimiter(rate.Every(cfg.NotifyInterval), 1),
		start:   now,
		last:    now,
		total:   total,
		recent:  newWindow(cfg.WindowSize),
	}
}

func (t *Tracker) SetTotal(total int64) {
	t.mu.Lock()
	t.total = total
	t.mu.Unlock()
}

// Advance adds delta bytes. The boolean reports whether the snapshot should
// be published: at most once per NotifyInterval, and always when the total
// is reached.
func (t *Tracker) Advance(delta int64) (Snapshot, bool) {
	if delta <= 0 {
		return t.Snapshot(), false
	}
	t.mu.Lock()
	defer t.mu.Unlock()

	now := time.Now()
	if now.Before(t.last) {
		now = t.last
	}
	t.observeRate(float64(delta), now.Sub(t.last))
	t.done += delta
	t.last = now

	snap := t.snapshotLocked(now)
	due := t.limiter.AllowN(now, 1) || snap.Remaining == 0
	return snap, due
}

func (t *Tracker) observeRate(n float64, dt time.Duration) {
	secs := math.Max(dt.Seconds(), 1e-6)
	instant := n / secs
	if math.IsNaN(instant) || math.IsInf(instant, 0) {
		return
	}
	t.samples++
	if t.ema == 0 {
		t.ema = instant
	} else {
		t.ema += t.cfg.Alpha * (instant - t.ema)
	}
	t.recent.Add(instant)
}

func (t *Tracker) Snapshot() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.snapshotLocked(time.Now())
}

// Complete marks the known total as done.
func (t *Tracker) Complete() Snapshot {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.total >= 0 {
		t.done = max(t.done, t.total)
	}
	return t.snapshotLocked(time.Now())
}

func (t *Tracker) snapshotLocked(now time.Time) Snapshot {
	remaining := int64(-1)
	if t.total >= 0 {
		remaining = max(t.total-t.done, 0)
	}
	elapsed := now.Sub(t.start)
	warm := t.samples >= t.cfg.WarmupSamples && elapsed >= t.cfg.WarmupDuration

	p50 := t.recent.Quantile(0.5)
	if p50 <= 0 {
		p50 = t.ema
	}
	p10 := t.recent.Quantile(0.1)
	if p10 <= 0 {
		p10 = p50 * t.cfg.SlowFallback
	}

	s := Snapshot{
		Label:     t.label,
		Total:     t.total,
		Done:      t.done,
		Remaining: remaining,
		RateEMA:   t.ema,
		RateP50:   p50,
		RateP10:   p10,
		Warmup:    !warm,
		StartedAt: t.start,
		UpdatedAt: now,
		Elapsed:   elapsed,
	}
	if warm && remaining > 0 {
		s.ETAP50 = etaFor(remaining, p50)
		s.ETAP90 = etaFor(remaining, p10)
	}
	return s
}

// etaFor is the time to move n bytes at perSec, saturating at the largest
// Duration.
func etaFor(n int64, perSec float64) time.Duration {
	if perSec <= 0 {
		return 0
	}
	secs := float64(n) / perSec
	if math.IsNaN(secs) || secs <= 0 {
		return 0
	}
	if secs >= math.MaxInt64/float64(time.Second) {
		return time.Duration(math.MaxInt64)
	}
	return time.Duration(secs * float64(time.Second))
}
