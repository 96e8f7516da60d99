package progress

import "math"

// Step is the outcome of a tick that advanced the counter
type Step struct {
	Uploaded int64
	Total    int64
	// Percent is uploaded/total*100 and may exceed 100 on the final step
	Percent float64
}

// Width is the fill width to render. With clamp set the overshoot of the
// final step is cut to exactly 100.
func (s Step) Width(clamp bool) float64 {
	if clamp {
		return math.Min(s.Percent, 100)
	}
	return s.Percent
}

// Tracker is the simulated upload counter of one file. It has no notion of
// time; whoever owns it decides when to call Tick.
type Tracker struct {
	total     int64
	increment int64
	uploaded  int64
	ticks     int
	done      bool
}

// NewTracker creates a tracker for a file of the given size. A non-positive
// increment falls back to DefaultIncrement.
func NewTracker(total, increment int64) *Tracker {
	if increment <= 0 {
		increment = DefaultIncrement
	}
	if total < 0 {
		total = 0
	}
	return &Tracker{total: total, increment: increment}
}

// Tick handles one timer firing. It returns the step to render and true, or
// false once the counter has reached the total, after which the tracker stays
// done. The stop check runs before the increment, so a file of size zero
// stops on its first tick without any step.
func (t *Tracker) Tick() (Step, bool) {
	if t.done {
		return Step{}, false
	}
	t.ticks++
	if t.uploaded >= t.total {
		t.done = true
		return Step{}, false
	}
	t.uploaded += t.increment
	return Step{
		Uploaded: t.uploaded,
		Total:    t.total,
		Percent:  float64(t.uploaded) / float64(t.total) * 100,
	}, true
}

func (t *Tracker) Uploaded() int64 { return t.uploaded }

func (t *Tracker) Total() int64 { return t.total }

// Ticks counts timer firings handled so far, including the final stopping one
func (t *Tracker) Ticks() int { return t.ticks }

func (t *Tracker) Done() bool { return t.done }

// Percent is the unclamped completion of the last step, zero before any step
func (t *Tracker) Percent() float64 {
	if t.total == 0 {
		return 0
	}
	return float64(t.uploaded) / float64(t.total) * 100
}
