package simulator

import (
	"context"
	"sync"
	"time"

	"uploadsim/internal/progress"

	"github.com/charmbracelet/log"
	"github.com/google/uuid"
	"k8s.io/utils/clock"
)

// Option configures a Simulator
type Option func(*Simulator)

// WithInterval sets the time between ticks. Non-positive values are ignored.
func WithInterval(d time.Duration) Option {
	return func(s *Simulator) {
		if d > 0 {
			s.interval = d
		}
	}
}

// WithIncrement sets the simulated bytes added per tick. Non-positive values are ignored.
func WithIncrement(n int64) Option {
	return func(s *Simulator) {
		if n > 0 {
			s.increment = n
		}
	}
}

// WithClamp controls whether the last width is cut to 100 percent
func WithClamp(clamp bool) Option {
	return func(s *Simulator) { s.clamp = clamp }
}

// WithClock replaces the wall clock, mostly for tests
func WithClock(c clock.WithTicker) Option {
	return func(s *Simulator) { s.clock = c }
}

func WithLogger(l *log.Logger) Option {
	return func(s *Simulator) { s.logger = l }
}

// WithObserver registers a callback receiving the selection summary after
// every selection and every tick.
func WithObserver(fn func(progress.Summary)) Option {
	return func(s *Simulator) { s.observer = fn }
}

// Simulator renders a selection of files and drives one simulated upload per
// file. Every file gets its own ticker; ticks and selection handling are
// serialized so renderers never see concurrent calls.
type Simulator struct {
	list      List
	bars      Bars
	clock     clock.WithTicker
	interval  time.Duration
	increment int64
	clamp     bool
	logger    *log.Logger
	observer  func(progress.Summary)

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup

	mu      sync.Mutex
	current *selection
	closed  bool
}

type selection struct {
	ctx     context.Context
	cancel  context.CancelFunc
	entries []*entry
	pending int
	done    chan struct{}
	once    sync.Once
}

func (sel *selection) finish() {
	sel.once.Do(func() { close(sel.done) })
}

// supersede marks every unfinished file as cancelled before completion
func (sel *selection) supersede() {
	for _, e := range sel.entries {
		if !e.state.Finished() {
			e.state = progress.StateSuperseded
		}
	}
}

type entry struct {
	id      string
	file    progress.File
	tracker *progress.Tracker
	bar     Bar
	ticker  clock.Ticker
	state   progress.State
}

// New creates a simulator rendering into list and bars. When picker is not
// nil its selections are handled automatically; otherwise selections come
// from HandleSelection or Select.
func New(picker Picker, list List, bars Bars, opts ...Option) *Simulator {
	ctx, cancel := context.WithCancel(context.Background())
	s := &Simulator{
		list:      list,
		bars:      bars,
		clock:     clock.RealClock{},
		interval:  progress.DefaultInterval,
		increment: progress.DefaultIncrement,
		clamp:     true,
		logger:    log.Default(),
		ctx:       ctx,
		cancel:    cancel,
	}
	for _, opt := range opts {
		opt(s)
	}
	if picker != nil {
		picker.OnSelected(s.HandleSelection)
	}
	return s
}

// HandleSelection is the picker callback; see Select
func (s *Simulator) HandleSelection(files []progress.File) {
	s.Select(files)
}

// Select replaces the rendered list and bars with one entry and one bar per
// file, in order, and starts a simulated upload for each. Uploads of the
// previous selection are cancelled and reported as superseded.
func (s *Simulator) Select(files []progress.File) []progress.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return nil
	}

	if prev := s.current; prev != nil {
		prev.cancel()
		prev.supersede()
		prev.finish()
		if prev.pending > 0 {
			s.logger.Debug("selection superseded", "unfinished", prev.pending)
		}
	}

	s.list.Reset()
	s.bars.Reset()

	ctx, cancel := context.WithCancel(s.ctx)
	sel := &selection{
		ctx:     ctx,
		cancel:  cancel,
		entries: make([]*entry, 0, len(files)),
		pending: len(files),
		done:    make(chan struct{}),
	}

	var total int64
	for _, f := range files {
		s.list.Append(f.Label())
		sel.entries = append(sel.entries, &entry{
			id:      uuid.NewString(),
			file:    f,
			tracker: progress.NewTracker(f.Size, s.increment),
			bar:     s.bars.Append(f),
			// Created here rather than in the goroutine so the first tick is
			// measured from the selection.
			ticker: s.clock.NewTicker(s.interval),
			state:  progress.StatePending,
		})
		total += f.Size
	}
	if sel.pending == 0 {
		sel.finish()
	}
	s.current = sel

	for _, e := range sel.entries {
		s.wg.Add(1)
		go s.run(sel, e)
	}

	s.logger.Info("files selected", "count", len(files), "bytes", total)
	s.notifyLocked()

	statuses := make([]progress.Status, 0, len(sel.entries))
	for _, e := range sel.entries {
		statuses = append(statuses, s.statusLocked(e))
	}
	return statuses
}

func (s *Simulator) run(sel *selection, e *entry) {
	defer s.wg.Done()
	defer e.ticker.Stop()

	for {
		select {
		case <-sel.ctx.Done():
			return
		case <-e.ticker.C():
			if !s.tick(sel, e) {
				return
			}
		}
	}
}

// tick handles one firing of a file's ticker and reports whether the ticker
// should keep running.
func (s *Simulator) tick(sel *selection, e *entry) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	// A tick that lost the race against a new selection must not touch the bars.
	if s.current != sel || sel.ctx.Err() != nil {
		return false
	}

	step, ok := e.tracker.Tick()
	if !ok {
		e.state = progress.StateDone
		sel.pending--
		s.logger.Debug("simulated upload finished", "id", e.id, "file", e.file.Name, "ticks", e.tracker.Ticks())
		if sel.pending == 0 {
			sel.finish()
			s.logger.Info("selection complete", "files", len(sel.entries))
		}
		s.notifyLocked()
		return false
	}

	e.state = progress.StateTicking
	e.bar.SetWidth(step.Width(s.clamp))
	s.notifyLocked()
	return true
}

// Wait blocks until every file of the current selection has finished, the
// selection is replaced, or ctx is done.
func (s *Simulator) Wait(ctx context.Context) error {
	s.mu.Lock()
	sel := s.current
	s.mu.Unlock()

	if sel == nil {
		return nil
	}
	select {
	case <-sel.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// Close cancels all running tickers, marks unfinished files as superseded and
// waits for the goroutines. Later selections are ignored.
func (s *Simulator) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	if s.current != nil {
		s.current.supersede()
		s.current.finish()
	}
	s.mu.Unlock()

	s.cancel()
	s.wg.Wait()
}

// Snapshot returns the status of every file in the current selection, in selection order
func (s *Simulator) Snapshot() []progress.Status {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return []progress.Status{}
	}
	statuses := make([]progress.Status, 0, len(s.current.entries))
	for _, e := range s.current.entries {
		statuses = append(statuses, s.statusLocked(e))
	}
	return statuses
}

// Lookup returns the status of a file of the current selection by id
func (s *Simulator) Lookup(id string) (progress.Status, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.current == nil {
		return progress.Status{}, false
	}
	for _, e := range s.current.entries {
		if e.id == id {
			return s.statusLocked(e), true
		}
	}
	return progress.Status{}, false
}

func (s *Simulator) Summary() progress.Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.summaryLocked()
}

func (s *Simulator) summaryLocked() progress.Summary {
	var sum progress.Summary
	if s.current == nil {
		return sum
	}
	for _, e := range s.current.entries {
		sum.Files++
		sum.TotalBytes += e.file.Size
		sum.UploadedBytes += min(e.tracker.Uploaded(), e.file.Size)
		if e.state == progress.StateDone {
			sum.Completed++
		}
	}
	return sum
}

func (s *Simulator) statusLocked(e *entry) progress.Status {
	pct := e.tracker.Percent()
	if s.clamp {
		pct = min(pct, 100)
	}
	return progress.Status{
		ID:       e.id,
		Name:     e.file.Name,
		Size:     e.file.Size,
		Label:    e.file.Label(),
		Uploaded: e.tracker.Uploaded(),
		Percent:  pct,
		Ticks:    e.tracker.Ticks(),
		State:    e.state,
	}
}

func (s *Simulator) notifyLocked() {
	if s.observer != nil {
		s.observer(s.summaryLocked())
	}
}
