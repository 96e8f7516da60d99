package board

import (
	"sync"

	"uploadsim/internal/progress"
	"uploadsim/internal/simulator"
)

// View keeps what a page would show, the list entries and bar widths, in
// memory so it can be served as JSON.
type View struct {
	mu         sync.RWMutex
	labels     []string
	bars       []BarView
	generation int
}

// BarView is one rendered progress bar
type BarView struct {
	Name  string  `json:"name"`
	Width float64 `json:"width"`
}

// Dashboard is the serialized state of a View
type Dashboard struct {
	Files []string  `json:"files"`
	Bars  []BarView `json:"bars"`
}

func NewView() *View {
	return &View{}
}

func (v *View) List() simulator.List { return listTarget{v} }

func (v *View) Bars() simulator.Bars { return barsTarget{v} }

func (v *View) Snapshot() Dashboard {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return Dashboard{
		Files: append([]string{}, v.labels...),
		Bars:  append([]BarView{}, v.bars...),
	}
}

type listTarget struct{ v *View }

func (t listTarget) Reset() {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	t.v.labels = nil
}

func (t listTarget) Append(label string) {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	t.v.labels = append(t.v.labels, label)
}

type barsTarget struct{ v *View }

func (t barsTarget) Reset() {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	t.v.bars = nil
	t.v.generation++
}

func (t barsTarget) Append(f progress.File) simulator.Bar {
	t.v.mu.Lock()
	defer t.v.mu.Unlock()
	t.v.bars = append(t.v.bars, BarView{Name: f.Name})
	return bar{v: t.v, generation: t.v.generation, index: len(t.v.bars) - 1}
}

type bar struct {
	v          *View
	generation int
	index      int
}

func (b bar) SetWidth(percent float64) {
	b.v.mu.Lock()
	defer b.v.mu.Unlock()
	if b.generation != b.v.generation {
		return
	}
	b.v.bars[b.index].Width = percent
}
