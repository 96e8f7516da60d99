package tui

import (
	"sync"

	"uploadsim/internal/progress"
	"uploadsim/internal/simulator"

	tea "github.com/charmbracelet/bubbletea"
)

// Renderer forwards simulator rendering calls to a running program as
// messages. Bars of an older generation are ignored by the model.
type Renderer struct {
	send func(tea.Msg)

	mu         sync.Mutex
	generation int
	count      int
}

// NewRenderer creates a renderer delivering messages through send, usually
// (*tea.Program).Send.
func NewRenderer(send func(tea.Msg)) *Renderer {
	return &Renderer{send: send}
}

func (r *Renderer) List() simulator.List { return listTarget{r} }

func (r *Renderer) Bars() simulator.Bars { return barsTarget{r} }

// Observe is a simulator observer updating the summary line
func (r *Renderer) Observe(s progress.Summary) {
	r.send(summaryMsg(s))
}

// Done makes the program exit after its final render
func (r *Renderer) Done() {
	r.send(DoneMsg{})
}

type listTarget struct{ r *Renderer }

func (t listTarget) Reset() { t.r.send(resetListMsg{}) }

func (t listTarget) Append(label string) { t.r.send(labelMsg{label: label}) }

type barsTarget struct{ r *Renderer }

func (t barsTarget) Reset() {
	t.r.mu.Lock()
	t.r.generation++
	t.r.count = 0
	gen := t.r.generation
	t.r.mu.Unlock()

	t.r.send(resetBarsMsg{generation: gen})
}

func (t barsTarget) Append(f progress.File) simulator.Bar {
	t.r.mu.Lock()
	b := barHandle{r: t.r, generation: t.r.generation, index: t.r.count}
	t.r.count++
	t.r.mu.Unlock()

	t.r.send(barMsg{generation: b.generation, name: f.Name})
	return b
}

type barHandle struct {
	r          *Renderer
	generation int
	index      int
}

func (b barHandle) SetWidth(percent float64) {
	b.r.send(widthMsg{generation: b.generation, index: b.index, percent: percent})
}
