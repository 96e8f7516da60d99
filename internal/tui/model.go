package tui

import (
	"fmt"
	"strings"

	"uploadsim/internal/progress"

	bar "github.com/charmbracelet/bubbles/progress"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
)

const maxNameWidth = 24

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#626262"))
	doneStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#04B575"))
)

type (
	resetListMsg struct{}
	labelMsg     struct{ label string }
	resetBarsMsg struct{ generation int }
	barMsg       struct {
		generation int
		name       string
	}
	widthMsg struct {
		generation int
		index      int
		percent    float64
	}
	summaryMsg progress.Summary
	// DoneMsg tells the model that every bar has finished
	DoneMsg struct{}
)

type row struct {
	name    string
	percent float64
}

// Model is the bubbletea model showing the selected files and their bars
type Model struct {
	labels     []string
	rows       []row
	generation int
	summary    progress.Summary
	progress   bar.Model
	done       bool
	quitting   bool
}

func NewModel() Model {
	return Model{
		progress: bar.New(
			bar.WithDefaultGradient(),
			bar.WithWidth(40),
		),
	}
}

func (m Model) Init() tea.Cmd {
	return nil
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			m.quitting = true
			return m, tea.Quit
		}

	case tea.WindowSizeMsg:
		m.progress.Width = max(10, min(msg.Width-maxNameWidth-8, 60))

	case resetListMsg:
		m.labels = nil

	case labelMsg:
		m.labels = append(m.labels, msg.label)

	case resetBarsMsg:
		m.generation = msg.generation
		m.rows = nil

	case barMsg:
		if msg.generation == m.generation {
			m.rows = append(m.rows, row{name: msg.name})
		}

	case widthMsg:
		if msg.generation == m.generation && msg.index < len(m.rows) {
			m.rows[msg.index].percent = msg.percent
		}

	case summaryMsg:
		m.summary = progress.Summary(msg)

	case DoneMsg:
		m.done = true
		return m, tea.Quit
	}

	return m, nil
}

func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString("\n")

	sb.WriteString("  " + titleStyle.Render("Files") + "\n")
	if len(m.labels) == 0 {
		sb.WriteString(helpStyle.Render("  no files selected") + "\n")
	}
	for _, l := range m.labels {
		sb.WriteString("  • " + l + "\n")
	}

	sb.WriteString("\n  " + titleStyle.Render("Progress") + "\n")
	for _, r := range m.rows {
		sb.WriteString(fmt.Sprintf("  %-*s ", maxNameWidth, truncate(r.name, maxNameWidth)))
		sb.WriteString(m.progress.ViewAs(r.percent / 100))
		sb.WriteString("\n")
	}

	sb.WriteString(fmt.Sprintf("\n  Uploaded %s of %s bytes, %d/%d files complete\n",
		humanize.Comma(m.summary.UploadedBytes),
		humanize.Comma(m.summary.TotalBytes),
		m.summary.Completed,
		m.summary.Files,
	))

	switch {
	case m.done:
		sb.WriteString(doneStyle.Render("  √ All uploads complete!") + "\n\n")
	case m.quitting:
		sb.WriteString(helpStyle.Render("  Cancelled") + "\n\n")
	default:
		sb.WriteString(helpStyle.Render("  Press q to quit") + "\n\n")
	}
	return sb.String()
}

// Quitting reports whether the user asked to leave before completion
func (m Model) Quitting() bool {
	return m.quitting
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "…"
}
