package ui

import (
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// StepStatus is a progress step's display state.
type StepStatus int

const (
	StepPending StepStatus = iota
	StepActive
	StepDone
	StepFailed
	StepSkipped
)

// Step is one stage of a multi-step flow.
type Step struct {
	Key    string
	Label  string
	Status StepStatus
	Detail string
}

// StepMsg updates one step of the flow.
type StepMsg struct {
	Key    string
	Status StepStatus
	Detail string
}

// FlowDoneMsg ends the progress view.
type FlowDoneMsg struct {
	Err error
}

type progressTickMsg struct{}

func progressTick() tea.Cmd {
	return tea.Tick(80*time.Millisecond, func(time.Time) tea.Msg {
		return progressTickMsg{}
	})
}

// ProgressModel is the Bubble Tea model rendering a transaction flow's
// state transitions live. Messages arrive over a channel so any goroutine
// can drive it.
type ProgressModel struct {
	Title    string
	Steps    []Step
	Quitting bool
	ErrMsg   string

	sub   chan tea.Msg
	frame int
}

// NewProgress creates a progress model fed by sub.
func NewProgress(title string, steps []Step, sub chan tea.Msg) ProgressModel {
	return ProgressModel{Title: title, Steps: steps, sub: sub}
}

func waitForMsg(sub chan tea.Msg) tea.Cmd {
	return func() tea.Msg { return <-sub }
}

func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(progressTick(), waitForMsg(m.sub))
}

func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Quitting = true
			return m, tea.Quit
		}

	case progressTickMsg:
		m.frame++
		return m, progressTick()

	case StepMsg:
		for i := range m.Steps {
			if m.Steps[i].Key == msg.Key {
				m.Steps[i].Status = msg.Status
				m.Steps[i].Detail = msg.Detail
			}
		}
		return m, waitForMsg(m.sub)

	case FlowDoneMsg:
		if msg.Err != nil {
			m.ErrMsg = msg.Err.Error()
		}
		m.Quitting = true
		return m, tea.Quit
	}

	return m, nil
}

func (m ProgressModel) View() string {
	var sb strings.Builder
	sb.WriteString(StyleTitle.Render(m.Title))
	sb.WriteString("\n")

	for _, step := range m.Steps {
		var icon, label string
		switch step.Status {
		case StepDone:
			icon = StyleSuccess.Render("✓")
			label = step.Label
		case StepActive:
			icon = StyleAccent.Render(spinnerFrames[m.frame%len(spinnerFrames)])
			label = StyleValue.Render(step.Label)
		case StepFailed:
			icon = StyleError.Render("✗")
			label = StyleError.Render(step.Label)
		case StepSkipped:
			icon = StyleMeta.Render("–")
			label = StyleMeta.Render(step.Label)
		default:
			icon = StyleMeta.Render("○")
			label = StyleMeta.Render(step.Label)
		}
		sb.WriteString("  " + icon + " " + label)
		if step.Detail != "" {
			sb.WriteString("  " + StyleMeta.Render(step.Detail))
		}
		sb.WriteString("\n")
	}

	if m.ErrMsg != "" {
		sb.WriteString("\n" + Err(m.ErrMsg) + "\n")
	}
	if !m.Quitting {
		sb.WriteString("\n" + StyleMeta.Render("q to quit") + "\n")
	}
	return sb.String()
}
