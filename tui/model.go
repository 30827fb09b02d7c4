package tui

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"go-improv/config"
	"go-improv/debug"
	"go-improv/session"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	modeOnStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("57"))
	modeOffStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	helpStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	timeoutAdjust = 0.5
)

// Model is the bubbletea front end over the shared Recorder.
type Model struct {
	Recorder *session.Recorder

	cursor   int // selected accompaniment
	quitting bool
}

type updateMsg struct{}

type tickMsg time.Time

func NewModel(r *session.Recorder) Model {
	return Model{Recorder: r}
}

// listenForUpdates relays the recorder's coalesced change signal.
func listenForUpdates(r *session.Recorder) tea.Cmd {
	return func() tea.Msg {
		<-r.Updates()
		return updateMsg{}
	}
}

// tick drives the recording/solo countdown display.
func tick() tea.Cmd {
	return tea.Tick(200*time.Millisecond, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (m Model) Init() tea.Cmd {
	return tea.Batch(listenForUpdates(m.Recorder), tick())
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			m.quitting = true
			return m, tea.Quit

		case "1":
			m.Recorder.SetMode(session.Playthrough)
		case "2":
			m.Recorder.SetMode(session.Record)
		case "3":
			m.Recorder.SetMode(session.SoloOver)

		case "+", "=":
			m.Recorder.SetTimeout(config.ClampTimeout(m.Recorder.Timeout() + timeoutAdjust))
		case "-", "_":
			m.Recorder.SetTimeout(config.ClampTimeout(m.Recorder.Timeout() - timeoutAdjust))

		case "j", "down":
			if m.cursor < m.Recorder.Len()-1 {
				m.cursor++
			}
		case "k", "up":
			if m.cursor > 0 {
				m.cursor--
			}

		case "s", " ", "enter":
			if m.canStartSolo() {
				if err := m.Recorder.StartSolo(m.cursor); err != nil {
					debug.Log("tui", "start solo rejected: %v", err)
				}
			}
		}

	case updateMsg:
		return m, listenForUpdates(m.Recorder)

	case tickMsg:
		return m, tick()
	}

	return m, nil
}

// canStartSolo mirrors the host discipline: begin-solo is only offered in
// SoloOver mode, with something recorded, while no solo is in progress.
func (m Model) canStartSolo() bool {
	return m.Recorder.Mode() == session.SoloOver &&
		!m.Recorder.IsEmpty() &&
		m.cursor < m.Recorder.Len() &&
		!m.Recorder.ActivelySoloing()
}

func (m Model) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder

	b.WriteString(titleStyle.Render(fmt.Sprintf("go-improv  (%s)", m.Recorder.InputPortName())))
	b.WriteString("\n\n")

	// Mode selector
	current := m.Recorder.Mode()
	for i, mode := range session.Modes() {
		label := fmt.Sprintf(" %d %s ", i+1, mode.Text())
		if mode == current {
			b.WriteString(modeOnStyle.Render(label))
		} else {
			b.WriteString(modeOffStyle.Render(label))
		}
		b.WriteString("  ")
	}
	b.WriteString("\n\n")

	b.WriteString(fmt.Sprintf("phrase timeout: %.1fs\n", m.Recorder.Timeout()))

	// Status line
	switch {
	case m.Recorder.ActivelySoloing():
		b.WriteString(statusStyle.Render("♪ soloing over backing phrase"))
	case m.Recorder.ActivelyRecording():
		b.WriteString(statusStyle.Render("● recording phrase"))
	default:
		b.WriteString(dimStyle.Render("idle"))
	}
	b.WriteString("\n\n")

	// Accompaniment list
	if m.Recorder.IsEmpty() {
		b.WriteString(dimStyle.Render("no accompaniments yet — pick Record and play"))
		b.WriteString("\n")
	} else {
		b.WriteString("accompaniments:\n")
		for i := 0; i < m.Recorder.Len(); i++ {
			rec := m.Recorder.Accompaniment(i)
			line := fmt.Sprintf("  %2d: %3d events, %5.1fs", i+1, rec.Len(), rec.Duration())
			if i == m.cursor {
				b.WriteString(cursorStyle.Render("▶" + line[1:]))
			} else {
				b.WriteString(line)
			}
			b.WriteString("\n")
		}
	}
	if n := m.Recorder.SoloCount(); n > 0 {
		b.WriteString(dimStyle.Render(fmt.Sprintf("solos captured: %d", n)))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(helpStyle.Render("1/2/3 mode · +/- timeout · j/k select · s solo over selection · q quit"))
	b.WriteString("\n")

	return b.String()
}
