package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/praetor-game/praetor/internal/platform"
)

var noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)

// Model is the Bubble Tea model owning the terminal. It holds no game
// state: it shows the last presented frame and forwards input.
type Model struct {
	driver  *Driver
	frame   string
	notice  string
	leaving bool
}

// NewModel creates a model forwarding events to d.
func NewModel(d *Driver) Model {
	return Model{driver: d}
}

// Init reports the window as shown.
func (m Model) Init() tea.Cmd {
	m.driver.push(platform.WindowEventOf(platform.WindowShown, 0, 0))
	return nil
}

// Update handles messages and updates the model state.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.MouseMsg:
		m.handleMouse(msg)

	case tea.WindowSizeMsg:
		m.driver.resize(msg.Width, msg.Height)

	case tea.FocusMsg:
		m.driver.push(platform.WindowEventOf(platform.WindowFocusGained, 0, 0))

	case tea.BlurMsg:
		m.driver.push(platform.WindowEventOf(platform.WindowFocusLost, 0, 0))

	case frameMsg:
		m.frame = string(msg)

	case messageMsg:
		m.notice = string(msg)
		return m, clearMessageCmd(messageTimeout)

	case clearMessageMsg:
		m.notice = ""
	}

	return m, nil
}

// handleKey forwards keyboard input. Quitting is left to the event loop,
// which tears the program down through the driver.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	events, isQuit := m.driver.keys.MapKey(msg)
	for _, ev := range events {
		m.driver.push(ev)
	}
	if isQuit {
		m.leaving = true
	}
	return m, nil
}

func (m Model) handleMouse(msg tea.MouseMsg) {
	x, y := m.driver.toLogical(msg.X, msg.Y)
	mouse := platform.Mouse{X: x, Y: y}

	if dx, dy, ok := wheelDelta(msg.Button); ok {
		if msg.Action == tea.MouseActionPress {
			mouse.WheelX, mouse.WheelY = dx, dy
			m.driver.push(platform.Event{Kind: platform.EventMouseWheel, Mouse: mouse})
		}
		return
	}

	switch msg.Action {
	case tea.MouseActionMotion:
		m.driver.push(platform.Event{Kind: platform.EventMouseMotion, Mouse: mouse})
	case tea.MouseActionPress, tea.MouseActionRelease:
		b, ok := mapMouseButton(msg.Button)
		if !ok {
			return
		}
		mouse.Button = b
		kind := platform.EventMouseButtonDown
		if msg.Action == tea.MouseActionRelease {
			kind = platform.EventMouseButtonUp
		}
		m.driver.push(platform.Event{Kind: kind, Mouse: mouse})
	}
}

// View renders the last frame and the notice line.
func (m Model) View() string {
	if m.leaving {
		return ""
	}
	var sb strings.Builder
	sb.WriteString(m.frame)
	sb.WriteRune('\n')
	if m.notice != "" {
		sb.WriteString(noticeStyle.Render(m.notice))
	}
	return sb.String()
}
