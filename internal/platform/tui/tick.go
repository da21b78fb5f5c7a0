// Package tui is a platform driver that presents the framebuffer in a
// terminal. Two pixel rows share one character cell using half blocks, and
// keyboard, mouse and focus reports are translated into platform events.
package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
)

// frameMsg carries a rendered frame to the program.
type frameMsg string

// messageMsg shows a one-line notice under the frame.
type messageMsg string

// clearMessageMsg hides the notice again.
type clearMessageMsg struct{}

// messageTimeout is how long a notice stays visible.
const messageTimeout = 4 * time.Second

// clearMessageCmd returns a command that hides the notice after d.
func clearMessageCmd(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return clearMessageMsg{}
	})
}
