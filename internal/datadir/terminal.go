package datadir

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/term"

	"github.com/praetor-game/praetor/internal/platform"
)

var (
	promptTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("226")).Bold(true)
	promptTextStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("255"))
	promptHelpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	promptBoxStyle   = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(lipgloss.Color("240")).
				Padding(1, 2)
)

type promptKind int

const (
	promptDirectory promptKind = iota
	promptConfirm
)

// promptModel is a single-question bubbletea program.
type promptModel struct {
	kind    promptKind
	title   string
	message string
	input   textinput.Model

	answer string
	ok     bool
}

func newPromptModel(kind promptKind, title, message string) promptModel {
	ti := textinput.New()
	ti.Placeholder = "/path/to/game"
	ti.CharLimit = 4096
	ti.Width = 60
	ti.Focus()
	return promptModel{kind: kind, title: title, message: message, input: ti}
}

func (m promptModel) Init() tea.Cmd {
	if m.kind == promptDirectory {
		return textinput.Blink
	}
	return nil
}

func (m promptModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if k, ok := msg.(tea.KeyMsg); ok {
		switch k.String() {
		case "ctrl+c", "esc":
			m.ok = false
			return m, tea.Quit
		case "enter":
			m.ok = true
			if m.kind == promptDirectory {
				m.answer = expandHome(strings.TrimSpace(m.input.Value()))
				m.ok = m.answer != ""
			}
			return m, tea.Quit
		}
		if m.kind == promptConfirm {
			switch strings.ToLower(k.String()) {
			case "y", "o":
				m.ok = true
				return m, tea.Quit
			case "n", "q":
				m.ok = false
				return m, tea.Quit
			}
			return m, nil
		}
	}

	if m.kind == promptDirectory {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m promptModel) View() string {
	var b strings.Builder
	b.WriteString(promptTitleStyle.Render(m.title))
	if m.message != "" {
		b.WriteString("\n\n")
		b.WriteString(promptTextStyle.Render(m.message))
	}
	b.WriteString("\n\n")
	if m.kind == promptDirectory {
		b.WriteString(m.input.View())
		b.WriteString("\n\n")
		b.WriteString(promptHelpStyle.Render("enter: confirm • esc: cancel"))
	} else {
		b.WriteString(promptHelpStyle.Render("enter/y: OK • esc/n: Cancel"))
	}
	return promptBoxStyle.Render(b.String()) + "\n"
}

// TerminalPrompter asks on the controlling terminal.
type TerminalPrompter struct {
	In  io.Reader
	Out io.Writer
}

func (p TerminalPrompter) run(m promptModel) (promptModel, error) {
	var opts []tea.ProgramOption
	if p.In != nil {
		opts = append(opts, tea.WithInput(p.In))
	}
	if p.Out != nil {
		opts = append(opts, tea.WithOutput(p.Out))
	}
	final, err := tea.NewProgram(m, opts...).Run()
	if err != nil {
		return m, fmt.Errorf("datadir: prompt: %w", err)
	}
	return final.(promptModel), nil
}

// ChooseDirectory reads a path from the terminal.
func (p TerminalPrompter) ChooseDirectory(title string) (string, error) {
	m, err := p.run(newPromptModel(promptDirectory, title, ""))
	if err != nil {
		return "", err
	}
	if !m.ok {
		return "", ErrDeclined
	}
	return m.answer, nil
}

// Confirm asks an OK/Cancel question on the terminal.
func (p TerminalPrompter) Confirm(title, message string) (bool, error) {
	m, err := p.run(newPromptModel(promptConfirm, title, message))
	if err != nil {
		return false, err
	}
	return m.ok, nil
}

// DefaultPrompter picks the native picker on platforms with dialogs and the
// terminal prompt when stdin is a terminal. It returns nil when the user
// cannot be asked.
func DefaultPrompter(caps platform.Capabilities) Prompter {
	if caps.Dialogs {
		return NativePrompter{}
	}
	if term.IsTerminal(int(os.Stdin.Fd())) {
		return TerminalPrompter{}
	}
	return nil
}

func expandHome(path string) string {
	if path == "~" || strings.HasPrefix(path, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, path[1:])
		}
	}
	return path
}
