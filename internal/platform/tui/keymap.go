package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/praetor-game/praetor/internal/platform"
)

// KeyMapper translates Bubble Tea key messages to platform events.
// Terminals report presses only, so every key yields a down/up pair.
type KeyMapper struct{}

// NewKeyMapper creates a new key mapper.
func NewKeyMapper() *KeyMapper {
	return &KeyMapper{}
}

// Terminals cannot tell left from right modifiers; both bits are set.
const (
	ModAlt   = platform.ModAlt
	ModCtrl  = platform.ModCtrl
	ModShift = platform.ModShift
)

// MapKey returns the events for msg and whether it is a quit request.
func (km *KeyMapper) MapKey(msg tea.KeyMsg) (events []platform.Event, isQuit bool) {
	name := msg.String()
	if name == "ctrl+c" {
		return []platform.Event{{Kind: platform.EventQuit}}, true
	}

	key := platform.Key{
		Sym:  int(msg.Type),
		Name: keyName(msg),
		Mod:  modifiers(msg),
	}
	if msg.Type == tea.KeyRunes && len(msg.Runes) == 1 {
		key.Sym = int(msg.Runes[0])
	}

	events = append(events, platform.Event{Kind: platform.EventKeyDown, Key: key})
	if msg.Type == tea.KeyRunes && !msg.Alt {
		events = append(events, platform.Event{Kind: platform.EventTextInput, Text: string(msg.Runes)})
	} else if msg.Type == tea.KeySpace {
		events = append(events, platform.Event{Kind: platform.EventTextInput, Text: " "})
	}
	events = append(events, platform.Event{Kind: platform.EventKeyUp, Key: key})
	return events, false
}

func keyName(msg tea.KeyMsg) string {
	switch msg.Type {
	case tea.KeyRunes:
		return string(msg.Runes)
	case tea.KeySpace:
		return "space"
	case tea.KeyEnter:
		return "enter"
	case tea.KeyEscape:
		return "escape"
	case tea.KeyUp, tea.KeyShiftUp, tea.KeyCtrlUp:
		return "up"
	case tea.KeyDown, tea.KeyShiftDown, tea.KeyCtrlDown:
		return "down"
	case tea.KeyLeft, tea.KeyShiftLeft, tea.KeyCtrlLeft:
		return "left"
	case tea.KeyRight, tea.KeyShiftRight, tea.KeyCtrlRight:
		return "right"
	}
	return tea.Key(msg).String()
}

func modifiers(msg tea.KeyMsg) uint16 {
	var mod uint16
	if msg.Alt {
		mod |= ModAlt
	}
	switch msg.Type {
	case tea.KeyCtrlUp, tea.KeyCtrlDown, tea.KeyCtrlLeft, tea.KeyCtrlRight:
		mod |= ModCtrl
	case tea.KeyShiftUp, tea.KeyShiftDown, tea.KeyShiftLeft, tea.KeyShiftRight, tea.KeyShiftTab:
		mod |= ModShift
	}
	return mod
}

// mapMouseButton converts a Bubble Tea button. ok is false for wheel and
// unknown buttons.
func mapMouseButton(b tea.MouseButton) (platform.MouseButton, bool) {
	switch b {
	case tea.MouseButtonLeft:
		return platform.ButtonLeft, true
	case tea.MouseButtonMiddle:
		return platform.ButtonMiddle, true
	case tea.MouseButtonRight:
		return platform.ButtonRight, true
	case tea.MouseButtonBackward:
		return platform.ButtonX1, true
	case tea.MouseButtonForward:
		return platform.ButtonX2, true
	}
	return platform.ButtonNone, false
}

// wheelDelta returns the scroll delta of a wheel button.
func wheelDelta(b tea.MouseButton) (dx, dy int, ok bool) {
	switch b {
	case tea.MouseButtonWheelUp:
		return 0, 1, true
	case tea.MouseButtonWheelDown:
		return 0, -1, true
	case tea.MouseButtonWheelLeft:
		return -1, 0, true
	case tea.MouseButtonWheelRight:
		return 1, 0, true
	}
	return 0, 0, false
}
