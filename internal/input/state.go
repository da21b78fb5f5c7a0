// Package input holds the pointer, keyboard, touch and joystick state the
// event loop feeds and the simulation reads. It is owned by the loop
// goroutine and is not safe for concurrent use.
package input

import (
	"sort"
	"strings"

	"github.com/praetor-game/praetor/internal/platform"
)

// Scroll is a discretized wheel movement.
type Scroll int

const (
	ScrollNone Scroll = iota
	ScrollUp
	ScrollDown
)

func (s Scroll) String() string {
	switch s {
	case ScrollUp:
		return "up"
	case ScrollDown:
		return "down"
	default:
		return "none"
	}
}

// ScrollFromDelta maps a wheel delta to a scroll direction by its sign.
func ScrollFromDelta(dy int) Scroll {
	switch {
	case dy > 0:
		return ScrollUp
	case dy < 0:
		return ScrollDown
	default:
		return ScrollNone
	}
}

// Mouse is the pointer state in logical coordinates.
type Mouse struct {
	X, Y         int
	Left         bool
	Middle       bool
	Right        bool
	Scroll       Scroll
	InsideWindow bool
	WindowFocus  bool
	// IsTouch is set while the pointer is driven by a touch screen.
	IsTouch bool
}

// State is the input state for the current frame.
type State struct {
	mouse     Mouse
	keys      map[string]bool
	pressed   []platform.Key
	text      strings.Builder
	touches   map[int64]Touch
	joysticks map[int32]*Joystick

	width, height int
}

// NewState creates an empty input state.
func NewState() *State {
	return &State{
		keys:      make(map[string]bool),
		touches:   make(map[int64]Touch),
		joysticks: make(map[int32]*Joystick),
	}
}

// Mouse returns a copy of the pointer state.
func (s *State) Mouse() Mouse {
	return s.mouse
}

// Position returns the pointer position in logical pixels.
func (s *State) Position() (int, int) {
	return s.mouse.X, s.mouse.Y
}

// IsTouch reports whether the pointer is currently touch-driven.
func (s *State) IsTouch() bool {
	return s.mouse.IsTouch
}

// SetScreenSize records the logical screen size used to map touch coordinates.
func (s *State) SetScreenSize(w, h int) {
	s.width, s.height = w, h
}

// SetMousePosition moves the pointer.
func (s *State) SetMousePosition(x, y int) {
	s.mouse.X, s.mouse.Y = x, y
	s.mouse.IsTouch = false
}

// SetMouseButton records a button transition.
func (s *State) SetMouseButton(b platform.MouseButton, down bool) {
	switch b {
	case platform.ButtonLeft:
		s.mouse.Left = down
	case platform.ButtonMiddle:
		s.mouse.Middle = down
	case platform.ButtonRight:
		s.mouse.Right = down
	}
	s.mouse.IsTouch = false
}

// SetScroll records the wheel direction for this frame.
func (s *State) SetScroll(sc Scroll) {
	s.mouse.Scroll = sc
}

// SetInsideWindow records whether the pointer is over the window.
func (s *State) SetInsideWindow(inside bool) {
	s.mouse.InsideWindow = inside
}

// SetWindowFocus records keyboard focus. Keys are ignored while unfocused and
// held keys are released when focus is lost.
func (s *State) SetWindowFocus(focus bool) {
	s.mouse.WindowFocus = focus
	if !focus {
		for k := range s.keys {
			delete(s.keys, k)
		}
	}
}

// KeyDown records a key press.
func (s *State) KeyDown(k platform.Key) {
	if !s.mouse.WindowFocus {
		return
	}
	s.keys[k.Name] = true
	s.pressed = append(s.pressed, k)
}

// KeyUp records a key release.
func (s *State) KeyUp(k platform.Key) {
	delete(s.keys, k.Name)
}

// KeyHeld reports whether the named key is down.
func (s *State) KeyHeld(name string) bool {
	return s.keys[name]
}

// HeldKeys returns the names of all keys that are down, sorted.
func (s *State) HeldKeys() []string {
	names := make([]string, 0, len(s.keys))
	for name := range s.keys {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Pressed returns the key presses received this frame, in order.
func (s *State) Pressed() []platform.Key {
	return s.pressed
}

// TextInput appends composed text.
func (s *State) TextInput(text string) {
	if !s.mouse.WindowFocus {
		return
	}
	s.text.WriteString(text)
}

// Text returns the text typed this frame.
func (s *State) Text() string {
	return s.text.String()
}

// EndFrame clears per-frame state once the simulation has consumed it.
func (s *State) EndFrame() {
	s.mouse.Scroll = ScrollNone
	s.pressed = s.pressed[:0]
	s.text.Reset()
}
