package input

import "github.com/praetor-game/praetor/internal/platform"

// Joystick is the state of one connected controller.
type Joystick struct {
	ID           int32
	Axes         map[int]int
	Hats         map[int]int
	Buttons      map[int]bool
	BallX, BallY int
}

func newJoystick(id int32) *Joystick {
	return &Joystick{
		ID:      id,
		Axes:    make(map[int]int),
		Hats:    make(map[int]int),
		Buttons: make(map[int]bool),
	}
}

// Joystick returns the controller with the given id, if connected.
func (s *State) Joystick(id int32) (*Joystick, bool) {
	j, ok := s.joysticks[id]
	return j, ok
}

// Joysticks returns the number of connected controllers.
func (s *State) Joysticks() int {
	return len(s.joysticks)
}

func (s *State) joystick(id int32) *Joystick {
	j, ok := s.joysticks[id]
	if !ok {
		j = newJoystick(id)
		s.joysticks[id] = j
	}
	return j
}

// JoystickEvent applies a joystick event of the given kind.
func (s *State) JoystickEvent(kind platform.EventKind, ev platform.Joy) {
	switch kind {
	case platform.EventJoyDeviceAdded:
		s.joystick(ev.Which)
	case platform.EventJoyDeviceRemoved:
		delete(s.joysticks, ev.Which)
	case platform.EventJoyAxis:
		s.joystick(ev.Which).Axes[ev.Index] = ev.Value
	case platform.EventJoyHat:
		s.joystick(ev.Which).Hats[ev.Index] = ev.Value
	case platform.EventJoyBall:
		j := s.joystick(ev.Which)
		j.BallX += ev.XRel
		j.BallY += ev.YRel
	case platform.EventJoyButtonDown:
		s.joystick(ev.Which).Buttons[ev.Index] = true
	case platform.EventJoyButtonUp:
		s.joystick(ev.Which).Buttons[ev.Index] = false
	}
}
