package sdl2

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/praetor-game/praetor/internal/platform"
)

var windowEvents = map[uint8]platform.WindowEventKind{
	sdl.WINDOWEVENT_SHOWN:        platform.WindowShown,
	sdl.WINDOWEVENT_HIDDEN:       platform.WindowHidden,
	sdl.WINDOWEVENT_MOVED:        platform.WindowMoved,
	sdl.WINDOWEVENT_RESIZED:      platform.WindowResized,
	sdl.WINDOWEVENT_SIZE_CHANGED: platform.WindowSizeChanged,
	sdl.WINDOWEVENT_ENTER:        platform.WindowEnter,
	sdl.WINDOWEVENT_LEAVE:        platform.WindowLeave,
	sdl.WINDOWEVENT_FOCUS_GAINED: platform.WindowFocusGained,
	sdl.WINDOWEVENT_FOCUS_LOST:   platform.WindowFocusLost,
	sdl.WINDOWEVENT_CLOSE:        platform.WindowClose,
}

func mouseButton(b uint8) platform.MouseButton {
	switch b {
	case sdl.BUTTON_LEFT:
		return platform.ButtonLeft
	case sdl.BUTTON_MIDDLE:
		return platform.ButtonMiddle
	case sdl.BUTTON_RIGHT:
		return platform.ButtonRight
	case sdl.BUTTON_X1:
		return platform.ButtonX1
	case sdl.BUTTON_X2:
		return platform.ButtonX2
	}
	return platform.ButtonNone
}

// translate converts an SDL event. ok is false for events that carry no
// information for the loop. Mouse device ids pass through unchanged: SDL
// tags touch-synthesized pointer events with the same id as
// platform.TouchMouseID.
func (d *Driver) translate(ev sdl.Event) (platform.Event, bool) {
	switch e := ev.(type) {
	case *sdl.QuitEvent:
		return platform.Event{Kind: platform.EventQuit}, true

	case *sdl.WindowEvent:
		kind, ok := windowEvents[e.Event]
		if !ok {
			return platform.Event{}, false
		}
		return platform.WindowEventOf(kind, int(e.Data1), int(e.Data2)), true

	case *sdl.KeyboardEvent:
		kind := platform.EventKeyDown
		if e.Type == sdl.KEYUP {
			kind = platform.EventKeyUp
		}
		return platform.Event{Kind: kind, Key: platform.Key{
			Scancode: int(e.Keysym.Scancode),
			Sym:      int(e.Keysym.Sym),
			Name:     sdl.GetKeyName(e.Keysym.Sym),
			Mod:      e.Keysym.Mod,
			Repeat:   e.Repeat != 0,
		}}, true

	case *sdl.TextInputEvent:
		return platform.Event{Kind: platform.EventTextInput, Text: e.GetText()}, true

	case *sdl.MouseMotionEvent:
		return platform.Event{Kind: platform.EventMouseMotion, Mouse: platform.Mouse{
			Which: e.Which, X: int(e.X), Y: int(e.Y),
		}}, true

	case *sdl.MouseButtonEvent:
		kind := platform.EventMouseButtonDown
		if e.Type == sdl.MOUSEBUTTONUP {
			kind = platform.EventMouseButtonUp
		}
		return platform.Event{Kind: kind, Mouse: platform.Mouse{
			Which: e.Which, Button: mouseButton(e.Button), X: int(e.X), Y: int(e.Y),
		}}, true

	case *sdl.MouseWheelEvent:
		return platform.Event{Kind: platform.EventMouseWheel, Mouse: platform.Mouse{
			Which: e.Which, WheelX: int(e.X), WheelY: int(e.Y),
		}}, true

	case *sdl.TouchFingerEvent:
		kind := platform.EventFingerMotion
		switch e.Type {
		case sdl.FINGERDOWN:
			kind = platform.EventFingerDown
		case sdl.FINGERUP:
			kind = platform.EventFingerUp
		}
		return platform.Event{Kind: kind, Finger: platform.Finger{
			TouchID:  int64(e.TouchID),
			FingerID: int64(e.FingerID),
			X:        e.X,
			Y:        e.Y,
			DX:       e.DX,
			DY:       e.DY,
			Pressure: e.Pressure,
		}}, true

	case *sdl.JoyAxisEvent:
		return platform.Event{Kind: platform.EventJoyAxis, Joy: platform.Joy{
			Which: int32(e.Which), Index: int(e.Axis), Value: int(e.Value),
		}}, true

	case *sdl.JoyBallEvent:
		return platform.Event{Kind: platform.EventJoyBall, Joy: platform.Joy{
			Which: int32(e.Which), Index: int(e.Ball), XRel: int(e.XRel), YRel: int(e.YRel),
		}}, true

	case *sdl.JoyHatEvent:
		return platform.Event{Kind: platform.EventJoyHat, Joy: platform.Joy{
			Which: int32(e.Which), Index: int(e.Hat), Value: int(e.Value),
		}}, true

	case *sdl.JoyButtonEvent:
		kind := platform.EventJoyButtonDown
		if e.Type == sdl.JOYBUTTONUP {
			kind = platform.EventJoyButtonUp
		}
		return platform.Event{Kind: kind, Joy: platform.Joy{
			Which: int32(e.Which), Index: int(e.Button),
		}}, true

	case *sdl.JoyDeviceAddedEvent:
		d.openJoystick(int(e.Which))
		return platform.Event{Kind: platform.EventJoyDeviceAdded, Joy: platform.Joy{Which: int32(e.Which)}}, true

	case *sdl.JoyDeviceRemovedEvent:
		d.closeJoystick(e.Which)
		return platform.Event{Kind: platform.EventJoyDeviceRemoved, Joy: platform.Joy{Which: int32(e.Which)}}, true

	case *sdl.UserEvent:
		if e.Code != wakeCode {
			return platform.Event{}, false
		}
		cmd, ok := d.nextCommand()
		if !ok {
			return platform.Event{}, false
		}
		return platform.CommandEvent(cmd), true
	}
	return platform.Event{}, false
}
