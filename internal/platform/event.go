package platform

// EventKind tags an Event. Exactly one payload field of Event is meaningful
// for a given kind.
type EventKind int

const (
	EventUnknown EventKind = iota
	EventQuit
	EventWindow
	EventKeyDown
	EventKeyUp
	EventTextInput
	EventMouseMotion
	EventMouseButtonDown
	EventMouseButtonUp
	EventMouseWheel
	EventFingerDown
	EventFingerMotion
	EventFingerUp
	EventJoyAxis
	EventJoyBall
	EventJoyHat
	EventJoyButtonDown
	EventJoyButtonUp
	EventJoyDeviceAdded
	EventJoyDeviceRemoved
	EventCommand
)

var eventKindNames = [...]string{
	EventUnknown:          "unknown",
	EventQuit:             "quit",
	EventWindow:           "window",
	EventKeyDown:          "key-down",
	EventKeyUp:            "key-up",
	EventTextInput:        "text-input",
	EventMouseMotion:      "mouse-motion",
	EventMouseButtonDown:  "mouse-button-down",
	EventMouseButtonUp:    "mouse-button-up",
	EventMouseWheel:       "mouse-wheel",
	EventFingerDown:       "finger-down",
	EventFingerMotion:     "finger-motion",
	EventFingerUp:         "finger-up",
	EventJoyAxis:          "joy-axis",
	EventJoyBall:          "joy-ball",
	EventJoyHat:           "joy-hat",
	EventJoyButtonDown:    "joy-button-down",
	EventJoyButtonUp:      "joy-button-up",
	EventJoyDeviceAdded:   "joy-device-added",
	EventJoyDeviceRemoved: "joy-device-removed",
	EventCommand:          "command",
}

func (k EventKind) String() string {
	if k < 0 || int(k) >= len(eventKindNames) {
		return "unknown"
	}
	return eventKindNames[k]
}

// WindowEventKind is the sub-kind of an EventWindow.
type WindowEventKind int

const (
	WindowNone WindowEventKind = iota
	WindowShown
	WindowHidden
	WindowMoved
	WindowResized
	WindowSizeChanged
	WindowEnter
	WindowLeave
	WindowFocusGained
	WindowFocusLost
	WindowClose
)

func (k WindowEventKind) String() string {
	switch k {
	case WindowShown:
		return "shown"
	case WindowHidden:
		return "hidden"
	case WindowMoved:
		return "moved"
	case WindowResized:
		return "resized"
	case WindowSizeChanged:
		return "size-changed"
	case WindowEnter:
		return "enter"
	case WindowLeave:
		return "leave"
	case WindowFocusGained:
		return "focus-gained"
	case WindowFocusLost:
		return "focus-lost"
	case WindowClose:
		return "close"
	default:
		return "none"
	}
}

// TouchMouseID is the mouse device id of pointer events synthesized from touch.
const TouchMouseID = ^uint32(0)

// MouseButton identifies a pointer button.
type MouseButton int

const (
	ButtonNone MouseButton = iota
	ButtonLeft
	ButtonMiddle
	ButtonRight
	ButtonX1
	ButtonX2
)

// WindowEvent carries window lifecycle data. Data1/Data2 are the new
// position for moves and the new size for resizes.
type WindowEvent struct {
	Kind         WindowEventKind
	Data1, Data2 int
}

// Modifier masks for Key.Mod. Each covers the left and right key, using
// the SDL bit layout.
const (
	ModShift uint16 = 0x0003
	ModCtrl  uint16 = 0x00c0
	ModAlt   uint16 = 0x0300
)

// Key is a keyboard event payload. Name is the driver's printable key name.
type Key struct {
	Scancode int
	Sym      int
	Name     string
	Mod      uint16
	Repeat   bool
}

// Mouse is a pointer event payload in logical coordinates.
type Mouse struct {
	Which          uint32
	Button         MouseButton
	X, Y           int
	WheelX, WheelY int
}

// Finger is a touch event payload. Coordinates are normalized to [0, 1].
type Finger struct {
	TouchID  int64
	FingerID int64
	X, Y     float32
	DX, DY   float32
	Pressure float32
}

// Joy is a joystick event payload. Index is the axis, ball, hat or button
// number; Value is the axis position or hat direction.
type Joy struct {
	Which      int32
	Index      int
	Value      int
	XRel, YRel int
}

// Event is a platform event translated into a driver-neutral form.
type Event struct {
	Kind    EventKind
	Window  WindowEvent
	Key     Key
	Text    string
	Mouse   Mouse
	Finger  Finger
	Joy     Joy
	Command Command
}

// CommandKind names an application command routed through the event queue.
type CommandKind int

const (
	CommandQuit CommandKind = iota
	CommandResize
	CommandFullscreen
	CommandWindowed
	CommandCenterWindow
)

func (k CommandKind) String() string {
	switch k {
	case CommandQuit:
		return "quit"
	case CommandResize:
		return "resize"
	case CommandFullscreen:
		return "fullscreen"
	case CommandWindowed:
		return "windowed"
	case CommandCenterWindow:
		return "center-window"
	default:
		return "unknown"
	}
}

// Command is posted by any goroutine and executed by the event loop.
// Width and Height are logical sizes used by CommandResize.
type Command struct {
	Kind          CommandKind
	Width, Height int
}

// CommandEvent wraps a command in an event.
func CommandEvent(cmd Command) Event {
	return Event{Kind: EventCommand, Command: cmd}
}

// WindowEventOf builds a window lifecycle event.
func WindowEventOf(kind WindowEventKind, data1, data2 int) Event {
	return Event{Kind: EventWindow, Window: WindowEvent{Kind: kind, Data1: data1, Data2: data2}}
}
