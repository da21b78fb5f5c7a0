// Package loop runs the application main loop: it drains platform events,
// routes them through a dispatch table and drives the simulation frame by
// frame while the window is visible.
package loop

import (
	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/display"
	"github.com/praetor-game/praetor/internal/input"
	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/sim"
)

// Invalidator drops cached state when the window becomes visible again.
type Invalidator interface {
	Invalidate()
}

// Options configures optional loop behavior.
type Options struct {
	// ShowFPS draws frame statistics over the simulation output.
	ShowFPS bool
	// MaxFrames posts a quit after this many frames; zero means unlimited.
	MaxFrames int
	// Files is invalidated whenever the window is shown.
	Files Invalidator
}

// State is the loop control state.
type State struct {
	Active bool
	Quit   bool
}

type handler func(ev platform.Event)

// Loop owns the event queue, the simulation and the display surface. All of
// its methods must be called from the goroutine that created the window.
type Loop struct {
	driver  platform.Driver
	display *display.Manager
	sim     sim.Simulation
	input   *input.State
	logger  *log.Logger
	opts    Options

	state    State
	handlers map[platform.EventKind]handler
	poster   *Poster
	fps      *fpsCounter

	frames     int
	quitPosted bool
	terminated bool
}

// New creates a loop in the Active state.
func New(driver platform.Driver, disp *display.Manager, simulation sim.Simulation, in *input.State, logger *log.Logger, opts Options) *Loop {
	l := &Loop{
		driver:  driver,
		display: disp,
		sim:     simulation,
		input:   in,
		logger:  logger,
		opts:    opts,
		state:   State{Active: true},
		poster:  NewPoster(driver, logger),
	}
	if opts.ShowFPS {
		l.fps = newFPSCounter()
	}
	l.handlers = map[platform.EventKind]handler{
		platform.EventQuit:             l.handleQuit,
		platform.EventWindow:           l.handleWindow,
		platform.EventKeyDown:          l.handleKeyDown,
		platform.EventKeyUp:            l.handleKeyUp,
		platform.EventTextInput:        l.handleText,
		platform.EventMouseMotion:      l.handleMouseMotion,
		platform.EventMouseButtonDown:  l.handleMouseButton,
		platform.EventMouseButtonUp:    l.handleMouseButton,
		platform.EventMouseWheel:       l.handleMouseWheel,
		platform.EventFingerDown:       l.handleFinger,
		platform.EventFingerMotion:     l.handleFinger,
		platform.EventFingerUp:         l.handleFinger,
		platform.EventJoyAxis:          l.handleJoystick,
		platform.EventJoyBall:          l.handleJoystick,
		platform.EventJoyHat:           l.handleJoystick,
		platform.EventJoyButtonDown:    l.handleJoystick,
		platform.EventJoyButtonUp:      l.handleJoystick,
		platform.EventJoyDeviceAdded:   l.handleJoystick,
		platform.EventJoyDeviceRemoved: l.handleJoystick,
		platform.EventCommand:          l.handleCommand,
	}
	return l
}

// Poster returns the thread-safe command poster.
func (l *Loop) Poster() *Poster {
	return l.poster
}

// State returns the loop control state.
func (l *Loop) State() State {
	return l.state
}

// Frames returns the number of frames drawn.
func (l *Loop) Frames() int {
	return l.frames
}

// Dispatch routes one event to its handler. Unknown kinds are ignored.
func (l *Loop) Dispatch(ev platform.Event) {
	if h, ok := l.handlers[ev.Kind]; ok {
		h(ev)
		return
	}
	l.logger.Debug("unhandled event", "kind", ev.Kind)
}

// Run iterates until the loop terminates.
func (l *Loop) Run() {
	for l.Iterate() {
	}
}

// Iterate performs one loop iteration and reports whether the loop should
// continue. On quit it tears the session down and returns false.
func (l *Loop) Iterate() bool {
	if l.terminated {
		return false
	}
	l.display.RecoverTexture()

	for {
		ev, ok := l.driver.PollEvent()
		if !ok {
			break
		}
		l.Dispatch(ev)
	}

	if l.state.Quit {
		l.terminate()
		return false
	}

	if l.state.Active {
		l.RunAndDraw()
		return true
	}

	ev, err := l.driver.WaitEvent()
	if err != nil {
		l.logger.Error("event queue closed, quitting", "error", err)
		l.state.Quit = true
		return true
	}
	l.Dispatch(ev)
	return true
}

// RunAndDraw advances the simulation and presents one frame.
func (l *Loop) RunAndDraw() {
	start := l.driver.Ticks()
	l.sim.Tick(start)
	ticked := l.driver.Ticks()

	if fb := l.display.Framebuffer(); fb != nil {
		l.sim.Draw(fb)
		if l.fps != nil {
			l.fps.frame(start, ticked-start, l.driver.Ticks()-ticked)
			l.fps.draw(fb)
		}
	}
	l.input.EndFrame()

	l.display.Update()
	l.display.Present()

	l.frames++
	if l.opts.MaxFrames > 0 && l.frames >= l.opts.MaxFrames && !l.quitPosted {
		l.quitPosted = true
		l.poster.Quit()
	}
}

func (l *Loop) terminate() {
	l.terminated = true
	l.logger.Info("exiting", "frames", l.frames)
	l.sim.Exit()
	l.display.Destroy()
	l.driver.Quit()
}

func (l *Loop) handleQuit(platform.Event) {
	l.state.Quit = true
}

func (l *Loop) handleCommand(ev platform.Event) {
	cmd := ev.Command
	switch cmd.Kind {
	case platform.CommandQuit:
		l.state.Quit = true
	case platform.CommandResize:
		l.display.SetWindowSize(cmd.Width, cmd.Height)
	case platform.CommandFullscreen:
		l.display.SetFullscreen()
	case platform.CommandWindowed:
		l.display.SetWindowed()
	case platform.CommandCenterWindow:
		l.display.CenterWindow()
	default:
		l.logger.Warn("unknown command", "command", cmd.Kind)
	}
}

func (l *Loop) handleWindow(ev platform.Event) {
	w := ev.Window
	switch w.Kind {
	case platform.WindowEnter:
		l.input.SetInsideWindow(true)
	case platform.WindowLeave:
		l.input.SetInsideWindow(false)
	case platform.WindowFocusGained:
		l.input.SetWindowFocus(true)
	case platform.WindowFocusLost:
		l.input.SetWindowFocus(false)
	case platform.WindowSizeChanged:
		l.logger.Info("window size changed", "width", w.Data1, "height", w.Data2)
		if err := l.display.Resize(w.Data1, w.Data2); err != nil {
			l.logger.Error("unable to resize display", "error", err)
		}
	case platform.WindowResized:
		l.logger.Info("window resized", "width", w.Data1, "height", w.Data2)
	case platform.WindowMoved:
		l.display.Move(w.Data1, w.Data2)
	case platform.WindowShown:
		l.logger.Info("window shown")
		if l.opts.Files != nil {
			l.opts.Files.Invalidate()
		}
		l.state.Active = true
	case platform.WindowHidden:
		l.logger.Info("window hidden")
		l.state.Active = false
	}
}

func (l *Loop) handleKeyDown(ev platform.Event) {
	if l.hotkey(ev.Key) {
		return
	}
	l.input.KeyDown(ev.Key)
}

func (l *Loop) handleKeyUp(ev platform.Event) {
	l.input.KeyUp(ev.Key)
}

func (l *Loop) handleText(ev platform.Event) {
	l.input.TextInput(ev.Text)
}

// Pointer events synthesized from touch are dropped; touch arrives separately.
func (l *Loop) handleMouseMotion(ev platform.Event) {
	if ev.Mouse.Which == platform.TouchMouseID {
		return
	}
	if !l.driver.RelativeMouseMode() {
		l.input.SetMousePosition(ev.Mouse.X, ev.Mouse.Y)
	}
}

func (l *Loop) handleMouseButton(ev platform.Event) {
	if ev.Mouse.Which == platform.TouchMouseID {
		return
	}
	if !l.driver.RelativeMouseMode() {
		l.input.SetMousePosition(ev.Mouse.X, ev.Mouse.Y)
	}
	l.input.SetMouseButton(ev.Mouse.Button, ev.Kind == platform.EventMouseButtonDown)
}

func (l *Loop) handleMouseWheel(ev platform.Event) {
	if ev.Mouse.Which == platform.TouchMouseID {
		return
	}
	l.input.SetScroll(input.ScrollFromDelta(ev.Mouse.WheelY))
}

func (l *Loop) handleFinger(ev platform.Event) {
	w, h := l.display.Size()
	l.input.SetScreenSize(w, h)
	switch ev.Kind {
	case platform.EventFingerDown:
		l.input.TouchStart(ev.Finger)
	case platform.EventFingerMotion:
		l.input.TouchMove(ev.Finger)
	case platform.EventFingerUp:
		l.input.TouchEnd(ev.Finger)
	}
}

func (l *Loop) handleJoystick(ev platform.Event) {
	switch ev.Kind {
	case platform.EventJoyDeviceAdded:
		l.logger.Info("joystick connected", "id", ev.Joy.Which)
	case platform.EventJoyDeviceRemoved:
		l.logger.Info("joystick disconnected", "id", ev.Joy.Which)
	}
	l.input.JoystickEvent(ev.Kind, ev.Joy)
}
