// Package sdl2 is the desktop platform driver built on SDL2.
package sdl2

import (
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/veandco/go-sdl2/sdl"

	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/registry"
)

// wakeCode marks the user event that announces a queued command.
const wakeCode = 0x5052

func init() {
	registry.RegisterDriver("sdl", "SDL2 window with an accelerated renderer",
		func(opts registry.DriverOptions) platform.Driver {
			caps := platform.HostCapabilities()
			if opts.Capabilities != nil {
				caps = *opts.Capabilities
			}
			return New(caps, opts.Logger)
		})
}

// Driver wraps SDL. Everything except Post runs on the locked main thread.
type Driver struct {
	caps   platform.Capabilities
	logger *log.Logger

	mu       sync.Mutex
	commands []platform.Command

	joysticks map[sdl.JoystickID]*sdl.Joystick
}

// New creates an SDL driver.
func New(caps platform.Capabilities, logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		caps:      caps,
		logger:    logger,
		joysticks: make(map[sdl.JoystickID]*sdl.Joystick),
	}
}

func (d *Driver) Name() string                        { return "sdl" }
func (d *Driver) Capabilities() platform.Capabilities { return d.caps }

// Init starts the video, joystick and event subsystems.
func (d *Driver) Init() error {
	// Touch and mouse are reported separately; the loop merges them itself.
	sdl.SetHint("SDL_MOUSE_TOUCH_EVENTS", "0")
	sdl.SetHint("SDL_TOUCH_MOUSE_EVENTS", "0")

	if err := sdl.Init(sdl.INIT_VIDEO | sdl.INIT_JOYSTICK | sdl.INIT_EVENTS); err != nil {
		return fmt.Errorf("sdl: init failed: %w", err)
	}
	v := sdl.Version{}
	sdl.GetVersion(&v)
	d.logger.Info("SDL initialized", "version", fmt.Sprintf("%d.%d.%d", v.Major, v.Minor, v.Patch))
	return nil
}

// Quit closes joysticks and shuts SDL down.
func (d *Driver) Quit() {
	for id, j := range d.joysticks {
		j.Close()
		delete(d.joysticks, id)
	}
	sdl.Quit()
}

// NumDisplays returns the number of video displays.
func (d *Driver) NumDisplays() int {
	n, err := sdl.GetNumVideoDisplays()
	if err != nil || n < 1 {
		return 1
	}
	return n
}

// DesktopMode returns the desktop resolution of a display.
func (d *Driver) DesktopMode(display int) (platform.DisplayMode, error) {
	mode, err := sdl.GetDesktopDisplayMode(display)
	if err != nil {
		return platform.DisplayMode{}, fmt.Errorf("sdl: desktop mode of display %d: %w", display, err)
	}
	return fromSDLMode(mode), nil
}

// Density is 1: SDL reports window sizes in points and the renderer's
// logical size maps them to the drawable.
func (d *Driver) Density() float64 { return 1 }

// VideoDriver returns the name of the SDL video backend.
func (d *Driver) VideoDriver() string {
	name, err := sdl.GetCurrentVideoDriver()
	if err != nil {
		return "unknown"
	}
	return name
}

// SetScaleQuality sets the filter for textures created afterwards.
func (d *Driver) SetScaleQuality(q platform.ScaleQuality) {
	value := "nearest"
	if q == platform.ScaleLinear {
		value = "linear"
	}
	sdl.SetHint(sdl.HINT_RENDER_SCALE_QUALITY, value)
}

// CreateWindow opens a window centered on cfg.Display.
func (d *Driver) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	var flags uint32
	if cfg.Resizable {
		flags |= sdl.WINDOW_RESIZABLE
	}
	if cfg.HighDPI {
		flags |= sdl.WINDOW_ALLOW_HIGHDPI
	}
	if cfg.Fullscreen {
		flags |= sdl.WINDOW_FULLSCREEN_DESKTOP
	}
	pos := int32(sdl.WINDOWPOS_CENTERED_MASK | cfg.Display)

	w, err := sdl.CreateWindow(cfg.Title, pos, pos, int32(cfg.Width), int32(cfg.Height), flags)
	if err != nil {
		return nil, fmt.Errorf("sdl: cannot create window: %w", err)
	}
	return &window{w: w}, nil
}

// CreateRenderer creates an accelerated vsynced renderer, or a software one.
func (d *Driver) CreateRenderer(w platform.Window, software bool) (platform.Renderer, error) {
	win, ok := w.(*window)
	if !ok {
		return nil, fmt.Errorf("sdl: foreign window %T", w)
	}
	flags := uint32(sdl.RENDERER_ACCELERATED | sdl.RENDERER_PRESENTVSYNC)
	if software {
		flags = sdl.RENDERER_SOFTWARE
	}
	r, err := sdl.CreateRenderer(win.w, -1, flags)
	if err != nil {
		return nil, fmt.Errorf("sdl: cannot create renderer: %w", err)
	}
	if err := r.SetDrawColor(0, 0, 0, 0xff); err != nil {
		d.logger.Warn("cannot set draw color", "error", err)
	}
	return &renderer{r: r}, nil
}

// PollEvent returns the next translated event without blocking.
func (d *Driver) PollEvent() (platform.Event, bool) {
	for {
		ev := sdl.PollEvent()
		if ev == nil {
			return platform.Event{}, false
		}
		if out, ok := d.translate(ev); ok {
			return out, true
		}
	}
}

// WaitEvent blocks until an event arrives.
func (d *Driver) WaitEvent() (platform.Event, error) {
	for {
		ev := sdl.WaitEvent()
		if ev == nil {
			return platform.Event{}, fmt.Errorf("sdl: wait for event: %w", sdl.GetError())
		}
		if out, ok := d.translate(ev); ok {
			return out, nil
		}
	}
}

// Post queues cmd and wakes the loop with a user event.
func (d *Driver) Post(cmd platform.Command) error {
	d.mu.Lock()
	d.commands = append(d.commands, cmd)
	d.mu.Unlock()
	if _, err := sdl.PushEvent(&sdl.UserEvent{Type: sdl.USEREVENT, Code: wakeCode}); err != nil {
		return fmt.Errorf("sdl: cannot post %s: %w", cmd.Kind, err)
	}
	return nil
}

func (d *Driver) nextCommand() (platform.Command, bool) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if len(d.commands) == 0 {
		return platform.Command{}, false
	}
	cmd := d.commands[0]
	d.commands = d.commands[1:]
	return cmd, true
}

// RelativeMouseMode reports whether the pointer is captured.
func (d *Driver) RelativeMouseMode() bool {
	return sdl.GetRelativeMouseMode()
}

// Ticks returns the time since SDL was initialized.
func (d *Driver) Ticks() time.Duration {
	return time.Duration(sdl.GetTicks()) * time.Millisecond
}

// ShowMessage shows an error message box.
func (d *Driver) ShowMessage(title, message string) error {
	return sdl.ShowSimpleMessageBox(sdl.MESSAGEBOX_ERROR, title, message, nil)
}

// BasePath returns the directory of the executable.
func (d *Driver) BasePath() string {
	return sdl.GetBasePath()
}

func (d *Driver) openJoystick(index int) {
	j := sdl.JoystickOpen(index)
	if j == nil {
		d.logger.Warn("cannot open joystick", "index", index, "error", sdl.GetError())
		return
	}
	d.joysticks[j.InstanceID()] = j
}

func (d *Driver) closeJoystick(id sdl.JoystickID) {
	if j, ok := d.joysticks[id]; ok {
		j.Close()
		delete(d.joysticks, id)
	}
}

func fromSDLMode(m sdl.DisplayMode) platform.DisplayMode {
	return platform.DisplayMode{W: int(m.W), H: int(m.H), RefreshRate: int(m.RefreshRate)}
}
