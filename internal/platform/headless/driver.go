// Package headless implements a platform driver without any OS window.
// It keeps a virtual display, counts every resource it hands out and is used
// for tests and for unattended smoke runs.
package headless

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/registry"
)

func init() {
	registry.RegisterDriver("headless", "virtual display without a window (CI, smoke runs)",
		func(opts registry.DriverOptions) platform.Driver {
			o := Options{}
			if opts.Capabilities != nil {
				o.Capabilities = *opts.Capabilities
			}
			return New(o)
		})
}

// Options configures the virtual display and failure injection.
type Options struct {
	// Displays lists the desktop mode of each display; defaults to one 1920x1080 display.
	Displays []platform.DisplayMode
	// Density is the physical-pixel ratio; defaults to 1.
	Density      float64
	Capabilities platform.Capabilities

	// FailInit makes Init return an error.
	FailInit bool
	// FailWindow makes CreateWindow return an error.
	FailWindow bool
	// FailRenderers is the number of CreateRenderer calls that fail before one succeeds.
	FailRenderers int
	// FailSoftwareRenderer makes software renderer creation fail too.
	FailSoftwareRenderer bool
	// FailTextures is the number of CreateTexture calls that fail.
	FailTextures int
	// FailFullscreen makes Window.SetFullscreen(true) fail.
	FailFullscreen bool
	// Clock overrides Ticks.
	Clock func() time.Duration
}

// Stats counts resources created and destroyed by the driver.
type Stats struct {
	Inits, Quits       int
	WindowsCreated     int
	WindowsDestroyed   int
	RenderersCreated   int
	RenderersDestroyed int
	SoftwareRenderers  int
	TexturesCreated    int
	TexturesDestroyed  int
	Uploads            int
	Copies             int
	Presents           int
	Warps              int
}

// LiveWindows returns the number of windows not yet destroyed.
func (s Stats) LiveWindows() int { return s.WindowsCreated - s.WindowsDestroyed }

// LiveRenderers returns the number of renderers not yet destroyed.
func (s Stats) LiveRenderers() int { return s.RenderersCreated - s.RenderersDestroyed }

// LiveTextures returns the number of textures not yet destroyed.
func (s Stats) LiveTextures() int { return s.TexturesCreated - s.TexturesDestroyed }

// Driver is the headless platform driver.
type Driver struct {
	opts  Options
	queue *platform.Queue
	start time.Time

	mu       sync.Mutex
	stats    Stats
	window   *Window
	renderer *Renderer
	quality  platform.ScaleQuality
	relative bool
	messages []string
}

// New creates a headless driver.
func New(opts Options) *Driver {
	if len(opts.Displays) == 0 {
		opts.Displays = []platform.DisplayMode{{W: 1920, H: 1080, RefreshRate: 60}}
	}
	if opts.Density <= 0 {
		opts.Density = 1
	}
	return &Driver{
		opts:  opts,
		queue: platform.NewQueue(),
		start: time.Now(),
	}
}

func (d *Driver) Name() string                        { return "headless" }
func (d *Driver) Capabilities() platform.Capabilities { return d.opts.Capabilities }
func (d *Driver) Density() float64                    { return d.opts.Density }
func (d *Driver) VideoDriver() string                 { return "dummy" }
func (d *Driver) NumDisplays() int                    { return len(d.opts.Displays) }
func (d *Driver) BasePath() string                    { return "" }

// Init starts the driver.
func (d *Driver) Init() error {
	if d.opts.FailInit {
		return errors.New("headless: init failed")
	}
	d.mu.Lock()
	d.stats.Inits++
	d.mu.Unlock()
	return nil
}

// Quit shuts the driver down. Pending events stay readable.
func (d *Driver) Quit() {
	d.mu.Lock()
	d.stats.Quits++
	d.mu.Unlock()
}

// DesktopMode returns the configured mode of a display.
func (d *Driver) DesktopMode(display int) (platform.DisplayMode, error) {
	if display < 0 || display >= len(d.opts.Displays) {
		return platform.DisplayMode{}, fmt.Errorf("headless: display %d out of range", display)
	}
	return d.opts.Displays[display], nil
}

// SetScaleQuality records the filter hint.
func (d *Driver) SetScaleQuality(q platform.ScaleQuality) {
	d.mu.Lock()
	d.quality = q
	d.mu.Unlock()
}

// ScaleQuality returns the last filter hint.
func (d *Driver) ScaleQuality() platform.ScaleQuality {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quality
}

// CreateWindow creates the virtual window.
func (d *Driver) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	if d.opts.FailWindow {
		return nil, errors.New("headless: window creation failed")
	}
	w := &Window{
		driver:     d,
		title:      cfg.Title,
		w:          cfg.Width,
		h:          cfg.Height,
		display:    cfg.Display,
		fullscreen: cfg.Fullscreen,
	}
	if mode, err := d.DesktopMode(cfg.Display); err == nil {
		if cfg.Fullscreen {
			w.w, w.h = mode.W, mode.H
		}
		w.x, w.y = (mode.W-w.w)/2, (mode.H-w.h)/2
	}
	d.mu.Lock()
	d.stats.WindowsCreated++
	d.window = w
	d.mu.Unlock()
	return w, nil
}

// CreateRenderer creates a renderer for w.
func (d *Driver) CreateRenderer(w platform.Window, software bool) (platform.Renderer, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if software && d.opts.FailSoftwareRenderer {
		return nil, errors.New("headless: software renderer failed")
	}
	if !software && d.opts.FailRenderers > 0 {
		d.opts.FailRenderers--
		return nil, errors.New("headless: accelerated renderer failed")
	}
	d.stats.RenderersCreated++
	if software {
		d.stats.SoftwareRenderers++
	}
	d.renderer = &Renderer{driver: d, software: software}
	return d.renderer, nil
}

// PollEvent returns the next queued event.
func (d *Driver) PollEvent() (platform.Event, bool) {
	return d.queue.Poll()
}

// WaitEvent blocks for the next event.
func (d *Driver) WaitEvent() (platform.Event, error) {
	return d.queue.Wait()
}

// Post queues a command.
func (d *Driver) Post(cmd platform.Command) error {
	d.queue.Push(platform.CommandEvent(cmd))
	return nil
}

// Push injects an OS event.
func (d *Driver) Push(ev platform.Event) {
	d.queue.Push(ev)
}

// Pending returns the number of queued events.
func (d *Driver) Pending() int {
	return d.queue.Len()
}

// SetRelativeMouseMode toggles relative pointer mode.
func (d *Driver) SetRelativeMouseMode(on bool) {
	d.mu.Lock()
	d.relative = on
	d.mu.Unlock()
}

// RelativeMouseMode reports whether relative pointer mode is on.
func (d *Driver) RelativeMouseMode() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.relative
}

// Ticks returns the time since the driver was created.
func (d *Driver) Ticks() time.Duration {
	if d.opts.Clock != nil {
		return d.opts.Clock()
	}
	return time.Since(d.start)
}

// ShowMessage records a message box.
func (d *Driver) ShowMessage(title, message string) error {
	d.mu.Lock()
	d.messages = append(d.messages, title+": "+message)
	d.mu.Unlock()
	return nil
}

// Messages returns the message boxes shown so far.
func (d *Driver) Messages() []string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return append([]string(nil), d.messages...)
}

// Stats returns a snapshot of the resource counters.
func (d *Driver) Stats() Stats {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stats
}

// Window returns the most recently created window.
func (d *Driver) Window() *Window {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.window
}

// Renderer returns the most recently created renderer.
func (d *Driver) Renderer() *Renderer {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.renderer
}

func (d *Driver) count(fn func(s *Stats)) {
	d.mu.Lock()
	fn(&d.stats)
	d.mu.Unlock()
}

// FailNextTextures makes the next n texture creations fail.
func (d *Driver) FailNextTextures(n int) {
	d.mu.Lock()
	d.opts.FailTextures = n
	d.mu.Unlock()
}
