package tui

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"
	"golang.org/x/term"

	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/registry"
)

// Density maps terminal pixels to points: one half-block pixel stands for
// eight points, so a 160x48 terminal behaves like a 1280x768 display.
const Density = 0.125

func init() {
	registry.RegisterDriver("tui", "terminal rendering with half-block characters",
		func(opts registry.DriverOptions) platform.Driver {
			d := New(opts.Logger)
			if opts.Capabilities != nil {
				d.caps = *opts.Capabilities
			}
			return d
		})
}

// Capabilities of a terminal: it cannot be resized by the application and
// draws its own pointer.
func Capabilities() platform.Capabilities {
	return platform.Capabilities{
		FixedResolution:    true,
		InteractiveScaling: true,
		SoftwareCursor:     true,
	}
}

// Driver runs a Bubble Tea program and forwards its messages to the event
// queue.
type Driver struct {
	logger *log.Logger
	caps   platform.Capabilities
	keys   *KeyMapper
	queue  *platform.Queue
	start  time.Time

	mu        sync.Mutex
	cols      int
	rows      int
	logicalW  int
	logicalH  int
	quality   platform.ScaleQuality
	program   *tea.Program
	done      chan struct{}
	lastFrame string
}

// New creates a terminal driver.
func New(logger *log.Logger) *Driver {
	if logger == nil {
		logger = log.Default()
	}
	return &Driver{
		logger: logger,
		caps:   Capabilities(),
		keys:   NewKeyMapper(),
		queue:  platform.NewQueue(),
	}
}

func (d *Driver) Name() string                        { return "tui" }
func (d *Driver) Capabilities() platform.Capabilities { return d.caps }
func (d *Driver) NumDisplays() int                    { return 1 }
func (d *Driver) Density() float64                    { return Density }
func (d *Driver) VideoDriver() string                 { return "terminal" }
func (d *Driver) RelativeMouseMode() bool             { return false }

// Init checks that stdout is a terminal and reads its size.
func (d *Driver) Init() error {
	fd := int(os.Stdout.Fd())
	if !term.IsTerminal(fd) {
		return errors.New("tui: stdout is not a terminal")
	}
	cols, rows, err := term.GetSize(fd)
	if err != nil {
		return fmt.Errorf("tui: cannot read terminal size: %w", err)
	}
	d.mu.Lock()
	d.cols, d.rows = cols, rows
	d.mu.Unlock()
	d.start = time.Now()
	if n := d.queue.Clear(); n > 0 {
		d.logger.Debug("dropped events from the previous session", "count", n)
	}
	return nil
}

// Quit stops the program if it still runs.
func (d *Driver) Quit() {
	d.stopProgram()
}

// DesktopMode is the terminal size in half-block pixels.
func (d *Driver) DesktopMode(display int) (platform.DisplayMode, error) {
	if display != 0 {
		return platform.DisplayMode{}, fmt.Errorf("tui: display %d out of range", display)
	}
	w, h := d.pixelSize()
	return platform.DisplayMode{W: w, H: h}, nil
}

func (d *Driver) pixelSize() (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.cols, d.statusRows() * 2
}

// statusRows is the number of rows left for the frame; the last terminal
// row holds notices. Callers hold d.mu.
func (d *Driver) statusRows() int {
	if d.rows <= 1 {
		return d.rows
	}
	return d.rows - 1
}

func (d *Driver) setLogicalSize(w, h int) {
	d.mu.Lock()
	d.logicalW, d.logicalH = w, h
	d.mu.Unlock()
}

// toLogical converts a terminal cell to logical coordinates.
func (d *Driver) toLogical(col, row int) (int, int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	pw, ph := d.cols, d.statusRows()*2
	if pw <= 0 || ph <= 0 || d.logicalW == 0 {
		return col, row * 2
	}
	return col * d.logicalW / pw, row * 2 * d.logicalH / ph
}

// SetScaleQuality selects the downscaling filter.
func (d *Driver) SetScaleQuality(q platform.ScaleQuality) {
	d.mu.Lock()
	d.quality = q
	d.mu.Unlock()
}

// ScaleQuality returns the downscaling filter.
func (d *Driver) ScaleQuality() platform.ScaleQuality {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.quality
}

// CreateWindow takes over the terminal.
func (d *Driver) CreateWindow(cfg platform.WindowConfig) (platform.Window, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.program != nil {
		return nil, errors.New("tui: window already exists")
	}
	p := tea.NewProgram(
		NewModel(d),
		tea.WithAltScreen(),
		tea.WithMouseAllMotion(),
		tea.WithReportFocus(),
	)
	done := make(chan struct{})
	d.program, d.done = p, done

	go func() {
		defer close(done)
		if _, err := p.Run(); err != nil {
			d.logger.Error("terminal program failed", "error", err)
		}
		d.programExited(p)
	}()

	d.logger.Debug("terminal window created", "title", cfg.Title, "cols", d.cols, "rows", d.rows)
	return &window{driver: d, grabbed: cfg.Fullscreen}, nil
}

// programExited reports a quit when p ended on its own. A program stopped
// through stopProgram is already detached and produces no event.
func (d *Driver) programExited(p *tea.Program) {
	d.mu.Lock()
	own := d.program == p
	d.mu.Unlock()
	if own {
		d.queue.Push(platform.Event{Kind: platform.EventQuit})
	}
}

func (d *Driver) stopProgram() {
	d.mu.Lock()
	p, done := d.program, d.done
	d.program, d.done = nil, nil
	d.mu.Unlock()
	if p == nil {
		return
	}
	p.Quit()
	<-done
}

// CreateRenderer creates the half-block renderer.
func (d *Driver) CreateRenderer(platform.Window, bool) (platform.Renderer, error) {
	return &renderer{driver: d}, nil
}

func (d *Driver) present(frame string) {
	d.mu.Lock()
	d.lastFrame = frame
	p := d.program
	d.mu.Unlock()
	if p != nil {
		p.Send(frameMsg(frame))
	}
}

// LastFrame returns the most recently presented frame.
func (d *Driver) LastFrame() string {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastFrame
}

// resize records a new terminal size and reports it as a window event.
func (d *Driver) resize(cols, rows int) {
	d.mu.Lock()
	changed := cols != d.cols || rows != d.rows
	d.cols, d.rows = cols, rows
	pw, ph := d.cols, d.statusRows()*2
	d.mu.Unlock()
	if changed {
		d.queue.Push(platform.WindowEventOf(platform.WindowSizeChanged, pw, ph))
	}
}

func (d *Driver) push(ev platform.Event) {
	d.queue.Push(ev)
}

func (d *Driver) PollEvent() (platform.Event, bool) { return d.queue.Poll() }
func (d *Driver) WaitEvent() (platform.Event, error) { return d.queue.Wait() }

// Post queues a command.
func (d *Driver) Post(cmd platform.Command) error {
	d.queue.Push(platform.CommandEvent(cmd))
	return nil
}

// Ticks returns the time since Init.
func (d *Driver) Ticks() time.Duration {
	return time.Since(d.start)
}

// ShowMessage shows a notice under the frame, or on stderr before the
// terminal was taken over.
func (d *Driver) ShowMessage(title, message string) error {
	d.mu.Lock()
	p := d.program
	d.mu.Unlock()
	if p != nil {
		p.Send(messageMsg(title + ": " + message))
		return nil
	}
	_, err := fmt.Fprintln(os.Stderr, noticeStyle.Render(title)+"\n"+message)
	return err
}

// BasePath returns the executable's directory.
func (d *Driver) BasePath() string {
	exe, err := os.Executable()
	if err != nil {
		return ""
	}
	return filepath.Dir(exe)
}
