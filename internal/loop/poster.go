package loop

import (
	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/platform"
)

// Poster queues application commands from any goroutine. The loop executes
// them on its own goroutine during the next drain.
type Poster struct {
	driver platform.Driver
	logger *log.Logger
}

// NewPoster creates a poster for driver's queue.
func NewPoster(driver platform.Driver, logger *log.Logger) *Poster {
	return &Poster{driver: driver, logger: logger}
}

func (p *Poster) post(cmd platform.Command) {
	if err := p.driver.Post(cmd); err != nil {
		p.logger.Warn("unable to post command", "command", cmd.Kind, "error", err)
	}
}

// Quit asks the loop to terminate.
func (p *Poster) Quit() {
	p.post(platform.Command{Kind: platform.CommandQuit})
}

// Resize asks for a logical window size.
func (p *Poster) Resize(width, height int) {
	p.post(platform.Command{Kind: platform.CommandResize, Width: width, Height: height})
}

// SetFullscreen asks for fullscreen or windowed mode.
func (p *Poster) SetFullscreen(on bool) {
	if on {
		p.post(platform.Command{Kind: platform.CommandFullscreen})
		return
	}
	p.post(platform.Command{Kind: platform.CommandWindowed})
}

// Center asks to center the window.
func (p *Poster) Center() {
	p.post(platform.Command{Kind: platform.CommandCenterWindow})
}
