// Package testcard is a stand-in simulation that exercises the platform
// layer: it draws a calibration pattern, follows the pointer and echoes
// keyboard and touch input.
package testcard

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/input"
	"github.com/praetor-game/praetor/internal/registry"
	"github.com/praetor-game/praetor/internal/sim"
)

// MarkerFile must be present in the data directory.
const MarkerFile = "c3.eng"

// Grid spacing in logical pixels.
const gridStep = 32

var (
	gridColor  = core.ARGB(0xff, 0x30, 0x30, 0x30)
	frameColor = core.ColorYellow
	textColor  = core.ColorWhite
	hintColor  = core.ColorGray
)

// Card implements sim.Simulation.
type Card struct {
	logger *log.Logger
	input  *input.State
	files  sim.FileLister

	dataDir string
	fileCnt int
	now     time.Duration
	ticks   int
	exited  bool
}

// New creates a test card bound to env.
func New(env sim.Env) *Card {
	logger := env.Logger
	if logger == nil {
		logger = log.Default()
	}
	return &Card{logger: logger, input: env.Input, files: env.Files}
}

// PreInit accepts dataDir when it holds MarkerFile, in any letter case.
func (c *Card) PreInit(dataDir string) error {
	entries, err := os.ReadDir(dataDir)
	if err != nil {
		return fmt.Errorf("testcard: cannot read %s: %w", dataDir, err)
	}
	for _, e := range entries {
		if strings.EqualFold(e.Name(), MarkerFile) {
			c.dataDir = dataDir
			return nil
		}
	}
	return fmt.Errorf("testcard: %s not found in %s", MarkerFile, dataDir)
}

// Init counts the data files.
func (c *Card) Init() error {
	if c.dataDir == "" {
		return fmt.Errorf("testcard: Init before PreInit")
	}
	c.refreshFiles()
	c.logger.Info("test card ready", "dir", c.dataDir, "files", c.fileCnt)
	return nil
}

func (c *Card) refreshFiles() {
	if c.files == nil {
		return
	}
	names, err := c.files.List(".")
	if err != nil {
		c.logger.Warn("cannot list data files", "error", err)
		return
	}
	c.fileCnt = len(names)
}

// Tick advances the clock.
func (c *Card) Tick(now time.Duration) {
	c.now = now
	c.ticks++
	// Listings are invalidated when the window is shown; a cheap re-read once
	// a second keeps the counter honest.
	if c.ticks%60 == 0 {
		c.refreshFiles()
	}
}

// Draw renders the calibration pattern.
func (c *Card) Draw(fb *core.Framebuffer) {
	w, h := fb.Width(), fb.Height()
	if w == 0 || h == 0 {
		return
	}

	drawGradient(fb)
	for x := 0; x < w; x += gridStep {
		fb.DrawVLine(x, 0, h, gridColor)
	}
	for y := 0; y < h; y += gridStep {
		fb.DrawHLine(0, y, w, gridColor)
	}
	fb.StrokeRect(fb.Rect(), frameColor)

	fb.DrawTextCentered(h/2-core.LineHeight, "PRAETOR", textColor)
	fb.DrawTextCentered(h/2+4, fmt.Sprintf("%dx%d", w, h), textColor)

	lines := []string{
		fmt.Sprintf("t=%s", c.now.Truncate(time.Second/10)),
		fmt.Sprintf("files=%d", c.fileCnt),
	}
	if c.input != nil {
		m := c.input.Mouse()
		lines = append(lines,
			fmt.Sprintf("pointer=%d,%d touch=%v scroll=%s", m.X, m.Y, m.IsTouch, m.Scroll),
			"keys="+strings.Join(c.input.HeldKeys(), "+"),
		)
		c.drawCrosshair(fb, m.X, m.Y)
		for _, t := range c.input.Touches() {
			fb.StrokeRect(core.NewRect(t.X-6, t.Y-6, 13, 13), core.ColorGreen)
		}
	}
	y := h - 4 - len(lines)*core.LineHeight
	for _, line := range lines {
		fb.DrawText(4, y, line, hintColor)
		y += core.LineHeight
	}
}

func (c *Card) drawCrosshair(fb *core.Framebuffer, x, y int) {
	fb.DrawHLine(x-8, y, 17, core.ColorRed)
	fb.DrawVLine(x, y-8, 17, core.ColorRed)
}

// drawGradient fills fb with a blue/green ramp so scaling artifacts show.
func drawGradient(fb *core.Framebuffer) {
	w, h := fb.Width(), fb.Height()
	for y := 0; y < h; y++ {
		g := uint8(y * 0x60 / h)
		for x := 0; x < w; x++ {
			fb.SetPixel(x, y, core.RGB(0x10, g, uint8(x*0x80/w)+0x20))
		}
	}
}

// Exit marks the card as stopped.
func (c *Card) Exit() {
	c.exited = true
	c.logger.Info("test card stopped", "ticks", c.ticks)
}

// Exited reports whether Exit was called.
func (c *Card) Exited() bool {
	return c.exited
}

func init() {
	registry.RegisterSimulation("testcard", "calibration pattern that echoes input", func(env sim.Env) sim.Simulation {
		return New(env)
	})
}
