package loop

import (
	"fmt"
	"time"

	"github.com/praetor-game/praetor/internal/core"
)

// fpsCounter tracks frames per second and the tick and draw cost of the
// last frame of each second.
type fpsCounter struct {
	secondStart time.Duration
	frames      int
	lastFPS     int
	tickTime    time.Duration
	drawTime    time.Duration
	text        string
}

func newFPSCounter() *fpsCounter {
	return &fpsCounter{text: "fps --"}
}

func (c *fpsCounter) frame(now, tick, draw time.Duration) {
	c.frames++
	if now-c.secondStart < time.Second {
		return
	}
	c.lastFPS = c.frames
	c.frames = 0
	c.secondStart = now
	c.tickTime = tick
	c.drawTime = draw
	c.text = fmt.Sprintf("fps %d  tick %dms  draw %dms", c.lastFPS, c.tickTime.Milliseconds(), c.drawTime.Milliseconds())
}

func (c *fpsCounter) draw(fb *core.Framebuffer) {
	box := core.NewRect(0, 24, core.TextWidth(c.text)+8, core.LineHeight+6)
	fb.FillRect(box, core.ColorWhite)
	fb.DrawText(4, 27, c.text, core.ColorRed)
}
