package testcard

import (
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/input"
	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/sim"
)

type staticFiles []string

func (f staticFiles) List(string) ([]string, error) { return f, nil }

func newCard(t *testing.T) (*Card, *input.State) {
	t.Helper()
	in := input.NewState()
	c := New(sim.Env{
		Logger: log.New(io.Discard),
		Input:  in,
		Files:  staticFiles{"C3.ENG", "c3.sg2"},
	})
	return c, in
}

func TestPreInit(t *testing.T) {
	c, _ := newCard(t)

	if err := c.PreInit(t.TempDir()); err == nil {
		t.Error("PreInit(empty dir) succeeded")
	}
	if err := c.PreInit(filepath.Join(t.TempDir(), "missing")); err == nil {
		t.Error("PreInit(missing dir) succeeded")
	}

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "C3.ENG"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	if err := c.PreInit(dir); err != nil {
		t.Fatalf("PreInit() failed: %v", err)
	}
	if err := c.Init(); err != nil {
		t.Fatalf("Init() failed: %v", err)
	}
	if c.fileCnt != 2 {
		t.Errorf("fileCnt = %d, expected 2", c.fileCnt)
	}
}

func TestInitBeforePreInit(t *testing.T) {
	c, _ := newCard(t)
	if err := c.Init(); err == nil {
		t.Error("Init() without PreInit succeeded")
	}
}

func TestDraw(t *testing.T) {
	c, in := newCard(t)
	fb := core.NewFramebuffer(640, 480)
	in.SetScreenSize(640, 480)
	in.SetMousePosition(100, 200)

	c.Tick(1500 * time.Millisecond)
	c.Draw(fb)

	if got := fb.Pixel(0, 0); got != frameColor {
		t.Errorf("corner pixel = %#x, expected frame color", uint32(got))
	}
	if got := fb.Pixel(100, 200); got != core.ColorRed {
		t.Errorf("crosshair center = %#x, expected red", uint32(got))
	}
	if got := fb.Pixel(gridStep, 5); got != gridColor {
		t.Errorf("grid pixel = %#x, expected grid color", uint32(got))
	}
}

func TestDrawTouch(t *testing.T) {
	c, in := newCard(t)
	fb := core.NewFramebuffer(320, 240)
	in.SetScreenSize(320, 240)
	in.TouchStart(platform.Finger{FingerID: 1, X: 0.5, Y: 0.5})

	c.Draw(fb)
	if got := fb.Pixel(160-6, 120); got != core.ColorGreen {
		t.Errorf("touch marker = %#x, expected green", uint32(got))
	}
}

func TestDrawEmptyFramebuffer(t *testing.T) {
	c, _ := newCard(t)
	c.Draw(core.NewFramebuffer(0, 0))
}

func TestExit(t *testing.T) {
	c, _ := newCard(t)
	c.Exit()
	if !c.Exited() {
		t.Error("Exited() = false after Exit")
	}
}
