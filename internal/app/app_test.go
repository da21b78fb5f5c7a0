package app

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/config"
	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/platform/headless"
	"github.com/praetor-game/praetor/internal/sim"
	"github.com/praetor-game/praetor/internal/storage"
)

type testSim struct {
	failInit bool
	inits    int
	draws    int
	exits    int
	onExit   func()
}

func (s *testSim) PreInit(dir string) error {
	if _, err := os.Stat(filepath.Join(dir, "c3.eng")); err != nil {
		return errors.New("no game data")
	}
	return nil
}

func (s *testSim) Init() error {
	s.inits++
	if s.failInit {
		return errors.New("missing scenario")
	}
	return nil
}

func (s *testSim) Tick(time.Duration)     {}
func (s *testSim) Draw(*core.Framebuffer) { s.draws++ }
func (s *testSim) Exit() {
	s.exits++
	if s.onExit != nil {
		s.onExit()
	}
}

type harness struct {
	driver   *headless.Driver
	sim      *testSim
	settings *config.Settings
	store    *storage.Store
	dataDir  string
}

func newHarness(t *testing.T, hopts headless.Options) *harness {
	t.Helper()
	logger := log.New(io.Discard)

	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "c3.eng"), nil, 0o644); err != nil {
		t.Fatal(err)
	}
	settings, err := config.Load(filepath.Join(t.TempDir(), "settings.yaml"), logger)
	if err != nil {
		t.Fatalf("config.Load() failed: %v", err)
	}
	store, err := storage.Open(filepath.Join(t.TempDir(), "praetor.db"))
	if err != nil {
		t.Fatalf("storage.Open() failed: %v", err)
	}
	t.Cleanup(func() { store.Close() })

	if !hopts.Capabilities.InteractiveScaling {
		hopts.Capabilities.InteractiveScaling = true
	}
	return &harness{
		driver:   headless.New(hopts),
		sim:      &testSim{},
		settings: settings,
		store:    store,
		dataDir:  dir,
	}
}

func (h *harness) deps() Deps {
	return Deps{
		Logger:     log.New(io.Discard),
		Settings:   h.settings,
		Store:      h.store,
		Driver:     h.driver,
		Simulation: func(sim.Env) sim.Simulation { return h.sim },
	}
}

func (h *harness) newApp(t *testing.T, opts Options) *App {
	t.Helper()
	if opts.DataDir == "" {
		opts.DataDir = h.dataDir
	}
	if opts.Simulation == "" {
		opts.Simulation = "test"
	}
	a, err := New(opts, h.deps())
	if err != nil {
		t.Fatalf("New() failed: %v", err)
	}
	return a
}

func TestRunFrameLimit(t *testing.T) {
	h := newHarness(t, headless.Options{})
	a := h.newApp(t, Options{MaxFrames: 3})

	if err := a.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}

	if h.sim.draws != 3 || h.sim.exits != 1 {
		t.Errorf("draws = %d, exits = %d; expected 3 and 1", h.sim.draws, h.sim.exits)
	}
	stats := h.driver.Stats()
	if stats.LiveWindows() != 0 || stats.LiveRenderers() != 0 || stats.LiveTextures() != 0 {
		t.Errorf("resources left after quit: %+v", stats)
	}
	if stats.Quits != 1 {
		t.Errorf("driver quit %d times, expected 1", stats.Quits)
	}

	sessions, err := h.store.RecentSessions(5)
	if err != nil {
		t.Fatal(err)
	}
	if len(sessions) != 1 {
		t.Fatalf("recorded %d sessions, expected 1", len(sessions))
	}
	if s := sessions[0]; s.Frames != 3 || s.ExitCode != ExitOK || s.Driver != "headless" || s.DataDir != h.dataDir {
		t.Errorf("session = %+v", s)
	}
}

func TestRunExitCodes(t *testing.T) {
	tests := []struct {
		name     string
		hopts    headless.Options
		dataDir  string
		failInit bool
		code     int
	}{
		{name: "platform init", hopts: headless.Options{FailInit: true}, code: ExitPlatformInit},
		{name: "data discovery", dataDir: "empty", code: ExitDataDir},
		{name: "window", hopts: headless.Options{FailWindow: true}, code: ExitWindow},
		{name: "simulation init", failInit: true, code: ExitSimInit},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			h := newHarness(t, tc.hopts)
			h.sim.failInit = tc.failInit
			opts := Options{MaxFrames: 1}
			if tc.dataDir == "empty" {
				opts.DataDir = t.TempDir()
			}
			a := h.newApp(t, opts)

			err := a.Run()
			var exitErr *ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("Run() error = %v, expected *ExitError", err)
			}
			if exitErr.Code != tc.code {
				t.Errorf("exit code = %d, expected %d", exitErr.Code, tc.code)
			}
			if h.sim.draws != 0 {
				t.Errorf("%d frames drawn after a setup failure", h.sim.draws)
			}
			if live := h.driver.Stats().LiveWindows(); live != 0 {
				t.Errorf("%d windows left open", live)
			}

			sessions, _ := h.store.RecentSessions(1)
			if len(sessions) != 1 || sessions[0].ExitCode != tc.code {
				t.Errorf("recorded sessions = %+v", sessions)
			}
		})
	}
}

func TestDataDirFailureShowsMessage(t *testing.T) {
	h := newHarness(t, headless.Options{})
	a := h.newApp(t, Options{DataDir: filepath.Join(t.TempDir(), "nope")})

	if err := a.Run(); err == nil {
		t.Fatal("Run() succeeded without game data")
	}
	if msgs := h.driver.Messages(); len(msgs) != 1 {
		t.Errorf("message boxes = %v, expected one", msgs)
	}
}

func TestNewRejectsBadArguments(t *testing.T) {
	h := newHarness(t, headless.Options{})

	tests := []struct {
		name string
		opts Options
		deps Deps
	}{
		{"windowed and fullscreen", Options{ForceWindowed: true, ForceFullscreen: true}, h.deps()},
		{"unknown driver", Options{Driver: "vga", Simulation: "testcard"}, Deps{Logger: log.New(io.Discard)}},
		{"unknown simulation", Options{Simulation: "caesar4"}, Deps{Logger: log.New(io.Discard), Driver: h.driver}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := New(tc.opts, tc.deps)
			var exitErr *ExitError
			if !errors.As(err, &exitErr) || exitErr.Code != ExitUsage {
				t.Errorf("New() error = %v, expected usage error", err)
			}
		})
	}
}

func TestOverridesArePersisted(t *testing.T) {
	h := newHarness(t, headless.Options{})
	a := h.newApp(t, Options{ForceFullscreen: true, DisplayScale: 150, CursorScale: 200, MaxFrames: 1})

	if err := a.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if !h.settings.Fullscreen() || h.settings.DisplayScale() != 150 || h.settings.CursorScale() != 200 {
		t.Errorf("settings = %+v", h.settings.Display)
	}
	if w, hgt := h.driver.Window().Size(); w != 1920 || hgt != 1080 {
		t.Errorf("window = %dx%d, expected the desktop size", w, hgt)
	}
	if _, err := os.Stat(h.settings.Path()); err != nil {
		t.Errorf("settings were not saved: %v", err)
	}

	reloaded, err := config.Load(h.settings.Path(), log.New(io.Discard))
	if err != nil {
		t.Fatal(err)
	}
	if !reloaded.Fullscreen() || reloaded.DisplayScale() != 150 {
		t.Errorf("reloaded settings = %+v", reloaded.Display)
	}
}

func TestRestartOnQuit(t *testing.T) {
	h := newHarness(t, headless.Options{Capabilities: platform.Capabilities{
		InteractiveScaling: true,
		RestartOnQuit:      true,
	}})
	a := h.newApp(t, Options{MaxFrames: 2})
	h.sim.onExit = func() {
		if h.sim.exits == 2 {
			a.Stop()
		}
	}

	if err := a.Run(); err != nil {
		t.Fatalf("Run() failed: %v", err)
	}
	if a.Runs() != 2 || h.sim.inits != 2 {
		t.Errorf("runs = %d, inits = %d; expected 2", a.Runs(), h.sim.inits)
	}
	if stats := h.driver.Stats(); stats.Inits != 2 || stats.LiveWindows() != 0 {
		t.Errorf("stats = %+v", stats)
	}
	sessions, _ := h.store.RecentSessions(5)
	if len(sessions) != 2 {
		t.Errorf("recorded %d sessions, expected 2", len(sessions))
	}
}

func TestExitErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	err := exitError(ExitWindow, "window", inner)
	if !errors.Is(err, inner) {
		t.Error("ExitError does not unwrap")
	}
	if err.Error() != "window: boom" {
		t.Errorf("Error() = %q", err.Error())
	}
}
