// Package app wires the platform layer together: it runs the setup stages in
// order, hands control to the event loop and records the session.
package app

import (
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/config"
	"github.com/praetor-game/praetor/internal/crash"
	"github.com/praetor-game/praetor/internal/datadir"
	"github.com/praetor-game/praetor/internal/display"
	"github.com/praetor-game/praetor/internal/input"
	"github.com/praetor-game/praetor/internal/loop"
	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/registry"
	"github.com/praetor-game/praetor/internal/sim"
	"github.com/praetor-game/praetor/internal/storage"
)

// Title is the window title.
const Title = "Praetor"

// Options are the command-line choices.
type Options struct {
	Driver     string
	Simulation string
	// DataDir is the explicit game directory; empty runs discovery.
	DataDir string

	ForceWindowed   bool
	ForceFullscreen bool
	Display         int
	// DisplayScale and CursorScale are percentages; zero keeps the settings.
	DisplayScale int
	CursorScale  int

	ShowFPS   bool
	MaxFrames int

	// Capabilities overrides the driver's platform profile.
	Capabilities *platform.Capabilities
}

// Deps are the collaborators built by the caller.
type Deps struct {
	Logger   *log.Logger
	Settings *config.Settings
	// Store, Prompter and Guard are optional.
	Store    *storage.Store
	Prompter datadir.Prompter
	Guard    *crash.Guard
	// Driver and Simulation replace the registry lookups when set.
	Driver     platform.Driver
	Simulation registry.SimFactory
}

// App runs sessions until the user quits.
type App struct {
	opts   Options
	deps   Deps
	logger *log.Logger
	driver platform.Driver

	mu       sync.Mutex
	poster   *loop.Poster
	stopping bool

	dataDir string
	frames  int
	runs    int
}

// New validates the options and creates the driver.
func New(opts Options, deps Deps) (*App, error) {
	if deps.Logger == nil {
		deps.Logger = log.Default()
	}
	if deps.Settings == nil {
		deps.Settings = config.DefaultSettings()
	}
	if opts.ForceWindowed && opts.ForceFullscreen {
		return nil, exitError(ExitUsage, "arguments", errors.New("--windowed and --fullscreen are exclusive"))
	}

	a := &App{opts: opts, deps: deps, logger: deps.Logger, driver: deps.Driver}
	if a.driver == nil {
		d, err := registry.CreateDriver(opts.Driver, registry.DriverOptions{
			Logger:       deps.Logger,
			Capabilities: opts.Capabilities,
		})
		if err != nil {
			return nil, exitError(ExitUsage, "arguments", err)
		}
		a.driver = d
	}
	if deps.Simulation == nil && !registry.SimulationExists(opts.Simulation) {
		return nil, exitError(ExitUsage, "arguments", fmt.Errorf("unknown simulation %q", opts.Simulation))
	}
	if deps.Guard != nil {
		deps.Guard.OnCrash(a.saveSettings)
	}

	a.applyOverrides()
	return a, nil
}

func (a *App) applyOverrides() {
	s := a.deps.Settings
	w, h := s.WindowSize()
	switch {
	case a.opts.ForceFullscreen:
		s.SetDisplay(true, w, h)
	case a.opts.ForceWindowed:
		s.SetDisplay(false, w, h)
	}
	if a.opts.DisplayScale > 0 {
		s.SetDisplayScale(a.opts.DisplayScale)
	}
	if a.opts.CursorScale > 0 {
		s.SetCursorScale(a.opts.CursorScale)
	}
}

// Driver returns the platform driver.
func (a *App) Driver() platform.Driver {
	return a.driver
}

// Runs returns how many sessions were started.
func (a *App) Runs() int {
	return a.runs
}

// Stop asks the running session to quit and disables restarts. It is safe
// to call from any goroutine.
func (a *App) Stop() {
	a.mu.Lock()
	a.stopping = true
	p := a.poster
	a.mu.Unlock()
	if p != nil {
		p.Quit()
	}
}

func (a *App) stopped() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.stopping
}

func (a *App) setPoster(p *loop.Poster) {
	a.mu.Lock()
	a.poster = p
	stop := a.stopping
	a.mu.Unlock()
	if stop && p != nil {
		p.Quit()
	}
}

// Run executes sessions. On platforms that forbid self-termination a quit
// restarts setup until Stop is called.
func (a *App) Run() error {
	for {
		started := time.Now()
		err := a.runOnce()
		a.recordSession(time.Since(started), err)
		if err != nil {
			return err
		}
		if !a.driver.Capabilities().RestartOnQuit || a.stopped() {
			return nil
		}
		a.logger.Info("restarting after quit")
	}
}

func (a *App) runOnce() error {
	a.runs++
	a.frames = 0
	logger := a.logger

	if err := a.driver.Init(); err != nil {
		logger.Error("could not initialize platform", "driver", a.driver.Name(), "error", err)
		return exitError(ExitPlatformInit, "platform init", err)
	}
	caps := a.driver.Capabilities()
	logger.Info("platform ready", "driver", a.driver.Name(), "video", a.driver.VideoDriver(),
		"displays", a.driver.NumDisplays())

	in := input.NewState()
	files := datadir.NewCache("")
	simulation := a.newSimulation(sim.Env{Logger: logger, Input: in, Files: files})

	dir, err := a.resolveDataDir(simulation, caps)
	if err != nil {
		logger.Error("game data not found", "error", err)
		a.driver.Quit()
		return exitError(ExitDataDir, "data discovery", err)
	}
	a.dataDir = dir
	files.SetRoot(dir)

	settings := a.deps.Settings
	disp := display.New(a.driver, settings, logger)
	disp.OnResolution(in.SetScreenSize)
	if err := disp.Create(Title, settings.DisplayScale(), a.opts.Display); err != nil {
		logger.Error("could not create window", "error", err)
		disp.Destroy()
		a.driver.Quit()
		return exitError(ExitWindow, "window", err)
	}
	disp.InitCursors(settings.CursorScale())
	disp.SetPointer(in)

	if err := simulation.Init(); err != nil {
		logger.Error("could not initialize simulation", "error", err)
		disp.Destroy()
		a.driver.Quit()
		return exitError(ExitSimInit, "simulation init", err)
	}

	l := loop.New(a.driver, disp, simulation, in, logger, loop.Options{
		ShowFPS:   a.opts.ShowFPS,
		MaxFrames: a.opts.MaxFrames,
		Files:     files,
	})
	a.setPoster(l.Poster())
	defer a.setPoster(nil)

	in.SetInsideWindow(true)
	in.SetWindowFocus(true)

	run := func() {
		l.RunAndDraw()
		l.Run()
	}
	if a.deps.Guard != nil {
		a.deps.Guard.Run(run)
	} else {
		run()
	}

	a.frames = l.Frames()
	a.saveSettings()
	return nil
}

func (a *App) newSimulation(env sim.Env) sim.Simulation {
	if a.deps.Simulation != nil {
		return a.deps.Simulation(env)
	}
	s, err := registry.CreateSimulation(a.opts.Simulation, env)
	if err != nil {
		// Checked in New.
		panic(err)
	}
	return s
}

func (a *App) resolveDataDir(simulation sim.Simulation, caps platform.Capabilities) (string, error) {
	r := &datadir.Resolver{
		Validate: simulation.PreInit,
		Messages: a.driver,
		BasePath: a.driver.BasePath(),
		Prompter: a.deps.Prompter,
		Logger:   a.logger,
	}
	if a.deps.Store != nil {
		r.Prefs = a.deps.Store
	}
	if r.Prompter == nil {
		r.Prompter = datadir.DefaultPrompter(caps)
	}

	return r.Resolve(a.opts.DataDir)
}

func (a *App) saveSettings() {
	s := a.deps.Settings
	if !s.Dirty() {
		return
	}
	if err := s.Save(); err != nil {
		a.logger.Warn("could not save settings", "error", err)
		return
	}
	a.logger.Debug("settings saved", "path", s.Path())
}

func (a *App) recordSession(d time.Duration, runErr error) {
	if a.deps.Store == nil {
		return
	}
	code := ExitOK
	var exitErr *ExitError
	if errors.As(runErr, &exitErr) {
		code = exitErr.Code
	}
	_, err := a.deps.Store.SaveSession(storage.Session{
		Driver:     a.driver.Name(),
		Simulation: a.opts.Simulation,
		DataDir:    a.dataDir,
		Frames:     a.frames,
		Duration:   d,
		ExitCode:   code,
	})
	if err != nil {
		a.logger.Warn("could not record session", "error", err)
	}
}
