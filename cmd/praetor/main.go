// praetor is the platform layer of a city-building game client: it opens the
// window, translates input and drives the simulation's frame loop.
//
// Usage:
//
//	praetor [DATA_DIR]        - Run the client, discovering the game data if DATA_DIR is omitted
//	praetor drivers           - List platform drivers, simulations and capability profiles
//	praetor sessions          - Show recent sessions
//	praetor prefs             - Show or clear stored preferences
//
// Global flags:
//
//	--driver <name>   - Platform driver (default: sdl)
//	--config <path>   - Settings file (default: ~/.praetor/settings.yaml)
//	--db <path>       - Preference database (default: ~/.praetor/praetor.db)
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/praetor-game/praetor/internal/app"
	"github.com/praetor-game/praetor/internal/config"
	"github.com/praetor-game/praetor/internal/crash"
	"github.com/praetor-game/praetor/internal/logging"
	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/storage"

	// Import drivers and simulations to register them
	_ "github.com/praetor-game/praetor/internal/platform/headless"
	_ "github.com/praetor-game/praetor/internal/platform/sdl2"
	_ "github.com/praetor-game/praetor/internal/platform/tui"
	_ "github.com/praetor-game/praetor/internal/sim/testcard"
)

var (
	// Global flags
	flagDriver     string
	flagSimulation string
	flagProfile    string
	flagConfig     string
	flagDBPath     string
	flagLogLevel   string
	flagLogFile    string

	// Run flags
	flagWindowed     bool
	flagFullscreen   bool
	flagDisplay      int
	flagDisplayScale float64
	flagCursorScale  float64
	flagShowFPS      bool
	flagFrames       int
)

// The window, renderer and event queue must stay on the main thread.
func init() {
	runtime.LockOSThread()
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		var exitErr *app.ExitError
		if errors.As(err, &exitErr) {
			os.Exit(exitErr.Code)
		}
		os.Exit(app.ExitUsage)
	}
}

var rootCmd = &cobra.Command{
	Use:   "praetor [DATA_DIR]",
	Short: "Praetor - city-building game client",
	Long: `Praetor opens the game window and runs the simulation.

When DATA_DIR is omitted the game data is looked up in the working directory,
next to the executable and in the stored preference, and finally you are
asked to pick the folder.

Available commands:
  drivers   - Show platform drivers, simulations and profiles
  sessions  - Show recent sessions
  prefs     - Show or clear stored preferences

Examples:
  praetor
  praetor ~/games/praetor --windowed --display-scale 1.5
  praetor --driver tui
  praetor --driver headless --frames 120`,
	Args:          cobra.MaximumNArgs(1),
	SilenceUsage:  true,
	SilenceErrors: true,
	RunE:          runClient,
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&flagDriver, "driver", "sdl", "Platform driver (see 'praetor drivers')")
	rootCmd.PersistentFlags().StringVar(&flagSimulation, "sim", "testcard", "Simulation to run")
	rootCmd.PersistentFlags().StringVar(&flagProfile, "profile", "", "Capability profile (default: the host's)")
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Settings file (default: ~/.praetor/settings.yaml)")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "~/.praetor/praetor.db", "Path to preference database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&flagLogFile, "log-file", "", "Write the log to this file")

	rootCmd.Flags().BoolVar(&flagWindowed, "windowed", false, "Run in a window")
	rootCmd.Flags().BoolVar(&flagFullscreen, "fullscreen", false, "Run fullscreen")
	rootCmd.Flags().IntVar(&flagDisplay, "display", 0, "Display index to open the window on")
	rootCmd.Flags().Float64Var(&flagDisplayScale, "display-scale", 0, "Display scale factor, 0.5 to 5")
	rootCmd.Flags().Float64Var(&flagCursorScale, "cursor-scale", 0, "Cursor scale factor: 1, 1.5 or 2")
	rootCmd.Flags().BoolVar(&flagShowFPS, "show-fps", false, "Draw the frame rate overlay")
	rootCmd.Flags().IntVar(&flagFrames, "frames", 0, "Quit after this many frames (0 = run until closed)")

	// Add subcommands
	rootCmd.AddCommand(driversCmd)
	rootCmd.AddCommand(sessionsCmd)
	rootCmd.AddCommand(prefsCmd)
}

func runClient(cmd *cobra.Command, args []string) error {
	opts, err := clientOptions(args)
	if err != nil {
		return &app.ExitError{Code: app.ExitUsage, Stage: "arguments", Err: err}
	}

	crash.Install()

	logger, closer, err := newLogger(opts.Capabilities)
	if err != nil {
		return &app.ExitError{Code: app.ExitUsage, Stage: "arguments", Err: err}
	}
	defer closer.Close()

	settings, err := config.Load(flagConfig, logger)
	if err != nil {
		logger.Warn("using default settings", "error", err)
		settings = config.DefaultSettings()
	}

	// The client still runs without a preference database; discovery just
	// cannot remember the chosen folder.
	store, err := storage.Open(flagDBPath)
	if err != nil {
		logger.Warn("preferences unavailable", "error", err)
		store = nil
	} else {
		defer store.Close()
	}

	guard := crash.NewGuard(logger, func(code int) {
		closer.Close()
		os.Exit(code)
	})

	a, err := app.New(opts, app.Deps{
		Logger:   logger,
		Settings: settings,
		Store:    store,
		Guard:    guard,
	})
	if err != nil {
		return err
	}

	stop := crash.WatchSignals(func(sig os.Signal) {
		logger.Info("received signal, quitting", "signal", sig)
		a.Stop()
	})
	defer stop()

	return a.Run()
}

func clientOptions(args []string) (app.Options, error) {
	opts := app.Options{
		Driver:          flagDriver,
		Simulation:      flagSimulation,
		ForceWindowed:   flagWindowed,
		ForceFullscreen: flagFullscreen,
		Display:         flagDisplay,
		ShowFPS:         flagShowFPS,
		MaxFrames:       flagFrames,
	}
	if len(args) == 1 {
		opts.DataDir = args[0]
	}

	if flagDisplayScale != 0 {
		pct, err := displayScalePercent(flagDisplayScale)
		if err != nil {
			return opts, err
		}
		opts.DisplayScale = pct
	}
	if flagCursorScale != 0 {
		pct, err := cursorScalePercent(flagCursorScale)
		if err != nil {
			return opts, err
		}
		opts.CursorScale = pct
	}
	if flagFrames < 0 {
		return opts, errors.New("--frames must not be negative")
	}

	if flagProfile != "" {
		caps, err := platform.Profile(flagProfile)
		if err != nil {
			return opts, err
		}
		opts.Capabilities = &caps
	}
	return opts, nil
}

func displayScalePercent(factor float64) (int, error) {
	if factor < 0.5 || factor > 5 {
		return 0, fmt.Errorf("--display-scale must be between 0.5 and 5, got %g", factor)
	}
	return int(factor*100 + 0.5), nil
}

func cursorScalePercent(factor float64) (int, error) {
	switch factor {
	case 1, 1.5, 2:
		return int(factor * 100), nil
	}
	return 0, fmt.Errorf("--cursor-scale must be 1, 1.5 or 2, got %g", factor)
}

func newLogger(caps *platform.Capabilities) (*log.Logger, io.Closer, error) {
	opts := logging.Options{Level: flagLogLevel, File: flagLogFile}
	if opts.File == "" {
		host := platform.HostCapabilities()
		if caps != nil {
			host = *caps
		}
		// The terminal driver draws over stderr.
		if host.FileLogging || flagDriver == "tui" {
			opts.File = config.UserConfigPath(logging.FileName)
		}
	}
	return logging.New(opts)
}
