// Package sim defines the contract between the platform layer and the game
// simulation it hosts.
package sim

import (
	"time"

	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/core"
	"github.com/praetor-game/praetor/internal/input"
)

// Simulation is the game hosted by the event loop.
type Simulation interface {
	// PreInit validates dataDir and loads what is needed before a window exists.
	PreInit(dataDir string) error
	// Init runs after the display surface is created.
	Init() error
	// Tick advances the simulation to now, measured since startup.
	Tick(now time.Duration)
	// Draw renders the current state into fb. The buffer size may change
	// between calls.
	Draw(fb *core.Framebuffer)
	// Exit is called once when the loop terminates.
	Exit()
}

// FileLister lists files of the game data directory.
type FileLister interface {
	List(dir string) ([]string, error)
}

// Env carries the platform services a simulation may use.
type Env struct {
	Logger *log.Logger
	Input  *input.State
	Files  FileLister
}
