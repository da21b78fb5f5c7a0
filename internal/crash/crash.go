// Package crash turns fatal faults into a logged stack trace and a non-zero
// exit, and turns termination signals into an orderly quit request.
package crash

import (
	"fmt"
	"os"
	"os/signal"
	"runtime/debug"
	"sync"
	"syscall"

	"github.com/charmbracelet/log"
)

// ExitCode is used when the process terminates because of a crash.
const ExitCode = 3

// Guard recovers panics on the goroutine that runs the main loop.
type Guard struct {
	logger *log.Logger
	exit   func(code int)

	mu    sync.Mutex
	hooks []func()
}

// NewGuard creates a crash guard. exit defaults to os.Exit.
func NewGuard(logger *log.Logger, exit func(code int)) *Guard {
	if exit == nil {
		exit = os.Exit
	}
	return &Guard{logger: logger, exit: exit}
}

// Install makes runtime-fatal errors print every goroutine.
func Install() {
	debug.SetTraceback("all")
}

// OnCrash registers a hook run before the process exits, in registration
// order. Hooks flush logs and settings; they must not panic.
func (g *Guard) OnCrash(fn func()) {
	g.mu.Lock()
	g.hooks = append(g.hooks, fn)
	g.mu.Unlock()
}

// Run calls fn and handles any panic it raises.
func (g *Guard) Run(fn func()) {
	defer g.Recover()
	fn()
}

// Recover must be deferred directly.
func (g *Guard) Recover() {
	if r := recover(); r != nil {
		g.crashed(r, debug.Stack())
	}
}

func (g *Guard) crashed(reason any, stack []byte) {
	g.logger.Error("crashed", "reason", fmt.Sprint(reason))
	g.logger.Error("stack trace\n" + string(stack))

	g.mu.Lock()
	hooks := append([]func(){}, g.hooks...)
	g.mu.Unlock()
	for _, fn := range hooks {
		fn()
	}

	g.exit(ExitCode)
}

// WatchSignals calls onSignal for SIGINT and SIGTERM until stop is called.
func WatchSignals(onSignal func(os.Signal)) (stop func()) {
	ch := make(chan os.Signal, 1)
	done := make(chan struct{})
	signal.Notify(ch, os.Interrupt, syscall.SIGTERM)

	go func() {
		for {
			select {
			case sig := <-ch:
				onSignal(sig)
			case <-done:
				return
			}
		}
	}()

	var once sync.Once
	return func() {
		once.Do(func() {
			signal.Stop(ch)
			close(done)
		})
	}
}
