// Package registry provides global registries for platform drivers and
// simulations. Both register themselves in init() functions, so the CLI can
// discover and instantiate them without hardcoded dependencies.
package registry

import (
	"fmt"
	"sort"
	"sync"

	"github.com/charmbracelet/log"

	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/sim"
)

// Info describes a registered driver or simulation.
type Info struct {
	Name        string
	Description string
}

// DriverOptions is passed to driver factories.
type DriverOptions struct {
	Logger *log.Logger
	// Capabilities overrides the driver's own capability detection when set.
	Capabilities *platform.Capabilities
}

// DriverFactory creates a new, uninitialized driver.
type DriverFactory func(opts DriverOptions) platform.Driver

// SimFactory creates a new simulation bound to env.
type SimFactory func(env sim.Env) sim.Simulation

type entry[F any] struct {
	factory     F
	description string
}

type table[F any] struct {
	kind    string
	mu      sync.RWMutex
	entries map[string]entry[F]
}

func newTable[F any](kind string) *table[F] {
	return &table[F]{kind: kind, entries: make(map[string]entry[F])}
}

func (t *table[F]) register(name, description string, f F) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if _, exists := t.entries[name]; exists {
		panic(fmt.Sprintf("registry: %s %q already registered", t.kind, name))
	}
	t.entries[name] = entry[F]{factory: f, description: description}
}

func (t *table[F]) list() []Info {
	t.mu.RLock()
	defer t.mu.RUnlock()

	result := make([]Info, 0, len(t.entries))
	for name, e := range t.entries {
		result = append(result, Info{Name: name, Description: e.description})
	}

	sort.Slice(result, func(i, j int) bool {
		return result[i].Name < result[j].Name
	})

	return result
}

func (t *table[F]) lookup(name string) (F, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()

	e, ok := t.entries[name]
	if !ok {
		var zero F
		return zero, fmt.Errorf("registry: unknown %s %q", t.kind, name)
	}
	return e.factory, nil
}

func (t *table[F]) exists(name string) bool {
	t.mu.RLock()
	defer t.mu.RUnlock()

	_, ok := t.entries[name]
	return ok
}

var (
	drivers     = newTable[DriverFactory]("driver")
	simulations = newTable[SimFactory]("simulation")
)

// RegisterDriver adds a driver factory. Panics on duplicate names.
func RegisterDriver(name, description string, f DriverFactory) {
	drivers.register(name, description, f)
}

// Drivers lists the registered drivers sorted by name.
func Drivers() []Info {
	return drivers.list()
}

// CreateDriver instantiates a driver by name.
func CreateDriver(name string, opts DriverOptions) (platform.Driver, error) {
	f, err := drivers.lookup(name)
	if err != nil {
		return nil, err
	}
	if opts.Logger == nil {
		opts.Logger = log.Default()
	}
	return f(opts), nil
}

// DriverExists checks if a driver with the given name is registered.
func DriverExists(name string) bool {
	return drivers.exists(name)
}

// RegisterSimulation adds a simulation factory. Panics on duplicate names.
func RegisterSimulation(name, description string, f SimFactory) {
	simulations.register(name, description, f)
}

// Simulations lists the registered simulations sorted by name.
func Simulations() []Info {
	return simulations.list()
}

// CreateSimulation instantiates a simulation by name.
func CreateSimulation(name string, env sim.Env) (sim.Simulation, error) {
	f, err := simulations.lookup(name)
	if err != nil {
		return nil, err
	}
	return f(env), nil
}

// SimulationExists checks if a simulation with the given name is registered.
func SimulationExists(name string) bool {
	return simulations.exists(name)
}
