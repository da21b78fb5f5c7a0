package registry_test

import (
	"strings"
	"testing"

	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/platform/headless"
	"github.com/praetor-game/praetor/internal/registry"
	"github.com/praetor-game/praetor/internal/sim"
)

func TestDriverRegistry(t *testing.T) {
	registry.RegisterDriver("test-driver", "driver used by tests", func(opts registry.DriverOptions) platform.Driver {
		return headless.New(headless.Options{})
	})

	if !registry.DriverExists("test-driver") {
		t.Fatal("registry.DriverExists() = false after registry.RegisterDriver")
	}

	d, err := registry.CreateDriver("test-driver", registry.DriverOptions{})
	if err != nil {
		t.Fatalf("registry.CreateDriver() error = %v", err)
	}
	if d.Name() != "headless" {
		t.Errorf("Name() = %q, expected headless", d.Name())
	}

	found := false
	for _, info := range registry.Drivers() {
		if info.Name == "test-driver" {
			found = true
			if info.Description != "driver used by tests" {
				t.Errorf("Description = %q", info.Description)
			}
		}
	}
	if !found {
		t.Error("registry.Drivers() should include test-driver")
	}
}

func TestUnknownDriver(t *testing.T) {
	_, err := registry.CreateDriver("no-such-driver", registry.DriverOptions{})
	if err == nil {
		t.Fatal("registry.CreateDriver() should fail for unknown names")
	}
	if !strings.Contains(err.Error(), "no-such-driver") {
		t.Errorf("error %q should name the driver", err)
	}
}

func TestDuplicateRegistrationPanics(t *testing.T) {
	registry.RegisterSimulation("dup-sim", "", func(env sim.Env) sim.Simulation { return nil })

	defer func() {
		if recover() == nil {
			t.Error("registering a duplicate name should panic")
		}
	}()
	registry.RegisterSimulation("dup-sim", "", func(env sim.Env) sim.Simulation { return nil })
}

func TestListSorted(t *testing.T) {
	registry.RegisterSimulation("zz-sim", "", func(env sim.Env) sim.Simulation { return nil })
	registry.RegisterSimulation("aa-sim", "", func(env sim.Env) sim.Simulation { return nil })

	list := registry.Simulations()
	for i := 1; i < len(list); i++ {
		if list[i-1].Name > list[i].Name {
			t.Errorf("registry.Simulations() not sorted: %q before %q", list[i-1].Name, list[i].Name)
		}
	}
}
