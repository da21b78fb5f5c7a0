package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/praetor-game/praetor/internal/platform"
	"github.com/praetor-game/praetor/internal/registry"
)

var driversCmd = &cobra.Command{
	Use:   "drivers",
	Short: "List platform drivers, simulations and capability profiles",
	Long:  `Shows the registered platform drivers and simulations, and the capability profiles accepted by --profile.`,
	Args:  cobra.NoArgs,
	Run:   runDrivers,
}

func runDrivers(cmd *cobra.Command, args []string) {
	fmt.Println("Platform drivers:")
	fmt.Println()
	printInfoTable(registry.Drivers())

	fmt.Println("Simulations:")
	fmt.Println()
	printInfoTable(registry.Simulations())

	fmt.Println("Capability profiles:")
	fmt.Println()
	names := platform.Profiles()
	maxNameLen := len("Profile")
	for _, name := range names {
		maxNameLen = max(maxNameLen, len(name))
	}
	fmt.Printf("  %-*s  %s\n", maxNameLen, "Profile", "Capabilities")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "-------", "------------")
	for _, name := range names {
		caps, _ := platform.Profile(name)
		fmt.Printf("  %-*s  %s\n", maxNameLen, name, describeCapabilities(caps))
	}

	fmt.Println()
	fmt.Println("Run 'praetor --driver <name>' to use a driver.")
}

func printInfoTable(infos []registry.Info) {
	if len(infos) == 0 {
		fmt.Println("  (none registered)")
		fmt.Println()
		return
	}

	// Calculate column widths
	maxNameLen := len("Name")
	for _, info := range infos {
		maxNameLen = max(maxNameLen, len(info.Name))
	}

	fmt.Printf("  %-*s  %s\n", maxNameLen, "Name", "Description")
	fmt.Printf("  %-*s  %s\n", maxNameLen, "----", "-----------")
	for _, info := range infos {
		fmt.Printf("  %-*s  %s\n", maxNameLen, info.Name, info.Description)
	}
	fmt.Println()
}

func describeCapabilities(caps platform.Capabilities) string {
	flags := []struct {
		on   bool
		name string
	}{
		{caps.FixedResolution, "fixed-resolution"},
		{caps.InteractiveScaling, "scaling"},
		{caps.VariableOrientation, "orientation"},
		{caps.SoftwareCursor, "software-cursor"},
		{caps.PreferLinearScaling, "linear"},
		{caps.RecoverLostTexture, "texture-recovery"},
		{caps.FileLogging, "file-log"},
		{caps.RestartOnQuit, "restart-on-quit"},
		{caps.Dialogs, "dialogs"},
	}

	var names []string
	for _, f := range flags {
		if f.on {
			names = append(names, f.name)
		}
	}
	if len(names) == 0 {
		return "-"
	}
	return strings.Join(names, ", ")
}
