package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/praetor-game/praetor/internal/storage"
)

var flagClearPrefs bool

var prefsCmd = &cobra.Command{
	Use:   "prefs",
	Short: "Show or clear stored preferences",
	Long: `Display the stored preferences, such as the remembered game data folder.

Examples:
  praetor prefs
  praetor prefs --clear`,
	Args: cobra.NoArgs,
	Run:  runPrefs,
}

func init() {
	prefsCmd.Flags().BoolVar(&flagClearPrefs, "clear", false, "Delete all stored preferences")
}

func runPrefs(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening preference database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	if flagClearPrefs {
		if err := store.ClearPrefs(); err != nil {
			fmt.Fprintf(os.Stderr, "Error clearing preferences: %v\n", err)
			os.Exit(1)
		}
		fmt.Println("Preferences cleared.")
		return
	}

	prefs, err := store.Prefs()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving preferences: %v\n", err)
		os.Exit(1)
	}

	if len(prefs) == 0 {
		fmt.Println("No preferences stored.")
		return
	}

	keys := make([]string, 0, len(prefs))
	maxKeyLen := len("Key")
	for k := range prefs {
		keys = append(keys, k)
		maxKeyLen = max(maxKeyLen, len(k))
	}
	sort.Strings(keys)

	fmt.Printf("  %-*s  %s\n", maxKeyLen, "Key", "Value")
	fmt.Printf("  %-*s  %s\n", maxKeyLen, "---", "-----")
	for _, k := range keys {
		fmt.Printf("  %-*s  %s\n", maxKeyLen, k, prefs[k])
	}
}
