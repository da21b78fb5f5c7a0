package main

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/charmbracelet/bubbles/table"
	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"github.com/praetor-game/praetor/internal/storage"
)

var flagSessionLimit int

var sessionsCmd = &cobra.Command{
	Use:   "sessions",
	Short: "Show recent sessions",
	Long: `Display the most recent client sessions with their driver, frame count,
duration and exit code.

Examples:
  praetor sessions
  praetor sessions --limit 50`,
	Args: cobra.NoArgs,
	Run:  runSessions,
}

func init() {
	sessionsCmd.Flags().IntVarP(&flagSessionLimit, "limit", "n", 10, "Number of sessions to show")
}

func runSessions(cmd *cobra.Command, args []string) {
	store, err := storage.Open(flagDBPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening preference database: %v\n", err)
		os.Exit(1)
	}
	defer store.Close()

	sessions, err := store.RecentSessions(flagSessionLimit)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving sessions: %v\n", err)
		os.Exit(1)
	}

	fmt.Println("Recent sessions")
	fmt.Println()

	if len(sessions) == 0 {
		fmt.Println("No sessions recorded yet.")
		fmt.Println()
		fmt.Println("Run 'praetor' to start the client.")
		return
	}

	fmt.Println(sessionTable(sessions).View())
	fmt.Println()

	stats, err := store.Stats()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error retrieving stats: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Sessions: %d (%d failed)  Frames: %d  Time played: %s\n",
		stats.Count, stats.Failures, stats.TotalFrames, stats.TotalTime.Round(time.Second))
	if !stats.LastRun.IsZero() {
		fmt.Printf("Last run: %s\n", stats.LastRun.Local().Format("2006-01-02 15:04"))
	}
}

// sessionTable renders the sessions with the bubbles table, unfocused so no
// row is highlighted.
func sessionTable(sessions []storage.Session) table.Model {
	columns := []table.Column{
		{Title: "#", Width: 5},
		{Title: "Date", Width: 16},
		{Title: "Driver", Width: 9},
		{Title: "Simulation", Width: 10},
		{Title: "Frames", Width: 8},
		{Title: "Time", Width: 9},
		{Title: "Exit", Width: 4},
	}

	rows := make([]table.Row, 0, len(sessions))
	for _, s := range sessions {
		rows = append(rows, table.Row{
			strconv.FormatInt(s.ID, 10),
			s.CreatedAt.Local().Format("2006-01-02 15:04"),
			s.Driver,
			s.Simulation,
			strconv.Itoa(s.Frames),
			s.Duration.Round(100 * time.Millisecond).String(),
			strconv.Itoa(s.ExitCode),
		})
	}

	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(true)
	styles.Selected = styles.Cell

	return table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithHeight(len(rows)+1),
		table.WithFocused(false),
		table.WithStyles(styles),
	)
}
