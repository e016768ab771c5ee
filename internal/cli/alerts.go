package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var alertsHistory bool

var alertsCmd = &cobra.Command{
	Use:   "alerts",
	Short: "Show active alerts",
	Long: `Display the alerts whose conditions currently hold: failing health
checks, resource pressure, and degraded performance.

With --history, show the capped log of every trigger event instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Monitor == nil {
			return fmt.Errorf("monitor not initialized")
		}

		if alertsHistory {
			history := Monitor.AlertHistory()
			if len(history) == 0 {
				fmt.Println("No alert history.")
				return nil
			}
			fmt.Printf("%d trigger event(s), oldest first:\n\n", len(history))
			for _, a := range history {
				fmt.Printf("  [%s] %s %s (x%d)\n", strings.ToUpper(string(a.Severity)), a.ID, a.Message, a.Count)
				fmt.Printf("         seen at %s\n\n", a.LastSeen.Format("2006-01-02 15:04 UTC"))
			}
			return nil
		}

		alerts := Monitor.ActiveAlerts()
		if len(alerts) == 0 {
			fmt.Println("No active alerts.")
			return nil
		}

		fmt.Printf("%d active alert(s):\n\n", len(alerts))
		for _, a := range alerts {
			fmt.Printf("  [%s] %s (x%d)\n", strings.ToUpper(string(a.Severity)), a.Message, a.Count)
			fmt.Printf("         first triggered at %s\n\n", a.Timestamp.Format("2006-01-02 15:04 UTC"))
		}

		return nil
	},
}

func init() {
	alertsCmd.Flags().BoolVar(&alertsHistory, "history", false, "show the trigger-event history instead of active alerts")
	rootCmd.AddCommand(alertsCmd)
}
