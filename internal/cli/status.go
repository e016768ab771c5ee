package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

var statusOutput string

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show a monitoring report snapshot",
	Long: `Assemble and print a point-in-time monitoring report: health checks,
request metrics, resource usage, trace analysis, and active alerts.

Output formats: text (default), json, yaml.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Monitor == nil {
			return fmt.Errorf("monitor not initialized")
		}

		report := Monitor.Report()

		switch statusOutput {
		case "json":
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(report)
		case "yaml":
			enc := yaml.NewEncoder(os.Stdout)
			defer enc.Close()
			return enc.Encode(report)
		case "text":
			// Handled below.
		default:
			return fmt.Errorf("unsupported output format %q (use text, json, or yaml)", statusOutput)
		}

		fmt.Printf("Health: %s\n", report.Health.Status)
		for name, check := range report.Health.Checks {
			fmt.Printf("  %-12s [%s] %s\n", name, strings.ToUpper(string(check.Status)), check.Message)
		}

		fmt.Printf("\nRequests: %d total, %.1f%% success, avg %.0f ms, grade %s\n",
			report.Performance.TotalRequests,
			report.Performance.SuccessRate*100,
			report.Performance.AverageResponseTime,
			report.Performance.Grade,
		)

		fmt.Printf("Memory:   %.1f%% of heap (%d / %d bytes)\n",
			report.Resources.Memory.UsagePercent*100,
			report.Resources.Memory.Used,
			report.Resources.Memory.Total,
		)

		fmt.Printf("Traces:   %d buffered, %.1f%% errors\n",
			report.Traces.TotalTraces,
			report.Traces.ErrorRate*100,
		)

		if len(report.ActiveAlerts) == 0 {
			fmt.Println("\nNo active alerts.")
			return nil
		}

		fmt.Printf("\n%d active alert(s):\n", len(report.ActiveAlerts))
		for _, a := range report.ActiveAlerts {
			fmt.Printf("  [%s] %s (x%d)\n", strings.ToUpper(string(a.Severity)), a.Message, a.Count)
		}

		return nil
	},
}

func init() {
	statusCmd.Flags().StringVarP(&statusOutput, "output", "o", "text", "output format: text, json, or yaml")
	rootCmd.AddCommand(statusCmd)
}
