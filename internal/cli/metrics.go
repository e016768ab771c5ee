package cli

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"
)

var metricsCmd = &cobra.Command{
	Use:   "metrics",
	Short: "Show request metrics and the performance grade",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Metrics == nil {
			return fmt.Errorf("metrics collector not initialized")
		}

		m := Metrics.Metrics()
		summary := Metrics.PerformanceSummary()

		fmt.Printf("Requests:  %d total, %d succeeded, %d failed\n",
			m.TotalRequests, m.SuccessfulRequests, m.FailedRequests)
		fmt.Printf("Average:   %.0f ms\n", summary.AverageResponseTime)
		fmt.Printf("Grade:     %s\n", summary.Grade)

		if len(m.ByTool) == 0 {
			return nil
		}

		tools := make([]string, 0, len(m.ByTool))
		for tool := range m.ByTool {
			tools = append(tools, tool)
		}
		sort.Strings(tools)

		fmt.Println("\nBy tool:")
		for _, tool := range tools {
			t := m.ByTool[tool]
			fmt.Printf("  %-20s %d req, %d failed, avg %.0f ms\n",
				tool, t.Requests, t.Failures, t.AvgResponseTime)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(metricsCmd)
}
