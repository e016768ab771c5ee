package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"

	"github.com/spf13/cobra"

	clmcp "github.com/blakeox/courtlistener-mcp-sub006/internal/mcp"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the MCP server on stdio",
	Long: `Start the courtlistener-mcp MCP server on stdio transport.

The server exposes CourtListener lookups as MCP tools (search_opinions,
get_opinion, get_docket) plus monitoring views (get_monitoring_report,
get_monitor_stats). The monitoring pipeline runs for the lifetime of the
server and stops cleanly on shutdown.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if Client == nil || Monitor == nil {
			return fmt.Errorf("services not initialized")
		}

		if err := Monitor.Start(); err != nil {
			return fmt.Errorf("starting monitor: %w", err)
		}
		defer Monitor.Stop()

		srv := clmcp.NewServer(Client, Metrics, Monitor, appVersion)

		ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
		defer stop()

		if err := srv.Run(ctx); err != nil {
			return fmt.Errorf("running MCP server: %w", err)
		}

		return nil
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}
