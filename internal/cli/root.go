// Package cli implements the courtlistener-mcp command-line interface.
package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/blakeox/courtlistener-mcp-sub006/internal/courtlistener"
	"github.com/blakeox/courtlistener-mcp-sub006/internal/metrics"
	"github.com/blakeox/courtlistener-mcp-sub006/internal/monitoring"
)

// Service dependencies wired by internal.NewApp before Execute runs.
var (
	Client   courtlistener.Client
	Metrics  *metrics.Collector
	Monitor  *monitoring.Monitor
	EventLog monitoring.EventLog
)

var (
	appVersion = "dev"
	appCommit  = "none"
	appDate    = "unknown"
)

// SetVersionInfo sets the version information injected via ldflags.
func SetVersionInfo(version, commit, date string) {
	appVersion = version
	appCommit = commit
	appDate = date
}

var rootCmd = &cobra.Command{
	Use:   "courtlistener-mcp",
	Short: "CourtListener MCP server with built-in monitoring",
	Long: `courtlistener-mcp is an MCP (Model Context Protocol) server exposing the
CourtListener legal-data API to AI assistants: opinion search, opinion and
docket lookups.

The server carries its own monitoring pipeline: per-operation traces,
resource sampling, periodic health checks, and threshold-based alerts,
inspectable over MCP tools or the CLI commands below.`,
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("courtlistener-mcp %s\ncommit: %s\nbuilt:  %s\n", appVersion, appCommit, appDate)
	},
}

func init() {
	rootCmd.AddCommand(versionCmd)
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
