package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/blakeox/courtlistener-mcp-sub006/internal/monitoring"
)

var (
	eventsSince string
	eventsLevel string
	eventsType  string
)

var eventsCmd = &cobra.Command{
	Use:   "events",
	Short: "Show monitoring events from the event log",
	Long: `Read the JSONL monitoring event log and display matching events:
monitor lifecycle, cycle errors, alert triggers and clears.

The --since flag accepts durations like 24h or 7d.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		if EventLog == nil {
			return fmt.Errorf("event log not configured (set monitoring.event_log_path)")
		}

		filter := monitoring.EventFilter{
			Type:  eventsType,
			Level: strings.ToUpper(eventsLevel),
		}
		if eventsSince != "" {
			since, err := parseSince(eventsSince)
			if err != nil {
				return fmt.Errorf("parsing --since: %w", err)
			}
			filter.Since = &since
		}

		events, err := EventLog.Read(filter)
		if err != nil {
			return fmt.Errorf("reading events: %w", err)
		}

		if len(events) == 0 {
			fmt.Println("No matching events.")
			return nil
		}

		for _, e := range events {
			fmt.Printf("%s  %-5s %-18s %s\n",
				e.Time.Format(time.RFC3339), e.Level, e.Type, e.Message)
		}

		return nil
	},
}

// parseSince parses a human-friendly duration string like "7d" or "24h" into
// the corresponding time in the past.
func parseSince(s string) (time.Time, error) {
	now := time.Now().UTC()

	if len(s) < 2 {
		return time.Time{}, fmt.Errorf("invalid duration %q", s)
	}

	suffix := s[len(s)-1]
	numStr := s[:len(s)-1]
	var num int
	if _, err := fmt.Sscanf(numStr, "%d", &num); err != nil {
		return time.Time{}, fmt.Errorf("invalid duration %q: %w", s, err)
	}

	switch suffix {
	case 'd':
		return now.AddDate(0, 0, -num), nil
	case 'h':
		return now.Add(-time.Duration(num) * time.Hour), nil
	case 'm':
		return now.Add(-time.Duration(num) * time.Minute), nil
	default:
		return time.Time{}, fmt.Errorf("unsupported duration suffix %q (use d, h, or m)", string(suffix))
	}
}

func init() {
	eventsCmd.Flags().StringVar(&eventsSince, "since", "", "only events newer than this (e.g. 24h, 7d)")
	eventsCmd.Flags().StringVar(&eventsLevel, "level", "", "filter by level (info, warn, error)")
	eventsCmd.Flags().StringVar(&eventsType, "type", "", "filter by event type (e.g. alert.triggered)")
	rootCmd.AddCommand(eventsCmd)
}
