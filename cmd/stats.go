package cmd

import (
	"fmt"

	"github.com/jorisw/sa/internal/client"
	"github.com/jorisw/sa/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newStatsCmd())
}

func newStatsCmd() *cobra.Command {
	statsCmd := &cobra.Command{
		Use:   "stats",
		Short: "Query aggregated website statistics",
		Long: `Query aggregated statistics from the Simple Analytics Stats API.

Public websites can be queried without credentials; private websites
resolve when an API key and user ID are configured.`,
	}

	statsCmd.AddCommand(newStatsGetCmd())
	statsCmd.AddCommand(newStatsEventsCmd())
	statsCmd.AddCommand(newStatsHistogramCmd())
	return statsCmd
}

func newStatsGetCmd() *cobra.Command {
	var (
		path     string
		from     string
		to       string
		fields   string
		limit    int
		noInfo   bool
		interval string
		events   string
		filters  []string
	)

	cmd := &cobra.Command{
		Use:   "get <hostname>",
		Short: "Get aggregated statistics for a website",
		Args:  cobra.ExactArgs(1),
		Example: `  # Overall stats for the default period
  sa stats get example.com

  # Specific fields for January 2024
  sa stats get example.com --from 2024-01-01 --to 2024-01-31 \
    --fields pageviews,visitors,pages,referrers --limit 50

  # Stats for a single page
  sa stats get example.com --path /pricing

  # Filtered by country, as JSON piped through jq
  sa stats get example.com --filter country=US --json --jq '.pageviews'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsGet(cmd, args[0], path, from, to, fields, limit, noInfo, interval, events, filters)
		},
	}

	cmd.Flags().StringVar(&path, "path", "", "Limit stats to a single page path (e.g., /about)")
	cmd.Flags().StringVar(&from, "from", "", "Start date yyyy-mm-dd (default: 1 month ago)")
	cmd.Flags().StringVar(&to, "to", "", "End date yyyy-mm-dd (default: today)")
	cmd.Flags().StringVar(&fields, "fields", "", "Comma-separated fields (pageviews, visitors, histogram, pages, countries, referrers, ...)")
	cmd.Flags().IntVar(&limit, "limit", 0, "Maximum results per breakdown list (1-1000)")
	cmd.Flags().BoolVar(&noInfo, "no-info", false, "Omit field metadata from the response")
	cmd.Flags().StringVar(&interval, "interval", "", "Histogram granularity: hour, day, week, month, year")
	cmd.Flags().StringVar(&events, "events", "", "Comma-separated event names, or * for all")
	cmd.Flags().StringArrayVar(&filters, "filter", nil, "Filter as key=value (repeatable, e.g., --filter country=US)")

	return cmd
}

func runStatsGet(cmd *cobra.Command, hostname, path, from, to, fields string, limit int, noInfo bool, interval, events string, filterPairs []string) error {
	if limit < 0 || limit > 1000 {
		return fmt.Errorf("--limit must be between 0 and 1000")
	}

	filters, err := parseFilters(filterPairs)
	if err != nil {
		return err
	}

	var opts []client.StatsOption
	if path != "" {
		opts = append(opts, client.WithPath(path))
	}
	if from != "" || to != "" {
		opts = append(opts, client.WithDateRange(from, to))
	}
	if tz := configuredTimezone(); tz != "" {
		opts = append(opts, client.WithTimezone(tz))
	}
	if fieldList := splitCSV(fields); len(fieldList) > 0 {
		opts = append(opts, client.WithFields(fieldList...))
	}
	if limit > 0 {
		opts = append(opts, client.WithLimit(limit))
	}
	if noInfo {
		opts = append(opts, client.WithoutInfo())
	}
	if interval != "" {
		opts = append(opts, client.WithInterval(interval))
	}
	if eventList := splitCSV(events); len(eventList) > 0 {
		opts = append(opts, client.WithEvents(eventList...))
	}
	if len(filters) > 0 {
		opts = append(opts, client.WithFilters(filters))
	}

	c := newClient()
	defer c.Close()

	result, err := c.Stats.Get(hostname, opts...)
	if err != nil {
		return fmt.Errorf("fetching stats for %s: %w", hostname, err)
	}

	handled, err := handleJSONOutput(cmd, result)
	if err != nil || handled {
		return err
	}

	renderStatsResult(result)
	return nil
}

// breakdownSections lists the response fields rendered as value tables,
// in display order.
var breakdownSections = []struct {
	key   string
	title string
}{
	{"pages", "Pages"},
	{"countries", "Countries"},
	{"referrers", "Referrers"},
	{"utm_sources", "UTM sources"},
	{"utm_mediums", "UTM mediums"},
	{"utm_campaigns", "UTM campaigns"},
	{"browser_names", "Browsers"},
	{"os_names", "Operating systems"},
	{"device_types", "Device types"},
}

// renderStatsResult prints top-level counters, the histogram, and any
// breakdown lists present in the response.
func renderStatsResult(result map[string]any) {
	s := getIO()

	if v, ok := result["pageviews"]; ok {
		s.Printf("%s %s\n", s.Bold("Pageviews:"), formatValue(v))
	}
	if v, ok := result["visitors"]; ok {
		s.Printf("%s  %s\n", s.Bold("Visitors:"), formatValue(v))
	}

	if rows := histogramRows(result); len(rows) > 0 {
		s.Printf("\n%s\n", s.Bold("Histogram"))
		output.PrintTable(s.Out, []string{"DATE", "PAGEVIEWS", "VISITORS"}, rows, s.IsTerminal())
	}

	for _, section := range breakdownSections {
		items, ok := result[section.key].([]any)
		if !ok || len(items) == 0 {
			continue
		}

		rows := make([][]string, 0, len(items))
		for _, item := range items {
			entry, ok := item.(map[string]any)
			if !ok {
				continue
			}
			rows = append(rows, []string{
				formatValue(entry["value"]),
				formatValue(entry["pageviews"]),
				formatValue(entry["visitors"]),
			})
		}

		s.Printf("\n%s\n", s.Bold(section.title))
		output.PrintTable(s.Out, []string{"VALUE", "PAGEVIEWS", "VISITORS"}, rows, s.IsTerminal())
	}

	if rows := eventRows(result); len(rows) > 0 {
		s.Printf("\n%s\n", s.Bold("Events"))
		output.PrintTable(s.Out, []string{"NAME", "TOTAL", "VISITORS"}, rows, s.IsTerminal())
	}
}

// histogramRows extracts date/pageviews/visitors rows from a response.
func histogramRows(result map[string]any) [][]string {
	items, ok := result["histogram"].([]any)
	if !ok {
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rows = append(rows, []string{
			formatValue(entry["date"]),
			formatValue(entry["pageviews"]),
			formatValue(entry["visitors"]),
		})
	}
	return rows
}

// eventRows extracts name/total/visitors rows from a response.
func eventRows(result map[string]any) [][]string {
	items, ok := result["events"].([]any)
	if !ok {
		return nil
	}
	rows := make([][]string, 0, len(items))
	for _, item := range items {
		entry, ok := item.(map[string]any)
		if !ok {
			continue
		}
		rows = append(rows, []string{
			formatValue(entry["name"]),
			formatValue(entry["total"]),
			formatValue(entry["visitors"]),
		})
	}
	return rows
}

func newStatsEventsCmd() *cobra.Command {
	var (
		events string
		from   string
		to     string
	)

	cmd := &cobra.Command{
		Use:   "events <hostname>",
		Short: "Get event statistics for a website",
		Args:  cobra.ExactArgs(1),
		Example: `  # All events
  sa stats events example.com

  # Specific events for January 2024
  sa stats events example.com --events signup,purchase \
    --from 2024-01-01 --to 2024-01-31`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsEvents(cmd, args[0], events, from, to)
		},
	}

	cmd.Flags().StringVar(&events, "events", "", "Comma-separated event names (default: all)")
	cmd.Flags().StringVar(&from, "from", "", "Start date yyyy-mm-dd")
	cmd.Flags().StringVar(&to, "to", "", "End date yyyy-mm-dd")

	return cmd
}

func runStatsEvents(cmd *cobra.Command, hostname, events, from, to string) error {
	var opts []client.StatsOption
	if eventList := splitCSV(events); len(eventList) > 0 {
		opts = append(opts, client.WithEvents(eventList...))
	}
	if from != "" || to != "" {
		opts = append(opts, client.WithDateRange(from, to))
	}
	if tz := configuredTimezone(); tz != "" {
		opts = append(opts, client.WithTimezone(tz))
	}

	c := newClient()
	defer c.Close()

	result, err := c.Stats.GetEvents(hostname, opts...)
	if err != nil {
		return fmt.Errorf("fetching events for %s: %w", hostname, err)
	}

	handled, err := handleJSONOutput(cmd, result)
	if err != nil || handled {
		return err
	}

	s := getIO()
	rows := eventRows(result)
	if len(rows) == 0 {
		s.Printf("No events recorded.\n")
		return nil
	}
	output.PrintTable(s.Out, []string{"NAME", "TOTAL", "VISITORS"}, rows, s.IsTerminal())
	return nil
}

func newStatsHistogramCmd() *cobra.Command {
	var (
		interval string
		from     string
		to       string
		asCSV    bool
	)

	cmd := &cobra.Command{
		Use:   "histogram <hostname>",
		Short: "Get time-series pageview and visitor counts",
		Args:  cobra.ExactArgs(1),
		Example: `  # Daily counts for the default period
  sa stats histogram example.com

  # Weekly counts for Q1, as CSV
  sa stats histogram example.com --interval week \
    --from 2024-01-01 --to 2024-03-31 --csv`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runStatsHistogram(cmd, args[0], interval, from, to, asCSV)
		},
	}

	cmd.Flags().StringVar(&interval, "interval", "day", "Granularity: hour, day, week, month, year")
	cmd.Flags().StringVar(&from, "from", "", "Start date yyyy-mm-dd")
	cmd.Flags().StringVar(&to, "to", "", "End date yyyy-mm-dd")
	cmd.Flags().BoolVar(&asCSV, "csv", false, "Output as CSV instead of a table")

	return cmd
}

func runStatsHistogram(cmd *cobra.Command, hostname, interval, from, to string, asCSV bool) error {
	opts := []client.StatsOption{client.WithInterval(interval)}
	if from != "" || to != "" {
		opts = append(opts, client.WithDateRange(from, to))
	}
	if tz := configuredTimezone(); tz != "" {
		opts = append(opts, client.WithTimezone(tz))
	}

	c := newClient()
	defer c.Close()

	result, err := c.Stats.GetHistogram(hostname, opts...)
	if err != nil {
		return fmt.Errorf("fetching histogram for %s: %w", hostname, err)
	}

	handled, err := handleJSONOutput(cmd, result)
	if err != nil || handled {
		return err
	}

	s := getIO()
	rows := histogramRows(result)
	if len(rows) == 0 {
		s.Printf("No data returned.\n")
		return nil
	}

	headers := []string{"DATE", "PAGEVIEWS", "VISITORS"}
	if asCSV {
		return output.PrintCSV(s.Out, []string{"date", "pageviews", "visitors"}, rows)
	}
	output.PrintTable(s.Out, headers, rows, s.IsTerminal())
	return nil
}
