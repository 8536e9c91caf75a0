package cmd

import (
	"fmt"

	"github.com/jorisw/sa/internal/client"
	"github.com/jorisw/sa/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newExportCmd())
}

func newExportCmd() *cobra.Command {
	exportCmd := &cobra.Command{
		Use:   "export",
		Short: "Export raw datapoints from Simple Analytics",
		Long: `Export raw pageview or event datapoints. Export always requires an
API key and user ID.`,
	}

	exportCmd.AddCommand(newExportDatapointsCmd())
	return exportCmd
}

func newExportDatapointsCmd() *cobra.Command {
	var (
		from     string
		to       string
		format   string
		dataType string
		fields   string
		robots   bool
	)

	cmd := &cobra.Command{
		Use:   "datapoints <hostname>",
		Short: "Export raw datapoints as JSONL or CSV",
		Long: `Export raw datapoints. JSON results are streamed one record per line
(JSONL) by default, which is ideal for piping to other tools; use --json to
collect everything into a JSON array instead. CSV output is printed verbatim
as returned by the API.

Both --from and --to accept a date (2024-01-01) or an hour (2024-01-01T14).`,
		Args: cobra.ExactArgs(1),
		Example: `  # Export January 2024 pageviews as JSONL
  sa export datapoints example.com --from 2024-01-01 --to 2024-01-31

  # Export selected columns as CSV
  sa export datapoints example.com --from 2024-01-01 --to 2024-01-07 \
    --format csv --fields added_iso,path,country_code

  # Export events for a single hour
  sa export datapoints example.com --type events \
    --from 2024-01-01T14 --to 2024-01-01T15

  # Collect into a JSON array and filter with jq
  sa export datapoints example.com --from 2024-01-01 --to 2024-01-31 \
    --json --jq '.[].path'`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runExportDatapoints(cmd, args[0], from, to, format, dataType, fields, robots)
		},
	}

	cmd.Flags().StringVar(&from, "from", "", "Start date or hour (required)")
	cmd.Flags().StringVar(&to, "to", "", "End date or hour (required)")
	cmd.Flags().StringVar(&format, "format", "json", "Output format: json or csv")
	cmd.Flags().StringVar(&dataType, "type", "pageviews", "Datapoint type: pageviews or events")
	cmd.Flags().StringVar(&fields, "fields", "", "Comma-separated columns (added_iso, path, country_code, ...)")
	cmd.Flags().BoolVar(&robots, "robots", false, "Include bot traffic")

	_ = cmd.MarkFlagRequired("from")
	_ = cmd.MarkFlagRequired("to")

	return cmd
}

func runExportDatapoints(cmd *cobra.Command, hostname, from, to, format, dataType, fields string, robots bool) error {
	if format != client.FormatJSON && format != client.FormatCSV {
		return fmt.Errorf("--format must be json or csv")
	}
	if dataType != client.DataTypePageviews && dataType != client.DataTypeEvents {
		return fmt.Errorf("--type must be pageviews or events")
	}

	opts := []client.ExportOption{
		client.WithFormat(format),
		client.WithDataType(dataType),
	}
	if fieldList := splitCSV(fields); len(fieldList) > 0 {
		opts = append(opts, client.WithExportFields(fieldList...))
	}
	if tz := configuredTimezone(); tz != "" {
		opts = append(opts, client.WithExportTimezone(tz))
	}
	if robots {
		opts = append(opts, client.WithRobots())
	}

	c := newClient()
	defer c.Close()

	s := getIO()

	if format == client.FormatCSV {
		csv, err := c.Export.ToCSV(hostname, from, to, opts...)
		if err != nil {
			return fmt.Errorf("exporting datapoints: %w", err)
		}
		fmt.Fprint(s.Out, csv)
		return nil
	}

	result, err := c.Export.Datapoints(hostname, from, to, opts...)
	if err != nil {
		return fmt.Errorf("exporting datapoints: %w", err)
	}

	// --json collects everything into one array for jq/template filtering.
	handled, err := handleJSONOutput(cmd, result)
	if err != nil || handled {
		return err
	}

	records, ok := result.([]any)
	if !ok {
		return output.PrintJSON(s.Out, result)
	}

	// Default: stream one record per line.
	jw := output.NewJSONLWriter(s.Out)
	for _, record := range records {
		if err := jw.Write(record); err != nil {
			return fmt.Errorf("writing JSONL output: %w", err)
		}
	}
	return nil
}
