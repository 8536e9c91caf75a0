package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jorisw/sa/internal/client"
	"github.com/jorisw/sa/internal/output"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

// newClient creates a Simple Analytics API client from the current
// configuration state (viper config + env vars + flags). Credentials may
// be absent; public stats queries work without them.
func newClient() *client.Client {
	apiKey := viper.GetString("api_key")
	userID := viper.GetString("user_id")

	var opts []client.Option
	if baseURL := viper.GetString("base_url"); baseURL != "" {
		opts = append(opts, client.WithBaseURL(baseURL))
	}
	if isDebug() {
		opts = append(opts, client.WithDebug(os.Stderr))
	}

	return client.New(apiKey, userID, opts...)
}

// configuredTimezone returns the timezone from flag, env, or config file.
func configuredTimezone() string {
	return viper.GetString("timezone")
}

// handleJSONOutput processes a parsed JSON value through --jq or --template
// filters, or prints it as pretty JSON, optionally narrowed to the field
// list given as the --json flag value. It returns true if JSON output was
// handled (i.e., --json was requested), false otherwise.
func handleJSONOutput(cmd *cobra.Command, data any) (bool, error) {
	if !jsonOutputRequested(cmd) {
		return false, nil
	}

	s := getIO()

	jsonFields, _ := cmd.Flags().GetString("json")
	jqExpr, _ := cmd.Flags().GetString("jq")
	tmpl, _ := cmd.Flags().GetString("template")

	if fields := splitCSV(jsonFields); len(fields) > 0 {
		data = narrowToFields(data, fields)
	}

	switch {
	case jqExpr != "":
		return true, output.ApplyJQ(s.Out, data, jqExpr)
	case tmpl != "":
		return true, output.ApplyTemplate(s.Out, data, tmpl)
	default:
		return true, output.PrintJSON(s.Out, data)
	}
}

// narrowToFields filters an object, or each object of a list, down to the
// requested fields. Other shapes pass through untouched.
func narrowToFields(data any, fields []string) any {
	switch v := data.(type) {
	case map[string]any:
		return output.FilterFieldsSingle(v, fields)
	case []any:
		items := make([]map[string]any, 0, len(v))
		for _, item := range v {
			obj, ok := item.(map[string]any)
			if !ok {
				return data
			}
			items = append(items, obj)
		}
		return output.FilterFields(items, fields)
	default:
		return data
	}
}

// splitCSV splits a comma-separated string into trimmed, non-empty parts.
func splitCSV(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ",")
	result := make([]string, 0, len(parts))
	for _, p := range parts {
		p = strings.TrimSpace(p)
		if p != "" {
			result = append(result, p)
		}
	}
	return result
}

// parseFilters converts repeated key=value flag values into a filter map.
func parseFilters(pairs []string) (map[string]string, error) {
	if len(pairs) == 0 {
		return nil, nil
	}
	filters := make(map[string]string, len(pairs))
	for _, pair := range pairs {
		key, value, ok := strings.Cut(pair, "=")
		if !ok || key == "" {
			return nil, fmt.Errorf("invalid filter %q; expected key=value (e.g., country=US)", pair)
		}
		filters[key] = value
	}
	return filters, nil
}

// formatValue renders a JSON scalar for table output without the float
// artifacts of %v on numbers.
func formatValue(v any) string {
	switch n := v.(type) {
	case nil:
		return ""
	case float64:
		if n == float64(int64(n)) {
			return fmt.Sprintf("%d", int64(n))
		}
		return fmt.Sprintf("%.2f", n)
	default:
		return fmt.Sprintf("%v", v)
	}
}
