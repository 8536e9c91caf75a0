// Package cmd defines the CLI commands for the sa tool.
package cmd

import (
	"fmt"
	"os"
	"strings"

	"github.com/jorisw/sa/internal/iostreams"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	// versionInfo is set by main via SetVersionInfo.
	versionInfo struct {
		version string
		commit  string
		date    string
	}

	// Global flag values bound to viper.
	cfgBaseURL  string
	cfgTimezone string
	cfgQuiet    bool
	cfgJSON     string
	cfgJQ       string
	cfgTemplate string

	io *iostreams.IOStreams
)

// SetVersionInfo stores build metadata for the version command.
func SetVersionInfo(version, commit, date string) {
	versionInfo.version = version
	versionInfo.commit = commit
	versionInfo.date = date
}

var rootCmd = &cobra.Command{
	Use:   "sa",
	Short: "Simple Analytics CLI - query, export, and manage website stats",
	Long: `sa is a command-line tool for interacting with the Simple Analytics API.

It supports querying aggregated website statistics, exporting raw datapoints,
and managing the websites in your account. Output can be formatted as JSON,
tables, CSV, or filtered with jq expressions and Go templates.

Configuration is stored in ~/.config/sa/config.yaml and can be overridden
with flags or environment variables (SA_API_KEY, SA_USER_ID, SA_BASE_URL).
Public websites can be queried without any credentials.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		io = iostreams.New()
		io.SetQuiet(viper.GetBool("quiet"))

		// Validate the base URL override if provided.
		baseURL := viper.GetString("base_url")
		if baseURL != "" && !strings.HasPrefix(baseURL, "http://") && !strings.HasPrefix(baseURL, "https://") {
			return fmt.Errorf("invalid base_url %q; must start with http:// or https://", baseURL)
		}
		return nil
	},
}

func init() {
	// Load config file into global viper.
	home, _ := os.UserHomeDir()
	if home != "" {
		viper.SetConfigFile(home + "/.config/sa/config.yaml")
		viper.SetConfigType("yaml")
		_ = viper.ReadInConfig() // Ignore error if file doesn't exist yet.
	}

	// Bind env vars before flag parsing.
	viper.SetEnvPrefix("SA")
	viper.AutomaticEnv()
	viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))

	// Persistent flags available to all subcommands.
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgBaseURL, "base-url", "", "API base URL override (env: SA_BASE_URL)")
	pf.StringVar(&cfgTimezone, "timezone", "", "Timezone for date calculations (env: SA_TIMEZONE)")
	pf.BoolVarP(&cfgQuiet, "quiet", "q", false, "Suppress non-essential output (env: SA_QUIET)")
	pf.StringVar(&cfgJSON, "json", "", "Output JSON; optionally comma-separated field list")
	pf.StringVar(&cfgJQ, "jq", "", "Filter JSON output with a jq expression (requires --json)")
	pf.StringVar(&cfgTemplate, "template", "", "Format output with a Go template (requires --json)")

	// Allow --json to be used without a value (e.g., "sa version --json").
	pf.Lookup("json").NoOptDefVal = " "

	// Bind flags to viper keys so env vars and config file values also work.
	_ = viper.BindPFlag("base_url", pf.Lookup("base-url"))
	_ = viper.BindPFlag("timezone", pf.Lookup("timezone"))
	_ = viper.BindPFlag("quiet", pf.Lookup("quiet"))

	// Register subcommands.
	rootCmd.AddCommand(newVersionCmd())
	rootCmd.AddCommand(newConfigCmd())
}

// Execute runs the root command. Called from main.
func Execute() error {
	if err := rootCmd.Execute(); err != nil {
		// Print error in red to stderr.
		s := iostreams.New()
		fmt.Fprintln(s.ErrOut, s.Failure("Error: "+err.Error()))
		return err
	}
	return nil
}

// getIO returns the current IOStreams instance, initializing if needed.
func getIO() *iostreams.IOStreams {
	if io == nil {
		io = iostreams.New()
	}
	return io
}

// isDebug reports whether debug mode is enabled via SA_DEBUG env var.
func isDebug() bool {
	return os.Getenv("SA_DEBUG") == "1"
}

// jsonOutputRequested reports whether the --json flag was explicitly set.
func jsonOutputRequested(cmd *cobra.Command) bool {
	return cmd.Flags().Changed("json")
}
