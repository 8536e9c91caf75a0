package cmd

import (
	"fmt"
	"strconv"

	"github.com/jorisw/sa/internal/client"
	"github.com/jorisw/sa/internal/output"
	"github.com/spf13/cobra"
)

func init() {
	rootCmd.AddCommand(newWebsitesCmd())
}

func newWebsitesCmd() *cobra.Command {
	websitesCmd := &cobra.Command{
		Use:   "websites",
		Short: "Manage the websites in your account",
		Long: `List, inspect, and add websites registered under your Simple Analytics
account. All websites commands require an API key and user ID.`,
	}

	websitesCmd.AddCommand(newWebsitesListCmd())
	websitesCmd.AddCommand(newWebsitesGetCmd())
	websitesCmd.AddCommand(newWebsitesAddCmd())
	return websitesCmd
}

func newWebsitesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all websites in your account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			c := newClient()
			defer c.Close()

			websites, err := c.Admin.ListWebsites()
			if err != nil {
				return fmt.Errorf("listing websites: %w", err)
			}

			handled, err := handleJSONOutput(cmd, websitesAsJSON(websites))
			if err != nil || handled {
				return err
			}

			s := getIO()
			if len(websites) == 0 {
				s.Printf("No websites in this account.\n")
				return nil
			}

			rows := make([][]string, len(websites))
			for i, site := range websites {
				rows[i] = websiteRow(site)
			}
			output.PrintTable(s.Out, websiteHeaders(), rows, s.IsTerminal())
			return nil
		},
	}
}

func newWebsitesGetCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "get <hostname>",
		Short: "Show a single website by hostname",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			hostname := args[0]

			c := newClient()
			defer c.Close()

			site, err := c.Admin.GetWebsite(hostname)
			if err != nil {
				return fmt.Errorf("looking up %s: %w", hostname, err)
			}
			if site == nil {
				return fmt.Errorf("website %q is not registered in this account", hostname)
			}

			handled, err := handleJSONOutput(cmd, websiteAsJSON(*site))
			if err != nil || handled {
				return err
			}

			s := getIO()
			output.PrintTable(s.Out, websiteHeaders(), [][]string{websiteRow(*site)}, s.IsTerminal())
			return nil
		},
	}
}

func newWebsitesAddCmd() *cobra.Command {
	var (
		timezone string
		public   bool
		label    string
	)

	cmd := &cobra.Command{
		Use:   "add <hostname>",
		Short: "Add a website to your account",
		Long:  "Add a website. Requires a Business or Enterprise plan on the API side.",
		Args:  cobra.ExactArgs(1),
		Example: `  sa websites add newsite.com --timezone America/New_York --label "New Project"`,
		RunE: func(cmd *cobra.Command, args []string) error {
			hostname := args[0]

			var opts []client.WebsiteOption
			if timezone != "" {
				opts = append(opts, client.WithSiteTimezone(timezone))
			}
			if public {
				opts = append(opts, client.AsPublic())
			}
			if label != "" {
				opts = append(opts, client.WithLabel(label))
			}

			c := newClient()
			defer c.Close()

			site, err := c.Admin.AddWebsite(hostname, opts...)
			if err != nil {
				return fmt.Errorf("adding website %s: %w", hostname, err)
			}

			handled, err := handleJSONOutput(cmd, websiteAsJSON(*site))
			if err != nil || handled {
				return err
			}

			s := getIO()
			s.Printf("%s Added %s (%s)\n", s.SuccessIcon(), s.Bold(site.Hostname), site.Timezone)
			return nil
		},
	}

	cmd.Flags().StringVar(&timezone, "timezone", "", "Website timezone (default: UTC)")
	cmd.Flags().BoolVar(&public, "public", false, "Make the stats publicly viewable")
	cmd.Flags().StringVar(&label, "label", "", "Display label for the website")

	return cmd
}

func websiteHeaders() []string {
	return []string{"HOSTNAME", "TIMEZONE", "PUBLIC", "LABEL", "CREATED"}
}

func websiteRow(site client.Website) []string {
	return []string{
		site.Hostname,
		site.Timezone,
		strconv.FormatBool(site.Public),
		site.Label,
		site.CreatedAt,
	}
}

// websiteAsJSON converts a Website to the generic map shape the --json
// field filtering helpers operate on.
func websiteAsJSON(site client.Website) map[string]any {
	m := map[string]any{
		"hostname": site.Hostname,
		"timezone": site.Timezone,
		"public":   site.Public,
	}
	if site.Label != "" {
		m["label"] = site.Label
	}
	if site.CreatedAt != "" {
		m["created_at"] = site.CreatedAt
	}
	return m
}

func websitesAsJSON(websites []client.Website) []any {
	items := make([]any, len(websites))
	for i, site := range websites {
		items[i] = websiteAsJSON(site)
	}
	return items
}
