package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/procmap/pkg/buildinfo"
)

// RootCommand creates the root cobra command with all subcommands
// registered. The persistent flags --config and --verbose are read before
// any subcommand runs.
func (c *CLI) RootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:   appName,
		Short: "Procmap lays out process graphs",
		Long: `Procmap lays out process-mining graphs: the main process runs straight down
the middle, side branches are balanced around it and long transitions are
routed through waypoints.`,
		Version:      buildinfo.Version,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			c.stdout, c.stderr = cmd.OutOrStdout(), cmd.ErrOrStderr()
			if c.verbose {
				c.SetLogLevel(LogDebug)
			}
			if err := c.loadConfig(); err != nil {
				return err
			}
			cmd.SetContext(withLogger(cmd.Context(), c.Logger))
			return nil
		},
	}

	root.SetVersionTemplate(buildinfo.Template())
	root.PersistentFlags().BoolVarP(&c.verbose, "verbose", "v", false, "enable verbose logging")
	root.PersistentFlags().StringVar(&c.configPath, "config", "", "config file (default: $XDG_CONFIG_HOME/procmap/config.toml)")

	root.AddCommand(c.layoutCommand())
	root.AddCommand(c.renderCommand())
	root.AddCommand(c.viewCommand())
	root.AddCommand(c.serveCommand())
	root.AddCommand(c.cacheCommand())
	root.AddCommand(c.completionCommand())

	return root
}

// register adds the geometry and cache flags to cmd.
func (f *layoutFlags) register(cmd *cobra.Command) {
	cmd.Flags().Float64Var(&f.width, "width", 0, "node width in pixels (default from config)")
	cmd.Flags().Float64Var(&f.height, "height", 0, "node height in pixels (default from config)")
	cmd.Flags().Float64Var(&f.gap, "gap", 0, "gap between nodes in pixels (default from config)")
	cmd.Flags().BoolVar(&f.noCache, "no-cache", false, "disable caching")
	cmd.Flags().BoolVar(&f.refresh, "refresh", false, "recompute even when cached")
}
