package cli

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/matzehuels/procmap/internal/server"
	"github.com/matzehuels/procmap/pkg/observability"
)

// serveCommand creates the serve command for running the HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		Long: `Run the HTTP API.

Layouts are cached with the configured cache backend and saved layouts are
kept in the configured store. Stop the server with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable caching")

	return cmd
}

func (c *CLI) runServe(ctx context.Context, addr string, noCache bool) error {
	hooks := observability.NewLogHooks(c.Logger)
	observability.SetPipelineHooks(hooks)
	observability.SetCacheHooks(hooks)
	observability.SetServerHooks(hooks)
	defer observability.Reset()

	runner, err := c.newRunner(ctx, noCache)
	if err != nil {
		return fmt.Errorf("initialize runner: %w", err)
	}
	defer runner.Close()

	st, err := c.Config.Store.Open(ctx)
	if err != nil {
		return fmt.Errorf("open store: %w", err)
	}
	defer st.Close()

	srvCfg := c.Config.Server
	if addr != "" {
		srvCfg.Addr = addr
	}

	srv := server.New(server.Options{
		Runner:   runner,
		Store:    st,
		Logger:   c.Logger,
		Config:   srvCfg,
		Rect:     c.Config.Layout,
		Colors:   c.Config.Colors,
		Markers:  c.Config.Markers,
		StoreTTL: c.Config.Store.TTL.Duration,
	})

	p := c.out()
	p.info("Serving on %s", srvCfg.Addr)
	p.detail("cache: %s, store: %s", backendName(c.Config.Cache.Backend, noCache), c.Config.Store.Backend)
	return srv.ListenAndServe(ctx)
}

func backendName(backend string, disabled bool) string {
	if disabled {
		return "none"
	}
	return backend
}
