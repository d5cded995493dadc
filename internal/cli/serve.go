package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/peerplot/internal/server"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string
	var noCache bool

	cmd := &cobra.Command{
		Use:   "serve [file]",
		Short: "Serve rendered plots over HTTP",
		Long: `Serve question plots over HTTP until interrupted.

Routes:
  GET /healthz
  GET /questions
  GET /questions/{id}
  GET /questions/{id}/{target}.{format}   target: matrix, first-frequency, second-frequency
  GET /report`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := c.loadConfig()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("addr") {
				cfg.Server.Addr = addr
			}
			popts := cfg.PipelineOptions()
			if err := popts.ValidateAndSetDefaults(); err != nil {
				return err
			}

			src, err := c.openSource(ctx, cfg, argOrEmpty(args))
			if err != nil {
				return err
			}
			defer src.Close(ctx)

			runner, err := c.newRunner(ctx, cfg, noCache)
			if err != nil {
				return err
			}
			defer runner.Close()

			printInfo("Serving on %s", StyleHighlight.Render(cfg.Server.Addr))
			printKeyValue("source", src.Name())
			printKeyValue("cache", cfg.Cache.Backend)
			printKeyValue("formats", "svg, png, pdf, json")
			srv := server.New(src, runner, popts, loggerFromContext(ctx))
			return srv.ListenAndServe(ctx, cfg.Server.Addr, cfg.Server.ReadTimeout.Duration, cfg.Server.ShutdownTimeout.Duration)
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}
