package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/eringen/pubcollection"
)

func (c *cli) newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Sync the content directory and serve the blog",
		Long: `serve validates every document in the content directory, stores the
valid posts in SQLite and starts the HTTP server. With --watch the
collection is resynced whenever a document changes.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			app := pubcollection.New(c.cfg, defaultViews(c.cfg))
			defer app.Close()
			return app.Start(ctx)
		},
	}
	cmd.Flags().String("addr", ":3000", "listen address")
	cmd.Flags().Bool("watch", false, "resync when the content directory changes")
	cmd.Flags().Bool("metrics", false, "serve Prometheus metrics at /metrics")
	return cmd
}
