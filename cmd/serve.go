package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/TFMV/spectragraph/server"
	"github.com/TFMV/spectragraph/session"
)

func serveCmd(opts *rootOptions) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the interactive editor in the browser",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg := opts.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}

			frameOpts, err := cfg.FrameOptions()
			if err != nil {
				return err
			}
			sess := session.New(session.Options{
				Layout:       cfg.Layout,
				Frame:        frameOpts,
				TickInterval: cfg.TickInterval(),
				Empty:        cfg.Session.Empty,
			})
			srv := server.New(sess, server.Config{
				Addr:            cfg.Server.Addr,
				EventsPerSecond: cfg.Server.EventsPerSecond,
				EventBurst:      cfg.Server.EventBurst,
				Output:          cfg.OutputOptions(),
			})

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			good.Fprintf(cmd.OutOrStdout(), "  Editor listening on %s\n", cfg.Server.Addr)

			g, ctx := errgroup.WithContext(ctx)
			g.Go(func() error { return sess.Run(ctx) })
			g.Go(func() error { return srv.ListenAndServe(ctx) })

			if err := g.Wait(); err != nil && !errors.Is(err, context.Canceled) {
				return err
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&addr, "addr", "", "Listen address (overrides config)")
	return cmd
}
