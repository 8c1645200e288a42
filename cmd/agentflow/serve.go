package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/effective-security/agentflow/internal/app"
	"github.com/effective-security/agentflow/internal/config"
	"github.com/effective-security/agentflow/internal/server"
	"github.com/effective-security/xlog"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(flags *rootFlags) *cobra.Command {
	var listen string
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and UI",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := flags.load()
			if err != nil {
				return err
			}
			if listen != "" {
				cfg.Server.ListenURL = listen
			}

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return serve(ctx, cfg)
		},
	}
	cmd.Flags().StringVarP(&listen, "listen", "l", "", "listen address, overrides server.listen_url")
	return cmd
}

func serve(ctx context.Context, cfg *config.Configuration) error {
	a, err := app.New(ctx, cfg, app.WithOutput(os.Stderr))
	if err != nil {
		return err
	}
	srv := server.New(&cfg.Server, a)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(srv.ListenAndServe)
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), config.Duration(cfg.Server.ShutdownTimeout))
		defer cancel()
		return srv.Shutdown(shutdownCtx)
	})

	err = g.Wait()
	logger.KV(xlog.NOTICE, "status", "stopped")
	return err
}
