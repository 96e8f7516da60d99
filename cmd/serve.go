package main

import (
	"context"
	"errors"
	"net/http"

	"uploadsim/internal/board"
	"uploadsim/internal/simulator"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
)

func newServeCmd(a *app) *cobra.Command {
	var address string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve selections and their simulated progress over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if address != "" {
				a.cfg.Server.Address = address
			}
			return serve(cmd.Context(), a)
		},
	}
	cmd.Flags().StringVarP(&address, "address", "a", "", "listen address (default server.address)")
	return cmd
}

func serve(ctx context.Context, a *app) error {
	view := board.NewView()
	sim := simulator.New(nil, view.List(), view.Bars(), a.simulatorOptions()...)
	defer sim.Close()

	srv := &http.Server{
		Addr:              a.cfg.Server.Address,
		Handler:           board.NewServer(sim, view, a.logger).Handler(),
		ReadHeaderTimeout: a.cfg.Server.ReadHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		a.logger.Info("http server listening", "address", srv.Addr)
		if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), a.cfg.Server.ShutdownTimeout)
		defer cancel()
		a.logger.Info("shutting down http server")
		return srv.Shutdown(shutdownCtx)
	})
	return g.Wait()
}
