package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	httpadapter "groupbuy/internal/adapter/http"
	"groupbuy/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API",
	Long: `Start the HTTP API. The background sweeps run in the same process
unless SCHEDULER_ENABLED is false.`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	// the scheduler is built before anything starts, so a Redis failure
	// leaves no server behind
	var sched *scheduler.Scheduler
	if rt.cfg.Scheduler.Enabled {
		var closeLocker func()
		sched, closeLocker, err = newScheduler(ctx, rt)
		if err != nil {
			return err
		}
		defer closeLocker()
	}

	handler := httpadapter.NewHandler(rt.app.Services(), rt.logger)
	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", rt.cfg.HTTP.Port),
		Handler:           handler.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	g, ctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		rt.logger.Info("server listening", slog.Int("port", int(rt.cfg.HTTP.Port)))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-ctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			rt.logger.Error("server shutdown error", slog.Any("error", err))
			return err
		}
		rt.logger.Info("server gracefully stopped")
		return nil
	})
	if sched != nil {
		g.Go(func() error {
			return sched.Run(ctx)
		})
	}
	return g.Wait()
}
