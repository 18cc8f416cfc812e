package main

import (
	"context"

	"github.com/go-co-op/gocron/v2"
	"github.com/spf13/cobra"

	"groupbuy/internal/scheduler"
)

var schedulerCmd = &cobra.Command{
	Use:   "scheduler",
	Short: "Run the background sweeps without the HTTP API",
	Long: `Run the campaign lifecycle and payment sweeps. Set REDIS_ENABLED to
run several instances; a Redis lock keeps each sweep on one instance.`,
	RunE: runScheduler,
}

func init() {
	rootCmd.AddCommand(schedulerCmd)
}

func runScheduler(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()
	rt, err := bootstrap(ctx)
	if err != nil {
		return err
	}
	defer rt.close()

	sched, closeLocker, err := newScheduler(ctx, rt)
	if err != nil {
		return err
	}
	defer closeLocker()
	return sched.Run(ctx)
}

func newScheduler(ctx context.Context, rt *runtime) (*scheduler.Scheduler, func(), error) {
	var (
		locker  gocron.Locker
		closeFn = func() {}
	)
	if rt.cfg.Redis.Enabled {
		client, err := scheduler.NewRedisClient(ctx, rt.cfg.Redis)
		if err != nil {
			return nil, nil, err
		}
		locker = scheduler.NewRedisLocker(client, rt.cfg.Redis.LockTTL)
		closeFn = func() { _ = client.Close() }
	}
	return scheduler.New(rt.app.Campaigns, rt.app.Payments, rt.cfg.Scheduler, locker, rt.logger), closeFn, nil
}
