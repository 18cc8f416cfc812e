// Package scheduler runs the periodic sweeps that move campaigns and
// payment intents along without a caller: expired campaigns enter their
// grace period and are evaluated, and payment intents are submitted,
// retried and escalated.
package scheduler

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/go-co-op/gocron/v2"
	"github.com/google/uuid"

	"groupbuy/internal/config/configs"
	"groupbuy/internal/core/domain"
	"groupbuy/internal/core/port"
)

const (
	lifecycleJob = "groupbuy:lifecycle-sweep"
	paymentJob   = "groupbuy:payment-sweep"
)

// Result counts what a sweep did. Failed items are logged and picked up
// again on the next run.
type Result struct {
	Processed int
	Failed    int
}

// Scheduler owns the gocron scheduler and the two sweeps.
type Scheduler struct {
	campaigns port.CampaignUseCase
	payments  port.PaymentUseCase
	cfg       configs.Scheduler
	locker    gocron.Locker
	logger    *slog.Logger
	now       func() time.Time
}

// New creates a Scheduler. locker may be nil when a single instance runs.
func New(campaigns port.CampaignUseCase, payments port.PaymentUseCase, cfg configs.Scheduler,
	locker gocron.Locker, logger *slog.Logger,
) *Scheduler {
	return &Scheduler{
		campaigns: campaigns,
		payments:  payments,
		cfg:       cfg,
		locker:    locker,
		logger:    logger.With(slog.String("component", "scheduler")),
		now:       func() time.Time { return time.Now().UTC() },
	}
}

// Run registers both sweeps and blocks until ctx is cancelled.
func (s *Scheduler) Run(ctx context.Context) error {
	opts := []gocron.SchedulerOption{
		gocron.WithLocation(time.UTC),
		gocron.WithGlobalJobOptions(
			gocron.WithSingletonMode(gocron.LimitModeReschedule),
			gocron.WithEventListeners(
				gocron.AfterJobRunsWithError(func(_ uuid.UUID, name string, err error) {
					s.logger.Error("sweep failed", slog.String("job", name), slog.Any("error", err))
				}),
			),
		),
	}
	if s.locker != nil {
		opts = append(opts, gocron.WithDistributedLocker(s.locker))
	}
	sched, err := gocron.NewScheduler(opts...)
	if err != nil {
		return err
	}

	jobs := []struct {
		name     string
		interval time.Duration
		sweep    func(context.Context) (Result, error)
	}{
		{lifecycleJob, s.cfg.LifecycleInterval, s.SweepLifecycle},
		{paymentJob, s.cfg.PaymentInterval, s.SweepPayments},
	}
	for _, j := range jobs {
		_, err = sched.NewJob(
			gocron.DurationJob(j.interval),
			gocron.NewTask(func() error {
				res, err := j.sweep(ctx)
				if res.Processed > 0 || res.Failed > 0 {
					s.logger.Info("sweep finished", slog.String("job", j.name),
						slog.Int("processed", res.Processed), slog.Int("failed", res.Failed))
				}
				return err
			}),
			gocron.WithName(j.name),
		)
		if err != nil {
			return err
		}
	}

	s.logger.Info("scheduler started",
		slog.Duration("lifecycle_interval", s.cfg.LifecycleInterval),
		slog.Duration("payment_interval", s.cfg.PaymentInterval),
		slog.Bool("distributed_lock", s.locker != nil))
	sched.Start()
	<-ctx.Done()
	return sched.Shutdown()
}

// SweepLifecycle moves ACTIVE campaigns whose end date has passed into
// GRACE_PERIOD, then evaluates GRACE_PERIOD campaigns whose grace period has
// ended.
func (s *Scheduler) SweepLifecycle(ctx context.Context) (Result, error) {
	var res Result
	now := s.now()

	active, err := s.campaigns.ListByStatus(ctx, domain.CampaignActive)
	if err != nil {
		return res, err
	}
	for _, c := range active {
		if !domain.Day(c.EndDate).Before(domain.Day(now)) {
			continue
		}
		if _, err = s.campaigns.StartGracePeriod(ctx, c.ID); err != nil {
			s.itemFailed(&res, "start grace period", c.ID, err)
			continue
		}
		res.Processed++
	}

	grace, err := s.campaigns.ListByStatus(ctx, domain.CampaignGracePeriod)
	if err != nil {
		return res, err
	}
	for _, c := range grace {
		if !c.GraceExpired(now) {
			continue
		}
		if _, err = s.campaigns.EvaluateCampaign(ctx, c.ID); err != nil {
			s.itemFailed(&res, "evaluate campaign", c.ID, err)
			continue
		}
		res.Processed++
	}
	return res, nil
}

// SweepPayments submits PENDING intents, retries FAILED_RETRY_1 and
// FAILED_RETRY_2 intents and sends FAILED_RETRY_3 intents to accounts
// receivable. Candidates are collected before any of them is touched, so an
// intent climbs at most one rung per run. Intents still PROCESSING are left
// for the gateway to report.
func (s *Scheduler) SweepPayments(ctx context.Context) (Result, error) {
	var (
		res     Result
		pending []domain.PaymentIntent
	)
	for _, status := range []domain.PaymentStatus{
		domain.PaymentPending, domain.PaymentFailedRetry1, domain.PaymentFailedRetry2,
	} {
		intents, err := s.payments.ListByStatus(ctx, status)
		if err != nil {
			return res, err
		}
		pending = append(pending, intents...)
	}
	exhausted, err := s.payments.ListByStatus(ctx, domain.PaymentFailedRetry3)
	if err != nil {
		return res, err
	}

	for _, pi := range pending {
		_, err = s.payments.ProcessPayment(ctx, pi.ID)
		switch {
		case err == nil:
			res.Processed++
		case errors.Is(err, port.ErrPaymentSubmission):
			// recorded on the intent as a failed attempt
			res.Processed++
			s.logger.Warn("payment attempt failed", slog.String("payment_intent_id", pi.ID.String()), slog.Any("error", err))
		default:
			s.itemFailed(&res, "process payment", pi.ID, err)
		}
	}
	for _, pi := range exhausted {
		if _, err = s.payments.MarkAsSentToAR(ctx, pi.ID); err != nil {
			s.itemFailed(&res, "send to accounts receivable", pi.ID, err)
			continue
		}
		res.Processed++
	}
	return res, nil
}

func (s *Scheduler) itemFailed(res *Result, op string, id uuid.UUID, err error) {
	res.Failed++
	level := slog.LevelError
	if errors.Is(err, port.ErrConcurrentModification) {
		level = slog.LevelWarn
	}
	s.logger.Log(context.Background(), level, op+" failed", slog.String("id", id.String()), slog.Any("error", err))
}
