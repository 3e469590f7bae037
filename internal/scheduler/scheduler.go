package scheduler

import (
	"context"
	"time"

	"subscription-ledger/config"

	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"
)

// Scheduler manages the cron jobs.
type Scheduler struct {
	cron    *cron.Cron
	jobs    *Jobs
	log     zerolog.Logger
	config  config.SchedulerConfig
	timeout time.Duration
}

// NewScheduler creates a new scheduler instance. A panicking job is
// recovered and logged.
func NewScheduler(jobs *Jobs, log zerolog.Logger, cfg config.SchedulerConfig) *Scheduler {
	cronLog := log.With().Str("component", "cron").Logger()
	c := cron.New(cron.WithChain(cron.Recover(cron.PrintfLogger(&cronLog))))

	timeout := cfg.LockTTL
	if timeout <= 0 {
		timeout = time.Minute
	}
	return &Scheduler{
		cron:    c,
		jobs:    jobs,
		log:     log,
		config:  cfg,
		timeout: timeout,
	}
}

// Start registers the jobs and starts the cron scheduler.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.config.PaymentSchedule, s.runPayments); err != nil {
		return err
	}
	s.log.Info().Str("schedule", s.config.PaymentSchedule).Msg("scheduled payment job")

	if _, err := s.cron.AddFunc(s.config.RebalanceSchedule, s.runRebalance); err != nil {
		return err
	}
	s.log.Info().Str("schedule", s.config.RebalanceSchedule).Msg("scheduled rebalance job")

	s.cron.Start()
	return nil
}

// Stop halts scheduling. The returned context is done once running jobs finish.
func (s *Scheduler) Stop() context.Context {
	return s.cron.Stop()
}

func (s *Scheduler) runPayments() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.jobs.RunPayments(ctx)
}

func (s *Scheduler) runRebalance() {
	ctx, cancel := context.WithTimeout(context.Background(), s.timeout)
	defer cancel()
	s.jobs.RunRebalance(ctx)
}
