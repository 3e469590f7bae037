// Package scheduler runs the periodic payment and rebalance jobs.
package scheduler

import (
	"context"
	"sync/atomic"
	"time"

	"subscription-ledger/config"
	"subscription-ledger/internal/core/domain"
	"subscription-ledger/internal/core/ports"
	"subscription-ledger/pkg/apperror"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

const (
	paymentJob   = "payments"
	rebalanceJob = "rebalance"
)

// VaultLister lists every vault known to the store.
type VaultLister interface {
	List(ctx context.Context) ([]domain.YieldVault, error)
}

// JobMetrics counts items processed by each job.
type JobMetrics interface {
	ObserveJob(job, outcome string, n int)
}

// RunStats summarises one job run.
type RunStats struct {
	Attempted int
	Succeeded int
	Failed    int
	Skipped   bool
}

// Jobs holds the job bodies. Each job runs at most once at a time per process
// and, when a lock is configured, once at a time across instances.
type Jobs struct {
	payments ports.PaymentService
	vaults   ports.VaultService
	lister   VaultLister
	events   ports.EventRecorder
	lock     ports.JobLock
	metrics  JobMetrics
	cfg      config.SchedulerConfig
	log      zerolog.Logger

	paymentRunning   atomic.Bool
	rebalanceRunning atomic.Bool
}

// NewJobs creates the job runner. events, lock and metrics may be nil.
func NewJobs(
	payments ports.PaymentService,
	vaults ports.VaultService,
	lister VaultLister,
	events ports.EventRecorder,
	lock ports.JobLock,
	metrics JobMetrics,
	cfg config.SchedulerConfig,
	log zerolog.Logger,
) *Jobs {
	return &Jobs{
		payments: payments,
		vaults:   vaults,
		lister:   lister,
		events:   events,
		lock:     lock,
		metrics:  metrics,
		cfg:      cfg,
		log:      log.With().Str("component", "scheduler").Logger(),
	}
}

// acquire takes the in-process guard and the distributed lock. The returned
// release func must be called when ok is true.
func (j *Jobs) acquire(ctx context.Context, name string, running *atomic.Bool) (release func(), ok bool) {
	if !running.CompareAndSwap(false, true) {
		j.log.Debug().Str("job", name).Msg("previous run still in progress")
		return nil, false
	}
	if j.lock == nil {
		return func() { running.Store(false) }, true
	}

	held, err := j.lock.TryLock(ctx, name, j.cfg.LockTTL)
	if err != nil {
		j.log.Error().Err(err).Str("job", name).Msg("failed to acquire job lock")
		running.Store(false)
		return nil, false
	}
	if !held {
		j.log.Debug().Str("job", name).Msg("job lock held elsewhere")
		running.Store(false)
		return nil, false
	}
	return func() {
		if err := j.lock.Unlock(context.WithoutCancel(ctx), name); err != nil {
			j.log.Warn().Err(err).Str("job", name).Msg("failed to release job lock")
		}
		running.Store(false)
	}, true
}

// RunPayments executes every due subscription in keyset-ordered batches. A
// subscription that fails stays due and is retried on the next run; the
// cursor moves past it so later rows are still reached in this run.
func (j *Jobs) RunPayments(ctx context.Context) RunStats {
	release, ok := j.acquire(ctx, paymentJob, &j.paymentRunning)
	if !ok {
		return RunStats{Skipped: true}
	}
	defer release()

	runID := uuid.NewString()
	log := j.log.With().Str("job", paymentJob).Str("run_id", runID).Logger()
	log.Info().Msg("starting payment job")
	started := time.Now()

	var stats RunStats
	attempted := make(map[uuid.UUID]struct{})
	var cursor *domain.DueCursor
	for ctx.Err() == nil {
		due, err := j.payments.ListDue(ctx, cursor, j.cfg.BatchSize)
		if err != nil {
			log.Error().Err(err).Msg("failed to list due subscriptions")
			break
		}

		fresh := 0
		for i := range due {
			sub := &due[i]
			if _, seen := attempted[sub.ID]; seen {
				continue
			}
			attempted[sub.ID] = struct{}{}
			fresh++
			stats.Attempted++

			res, err := j.payments.ExecutePayment(ctx, sub.Key())
			if err != nil {
				stats.Failed++
				log.Warn().Err(err).
					Str("subscription_id", sub.ID.String()).
					Str("error_code", apperror.CodeOf(err)).
					Msg("scheduled payment failed")
				j.paymentFailed(ctx, sub, err)
				continue
			}
			stats.Succeeded++
			log.Debug().
				Str("subscription_id", sub.ID.String()).
				Uint64("amount", res.Amount).
				Uint64("shares_redeemed", res.SharesRedeemed).
				Msg("scheduled payment executed")
		}

		if fresh == 0 || len(due) < j.cfg.BatchSize {
			break
		}
		last := due[len(due)-1].Cursor()
		cursor = &last
	}

	j.observe(paymentJob, stats)
	log.Info().
		Int("attempted", stats.Attempted).
		Int("succeeded", stats.Succeeded).
		Int("failed", stats.Failed).
		Dur("elapsed", time.Since(started)).
		Msg("payment job finished")
	return stats
}

// RunRebalance rebalances every operational vault on behalf of its authority.
func (j *Jobs) RunRebalance(ctx context.Context) RunStats {
	release, ok := j.acquire(ctx, rebalanceJob, &j.rebalanceRunning)
	if !ok {
		return RunStats{Skipped: true}
	}
	defer release()

	log := j.log.With().Str("job", rebalanceJob).Logger()

	vaults, err := j.lister.List(ctx)
	if err != nil {
		log.Error().Err(err).Msg("failed to list vaults")
		return RunStats{}
	}

	var stats RunStats
	for i := range vaults {
		v := &vaults[i]
		if v.EmergencyMode {
			continue
		}
		stats.Attempted++

		res, err := j.vaults.Rebalance(ctx, ports.VaultAdminRequest{Caller: v.Authority, Currency: v.Currency})
		if err != nil {
			stats.Failed++
			log.Warn().Err(err).Str("currency", v.Currency).Msg("scheduled rebalance failed")
			continue
		}
		stats.Succeeded++
		log.Debug().
			Str("currency", v.Currency).
			Str("action", string(res.Action)).
			Uint64("amount", res.Amount).
			Msg("scheduled rebalance done")
	}

	j.observe(rebalanceJob, stats)
	return stats
}

// paymentFailed tells the merchant a scheduled charge did not go through.
func (j *Jobs) paymentFailed(ctx context.Context, sub *domain.Subscription, cause error) {
	if j.events == nil {
		return
	}
	evt, err := domain.NewEvent(domain.EventPaymentFailed, sub.ID.String(), domain.PaymentFailedData{
		SubscriptionID: sub.ID,
		User:           sub.User,
		Merchant:       sub.Merchant,
		Currency:       sub.Currency,
		Amount:         sub.FeeAmount,
		ErrorCode:      apperror.CodeOf(cause),
		Reason:         cause.Error(),
	}, time.Now().UTC())
	if err != nil {
		j.log.Error().Err(err).Msg("failed to build payment.failed event")
		return
	}
	j.events.Record(ctx, evt)
}

func (j *Jobs) observe(job string, stats RunStats) {
	if j.metrics == nil {
		return
	}
	j.metrics.ObserveJob(job, "success", stats.Succeeded)
	j.metrics.ObserveJob(job, "failure", stats.Failed)
}
