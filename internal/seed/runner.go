package seed

import (
	"context"
	"fmt"
	"time"

	"quiz-seed/internal/domain"

	"go.uber.org/zap"
	"golang.org/x/crypto/bcrypt"
)

// Observer receives run statistics, typically for metrics.
type Observer interface {
	ObserveRecords(kind, outcome string, n int)
	ObserveBatch(state string, duration time.Duration)
}

// RunLock keeps two runs from seeding the same store concurrently.
// Refresh is called before every batch after the first and must fail if the
// lock is no longer held.
type RunLock interface {
	Acquire(ctx context.Context) error
	Refresh(ctx context.Context) error
	Release(ctx context.Context) error
}

type nopLock struct{}

func (nopLock) Acquire(context.Context) error { return nil }
func (nopLock) Refresh(context.Context) error { return nil }
func (nopLock) Release(context.Context) error { return nil }

type nopObserver struct{}

func (nopObserver) ObserveRecords(string, string, int) {}
func (nopObserver) ObserveBatch(string, time.Duration) {}

// Runner executes batches in dependency order, one session and one commit
// per batch. The first failing batch is rolled back and aborts the run.
type Runner struct {
	store      domain.Store
	log        *zap.Logger
	policies   Policies
	mode       ValidationMode
	bcryptCost int
	observer   Observer
	lock       RunLock
}

// Option configures a Runner.
type Option func(*Runner)

func WithPolicies(p Policies) Option {
	return func(r *Runner) {
		for kind, policy := range p {
			r.policies[kind] = policy
		}
	}
}

func WithValidationMode(mode ValidationMode) Option {
	return func(r *Runner) { r.mode = mode }
}

// WithBcryptCost sets the cost used to hash seed passwords.
func WithBcryptCost(cost int) Option {
	return func(r *Runner) { r.bcryptCost = cost }
}

func WithObserver(o Observer) Option {
	return func(r *Runner) { r.observer = o }
}

func WithLock(l RunLock) Option {
	return func(r *Runner) { r.lock = l }
}

func NewRunner(store domain.Store, log *zap.Logger, opts ...Option) *Runner {
	r := &Runner{
		store:      store,
		log:        log,
		policies:   DefaultPolicies(),
		mode:       Strict,
		bcryptCost: bcrypt.DefaultCost,
		observer:   nopObserver{},
		lock:       nopLock{},
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Run plans batches and executes them. Planning errors are returned before
// anything runs. On a batch failure the report is returned with the error;
// batches committed before it stay committed and later ones stay pending.
func (r *Runner) Run(ctx context.Context, batches []Batch, groups ...string) (*Report, error) {
	planned, err := Plan(batches, groups)
	if err != nil {
		return nil, err
	}
	if err := r.lock.Acquire(ctx); err != nil {
		return nil, err
	}
	defer func() {
		if err := r.lock.Release(context.WithoutCancel(ctx)); err != nil {
			r.log.Warn("Failed to release seed lock", zap.Error(err))
		}
	}()

	report := newReport(planned)
	cache := newRunCache()
	r.log.Info("Starting seed run", zap.Int("batches", len(planned)), zap.Strings("groups", groups), zap.String("mode", string(r.mode)))

	for i, b := range planned {
		if err := ctx.Err(); err != nil {
			return report, fmt.Errorf("seed run interrupted before batch %q: %w", b.Name, err)
		}
		if i > 0 {
			if err := r.lock.Refresh(ctx); err != nil {
				r.log.Error("Lost seed lock, aborting run", zap.String("batch", b.Name), zap.Error(err))
				return report, fmt.Errorf("seed lock lost before batch %q: %w", b.Name, err)
			}
		}
		res := &report.Batches[i]
		res.State = StateRunning
		log := r.log.With(zap.String("batch", b.Name))
		log.Info("Running batch")

		start := time.Now()
		counts, err := r.runBatch(ctx, b, cache, log)
		res.Duration = time.Since(start)
		res.Counts = counts

		if err != nil {
			res.State = StateFailed
			res.Err = err
			r.observer.ObserveBatch(string(StateFailed), res.Duration)
			log.Error("Batch failed, aborting run", zap.Error(err))
			return report, fmt.Errorf("batch %q failed: %w", b.Name, err)
		}
		res.State = StateCommitted
		r.observer.ObserveBatch(string(StateCommitted), res.Duration)
		for kind, outcomes := range counts {
			for outcome, n := range outcomes {
				r.observer.ObserveRecords(string(kind), string(outcome), n)
			}
		}
		log.Info("Committed batch",
			zap.Duration("duration", res.Duration),
			zap.Int("created", counts.sum(Created)),
			zap.Int("updated", counts.sum(Updated)),
			zap.Int("skipped", counts.sum(Skipped)))
	}
	r.log.Info("Seed run completed", zap.Int("batches", len(planned)))
	return report, nil
}

func (r *Runner) runBatch(ctx context.Context, b Batch, cache *runCache, log *zap.Logger) (counts Counts, err error) {
	session, err := r.store.Begin(ctx)
	if err != nil {
		return Counts{}, fmt.Errorf("failed to begin session: %w", err)
	}
	u := newUpserter(session, cache, r.policies, r.mode, r.bcryptCost, log)

	defer func() {
		counts = u.Counts()
		if p := recover(); p != nil {
			cache.discard()
			_ = session.Rollback()
			panic(p)
		}
		if err != nil {
			cache.discard()
			if rbErr := session.Rollback(); rbErr != nil {
				log.Error("Failed to roll back batch", zap.Error(rbErr))
			}
			return
		}
		if cErr := session.Commit(); cErr != nil {
			cache.discard()
			err = fmt.Errorf("failed to commit: %w", cErr)
			return
		}
		cache.promote()
	}()

	if b.Load == nil {
		return u.Counts(), nil
	}
	return u.Counts(), b.Load(ctx, u)
}
