// Package recompute runs the full aggregation pass: per-user summaries, one
// global ranking, and an atomic swap of the persisted leaderboard.
package recompute

import (
	"context"
	"fmt"
	"log"
	"sync"
	"time"

	"example.com/leaderboard/internal/aggregate"
	"example.com/leaderboard/internal/domain"
	"example.com/leaderboard/internal/observability"
	"example.com/leaderboard/internal/rank"
)

// Orchestrator owns the ordering and consistency of a recompute pass. Only
// one pass runs at a time; an overlapping call is rejected before it touches
// anything.
type Orchestrator struct {
	aggregator  *aggregate.Aggregator
	identity    domain.IdentityStore
	leaderboard domain.LeaderboardStore
	metric      rank.Metric
	concurrency int
	logger      *log.Logger
	now         func() time.Time

	mu sync.Mutex
}

// Option configures optional orchestrator behaviour.
type Option func(*Orchestrator)

// WithConcurrency bounds the per-user aggregation worker pool.
func WithConcurrency(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.concurrency = n
		}
	}
}

// WithMetric overrides the ranking metric for all passes.
func WithMetric(metric rank.Metric) Option {
	return func(o *Orchestrator) { o.metric = metric }
}

// WithLogger overrides the logger used to report per-user failures.
func WithLogger(logger *log.Logger) Option {
	return func(o *Orchestrator) { o.logger = logger }
}

// WithClock overrides the pass timestamp source.
func WithClock(now func() time.Time) Option {
	return func(o *Orchestrator) { o.now = now }
}

// NewOrchestrator constructs an Orchestrator.
func NewOrchestrator(aggregator *aggregate.Aggregator, identity domain.IdentityStore, leaderboard domain.LeaderboardStore, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		aggregator:  aggregator,
		identity:    identity,
		leaderboard: leaderboard,
		metric:      rank.DefaultMetric,
		concurrency: 8,
		logger:      log.New(log.Writer(), "[recompute] ", log.LstdFlags),
		now:         func() time.Time { return time.Now().UTC() },
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// RecomputeAll performs one forward pass: aggregate every known user,
// rank the collected summaries once, and replace the persisted leaderboard
// atomically.
//
// A single user's aggregation failure is recorded in the report and that
// user sits out this pass; the pass itself still completes and publishes
// entries for everyone who succeeded. Running the pass twice over unchanged
// input yields an identical entry set.
func (o *Orchestrator) RecomputeAll(ctx context.Context) (domain.RecomputeReport, error) {
	if !o.mu.TryLock() {
		return domain.RecomputeReport{}, domain.ErrRecomputeInProgress
	}
	defer o.mu.Unlock()

	report := domain.RecomputeReport{StartedAt: o.now()}

	userIDs, err := o.identity.ListAllUserIDs(ctx)
	if err != nil {
		return report, fmt.Errorf("list users: %w", err)
	}

	// Results are indexed by the user's position in the id listing so the
	// summary order handed to the ranker does not depend on which worker
	// finishes first.
	summaries := make([]*domain.UserSummary, len(userIDs))
	failures := make([]*domain.RecomputeError, len(userIDs))

	var wg sync.WaitGroup
	sem := make(chan struct{}, o.concurrency)
	for i, userID := range userIDs {
		wg.Add(1)
		sem <- struct{}{}
		go func(i int, userID string) {
			defer wg.Done()
			defer func() { <-sem }()

			summary, err := o.aggregator.Summarize(ctx, userID)
			if err != nil {
				failures[i] = &domain.RecomputeError{UserID: userID, Cause: err.Error()}
				return
			}
			summaries[i] = &summary
		}(i, userID)
	}
	wg.Wait()

	collected := make([]domain.UserSummary, 0, len(userIDs))
	for i := range userIDs {
		if failures[i] != nil {
			o.logger.Printf("user %s excluded from pass: %s", failures[i].UserID, failures[i].Cause)
			report.Errors = append(report.Errors, *failures[i])
			continue
		}
		collected = append(collected, *summaries[i])
	}
	report.UsersProcessed = len(userIDs)

	entries, err := rank.Rank(collected, o.metric, report.StartedAt)
	if err != nil {
		return report, fmt.Errorf("rank summaries: %w", err)
	}

	if err := o.leaderboard.ReplaceLeaderboard(ctx, entries); err != nil {
		return report, fmt.Errorf("replace leaderboard: %w", err)
	}
	report.EntriesWritten = len(entries)
	report.FinishedAt = o.now()

	observability.RecordRecomputePass(report)
	return report, nil
}
