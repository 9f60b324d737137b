package consumer

import (
	"context"
	"errors"
	"log"
	"time"

	"example.com/leaderboard/internal/domain"
	"example.com/leaderboard/internal/observability"
)

// Recomputer is the slice of the orchestrator the trigger needs.
type Recomputer interface {
	RecomputeAll(ctx context.Context) (domain.RecomputeReport, error)
}

// RecomputeTrigger coalesces bursts of activity events into a single
// recompute pass. Each event restarts the quiet-period timer; the pass runs
// once the stream has been quiet for the debounce window.
type RecomputeTrigger struct {
	recomputer Recomputer
	debounce   time.Duration
	logger     *log.Logger
	kick       chan struct{}
}

// NewRecomputeTrigger constructs a RecomputeTrigger.
func NewRecomputeTrigger(recomputer Recomputer, debounce time.Duration, logger *log.Logger) *RecomputeTrigger {
	if logger == nil {
		logger = log.New(log.Writer(), "[trigger] ", log.LstdFlags)
	}
	return &RecomputeTrigger{
		recomputer: recomputer,
		debounce:   debounce,
		logger:     logger,
		kick:       make(chan struct{}, 1),
	}
}

// Handle implements Handler. Any activity event invalidates the derived
// summaries, so the event type is only logged, not dispatched on.
func (t *RecomputeTrigger) Handle(ctx context.Context, msg Message) error {
	select {
	case t.kick <- struct{}{}:
	default:
	}
	return nil
}

// Run owns the debounce timer and executes passes. It should be called in a
// goroutine alongside the processor and returns when the context ends.
func (t *RecomputeTrigger) Run(ctx context.Context) {
	timer := time.NewTimer(t.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	armed := false

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.kick:
			if armed && !timer.Stop() {
				<-timer.C
			}
			timer.Reset(t.debounce)
			armed = true
		case <-timer.C:
			armed = false
			t.runPass(ctx)
		}
	}
}

func (t *RecomputeTrigger) runPass(ctx context.Context) {
	observability.RecordRecomputeTriggered("consumer")
	report, err := t.recomputer.RecomputeAll(ctx)
	if err != nil {
		if errors.Is(err, domain.ErrRecomputeInProgress) {
			// Another pass is running; the events that got us here are
			// already committed, so request one more pass afterwards.
			select {
			case t.kick <- struct{}{}:
			default:
			}
			return
		}
		t.logger.Printf("recompute failed: %v", err)
		return
	}
	t.logger.Printf("recompute done: %d users, %d entries, %d errors in %s",
		report.UsersProcessed, report.EntriesWritten, len(report.Errors), report.FinishedAt.Sub(report.StartedAt))
}
