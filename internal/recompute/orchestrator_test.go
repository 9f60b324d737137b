package recompute

import (
	"context"
	"io"
	"log"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/leaderboard/internal/aggregate"
	"example.com/leaderboard/internal/domain"
	"example.com/leaderboard/internal/rank"
	"example.com/leaderboard/internal/store/memory"
)

func quietLogger() *log.Logger {
	return log.New(io.Discard, "", 0)
}

func fixedClock(t time.Time) func() time.Time {
	return func() time.Time { return t }
}

func ptr(v float64) *float64 { return &v }

func seedUser(store *memory.Store, userID, teamID string, calories ...int) {
	store.AddUser(userID, teamID)
	base := time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC)
	for i, c := range calories {
		store.AddActivity(domain.ActivityRecord{
			UserID:         userID,
			ActivityType:   "Running",
			DurationMin:    c / 10,
			CaloriesBurned: c,
			Distance:       ptr(float64(i) + 1.5),
			Date:           base.AddDate(0, 0, i),
		})
	}
}

func newOrchestrator(store *memory.Store, opts ...Option) *Orchestrator {
	aggregator := aggregate.NewAggregator(store, store)
	opts = append([]Option{WithLogger(quietLogger())}, opts...)
	return NewOrchestrator(aggregator, store, store, opts...)
}

func TestRecomputeAllRanksEveryUser(t *testing.T) {
	store := memory.NewStore()
	teamID := store.AddTeam(domain.Team{Name: "Team Marvel"})
	seedUser(store, "tony", teamID, 500, 400)
	seedUser(store, "steve", teamID, 300)
	seedUser(store, "natasha", "", 1200)

	o := newOrchestrator(store)
	report, err := o.RecomputeAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, report.UsersProcessed)
	require.Equal(t, 3, report.EntriesWritten)
	require.Empty(t, report.Errors)

	entries, err := store.CurrentLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 3)

	require.Equal(t, "natasha", entries[0].UserID)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, "tony", entries[1].UserID)
	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, "steve", entries[2].UserID)
	require.Equal(t, 3, entries[2].Rank)
}

func TestRecomputeAllGivesZeroActivityUsersAnEntry(t *testing.T) {
	store := memory.NewStore()
	seedUser(store, "active", "", 800)
	store.AddUser("idle", "")

	o := newOrchestrator(store)
	report, err := o.RecomputeAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 2, report.EntriesWritten)

	entries, err := store.CurrentLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "idle", entries[1].UserID)
	require.Equal(t, 2, entries[1].Rank)
	require.Equal(t, 0, entries[1].TotalActivities)
	require.Equal(t, 0, entries[1].TotalCalories)
}

func TestRecomputeAllRecordsMalformedUsersAndCompletes(t *testing.T) {
	store := memory.NewStore()
	seedUser(store, "good-1", "", 500)
	seedUser(store, "good-2", "", 900)
	store.AddUser("broken", "")
	store.AddActivity(domain.ActivityRecord{
		UserID:         "broken",
		ActivityType:   "Running",
		DurationMin:    -30,
		CaloriesBurned: 100,
		Date:           time.Date(2026, time.February, 1, 0, 0, 0, 0, time.UTC),
	})

	o := newOrchestrator(store)
	report, err := o.RecomputeAll(context.Background())
	require.NoError(t, err)

	require.Equal(t, 3, report.UsersProcessed)
	require.Equal(t, 2, report.EntriesWritten)
	require.Len(t, report.Errors, 1)
	require.Equal(t, "broken", report.Errors[0].UserID)
	require.Contains(t, report.Errors[0].Cause, "negative duration")

	entries, err := store.CurrentLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 2)
	for _, entry := range entries {
		require.NotEqual(t, "broken", entry.UserID)
	}
}

func TestRecomputeAllIsIdempotent(t *testing.T) {
	store := memory.NewStore()
	teamID := store.AddTeam(domain.Team{Name: "Team DC"})
	seedUser(store, "clark", teamID, 700, 700)
	seedUser(store, "bruce", teamID, 700, 700) // ties with clark on every metric
	seedUser(store, "barry", "", 2500)

	clock := fixedClock(time.Date(2026, time.March, 15, 9, 0, 0, 0, time.UTC))
	o := newOrchestrator(store, WithClock(clock))

	_, err := o.RecomputeAll(context.Background())
	require.NoError(t, err)
	first, err := store.CurrentLeaderboard(context.Background())
	require.NoError(t, err)

	_, err = o.RecomputeAll(context.Background())
	require.NoError(t, err)
	second, err := store.CurrentLeaderboard(context.Background())
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestRecomputeAllEntriesMatchSummaries(t *testing.T) {
	store := memory.NewStore()
	seedUser(store, "eve", "", 420, 380)

	o := newOrchestrator(store)
	_, err := o.RecomputeAll(context.Background())
	require.NoError(t, err)

	aggregator := aggregate.NewAggregator(store, store)
	summary, err := aggregator.Summarize(context.Background(), "eve")
	require.NoError(t, err)

	entries, err := store.CurrentLeaderboard(context.Background())
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	require.Equal(t, summary.TotalActivities, entry.TotalActivities)
	require.Equal(t, summary.TotalDuration, entry.TotalDuration)
	require.Equal(t, summary.TotalCalories, entry.TotalCalories)
	require.Equal(t, summary.TotalDistance, entry.TotalDistance)
}

func TestRecomputeAllRanksByConfiguredMetric(t *testing.T) {
	store := memory.NewStore()
	seedUser(store, "long-haul", "", 100, 100, 100) // most duration at 10 min per 100 cal
	seedUser(store, "sprinter", "", 900)

	o := newOrchestrator(store, WithMetric(rank.MetricActivities))
	_, err := o.RecomputeAll(context.Background())
	require.NoError(t, err)

	entries, err := store.CurrentLeaderboard(context.Background())
	require.NoError(t, err)
	require.Equal(t, "long-haul", entries[0].UserID)
}

type gatedIdentity struct {
	domain.IdentityStore
	started     chan struct{}
	release     chan struct{}
	startedOnce sync.Once
}

func (g *gatedIdentity) ListAllUserIDs(ctx context.Context) ([]string, error) {
	g.startedOnce.Do(func() { close(g.started) })
	<-g.release
	return g.IdentityStore.ListAllUserIDs(ctx)
}

func TestRecomputeAllRejectsOverlappingPass(t *testing.T) {
	store := memory.NewStore()
	seedUser(store, "solo", "", 100)

	gate := &gatedIdentity{
		IdentityStore: store,
		started:       make(chan struct{}),
		release:       make(chan struct{}),
	}
	aggregator := aggregate.NewAggregator(store, store)
	o := NewOrchestrator(aggregator, gate, store, WithLogger(quietLogger()))

	done := make(chan error, 1)
	go func() {
		_, err := o.RecomputeAll(context.Background())
		done <- err
	}()

	<-gate.started
	_, err := o.RecomputeAll(context.Background())
	require.ErrorIs(t, err, domain.ErrRecomputeInProgress)

	close(gate.release)
	require.NoError(t, <-done)

	// Once the first pass finishes the lock is free again.
	_, err = o.RecomputeAll(context.Background())
	require.NoError(t, err)
}

func TestRecomputeAllBoundedConcurrency(t *testing.T) {
	store := memory.NewStore()
	for i := 0; i < 40; i++ {
		seedUser(store, "user-"+string(rune('a'+i%26))+string(rune('a'+i/26)), "", 100*(i+1))
	}

	o := newOrchestrator(store, WithConcurrency(3))
	report, err := o.RecomputeAll(context.Background())
	require.NoError(t, err)
	require.Equal(t, 40, report.UsersProcessed)
	require.Equal(t, 40, report.EntriesWritten)
}
