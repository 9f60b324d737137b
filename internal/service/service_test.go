package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/leaderboard/internal/aggregate"
	"example.com/leaderboard/internal/domain"
	"example.com/leaderboard/internal/recompute"
	"example.com/leaderboard/internal/rollup"
	"example.com/leaderboard/internal/store/memory"
)

func newService(store *memory.Store) *Service {
	aggregator := aggregate.NewAggregator(store, store)
	orchestrator := recompute.NewOrchestrator(aggregator, store, store)
	teamRollup := rollup.NewRollup(store, store)
	return New(aggregator, teamRollup, orchestrator, store)
}

func seedEntries(t *testing.T, store *memory.Store) {
	t.Helper()
	now := time.Now().UTC()
	err := store.ReplaceLeaderboard(context.Background(), []domain.LeaderboardEntry{
		{UserID: "u1", TeamID: "t1", Rank: 1, TotalCalories: 900, UpdatedAt: now},
		{UserID: "u2", TeamID: "t2", Rank: 2, TotalCalories: 800, UpdatedAt: now},
		{UserID: "u3", TeamID: "t1", Rank: 3, TotalCalories: 700, UpdatedAt: now},
		{UserID: "u4", TeamID: "t2", Rank: 4, TotalCalories: 600, UpdatedAt: now},
	})
	require.NoError(t, err)
}

func TestGetLeaderboardOrdersByRank(t *testing.T) {
	store := memory.NewStore()
	seedEntries(t, store)

	svc := newService(store)
	entries, err := svc.GetLeaderboard(context.Background(), 0, "")
	require.NoError(t, err)
	require.Len(t, entries, 4)
	for i, entry := range entries {
		require.Equal(t, i+1, entry.Rank)
	}
}

func TestGetLeaderboardFiltersTeamBeforeTruncating(t *testing.T) {
	store := memory.NewStore()
	seedEntries(t, store)

	svc := newService(store)
	entries, err := svc.GetLeaderboard(context.Background(), 2, "t2")
	require.NoError(t, err)

	// Both t2 members survive even though one sits below rank 2 globally.
	require.Len(t, entries, 2)
	require.Equal(t, "u2", entries[0].UserID)
	require.Equal(t, "u4", entries[1].UserID)
}

func TestGetLeaderboardLimitTruncates(t *testing.T) {
	store := memory.NewStore()
	seedEntries(t, store)

	svc := newService(store)
	entries, err := svc.GetLeaderboard(context.Background(), 3, "")
	require.NoError(t, err)
	require.Len(t, entries, 3)
	require.Equal(t, "u3", entries[2].UserID)
}

func TestGetLeaderboardEmptyBeforeFirstPass(t *testing.T) {
	store := memory.NewStore()

	svc := newService(store)
	entries, err := svc.GetLeaderboard(context.Background(), 10, "")
	require.NoError(t, err)
	require.Empty(t, entries)
}
