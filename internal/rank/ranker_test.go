package rank

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"example.com/leaderboard/internal/domain"
)

var passTime = time.Date(2026, time.March, 15, 12, 0, 0, 0, time.UTC)

func TestRankOrdersByCaloriesDescending(t *testing.T) {
	summaries := []domain.UserSummary{
		{UserID: "user-a", TotalCalories: 500},
		{UserID: "user-b", TotalCalories: 800},
	}

	entries, err := Rank(summaries, MetricCalories, passTime)
	require.NoError(t, err)
	require.Len(t, entries, 2)

	require.Equal(t, "user-b", entries[0].UserID)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, "user-a", entries[1].UserID)
	require.Equal(t, 2, entries[1].Rank)
}

func TestRankBreaksTiesByAscendingUserID(t *testing.T) {
	summaries := []domain.UserSummary{
		{UserID: "bob", TotalCalories: 500},
		{UserID: "alice", TotalCalories: 500},
	}

	entries, err := Rank(summaries, MetricCalories, passTime)
	require.NoError(t, err)

	require.Equal(t, "alice", entries[0].UserID)
	require.Equal(t, 1, entries[0].Rank)
	require.Equal(t, "bob", entries[1].UserID)
	require.Equal(t, 2, entries[1].Rank)
}

func TestRankAssignsDenseRanksEvenWhenTied(t *testing.T) {
	summaries := []domain.UserSummary{
		{UserID: "u3", TotalCalories: 100},
		{UserID: "u1", TotalCalories: 100},
		{UserID: "u2", TotalCalories: 100},
		{UserID: "u4", TotalCalories: 900},
	}

	entries, err := Rank(summaries, MetricCalories, passTime)
	require.NoError(t, err)

	seen := make(map[int]bool)
	for _, entry := range entries {
		require.False(t, seen[entry.Rank], "duplicate rank %d", entry.Rank)
		seen[entry.Rank] = true
	}
	for r := 1; r <= len(summaries); r++ {
		require.True(t, seen[r], "missing rank %d", r)
	}
}

func TestRankIsDeterministic(t *testing.T) {
	summaries := []domain.UserSummary{
		{UserID: "delta", TotalCalories: 300},
		{UserID: "charlie", TotalCalories: 300},
		{UserID: "bravo", TotalCalories: 700},
		{UserID: "alpha", TotalCalories: 300},
	}

	first, err := Rank(summaries, MetricCalories, passTime)
	require.NoError(t, err)
	second, err := Rank(summaries, MetricCalories, passTime)
	require.NoError(t, err)

	require.Equal(t, first, second)
}

func TestRankDoesNotMutateInput(t *testing.T) {
	summaries := []domain.UserSummary{
		{UserID: "z", TotalCalories: 1},
		{UserID: "a", TotalCalories: 2},
	}

	_, err := Rank(summaries, MetricCalories, passTime)
	require.NoError(t, err)

	require.Equal(t, "z", summaries[0].UserID)
	require.Equal(t, "a", summaries[1].UserID)
}

func TestRankCopiesSummaryFieldsVerbatim(t *testing.T) {
	summaries := []domain.UserSummary{
		{UserID: "eve", TeamID: "team-1", TotalActivities: 7, TotalDuration: 310, TotalCalories: 2100, TotalDistance: 12.75},
	}

	entries, err := Rank(summaries, MetricCalories, passTime)
	require.NoError(t, err)
	require.Len(t, entries, 1)

	entry := entries[0]
	require.Equal(t, "eve", entry.UserID)
	require.Equal(t, "team-1", entry.TeamID)
	require.Equal(t, 7, entry.TotalActivities)
	require.Equal(t, 310, entry.TotalDuration)
	require.Equal(t, 2100, entry.TotalCalories)
	require.Equal(t, 12.75, entry.TotalDistance)
	require.Equal(t, passTime, entry.UpdatedAt)
}

func TestRankByDistance(t *testing.T) {
	summaries := []domain.UserSummary{
		{UserID: "walker", TotalDistance: 4.5, TotalCalories: 900},
		{UserID: "runner", TotalDistance: 26.2, TotalCalories: 100},
	}

	entries, err := Rank(summaries, MetricDistance, passTime)
	require.NoError(t, err)

	require.Equal(t, "runner", entries[0].UserID)
	require.Equal(t, "walker", entries[1].UserID)
}

func TestRankRejectsUnknownMetric(t *testing.T) {
	_, err := Rank(nil, Metric("steps"), passTime)
	require.ErrorIs(t, err, domain.ErrInvalidMetric)
}

func TestParseMetric(t *testing.T) {
	metric, err := ParseMetric("")
	require.NoError(t, err)
	require.Equal(t, DefaultMetric, metric)

	metric, err = ParseMetric("duration")
	require.NoError(t, err)
	require.Equal(t, MetricDuration, metric)

	_, err = ParseMetric("steps")
	require.ErrorIs(t, err, domain.ErrInvalidMetric)
}

func TestRankEmptyInput(t *testing.T) {
	entries, err := Rank(nil, MetricCalories, passTime)
	require.NoError(t, err)
	require.Empty(t, entries)
}
