// Package service bundles the aggregation core behind the operations the
// HTTP layer consumes.
package service

import (
	"context"
	"fmt"
	"sort"

	"example.com/leaderboard/internal/aggregate"
	"example.com/leaderboard/internal/domain"
	"example.com/leaderboard/internal/recompute"
	"example.com/leaderboard/internal/rollup"
)

// Service exposes the core operations: per-user summaries, the ranked
// leaderboard, team statistics and the full recompute pass.
type Service struct {
	aggregator   *aggregate.Aggregator
	rollup       *rollup.Rollup
	orchestrator *recompute.Orchestrator
	leaderboard  domain.LeaderboardStore
}

// New constructs a Service.
func New(aggregator *aggregate.Aggregator, rollup *rollup.Rollup, orchestrator *recompute.Orchestrator, leaderboard domain.LeaderboardStore) *Service {
	return &Service{
		aggregator:   aggregator,
		rollup:       rollup,
		orchestrator: orchestrator,
		leaderboard:  leaderboard,
	}
}

// Summarize recomputes one user's summary on demand.
func (s *Service) Summarize(ctx context.Context, userID string) (domain.UserSummary, error) {
	return s.aggregator.Summarize(ctx, userID)
}

// RecomputeAll runs a full pass. A pass already in flight is rejected with
// domain.ErrRecomputeInProgress.
func (s *Service) RecomputeAll(ctx context.Context) (domain.RecomputeReport, error) {
	return s.orchestrator.RecomputeAll(ctx)
}

// GetLeaderboard returns the current entries ordered by rank ascending. The
// team filter applies before the limit truncates.
func (s *Service) GetLeaderboard(ctx context.Context, limit int, teamID string) ([]domain.LeaderboardEntry, error) {
	entries, err := s.leaderboard.CurrentLeaderboard(ctx)
	if err != nil {
		return nil, fmt.Errorf("load leaderboard: %w", err)
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Rank < entries[j].Rank })

	if teamID != "" {
		filtered := entries[:0]
		for _, entry := range entries {
			if entry.TeamID == teamID {
				filtered = append(filtered, entry)
			}
		}
		entries = filtered
	}
	if limit > 0 && len(entries) > limit {
		entries = entries[:limit]
	}
	return entries, nil
}

// GetTeamStat computes the team rollup from the current entries.
func (s *Service) GetTeamStat(ctx context.Context, teamID string) (domain.TeamStat, error) {
	return s.rollup.RollupTeam(ctx, teamID)
}
