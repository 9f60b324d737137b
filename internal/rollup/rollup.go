// Package rollup derives team statistics from the current leaderboard.
package rollup

import (
	"context"
	"fmt"

	"example.com/leaderboard/internal/aggregate"
	"example.com/leaderboard/internal/domain"
)

// Rollup computes team statistics on demand from the current entry set.
// Stats are a read-through view: they are never persisted, so they cannot
// drift from the entries they are derived from.
type Rollup struct {
	identity    domain.IdentityStore
	leaderboard domain.LeaderboardStore
}

// NewRollup constructs a Rollup.
func NewRollup(identity domain.IdentityStore, leaderboard domain.LeaderboardStore) *Rollup {
	return &Rollup{identity: identity, leaderboard: leaderboard}
}

// RollupTeam sums the leaderboard entries carrying the team id.
//
// MemberCount comes from the membership view independently of the entry set:
// a member with no activities yet has no entry, so the count may exceed the
// number of entries summed. A team that exists but has no members or entries
// yields a zero-valued stat, not an error.
func (r *Rollup) RollupTeam(ctx context.Context, teamID string) (domain.TeamStat, error) {
	exists, err := r.identity.TeamExists(ctx, teamID)
	if err != nil {
		return domain.TeamStat{}, fmt.Errorf("check team %s: %w", teamID, err)
	}
	if !exists {
		return domain.TeamStat{}, fmt.Errorf("rollup %s: %w", teamID, domain.ErrTeamNotFound)
	}

	stat := domain.TeamStat{TeamID: teamID}
	team, err := r.identity.GetTeam(ctx, teamID)
	if err != nil {
		return domain.TeamStat{}, fmt.Errorf("load team %s: %w", teamID, err)
	}
	if team != nil {
		stat.TeamName = team.Name
	}

	members, err := r.identity.ListTeamMembers(ctx, teamID)
	if err != nil {
		return domain.TeamStat{}, fmt.Errorf("list members of %s: %w", teamID, err)
	}
	stat.MemberCount = len(members)

	entries, err := r.leaderboard.CurrentLeaderboard(ctx)
	if err != nil {
		return domain.TeamStat{}, fmt.Errorf("load leaderboard: %w", err)
	}
	for _, entry := range entries {
		if entry.TeamID != teamID {
			continue
		}
		stat.TotalActivities += entry.TotalActivities
		stat.TotalCalories += entry.TotalCalories
		stat.TotalDistance += entry.TotalDistance
	}
	stat.TotalDistance = aggregate.RoundDistance(stat.TotalDistance)
	return stat, nil
}
