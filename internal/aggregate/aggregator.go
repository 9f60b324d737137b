// Package aggregate rolls a user's raw activity records up into a summary.
package aggregate

import (
	"context"
	"fmt"
	"math"

	"example.com/leaderboard/internal/domain"
)

// Aggregator produces per-user summaries from the activity store. It has no
// side effects; persistence of derived data belongs to the recompute
// orchestrator.
type Aggregator struct {
	activities domain.ActivityStore
	identity   domain.IdentityStore
}

// NewAggregator constructs an Aggregator.
func NewAggregator(activities domain.ActivityStore, identity domain.IdentityStore) *Aggregator {
	return &Aggregator{activities: activities, identity: identity}
}

// Summarize recomputes the summary for one user from scratch.
//
// A user that exists but has no activity records yields a zero-valued
// summary, not an error. Records without a distance contribute to the
// activity, duration and calorie totals but not to the distance total. The
// distance total is rounded to 2 decimal places, half to even.
func (a *Aggregator) Summarize(ctx context.Context, userID string) (domain.UserSummary, error) {
	exists, err := a.identity.UserExists(ctx, userID)
	if err != nil {
		return domain.UserSummary{}, fmt.Errorf("check user %s: %w", userID, err)
	}
	if !exists {
		return domain.UserSummary{}, fmt.Errorf("summarize %s: %w", userID, domain.ErrUserNotFound)
	}

	teamID, err := a.identity.UserTeam(ctx, userID)
	if err != nil {
		return domain.UserSummary{}, fmt.Errorf("resolve team for %s: %w", userID, err)
	}

	records, err := a.activities.ListActivitiesByUser(ctx, userID)
	if err != nil {
		return domain.UserSummary{}, fmt.Errorf("list activities for %s: %w", userID, err)
	}

	summary := domain.UserSummary{UserID: userID, TeamID: teamID}
	for _, record := range records {
		if err := record.Validate(); err != nil {
			return domain.UserSummary{}, err
		}
		summary.TotalActivities++
		summary.TotalDuration += record.DurationMin
		summary.TotalCalories += record.CaloriesBurned
		if record.Distance != nil {
			summary.TotalDistance += *record.Distance
		}
	}
	summary.TotalDistance = RoundDistance(summary.TotalDistance)
	return summary, nil
}

// RoundDistance rounds a mileage total to 2 decimal places using
// round-half-to-even, the same rule applied everywhere a distance total is
// reported.
func RoundDistance(v float64) float64 {
	return math.RoundToEven(v*100) / 100
}
