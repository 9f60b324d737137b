package domain

import "context"

// ActivityStore is the read interface over raw activity records.
type ActivityStore interface {
	ListActivitiesByUser(ctx context.Context, userID string) ([]ActivityRecord, error)
}

// IdentityStore answers who exists and who belongs to which team. The core
// does no referential-integrity enforcement of its own: a dangling team id on
// an activity or entry flows through untouched.
type IdentityStore interface {
	ListAllUserIDs(ctx context.Context) ([]string, error)
	ListTeamMembers(ctx context.Context, teamID string) ([]string, error)
	UserExists(ctx context.Context, userID string) (bool, error)
	TeamExists(ctx context.Context, teamID string) (bool, error)
	GetTeam(ctx context.Context, teamID string) (*Team, error)
	// UserTeam returns the team id the user is assigned to, empty if none.
	UserTeam(ctx context.Context, userID string) (string, error)
}

// LeaderboardStore persists the ranked entry set. ReplaceLeaderboard swaps
// the full set atomically: a concurrent reader observes either the previous
// set or the new one, never a mix.
type LeaderboardStore interface {
	ReplaceLeaderboard(ctx context.Context, entries []LeaderboardEntry) error
	CurrentLeaderboard(ctx context.Context) ([]LeaderboardEntry, error)
}
