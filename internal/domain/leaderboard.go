// Package domain defines the aggregation core's types, errors and the
// collaborator interfaces it consumes.
package domain

import "time"

// UserSummary is the wholesale rollup of one user's activity records. It is
// always recomputed from scratch, never patched field by field.
type UserSummary struct {
	UserID          string
	TeamID          string // empty when the user has no team assignment
	TotalActivities int
	TotalDuration   int
	TotalCalories   int
	TotalDistance   float64
}

// LeaderboardEntry is a ranked copy of a UserSummary produced by a recompute
// pass. Ranks are dense and unique across the whole population of the pass.
type LeaderboardEntry struct {
	UserID          string
	TeamID          string
	Rank            int
	TotalActivities int
	TotalDuration   int
	TotalCalories   int
	TotalDistance   float64
	UpdatedAt       time.Time
}

// TeamStat is the on-demand rollup of a team's leaderboard entries. It is a
// read-through view and is never persisted.
type TeamStat struct {
	TeamID          string
	TeamName        string
	TotalActivities int
	TotalCalories   int
	TotalDistance   float64
	// MemberCount comes from the membership view, not from the entry set, so
	// it may exceed the number of members holding entries.
	MemberCount int
}

// RecomputeError records one user excluded from a pass and why.
type RecomputeError struct {
	UserID string
	Cause  string
}

// RecomputeReport describes the outcome of a full recompute pass.
type RecomputeReport struct {
	UsersProcessed int
	EntriesWritten int
	Errors         []RecomputeError
	StartedAt      time.Time
	FinishedAt     time.Time
}

// Team identifies a team in the identity collaborator.
type Team struct {
	ID          string
	Name        string
	Description string
}
