package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrUserNotFound is returned when the identity collaborator does not
	// know the requested user id. A known user with zero activities is not
	// an error.
	ErrUserNotFound = errors.New("user not found")
	// ErrTeamNotFound is returned when the identity collaborator does not
	// know the requested team id.
	ErrTeamNotFound = errors.New("team not found")
	// ErrInvalidMetric is returned when a ranking metric name is not one of
	// the recognized summary fields.
	ErrInvalidMetric = errors.New("invalid ranking metric")
	// ErrRecomputeInProgress rejects an overlapping recompute pass before it
	// has any side effects.
	ErrRecomputeInProgress = errors.New("recompute already in progress")
)

// MalformedRecordError marks an activity record that cannot be aggregated.
// During a full pass it is recorded in the report rather than propagated;
// on a direct Summarize call it reaches the caller.
type MalformedRecordError struct {
	RecordID string
	Reason   string
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("malformed activity record %s: %s", e.RecordID, e.Reason)
}
