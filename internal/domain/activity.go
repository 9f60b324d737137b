package domain

import (
	"fmt"
	"time"
)

// ActivityRecord is the raw workout record owned by the activity store.
// Records are immutable as far as aggregation is concerned; edits or deletes
// upstream invalidate derived summaries and require a recompute.
type ActivityRecord struct {
	ID             string
	UserID         string
	ActivityType   string
	DurationMin    int
	CaloriesBurned int
	Distance       *float64 // miles, absent for gym-style activities
	Date           time.Time
}

// Validate reports whether the record is usable for aggregation. A record
// with negative figures is malformed and excludes its user from the current
// recompute pass.
func (r ActivityRecord) Validate() error {
	if r.DurationMin < 0 {
		return &MalformedRecordError{RecordID: r.ID, Reason: fmt.Sprintf("negative duration %d", r.DurationMin)}
	}
	if r.CaloriesBurned < 0 {
		return &MalformedRecordError{RecordID: r.ID, Reason: fmt.Sprintf("negative calories %d", r.CaloriesBurned)}
	}
	if r.Distance != nil && *r.Distance < 0 {
		return &MalformedRecordError{RecordID: r.ID, Reason: fmt.Sprintf("negative distance %f", *r.Distance)}
	}
	return nil
}
