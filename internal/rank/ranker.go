// Package rank assigns a total order over user summaries.
package rank

import (
	"fmt"
	"sort"
	"time"

	"example.com/leaderboard/internal/domain"
)

// Metric names a summary field the leaderboard can be ordered by.
type Metric string

// Recognized ranking metrics.
const (
	MetricCalories   Metric = "calories"
	MetricDuration   Metric = "duration"
	MetricActivities Metric = "activities"
	MetricDistance   Metric = "distance"
)

// DefaultMetric orders the leaderboard when no metric is requested.
const DefaultMetric = MetricCalories

// metricValues maps each recognized metric to its summary field. Selection
// is by typed lookup, not by reflecting over field names: an unknown name is
// rejected up front with ErrInvalidMetric.
var metricValues = map[Metric]func(domain.UserSummary) float64{
	MetricCalories:   func(s domain.UserSummary) float64 { return float64(s.TotalCalories) },
	MetricDuration:   func(s domain.UserSummary) float64 { return float64(s.TotalDuration) },
	MetricActivities: func(s domain.UserSummary) float64 { return float64(s.TotalActivities) },
	MetricDistance:   func(s domain.UserSummary) float64 { return s.TotalDistance },
}

// ParseMetric resolves a metric name from a request. An empty name selects
// the default.
func ParseMetric(name string) (Metric, error) {
	if name == "" {
		return DefaultMetric, nil
	}
	metric := Metric(name)
	if _, ok := metricValues[metric]; !ok {
		return "", fmt.Errorf("%w: %q", domain.ErrInvalidMetric, name)
	}
	return metric, nil
}

// Rank orders the summaries by the metric, descending, and assigns dense
// sequential ranks 1..N. Equal metric values are broken by ascending user id
// (byte-wise), so repeated runs over identical input produce identical
// ordering. Ties do not share a rank; the secondary sort fixes the sequence.
//
// The input slice is left untouched; entries copy every summary field
// verbatim and stamp UpdatedAt with the supplied pass time.
func Rank(summaries []domain.UserSummary, metric Metric, now time.Time) ([]domain.LeaderboardEntry, error) {
	value, ok := metricValues[metric]
	if !ok {
		return nil, fmt.Errorf("%w: %q", domain.ErrInvalidMetric, string(metric))
	}

	ordered := make([]domain.UserSummary, len(summaries))
	copy(ordered, summaries)
	sort.Slice(ordered, func(i, j int) bool {
		vi, vj := value(ordered[i]), value(ordered[j])
		if vi != vj {
			return vi > vj
		}
		return ordered[i].UserID < ordered[j].UserID
	})

	entries := make([]domain.LeaderboardEntry, len(ordered))
	for i, summary := range ordered {
		entries[i] = domain.LeaderboardEntry{
			UserID:          summary.UserID,
			TeamID:          summary.TeamID,
			Rank:            i + 1,
			TotalActivities: summary.TotalActivities,
			TotalDuration:   summary.TotalDuration,
			TotalCalories:   summary.TotalCalories,
			TotalDistance:   summary.TotalDistance,
			UpdatedAt:       now,
		}
	}
	return entries, nil
}
