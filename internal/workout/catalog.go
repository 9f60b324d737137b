// Package workout keeps the suggestion catalog served alongside the
// leaderboard.
package workout

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
)

// Workout is a suggested routine users can browse by difficulty or type.
type Workout struct {
	ID               string `json:"id"`
	Name             string `json:"name"`
	Description      string `json:"description"`
	ActivityType     string `json:"activity_type"`
	Difficulty       string `json:"difficulty"`
	DurationMin      int    `json:"duration_min"`
	CaloriesEstimate int    `json:"calories_estimate"`
}

// ErrUnknownFilterField rejects a filter over a field the catalog does not
// recognize.
var ErrUnknownFilterField = errors.New("unknown workout filter field")

// Field names a workout attribute the catalog can filter by.
type Field string

// Recognized filter fields.
const (
	FieldDifficulty   Field = "difficulty"
	FieldActivityType Field = "activity_type"
)

// Filter selects workouts matching a single recognized field. Selection is a
// typed lookup rather than string-keyed struct access; an unrecognized field
// fails up front.
type Filter struct {
	Field Field
	Value string
}

var fieldValues = map[Field]func(Workout) string{
	FieldDifficulty:   func(w Workout) string { return w.Difficulty },
	FieldActivityType: func(w Workout) string { return w.ActivityType },
}

// Catalog stores workouts in memory.
type Catalog struct {
	mu       sync.RWMutex
	workouts map[string]Workout
}

// NewCatalog constructs an empty Catalog.
func NewCatalog() *Catalog {
	return &Catalog{workouts: make(map[string]Workout)}
}

// NewDefaultCatalog constructs a Catalog pre-loaded with the built-in
// suggestions.
func NewDefaultCatalog() *Catalog {
	c := NewCatalog()
	for _, w := range defaultWorkouts {
		c.Add(w)
	}
	return c
}

// Add registers a workout and returns its id.
func (c *Catalog) Add(w Workout) string {
	c.mu.Lock()
	defer c.mu.Unlock()
	if strings.TrimSpace(w.ID) == "" {
		w.ID = uuid.NewString()
	}
	c.workouts[w.ID] = w
	return w.ID
}

// List returns workouts matching every supplied filter, ordered by name.
func (c *Catalog) List(ctx context.Context, filters ...Filter) ([]Workout, error) {
	for _, filter := range filters {
		if _, ok := fieldValues[filter.Field]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownFilterField, string(filter.Field))
		}
	}

	c.mu.RLock()
	defer c.mu.RUnlock()

	out := make([]Workout, 0, len(c.workouts))
next:
	for _, w := range c.workouts {
		for _, filter := range filters {
			if !strings.EqualFold(fieldValues[filter.Field](w), filter.Value) {
				continue next
			}
		}
		out = append(out, w)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out, nil
}
