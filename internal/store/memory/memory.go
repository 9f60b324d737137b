// Package memory stores users, teams, activities and the leaderboard in
// memory for local development and tests.
package memory

import (
	"context"
	"strings"
	"sync"

	"github.com/google/uuid"

	"example.com/leaderboard/internal/domain"
)

// Store implements the activity, identity and leaderboard collaborator
// interfaces over in-memory maps.
type Store struct {
	mu         sync.RWMutex
	users      map[string]string // user id -> team id ("" when unassigned)
	teams      map[string]domain.Team
	activities map[string][]domain.ActivityRecord // keyed by user id

	// snapshot is replaced wholesale on ReplaceLeaderboard; readers copy it
	// out under the read lock, so a pass in flight never leaks a partial set.
	snapshot        []domain.LeaderboardEntry
	snapshotVersion uint64
}

// NewStore constructs an empty Store.
func NewStore() *Store {
	return &Store{
		users:      make(map[string]string),
		teams:      make(map[string]domain.Team),
		activities: make(map[string][]domain.ActivityRecord),
	}
}

// AddTeam registers a team and returns its id.
func (s *Store) AddTeam(team domain.Team) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(team.ID) == "" {
		team.ID = uuid.NewString()
	}
	s.teams[team.ID] = team
	return team.ID
}

// AddUser registers a user with an optional team assignment and returns the
// user id. The team id is not checked against the team table: dangling
// references are a legal state, not an error.
func (s *Store) AddUser(userID, teamID string) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(userID) == "" {
		userID = uuid.NewString()
	}
	s.users[userID] = teamID
	return userID
}

// RemoveTeam deletes a team while leaving member assignments in place,
// producing the orphaned-reference state the aggregation core must tolerate.
func (s *Store) RemoveTeam(teamID string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.teams, teamID)
}

// AddActivity appends a record for its user and returns the record id.
func (s *Store) AddActivity(record domain.ActivityRecord) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(record.ID) == "" {
		record.ID = uuid.NewString()
	}
	s.activities[record.UserID] = append(s.activities[record.UserID], record)
	return record.ID
}

// ListActivitiesByUser implements domain.ActivityStore.
func (s *Store) ListActivitiesByUser(ctx context.Context, userID string) ([]domain.ActivityRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records := s.activities[userID]
	out := make([]domain.ActivityRecord, len(records))
	copy(out, records)
	return out, nil
}

// ListAllUserIDs implements domain.IdentityStore.
func (s *Store) ListAllUserIDs(ctx context.Context) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0, len(s.users))
	for id := range s.users {
		out = append(out, id)
	}
	return out, nil
}

// ListTeamMembers implements domain.IdentityStore.
func (s *Store) ListTeamMembers(ctx context.Context, teamID string) ([]string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]string, 0)
	for id, team := range s.users {
		if team == teamID {
			out = append(out, id)
		}
	}
	return out, nil
}

// UserExists implements domain.IdentityStore.
func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.users[userID]
	return ok, nil
}

// TeamExists implements domain.IdentityStore.
func (s *Store) TeamExists(ctx context.Context, teamID string) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.teams[teamID]
	return ok, nil
}

// GetTeam implements domain.IdentityStore.
func (s *Store) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	team, ok := s.teams[teamID]
	if !ok {
		return nil, nil
	}
	return &team, nil
}

// UserTeam implements domain.IdentityStore.
func (s *Store) UserTeam(ctx context.Context, userID string) (string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.users[userID], nil
}

// ReplaceLeaderboard implements domain.LeaderboardStore by swapping the
// whole snapshot under the write lock.
func (s *Store) ReplaceLeaderboard(ctx context.Context, entries []domain.LeaderboardEntry) error {
	next := make([]domain.LeaderboardEntry, len(entries))
	copy(next, entries)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.snapshot = next
	s.snapshotVersion++
	return nil
}

// CurrentLeaderboard implements domain.LeaderboardStore.
func (s *Store) CurrentLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]domain.LeaderboardEntry, len(s.snapshot))
	copy(out, s.snapshot)
	return out, nil
}

// SnapshotVersion reports how many times the leaderboard has been replaced.
func (s *Store) SnapshotVersion() uint64 {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snapshotVersion
}
