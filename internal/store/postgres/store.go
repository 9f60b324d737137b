// Package postgres provides pgx-backed persistence for the aggregation core.
package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"example.com/leaderboard/internal/domain"
)

// Store implements the activity, identity and leaderboard collaborator
// interfaces over PostgreSQL.
//
// The leaderboard is versioned: ReplaceLeaderboard writes a fresh version
// and flips the current-version pointer in the same transaction, so readers
// observe either the entirely-previous set or the entirely-new one. Only the
// previous version is retained after a flip.
type Store struct {
	pool *pgxpool.Pool
}

// NewStore constructs a Store.
func NewStore(pool *pgxpool.Pool) *Store {
	return &Store{pool: pool}
}

// ListActivitiesByUser implements domain.ActivityStore.
func (s *Store) ListActivitiesByUser(ctx context.Context, userID string) ([]domain.ActivityRecord, error) {
	const query = `SELECT activity_id, user_id, activity_type, duration_min, calories_burned, distance, activity_date
        FROM activities WHERE user_id=$1 ORDER BY activity_date DESC, activity_id`

	rows, err := s.pool.Query(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	records := make([]domain.ActivityRecord, 0)
	for rows.Next() {
		var record domain.ActivityRecord
		if err := rows.Scan(&record.ID, &record.UserID, &record.ActivityType, &record.DurationMin, &record.CaloriesBurned, &record.Distance, &record.Date); err != nil {
			return nil, err
		}
		records = append(records, record)
	}
	return records, rows.Err()
}

// ListAllUserIDs implements domain.IdentityStore.
func (s *Store) ListAllUserIDs(ctx context.Context) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id FROM users ORDER BY user_id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// ListTeamMembers implements domain.IdentityStore.
func (s *Store) ListTeamMembers(ctx context.Context, teamID string) ([]string, error) {
	rows, err := s.pool.Query(ctx, `SELECT user_id FROM users WHERE team_id=$1 ORDER BY user_id`, teamID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	ids := make([]string, 0)
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// UserExists implements domain.IdentityStore.
func (s *Store) UserExists(ctx context.Context, userID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM users WHERE user_id=$1)`, userID).Scan(&exists)
	return exists, err
}

// TeamExists implements domain.IdentityStore.
func (s *Store) TeamExists(ctx context.Context, teamID string) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM teams WHERE team_id=$1)`, teamID).Scan(&exists)
	return exists, err
}

// GetTeam implements domain.IdentityStore.
func (s *Store) GetTeam(ctx context.Context, teamID string) (*domain.Team, error) {
	var team domain.Team
	err := s.pool.QueryRow(ctx, `SELECT team_id, name, description FROM teams WHERE team_id=$1`, teamID).
		Scan(&team.ID, &team.Name, &team.Description)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &team, nil
}

// UserTeam implements domain.IdentityStore.
func (s *Store) UserTeam(ctx context.Context, userID string) (string, error) {
	var teamID *string
	err := s.pool.QueryRow(ctx, `SELECT team_id FROM users WHERE user_id=$1`, userID).Scan(&teamID)
	if errors.Is(err, pgx.ErrNoRows) {
		return "", nil
	}
	if err != nil {
		return "", err
	}
	if teamID == nil {
		return "", nil
	}
	return *teamID, nil
}

// ReplaceLeaderboard implements domain.LeaderboardStore.
func (s *Store) ReplaceLeaderboard(ctx context.Context, entries []domain.LeaderboardEntry) error {
	tx, err := s.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	var current int64
	if err = tx.QueryRow(ctx, `SELECT version FROM leaderboard_current WHERE singleton FOR UPDATE`).Scan(&current); err != nil {
		return fmt.Errorf("read current version: %w", err)
	}
	next := current + 1

	const insert = `INSERT INTO leaderboard_entries
        (version, user_id, team_id, rank, total_activities, total_duration, total_calories, total_distance, updated_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`
	for _, entry := range entries {
		if _, err = tx.Exec(ctx, insert,
			next,
			entry.UserID,
			nullIfEmpty(entry.TeamID),
			entry.Rank,
			entry.TotalActivities,
			entry.TotalDuration,
			entry.TotalCalories,
			entry.TotalDistance,
			entry.UpdatedAt,
		); err != nil {
			return err
		}
	}

	if _, err = tx.Exec(ctx, `UPDATE leaderboard_current SET version=$1 WHERE singleton`, next); err != nil {
		return err
	}

	// Keep the outgoing version for readers still holding it; everything
	// older is unreachable.
	if _, err = tx.Exec(ctx, `DELETE FROM leaderboard_entries WHERE version < $1`, current); err != nil {
		return err
	}

	err = tx.Commit(ctx)
	return err
}

// CurrentLeaderboard implements domain.LeaderboardStore.
func (s *Store) CurrentLeaderboard(ctx context.Context) ([]domain.LeaderboardEntry, error) {
	const query = `SELECT e.user_id, e.team_id, e.rank, e.total_activities, e.total_duration, e.total_calories, e.total_distance, e.updated_at
        FROM leaderboard_entries e
        JOIN leaderboard_current c ON c.singleton AND e.version = c.version
        ORDER BY e.rank`

	rows, err := s.pool.Query(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	entries := make([]domain.LeaderboardEntry, 0)
	for rows.Next() {
		var entry domain.LeaderboardEntry
		var teamID *string
		if err := rows.Scan(&entry.UserID, &teamID, &entry.Rank, &entry.TotalActivities, &entry.TotalDuration, &entry.TotalCalories, &entry.TotalDistance, &entry.UpdatedAt); err != nil {
			return nil, err
		}
		if teamID != nil {
			entry.TeamID = *teamID
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func nullIfEmpty(value string) interface{} {
	if value == "" {
		return nil
	}
	return value
}
