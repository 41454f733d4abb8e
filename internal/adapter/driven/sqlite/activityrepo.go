package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/repopulse/repopulse/internal/domain/model"
)

// ActivityRepo persists contributor activity documents keyed by
// (username, repository ID).
type ActivityRepo struct {
	db *DB
}

// NewActivityRepo creates a contributor activity repository backed by the
// given database.
func NewActivityRepo(db *DB) *ActivityRepo {
	return &ActivityRepo{db: db}
}

const upsertActivityQuery = `
INSERT INTO contributor_activity (
	username, repository_id, weekly_stats, recent_events, last_updated, collected_at
) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (username, repository_id) DO UPDATE SET
	weekly_stats = excluded.weekly_stats,
	recent_events = excluded.recent_events,
	last_updated = excluded.last_updated,
	collected_at = excluded.collected_at
`

const selectActivityColumns = `
SELECT username, repository_id, weekly_stats, recent_events, last_updated, collected_at
FROM contributor_activity
`

// Upsert writes the full document, replacing any existing row with the same
// (username, repository ID). CollectedAt is stamped here, not taken from the
// argument.
func (r *ActivityRepo) Upsert(ctx context.Context, activity model.ContributorActivity) error {
	weeks, err := json.Marshal(activity.Weeks)
	if err != nil {
		return fmt.Errorf("marshal weekly stats for %s: %w", activity.Username, err)
	}
	events, err := json.Marshal(activity.RecentEvents)
	if err != nil {
		return fmt.Errorf("marshal recent events for %s: %w", activity.Username, err)
	}

	_, err = r.db.Writer.ExecContext(ctx, upsertActivityQuery,
		activity.Username, activity.RepositoryID, string(weeks), string(events),
		formatTime(activity.LastUpdated), formatTime(now()),
	)
	if err != nil {
		return fmt.Errorf("upsert activity for %s in repository %d: %w", activity.Username, activity.RepositoryID, err)
	}
	return nil
}

// Get returns one contributor's activity in a repository, or model.ErrNotFound.
func (r *ActivityRepo) Get(ctx context.Context, username string, repositoryID int64) (*model.ContributorActivity, error) {
	row := r.db.Reader.QueryRowContext(ctx,
		selectActivityColumns+"WHERE username = ? AND repository_id = ?", username, repositoryID)
	activity, err := scanActivity(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("activity for %s in repository %d: %w", username, repositoryID, model.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("get activity for %s: %w", username, err)
	}
	return activity, nil
}

// GetByRepository returns all contributor activity for a repository, ordered
// by username for stable output.
func (r *ActivityRepo) GetByRepository(ctx context.Context, repositoryID int64) ([]model.ContributorActivity, error) {
	rows, err := r.db.Reader.QueryContext(ctx,
		selectActivityColumns+"WHERE repository_id = ? ORDER BY username ASC", repositoryID)
	if err != nil {
		return nil, fmt.Errorf("list activity for repository %d: %w", repositoryID, err)
	}
	defer rows.Close()

	activities := []model.ContributorActivity{}
	for rows.Next() {
		activity, err := scanActivity(rows)
		if err != nil {
			return nil, fmt.Errorf("scan activity row: %w", err)
		}
		activities = append(activities, *activity)
	}
	return activities, rows.Err()
}

func scanActivity(s scanner) (*model.ContributorActivity, error) {
	var (
		activity                 model.ContributorActivity
		weeks, events            string
		lastUpdated, collectedAt string
	)

	err := s.Scan(
		&activity.Username, &activity.RepositoryID, &weeks, &events,
		&lastUpdated, &collectedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(weeks), &activity.Weeks); err != nil {
		return nil, fmt.Errorf("unmarshal weekly stats: %w", err)
	}
	if err := json.Unmarshal([]byte(events), &activity.RecentEvents); err != nil {
		return nil, fmt.Errorf("unmarshal recent events: %w", err)
	}
	if activity.LastUpdated, err = parseTime(lastUpdated); err != nil {
		return nil, fmt.Errorf("parse last_updated: %w", err)
	}
	if activity.CollectedAt, err = parseTime(collectedAt); err != nil {
		return nil, fmt.Errorf("parse collected_at: %w", err)
	}

	return &activity, nil
}
