package db

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
)

// CreateSearchRecord appends a row to the search history log. History is
// append-only; rows are never updated.
func (db *DB) CreateSearchRecord(ctx context.Context, userID uuid.UUID, query string, filters any, resultCount int) error {
	filtersJSON, err := json.Marshal(filters)
	if err != nil {
		return fmt.Errorf("failed to marshal search filters: %w", err)
	}

	_, err = db.pool.Exec(ctx,
		`INSERT INTO search_history (user_id, query, filters, result_count)
		 VALUES ($1, $2, $3, $4)`,
		userID, query, filtersJSON, resultCount,
	)
	if err != nil {
		return fmt.Errorf("failed to create search record: %w", err)
	}
	return nil
}

// ListSearchRecords retrieves a user's most recent searches, newest first.
func (db *DB) ListSearchRecords(ctx context.Context, userID uuid.UUID, limit int) ([]SearchRecord, error) {
	if limit <= 0 {
		limit = 10
	}

	rows, err := db.pool.Query(ctx,
		`SELECT id, user_id, query, filters, result_count, created_at
		 FROM search_history WHERE user_id = $1
		 ORDER BY created_at DESC LIMIT $2`,
		userID, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list search records: %w", err)
	}
	defer rows.Close()

	var records []SearchRecord
	for rows.Next() {
		var r SearchRecord
		if err := rows.Scan(&r.ID, &r.UserID, &r.Query, &r.Filters, &r.ResultCount, &r.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan search record: %w", err)
		}
		records = append(records, r)
	}
	return records, rows.Err()
}

// DeleteSearchRecord removes a single history row owned by the user.
func (db *DB) DeleteSearchRecord(ctx context.Context, userID, recordID uuid.UUID) error {
	tag, err := db.pool.Exec(ctx,
		`DELETE FROM search_history WHERE id = $1 AND user_id = $2`,
		recordID, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete search record: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("search record not found: %s", recordID)
	}
	return nil
}

// DeleteAllSearchRecords clears a user's entire search history.
func (db *DB) DeleteAllSearchRecords(ctx context.Context, userID uuid.UUID) error {
	_, err := db.pool.Exec(ctx,
		`DELETE FROM search_history WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete search history: %w", err)
	}
	return nil
}
