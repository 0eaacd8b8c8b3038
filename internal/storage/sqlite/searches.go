// SPDX-License-Identifier: MIT

package sqlite

import (
	"context"
	"database/sql"
	"fmt"
)

// RecentSearch is one remembered origin/destination pair of a user.
type RecentSearch struct {
	Origin      string
	Destination string
}

// SearchRepository remembers journey searches per Telegram user.
type SearchRepository struct {
	db *sql.DB
}

// NewSearchRepository constructs the repository.
func NewSearchRepository(db *sql.DB) *SearchRepository {
	return &SearchRepository{db: db}
}

// Record stores one search.
func (r *SearchRepository) Record(ctx context.Context, userID int64, origin, destination string) error {
	const query = `
        INSERT INTO searches (telegram_user_id, origin, destination)
        VALUES (?, ?, ?)
    `
	if _, err := r.db.ExecContext(ctx, query, userID, origin, destination); err != nil {
		return fmt.Errorf("record search: %w", err)
	}
	return nil
}

// Recent returns the user's latest distinct searches, newest first.
func (r *SearchRepository) Recent(ctx context.Context, userID int64, limit int) ([]RecentSearch, error) {
	const query = `
        SELECT origin, destination
          FROM searches
         WHERE telegram_user_id = ?
         GROUP BY origin, destination
         ORDER BY MAX(id) DESC
         LIMIT ?
    `

	rows, err := r.db.QueryContext(ctx, query, userID, limit)
	if err != nil {
		return nil, fmt.Errorf("recent searches: %w", err)
	}
	defer rows.Close()

	var result []RecentSearch
	for rows.Next() {
		var rs RecentSearch
		if err := rows.Scan(&rs.Origin, &rs.Destination); err != nil {
			return nil, fmt.Errorf("scan search: %w", err)
		}
		result = append(result, rs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("read searches: %w", err)
	}
	return result, nil
}
