package ledger

import (
	"BobaLink/pkg/db/mysql"
	"context"
	"fmt"
)

// EnsureSchema creates the connections table when missing. The composite
// unique key on (from_id, to_id) is what makes InsertEdge's check-then-insert
// a single atomic step.
func EnsureSchema(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS connections (
            id BIGINT AUTO_INCREMENT PRIMARY KEY,
            from_id BIGINT NOT NULL,
            to_id BIGINT NOT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            UNIQUE KEY uk_from_to (from_id, to_id),
            KEY idx_to (to_id)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
    `
	_, err := mysql.DB.ExecContext(ctx, query)
	return err
}

type MySQLStore struct{}

// InsertEdge writes the (from, to) edge if absent. INSERT IGNORE against the
// unique key makes the existence check and the write one statement, so two
// concurrent requests for the same pair cannot both insert; RowsAffected
// tells which caller created it.
func (MySQLStore) InsertEdge(ctx context.Context, from, to int64) (created bool, err error) {
	query := "INSERT IGNORE INTO connections (from_id, to_id) VALUES (?, ?)"
	res, err := mysql.DB.ExecContext(ctx, query, from, to)
	if err != nil {
		return false, fmt.Errorf("failed to insert connection: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("failed to read rows affected: %w", err)
	}
	return n > 0, nil
}

func (MySQLStore) EdgeExists(ctx context.Context, from, to int64) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM connections WHERE from_id = ? AND to_id = ?)"
	if err := mysql.DB.GetContext(ctx, &exists, query, from, to); err != nil {
		return false, fmt.Errorf("failed to check connection: %w", err)
	}
	return exists, nil
}

// MutualIDs computes the mutual set fresh on every call; caching it would go
// stale under concurrent inserts.
func (MySQLStore) MutualIDs(ctx context.Context, id int64) ([]int64, error) {
	var ids []int64
	query := `
        SELECT c1.to_id FROM connections c1
        JOIN connections c2 ON c2.from_id = c1.to_id AND c2.to_id = c1.from_id
        WHERE c1.from_id = ?
    `
	if err := mysql.DB.SelectContext(ctx, &ids, query, id); err != nil {
		return nil, fmt.Errorf("failed to query mutuals: %w", err)
	}
	return ids, nil
}
