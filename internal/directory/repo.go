package directory

import (
	"BobaLink/internal/user"
	"BobaLink/pkg/db/mysql"
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"
)

// UserStore is the directory's read/write surface over user records.
type UserStore interface {
	GetByID(ctx context.Context, id int64) (*user.User, error)
	GetByIDs(ctx context.Context, ids []int64) ([]user.User, error)
	ListLocated(ctx context.Context) ([]user.User, error)
	UpdateLocation(ctx context.Context, id int64, lat, lng float64) error
}

type MySQLStore struct{}

func (MySQLStore) GetByID(ctx context.Context, id int64) (*user.User, error) {
	var u user.User
	query := "SELECT id, username, nickname, lat, lng FROM users WHERE id = ?"
	err := mysql.DB.GetContext(ctx, &u, query, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user %d: %w", id, err)
	}
	return &u, nil
}

func (MySQLStore) GetByIDs(ctx context.Context, ids []int64) ([]user.User, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	query, args, err := sqlx.In("SELECT id, username, nickname, lat, lng FROM users WHERE id IN (?)", ids)
	if err != nil {
		return nil, fmt.Errorf("failed to build IN query: %w", err)
	}
	var users []user.User
	if err = mysql.DB.SelectContext(ctx, &users, mysql.DB.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get users by ids: %w", err)
	}
	return users, nil
}

func (MySQLStore) ListLocated(ctx context.Context) ([]user.User, error) {
	var users []user.User
	query := "SELECT id, username, nickname, lat, lng FROM users WHERE lat IS NOT NULL AND lng IS NOT NULL"
	if err := mysql.DB.SelectContext(ctx, &users, query); err != nil {
		return nil, fmt.Errorf("failed to list located users: %w", err)
	}
	return users, nil
}

func (MySQLStore) UpdateLocation(ctx context.Context, id int64, lat, lng float64) error {
	query := "UPDATE users SET lat = ?, lng = ? WHERE id = ?"
	res, err := mysql.DB.ExecContext(ctx, query, lat, lng, id)
	if err != nil {
		return fmt.Errorf("failed to update location: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		// MySQL also reports 0 when the row exists with identical coords;
		// double-check before declaring the user missing.
		var exists bool
		if err := mysql.DB.GetContext(ctx, &exists, "SELECT EXISTS(SELECT 1 FROM users WHERE id = ?)", id); err == nil && !exists {
			return ErrNotFound
		}
	}
	return nil
}
