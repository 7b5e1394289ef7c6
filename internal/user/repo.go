package user

import (
	"BobaLink/pkg/db/mysql"
	"context"
	"fmt"

	"go.uber.org/zap"
)

// EnsureSchema creates the users table when missing.
func EnsureSchema(ctx context.Context) error {
	query := `
        CREATE TABLE IF NOT EXISTS users (
            id BIGINT PRIMARY KEY,
            username VARCHAR(50) NOT NULL,
            password_hash VARCHAR(100) NOT NULL,
            nickname VARCHAR(50) NOT NULL DEFAULT '',
            lat DOUBLE DEFAULT NULL,
            lng DOUBLE DEFAULT NULL,
            created_at DATETIME DEFAULT CURRENT_TIMESTAMP,
            UNIQUE KEY uk_username (username)
        ) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
    `
	_, err := mysql.DB.ExecContext(ctx, query)
	return err
}

func InsertUser(ctx context.Context, id int64, username, hashedPassword, nickname string) error {
	query := "INSERT INTO users (id, username, password_hash, nickname) VALUES (?, ?, ?, ?)"
	_, err := mysql.DB.ExecContext(ctx, query, id, username, hashedPassword, nickname)
	if err != nil {
		zap.L().Error("failed to insert user", zap.Error(err))
		return fmt.Errorf("failed to insert user: %w", err)
	}
	return nil
}

func UsernameExists(ctx context.Context, username string) (bool, error) {
	var exists bool
	query := "SELECT EXISTS(SELECT 1 FROM users WHERE username = ?)"
	err := mysql.DB.GetContext(ctx, &exists, query, username)
	if err != nil {
		return false, fmt.Errorf("failed to check username: %w", err)
	}
	return exists, nil
}

func GetCredentials(ctx context.Context, username string) (string, int64, error) {
	var passwordHash string
	var id int64
	query := "SELECT id, password_hash FROM users WHERE username = ?"
	err := mysql.DB.QueryRowContext(ctx, query, username).Scan(&id, &passwordHash)
	if err != nil {
		return "", 0, fmt.Errorf("failed to get user by username: %w", err)
	}
	return passwordHash, id, nil
}
