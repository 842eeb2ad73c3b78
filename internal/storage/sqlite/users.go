package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/xpense/xpense/internal/models"
	"github.com/xpense/xpense/internal/storage"
)

// CreateUser inserts a new user into the database.
func (s *SQLiteStore) CreateUser(ctx context.Context, user *models.User) error {
	if user.CreatedAt == 0 {
		user.CreatedAt = time.Now().Unix()
	}

	query := `
		INSERT INTO users (username, email, full_name, password_hash, profile_image, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := s.db.ExecContext(ctx, query,
		user.Username,
		user.Email,
		user.FullName,
		user.PasswordHash,
		user.ProfileImage,
		user.CreatedAt,
	)

	if err != nil {
		return fmt.Errorf("failed to create user: %w", mapWriteErr(err, storage.ErrAlreadyExists))
	}

	return nil
}

// GetUser retrieves a user by username.
func (s *SQLiteStore) GetUser(ctx context.Context, username string) (*models.User, error) {
	query := `
		SELECT username, email, full_name, password_hash, profile_image, created_at
		FROM users
		WHERE username = ?
	`

	user := &models.User{}
	err := s.db.QueryRowContext(ctx, query, username).Scan(
		&user.Username,
		&user.Email,
		&user.FullName,
		&user.PasswordHash,
		&user.ProfileImage,
		&user.CreatedAt,
	)

	if isNoRows(err) {
		return nil, fmt.Errorf("user %q: %w", username, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get user: %w", err)
	}

	return user, nil
}

// ListUsers retrieves all registered users ordered by username.
func (s *SQLiteStore) ListUsers(ctx context.Context) ([]*models.User, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT username, email, full_name, password_hash, profile_image, created_at
		FROM users
		ORDER BY username
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list users: %w", err)
	}
	defer rows.Close()

	var users []*models.User
	for rows.Next() {
		user := &models.User{}
		if err := rows.Scan(
			&user.Username,
			&user.Email,
			&user.FullName,
			&user.PasswordHash,
			&user.ProfileImage,
			&user.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan user: %w", err)
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate users: %w", err)
	}

	return users, nil
}
