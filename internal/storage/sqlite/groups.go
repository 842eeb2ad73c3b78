package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/xpense/xpense/internal/models"
	"github.com/xpense/xpense/internal/storage"
)

// CreateGroup persists a new group and its owning member in one transaction.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group, owner string) error {
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}
	if group.Currency == "" {
		group.Currency = "USD"
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	res, err := tx.ExecContext(ctx,
		"INSERT INTO groups (name, description, currency, created_at) VALUES (?, ?, ?, ?)",
		group.Name, group.Description, group.Currency, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return fmt.Errorf("failed to read group id: %w", err)
	}
	group.ID = id

	_, err = tx.ExecContext(ctx,
		"INSERT INTO group_members (group_id, username, is_owner, joined_at) VALUES (?, ?, 1, ?)",
		group.ID, owner, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert owner member: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}

	return nil
}

// GetGroup retrieves a group by id.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID int64) (*models.Group, error) {
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, description, currency, created_at FROM groups WHERE id = ?",
		groupID,
	).Scan(&group.ID, &group.Name, &group.Description, &group.Currency, &group.CreatedAt)

	if isNoRows(err) {
		return nil, fmt.Errorf("group %d: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}

	return group, nil
}

// ListGroupsForUser retrieves every group the user is a member of.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, username string) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.description, g.currency, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.username = ?
		ORDER BY g.id
	`, username)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		if err := rows.Scan(&group.ID, &group.Name, &group.Description, &group.Currency, &group.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		groups = append(groups, group)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	return groups, nil
}

// AddMember adds a user to a group.
func (s *SQLiteStore) AddMember(ctx context.Context, member *models.GroupMember) error {
	if member.JoinedAt == 0 {
		member.JoinedAt = time.Now().Unix()
	}

	_, err := s.db.ExecContext(ctx,
		"INSERT INTO group_members (group_id, username, is_owner, joined_at) VALUES (?, ?, ?, ?)",
		member.GroupID, member.Username, member.IsOwner, member.JoinedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add member: %w", mapWriteErr(err, storage.ErrAlreadyExists))
	}

	return nil
}

// RemoveMember removes a user from a group.
func (s *SQLiteStore) RemoveMember(ctx context.Context, groupID int64, username string) error {
	res, err := s.db.ExecContext(ctx,
		"DELETE FROM group_members WHERE group_id = ? AND username = ?",
		groupID, username,
	)
	if err != nil {
		return fmt.Errorf("failed to remove member: %w", err)
	}

	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to check removed rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("member %q of group %d: %w", username, groupID, storage.ErrNotFound)
	}

	return nil
}

// ListMembers enumerates a group's membership ordered by username.
func (s *SQLiteStore) ListMembers(ctx context.Context, groupID int64) ([]*models.GroupMember, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT group_id, username, is_owner, joined_at FROM group_members WHERE group_id = ? ORDER BY username",
		groupID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list members: %w", err)
	}
	defer rows.Close()

	var members []*models.GroupMember
	for rows.Next() {
		member := &models.GroupMember{}
		if err := rows.Scan(&member.GroupID, &member.Username, &member.IsOwner, &member.JoinedAt); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, member)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}

	return members, nil
}

// IsMember reports whether the user is currently a member of the group.
func (s *SQLiteStore) IsMember(ctx context.Context, groupID int64, username string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND username = ?",
		groupID, username,
	).Scan(&one)

	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check membership: %w", err)
	}

	return true, nil
}

// IsOwner reports whether the user is an owner of the group.
func (s *SQLiteStore) IsOwner(ctx context.Context, groupID int64, username string) (bool, error) {
	var one int
	err := s.db.QueryRowContext(ctx,
		"SELECT 1 FROM group_members WHERE group_id = ? AND username = ? AND is_owner = 1",
		groupID, username,
	).Scan(&one)

	if isNoRows(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check ownership: %w", err)
	}

	return true, nil
}
