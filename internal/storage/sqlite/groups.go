package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/storage"
)

// CreateGroup persists a new group with its members in order.
func (s *SQLiteStore) CreateGroup(ctx context.Context, group *models.Group) error {
	if group.ID == "" {
		group.ID = models.ID(uuid.New().String())
	}
	if group.CreatedAt == 0 {
		group.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx,
		"INSERT INTO groups (id, name, created_at) VALUES (?, ?, ?)",
		string(group.ID), group.Name, group.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert group: %w", err)
	}

	for i, member := range group.Members {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO group_members (group_id, user_id, position) VALUES (?, ?, ?)",
			string(group.ID), string(member.ID), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert group member %s: %w", member.ID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// GetGroup retrieves a group by ID with its members.
func (s *SQLiteStore) GetGroup(ctx context.Context, groupID models.ID) (*models.Group, error) {
	var id string
	group := &models.Group{}
	err := s.db.QueryRowContext(ctx,
		"SELECT id, name, created_at FROM groups WHERE id = ?",
		string(groupID),
	).Scan(&id, &group.Name, &group.CreatedAt)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("group %s: %w", groupID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get group: %w", err)
	}
	group.ID = models.ID(id)

	if group.Members, err = s.groupMembers(ctx, group.ID); err != nil {
		return nil, err
	}
	return group, nil
}

// ListGroupsForUser returns the groups userID belongs to, newest first.
func (s *SQLiteStore) ListGroupsForUser(ctx context.Context, userID models.ID) ([]*models.Group, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT g.id, g.name, g.created_at
		FROM groups g
		JOIN group_members gm ON gm.group_id = g.id
		WHERE gm.user_id = ?
		ORDER BY g.created_at DESC, g.rowid DESC`,
		string(userID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list groups: %w", err)
	}

	var groups []*models.Group
	for rows.Next() {
		var id string
		group := &models.Group{}
		if err := rows.Scan(&id, &group.Name, &group.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		group.ID = models.ID(id)
		groups = append(groups, group)
	}
	// Close before loading members; the store runs on a single connection.
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate groups: %w", err)
	}

	for _, group := range groups {
		if group.Members, err = s.groupMembers(ctx, group.ID); err != nil {
			return nil, err
		}
	}
	return groups, nil
}

func (s *SQLiteStore) groupMembers(ctx context.Context, groupID models.ID) ([]models.Member, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT u.id, u.username
		FROM group_members gm
		JOIN users u ON u.id = gm.user_id
		WHERE gm.group_id = ?
		ORDER BY gm.position`,
		string(groupID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get group members: %w", err)
	}
	defer rows.Close()

	members := []models.Member{}
	for rows.Next() {
		var id, username string
		if err := rows.Scan(&id, &username); err != nil {
			return nil, fmt.Errorf("failed to scan member: %w", err)
		}
		members = append(members, models.Member{ID: models.ID(id), Username: username})
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate members: %w", err)
	}
	return members, nil
}
