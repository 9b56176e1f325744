package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/storage"
)

// ListCategories returns every category in display order.
func (s *SQLiteStore) ListCategories(ctx context.Context) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM categories ORDER BY position, name")
	if err != nil {
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	defer rows.Close()

	var categories []models.Category
	for rows.Next() {
		var c models.Category
		var id string
		if err := rows.Scan(&id, &c.Name); err != nil {
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		c.ID = models.ID(id)
		categories = append(categories, c)
	}
	return categories, rows.Err()
}

// GetCategory retrieves a category by ID.
func (s *SQLiteStore) GetCategory(ctx context.Context, id models.ID) (*models.Category, error) {
	var name string
	err := s.db.QueryRowContext(ctx, "SELECT name FROM categories WHERE id = ?", string(id)).Scan(&name)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, storage.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get category: %w", err)
	}
	return &models.Category{ID: id, Name: name}, nil
}
