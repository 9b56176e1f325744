// Package storage provides abstractions for the sandbox server's persistent
// data.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/sharesplit/internal/models"
)

// ErrNotFound is returned when a requested record does not exist.
var ErrNotFound = errors.New("not found")

// Store is everything the sandbox services persist. Implementations must be
// safe for concurrent use.
type Store interface {
	// CreateUser persists a new user. ID and timestamps must be set.
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByID(ctx context.Context, id models.ID) (*models.User, error)
	GetUserByUsername(ctx context.Context, username string) (*models.User, error)
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)

	// SearchUsers lists users whose username contains query, ordered by
	// username. An empty query lists everyone, up to limit.
	SearchUsers(ctx context.Context, query string, limit int) ([]*models.User, error)

	// GetUsersByIDs returns the users that exist among ids, keyed by ID.
	GetUsersByIDs(ctx context.Context, ids []models.ID) (map[models.ID]*models.User, error)

	// CreateGroup persists a group and its members in the given order.
	// The group.ID and CreatedAt fields are populated by the store.
	CreateGroup(ctx context.Context, group *models.Group) error

	// GetGroup returns a group with its members in insertion order.
	GetGroup(ctx context.Context, groupID models.ID) (*models.Group, error)

	// ListGroupsForUser returns the groups userID belongs to, newest first.
	ListGroupsForUser(ctx context.Context, userID models.ID) ([]*models.Group, error)

	// CreateExpense persists an expense with its shares.
	// The expense.ID and CreatedAt fields are populated by the store.
	CreateExpense(ctx context.Context, expense *models.Expense) error

	// ListExpensesByGroup returns a group's expenses, oldest first.
	ListExpensesByGroup(ctx context.Context, groupID models.ID) ([]*models.Expense, error)

	// ListCategories returns the expense categories in display order.
	ListCategories(ctx context.Context) ([]models.Category, error)

	// GetCategory returns one category, or ErrNotFound.
	GetCategory(ctx context.Context, id models.ID) (*models.Category, error)

	// Close releases any resources held by the store.
	Close() error
}
