package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/sharesplit/internal/calculator"
	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/storage"
)

// GroupService manages groups and reports their balances.
type GroupService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewGroupService creates a GroupService with the given storage backend.
func NewGroupService(store storage.Store, logger *slog.Logger) *GroupService {
	return &GroupService{store: store, logger: logger}
}

// CreateGroup creates a group with memberIDs in the given order. Duplicates
// are dropped and the caller is appended when not already listed.
func (s *GroupService) CreateGroup(ctx context.Context, callerID models.ID, name string, memberIDs []models.ID) (*models.Group, error) {
	if callerID.IsZero() {
		return nil, ErrUnauthenticated
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fieldError("name", "Group name cannot be empty.")
	}

	ordered := make([]models.ID, 0, len(memberIDs)+1)
	seen := make(map[models.ID]bool, len(memberIDs)+1)
	candidates := append(append([]models.ID{}, memberIDs...), callerID)
	for _, id := range candidates {
		if id.IsZero() || seen[id] {
			continue
		}
		seen[id] = true
		ordered = append(ordered, id)
	}

	users, err := s.store.GetUsersByIDs(ctx, ordered)
	if err != nil {
		return nil, err
	}
	group := &models.Group{Name: name}
	for _, id := range ordered {
		u, ok := users[id]
		if !ok {
			return nil, fieldError("member_ids", "Unknown user %s.", id)
		}
		group.Members = append(group.Members, u.AsMember())
	}

	if err := s.store.CreateGroup(ctx, group); err != nil {
		s.logger.Error("CreateGroup failed", "error", err)
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	s.logger.Info("Group created", "group_id", group.ID, "members_count", len(group.Members))
	return group, nil
}

// GetGroup returns a group the caller belongs to.
func (s *GroupService) GetGroup(ctx context.Context, callerID, groupID models.ID) (*models.Group, error) {
	group, err := s.store.GetGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	if !group.HasMember(callerID) {
		return nil, ErrForbidden
	}
	return group, nil
}

// ListGroups returns the caller's groups.
func (s *GroupService) ListGroups(ctx context.Context, callerID models.ID) ([]*models.Group, error) {
	if callerID.IsZero() {
		return nil, ErrUnauthenticated
	}
	return s.store.ListGroupsForUser(ctx, callerID)
}

// Balances is the settlement view of a group.
type Balances struct {
	GroupID  models.ID
	Balances []calculator.MemberBalance
	Debts    []calculator.DebtEdge
}

// GetBalances aggregates every expense of the group. An expense without an
// explicit payer counts as paid by whoever recorded it.
func (s *GroupService) GetBalances(ctx context.Context, callerID, groupID models.ID) (*Balances, error) {
	group, err := s.GetGroup(ctx, callerID, groupID)
	if err != nil {
		return nil, err
	}

	expenses, err := s.store.ListExpensesByGroup(ctx, group.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to load expenses: %w", err)
	}

	inputs := make([]calculator.ExpenseForBalance, 0, len(expenses))
	for _, e := range expenses {
		payer := e.PaidBy
		if payer.IsZero() {
			payer = e.CreatedBy
		}
		shares := make([]calculator.Share, len(e.Shares))
		for i, sh := range e.Shares {
			shares[i] = calculator.Share{MemberID: sh.UserID, AmountOwed: sh.AmountOwed}
		}
		inputs = append(inputs, calculator.ExpenseForBalance{PayerID: payer, Shares: shares})
	}

	balances, debts := calculator.CalculateGroupBalances(inputs)
	s.logger.Debug("Balances computed", "group_id", group.ID, "expenses", len(expenses), "debts", len(debts))

	return &Balances{GroupID: group.ID, Balances: balances, Debts: debts}, nil
}

// IsNotFound reports whether err means the record does not exist.
func IsNotFound(err error) bool {
	return errors.Is(err, storage.ErrNotFound)
}
