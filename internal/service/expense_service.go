package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/mmynk/sharesplit/internal/calculator"
	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
	"github.com/mmynk/sharesplit/internal/storage"
)

// NewExpense is a create-expense request after transport decoding.
type NewExpense struct {
	Description string
	GroupID     models.ID
	CategoryID  models.ID
	SplitType   string
	Amount      decimal.Decimal
	Shares      []calculator.Share
	PaidBy      models.ID
}

// ExpenseService records shared expenses. It never recomputes a split; it
// only checks that the submitted shares reconcile with the total.
type ExpenseService struct {
	store  storage.Store
	logger *slog.Logger
}

// NewExpenseService creates an ExpenseService.
func NewExpenseService(store storage.Store, logger *slog.Logger) *ExpenseService {
	return &ExpenseService{store: store, logger: logger}
}

// CreateExpense validates and stores an expense recorded by callerID.
func (s *ExpenseService) CreateExpense(ctx context.Context, callerID models.ID, req NewExpense) (*models.Expense, error) {
	if callerID.IsZero() {
		return nil, ErrUnauthenticated
	}

	description := strings.TrimSpace(req.Description)
	if description == "" {
		return nil, fieldError("description", "This field may not be blank.")
	}

	splitType, err := calculator.ParseSplitType(req.SplitType)
	if err != nil {
		return nil, err
	}

	group, err := s.store.GetGroup(ctx, req.GroupID)
	if err != nil {
		if IsNotFound(err) {
			return nil, fieldError("group", "Group %s does not exist.", req.GroupID)
		}
		return nil, err
	}
	if !group.HasMember(callerID) {
		return nil, ErrForbidden
	}
	if !req.PaidBy.IsZero() && !group.HasMember(req.PaidBy) {
		return nil, fieldError("paid_by", "User %s is not a member of this group.", req.PaidBy)
	}
	if !req.CategoryID.IsZero() {
		if _, err := s.store.GetCategory(ctx, req.CategoryID); err != nil {
			if IsNotFound(err) {
				return nil, fieldError("category_id", "Invalid pk \"%s\" - object does not exist.", req.CategoryID)
			}
			return nil, err
		}
	}

	for _, sh := range req.Shares {
		if !money.Round(sh.AmountOwed).Equal(sh.AmountOwed) {
			return nil, fieldError("shares", "Amount owed by %s has more than %d decimal places.", sh.MemberID, money.Places)
		}
	}
	if err := calculator.Reconcile(req.Amount, req.Shares, group.MemberIDs()); err != nil {
		s.logger.Warn("Expense shares rejected", "group_id", group.ID, "error", err)
		return nil, err
	}

	expense := &models.Expense{
		GroupID:     group.ID,
		CategoryID:  req.CategoryID,
		Description: description,
		SplitType:   string(splitType),
		Amount:      money.Round(req.Amount),
		PaidBy:      req.PaidBy,
		CreatedBy:   callerID,
	}
	for _, sh := range req.Shares {
		expense.Shares = append(expense.Shares, models.ExpenseShare{UserID: sh.MemberID, AmountOwed: sh.AmountOwed})
	}

	if err := s.store.CreateExpense(ctx, expense); err != nil {
		s.logger.Error("CreateExpense failed", "error", err)
		return nil, fmt.Errorf("failed to create expense: %w", err)
	}

	s.logger.Info("Expense created",
		"expense_id", expense.ID,
		"group_id", group.ID,
		"split_type", expense.SplitType,
		"amount", money.Format(expense.Amount),
	)
	return expense, nil
}

// ListCategories returns the categories an expense can be filed under.
func (s *ExpenseService) ListCategories(ctx context.Context) ([]models.Category, error) {
	categories, err := s.store.ListCategories(ctx)
	if err != nil {
		s.logger.Error("ListCategories failed", "error", err)
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}
