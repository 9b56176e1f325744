package sqlite

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharesplit/internal/models"
)

// CreateExpense persists an expense and its shares in one transaction.
func (s *SQLiteStore) CreateExpense(ctx context.Context, expense *models.Expense) error {
	if expense.ID == "" {
		expense.ID = models.ID(uuid.New().String())
	}
	if expense.CreatedAt == 0 {
		expense.CreatedAt = time.Now().Unix()
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO expenses (id, group_id, category_id, description, split_type, amount, paid_by, created_by, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		string(expense.ID),
		string(expense.GroupID),
		string(expense.CategoryID),
		expense.Description,
		expense.SplitType,
		expense.Amount.String(),
		string(expense.PaidBy),
		string(expense.CreatedBy),
		expense.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert expense: %w", err)
	}

	for i, share := range expense.Shares {
		_, err = tx.ExecContext(ctx,
			"INSERT INTO expense_shares (expense_id, user_id, amount_owed, position) VALUES (?, ?, ?, ?)",
			string(expense.ID), string(share.UserID), share.AmountOwed.String(), i,
		)
		if err != nil {
			return fmt.Errorf("failed to insert share for %s: %w", share.UserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// ListExpensesByGroup returns a group's expenses with shares, oldest first.
func (s *SQLiteStore) ListExpensesByGroup(ctx context.Context, groupID models.ID) ([]*models.Expense, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, group_id, category_id, description, split_type, amount, paid_by, created_by, created_at
		FROM expenses
		WHERE group_id = ?
		ORDER BY created_at, rowid`,
		string(groupID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list expenses: %w", err)
	}

	var expenses []*models.Expense
	byID := make(map[models.ID]*models.Expense)
	for rows.Next() {
		var id, group, category, paidBy, createdBy, amount string
		expense := &models.Expense{}
		if err := rows.Scan(&id, &group, &category, &expense.Description, &expense.SplitType,
			&amount, &paidBy, &createdBy, &expense.CreatedAt); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan expense: %w", err)
		}
		if expense.Amount, err = decimal.NewFromString(amount); err != nil {
			rows.Close()
			return nil, fmt.Errorf("expense %s has invalid amount %q: %w", id, amount, err)
		}
		expense.ID = models.ID(id)
		expense.GroupID = models.ID(group)
		expense.CategoryID = models.ID(category)
		expense.PaidBy = models.ID(paidBy)
		expense.CreatedBy = models.ID(createdBy)

		expenses = append(expenses, expense)
		byID[expense.ID] = expense
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate expenses: %w", err)
	}
	if len(expenses) == 0 {
		return expenses, nil
	}

	shareRows, err := s.db.QueryContext(ctx, `
		SELECT es.expense_id, es.user_id, es.amount_owed
		FROM expense_shares es
		JOIN expenses e ON e.id = es.expense_id
		WHERE e.group_id = ?
		ORDER BY es.expense_id, es.position`,
		string(groupID),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to get expense shares: %w", err)
	}
	defer shareRows.Close()

	for shareRows.Next() {
		var expenseID, userID, owed string
		if err := shareRows.Scan(&expenseID, &userID, &owed); err != nil {
			return nil, fmt.Errorf("failed to scan share: %w", err)
		}
		amount, err := decimal.NewFromString(owed)
		if err != nil {
			return nil, fmt.Errorf("share of %s has invalid amount %q: %w", userID, owed, err)
		}
		if expense, ok := byID[models.ID(expenseID)]; ok {
			expense.Shares = append(expense.Shares, models.ExpenseShare{UserID: models.ID(userID), AmountOwed: amount})
		}
	}
	if err := shareRows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate shares: %w", err)
	}
	return expenses, nil
}
