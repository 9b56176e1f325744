package apiclient

import (
	"encoding/json"

	"github.com/mmynk/sharesplit/internal/models"
)

// ShareRequest is one entry of the shares list in an expense payload.
type ShareRequest struct {
	User       models.ID   `json:"user"`
	AmountOwed json.Number `json:"amount_owed"`
}

// ExpenseRequest is the body of POST /expenses.
type ExpenseRequest struct {
	Description string         `json:"description"`
	Group       models.ID      `json:"group"`
	CategoryID  models.ID      `json:"category_id"`
	SplitType   string         `json:"split_type"`
	Amount      json.Number    `json:"amount"`
	Shares      []ShareRequest `json:"shares"`
	PaidBy      models.ID      `json:"paid_by,omitempty"`
}

// CreatedExpense is the part of the created-expense representation the client
// reads. Fields may be empty when the server returns less.
type CreatedExpense struct {
	ID          models.ID      `json:"id"`
	Description string         `json:"description"`
	Group       models.ID      `json:"group"`
	SplitType   string         `json:"split_type"`
	Amount      json.Number    `json:"amount"`
	Shares      []ShareRequest `json:"shares"`
	CreatedAt   string         `json:"created_at"`
}

// UserInfo describes the authenticated account.
type UserInfo struct {
	ID       models.ID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

// Session is returned by login and registration.
type Session struct {
	Access string   `json:"access"`
	User   UserInfo `json:"user"`
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type registerRequest struct {
	Username string `json:"username"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

type createGroupRequest struct {
	Name      string      `json:"name"`
	MemberIDs []models.ID `json:"member_ids"`
}

// MemberBalance is one member's entry in a balances response.
type MemberBalance struct {
	User       models.ID   `json:"user"`
	NetBalance json.Number `json:"net_balance"`
	TotalPaid  json.Number `json:"total_paid"`
	TotalOwed  json.Number `json:"total_owed"`
}

// Debt is a suggested payment between two members.
type Debt struct {
	From   models.ID   `json:"from"`
	To     models.ID   `json:"to"`
	Amount json.Number `json:"amount"`
}

// GroupBalances is the body of GET /expense/groups/{id}/balances/.
type GroupBalances struct {
	Group    models.ID       `json:"group"`
	Balances []MemberBalance `json:"balances"`
	Debts    []Debt          `json:"debts"`
}
