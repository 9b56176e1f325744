package httpapi

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"reflect"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	"github.com/mmynk/sharesplit/internal/calculator"
	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/money"
	"github.com/mmynk/sharesplit/internal/service"
)

const maxBodyBytes = 1 << 20

type registerRequest struct {
	Username string `json:"username" validate:"required,min=3,max=150"`
	Email    string `json:"email" validate:"omitempty,email"`
	Password string `json:"password" validate:"required"`
}

type loginRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type createGroupRequest struct {
	Name      string      `json:"name" validate:"required,max=100"`
	MemberIDs []models.ID `json:"member_ids" validate:"dive,required"`
}

type shareRequest struct {
	User       models.ID   `json:"user" validate:"required"`
	AmountOwed json.Number `json:"amount_owed" validate:"required"`
}

type expenseRequest struct {
	Description string         `json:"description" validate:"required,max=255"`
	Group       models.ID      `json:"group" validate:"required"`
	CategoryID  models.ID      `json:"category_id"`
	SplitType   string         `json:"split_type" validate:"required"`
	Amount      json.Number    `json:"amount" validate:"required"`
	Shares      []shareRequest `json:"shares" validate:"required,min=1,dive"`
	PaidBy      models.ID      `json:"paid_by"`
}

// toNewExpense converts decoded amounts. Errors are field errors.
func (r expenseRequest) toNewExpense() (service.NewExpense, error) {
	amount, err := decimal.NewFromString(r.Amount.String())
	if err != nil {
		return service.NewExpense{}, &service.FieldError{Field: "amount", Message: "A valid number is required."}
	}

	shares := make([]calculator.Share, 0, len(r.Shares))
	for i, s := range r.Shares {
		owed, err := decimal.NewFromString(s.AmountOwed.String())
		if err != nil {
			return service.NewExpense{}, &service.FieldError{
				Field:   fmt.Sprintf("shares[%d].amount_owed", i),
				Message: "A valid number is required.",
			}
		}
		shares = append(shares, calculator.Share{MemberID: s.User, AmountOwed: owed})
	}

	return service.NewExpense{
		Description: r.Description,
		GroupID:     r.Group,
		CategoryID:  r.CategoryID,
		SplitType:   r.SplitType,
		Amount:      amount,
		Shares:      shares,
		PaidBy:      r.PaidBy,
	}, nil
}

type userResponse struct {
	ID       models.ID `json:"id"`
	Username string    `json:"username"`
	Email    string    `json:"email"`
}

type sessionResponse struct {
	Access string       `json:"access"`
	User   userResponse `json:"user"`
}

func newSessionResponse(s *service.Session) sessionResponse {
	return sessionResponse{
		Access: s.Access,
		User:   userResponse{ID: s.User.ID, Username: s.User.Username, Email: s.User.Email},
	}
}

type shareResponse struct {
	User       models.ID   `json:"user"`
	AmountOwed json.Number `json:"amount_owed"`
}

type expenseResponse struct {
	ID          models.ID       `json:"id"`
	Description string          `json:"description"`
	Group       models.ID       `json:"group"`
	CategoryID  models.ID       `json:"category_id"`
	SplitType   string          `json:"split_type"`
	Amount      json.Number     `json:"amount"`
	PaidBy      models.ID       `json:"paid_by,omitempty"`
	CreatedBy   models.ID       `json:"created_by"`
	Shares      []shareResponse `json:"shares"`
	CreatedAt   string          `json:"created_at"`
}

func newExpenseResponse(e *models.Expense) expenseResponse {
	shares := make([]shareResponse, 0, len(e.Shares))
	for _, s := range e.Shares {
		shares = append(shares, shareResponse{User: s.UserID, AmountOwed: json.Number(money.Format(s.AmountOwed))})
	}
	return expenseResponse{
		ID:          e.ID,
		Description: e.Description,
		Group:       e.GroupID,
		CategoryID:  e.CategoryID,
		SplitType:   e.SplitType,
		Amount:      json.Number(money.Format(e.Amount)),
		PaidBy:      e.PaidBy,
		CreatedBy:   e.CreatedBy,
		Shares:      shares,
		CreatedAt:   time.Unix(e.CreatedAt, 0).UTC().Format(time.RFC3339),
	}
}

type memberBalanceResponse struct {
	User       models.ID   `json:"user"`
	NetBalance json.Number `json:"net_balance"`
	TotalPaid  json.Number `json:"total_paid"`
	TotalOwed  json.Number `json:"total_owed"`
}

type debtResponse struct {
	From   models.ID   `json:"from"`
	To     models.ID   `json:"to"`
	Amount json.Number `json:"amount"`
}

type balancesResponse struct {
	Group    models.ID               `json:"group"`
	Balances []memberBalanceResponse `json:"balances"`
	Debts    []debtResponse          `json:"debts"`
}

func newBalancesResponse(b *service.Balances) balancesResponse {
	resp := balancesResponse{
		Group:    b.GroupID,
		Balances: make([]memberBalanceResponse, 0, len(b.Balances)),
		Debts:    make([]debtResponse, 0, len(b.Debts)),
	}
	for _, mb := range b.Balances {
		resp.Balances = append(resp.Balances, memberBalanceResponse{
			User:       mb.MemberID,
			NetBalance: json.Number(money.Format(mb.NetBalance)),
			TotalPaid:  json.Number(money.Format(mb.TotalPaid)),
			TotalOwed:  json.Number(money.Format(mb.TotalOwed)),
		})
	}
	for _, d := range b.Debts {
		resp.Debts = append(resp.Debts, debtResponse{From: d.From, To: d.To, Amount: json.Number(money.Format(d.Amount))})
	}
	return resp
}

// newValidator reports fields by their JSON names.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// decodeAndValidate reads a JSON body into dst and validates it. On failure
// it writes the error response and returns false.
func (h *Handler) decodeAndValidate(w http.ResponseWriter, r *http.Request, dst any) bool {
	body := http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(body).Decode(dst); err != nil {
		if err == io.EOF {
			BadRequest(w, "Request body is empty.")
		} else {
			BadRequest(w, "Malformed JSON body.")
		}
		return false
	}

	if err := h.validate.Struct(dst); err != nil {
		verrs, ok := err.(validator.ValidationErrors)
		if !ok {
			BadRequest(w, "Invalid request.")
			return false
		}
		fields := make(map[string][]string, len(verrs))
		for _, fe := range verrs {
			name := fe.Namespace()
			if i := strings.Index(name, "."); i >= 0 {
				name = name[i+1:]
			}
			fields[name] = append(fields[name], validationMessage(fe))
		}
		Fields(w, http.StatusBadRequest, fields)
		return false
	}
	return true
}

func validationMessage(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "This field is required."
	case "email":
		return "Enter a valid email address."
	case "min":
		if fe.Kind() == reflect.Slice {
			return fmt.Sprintf("Ensure this list has at least %s items.", fe.Param())
		}
		return fmt.Sprintf("Ensure this field has at least %s characters.", fe.Param())
	case "max":
		return fmt.Sprintf("Ensure this field has no more than %s characters.", fe.Param())
	default:
		return fmt.Sprintf("Failed on the %q rule.", fe.Tag())
	}
}
