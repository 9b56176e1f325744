// Package httpapi serves the sandbox Remote Expense API over chi.
package httpapi

import (
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"

	"github.com/mmynk/sharesplit/internal/middleware"
	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/service"
)

// Handler wires HTTP endpoints to the sandbox services.
type Handler struct {
	auth     *service.AuthService
	groups   *service.GroupService
	expenses *service.ExpenseService
	metrics  *Metrics
	logger   *slog.Logger
	validate *validator.Validate
}

// NewHandler constructs a Handler.
func NewHandler(authSvc *service.AuthService, groups *service.GroupService, expenses *service.ExpenseService, metrics *Metrics, logger *slog.Logger) *Handler {
	return &Handler{
		auth:     authSvc,
		groups:   groups,
		expenses: expenses,
		metrics:  metrics,
		logger:   logger,
		validate: newValidator(),
	}
}

func (h *Handler) register(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	session, err := h.auth.Register(r.Context(), req.Username, req.Email, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	JSON(w, http.StatusCreated, newSessionResponse(session))
}

func (h *Handler) login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	session, err := h.auth.Login(r.Context(), req.Username, req.Password)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	JSON(w, http.StatusOK, newSessionResponse(session))
}

func (h *Handler) searchMembers(w http.ResponseWriter, r *http.Request) {
	members, err := h.auth.SearchMembers(r.Context(), r.URL.Query().Get("username"))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	JSON(w, http.StatusOK, members)
}

func (h *Handler) listGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := h.groups.ListGroups(r.Context(), middleware.GetUserID(r.Context()))
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if groups == nil {
		groups = []*models.Group{}
	}
	JSON(w, http.StatusOK, groups)
}

func (h *Handler) createGroup(w http.ResponseWriter, r *http.Request) {
	var req createGroupRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	group, err := h.groups.CreateGroup(r.Context(), middleware.GetUserID(r.Context()), req.Name, req.MemberIDs)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	JSON(w, http.StatusCreated, group)
}

func (h *Handler) getGroup(w http.ResponseWriter, r *http.Request) {
	groupID := models.ID(chi.URLParam(r, "groupID"))
	group, err := h.groups.GetGroup(r.Context(), middleware.GetUserID(r.Context()), groupID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	JSON(w, http.StatusOK, group)
}

func (h *Handler) groupBalances(w http.ResponseWriter, r *http.Request) {
	groupID := models.ID(chi.URLParam(r, "groupID"))
	balances, err := h.groups.GetBalances(r.Context(), middleware.GetUserID(r.Context()), groupID)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	JSON(w, http.StatusOK, newBalancesResponse(balances))
}

func (h *Handler) createExpense(w http.ResponseWriter, r *http.Request) {
	var req expenseRequest
	if !h.decodeAndValidate(w, r, &req) {
		return
	}
	newExpense, err := req.toNewExpense()
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	expense, err := h.expenses.CreateExpense(r.Context(), middleware.GetUserID(r.Context()), newExpense)
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	h.metrics.ExpenseCreated(expense.SplitType)
	JSON(w, http.StatusCreated, newExpenseResponse(expense))
}

func (h *Handler) listCategories(w http.ResponseWriter, r *http.Request) {
	categories, err := h.expenses.ListCategories(r.Context())
	if err != nil {
		writeError(w, h.logger, err)
		return
	}
	if categories == nil {
		categories = []models.Category{}
	}
	JSON(w, http.StatusOK, categories)
}

func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	JSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
