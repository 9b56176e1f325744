package apiclient

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/pkg/logging"
)

func newTestClient(t *testing.T, handler http.HandlerFunc, opts ...Option) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	opts = append([]Option{WithLogger(logging.Discard())}, opts...)
	c, err := New(srv.URL, opts...)
	require.NoError(t, err)
	return c
}

func TestNewRejectsBadBaseURL(t *testing.T) {
	_, err := New("not a url")
	assert.Error(t, err)

	_, err = New("/relative/only")
	assert.Error(t, err)
}

func TestCreateExpenseSendsPayload(t *testing.T) {
	var gotAuth, gotPath string
	var gotBody map[string]any

	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotPath = r.URL.Path
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotBody))

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `{"id": 99, "description": "Pizza", "group": 3}`)
	}, WithToken("tok"))

	created, err := c.CreateExpense(context.Background(), ExpenseRequest{
		Description: "Pizza",
		Group:       "3",
		CategoryID:  "1",
		SplitType:   "equal",
		Amount:      "30.00",
		Shares: []ShareRequest{
			{User: "1", AmountOwed: "15.00"},
			{User: "2", AmountOwed: "15.00"},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, "Bearer tok", gotAuth)
	assert.Equal(t, "/expenses", gotPath)
	assert.Equal(t, "Pizza", gotBody["description"])
	assert.Equal(t, float64(30), gotBody["amount"])
	assert.NotContains(t, gotBody, "paid_by")
	assert.Equal(t, models.ID("99"), created.ID)
}

func TestCreateExpenseToleratesUnreadableSuccessBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusCreated)
		_, _ = io.WriteString(w, `created`)
	})

	created, err := c.CreateExpense(context.Background(), ExpenseRequest{Description: "x"})
	require.NoError(t, err)
	assert.NotNil(t, created)
}

func TestServerRejectionMessages(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		wantMsg string
	}{
		{
			name:    "detail",
			status:  http.StatusBadRequest,
			body:    `{"detail": "Shares do not add up to the total."}`,
			wantMsg: "Shares do not add up to the total.",
		},
		{
			name:    "field map",
			status:  http.StatusBadRequest,
			body:    `{"shares": ["This field is required."], "amount": ["Must be positive."]}`,
			wantMsg: "amount: Must be positive.\nshares: This field is required.",
		},
		{
			name:    "non field errors",
			status:  http.StatusBadRequest,
			body:    `{"non_field_errors": ["Invalid group."]}`,
			wantMsg: "Invalid group.",
		},
		{
			name:    "plain text falls back",
			status:  http.StatusInternalServerError,
			body:    `boom`,
			wantMsg: "Failed to add shared expense.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = io.WriteString(w, tt.body)
			})

			_, err := c.CreateExpense(context.Background(), ExpenseRequest{Description: "x"})
			require.ErrorIs(t, err, ErrServerRejected)

			var apiErr *Error
			require.True(t, errors.As(err, &apiErr))
			assert.Equal(t, tt.status, apiErr.Status)
			assert.Equal(t, tt.wantMsg, apiErr.UserMessage())
		})
	}
}

func TestNetworkFailure(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := srv.URL
	srv.Close()

	c, err := New(url, WithLogger(logging.Discard()), WithTimeout(time.Second))
	require.NoError(t, err)

	_, err = c.CreateExpense(context.Background(), ExpenseRequest{Description: "x"})
	require.ErrorIs(t, err, ErrNetworkFailure)
	assert.NotErrorIs(t, err, ErrServerRejected)

	var apiErr *Error
	require.True(t, errors.As(err, &apiErr))
	assert.Equal(t, "Network error. Please try again.", apiErr.UserMessage())
}

func TestLoginStoresToken(t *testing.T) {
	var calls int
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		switch r.URL.Path {
		case "/auth/login/":
			var body loginRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, "alice", body.Username)
			_, _ = io.WriteString(w, `{"access": "jwt-1", "user": {"id": 5, "username": "alice"}}`)
		case "/expense/groups/":
			assert.Equal(t, "Bearer jwt-1", r.Header.Get("Authorization"))
			_, _ = io.WriteString(w, `[]`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	session, err := c.Login(context.Background(), "alice", "secret")
	require.NoError(t, err)
	assert.Equal(t, models.ID("5"), session.User.ID)
	assert.Equal(t, "jwt-1", c.Token())

	groups, err := c.ListGroups(context.Background())
	require.NoError(t, err)
	assert.Empty(t, groups)
	assert.Equal(t, 2, calls)
}

func TestListGroupsAcceptsPaginatedResults(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = io.WriteString(w, `{"count": 1, "results": [
			{"id": 1, "name": "Trip", "members": [{"id": 1, "username": "a"}, {"id": "u-2", "username": "b"}]}
		]}`)
	})

	groups, err := c.ListGroups(context.Background())
	require.NoError(t, err)
	require.Len(t, groups, 1)
	assert.Equal(t, "Trip", groups[0].Name)
	assert.Equal(t, []models.ID{"1", "u-2"}, groups[0].MemberIDs())
}

func TestSearchMembersSendsQuery(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/auth/list/", r.URL.Path)
		assert.Equal(t, "bo", r.URL.Query().Get("username"))
		_, _ = io.WriteString(w, `[{"id": 2, "username": "bob"}]`)
	})

	members, err := c.SearchMembers(context.Background(), "bo")
	require.NoError(t, err)
	assert.Equal(t, []models.Member{{ID: "2", Username: "bob"}}, members)
}

func TestGetGroupUnexpectedBody(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/expense/groups/7/", r.URL.Path)
		_, _ = io.WriteString(w, `not json`)
	})

	_, err := c.GetGroup(context.Background(), "7")
	assert.ErrorIs(t, err, ErrServerRejected)
}

func TestCreateGroupAndBalances(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == http.MethodPost && r.URL.Path == "/expense/groups/":
			var body createGroupRequest
			require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
			assert.Equal(t, []models.ID{"1", "2"}, body.MemberIDs)
			w.WriteHeader(http.StatusCreated)
			_, _ = io.WriteString(w, `{"id": 9, "name": "Flat", "members": [{"id": 1}, {"id": 2}]}`)
		case r.URL.Path == "/expense/groups/9/balances/":
			_, _ = io.WriteString(w, `{"group": 9,
				"balances": [{"user": 1, "net_balance": "5.00", "total_paid": "10.00", "total_owed": "5.00"}],
				"debts": [{"from": 2, "to": 1, "amount": "5.00"}]}`)
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	})

	group, err := c.CreateGroup(context.Background(), "Flat", models.IDs("1", "2"))
	require.NoError(t, err)
	assert.Equal(t, models.ID("9"), group.ID)

	balances, err := c.GroupBalances(context.Background(), group.ID)
	require.NoError(t, err)
	require.Len(t, balances.Debts, 1)
	assert.Equal(t, json.Number("5.00"), balances.Debts[0].Amount)
}

func TestGroupIDIsPathEscaped(t *testing.T) {
	var paths []string
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.EscapedPath())
		assert.Empty(t, r.URL.RawQuery)
		_, _ = io.WriteString(w, `{"id": "x", "name": "n", "members": []}`)
	})

	_, err := c.GetGroup(context.Background(), "a/b")
	require.NoError(t, err)
	_, err = c.GetGroup(context.Background(), "x?y")
	require.NoError(t, err)
	_, err = c.GroupBalances(context.Background(), "../auth")
	require.NoError(t, err)

	assert.Equal(t, []string{
		"/expense/groups/a%2Fb/",
		"/expense/groups/x%3Fy/",
		"/expense/groups/..%2Fauth/balances/",
	}, paths)
}

func TestBaseURLPathIsKept(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/api/v1/expense/groups/7/", r.URL.Path)
		_, _ = io.WriteString(w, `{"id": 7, "members": []}`)
	}))
	t.Cleanup(srv.Close)

	c, err := New(srv.URL+"/api/v1/", WithLogger(logging.Discard()))
	require.NoError(t, err)
	group, err := c.GetGroup(context.Background(), "7")
	require.NoError(t, err)
	assert.Equal(t, models.ID("7"), group.ID)
}

func TestListCategories(t *testing.T) {
	c := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/expense/categories/", r.URL.Path)
		_, _ = io.WriteString(w, `[{"id": 1, "name": "Food"}, {"id": "rent", "name": "Rent"}]`)
	})

	categories, err := c.ListCategories(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []models.Category{{ID: "1", Name: "Food"}, {ID: "rent", Name: "Rent"}}, categories)
}
