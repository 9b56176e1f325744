package httpapi_test

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/sharesplit/internal/apiclient"
	"github.com/mmynk/sharesplit/internal/calculator"
	"github.com/mmynk/sharesplit/internal/httpapi"
	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/storage/sqlite"
	"github.com/mmynk/sharesplit/internal/submitter"
	"github.com/mmynk/sharesplit/pkg/logging"
)

func newServer(t *testing.T, rateLimit int) *httptest.Server {
	t.Helper()

	store, err := sqlite.New(filepath.Join(t.TempDir(), "sandbox.db"))
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })

	app := httpapi.NewApp(store, httpapi.AppConfig{
		JWTSecret:       "test-secret-of-sufficient-length",
		TokenTTL:        time.Hour,
		RateLimitPerMin: rateLimit,
		BcryptCost:      bcrypt.MinCost,
		Logger:          logging.Discard(),
	})
	srv := httptest.NewServer(app)
	t.Cleanup(srv.Close)
	return srv
}

func newClient(t *testing.T, srv *httptest.Server) *apiclient.Client {
	t.Helper()
	c, err := apiclient.New(srv.URL, apiclient.WithLogger(logging.Discard()))
	require.NoError(t, err)
	return c
}

func registerUser(t *testing.T, srv *httptest.Server, username string) (*apiclient.Client, models.ID) {
	t.Helper()
	c := newClient(t, srv)
	session, err := c.Register(context.Background(), username, username+"@example.com", "password123")
	require.NoError(t, err)
	return c, session.User.ID
}

func TestSubmitExpenseEndToEnd(t *testing.T) {
	srv := newServer(t, 0)
	ctx := context.Background()

	alice, aliceID := registerUser(t, srv, "alice")
	_, bobID := registerUser(t, srv, "bob")
	_, carolID := registerUser(t, srv, "carol")

	found, err := alice.SearchMembers(ctx, "bo")
	require.NoError(t, err)
	require.Len(t, found, 1)
	assert.Equal(t, bobID, found[0].ID)

	created, err := alice.CreateGroup(ctx, "Flat", []models.ID{bobID, carolID})
	require.NoError(t, err)
	assert.Equal(t, []models.ID{bobID, carolID, aliceID}, created.MemberIDs())

	groups, err := alice.ListGroups(ctx)
	require.NoError(t, err)
	require.Len(t, groups, 1)

	group, err := alice.GetGroup(ctx, created.ID)
	require.NoError(t, err)

	sub := submitter.New(alice, logging.Discard())
	result, err := sub.Submit(ctx, submitter.Form{
		Description: "Groceries",
		TotalAmount: "100",
		SplitType:   "equal",
		PaidBy:      aliceID,
	}, *group)
	require.NoError(t, err)
	assert.NotEmpty(t, result.Created.ID)

	// Bob sits first in the group, so he absorbs the extra cent.
	assert.Equal(t, json.Number("33.34"), result.Payload.Shares[0].AmountOwed)
	assert.Equal(t, bobID, result.Payload.Shares[0].User)

	_, err = sub.Submit(ctx, submitter.Form{
		Description: "Snacks",
		TotalAmount: "10",
		SplitType:   "itemized",
		PaidBy:      bobID,
		Items: []submitter.ItemForm{
			{Name: "Chips", Amount: "4", Participants: []models.ID{aliceID, carolID}},
			{Name: "Soda", Amount: "6", Participants: []models.ID{bobID}},
		},
	}, *group)
	require.NoError(t, err)

	balances, err := alice.GroupBalances(ctx, group.ID)
	require.NoError(t, err)
	net := make(map[models.ID]string)
	for _, b := range balances.Balances {
		net[b.User] = b.NetBalance.String()
	}
	// alice: paid 100, owes 33.33 + 2 = 35.33 -> +64.67
	// bob: paid 10, owes 33.34 + 6 -> -29.34
	// carol: owes 33.33 + 2 -> -35.33
	assert.Equal(t, "64.67", net[aliceID])
	assert.Equal(t, "-29.34", net[bobID])
	assert.Equal(t, "-35.33", net[carolID])
}

func TestSubmitRejectedByServer(t *testing.T) {
	srv := newServer(t, 0)
	ctx := context.Background()

	alice, _ := registerUser(t, srv, "alice")
	_, bobID := registerUser(t, srv, "bob")

	group, err := alice.CreateGroup(ctx, "Pair", []models.ID{bobID})
	require.NoError(t, err)

	// A stale snapshot that still lists someone who is not in the group
	// passes local validation but is refused by the server.
	stale := *group
	stale.Members = append(stale.Members, models.Member{ID: "ghost", Username: "ghost"})

	sub := submitter.New(alice, logging.Discard())
	_, err = sub.Submit(ctx, submitter.Form{Description: "Taxi", TotalAmount: "9", SplitType: "equal"}, stale)

	require.ErrorIs(t, err, apiclient.ErrServerRejected)
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusBadRequest, apiErr.Status)
	assert.Contains(t, apiErr.UserMessage(), "ghost")
}

func TestCreateExpenseValidationResponses(t *testing.T) {
	srv := newServer(t, 0)
	alice, aliceID := registerUser(t, srv, "alice")
	group, err := alice.CreateGroup(context.Background(), "Solo", nil)
	require.NoError(t, err)

	tests := []struct {
		name       string
		body       string
		wantStatus int
		wantKey    string
	}{
		{
			name:       "missing fields",
			body:       `{"description": "x"}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "group",
		},
		{
			name:       "malformed json",
			body:       `{`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "detail",
		},
		{
			name: "shares do not reconcile",
			body: `{"description": "x", "group": "` + group.ID.String() + `", "split_type": "manual", "amount": 10,
				"shares": [{"user": "` + aliceID.String() + `", "amount_owed": 9.50}]}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "detail",
		},
		{
			name: "zero share is refused",
			body: `{"description": "x", "group": "` + group.ID.String() + `", "split_type": "manual", "amount": 10,
				"shares": [{"user": "` + aliceID.String() + `", "amount_owed": 0}]}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "detail",
		},
		{
			name: "amount too large for cents",
			body: `{"description": "x", "group": "` + group.ID.String() + `", "split_type": "manual", "amount": 100000000000000000000,
				"shares": [{"user": "` + aliceID.String() + `", "amount_owed": 100000000000000000000}]}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "detail",
		},
		{
			name: "unknown category",
			body: `{"description": "x", "group": "` + group.ID.String() + `", "category_id": 999, "split_type": "manual", "amount": 10,
				"shares": [{"user": "` + aliceID.String() + `", "amount_owed": 10}]}`,
			wantStatus: http.StatusBadRequest,
			wantKey:    "category_id",
		},
		{
			name: "known category is accepted",
			body: `{"description": "x", "group": "` + group.ID.String() + `", "category_id": 1, "split_type": "manual", "amount": 10,
				"shares": [{"user": "` + aliceID.String() + `", "amount_owed": 10}]}`,
			wantStatus: http.StatusCreated,
			wantKey:    "id",
		},
		{
			name: "string amounts are accepted",
			body: `{"description": "x", "group": "` + group.ID.String() + `", "split_type": "unequal", "amount": "10.00",
				"shares": [{"user": "` + aliceID.String() + `", "amount_owed": "10.00"}]}`,
			wantStatus: http.StatusCreated,
			wantKey:    "id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, err := http.NewRequest(http.MethodPost, srv.URL+"/expenses", strings.NewReader(tt.body))
			require.NoError(t, err)
			req.Header.Set("Authorization", "Bearer "+alice.Token())
			req.Header.Set("Content-Type", "application/json")

			resp, err := http.DefaultClient.Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()

			assert.Equal(t, tt.wantStatus, resp.StatusCode)
			var body map[string]any
			require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
			assert.Contains(t, body, tt.wantKey)
		})
	}
}

func TestCategories(t *testing.T) {
	srv := newServer(t, 0)
	ctx := context.Background()
	alice, aliceID := registerUser(t, srv, "alice")

	categories, err := alice.ListCategories(ctx)
	require.NoError(t, err)
	require.NotEmpty(t, categories)
	assert.Equal(t, models.Category{ID: "1", Name: "Food"}, categories[0])

	group, err := alice.CreateGroup(ctx, "Solo", nil)
	require.NoError(t, err)

	sub := submitter.New(alice, logging.Discard())
	_, err = sub.Submit(ctx, submitter.Form{
		Description: "Rent",
		CategoryID:  "404",
		TotalAmount: "500",
		SplitType:   "equal",
		PaidBy:      aliceID,
	}, *group)
	require.ErrorIs(t, err, apiclient.ErrServerRejected)
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, `category_id: Invalid pk "404" - object does not exist.`, apiErr.UserMessage())

	_, err = sub.Submit(ctx, submitter.Form{
		Description: "Rent",
		CategoryID:  categories[3].ID,
		TotalAmount: "500",
		SplitType:   "equal",
		PaidBy:      aliceID,
	}, *group)
	require.NoError(t, err)

	anonymous := newClient(t, srv)
	_, err = anonymous.ListCategories(ctx)
	require.ErrorIs(t, err, apiclient.ErrServerRejected)
}

func TestAuthRequired(t *testing.T) {
	srv := newServer(t, 0)

	c := newClient(t, srv)
	_, err := c.ListGroups(context.Background())
	require.ErrorIs(t, err, apiclient.ErrServerRejected)

	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
	assert.Equal(t, "Authentication credentials were not provided.", apiErr.Message)

	c.SetToken("not-a-token")
	_, err = c.GetGroup(context.Background(), "1")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)
}

func TestLoginAndRegistrationErrors(t *testing.T) {
	srv := newServer(t, 0)
	ctx := context.Background()
	registerUser(t, srv, "alice")

	c := newClient(t, srv)
	_, err := c.Login(ctx, "alice", "wrong-password")
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusUnauthorized, apiErr.Status)

	_, err = c.Register(ctx, "alice", "", "password123")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "username: A user with that username already exists.", apiErr.Message)

	_, err = c.Register(ctx, "bob", "not-an-email", "short")
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, "email: Enter a valid email address.", apiErr.Message)

	session, err := c.Login(ctx, "alice", "password123")
	require.NoError(t, err)
	assert.Equal(t, session.Access, c.Token())
}

func TestForbiddenForNonMembers(t *testing.T) {
	srv := newServer(t, 0)
	ctx := context.Background()

	alice, _ := registerUser(t, srv, "alice")
	mallory, _ := registerUser(t, srv, "mallory")

	group, err := alice.CreateGroup(ctx, "Private", nil)
	require.NoError(t, err)

	_, err = mallory.GroupBalances(ctx, group.ID)
	var apiErr *apiclient.Error
	require.ErrorAs(t, err, &apiErr)
	assert.Equal(t, http.StatusForbidden, apiErr.Status)
	assert.Equal(t, "You are not a member of this group.", apiErr.Message)
}

func TestHealthAndMetrics(t *testing.T) {
	srv := newServer(t, 0)

	resp, err := http.Get(srv.URL + "/health")
	require.NoError(t, err)
	resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	resp, err = http.Get(srv.URL + "/metrics")
	require.NoError(t, err)
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	require.NoError(t, err)
	assert.Contains(t, string(body), "sharesplit_http_requests_total")
}

func TestRateLimit(t *testing.T) {
	srv := newServer(t, 2)

	statuses := make([]int, 0, 3)
	for i := 0; i < 3; i++ {
		resp, err := http.Get(srv.URL + "/health")
		require.NoError(t, err)
		resp.Body.Close()
		statuses = append(statuses, resp.StatusCode)
	}
	assert.Equal(t, []int{http.StatusOK, http.StatusOK, http.StatusTooManyRequests}, statuses)
}

func TestEngineAndServerAgree(t *testing.T) {
	// Whatever the engine accepts, the server's reconciliation accepts too.
	srv := newServer(t, 0)
	ctx := context.Background()

	alice, aliceID := registerUser(t, srv, "alice")
	_, bobID := registerUser(t, srv, "bob")
	group, err := alice.CreateGroup(ctx, "Pair", []models.ID{bobID})
	require.NoError(t, err)

	sub := submitter.New(alice, logging.Discard())
	forms := []submitter.Form{
		{Description: "a", TotalAmount: "0.01", SplitType: "equal"},
		{Description: "b", TotalAmount: "99.99", SplitType: "manual", MemberAmounts: map[models.ID]string{aliceID: "50", bobID: "49.98"}},
		{Description: "c", TotalAmount: "7.77", SplitType: "itemized", Items: []submitter.ItemForm{
			{Name: "x", Amount: "7.77", Participants: []models.ID{bobID, aliceID}},
		}},
	}
	for _, form := range forms {
		res, err := sub.Submit(ctx, form, *group)
		require.NoError(t, err, form.Description)
		assert.NoError(t, calculator.Reconcile(res.Result.Total, res.Result.Shares, group.MemberIDs()))
	}
}
