package middleware

import (
	"bytes"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmynk/sharesplit/internal/auth"
	"github.com/mmynk/sharesplit/internal/models"
)

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret-of-sufficient-length", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u-1", Username: "alice"})
	require.NoError(t, err)

	var rejected error
	handler := RequireAuth(jwtManager, func(w http.ResponseWriter, r *http.Request, err error) {
		rejected = err
		w.WriteHeader(http.StatusUnauthorized)
	})(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, models.ID("u-1"), GetUserID(r.Context()))
		assert.Equal(t, "alice", GetUsername(r.Context()))
		w.WriteHeader(http.StatusNoContent)
	}))

	tests := []struct {
		name       string
		header     string
		wantStatus int
		wantErr    error
	}{
		{name: "valid token", header: "Bearer " + token, wantStatus: http.StatusNoContent},
		{name: "lowercase scheme", header: "bearer " + token, wantStatus: http.StatusNoContent},
		{name: "missing header", wantStatus: http.StatusUnauthorized, wantErr: auth.ErrMissingToken},
		{name: "wrong scheme", header: "Basic abc", wantStatus: http.StatusUnauthorized, wantErr: auth.ErrInvalidToken},
		{name: "bad token", header: "Bearer nope", wantStatus: http.StatusUnauthorized, wantErr: auth.ErrInvalidToken},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rejected = nil
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.header != "" {
				req.Header.Set("Authorization", tt.header)
			}
			rec := httptest.NewRecorder()
			handler.ServeHTTP(rec, req)

			assert.Equal(t, tt.wantStatus, rec.Code)
			if tt.wantErr != nil {
				assert.True(t, errors.Is(rejected, tt.wantErr), "got %v", rejected)
			}
		})
	}
}

func TestOptionalAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret-of-sufficient-length", time.Hour)

	var seen models.ID
	handler := OptionalAuth(jwtManager)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetUserID(r.Context())
	}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.Header.Set("Authorization", "Bearer garbage")
	handler.ServeHTTP(httptest.NewRecorder(), req)
	assert.True(t, seen.IsZero())
}

func TestLoggingRecordsUserAndStatus(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret-of-sufficient-length", time.Hour)
	token, err := jwtManager.Generate(&models.User{ID: "u-9", Username: "bob"})
	require.NoError(t, err)

	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	inner := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	})
	handler := Logging(logger)(RequireAuth(jwtManager, nil)(inner))

	req := httptest.NewRequest(http.MethodGet, "/brew", nil)
	req.Header.Set("Authorization", "Bearer "+token)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	out := buf.String()
	assert.Contains(t, out, `"level":"WARN"`)
	assert.Contains(t, out, `"status":418`)
	assert.Contains(t, out, `"user_id":"u-9"`)
}

func TestCORSPreflight(t *testing.T) {
	called := false
	handler := CORS(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, httptest.NewRequest(http.MethodOptions, "/expenses", nil))

	assert.False(t, called)
	assert.Equal(t, http.StatusNoContent, rec.Code)
	assert.Equal(t, "*", rec.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, rec.Header().Get("Access-Control-Allow-Headers"), "Authorization")
}
