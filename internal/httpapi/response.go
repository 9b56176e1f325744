package httpapi

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/mmynk/sharesplit/internal/auth"
	"github.com/mmynk/sharesplit/internal/calculator"
	"github.com/mmynk/sharesplit/internal/service"
	"github.com/mmynk/sharesplit/internal/storage"
)

// JSON sends v as a JSON response with the given status code.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

// Detail sends {"detail": message}.
func Detail(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"detail": message})
}

// Fields sends a field-keyed error map such as {"name": ["required"]}.
func Fields(w http.ResponseWriter, status int, fields map[string][]string) {
	JSON(w, status, fields)
}

func BadRequest(w http.ResponseWriter, message string) {
	Detail(w, http.StatusBadRequest, message)
}

func Unauthorized(w http.ResponseWriter, message string) {
	Detail(w, http.StatusUnauthorized, message)
}

func Forbidden(w http.ResponseWriter, message string) {
	Detail(w, http.StatusForbidden, message)
}

func NotFound(w http.ResponseWriter, message string) {
	Detail(w, http.StatusNotFound, message)
}

func InternalError(w http.ResponseWriter) {
	Detail(w, http.StatusInternalServerError, "Internal server error.")
}

// writeError maps service, auth and engine errors to HTTP responses.
func writeError(w http.ResponseWriter, logger *slog.Logger, err error) {
	var fieldErr *service.FieldError
	var validationErr *calculator.ValidationError

	switch {
	case errors.As(err, &fieldErr):
		Fields(w, http.StatusBadRequest, map[string][]string{fieldErr.Field: {fieldErr.Message}})
	case errors.As(err, &validationErr):
		BadRequest(w, capitalize(validationErr.Error())+".")
	case errors.Is(err, auth.ErrWeakPassword):
		Fields(w, http.StatusBadRequest, map[string][]string{"password": {capitalize(err.Error()) + "."}})
	case errors.Is(err, auth.ErrUsernameTaken):
		Fields(w, http.StatusBadRequest, map[string][]string{"username": {"A user with that username already exists."}})
	case errors.Is(err, auth.ErrEmailExists):
		Fields(w, http.StatusBadRequest, map[string][]string{"email": {"A user with that email already exists."}})
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, "No active account found with the given credentials.")
	case errors.Is(err, auth.ErrMissingToken):
		Unauthorized(w, "Authentication credentials were not provided.")
	case errors.Is(err, auth.ErrInvalidToken), errors.Is(err, service.ErrUnauthenticated):
		Unauthorized(w, "Given token not valid for any token type.")
	case errors.Is(err, service.ErrForbidden):
		Forbidden(w, "You are not a member of this group.")
	case errors.Is(err, storage.ErrNotFound):
		NotFound(w, "Not found.")
	default:
		logger.Error("Unhandled error", "error", err)
		InternalError(w)
	}
}

func capitalize(s string) string {
	if s == "" || s[0] < 'a' || s[0] > 'z' {
		return s
	}
	return string(s[0]-'a'+'A') + s[1:]
}
