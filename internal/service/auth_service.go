package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/mmynk/sharesplit/internal/auth"
	"github.com/mmynk/sharesplit/internal/models"
	"github.com/mmynk/sharesplit/internal/storage"
)

const searchLimit = 25

// Session is an issued access token and the user it belongs to.
type Session struct {
	Access string
	User   *models.User
}

// AuthService registers users, logs them in and searches the directory.
type AuthService struct {
	authenticator auth.Authenticator
	jwtManager    *auth.JWTManager
	store         storage.Store
	logger        *slog.Logger
}

// NewAuthService creates an AuthService.
func NewAuthService(authenticator auth.Authenticator, jwtManager *auth.JWTManager, store storage.Store, logger *slog.Logger) *AuthService {
	return &AuthService{
		authenticator: authenticator,
		jwtManager:    jwtManager,
		store:         store,
		logger:        logger,
	}
}

// Register creates an account and returns a session for it.
func (s *AuthService) Register(ctx context.Context, username, email, password string) (*Session, error) {
	user, err := s.authenticator.Register(ctx, username, email, password)
	if err != nil {
		s.logger.Warn("Registration rejected", "username", username, "error", err)
		return nil, err
	}
	s.logger.Info("User registered", "user_id", user.ID, "username", user.Username)
	return s.issue(user)
}

// Login checks credentials and returns a session.
func (s *AuthService) Login(ctx context.Context, username, password string) (*Session, error) {
	user, err := s.authenticator.Authenticate(ctx, username, password)
	if err != nil {
		s.logger.Warn("Login failed", "username", username, "error", err)
		return nil, err
	}
	s.logger.Info("User logged in", "user_id", user.ID)
	return s.issue(user)
}

// SearchMembers lists users whose username contains query.
func (s *AuthService) SearchMembers(ctx context.Context, query string) ([]models.Member, error) {
	users, err := s.store.SearchUsers(ctx, strings.TrimSpace(query), searchLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to search users: %w", err)
	}
	members := make([]models.Member, 0, len(users))
	for _, u := range users {
		members = append(members, u.AsMember())
	}
	return members, nil
}

func (s *AuthService) issue(user *models.User) (*Session, error) {
	token, err := s.jwtManager.Generate(user)
	if err != nil {
		return nil, err
	}
	return &Session{Access: token, User: user}, nil
}
