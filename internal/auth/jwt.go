package auth

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"

	"github.com/mmynk/sharesplit/internal/models"
)

var (
	ErrInvalidToken = errors.New("invalid or expired token")
	ErrMissingToken = errors.New("authorization token required")
)

const (
	tokenIssuer = "sharesplit"

	// accessTokenType mirrors the token_type claim of the REST backend's
	// access tokens, so clients can share tokens between the two.
	accessTokenType = "access"
)

// Claims identify the user behind an access token.
type Claims struct {
	TokenType string    `json:"token_type"`
	UserID    models.ID `json:"user_id"`
	Username  string    `json:"username"`
	jwt.RegisteredClaims
}

// JWTManager issues and checks HS256 access tokens.
type JWTManager struct {
	key []byte
	ttl time.Duration
	now func() time.Time
}

// NewJWTManager returns a manager signing with secret. Issued tokens expire
// after ttl.
func NewJWTManager(secret string, ttl time.Duration) *JWTManager {
	return &JWTManager{key: []byte(secret), ttl: ttl, now: time.Now}
}

// Generate issues an access token for user.
func (m *JWTManager) Generate(user *models.User) (string, error) {
	issued := m.now()
	claims := Claims{
		TokenType: accessTokenType,
		UserID:    user.ID,
		Username:  user.Username,
		RegisteredClaims: jwt.RegisteredClaims{
			ID:        uuid.NewString(),
			Issuer:    tokenIssuer,
			Subject:   user.ID.String(),
			IssuedAt:  jwt.NewNumericDate(issued),
			NotBefore: jwt.NewNumericDate(issued),
			ExpiresAt: jwt.NewNumericDate(issued.Add(m.ttl)),
		},
	}

	signed, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(m.key)
	if err != nil {
		return "", fmt.Errorf("failed to sign access token for %s: %w", user.Username, err)
	}
	return signed, nil
}

// Validate checks signature, issuer and lifetime of an access token and
// returns its claims. Every failure matches ErrInvalidToken.
func (m *JWTManager) Validate(raw string) (*Claims, error) {
	var claims Claims
	_, err := jwt.ParseWithClaims(raw, &claims,
		func(*jwt.Token) (any, error) { return m.key, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithIssuer(tokenIssuer),
		jwt.WithExpirationRequired(),
		jwt.WithTimeFunc(m.now),
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidToken, err)
	}
	if claims.TokenType != accessTokenType || claims.UserID.IsZero() {
		return nil, ErrInvalidToken
	}
	return &claims, nil
}
