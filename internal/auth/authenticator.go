// Package auth issues and checks sandbox credentials: bcrypt-hashed passwords
// and HS256 bearer tokens.
package auth

import (
	"context"

	"github.com/mmynk/sharesplit/internal/models"
)

// Authenticator creates accounts and verifies logins.
type Authenticator interface {
	// Register creates a new account. The credential format depends on the
	// implementation.
	Register(ctx context.Context, username, email, credential string) (*models.User, error)

	// Authenticate returns the user when the credential matches.
	Authenticate(ctx context.Context, username, credential string) (*models.User, error)

	// ValidateCredential checks the credential meets the implementation's
	// requirements.
	ValidateCredential(credential string) error
}
