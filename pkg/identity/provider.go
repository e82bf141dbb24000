package identity

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
)

// Errors reported across the identity provider boundary. Callers translate
// these into the API error taxonomy; the provider itself stays neutral.
var (
	ErrEmailTaken      = errors.New("an account with this email already exists")
	ErrAccountNotFound = errors.New("account not found")
	ErrInvalidToken    = errors.New("invalid or expired token")
)

// Account is the identity-provider-issued principal. Domain tables
// reference it by ID and never duplicate its credential.
type Account struct {
	ID            uuid.UUID `json:"id"`
	Email         string    `json:"email"`
	EmailVerified bool      `json:"email_verified"`
	CreatedAt     time.Time `json:"created_at"`
}

// CreateAccountParams contains parameters for creating a new account
type CreateAccountParams struct {
	Email         string
	Credential    string
	EmailVerified bool
}

// Provider is the narrow interface to the external identity provider.
// Implementations own authenticated accounts; everything else in the
// portal only holds account IDs.
type Provider interface {
	// CreateAccount creates an authenticated account.
	// Returns ErrEmailTaken if the email already maps to an account.
	CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error)

	// DeleteAccount removes an account.
	// Returns ErrAccountNotFound if the account does not exist.
	DeleteAccount(ctx context.Context, id uuid.UUID) error

	// ResolveCaller resolves a bearer token to the account that issued it.
	// Returns ErrInvalidToken when the token cannot be resolved.
	ResolveCaller(ctx context.Context, token string) (uuid.UUID, error)
}
