// Package identity abstracts the external identity provider: the service of
// record for accounts, credentials and group membership.
package identity

import (
	"context"
	"errors"
)

// Provider error sentinels. Adapters translate provider-specific failures
// into these so callers never branch on raw provider errors.
var (
	ErrUsernameExists    = errors.New("username already exists in identity provider")
	ErrWeakPassword      = errors.New("password rejected by identity provider policy")
	ErrInvalidAttributes = errors.New("identity provider rejected account attributes")
	ErrAccountNotFound   = errors.New("account not found in identity provider")
)

// Account is the subset of identity-provider account state the workflow reads.
type Account struct {
	ID       string
	Username string
	Email    string
}

// CreateAccountInput carries the flattened attribute set for a new account.
// Nested structures are JSON-encoded into single string attributes before
// they reach this boundary.
type CreateAccountInput struct {
	Username   string
	Attributes map[string]string
}

// Provider is the contract the provisioning workflow expects from the
// identity provider. All operations are synchronous and single-shot; the
// provider enforces its own concurrency control.
type Provider interface {
	// CreateAccount creates the account and returns the provider-issued id.
	// The provider is instructed to suppress its own invitation message;
	// confirmation delivery is managed by the workflow separately.
	CreateAccount(ctx context.Context, in CreateAccountInput) (string, error)

	// FindByEmail returns the first account with the given email, or
	// (nil, nil) when there is no match.
	FindByEmail(ctx context.Context, email string) (*Account, error)

	// FindByUsername returns the first account with the given username, or
	// (nil, nil) when there is no match.
	FindByUsername(ctx context.Context, username string) (*Account, error)

	// FindByAttribute returns the first account whose named attribute equals
	// the given value, or (nil, nil) when there is no match.
	FindByAttribute(ctx context.Context, name, value string) (*Account, error)

	// AddToGroup attaches the account to a named group.
	AddToGroup(ctx context.Context, username, group string) error

	// SetTemporaryPassword sets a non-permanent credential on the account.
	SetTemporaryPassword(ctx context.Context, username, password string) error

	// MarkEmailUnverified flags the account's email as unverified, which
	// triggers the provider's own verification notification.
	MarkEmailUnverified(ctx context.Context, username string) error
}
