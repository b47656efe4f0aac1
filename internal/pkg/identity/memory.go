package identity

import (
	"context"
	"sync"

	"github.com/google/uuid"
)

type memoryAccount struct {
	id         string
	username   string
	attributes map[string]string
	groups     map[string]bool
	tempPass   string
	verified   bool
}

// InMemoryProvider is a Provider backed by process memory. It is used as the
// development driver and as the collaborator double in tests.
type InMemoryProvider struct {
	mu       sync.Mutex
	accounts map[string]*memoryAccount
}

// NewInMemoryProvider creates an empty in-memory provider.
func NewInMemoryProvider() *InMemoryProvider {
	return &InMemoryProvider{accounts: make(map[string]*memoryAccount)}
}

// CreateAccount stores the account and issues a random id.
func (p *InMemoryProvider) CreateAccount(_ context.Context, in CreateAccountInput) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.accounts[in.Username]; exists {
		return "", ErrUsernameExists
	}

	attrs := make(map[string]string, len(in.Attributes))
	for k, v := range in.Attributes {
		attrs[k] = v
	}

	account := &memoryAccount{
		id:         uuid.NewString(),
		username:   in.Username,
		attributes: attrs,
		groups:     make(map[string]bool),
	}
	p.accounts[in.Username] = account
	return account.id, nil
}

// FindByEmail scans accounts for a matching email attribute.
func (p *InMemoryProvider) FindByEmail(_ context.Context, email string) (*Account, error) {
	return p.findBy("email", email), nil
}

// FindByUsername looks the account up by its key.
func (p *InMemoryProvider) FindByUsername(_ context.Context, username string) (*Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[username]
	if !ok {
		return nil, nil
	}
	return p.toAccount(account), nil
}

// FindByAttribute scans accounts for a matching attribute value.
func (p *InMemoryProvider) FindByAttribute(_ context.Context, name, value string) (*Account, error) {
	return p.findBy(name, value), nil
}

func (p *InMemoryProvider) findBy(name, value string) *Account {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, account := range p.accounts {
		if account.attributes[name] == value {
			return p.toAccount(account)
		}
	}
	return nil
}

func (p *InMemoryProvider) toAccount(a *memoryAccount) *Account {
	return &Account{
		ID:       a.id,
		Username: a.username,
		Email:    a.attributes["email"],
	}
}

// AddToGroup records the group membership.
func (p *InMemoryProvider) AddToGroup(_ context.Context, username, group string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[username]
	if !ok {
		return ErrAccountNotFound
	}
	account.groups[group] = true
	return nil
}

// SetTemporaryPassword records the non-permanent credential.
func (p *InMemoryProvider) SetTemporaryPassword(_ context.Context, username, password string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[username]
	if !ok {
		return ErrAccountNotFound
	}
	account.tempPass = password
	return nil
}

// MarkEmailUnverified clears the verification flag.
func (p *InMemoryProvider) MarkEmailUnverified(_ context.Context, username string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[username]
	if !ok {
		return ErrAccountNotFound
	}
	account.verified = false
	return nil
}

// Groups returns the groups the account belongs to. Test helper.
func (p *InMemoryProvider) Groups(username string) []string {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[username]
	if !ok {
		return nil
	}
	groups := make([]string, 0, len(account.groups))
	for g := range account.groups {
		groups = append(groups, g)
	}
	return groups
}

// Attributes returns a copy of the stored attribute set. Test helper.
func (p *InMemoryProvider) Attributes(username string) map[string]string {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[username]
	if !ok {
		return nil
	}
	attrs := make(map[string]string, len(account.attributes))
	for k, v := range account.attributes {
		attrs[k] = v
	}
	return attrs
}

// HasTemporaryPassword reports whether a temporary credential was set. Test helper.
func (p *InMemoryProvider) HasTemporaryPassword(username string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()

	account, ok := p.accounts[username]
	return ok && account.tempPass != ""
}
