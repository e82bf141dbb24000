package identity

import (
	"context"
	"strings"
	"sync"
	"time"

	"github.com/campuskit/campus-portal/pkg/tokengenerator"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

type storedAccount struct {
	account        Account
	credentialHash []byte
}

// InMemoryProvider implements Provider with in-process storage. It stands
// in for the hosted identity provider in dev and tests. Credentials are
// bcrypt-hashed on the way in and never stored or returned in plaintext.
type InMemoryProvider struct {
	mu       sync.RWMutex
	accounts map[uuid.UUID]storedAccount
	byEmail  map[string]uuid.UUID
	tokens   tokengenerator.TokenGenerator
}

// NewInMemoryProvider creates a new in-memory identity provider. The token
// generator is used to issue and resolve bearer tokens for accounts.
func NewInMemoryProvider(tokens tokengenerator.TokenGenerator) *InMemoryProvider {
	return &InMemoryProvider{
		accounts: make(map[uuid.UUID]storedAccount),
		byEmail:  make(map[string]uuid.UUID),
		tokens:   tokens,
	}
}

// CreateAccount creates a new account with a hashed credential
func (p *InMemoryProvider) CreateAccount(ctx context.Context, params CreateAccountParams) (Account, error) {
	email := strings.ToLower(strings.TrimSpace(params.Email))

	p.mu.Lock()
	defer p.mu.Unlock()

	if _, exists := p.byEmail[email]; exists {
		return Account{}, ErrEmailTaken
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(params.Credential), bcrypt.DefaultCost)
	if err != nil {
		return Account{}, err
	}

	account := Account{
		ID:            uuid.New(),
		Email:         email,
		EmailVerified: params.EmailVerified,
		CreatedAt:     time.Now(),
	}
	p.accounts[account.ID] = storedAccount{account: account, credentialHash: hash}
	p.byEmail[email] = account.ID
	return account, nil
}

// DeleteAccount removes an account
func (p *InMemoryProvider) DeleteAccount(ctx context.Context, id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	stored, ok := p.accounts[id]
	if !ok {
		return ErrAccountNotFound
	}
	delete(p.byEmail, stored.account.Email)
	delete(p.accounts, id)
	return nil
}

// ResolveCaller resolves a bearer token to the issuing account
func (p *InMemoryProvider) ResolveCaller(ctx context.Context, token string) (uuid.UUID, error) {
	parsed, err := p.tokens.ParseToken(token)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	sub, err := tokengenerator.Subject(parsed)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}
	accountID, err := uuid.Parse(sub)
	if err != nil {
		return uuid.Nil, ErrInvalidToken
	}

	p.mu.RLock()
	defer p.mu.RUnlock()
	if _, ok := p.accounts[accountID]; !ok {
		return uuid.Nil, ErrInvalidToken
	}
	return accountID, nil
}

// IssueToken mints a bearer token for an existing account. Used by the
// in-memory demo binary and by tests to act as a caller.
func (p *InMemoryProvider) IssueToken(accountID uuid.UUID, expiry time.Duration) (string, error) {
	p.mu.RLock()
	_, ok := p.accounts[accountID]
	p.mu.RUnlock()
	if !ok {
		return "", ErrAccountNotFound
	}
	token, _, err := p.tokens.GenerateToken(accountID.String(), expiry, nil)
	return token, err
}

// VerifyCredential checks an email/credential pair against the stored hash
func (p *InMemoryProvider) VerifyCredential(ctx context.Context, email, credential string) (uuid.UUID, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	id, ok := p.byEmail[strings.ToLower(strings.TrimSpace(email))]
	if !ok {
		return uuid.Nil, false
	}
	stored := p.accounts[id]
	if bcrypt.CompareHashAndPassword(stored.credentialHash, []byte(credential)) != nil {
		return uuid.Nil, false
	}
	return id, true
}

// GetAccount returns an account by ID
func (p *InMemoryProvider) GetAccount(ctx context.Context, id uuid.UUID) (Account, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stored, ok := p.accounts[id]
	if !ok {
		return Account{}, ErrAccountNotFound
	}
	return stored.account, nil
}
