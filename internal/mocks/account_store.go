package mocks

import (
	"context"
	"database/sql"
	"sync"

	"github.com/google/uuid"

	"github.com/calebwray/enroll-api/internal/domain"
	"github.com/calebwray/enroll-api/internal/store"
)

// MockAccountStore implements store.AccountStore for testing
type MockAccountStore struct {
	// Function fields for customizable behavior
	CreateFn        func(ctx context.Context, account *domain.Account) error
	GetByIDFn       func(ctx context.Context, id uuid.UUID) (*domain.Account, error)
	GetByUsernameFn func(ctx context.Context, username string) (*domain.Account, error)
	GetByEmailFn    func(ctx context.Context, email string) (*domain.Account, error)
	UpdateFn        func(ctx context.Context, account *domain.Account) error
	DeleteFn        func(ctx context.Context, id uuid.UUID) error

	// Data for default implementation, keyed by username
	mu            sync.Mutex
	Accounts      map[string]*domain.Account
	LastAccountID uuid.UUID
	CreateError   error
	LookupError   error
}

// NewMockAccountStore creates a new mock store with initialized defaults
func NewMockAccountStore() *MockAccountStore {
	return &MockAccountStore{
		Accounts: make(map[string]*domain.Account),
	}
}

// Create implements the AccountStore interface
func (m *MockAccountStore) Create(ctx context.Context, account *domain.Account) error {
	if m.CreateFn != nil {
		return m.CreateFn(ctx, account)
	}

	if m.CreateError != nil {
		return m.CreateError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, exists := m.Accounts[account.Username]; exists {
		return store.ErrUsernameExists
	}
	for _, existing := range m.Accounts {
		if existing.Email == account.Email {
			return store.ErrEmailExists
		}
	}

	m.Accounts[account.Username] = account
	m.LastAccountID = account.ID
	return nil
}

// GetByID implements the AccountStore interface
func (m *MockAccountStore) GetByID(ctx context.Context, id uuid.UUID) (*domain.Account, error) {
	if m.GetByIDFn != nil {
		return m.GetByIDFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, account := range m.Accounts {
		if account.ID == id {
			return account, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// GetByUsername implements the AccountStore interface
func (m *MockAccountStore) GetByUsername(
	ctx context.Context,
	username string,
) (*domain.Account, error) {
	if m.GetByUsernameFn != nil {
		return m.GetByUsernameFn(ctx, username)
	}

	if m.LookupError != nil {
		return nil, m.LookupError
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	account, exists := m.Accounts[username]
	if !exists {
		return nil, store.ErrAccountNotFound
	}
	return account, nil
}

// GetByEmail implements the AccountStore interface
func (m *MockAccountStore) GetByEmail(ctx context.Context, email string) (*domain.Account, error) {
	if m.GetByEmailFn != nil {
		return m.GetByEmailFn(ctx, email)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for _, account := range m.Accounts {
		if account.Email == email {
			return account, nil
		}
	}
	return nil, store.ErrAccountNotFound
}

// Update implements the AccountStore interface
func (m *MockAccountStore) Update(ctx context.Context, account *domain.Account) error {
	if m.UpdateFn != nil {
		return m.UpdateFn(ctx, account)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for username, existing := range m.Accounts {
		if existing.ID == account.ID {
			delete(m.Accounts, username)
			m.Accounts[account.Username] = account
			return nil
		}
	}
	return store.ErrAccountNotFound
}

// Delete implements the AccountStore interface
func (m *MockAccountStore) Delete(ctx context.Context, id uuid.UUID) error {
	if m.DeleteFn != nil {
		return m.DeleteFn(ctx, id)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	for username, existing := range m.Accounts {
		if existing.ID == id {
			delete(m.Accounts, username)
			return nil
		}
	}
	return store.ErrAccountNotFound
}

// WithTx implements the AccountStore interface; the mock ignores
// transactions and returns itself.
func (m *MockAccountStore) WithTx(tx *sql.Tx) store.AccountStore {
	return m
}

// Count returns the number of stored accounts.
func (m *MockAccountStore) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Accounts)
}

var _ store.AccountStore = (*MockAccountStore)(nil)
