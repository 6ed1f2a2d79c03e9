package mocks

import (
	"context"
	"sync"

	"github.com/calebwray/enroll-api/internal/domain"
)

// MockNotifier records the accounts it was asked to notify.
type MockNotifier struct {
	mu       sync.Mutex
	Notified []*domain.Account
}

// NewMockNotifier creates a new MockNotifier.
func NewMockNotifier() *MockNotifier {
	return &MockNotifier{}
}

// Notify implements the registration.Notifier interface.
func (m *MockNotifier) Notify(ctx context.Context, account *domain.Account) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Notified = append(m.Notified, account)
}

// Count returns how many notifications were triggered.
func (m *MockNotifier) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.Notified)
}

// Last returns the most recently notified account, or nil.
func (m *MockNotifier) Last() *domain.Account {
	m.mu.Lock()
	defer m.mu.Unlock()
	if len(m.Notified) == 0 {
		return nil
	}
	return m.Notified[len(m.Notified)-1]
}
