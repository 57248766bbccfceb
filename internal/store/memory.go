package store

import (
	"context"
	"sync"

	"github.com/dmanalytics/miniapp/internal/model"
)

// Memory is an in-process Store. Data is lost on restart.
type Memory struct {
	mu        sync.RWMutex
	users     map[int64]*User
	accounts  []string
	seen      map[string]bool
	analytics []model.AnalyticsItem
	logs      []string
}

// NewMemory returns an empty Memory store.
func NewMemory() *Memory {
	return &Memory{
		users: make(map[int64]*User),
		seen:  make(map[string]bool),
	}
}

// Ping always succeeds.
func (m *Memory) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (m *Memory) Close() error { return nil }

// GetUser returns a copy of the user record.
func (m *Memory) GetUser(ctx context.Context, telegramID int64) (*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	u, ok := m.users[telegramID]
	if !ok {
		return nil, ErrUserNotFound
	}
	cp := *u
	return &cp, nil
}

// CreateUser stores u and its account names.
func (m *Memory) CreateUser(ctx context.Context, u *User) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, exists := m.users[u.TelegramID]; exists {
		return ErrUserExists
	}
	cp := *u
	m.users[u.TelegramID] = &cp
	for _, acc := range u.Accounts {
		if !m.seen[acc.AccountName] {
			m.seen[acc.AccountName] = true
			m.accounts = append(m.accounts, acc.AccountName)
		}
	}
	return nil
}

// ListUsers returns all users ordered by telegram id.
func (m *Memory) ListUsers(ctx context.Context) ([]*User, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	users := make([]*User, 0, len(m.users))
	for _, u := range m.users {
		cp := *u
		users = append(users, &cp)
	}
	sortUsers(users)
	return users, nil
}

// ListAccounts returns the known account names.
func (m *Memory) ListAccounts(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.accounts...), nil
}

// AddAnalytics appends submitted links.
func (m *Memory) AddAnalytics(ctx context.Context, items []model.AnalyticsItem) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.analytics = append(m.analytics, items...)
	return nil
}

// CountAnalytics returns how many links were submitted.
func (m *Memory) CountAnalytics(ctx context.Context) (int64, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return int64(len(m.analytics)), nil
}

// ResetLogs clears the sync log.
func (m *Memory) ResetLogs(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = nil
	return nil
}

// AppendLog adds one sync log line.
func (m *Memory) AppendLog(ctx context.Context, line string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.logs = append(m.logs, line)
	return nil
}

// Logs returns the sync log lines.
func (m *Memory) Logs(ctx context.Context) ([]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return append([]string{}, m.logs...), nil
}
