// Package store persists the dev backend's users, submitted links and sync
// log. Implementations: in-process memory, Redis and a SQLite file.
package store

import (
	"context"
	"errors"
	"sort"

	"github.com/dmanalytics/miniapp/internal/model"
)

// Store errors.
var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
)

// User is a registered team member.
type User struct {
	TelegramID int64                  `json:"telegram_id"`
	Username   string                 `json:"username"`
	FullName   string                 `json:"name_soname"`
	Whois      string                 `json:"whois"`
	Accounts   []model.AccountBinding `json:"accounts,omitempty"`
}

// Profile converts the record to the /auth profile shape.
func (u *User) Profile() *model.Profile {
	return &model.Profile{
		TelegramID: u.TelegramID,
		Username:   u.Username,
		FullName:   u.FullName,
		Whois:      u.Whois,
	}
}

// Member converts the record to a roster row.
func (u *User) Member() model.Member {
	return model.Member{FullName: u.FullName, Username: u.Username, Whois: u.Whois}
}

// UserFromRequest builds a regular-user record from a registration body.
func UserFromRequest(req model.RegisterUserRequest) *User {
	return &User{
		TelegramID: req.TelegramID,
		Username:   req.Username,
		FullName:   req.FullName,
		Whois:      model.RoleUser,
		Accounts:   append([]model.AccountBinding(nil), req.Accounts...),
	}
}

// Store is the dev backend's persistence.
type Store interface {
	Ping(ctx context.Context) error
	Close() error

	GetUser(ctx context.Context, telegramID int64) (*User, error)
	// CreateUser inserts u and records its account names.
	// Returns ErrUserExists when the telegram id is taken.
	CreateUser(ctx context.Context, u *User) error
	ListUsers(ctx context.Context) ([]*User, error)
	// ListAccounts returns distinct account names in first-seen order.
	ListAccounts(ctx context.Context) ([]string, error)

	AddAnalytics(ctx context.Context, items []model.AnalyticsItem) error
	CountAnalytics(ctx context.Context) (int64, error)

	ResetLogs(ctx context.Context) error
	AppendLog(ctx context.Context, line string) error
	Logs(ctx context.Context) ([]string, error)
}

func sortUsers(users []*User) {
	sort.Slice(users, func(i, j int) bool { return users[i].TelegramID < users[j].TelegramID })
}
