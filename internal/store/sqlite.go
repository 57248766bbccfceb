package store

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/dmanalytics/miniapp/internal/model"
)

const dbTimeLayout = "2006-01-02 15:04:05"

const sqliteSchema = `
CREATE TABLE IF NOT EXISTS users (
	telegram_id INTEGER PRIMARY KEY,
	username    TEXT NOT NULL,
	name_soname TEXT NOT NULL DEFAULT '',
	whois       TEXT NOT NULL DEFAULT '',
	accounts    TEXT NOT NULL DEFAULT '[]'
);

CREATE TABLE IF NOT EXISTS accounts (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	name TEXT NOT NULL UNIQUE
);

CREATE TABLE IF NOT EXISTS analytics (
	id           INTEGER PRIMARY KEY AUTOINCREMENT,
	post_url     TEXT NOT NULL,
	account_name TEXT NOT NULL,
	likes        INTEGER NOT NULL DEFAULT 0,
	views        INTEGER NOT NULL DEFAULT 0,
	created_at   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS sync_logs (
	id   INTEGER PRIMARY KEY AUTOINCREMENT,
	line TEXT NOT NULL
);
`

// SQLite is a Store kept in a single database file, for dev backends that
// should survive restarts without a Redis server.
type SQLite struct {
	db *sql.DB
}

// NewSQLite opens (or creates) the database at path and applies the schema.
func NewSQLite(ctx context.Context, path string) (*SQLite, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("store: open sqlite: %w", err)
	}
	// Pragmas are per connection; one connection also serializes writers.
	db.SetMaxOpenConns(1)

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout=5000",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, fmt.Errorf("store: %s: %w", p, err)
		}
	}

	if _, err := db.ExecContext(ctx, sqliteSchema); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("store: migrate: %w", err)
	}

	return &SQLite{db: db}, nil
}

// Ping checks the database connection.
func (s *SQLite) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database.
func (s *SQLite) Close() error {
	return s.db.Close()
}

// GetUser loads one user.
func (s *SQLite) GetUser(ctx context.Context, telegramID int64) (*User, error) {
	var u User
	var accounts string
	err := s.db.QueryRowContext(ctx,
		"SELECT telegram_id, username, name_soname, whois, accounts FROM users WHERE telegram_id = ?", telegramID).
		Scan(&u.TelegramID, &u.Username, &u.FullName, &u.Whois, &accounts)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("store: get user: %w", err)
	}
	if err := json.Unmarshal([]byte(accounts), &u.Accounts); err != nil {
		return nil, fmt.Errorf("store: decode accounts of %d: %w", telegramID, err)
	}
	return &u, nil
}

// CreateUser inserts the user and its account names in one transaction.
func (s *SQLite) CreateUser(ctx context.Context, u *User) error {
	accounts, err := json.Marshal(u.Accounts)
	if err != nil {
		return fmt.Errorf("store: encode accounts: %w", err)
	}
	if u.Accounts == nil {
		accounts = []byte("[]")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	res, err := tx.ExecContext(ctx,
		`INSERT INTO users (telegram_id, username, name_soname, whois, accounts)
		 VALUES (?, ?, ?, ?, ?) ON CONFLICT(telegram_id) DO NOTHING`,
		u.TelegramID, u.Username, u.FullName, u.Whois, string(accounts))
	if err != nil {
		return fmt.Errorf("store: create user: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return ErrUserExists
	}

	for _, acc := range u.Accounts {
		if _, err := tx.ExecContext(ctx, "INSERT OR IGNORE INTO accounts (name) VALUES (?)", acc.AccountName); err != nil {
			return fmt.Errorf("store: add account: %w", err)
		}
	}

	return tx.Commit()
}

// ListUsers returns all users ordered by telegram id.
func (s *SQLite) ListUsers(ctx context.Context) ([]*User, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT telegram_id, username, name_soname, whois, accounts FROM users ORDER BY telegram_id")
	if err != nil {
		return nil, fmt.Errorf("store: list users: %w", err)
	}
	defer rows.Close()

	var users []*User
	for rows.Next() {
		var u User
		var accounts string
		if err := rows.Scan(&u.TelegramID, &u.Username, &u.FullName, &u.Whois, &accounts); err != nil {
			return nil, fmt.Errorf("store: scan user: %w", err)
		}
		// Corrupted accounts column - keep the user, drop the bindings
		_ = json.Unmarshal([]byte(accounts), &u.Accounts)
		users = append(users, &u)
	}
	return users, rows.Err()
}

// ListAccounts returns account names in first-seen order.
func (s *SQLite) ListAccounts(ctx context.Context) ([]string, error) {
	return s.strings(ctx, "SELECT name FROM accounts ORDER BY id")
}

// AddAnalytics stores submitted links in one transaction.
func (s *SQLite) AddAnalytics(ctx context.Context, items []model.AnalyticsItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("store: begin: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	now := time.Now().UTC().Format(dbTimeLayout)
	for _, item := range items {
		_, err := tx.ExecContext(ctx,
			"INSERT INTO analytics (post_url, account_name, likes, views, created_at) VALUES (?, ?, ?, ?, ?)",
			item.PostURL, item.AccountName, item.Likes, item.Views, now)
		if err != nil {
			return fmt.Errorf("store: add analytics: %w", err)
		}
	}
	return tx.Commit()
}

// CountAnalytics returns how many links were submitted.
func (s *SQLite) CountAnalytics(ctx context.Context) (int64, error) {
	var n int64
	if err := s.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM analytics").Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count analytics: %w", err)
	}
	return n, nil
}

// ResetLogs clears the sync log.
func (s *SQLite) ResetLogs(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, "DELETE FROM sync_logs"); err != nil {
		return fmt.Errorf("store: reset logs: %w", err)
	}
	return nil
}

// AppendLog adds one sync log line.
func (s *SQLite) AppendLog(ctx context.Context, line string) error {
	if _, err := s.db.ExecContext(ctx, "INSERT INTO sync_logs (line) VALUES (?)", line); err != nil {
		return fmt.Errorf("store: append log: %w", err)
	}
	return nil
}

// Logs returns the sync log lines in insertion order.
func (s *SQLite) Logs(ctx context.Context) ([]string, error) {
	return s.strings(ctx, "SELECT line FROM sync_logs ORDER BY id")
}

func (s *SQLite) strings(ctx context.Context, query string) ([]string, error) {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("store: query: %w", err)
	}
	defer rows.Close()

	out := []string{}
	for rows.Next() {
		var v string
		if err := rows.Scan(&v); err != nil {
			return nil, fmt.Errorf("store: scan: %w", err)
		}
		out = append(out, v)
	}
	return out, rows.Err()
}
