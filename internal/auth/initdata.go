// Package auth parses and verifies Telegram Mini App init data.
package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"
)

// Init data errors.
var (
	ErrMissingUser   = errors.New("init data has no user")
	ErrMissingHash   = errors.New("init data has no hash")
	ErrHashMismatch  = errors.New("init data hash mismatch")
	ErrMalformedData = errors.New("malformed init data")
)

// webAppDataKey is the HMAC key Telegram uses to derive the secret from a bot token.
const webAppDataKey = "WebAppData"

// TelegramUser is the `user` object embedded in init data.
type TelegramUser struct {
	ID        int64  `json:"id"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name,omitempty"`
	Username  string `json:"username,omitempty"`
}

// InitData is a parsed init data token.
type InitData struct {
	User    TelegramUser
	QueryID string
	Hash    string
	values  url.Values
}

// ParseInitData decodes the URL-encoded token the client sends after the
// twa-init-data scheme. The token must carry a user with a non-zero id.
func ParseInitData(raw string) (*InitData, error) {
	values, err := url.ParseQuery(raw)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedData, err)
	}

	userJSON := values.Get("user")
	if userJSON == "" {
		return nil, ErrMissingUser
	}

	var user TelegramUser
	if err := json.Unmarshal([]byte(userJSON), &user); err != nil {
		return nil, fmt.Errorf("%w: user: %v", ErrMalformedData, err)
	}
	if user.ID == 0 {
		return nil, ErrMissingUser
	}

	return &InitData{
		User:    user,
		QueryID: values.Get("query_id"),
		Hash:    values.Get("hash"),
		values:  values,
	}, nil
}

// Verify checks the token signature against botToken.
func (d *InitData) Verify(botToken string) error {
	if d.Hash == "" {
		return ErrMissingHash
	}
	want := Sign(d.values, botToken)
	if !hmac.Equal([]byte(want), []byte(d.Hash)) {
		return ErrHashMismatch
	}
	return nil
}

// Sign computes the hex hash Telegram attaches to init data. The `hash`
// field itself is excluded from the check string.
func Sign(values url.Values, botToken string) string {
	keys := make([]string, 0, len(values))
	for k := range values {
		if k == "hash" {
			continue
		}
		keys = append(keys, k)
	}
	sort.Strings(keys)

	lines := make([]string, 0, len(keys))
	for _, k := range keys {
		lines = append(lines, k+"="+values.Get(k))
	}

	secret := hmacSHA256([]byte(webAppDataKey), []byte(botToken))
	return hex.EncodeToString(hmacSHA256(secret, []byte(strings.Join(lines, "\n"))))
}

// Encode builds a token for user, signed when botToken is non-empty.
// The dev tooling uses it to mint init data.
func Encode(user TelegramUser, botToken string) (string, error) {
	userJSON, err := json.Marshal(user)
	if err != nil {
		return "", fmt.Errorf("encode user: %w", err)
	}
	values := url.Values{}
	values.Set("user", string(userJSON))
	if botToken != "" {
		values.Set("hash", Sign(values, botToken))
	}
	return values.Encode(), nil
}

func hmacSHA256(key, msg []byte) []byte {
	mac := hmac.New(sha256.New, key)
	mac.Write(msg)
	return mac.Sum(nil)
}
