// Package form holds the validation rules and pure mutations for the
// link-submission form set and the admin registration draft.
package form

import (
	"errors"
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	validation "github.com/go-ozzo/ozzo-validation"

	"github.com/dmanalytics/miniapp/internal/model"
)

// Inline error messages shown under the link form fields.
const (
	MsgURLRequired      = "Поле не может быть пустым"
	MsgURLInvalid       = "Введите корректную ссылку"
	MsgCategoryRequired = "Выберите аккаунт"
)

// Validation errors.
var (
	ErrInvalidDraft = errors.New("registration draft has invalid fields")
)

var urlRules = []validation.Rule{
	validation.By(notBlank(MsgURLRequired)),
	validation.By(lenientURL),
}

var categoryRules = []validation.Rule{
	validation.Required.Error(MsgCategoryRequired),
}

// ValidateURL returns the inline error for a post link, or "" when it is accepted.
// Anything a browser URL parser accepts once "https://" is prefixed passes.
func ValidateURL(raw string) string {
	if err := validation.Validate(raw, urlRules...); err != nil {
		return err.Error()
	}
	return ""
}

// ValidateCategory returns the inline error for the selected account.
func ValidateCategory(category string) string {
	if err := validation.Validate(category, categoryRules...); err != nil {
		return err.Error()
	}
	return ""
}

// ValidateEntries sets URLError and CategoryError on a copy of every entry.
// ok is false when at least one entry failed.
func ValidateEntries(entries []model.LinkEntry) (validated []model.LinkEntry, ok bool) {
	validated = make([]model.LinkEntry, len(entries))
	ok = true

	for i, entry := range entries {
		entry.URLError = ValidateURL(entry.URL)
		entry.CategoryError = ValidateCategory(entry.Category)
		if entry.HasErrors() {
			ok = false
		}
		validated[i] = entry
	}

	return validated, ok
}

// ValidateDraft flags every draft field that fails. Values are never changed.
func ValidateDraft(d model.NewUserDraft) model.DraftErrors {
	var errs model.DraftErrors

	errs.TelegramID = validation.Validate(d.TelegramID,
		validation.Required, validation.By(numeric), validation.By(hasLeadingInt)) != nil
	errs.Username = validation.Validate(d.Username,
		validation.Required, validation.By(hasUsernameMarker)) != nil
	errs.FullName = validation.Validate(strings.TrimSpace(d.FullName),
		validation.Required) != nil

	flags := make([]bool, len(d.Accounts))
	failed := false
	for i, acc := range d.Accounts {
		flags[i] = validation.Validate(strings.TrimSpace(acc.AccountName), validation.Required) != nil
		if flags[i] {
			failed = true
		}
	}
	if failed {
		errs.Accounts = flags
	}

	return errs
}

// Normalize validates the draft and builds the /register_user body.
// Strings are trimmed and every account inherits the username as its handle.
func Normalize(d model.NewUserDraft) (model.RegisterUserRequest, model.DraftErrors, error) {
	errs := ValidateDraft(d)
	if errs.Any() {
		return model.RegisterUserRequest{}, errs, ErrInvalidDraft
	}

	id, err := leadingInt(d.TelegramID)
	if err != nil {
		errs.TelegramID = true
		return model.RegisterUserRequest{}, errs, ErrInvalidDraft
	}

	username := strings.TrimSpace(d.Username)
	accounts := make([]model.AccountBinding, len(d.Accounts))
	for i, acc := range d.Accounts {
		accounts[i] = model.AccountBinding{
			AccountName:   strings.TrimSpace(acc.AccountName),
			SocialNetwork: acc.SocialNetwork,
			Handle:        username,
		}
	}

	return model.RegisterUserRequest{
		TelegramID: id,
		Username:   username,
		FullName:   strings.TrimSpace(d.FullName),
		Accounts:   accounts,
	}, errs, nil
}

// ValidateRequest checks a /register_user body as the backend receives it.
func ValidateRequest(req model.RegisterUserRequest) error {
	err := validation.ValidateStruct(&req,
		validation.Field(&req.TelegramID, validation.Required, validation.Min(int64(1))),
		validation.Field(&req.Username, validation.Required, validation.By(hasUsernameMarker)),
		validation.Field(&req.FullName, validation.By(notBlank("cannot be blank"))),
		validation.Field(&req.Accounts, validation.Required),
	)
	if err != nil {
		return err
	}

	for i := range req.Accounts {
		acc := &req.Accounts[i]
		err := validation.ValidateStruct(acc,
			validation.Field(&acc.AccountName, validation.By(notBlank("cannot be blank"))),
			validation.Field(&acc.SocialNetwork, validation.By(knownNetwork)),
		)
		if err != nil {
			return fmt.Errorf("accounts[%d]: %w", i, err)
		}
	}
	return nil
}

func knownNetwork(value interface{}) error {
	n, _ := value.(model.SocialNetwork)
	if !n.IsValid() {
		return fmt.Errorf("unknown social network %q", string(n))
	}
	return nil
}

func notBlank(message string) validation.RuleFunc {
	return func(value interface{}) error {
		s, _ := value.(string)
		if strings.TrimSpace(s) == "" {
			return errors.New(message)
		}
		return nil
	}
}

// lenientURL accepts what a browser URL parser would once "https://" is
// prefixed. Extra slashes after a web scheme are skipped, so "/p/1" passes.
func lenientURL(value interface{}) error {
	raw, _ := value.(string)
	candidate := raw
	if !strings.HasPrefix(raw, "http") {
		candidate = "https://" + raw
	}

	candidate = escapeStrayPercents(candidate)

	parsed, err := url.Parse(candidate)
	if err != nil || parsed.Scheme == "" {
		return errors.New(MsgURLInvalid)
	}

	scheme := strings.ToLower(parsed.Scheme)
	if !webSchemes[scheme] {
		return nil
	}

	rest := strings.TrimLeft(candidate[len(scheme)+1:], `/\`)
	reparsed, err := url.Parse(scheme + "://" + rest)
	if err != nil || reparsed.Host == "" {
		return errors.New(MsgURLInvalid)
	}
	return nil
}

var webSchemes = map[string]bool{"http": true, "https": true, "ws": true, "wss": true, "ftp": true}

// escapeStrayPercents turns a "%" that does not start a valid escape into
// "%25". Browsers keep such percents literally.
func escapeStrayPercents(s string) string {
	if !strings.Contains(s, "%") {
		return s
	}
	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] == '%' && !(i+2 < len(s) && isHex(s[i+1]) && isHex(s[i+2])) {
			b.WriteString("%25")
			continue
		}
		b.WriteByte(s[i])
	}
	return b.String()
}

func isHex(c byte) bool {
	return ('0' <= c && c <= '9') || ('a' <= c && c <= 'f') || ('A' <= c && c <= 'F')
}

// numeric accepts any value that reads as a number once surrounding
// whitespace is dropped ("12", "0123", "12.5", "-3", "1e3").
func numeric(value interface{}) error {
	s, _ := value.(string)
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return errors.New("must be a number")
	}
	if f, err := strconv.ParseFloat(trimmed, 64); err != nil || math.IsNaN(f) {
		return errors.New("must be a number")
	}
	return nil
}

func hasLeadingInt(value interface{}) error {
	s, _ := value.(string)
	_, err := leadingInt(s)
	return err
}

// leadingInt reads the integer prefix of s, so "12.5" gives 12 and
// "1e3" gives 1.
func leadingInt(s string) (int64, error) {
	s = strings.TrimSpace(s)
	end := 0
	if end < len(s) && (s[end] == '+' || s[end] == '-') {
		end++
	}
	digits := end
	for end < len(s) && s[end] >= '0' && s[end] <= '9' {
		end++
	}
	if end == digits {
		return 0, fmt.Errorf("no digits in %q", s)
	}
	return strconv.ParseInt(s[:end], 10, 64)
}

func hasUsernameMarker(value interface{}) error {
	s, _ := value.(string)
	if !strings.HasPrefix(s, model.UsernameMarker) {
		return errors.New("must start with " + model.UsernameMarker)
	}
	return nil
}
