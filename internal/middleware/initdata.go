package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/dmanalytics/miniapp/internal/auth"
	"github.com/dmanalytics/miniapp/internal/store"
)

// InitDataScheme is the Authorization scheme the Mini App uses.
const InitDataScheme = "twa-init-data"

// Auth failure details.
const (
	DetailUnauthorized = "Missing or invalid init data"
	DetailUnknownUser  = "Пользователь не найден"
	DetailAdminOnly    = "Доступ только для администраторов"
)

// UserLookup resolves a telegram id to a registered user.
type UserLookup interface {
	GetUser(ctx context.Context, telegramID int64) (*store.User, error)
}

// InitDataConfig holds configuration for the init data middleware.
type InitDataConfig struct {
	Logger *slog.Logger
	Users  UserLookup
	// BotToken enables signature checks when set.
	BotToken string
}

// callerTag lets Logger see who the inner auth middleware resolved.
type callerTag struct {
	telegramID int64
}

const callerTagKey contextKey = "caller_tag"

func withCallerTag(ctx context.Context, tag *callerTag) context.Context {
	return context.WithValue(ctx, callerTagKey, tag)
}

// InitData authenticates requests carrying `Authorization: twa-init-data <token>`.
// Missing or malformed data gives 401; a telegram id with no registered user gives 403.
func InitData(cfg InitDataConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			logFailure := func(reason string) {
				cfg.Logger.Warn("authentication failed",
					slog.String("reason", reason),
					slog.String("endpoint", r.Method+" "+r.URL.Path),
					slog.String("request_id", GetRequestID(r.Context())),
				)
			}

			token, ok := extractInitData(r)
			if !ok {
				logFailure("missing_init_data")
				writeDetail(w, http.StatusUnauthorized, DetailUnauthorized)
				return
			}

			data, err := auth.ParseInitData(token)
			if err != nil {
				logFailure("malformed_init_data")
				writeDetail(w, http.StatusUnauthorized, DetailUnauthorized)
				return
			}

			if cfg.BotToken != "" {
				if err := data.Verify(cfg.BotToken); err != nil {
					logFailure("bad_signature")
					writeDetail(w, http.StatusUnauthorized, DetailUnauthorized)
					return
				}
			}

			user, err := cfg.Users.GetUser(r.Context(), data.User.ID)
			if errors.Is(err, store.ErrUserNotFound) {
				logFailure("unknown_user")
				writeDetail(w, http.StatusForbidden, DetailUnknownUser)
				return
			}
			if err != nil {
				cfg.Logger.Error("user lookup failed",
					slog.String("error", err.Error()),
					slog.String("request_id", GetRequestID(r.Context())),
				)
				writeDetail(w, http.StatusInternalServerError, http.StatusText(http.StatusInternalServerError))
				return
			}

			if tag, ok := r.Context().Value(callerTagKey).(*callerTag); ok {
				tag.telegramID = user.TelegramID
			}

			ctx := auth.ContextWithCaller(r.Context(), user)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// RequireAdmin rejects callers whose role is not admin.
// Must be applied after InitData.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		caller := auth.CallerFromContext(r.Context())
		if caller == nil {
			writeDetail(w, http.StatusUnauthorized, DetailUnauthorized)
			return
		}
		if !caller.Profile().IsAdmin() {
			writeDetail(w, http.StatusForbidden, DetailAdminOnly)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func extractInitData(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	scheme, token, found := strings.Cut(header, " ")
	if !found || scheme != InitDataScheme {
		return "", false
	}
	token = strings.TrimSpace(token)
	return token, token != ""
}
