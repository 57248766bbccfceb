package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/dmanalytics/miniapp/internal/analytics"
	"github.com/dmanalytics/miniapp/internal/auth"
	"github.com/dmanalytics/miniapp/internal/form"
	"github.com/dmanalytics/miniapp/internal/model"
	"github.com/dmanalytics/miniapp/internal/store"
)

// Response details.
const (
	DetailUserExists     = "Пользователь с таким Telegram ID уже существует"
	DetailSyncRunning    = "Синхронизация уже запущена"
	DetailInternal       = "Internal Server Error"
	DetailInvalidPayload = "Некорректные данные: "
)

// StatusResponse acknowledges a mutation.
type StatusResponse struct {
	Status string `json:"status"`
	Added  int    `json:"added,omitempty"`
	JobID  string `json:"job_id,omitempty"`
}

// Auth returns the caller's profile.
// POST /auth
func (h *Handler) Auth(w http.ResponseWriter, r *http.Request) {
	caller := auth.MustCallerFromContext(r.Context())
	writeJSON(w, http.StatusOK, model.AuthResponse{User: caller.Profile()})
}

// AccountsList returns the known account names.
// GET /accounts_list
func (h *Handler) AccountsList(w http.ResponseWriter, r *http.Request) {
	names, err := h.store.ListAccounts(r.Context())
	if err != nil {
		h.internalError(w, r, "list accounts", err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// TeamData returns every registered member.
// GET /admin/get_full_team_data
func (h *Handler) TeamData(w http.ResponseWriter, r *http.Request) {
	users, err := h.store.ListUsers(r.Context())
	if err != nil {
		h.internalError(w, r, "list users", err)
		return
	}

	members := make([]model.Member, 0, len(users))
	for _, u := range users {
		members = append(members, u.Member())
	}
	writeJSON(w, http.StatusOK, model.TeamResponse{Members: members})
}

// AnalyticsAdd stores a batch of submitted post links.
// POST /analytics_add
func (h *Handler) AnalyticsAdd(w http.ResponseWriter, r *http.Request) {
	var batch model.AnalyticsBatch
	if !decodeJSON(w, r, &batch) {
		return
	}
	if err := analytics.ValidateBatch(batch.Data); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, DetailInvalidPayload+err.Error())
		return
	}

	if err := h.store.AddAnalytics(r.Context(), batch.Data); err != nil {
		h.internalError(w, r, "add analytics", err)
		return
	}

	h.logger.Info("analytics added",
		slog.Int("count", len(batch.Data)),
		slog.Int64("telegram_id", auth.MustCallerFromContext(r.Context()).TelegramID),
	)
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok", Added: len(batch.Data)})
}

// RegisterUser creates a regular team member.
// POST /register_user
func (h *Handler) RegisterUser(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterUserRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	if err := form.ValidateRequest(req); err != nil {
		writeDetail(w, http.StatusUnprocessableEntity, DetailInvalidPayload+err.Error())
		return
	}

	err := h.store.CreateUser(r.Context(), store.UserFromRequest(req))
	if errors.Is(err, store.ErrUserExists) {
		writeDetail(w, http.StatusConflict, DetailUserExists)
		return
	}
	if err != nil {
		h.internalError(w, r, "create user", err)
		return
	}

	h.logger.Info("user registered",
		slog.Int64("telegram_id", req.TelegramID),
		slog.Int("accounts", len(req.Accounts)),
	)
	writeJSON(w, http.StatusOK, StatusResponse{Status: "ok"})
}

// SyncStart launches the statistics sync.
// POST /sync/start
func (h *Handler) SyncStart(w http.ResponseWriter, r *http.Request) {
	jobID, err := h.sync.Start(r.Context())
	if errors.Is(err, analytics.ErrAlreadyRunning) {
		writeDetail(w, http.StatusConflict, DetailSyncRunning)
		return
	}
	if err != nil {
		h.internalError(w, r, "start sync", err)
		return
	}
	writeJSON(w, http.StatusOK, StatusResponse{Status: "started", JobID: jobID})
}

// SyncLogs returns the current sync log. No authentication.
// GET /sync/logs
func (h *Handler) SyncLogs(w http.ResponseWriter, r *http.Request) {
	lines, err := h.store.Logs(r.Context())
	if err != nil {
		h.internalError(w, r, "read sync logs", err)
		return
	}
	if lines == nil {
		lines = []string{}
	}
	writeJSON(w, http.StatusOK, model.SyncLogsResponse{Logs: lines})
}

func (h *Handler) internalError(w http.ResponseWriter, r *http.Request, op string, err error) {
	h.logger.Error(op+" failed", slog.String("error", err.Error()))
	writeDetail(w, http.StatusInternalServerError, DetailInternal)
}
