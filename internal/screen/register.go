package screen

import (
	"context"

	"github.com/dmanalytics/miniapp/internal/form"
	"github.com/dmanalytics/miniapp/internal/host"
	"github.com/dmanalytics/miniapp/internal/model"
)

// Registration texts.
const (
	MsgRegistered        = "Пользователь успешно зарегистрирован!"
	MsgRegisterFallback  = "Не удалось сохранить данные"
	MsgRegisterTransport = "Критическая ошибка сети. Проверьте соединение с сервером."
)

// EditDraft replaces the top-level draft fields. Accounts are edited with
// the account methods.
func (s *Screen) EditDraft(telegramID, username, fullName string) {
	s.dispatch(DraftIdentityEdited{TelegramID: telegramID, Username: username, FullName: fullName})
}

// SetTelegramID edits the draft's telegram id.
func (s *Screen) SetTelegramID(v string) {
	s.dispatch(TelegramIDEdited{Value: v})
}

// SetUsername edits the draft's username.
func (s *Screen) SetUsername(v string) {
	s.dispatch(UsernameEdited{Value: v})
}

// SetFullName edits the draft's full name.
func (s *Screen) SetFullName(v string) {
	s.dispatch(FullNameEdited{Value: v})
}

// AddAccount appends a blank account binding.
func (s *Screen) AddAccount() {
	s.dispatch(AccountAdded{})
}

// RemoveAccount drops the binding at index while more than one remains.
func (s *Screen) RemoveAccount(index int) {
	s.dispatch(AccountRemoved{Index: index})
}

// SetAccountName edits the binding at index.
func (s *Screen) SetAccountName(index int, name string) {
	s.dispatch(AccountNameEdited{Index: index, Name: name})
}

// SetAccountNetwork edits the binding's platform at index.
func (s *Screen) SetAccountNetwork(index int, network model.SocialNetwork) {
	s.dispatch(AccountNetworkEdited{Index: index, Network: network})
}

// RegisterUser validates the draft and creates the user. Invalid drafts keep
// their values and get per-field flags. A successful create resets the draft.
func (s *Screen) RegisterUser(ctx context.Context) error {
	// Flags and the request come from the same draft snapshot.
	snap := s.dispatch(DraftChecked{})
	req, _, err := form.Normalize(snap.Draft)
	if err != nil {
		s.metrics.IncRegistration("invalid")
		s.host.NotificationOccurred(host.NotificationError)
		return err
	}

	if err := s.backend.RegisterUser(ctx, req); err != nil {
		if apiErr, rejected := backendRejection(err); rejected {
			s.metrics.IncRegistration("rejected")
			s.logger.Warn("registration rejected", "status_code", apiErr.StatusCode, "detail", apiErr.Detail)
			detail := apiErr.Detail
			if detail == "" {
				detail = MsgRegisterFallback
			}
			s.host.NotificationOccurred(host.NotificationError)
			s.host.ShowAlert("Ошибка сервера: " + detail)
			return err
		}

		s.metrics.IncRegistration("transport")
		s.logger.Error("registration request failed", "error", err)
		s.host.ShowAlert(MsgRegisterTransport)
		return err
	}

	s.metrics.IncRegistration("ok")
	s.logger.Info("user registered", "telegram_id", req.TelegramID, "accounts", len(req.Accounts))
	s.host.NotificationOccurred(host.NotificationSuccess)
	s.dispatch(DraftRegistered{})
	s.host.ShowAlert(MsgRegistered)
	return nil
}
