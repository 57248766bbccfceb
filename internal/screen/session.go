package screen

import (
	"context"
	"errors"

	"github.com/dmanalytics/miniapp/internal/backend"
	"github.com/dmanalytics/miniapp/internal/model"
)

// Bootstrap runs the session exchange once: ready/expand the host, apply the
// theme, trade the init token for a profile, then load the category list.
// Later calls are no-ops.
//
// A 403 switches to the restricted notice. Other rejections alert the server
// detail. A transport failure is only logged and leaves no profile.
func (s *Screen) Bootstrap(ctx context.Context) {
	s.mu.Lock()
	if s.bootstrapped || s.closed {
		s.mu.Unlock()
		return
	}
	s.bootstrapped = true
	s.mu.Unlock()

	defer s.dispatch(LoadingFinished{})

	s.host.Ready()
	s.host.Expand()
	s.dispatch(ThemeApplied{Theme: s.host.ThemeParams()})

	profile, err := s.backend.Auth(ctx)
	if err != nil {
		s.handleAuthError(err)
		return
	}

	s.dispatch(SessionLoaded{User: profile})
	s.metrics.IncBootstrap("ok")
	s.logger.Info("session established", "username", profileName(profile), "admin", profile.IsAdmin())

	names, err := s.backend.AccountsList(ctx)
	if err != nil {
		s.logger.Warn("failed to load account list", "error", err)
		return
	}
	s.dispatch(CategoriesLoaded{Names: names})
}

func (s *Screen) handleAuthError(err error) {
	if errors.Is(err, backend.ErrForbidden) {
		s.metrics.IncBootstrap("forbidden")
		s.logger.Warn("access denied for init token")
		s.dispatch(AuthRejected{})
		return
	}

	if apiErr, ok := backend.AsAPIError(err); ok {
		s.metrics.IncBootstrap("rejected")
		s.logger.Warn("auth rejected", "status_code", apiErr.StatusCode, "detail", apiErr.Detail)
		s.host.ShowAlert("Ошибка: " + apiErr.Message())
		return
	}

	s.metrics.IncBootstrap("transport")
	s.logger.Error("auth request failed", "error", err)
}

func profileName(p *model.Profile) string {
	if p == nil {
		return ""
	}
	return p.Username
}
