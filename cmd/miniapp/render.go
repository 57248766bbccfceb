package main

import (
	"fmt"
	"io"
	"strings"

	"github.com/dmanalytics/miniapp/internal/model"
	"github.com/dmanalytics/miniapp/internal/screen"
)

// Screen labels.
const (
	labelLoading     = "Загрузка..."
	labelBanner      = "УСПЕШНО ОТПРАВЛЕНО"
	labelTabLinks    = "ССЫЛКИ"
	labelTabAdmin    = "АДМИНИСТРИРОВАНИЕ"
	labelRosterLoad  = "Загрузка списка..."
	labelSyncRunning = "ПРОЦЕСС..."
	labelSyncIdle    = "ЗАПУСТИТЬ СБОР ДАННЫХ"
)

var sectionTitles = map[screen.Section]string{
	screen.SectionRegistration: "РЕГИСТРАЦИЯ ПОЛЬЗОВАТЕЛЯ",
	screen.SectionTeam:         "ПОЛЬЗОВАТЕЛИ",
	screen.SectionAnalytics:    "СБОР СТАТИСТИКИ",
}

// render prints the screen as plain text.
func render(w io.Writer, s screen.State) {
	var b strings.Builder

	switch {
	case s.Loading:
		b.WriteString(labelLoading + "\n")
	case s.AuthFailed:
		fmt.Fprintf(&b, "%s\n%s\n", screen.RestrictedTitle, screen.RestrictedHint)
	case s.User == nil:
		// Bootstrap failed without a verdict; nothing to show.
	default:
		renderContent(&b, s)
	}

	_, _ = io.WriteString(w, b.String())
}

func renderContent(b *strings.Builder, s screen.State) {
	if s.BannerVisible {
		b.WriteString("*** " + labelBanner + " ***\n")
	}

	tabs := "[" + labelTabLinks + "]"
	if s.User.IsAdmin() {
		if s.ActiveTab == screen.TabAdmin {
			tabs = labelTabLinks + "  [" + labelTabAdmin + "]"
		} else {
			tabs += "  " + labelTabAdmin
		}
	}
	fmt.Fprintf(b, "%s  (%s)\n\n", tabs, s.User.Username)

	if s.ActiveTab == screen.TabAdmin {
		renderAdmin(b, s)
		return
	}
	renderLinks(b, s)
}

func renderLinks(b *strings.Builder, s screen.State) {
	for i, e := range s.Entries {
		fmt.Fprintf(b, "ФОРМА ВВОДА №%d\n", i+1)
		fmt.Fprintf(b, "  Ссылка на публикацию: %s\n", e.URL)
		if e.URLError != "" {
			fmt.Fprintf(b, "    ! %s\n", e.URLError)
		}
		category := e.Category
		if category == "" {
			category = "— Выберите из списка —"
		}
		fmt.Fprintf(b, "  Целевой аккаунт: %s\n", category)
		if e.CategoryError != "" {
			fmt.Fprintf(b, "    ! %s\n", e.CategoryError)
		}
	}
	if len(s.Categories) > 0 {
		fmt.Fprintf(b, "\nАккаунты: %s\n", strings.Join(s.Categories, ", "))
	}
}

func renderAdmin(b *strings.Builder, s screen.State) {
	for _, section := range screen.Sections {
		open := s.OpenSections[section]
		marker := "▼"
		if open {
			marker = "▲"
		}
		fmt.Fprintf(b, "%s %s\n", sectionTitles[section], marker)
		if !open {
			continue
		}

		switch section {
		case screen.SectionRegistration:
			renderDraft(b, s.Draft, s.DraftErrors)
		case screen.SectionTeam:
			renderRoster(b, s)
		case screen.SectionAnalytics:
			fmt.Fprintf(b, "%s\n", s.SyncLogs)
			label := labelSyncIdle
			if s.Syncing {
				label = labelSyncRunning
			}
			fmt.Fprintf(b, "[%s]\n", label)
		}
	}
}

func renderDraft(b *strings.Builder, d model.NewUserDraft, errs model.DraftErrors) {
	field := func(label, value string, bad bool) {
		mark := ""
		if bad {
			mark = "  !"
		}
		fmt.Fprintf(b, "  %s: %s%s\n", label, value, mark)
	}
	field("Telegram ID (цифры)", d.TelegramID, errs.TelegramID)
	field("Никнейм", d.Username, errs.Username)
	field("Полное имя", d.FullName, errs.FullName)
	for i, acc := range d.Accounts {
		bad := i < len(errs.Accounts) && errs.Accounts[i]
		field(fmt.Sprintf("Аккаунт %d (%s)", i+1, acc.SocialNetwork), acc.AccountName, bad)
	}
}

func renderRoster(b *strings.Builder, s screen.State) {
	if s.RosterLoading {
		b.WriteString("  " + labelRosterLoad + "\n")
		return
	}
	for _, m := range s.Roster {
		fmt.Fprintf(b, "  %s %s [%s]\n", m.FullName, m.Username, m.RoleLabel())
	}
}
