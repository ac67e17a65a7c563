package tui

import (
	"context"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/ecotrack/console/internal/export"
	"github.com/ecotrack/console/internal/form"
	"github.com/ecotrack/console/internal/models"
)

// refreshTab resets the given tab's controller and reloads page 1.
func refreshTab(m Model, tab Tab) tea.Cmd {
	return func() tea.Msg {
		switch tab {
		case TabUsers:
			m.users.ResetAndFetch(context.Background())
		case TabAudit:
			m.audit.ResetAndFetch(context.Background())
		default:
			m.news.ResetAndFetch(context.Background())
		}
		return listRefreshedMsg{tab: tab}
	}
}

// loadMore advances the visible tab's cursor by one page; the
// controller ignores the call while a fetch is already in flight.
func loadMore(m Model) tea.Cmd {
	tab := m.tab
	return func() tea.Msg {
		switch tab {
		case TabUsers:
			m.users.MaybeLoadMore(context.Background())
		case TabAudit:
			m.audit.MaybeLoadMore(context.Background())
		default:
			m.news.MaybeLoadMore(context.Background())
		}
		return listRefreshedMsg{tab: tab}
	}
}

// submitForm runs the form's validate/upload/submit flow.
func submitForm(m Model, kind form.Kind) tea.Cmd {
	return func() tea.Msg {
		m.form.Submit(context.Background(), kind)
		return submitDoneMsg{}
	}
}

// toggleArchive flips the archive flag of one row.
func toggleArchive(m Model, item models.NewsItem) tea.Cmd {
	return func() tea.Msg {
		m.form.ToggleArchive(context.Background(), item)
		return actionDoneMsg{}
	}
}

// publishDraft issues the status-only transition for a draft row.
func publishDraft(m Model, id string) tea.Cmd {
	return func() tea.Msg {
		m.form.Publish(context.Background(), id)
		return actionDoneMsg{}
	}
}

// toggleUserActive enables or disables an account, then reloads.
func toggleUserActive(m Model, user models.User) tea.Cmd {
	return func() tea.Msg {
		if _, err := m.client.SetUserActive(context.Background(), user.ID, !user.IsActive); err != nil {
			return exportDoneMsg{err: err} // reuse the toast path for the inline error
		}
		m.users.ResetAndFetch(context.Background())
		return listRefreshedMsg{tab: TabUsers}
	}
}

// exportCurrent serializes the visible tab's loaded, filtered rows.
func exportCurrent(m Model, asPDF bool) tea.Cmd {
	dir := m.cfg.ExportDir
	tab := m.tab
	newsItems := m.news.Snapshot().Items
	userItems := m.users.Snapshot().Items
	auditItems := m.audit.Snapshot().Items

	return func() tea.Msg {
		var (
			path string
			err  error
		)
		switch {
		case tab == TabNews && !asPDF:
			path, err = export.SaveNewsCSV(dir, newsItems)
		case tab == TabNews:
			var data []byte
			if data, err = export.NewsPDF(newsItems); err == nil {
				path, err = export.SavePDF(dir, "news", data)
			}
		case tab == TabUsers:
			var data []byte
			if data, err = export.UsersPDF(userItems); err == nil {
				path, err = export.SavePDF(dir, "users", data)
			}
		default:
			var data []byte
			if data, err = export.AuditPDF(auditItems); err == nil {
				path, err = export.SavePDF(dir, "audit", data)
			}
		}
		return exportDoneMsg{path: path, err: err}
	}
}

// login exchanges the entered credentials for a session token.
func login(m Model) tea.Cmd {
	email, password := m.loginEmail, m.loginPassword
	return func() tea.Msg {
		err := m.client.Login(context.Background(), email, password)
		return loginDoneMsg{err: err}
	}
}

// clearToastAfter dismisses the transient status line.
func clearToastAfter(m Model) tea.Cmd {
	return tea.Tick(m.cfg.ToastTimeout, func(time.Time) tea.Msg {
		return toastClearMsg{}
	})
}
