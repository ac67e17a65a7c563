package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/ecotrack/console/internal/form"
)

// View implements tea.Model
func (m Model) View() string {
	if !m.client.Session().Authenticated() {
		return m.viewLogin()
	}

	var b strings.Builder
	b.WriteString(TitleStyle.Render("EcoTrack Console"))
	b.WriteString("\n")
	b.WriteString(m.viewTabs())
	b.WriteString("\n\n")

	if m.searching {
		b.WriteString(FieldLabelStyle.Render("Search: "))
		b.WriteString(m.searchInput + "▌")
		b.WriteString("\n\n")
	} else if m.tab == TabNews {
		b.WriteString(m.viewNewsFilter())
		b.WriteString("\n\n")
	}

	snap := m.form.View()
	if snap.Open {
		b.WriteString(m.viewForm(snap))
	} else {
		b.WriteString(m.viewList())
	}

	if m.toast != "" {
		b.WriteString("\n")
		if m.isError {
			b.WriteString(ErrorStyle.Render(m.toast))
		} else {
			b.WriteString(ToastStyle.Render(m.toast))
		}
	}

	b.WriteString("\n\n")
	b.WriteString(m.viewHelp(snap.Open))
	return b.String()
}

func (m Model) viewLogin() string {
	var b strings.Builder
	b.WriteString(TitleStyle.Render("EcoTrack Console — Sign in"))
	b.WriteString("\n\n")

	emailLabel := "  Email:    "
	passLabel := "  Password: "
	if m.loginField == 0 {
		emailLabel = "> Email:    "
	} else {
		passLabel = "> Password: "
	}
	b.WriteString(FieldLabelStyle.Render(emailLabel))
	b.WriteString(m.loginEmail)
	if m.loginField == 0 {
		b.WriteString("▌")
	}
	b.WriteString("\n")
	b.WriteString(FieldLabelStyle.Render(passLabel))
	b.WriteString(strings.Repeat("*", len(m.loginPassword)))
	if m.loginField == 1 {
		b.WriteString("▌")
	}
	b.WriteString("\n")

	if m.loginErr != "" {
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(m.loginErr))
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(InfoStyle.Render("tab: switch field • enter: sign in • ctrl+c: quit"))
	return b.String()
}

func (m Model) viewTabs() string {
	tabs := make([]string, 0, 3)
	for _, t := range []Tab{TabNews, TabUsers, TabAudit} {
		if t == m.tab {
			tabs = append(tabs, ActiveTabStyle.Render(t.String()))
		} else {
			tabs = append(tabs, TabStyle.Render(t.String()))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, tabs...)
}

func (m Model) viewNewsFilter() string {
	parts := []string{
		"category: " + string(m.newsFilter.Category),
		"status: " + string(m.newsFilter.Status),
	}
	if m.newsFilter.SearchText != "" {
		parts = append(parts, "search: "+m.newsFilter.SearchText)
	}
	return InfoStyle.Render(strings.Join(parts, "  │  "))
}

func (m Model) viewList() string {
	switch m.tab {
	case TabUsers:
		return m.viewUsers()
	case TabAudit:
		return m.viewAudit()
	default:
		return m.viewNews()
	}
}

func (m Model) viewNews() string {
	state := m.news.Snapshot()
	snap := m.form.View()

	var b strings.Builder
	if state.Err != "" {
		b.WriteString(ErrorStyle.Render(state.Err))
		b.WriteString("\n\n")
	}
	if state.Loading {
		b.WriteString(InfoStyle.Render("Loading..."))
		return b.String()
	}
	if len(state.Items) == 0 {
		b.WriteString(InfoStyle.Render("No announcements match the current filter."))
		return b.String()
	}

	for i, item := range state.Items {
		badge := badgeStyle(item.Badge()).Render(fmt.Sprintf("[%s]", item.Badge()))
		line := fmt.Sprintf("%-28s %-12s %s  %s",
			truncate(item.Title, 28),
			item.Category,
			item.CreatedAt.Format("2006-01-02"),
			badge)
		if snap.ArchiveBusy[item.ID] {
			line += " " + InfoStyle.Render("(updating...)")
		}
		b.WriteString(renderRow(line, i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString(m.viewFooter(state.LoadingMore, state.HasMore, len(state.Items)))
	return b.String()
}

func (m Model) viewUsers() string {
	state := m.users.Snapshot()

	var b strings.Builder
	if state.Err != "" {
		b.WriteString(ErrorStyle.Render(state.Err))
		b.WriteString("\n\n")
	}
	if state.Loading {
		b.WriteString(InfoStyle.Render("Loading..."))
		return b.String()
	}
	if len(state.Items) == 0 {
		b.WriteString(InfoStyle.Render("No accounts found."))
		return b.String()
	}

	for i, user := range state.Items {
		active := ToastStyle.Render("active")
		if !user.IsActive {
			active = ErrorStyle.Render("disabled")
		}
		line := fmt.Sprintf("%-22s %-30s %-10s %s",
			truncate(user.Name, 22),
			truncate(user.Email, 30),
			user.Role,
			active)
		b.WriteString(renderRow(line, i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString(m.viewFooter(state.LoadingMore, state.HasMore, len(state.Items)))
	return b.String()
}

func (m Model) viewAudit() string {
	state := m.audit.Snapshot()

	var b strings.Builder
	if state.Err != "" {
		b.WriteString(ErrorStyle.Render(state.Err))
		b.WriteString("\n\n")
	}
	if state.Loading {
		b.WriteString(InfoStyle.Render("Loading..."))
		return b.String()
	}
	if len(state.Items) == 0 {
		b.WriteString(InfoStyle.Render("No activity recorded."))
		return b.String()
	}

	for i, entry := range state.Items {
		line := fmt.Sprintf("%s  %-10s %-22s %s",
			entry.CreatedAt.Format("2006-01-02 15:04"),
			truncate(entry.Actor, 10),
			truncate(entry.Action, 22),
			truncate(entry.Detail, 40))
		b.WriteString(renderRow(line, i == m.cursor))
		b.WriteString("\n")
	}
	b.WriteString(m.viewFooter(state.LoadingMore, state.HasMore, len(state.Items)))
	return b.String()
}

func (m Model) viewFooter(loadingMore, hasMore bool, count int) string {
	switch {
	case loadingMore:
		return InfoStyle.Render("Loading more...")
	case hasMore:
		return InfoStyle.Render(fmt.Sprintf("%d loaded • scroll down for more", count))
	default:
		return InfoStyle.Render(fmt.Sprintf("%d loaded • end of list", count))
	}
}

func (m Model) viewForm(snap form.Snapshot) string {
	var b strings.Builder
	if snap.Editing != nil {
		b.WriteString(TitleStyle.Render("Edit announcement"))
	} else {
		b.WriteString(TitleStyle.Render("New announcement"))
	}
	b.WriteString("\n")

	b.WriteString(m.viewField("Title", snap.Values.Title, fieldTitle, snap.FieldErrors["Title"]))
	b.WriteString(m.viewField("Content", snap.Values.Content, fieldContent, snap.FieldErrors["Content"]))
	b.WriteString(m.viewField("Image", snap.Values.Image, fieldImage, snap.FieldErrors["Image"]))
	b.WriteString(m.viewField("Category", string(snap.Values.Category), fieldCategory, snap.FieldErrors["Category"]))

	switch snap.State.Phase {
	case form.PhaseSubmitting:
		b.WriteString("\n")
		b.WriteString(InfoStyle.Render("Saving..."))
		b.WriteString("\n")
	case form.PhaseFailed:
		b.WriteString("\n")
		b.WriteString(ErrorStyle.Render(snap.State.Reason))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewField(label, value string, field formField, fieldErr string) string {
	var b strings.Builder
	prefix := "  "
	if m.formFocus == field {
		prefix = "> "
	}
	b.WriteString(FieldLabelStyle.Render(prefix + label + ": "))
	b.WriteString(value)
	if m.formFocus == field && field != fieldCategory {
		b.WriteString("▌")
	}
	if field == fieldCategory && m.formFocus == field {
		b.WriteString(InfoStyle.Render("  (←/→ to change)"))
	}
	b.WriteString("\n")
	if fieldErr != "" {
		b.WriteString(FieldErrorStyle.Render("    " + fieldErr))
		b.WriteString("\n")
	}
	return b.String()
}

func (m Model) viewHelp(formOpen bool) string {
	if formOpen {
		snap := m.form.View()
		if snap.Editing != nil {
			return InfoStyle.Render("tab: next field • ctrl+s: save changes • esc: cancel")
		}
		return InfoStyle.Render("tab: next field • ctrl+d: save draft • ctrl+p: publish • esc: cancel")
	}
	switch m.tab {
	case TabUsers:
		return InfoStyle.Render("↑/↓: move • t: toggle active • /: search • X: export PDF • tab: next screen • q: quit")
	case TabAudit:
		return InfoStyle.Render("↑/↓: move • /: search • X: export PDF • tab: next screen • q: quit")
	default:
		return InfoStyle.Render("↑/↓: move • n: new • e: edit • a: archive • p: publish • c/s: filters • /: search • x: CSV • X: PDF • r: reload • tab: next screen • q: quit")
	}
}

func renderRow(line string, selected bool) string {
	if selected {
		return SelectedRowStyle.Render("> " + line)
	}
	return "  " + line
}

func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 1 {
		return string(runes[:max])
	}
	return string(runes[:max-1]) + "…"
}
