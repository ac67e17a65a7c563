package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ecotrack/console/internal/form"
	"github.com/ecotrack/console/internal/list"
	"github.com/ecotrack/console/internal/models"
)

// Update implements tea.Model
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		if !m.client.Session().Authenticated() {
			return m.updateLogin(msg)
		}
		if m.form.View().Open {
			return m.updateForm(msg)
		}
		if m.searching {
			return m.updateSearch(msg)
		}
		return m.updateList(msg)

	case listRefreshedMsg:
		m.clampCursor()
		return m, nil

	case actionDoneMsg:
		snap := m.form.View()
		if snap.ArchiveErr != "" {
			return m.withToast(snap.ArchiveErr, true)
		}
		m.clampCursor()
		return m, nil

	case submitDoneMsg:
		snap := m.form.View()
		if !snap.Open {
			m.clampCursor()
			return m.withToast("Saved", false)
		}
		return m, nil

	case exportDoneMsg:
		if msg.err != nil {
			return m.withToast("Export failed: "+msg.err.Error(), true)
		}
		if msg.path != "" {
			return m.withToast("Exported to "+msg.path, false)
		}
		return m, nil

	case loginDoneMsg:
		if msg.err != nil {
			m.loginErr = "Invalid email or password"
			return m, nil
		}
		m.loginErr = ""
		m.loginPassword = ""
		return m, refreshTab(m, TabNews)

	case toastClearMsg:
		m.toast = ""
		m.isError = false
		return m, nil
	}

	return m, nil
}

// updateLogin handles the credential screen shown until the session
// holds a token.
func (m Model) updateLogin(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyTab, tea.KeyDown, tea.KeyUp:
		m.loginField = 1 - m.loginField
		return m, nil
	case tea.KeyEnter:
		if m.loginEmail == "" || m.loginPassword == "" {
			m.loginErr = "Enter email and password"
			return m, nil
		}
		m.loginErr = ""
		return m, login(m)
	case tea.KeyBackspace:
		if m.loginField == 0 {
			m.loginEmail = trimLast(m.loginEmail)
		} else {
			m.loginPassword = trimLast(m.loginPassword)
		}
		return m, nil
	case tea.KeyRunes:
		if m.loginField == 0 {
			m.loginEmail += string(msg.Runes)
		} else {
			m.loginPassword += string(msg.Runes)
		}
		return m, nil
	}
	return m, nil
}

// updateForm handles keys while the add/edit dialog is open.
func (m Model) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	snap := m.form.View()

	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.form.Close()
		return m, nil
	case tea.KeyTab:
		m.formFocus = (m.formFocus + 1) % 4
		return m, nil
	case tea.KeyShiftTab:
		m.formFocus = (m.formFocus + 3) % 4
		return m, nil
	case tea.KeyCtrlD:
		if snap.Editing == nil {
			return m, submitForm(m, form.KindDraft)
		}
		return m, nil
	case tea.KeyCtrlP:
		if snap.Editing == nil {
			return m, submitForm(m, form.KindPublished)
		}
		return m, nil
	case tea.KeyCtrlS:
		if snap.Editing != nil {
			return m, submitForm(m, form.KindUpdate)
		}
		return m, nil
	case tea.KeyBackspace:
		v := snap.Values
		switch m.formFocus {
		case fieldTitle:
			v.Title = trimLast(v.Title)
		case fieldContent:
			v.Content = trimLast(v.Content)
		case fieldImage:
			v.Image = trimLast(v.Image)
		}
		m.form.SetValues(v)
		return m, nil
	case tea.KeyLeft, tea.KeyRight:
		if m.formFocus == fieldCategory {
			v := snap.Values
			v.Category = cycleCategory(v.Category, msg.Type == tea.KeyRight)
			m.form.SetValues(v)
		}
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		text := string(msg.Runes)
		if msg.Type == tea.KeySpace {
			text = " "
		}
		v := snap.Values
		switch m.formFocus {
		case fieldTitle:
			v.Title += text
		case fieldContent:
			v.Content += text
		case fieldImage:
			v.Image += text
		case fieldCategory:
			v.Category = cycleCategory(v.Category, true)
		}
		m.form.SetValues(v)
		return m, nil
	}
	return m, nil
}

// updateSearch handles keys while typing into the search bar. Enter
// applies the text as a new source and reloads from page 1; esc leaves
// the current filter untouched.
func (m Model) updateSearch(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyCtrlC:
		return m, tea.Quit
	case tea.KeyEsc:
		m.searching = false
		m.searchInput = ""
		return m, nil
	case tea.KeyEnter:
		m.searching = false
		m.applySearch(m.searchInput)
		m.searchInput = ""
		m.cursor = 0
		return m, refreshTab(m, m.tab)
	case tea.KeyBackspace:
		m.searchInput = trimLast(m.searchInput)
		return m, nil
	case tea.KeyRunes, tea.KeySpace:
		if msg.Type == tea.KeySpace {
			m.searchInput += " "
		} else {
			m.searchInput += string(msg.Runes)
		}
		return m, nil
	}
	return m, nil
}

// updateList handles keys on the list screens.
func (m Model) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c", "q":
		return m, tea.Quit

	case "tab":
		m.tab = (m.tab + 1) % 3
		m.cursor = 0
		return m, refreshTab(m, m.tab)

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		return m, nil

	case "down", "j":
		last := m.currentLen() - 1
		if m.cursor < last {
			m.cursor++
			return m, nil
		}
		// Cursor is on the last loaded row: ask for the next page. The
		// controller debounces repeats while a fetch is in flight.
		if m.currentState().HasMore {
			return m, loadMore(m)
		}
		return m, nil

	case "r":
		return m, refreshTab(m, m.tab)

	case "/":
		m.searching = true
		m.searchInput = m.currentSearch()
		return m, nil

	case "c":
		if m.tab == TabNews {
			m.newsFilter.Category = cycleCategoryFilter(m.newsFilter.Category)
			m.resetNewsSource()
			m.cursor = 0
			return m, refreshTab(m, TabNews)
		}
		return m, nil

	case "s":
		if m.tab == TabNews {
			m.newsFilter.Status = cycleStatusFilter(m.newsFilter.Status)
			m.resetNewsSource()
			m.cursor = 0
			return m, refreshTab(m, TabNews)
		}
		return m, nil

	case "n":
		if m.tab == TabNews {
			m.form.OpenNew()
			m.formFocus = fieldTitle
		}
		return m, nil

	case "e":
		if item, ok := m.selectedNews(); m.tab == TabNews && ok {
			m.form.OpenEdit(item)
			m.formFocus = fieldTitle
		}
		return m, nil

	case "a":
		if item, ok := m.selectedNews(); m.tab == TabNews && ok {
			return m, toggleArchive(m, item)
		}
		return m, nil

	case "p":
		if item, ok := m.selectedNews(); m.tab == TabNews && ok && item.Status == models.StatusDraft {
			return m, publishDraft(m, item.ID)
		}
		return m, nil

	case "t":
		if user, ok := m.selectedUser(); m.tab == TabUsers && ok {
			return m, toggleUserActive(m, user)
		}
		return m, nil

	case "x":
		if m.tab == TabNews {
			return m, exportCurrent(m, false)
		}
		return m, nil

	case "X":
		return m, exportCurrent(m, true)
	}
	return m, nil
}

// applySearch stores the entered text on the visible tab and rebuilds
// its source.
func (m *Model) applySearch(text string) {
	switch m.tab {
	case TabUsers:
		m.userSearch = text
		m.users.SetSource(list.UserSource(m.client, text))
	case TabAudit:
		m.auditSearch = text
		m.audit.SetSource(list.AuditSource(m.client, text))
	default:
		m.newsFilter.SearchText = text
		m.resetNewsSource()
	}
}

func (m *Model) resetNewsSource() {
	m.news.SetSource(list.NewsSource(m.client, m.newsFilter))
}

// currentSearch returns the visible tab's active search text.
func (m Model) currentSearch() string {
	switch m.tab {
	case TabUsers:
		return m.userSearch
	case TabAudit:
		return m.auditSearch
	default:
		return m.newsFilter.SearchText
	}
}

// currentState snapshots the visible tab's pagination flags.
func (m Model) currentState() struct {
	HasMore     bool
	Loading     bool
	LoadingMore bool
	Err         string
} {
	var out struct {
		HasMore     bool
		Loading     bool
		LoadingMore bool
		Err         string
	}
	switch m.tab {
	case TabUsers:
		s := m.users.Snapshot()
		out.HasMore, out.Loading, out.LoadingMore, out.Err = s.HasMore, s.Loading, s.LoadingMore, s.Err
	case TabAudit:
		s := m.audit.Snapshot()
		out.HasMore, out.Loading, out.LoadingMore, out.Err = s.HasMore, s.Loading, s.LoadingMore, s.Err
	default:
		s := m.news.Snapshot()
		out.HasMore, out.Loading, out.LoadingMore, out.Err = s.HasMore, s.Loading, s.LoadingMore, s.Err
	}
	return out
}

// clampCursor keeps the highlight inside the loaded rows after a
// refresh shrank the list.
func (m *Model) clampCursor() {
	if last := m.currentLen() - 1; m.cursor > last {
		if last < 0 {
			m.cursor = 0
		} else {
			m.cursor = last
		}
	}
}

// withToast sets the transient status line and schedules its dismissal.
func (m Model) withToast(text string, isErr bool) (tea.Model, tea.Cmd) {
	m.toast = text
	m.isError = isErr
	return m, clearToastAfter(m)
}

func trimLast(s string) string {
	if s == "" {
		return s
	}
	runes := []rune(s)
	return string(runes[:len(runes)-1])
}

// cycleCategory steps through the submittable categories; "all" is a
// filter value only and never appears on the form.
func cycleCategory(c models.Category, forward bool) models.Category {
	order := []models.Category{models.CategoryGeneral, models.CategoryMaintenance, models.CategoryBrownout}
	idx := 0
	for i, v := range order {
		if v == c {
			idx = i
			break
		}
	}
	if forward {
		return order[(idx+1)%len(order)]
	}
	return order[(idx+len(order)-1)%len(order)]
}

func cycleCategoryFilter(c models.Category) models.Category {
	order := []models.Category{models.CategoryAll, models.CategoryGeneral, models.CategoryMaintenance, models.CategoryBrownout}
	for i, v := range order {
		if v == c {
			return order[(i+1)%len(order)]
		}
	}
	return models.CategoryAll
}

func cycleStatusFilter(s models.Status) models.Status {
	order := []models.Status{models.StatusAll, models.StatusDraft, models.StatusPublished, models.StatusArchived}
	for i, v := range order {
		if v == s {
			return order[(i+1)%len(order)]
		}
	}
	return models.StatusAll
}
