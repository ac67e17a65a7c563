package tui

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/ecotrack/console/internal/api"
	"github.com/ecotrack/console/internal/config"
	"github.com/ecotrack/console/internal/form"
	"github.com/ecotrack/console/internal/list"
	"github.com/ecotrack/console/internal/models"
)

// Tab identifies the visible list screen.
type Tab int

const (
	TabNews Tab = iota
	TabUsers
	TabAudit
)

func (t Tab) String() string {
	switch t {
	case TabUsers:
		return "Users"
	case TabAudit:
		return "Activity"
	default:
		return "News"
	}
}

// formField indexes the focusable inputs of the add/edit dialog.
type formField int

const (
	fieldTitle formField = iota
	fieldContent
	fieldImage
	fieldCategory
)

// Model is the console state. The list controllers and the form own
// their data behind mutexes; the model keeps only UI state (tab,
// cursor, input buffers) so it can stay a value type for bubbletea.
type Model struct {
	cfg    *config.Config
	client *api.Client

	news  *list.Controller[models.NewsItem]
	users *list.Controller[models.User]
	audit *list.Controller[models.AuditEntry]
	form  *form.Form

	newsFilter  models.FilterState
	userSearch  string
	auditSearch string

	tab    Tab
	cursor int

	// login screen state, shown until the session holds a token
	loginEmail    string
	loginPassword string
	loginField    int
	loginErr      string

	// search entry mode
	searching   bool
	searchInput string

	// form entry mode
	formFocus formField

	toast   string
	isError bool

	width  int
	height int
}

// NewModel wires the controllers and the form to the API client.
func NewModel(cfg *config.Config, client *api.Client) Model {
	filter := models.DefaultFilter()

	newsFetch, newsKeep := list.NewsSource(client, filter)
	newsCtrl := list.NewController(cfg.PageSize, newsFetch, newsKeep)

	userFetch, userKeep := list.UserSource(client, "")
	userCtrl := list.NewController(cfg.PageSize, userFetch, userKeep)

	auditFetch, auditKeep := list.AuditSource(client, "")
	auditCtrl := list.NewController(cfg.PageSize, auditFetch, auditKeep)

	return Model{
		cfg:        cfg,
		client:     client,
		news:       newsCtrl,
		users:      userCtrl,
		audit:      auditCtrl,
		form:       form.New(client, refreshHook(newsCtrl)),
		newsFilter: filter,
	}
}

// refreshHook adapts the news controller's reset for the form's
// post-success full reload.
func refreshHook(ctrl *list.Controller[models.NewsItem]) form.RefreshFunc {
	return ctrl.ResetAndFetch
}

// Init implements tea.Model
func (m Model) Init() tea.Cmd {
	if !m.client.Session().Authenticated() {
		return nil
	}
	return refreshTab(m, TabNews)
}

// currentLen returns the number of rows on the visible tab.
func (m Model) currentLen() int {
	switch m.tab {
	case TabUsers:
		return len(m.users.Snapshot().Items)
	case TabAudit:
		return len(m.audit.Snapshot().Items)
	default:
		return len(m.news.Snapshot().Items)
	}
}

// selectedNews returns the highlighted news row, if any.
func (m Model) selectedNews() (models.NewsItem, bool) {
	items := m.news.Snapshot().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return models.NewsItem{}, false
	}
	return items[m.cursor], true
}

// selectedUser returns the highlighted user row, if any.
func (m Model) selectedUser() (models.User, bool) {
	items := m.users.Snapshot().Items
	if m.cursor < 0 || m.cursor >= len(items) {
		return models.User{}, false
	}
	return items[m.cursor], true
}
