// internal/tui/app.go
//
// This is the main TUI for the newsroom client. It follows The Elm
// Architecture: the App holds the route, every request runs as a tea.Cmd and
// comes back as a message, and View renders whatever state Update left.

package tui

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/newsroom/internal/api"
	"github.com/kingrea/newsroom/internal/config"
	"github.com/kingrea/newsroom/internal/logbook"
	"github.com/kingrea/newsroom/internal/news"
)

// route represents which screen is mounted.
type route int

const (
	routeList   route = iota // all articles
	routeDetail              // article/{id}
)

const logPanelLines = 8

// viewDeps is what every view borrows from the App.
type viewDeps struct {
	client     api.Client
	logbook    *logbook.Logbook
	keys       keyMap
	dateLayout string
	validate   bool
}

func (d viewDeps) logInfo(format string, args ...any)  { d.logbook.Info(format, args...) }
func (d viewDeps) logWarn(format string, args ...any)  { d.logbook.Warn(format, args...) }
func (d viewDeps) logError(format string, args ...any) { d.logbook.Error(format, args...) }

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogbook routes journey messages to lb and shows its tail in the UI.
func WithLogbook(lb *logbook.Logbook) AppOption {
	return func(a *App) {
		if lb != nil {
			a.logbook = lb
		}
	}
}

// WithInitialArticle starts on an article instead of the list.
func WithInitialArticle(id news.ID) AppOption {
	return func(a *App) {
		if id = news.ID(strings.TrimSpace(id.String())); id != "" {
			a.route = routeDetail
			a.initialID = id
		}
	}
}

// App is the root model. It owns the route and mounts one view at a time.
type App struct {
	deps    viewDeps
	logbook *logbook.Logbook

	route     route
	initialID news.ID
	list      *listView
	detail    *detailView
	instance  uint64

	// articleIDs is the last list order, used for previous/next.
	articleIDs []news.ID
	lastOpened news.ID

	width     int
	height    int
	statusMsg string
}

// NewApp wires the views to client. A nil cfg means defaults.
func NewApp(cfg *config.Config, client api.Client, opts ...AppOption) *App {
	pc := config.DefaultProjectConfig()
	if cfg != nil {
		pc = cfg.Project
	}
	a := &App{route: routeList}
	for _, opt := range opts {
		if opt != nil {
			opt(a)
		}
	}
	dateLayout := pc.UI.DateFormat
	validate := pc.Form.Validate
	if cfg != nil {
		dateLayout = cfg.DateFormat()
		validate = cfg.ValidateForm()
	}
	if dateLayout == "" {
		dateLayout = news.DefaultDateLayout
	}
	a.deps = viewDeps{
		client:     client,
		logbook:    a.logbook,
		keys:       defaultKeyMap(),
		dateLayout: dateLayout,
		validate:   validate,
	}
	return a
}

// Init mounts the starting route.
func (a *App) Init() tea.Cmd {
	if a.route == routeDetail && a.initialID != "" {
		return a.openDetail(a.initialID)
	}
	return a.openList()
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m, ok := msg.(instanced); ok && m.viewInstance() != a.instance {
		return a, nil
	}
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.resize()
		return a, nil

	case openArticleMsg:
		return a, a.openDetail(msg.id)

	case articlesLoadedMsg:
		if a.route != routeList || a.list == nil {
			return a, nil
		}
		cmd := a.list.Update(msg)
		if a.list.phase == listLoaded {
			a.articleIDs = a.list.articleIDs()
			a.statusMsg = fmt.Sprintf("%d articles", len(a.articleIDs))
		} else if a.list.phase == listFailed {
			a.statusMsg = "Could not load articles"
		}
		return a, cmd

	case tea.KeyMsg:
		keys := a.deps.keys
		capturing := a.route == routeDetail && a.detail != nil && a.detail.capturingInput()
		switch {
		case key.Matches(msg, keys.ForceQuit):
			return a, a.quit()
		case capturing:
		case key.Matches(msg, keys.Quit):
			return a, a.quit()
		case key.Matches(msg, keys.Back):
			if a.route == routeDetail {
				return a, a.openList()
			}
		case key.Matches(msg, keys.Prev):
			if a.route == routeDetail {
				return a, a.step(-1)
			}
		case key.Matches(msg, keys.Next):
			if a.route == routeDetail {
				return a, a.step(1)
			}
		}
	}

	switch a.route {
	case routeList:
		if a.list != nil {
			return a, a.list.Update(msg)
		}
	case routeDetail:
		if a.detail != nil {
			return a, a.detail.Update(msg)
		}
	}
	return a, nil
}

// mount tears down the current view and hands out a new instance token.
func (a *App) mount() uint64 {
	if a.list != nil {
		a.list.close()
		a.list = nil
	}
	if a.detail != nil {
		a.detail.close()
		a.detail = nil
	}
	a.instance++
	return a.instance
}

func (a *App) openList() tea.Cmd {
	a.list = newListView(a.mount(), a.deps, a.lastOpened)
	a.route = routeList
	a.statusMsg = "Loading articles..."
	a.resize()
	return a.list.Init()
}

func (a *App) openDetail(id news.ID) tea.Cmd {
	a.detail = newDetailView(a.mount(), a.deps)
	a.route = routeDetail
	a.resize()
	return a.navigate(id)
}

// navigate changes the identifier of the mounted detail view in place.
func (a *App) navigate(id news.ID) tea.Cmd {
	a.lastOpened = id
	a.statusMsg = "Article " + id.String()
	return a.detail.Navigate(id)
}

// step moves to the neighbouring article in list order.
func (a *App) step(delta int) tea.Cmd {
	if a.detail == nil || len(a.articleIDs) == 0 {
		return nil
	}
	current := a.detail.articleID()
	idx := -1
	for i, id := range a.articleIDs {
		if id == current {
			idx = i
			break
		}
	}
	next := idx + delta
	if idx < 0 || next < 0 || next >= len(a.articleIDs) {
		return nil
	}
	return a.navigate(a.articleIDs[next])
}

func (a *App) quit() tea.Cmd {
	a.mount()
	return tea.Quit
}

func (a *App) resize() {
	width, height := a.contentSize()
	if a.list != nil {
		a.list.setSize(width, height)
	}
	if a.detail != nil {
		a.detail.setSize(width, height)
	}
}

func (a *App) contentSize() (int, int) {
	width := a.width
	if width <= 0 {
		width = 100
	}
	height := a.height
	if height <= 0 {
		height = 40
	}
	return max(20, width-6), max(10, height-logPanelLines-8)
}

func (a *App) View() string {
	var content string
	switch a.route {
	case routeList:
		if a.list != nil {
			content = a.list.View()
		}
	case routeDetail:
		if a.detail != nil {
			content = a.detail.View()
		}
	}
	header := headerStyle.Render("⬡ NEWSROOM")
	parts := []string{header, content}
	if panel := a.renderLogPanel(); panel != "" {
		parts = append(parts, panel)
	}
	parts = append(parts, a.renderFooter())
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (a *App) renderLogPanel() string {
	if a.logbook == nil {
		return ""
	}
	lines, _ := a.logbook.Tail(logPanelLines)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(a.logbook.Path())
	if fileName == "." || fileName == "" {
		fileName = "log"
	}
	head := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#5B8DEF")).
		Render(fmt.Sprintf("LOG · %s", fileName))
	body := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA")).
		Render(strings.Join(lines, "\n"))
	return sectionStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func (a *App) renderFooter() string {
	keys := a.deps.keys
	help := helpLine(keys.Open, keys.Reload, keys.Quit)
	if a.route == routeDetail {
		help = helpLine(keys.Back, keys.Prev, keys.Next, keys.ForceQuit)
	}
	status := strings.TrimSpace(a.statusMsg)
	if status == "" {
		return mutedStyle.Render(help)
	}
	return mutedStyle.Render(status + "    " + help)
}
