package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/newsroom/internal/api"
	"github.com/kingrea/newsroom/internal/news"
)

type listPhase int

const (
	listLoading listPhase = iota
	listLoaded
	listFailed
)

// articleItem implements list.Item for one article summary.
type articleItem struct {
	article    news.Article
	dateLayout string
}

func (i articleItem) Title() string { return i.article.Title }
func (i articleItem) Description() string {
	parts := []string{"by " + i.article.Author}
	if topic := strings.TrimSpace(i.article.Topic); topic != "" {
		parts = append(parts, topic)
	}
	if date := news.FormatDate(i.article.CreatedAt, i.dateLayout); date != "" {
		parts = append(parts, date)
	}
	parts = append(parts, fmt.Sprintf("%d comments", i.article.CommentCount))
	return strings.Join(parts, " · ")
}
func (i articleItem) FilterValue() string { return i.article.Title }

// Key is the unique identifier the item is keyed by.
func (i articleItem) Key() news.ID { return i.article.ID }

// listView renders every article as a summary and routes to the detail view
// on enter.
type listView struct {
	instance uint64
	deps     viewDeps
	ctx      context.Context
	cancel   context.CancelFunc

	phase    listPhase
	gen      uint64
	err      news.ErrorInfo
	articles []news.Article
	selectID news.ID

	list    list.Model
	spinner spinner.Model
}

func newListView(instance uint64, deps viewDeps, selectID news.ID) *listView {
	delegate := list.NewDefaultDelegate()
	delegate.SetHeight(2)
	l := list.New(nil, delegate, 0, 0)
	l.Title = "Articles"
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.SetShowHelp(false)
	l.DisableQuitKeybindings()
	ctx, cancel := context.WithCancel(context.Background())
	return &listView{
		instance: instance,
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
		selectID: selectID,
		list:     l,
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
}

// Init issues the read-all for this activation.
func (v *listView) Init() tea.Cmd {
	return v.load()
}

func (v *listView) load() tea.Cmd {
	v.gen++
	v.phase = listLoading
	v.err = news.ErrorInfo{}
	v.deps.logInfo("Articles · loading")
	return tea.Batch(v.spinner.Tick, fetchArticles(v.ctx, v.deps.client, v.instance, v.gen))
}

func (v *listView) close() {
	if v.cancel != nil {
		v.cancel()
	}
}

func (v *listView) setSize(width, height int) {
	v.list.SetSize(max(20, width), max(5, height))
}

func (v *listView) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case articlesLoadedMsg:
		return v.handleLoaded(m)
	case spinner.TickMsg:
		if v.phase != listLoading {
			return nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(m)
		return cmd
	case tea.KeyMsg:
		return v.handleKey(m)
	}
	return nil
}

func (v *listView) handleLoaded(m articlesLoadedMsg) tea.Cmd {
	if m.gen != v.gen || v.phase != listLoading {
		return nil
	}
	if m.err != nil {
		v.phase = listFailed
		v.err = api.AsErrorInfo(m.err)
		v.deps.logError("Articles · load failed: %s", v.err)
		return nil
	}
	v.phase = listLoaded
	v.articles = uniqueArticles(m.articles)
	items := make([]list.Item, len(v.articles))
	selected := 0
	for i, a := range v.articles {
		items[i] = articleItem{article: a, dateLayout: v.deps.dateLayout}
		if a.ID == v.selectID {
			selected = i
		}
	}
	cmd := v.list.SetItems(items)
	if len(items) > 0 {
		v.list.Select(selected)
	}
	v.deps.logInfo("Articles · loaded %d", len(v.articles))
	return cmd
}

func (v *listView) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := v.deps.keys
	switch {
	case key.Matches(msg, keys.Reload):
		return v.load()
	case key.Matches(msg, keys.Open):
		if v.phase != listLoaded {
			return nil
		}
		item, ok := v.list.SelectedItem().(articleItem)
		if !ok {
			return nil
		}
		return openArticle(item.Key())
	}
	if v.phase != listLoaded {
		return nil
	}
	var cmd tea.Cmd
	v.list, cmd = v.list.Update(msg)
	return cmd
}

// articleIDs returns the loaded identifiers in display order.
func (v *listView) articleIDs() []news.ID {
	ids := make([]news.ID, len(v.articles))
	for i, a := range v.articles {
		ids[i] = a.ID
	}
	return ids
}

func (v *listView) View() string {
	switch v.phase {
	case listLoading:
		return renderLoading(v.spinner, loadingArticlesText)
	case listFailed:
		return renderErrorPage(fmt.Sprintf("%s    r → try again", v.err))
	}
	if len(v.articles) == 0 {
		return mutedStyle.Render("No articles yet.")
	}
	hint := hintStyle.Render(helpLine(v.deps.keys.Open, v.deps.keys.Reload, v.deps.keys.Quit))
	return lipgloss.JoinVertical(lipgloss.Left, v.list.View(), hint)
}

// uniqueArticles keeps the collaborator's order and drops repeated ids so
// every item has a distinct key.
func uniqueArticles(in []news.Article) []news.Article {
	seen := make(map[news.ID]struct{}, len(in))
	out := make([]news.Article, 0, len(in))
	for _, a := range in {
		if _, ok := seen[a.ID]; ok {
			continue
		}
		seen[a.ID] = struct{}{}
		out = append(out, a)
	}
	return out
}
