package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/newsroom/internal/api"
	"github.com/kingrea/newsroom/internal/news"
)

type commentsPhase int

const (
	commentsIdle commentsPhase = iota
	commentsLoading
	commentsLoaded
	commentsFailed
)

// commentsView lists the comments of one article. It has its own read
// lifecycle, separate from the article read.
type commentsView struct {
	instance uint64
	deps     viewDeps

	phase     commentsPhase
	gen       uint64
	articleID news.ID
	comments  []news.Comment
	err       news.ErrorInfo

	viewport viewport.Model
}

func newCommentsView(instance uint64, deps viewDeps) *commentsView {
	return &commentsView{
		instance: instance,
		deps:     deps,
		viewport: viewport.New(80, 8),
	}
}

// Load starts a fresh read for articleID. Any earlier read becomes stale.
func (c *commentsView) Load(ctx context.Context, articleID news.ID) tea.Cmd {
	c.gen++
	c.phase = commentsLoading
	c.articleID = articleID
	c.err = news.ErrorInfo{}
	return fetchComments(ctx, c.deps.client, c.instance, c.gen, articleID)
}

// Clear drops the list, for example when the article changes.
func (c *commentsView) Clear() {
	c.gen++
	c.phase = commentsIdle
	c.articleID = ""
	c.comments = nil
	c.err = news.ErrorInfo{}
	c.viewport.SetContent("")
	c.viewport.GotoTop()
}

func (c *commentsView) handleLoaded(msg commentsLoadedMsg) bool {
	if msg.gen != c.gen || c.phase != commentsLoading {
		return false
	}
	if msg.err != nil {
		c.phase = commentsFailed
		c.err = api.AsErrorInfo(msg.err)
		c.deps.logWarn("Comments · load failed for %s: %s", c.articleID, c.err)
		return true
	}
	c.phase = commentsLoaded
	c.comments = append([]news.Comment(nil), msg.comments...)
	c.viewport.SetContent(c.renderItems())
	c.viewport.GotoTop()
	return true
}

func (c *commentsView) setSize(width, height int) {
	c.viewport.Width = max(20, width)
	c.viewport.Height = max(3, height)
	if c.phase == commentsLoaded {
		c.viewport.SetContent(c.renderItems())
	}
}

func (c *commentsView) Update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	c.viewport, cmd = c.viewport.Update(msg)
	return cmd
}

func (c *commentsView) View(focused bool) string {
	label := labelStyle
	if focused {
		label = focusedLabel
	}
	head := label.Render(fmt.Sprintf("Comments (%d)", len(c.comments)))
	var body string
	switch c.phase {
	case commentsIdle, commentsLoading:
		body = mutedStyle.Render("Loading comments...")
	case commentsFailed:
		body = mutedStyle.Render("Comments unavailable: " + c.err.String())
	default:
		if len(c.comments) == 0 {
			body = mutedStyle.Render("No comments yet. Be the first!")
		} else {
			body = c.viewport.View()
		}
	}
	return sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, head, body))
}

func (c *commentsView) renderItems() string {
	blocks := make([]string, 0, len(c.comments))
	width := max(20, c.viewport.Width-2)
	for _, cm := range c.comments {
		meta := []string{cm.Author}
		if date := news.FormatDate(cm.CreatedAt, c.deps.dateLayout); date != "" {
			meta = append(meta, date)
		}
		meta = append(meta, fmt.Sprintf("%d votes", cm.Votes))
		blocks = append(blocks, lipgloss.JoinVertical(lipgloss.Left,
			metaStyle.Render(strings.Join(meta, " · ")),
			lipgloss.NewStyle().Width(width).Render(cm.Body),
		))
	}
	return strings.Join(blocks, "\n\n")
}
