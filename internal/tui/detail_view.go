package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textarea"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/newsroom/internal/api"
	"github.com/kingrea/newsroom/internal/detail"
	"github.com/kingrea/newsroom/internal/news"
)

type detailFocus int

const (
	focusArticle detailFocus = iota
	focusAuthor
	focusBody
	focusComments
	focusCount
)

const detailBackHint = "esc → back to articles"

// detailView shows one article, its comment form and its comments. All
// request state lives in machine; the bubbles widgets only mirror the draft.
type detailView struct {
	instance uint64
	deps     viewDeps

	// ctx is cancelled on teardown. readCtx is a child replaced on every
	// identifier change and reload.
	ctx        context.Context
	cancel     context.CancelFunc
	readCtx    context.Context
	readCancel context.CancelFunc

	machine  detail.Machine
	comments *commentsView

	author  textinput.Model
	body    textarea.Model
	article viewport.Model
	spinner spinner.Model
	focus   detailFocus

	width  int
	height int
}

func newDetailView(instance uint64, deps viewDeps) *detailView {
	author := textinput.New()
	author.Placeholder = "Your name"
	author.CharLimit = 64
	author.Prompt = ""

	body := textarea.New()
	body.Placeholder = "Write a comment..."
	body.ShowLineNumbers = false
	body.CharLimit = 2000
	body.SetHeight(4)

	ctx, cancel := context.WithCancel(context.Background())
	v := &detailView{
		instance: instance,
		deps:     deps,
		ctx:      ctx,
		cancel:   cancel,
		comments: newCommentsView(instance, deps),
		author:   author,
		body:     body,
		article:  viewport.New(80, 10),
		spinner:  spinner.New(spinner.WithSpinner(spinner.Dot)),
	}
	v.setSize(100, 40)
	return v
}

// Navigate points the view at an article. The previous read, its comment
// read and any in-flight submission are cancelled and their results become
// stale.
func (v *detailView) Navigate(id news.ID) tea.Cmd {
	v.restartReads()
	v.machine = v.machine.Navigate(id)
	v.resetInputs()
	v.setFocus(focusArticle)
	return v.beginRead()
}

// Reload re-reads the current article and keeps the draft and any
// confirmation. It is refused while a submission is in flight.
func (v *detailView) Reload() tea.Cmd {
	if v.machine.Phase() == detail.ReadLoading || v.machine.Form().Write().Submitting() {
		return nil
	}
	v.restartReads()
	v.machine = v.machine.Reload()
	return v.beginRead()
}

func (v *detailView) restartReads() {
	if v.readCancel != nil {
		v.readCancel()
	}
	v.readCtx, v.readCancel = context.WithCancel(v.ctx)
	v.comments.Clear()
	v.article.SetContent("")
	v.article.GotoTop()
}

func (v *detailView) beginRead() tea.Cmd {
	id := v.articleID()
	v.deps.logInfo("Article %s · loading", id)
	return tea.Batch(
		v.spinner.Tick,
		fetchArticle(v.readCtx, v.deps.client, v.instance, v.machine.Read().Generation(), id),
	)
}

func (v *detailView) close() {
	if v.cancel != nil {
		v.cancel()
	}
}

// articleID is the identifier the view currently shows.
func (v *detailView) articleID() news.ID {
	return v.machine.Read().ArticleID()
}

// capturingInput reports whether keystrokes belong to a text field.
func (v *detailView) capturingInput() bool {
	return v.focus == focusAuthor || v.focus == focusBody
}

func (v *detailView) setSize(width, height int) {
	v.width = max(40, width)
	v.height = max(16, height)
	inner := v.width - 4
	v.article.Width = inner
	v.article.Height = max(4, v.height/3)
	v.author.Width = inner
	v.body.SetWidth(inner)
	v.comments.setSize(inner, max(3, v.height/4))
	if a, ok := v.machine.Read().Article(); ok {
		v.article.SetContent(v.renderArticleBody(a))
	}
}

func (v *detailView) Update(msg tea.Msg) tea.Cmd {
	switch m := msg.(type) {
	case articleLoadedMsg:
		return v.handleArticleLoaded(m)
	case commentsLoadedMsg:
		v.comments.handleLoaded(m)
		return nil
	case commentPostedMsg:
		return v.handleCommentPosted(m)
	case spinner.TickMsg:
		if v.machine.Phase() != detail.ReadLoading && !v.machine.Form().Write().Submitting() {
			return nil
		}
		var cmd tea.Cmd
		v.spinner, cmd = v.spinner.Update(m)
		return cmd
	case tea.KeyMsg:
		return v.handleKey(m)
	}
	return v.forwardToFocused(msg)
}

func (v *detailView) handleArticleLoaded(msg articleLoadedMsg) tea.Cmd {
	if msg.err != nil {
		info := api.AsErrorInfo(msg.err)
		machine, ok := v.machine.FailRead(msg.gen, info)
		if !ok {
			v.deps.logInfo("Article %s · stale result dropped", msg.id)
			return nil
		}
		v.machine = machine
		if api.IsNotFound(msg.err) {
			v.deps.logWarn("Article %s · not found", msg.id)
			return nil
		}
		v.deps.logError("Article %s · load failed: %s", msg.id, info)
		return nil
	}
	machine, ok := v.machine.ResolveRead(msg.gen, msg.article)
	if !ok {
		v.deps.logInfo("Article %s · stale result dropped", msg.id)
		return nil
	}
	v.machine = machine
	v.article.SetContent(v.renderArticleBody(msg.article))
	v.article.GotoTop()
	v.deps.logInfo("Article %s · loaded", msg.id)
	return v.comments.Load(v.readCtx, msg.id)
}

func (v *detailView) handleCommentPosted(msg commentPostedMsg) tea.Cmd {
	id := v.articleID()
	if msg.err != nil {
		info := api.AsErrorInfo(msg.err)
		machine, ok := v.machine.FailWrite(msg.gen, info)
		if !ok {
			v.deps.logInfo("Comment · stale result dropped")
			return nil
		}
		v.machine = machine
		v.deps.logError("Comment · post on %s failed: %s", id, info)
		return nil
	}
	machine, ok := v.machine.SucceedWrite(msg.gen)
	if !ok {
		v.deps.logInfo("Comment · stale result dropped")
		return nil
	}
	v.machine = machine
	v.resetInputs()
	v.deps.logInfo("Comment · posted on %s", id)
	return v.comments.Load(v.readCtx, id)
}

func (v *detailView) submit() tea.Cmd {
	machine, draft, gen, outcome := v.machine.Submit(v.deps.validate)
	v.machine = machine
	switch outcome {
	case detail.SubmitDispatched:
		v.deps.logInfo("Comment · submitting on %s", draft.ArticleID)
		return tea.Batch(
			v.spinner.Tick,
			postComment(v.readCtx, v.deps.client, v.instance, gen, draft),
		)
	case detail.SubmitBusy:
		v.deps.logWarn("Comment · already submitting")
	case detail.SubmitInvalid:
		v.deps.logWarn("Comment · %s", machine.Form().Notice())
	}
	return nil
}

func (v *detailView) handleKey(msg tea.KeyMsg) tea.Cmd {
	keys := v.deps.keys
	loaded := v.machine.Phase() == detail.ReadLoaded
	switch {
	case key.Matches(msg, keys.Submit):
		return v.submit()
	case key.Matches(msg, keys.NextField):
		if !loaded {
			return nil
		}
		return v.setFocus((v.focus + 1) % focusCount)
	case key.Matches(msg, keys.PrevField):
		if !loaded {
			return nil
		}
		return v.setFocus((v.focus + focusCount - 1) % focusCount)
	}
	if v.capturingInput() {
		if key.Matches(msg, keys.Back) {
			return v.setFocus(focusArticle)
		}
		if v.machine.Form().Write().Submitting() {
			return nil
		}
		return v.editFocused(msg)
	}
	switch {
	case key.Matches(msg, keys.Reload):
		if v.machine.Form().Write().Submitting() {
			v.deps.logWarn("Article %s · reload refused while submitting", v.articleID())
			return nil
		}
		return v.Reload()
	case key.Matches(msg, keys.Comments):
		if !loaded {
			return nil
		}
		if v.focus == focusComments {
			return v.setFocus(focusArticle)
		}
		return v.setFocus(focusComments)
	}
	return v.forwardToFocused(msg)
}

func (v *detailView) editFocused(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	switch v.focus {
	case focusAuthor:
		before := v.author.Value()
		v.author, cmd = v.author.Update(msg)
		if v.author.Value() != before {
			v.machine = v.machine.Edit(detail.FieldAuthor, v.author.Value())
		}
	case focusBody:
		before := v.body.Value()
		v.body, cmd = v.body.Update(msg)
		if v.body.Value() != before {
			v.machine = v.machine.Edit(detail.FieldBody, v.body.Value())
		}
	}
	return cmd
}

func (v *detailView) forwardToFocused(msg tea.Msg) tea.Cmd {
	if v.machine.Phase() != detail.ReadLoaded {
		return nil
	}
	switch v.focus {
	case focusAuthor, focusBody:
		if _, ok := msg.(tea.KeyMsg); ok {
			return v.editFocused(msg)
		}
		var cmd tea.Cmd
		if v.focus == focusAuthor {
			v.author, cmd = v.author.Update(msg)
		} else {
			v.body, cmd = v.body.Update(msg)
		}
		return cmd
	case focusComments:
		return v.comments.Update(msg)
	default:
		var cmd tea.Cmd
		v.article, cmd = v.article.Update(msg)
		return cmd
	}
}

func (v *detailView) setFocus(f detailFocus) tea.Cmd {
	v.focus = f
	v.author.Blur()
	v.body.Blur()
	switch f {
	case focusAuthor:
		return v.author.Focus()
	case focusBody:
		return v.body.Focus()
	}
	return nil
}

func (v *detailView) resetInputs() {
	v.author.Reset()
	v.body.Reset()
}

func (v *detailView) View() string {
	switch v.machine.Phase() {
	case detail.ReadFailed:
		return renderErrorPage(detailBackHint)
	case detail.ReadLoaded:
		article, _ := v.machine.Read().Article()
		return v.renderLoaded(article)
	default:
		return renderLoading(v.spinner, loadingArticleText)
	}
}

func (v *detailView) renderLoaded(a news.Article) string {
	sections := []string{
		v.renderHeader(a),
		sectionStyle.Render(v.article.View()),
		v.renderForm(),
	}
	if banners := v.renderBanners(); banners != "" {
		sections = append(sections, banners)
	}
	sections = append(sections, v.comments.View(v.focus == focusComments))
	keys := v.deps.keys
	sections = append(sections, hintStyle.Render(helpLine(keys.NextField, keys.Submit, keys.Comments, keys.Prev, keys.Next, keys.Back)))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (v *detailView) renderHeader(a news.Article) string {
	byline := "by " + a.Author
	if date := news.FormatDate(a.CreatedAt, v.deps.dateLayout); date != "" {
		byline += " on " + date
	}
	lines := []string{titleStyle.Render(a.Title), metaStyle.Render(byline)}
	if topic := strings.TrimSpace(a.Topic); topic != "" {
		lines = append(lines, topicStyle.Render(topic))
	}
	lines = append(lines, mutedStyle.Render(fmt.Sprintf("%d comments (c)", a.CommentCount)))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (v *detailView) renderArticleBody(a news.Article) string {
	return lipgloss.NewStyle().Width(max(20, v.article.Width-2)).Render(a.Body)
}

func (v *detailView) renderForm() string {
	authorLabel, bodyLabel := labelStyle, labelStyle
	switch v.focus {
	case focusAuthor:
		authorLabel = focusedLabel
	case focusBody:
		bodyLabel = focusedLabel
	}
	button := buttonStyle.Render("Post comment")
	if v.machine.Form().Write().Submitting() {
		button = disabledButtonStyle.Render(v.spinner.View() + " Submitting…")
	}
	lines := []string{
		labelStyle.Render("Something to say?"),
		authorLabel.Render("Author"),
		v.author.View(),
		bodyLabel.Render("Comment"),
		v.body.View(),
		button,
	}
	if notice := v.machine.Form().Notice(); notice != "" {
		lines = append(lines, topicStyle.Render(notice))
	}
	return sectionStyle.Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (v *detailView) renderBanners() string {
	write := v.machine.Form().Write()
	var banners []string
	if write.Confirmed() && !write.Submitting() {
		banners = append(banners, renderSuccessBanner())
	}
	if info, ok := write.Err(); ok && write.Phase() == detail.WriteFailed {
		banners = append(banners, renderErrorBanner(info.String()))
	}
	return strings.Join(banners, "\n")
}
