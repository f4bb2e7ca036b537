package tui

import (
	"errors"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/newsroom/internal/api"
	"github.com/kingrea/newsroom/internal/config"
	"github.com/kingrea/newsroom/internal/detail"
	"github.com/kingrea/newsroom/internal/logbook"
	"github.com/kingrea/newsroom/internal/news"
)

func openLoaded(t *testing.T, client *stubClient, id news.ID) *App {
	t.Helper()
	app := newTestApp(t, client, WithInitialArticle(id))
	app = drive(t, app, app.Init())
	if app.detail == nil || app.detail.machine.Phase() != detail.ReadLoaded {
		t.Fatalf("expected article %s to load", id)
	}
	return app
}

func fillForm(t *testing.T, app *App, author, body string) *App {
	t.Helper()
	app = drive(t, app, press(t, app, tabKey()))
	app = drive(t, app, press(t, app, runeKey(author)))
	app = drive(t, app, press(t, app, tabKey()))
	return drive(t, app, press(t, app, runeKey(body)))
}

func TestDetailLoadingShowsOnlyPlaceholder(t *testing.T) {
	client := newStubClient(sampleArticles("3")...)
	app := newTestApp(t, client, WithInitialArticle("3"))
	_ = collect(t, app.Init())

	view := app.detail.View()
	if !strings.Contains(view, loadingArticleText) {
		t.Fatalf("expected loading placeholder, got:\n%s", view)
	}
	if strings.Contains(view, "Article 3") || strings.Contains(view, "Something to say?") {
		t.Fatalf("loading must not render article content")
	}
}

func TestDetailRendersArticleFormAndComments(t *testing.T) {
	client := newStubClient(sampleArticles("3")...)
	client.comments["3"] = []news.Comment{{ID: "9", ArticleID: "3", Author: "grumpy19", Body: "first!", Votes: 4}}
	app := openLoaded(t, client, "3")

	view := app.detail.View()
	for _, want := range []string{"Article 3", "by jessjelly on 07 Nov 2020", "coding", "0 comments (c)", "Something to say?", "Post comment", "Comments (1)", "grumpy19"} {
		if !strings.Contains(view, want) {
			t.Fatalf("expected %q in view:\n%s", want, view)
		}
	}
	if strings.Contains(view, "Success!") || strings.Contains(view, "Error ") {
		t.Fatalf("no banner before any submission")
	}
}

func TestDetailReadFailureSuppressesEverything(t *testing.T) {
	client := newStubClient()
	app := newTestApp(t, client, WithInitialArticle("404"))
	app = drive(t, app, app.Init())

	view := app.detail.View()
	if !strings.Contains(view, errorPageTitle) {
		t.Fatalf("expected error page, got:\n%s", view)
	}
	if strings.Contains(view, "Something to say?") || strings.Contains(view, "Comments (") {
		t.Fatalf("error page must not render the form or comments")
	}
	if strings.Contains(view, "Article not found") {
		t.Fatalf("read failures are not told apart on the error page")
	}
	if got := client.count("comments:404"); got != 0 {
		t.Fatalf("comments must not load for a failed article, got %d", got)
	}

	app = drive(t, app, press(t, app, submitKey()))
	if client.postCount() != 0 {
		t.Fatalf("submission must be unavailable without an article")
	}
}

func TestSubmitHappyPath(t *testing.T) {
	client := newStubClient(sampleArticles("3")...)
	app := openLoaded(t, client, "3")
	app = fillForm(t, app, "alice", "nice post")
	app = drive(t, app, press(t, app, submitKey()))

	if client.postCount() != 1 {
		t.Fatalf("expected one post, got %d", client.postCount())
	}
	if got := client.posted[0]; got != (news.CommentDraft{Author: "alice", Body: "nice post", ArticleID: "3"}) {
		t.Fatalf("unexpected draft sent: %+v", got)
	}
	view := app.detail.View()
	if !strings.Contains(view, "Success! Thanks for your comment!") {
		t.Fatalf("expected success banner, got:\n%s", view)
	}
	if strings.Contains(view, "Error ") {
		t.Fatalf("success must not show an error banner")
	}
	if app.detail.author.Value() != "" || app.detail.body.Value() != "" {
		t.Fatalf("a fresh draft begins after success")
	}
	if got := client.count("comments:3"); got != 2 {
		t.Fatalf("comments should refresh after success, got %d reads", got)
	}
	if !strings.Contains(view, "Comments (1)") {
		t.Fatalf("refreshed comments should include the new one:\n%s", view)
	}
}

func TestSubmitFailureShowsStatusAndKeepsForm(t *testing.T) {
	client := newStubClient(sampleArticles("3")...)
	client.postErr = &api.Error{Status: 422, Msg: "body required"}
	app := openLoaded(t, client, "3")
	app = fillForm(t, app, "alice", "x")
	app = drive(t, app, press(t, app, submitKey()))

	view := app.detail.View()
	if !strings.Contains(view, "422 · body required") {
		t.Fatalf("expected status and message in banner, got:\n%s", view)
	}
	if !strings.Contains(view, "Article 3") || !strings.Contains(view, "Something to say?") {
		t.Fatalf("article and form stay visible after a write failure")
	}
	if strings.Contains(view, "Success!") {
		t.Fatalf("failure must not show the success banner")
	}
	if app.detail.author.Value() != "alice" {
		t.Fatalf("draft must survive a failed write")
	}
	if got := client.count("get:3"); got != 1 {
		t.Fatalf("a write failure must not re-read the article, got %d", got)
	}
}

func TestSubmitNonConformingErrorUsesFallback(t *testing.T) {
	client := newStubClient(sampleArticles("3")...)
	client.postErr = errors.New("socket closed")
	app := openLoaded(t, client, "3")
	app = fillForm(t, app, "alice", "x")
	app = drive(t, app, press(t, app, submitKey()))

	view := app.detail.View()
	if !strings.Contains(view, news.FallbackMessage) {
		t.Fatalf("expected fallback message, got:\n%s", view)
	}
	if strings.Contains(view, "socket closed") {
		t.Fatalf("raw error text must not leak into the banner")
	}
}

func TestSubmitDisabledWhileSubmitting(t *testing.T) {
	client := newStubClient(sampleArticles("3")...)
	app := openLoaded(t, client, "3")
	app = fillForm(t, app, "alice", "nice post")

	pending := collect(t, press(t, app, submitKey()))
	if client.postCount() != 1 {
		t.Fatalf("expected the first submit to dispatch")
	}
	if !strings.Contains(app.detail.View(), "Submitting…") {
		t.Fatalf("expected disabled submit button while submitting")
	}
	if extra := collect(t, press(t, app, submitKey())); len(extra) != 0 {
		t.Fatalf("second submit must not dispatch, got %d messages", len(extra))
	}
	if client.postCount() != 1 {
		t.Fatalf("at most one submission may be in flight, got %d", client.postCount())
	}

	for _, msg := range pending {
		model, cmd := app.Update(msg)
		app = drive(t, model.(*App), cmd)
	}
	if !app.detail.machine.Form().Write().Confirmed() {
		t.Fatalf("pending submission should confirm")
	}
}

func TestValidationShowsSingleNotice(t *testing.T) {
	client := newStubClient(sampleArticles("3")...)
	app := openLoaded(t, client, "3")
	app = drive(t, app, press(t, app, submitKey()))
	app = drive(t, app, press(t, app, submitKey()))

	view := app.detail.View()
	if got := strings.Count(view, "Please fill in: author, comment"); got != 1 {
		t.Fatalf("expected one notice, got %d in:\n%s", got, view)
	}
	if client.postCount() != 0 {
		t.Fatalf("an invalid draft must not be sent")
	}
}

func TestStaleReadIsDiscardedAfterIdentifierChange(t *testing.T) {
	client := newStubClient(sampleArticles("A", "B")...)
	app := newTestApp(t, client)
	app = drive(t, app, app.Init())

	open := collect(t, press(t, app, enterKey()))
	if len(open) != 1 {
		t.Fatalf("expected the open request, got %d", len(open))
	}
	model, cmd := app.Update(open[0])
	app = model.(*App)
	pendingA := collect(t, cmd)

	app = drive(t, app, press(t, app, runeKey("]")))
	if got := app.detail.articleID(); got != "B" {
		t.Fatalf("expected B, got %s", got)
	}
	for _, msg := range pendingA {
		model, cmd := app.Update(msg)
		app = drive(t, model.(*App), cmd)
	}

	view := app.detail.View()
	if !strings.Contains(view, "Article B") || strings.Contains(view, "Article A") {
		t.Fatalf("stale read for A must not replace B:\n%s", view)
	}
}

func TestNoBannerLeaksAcrossIdentifierChange(t *testing.T) {
	client := newStubClient(sampleArticles("A", "B")...)
	client.postErr = &api.Error{Status: 500, Msg: "boom"}
	app := newTestApp(t, client)
	app = drive(t, app, app.Init())
	app = drive(t, app, press(t, app, enterKey()))
	app = fillForm(t, app, "alice", "hello")

	pending := collect(t, press(t, app, submitKey()))
	app = drive(t, app, press(t, app, escKey()))
	if app.route != routeDetail {
		t.Fatalf("esc inside a field should only leave the field")
	}
	app = drive(t, app, press(t, app, runeKey("]")))
	for _, msg := range pending {
		model, cmd := app.Update(msg)
		app = drive(t, model.(*App), cmd)
	}

	view := app.detail.View()
	if !strings.Contains(view, "Article B") {
		t.Fatalf("expected article B:\n%s", view)
	}
	if strings.Contains(view, "boom") || strings.Contains(view, "Error ") {
		t.Fatalf("write result for A must not surface on B:\n%s", view)
	}
	if app.detail.author.Value() != "" {
		t.Fatalf("draft must reset on identifier change")
	}
}

func TestRepeatedReadsRenderTheSame(t *testing.T) {
	client := newStubClient(sampleArticles("3")...)
	app := openLoaded(t, client, "3")
	first := app.detail.View()

	app = drive(t, app, press(t, app, runeKey("r")))
	if got := client.count("get:3"); got != 2 {
		t.Fatalf("expected a second read, got %d", got)
	}
	if again := app.detail.View(); again != first {
		t.Fatalf("repeated reads should render identically:\nfirst:\n%s\nagain:\n%s", first, again)
	}
}

func TestReloadRefusedWhileSubmitting(t *testing.T) {
	client := newStubClient(sampleArticles("3")...)
	app := openLoaded(t, client, "3")
	app = fillForm(t, app, "alice", "nice post")

	pending := collect(t, press(t, app, submitKey()))
	app = drive(t, app, press(t, app, escKey()))
	if extra := collect(t, press(t, app, runeKey("r"))); len(extra) != 0 {
		t.Fatalf("reload must not dispatch while submitting, got %d messages", len(extra))
	}
	if got := client.count("get:3"); got != 1 {
		t.Fatalf("expected no second read, got %d", got)
	}
	if err := client.lastContext("post:3").Err(); err != nil {
		t.Fatalf("pending submission must not be cancelled: %v", err)
	}

	for _, msg := range pending {
		model, cmd := app.Update(msg)
		app = drive(t, model.(*App), cmd)
	}
	if !app.detail.machine.Form().Write().Confirmed() {
		t.Fatalf("pending submission should confirm")
	}
}

func TestReloadKeepsConfirmationAndDraft(t *testing.T) {
	client := newStubClient(sampleArticles("3")...)
	app := openLoaded(t, client, "3")
	app = fillForm(t, app, "alice", "nice post")
	app = drive(t, app, press(t, app, submitKey()))
	app = drive(t, app, press(t, app, escKey()))
	app = drive(t, app, press(t, app, tabKey()))
	app = drive(t, app, press(t, app, runeKey("bob")))
	app = drive(t, app, press(t, app, escKey()))

	app = drive(t, app, press(t, app, runeKey("r")))
	if got := client.count("get:3"); got != 2 {
		t.Fatalf("expected a second read, got %d", got)
	}
	if !strings.Contains(app.detail.View(), "Success! Thanks for your comment!") {
		t.Fatalf("reloading the same article keeps the confirmation:\n%s", app.detail.View())
	}
	if app.detail.author.Value() != "bob" || app.detail.machine.Form().Draft().Author != "bob" {
		t.Fatalf("reloading the same article keeps the draft")
	}
}

func TestMissingArticleIsLoggedAsNotFound(t *testing.T) {
	lb, err := logbook.New("")
	if err != nil {
		t.Fatalf("logbook: %v", err)
	}
	client := newStubClient()
	app := newTestApp(t, client, WithLogbook(lb), WithInitialArticle("404"))
	app = drive(t, app, app.Init())

	lines, _ := lb.Tail(10)
	joined := strings.Join(lines, "\n")
	if !strings.Contains(joined, "Article 404 · not found") {
		t.Fatalf("expected not-found journey line, got:\n%s", joined)
	}
	if strings.Contains(joined, "load failed") {
		t.Fatalf("a missing article is not a load failure:\n%s", joined)
	}
}

func TestConfigCanDisableFormValidation(t *testing.T) {
	cfg := &config.Config{Project: config.DefaultProjectConfig()}
	cfg.Project.Form.Validate = false
	client := newStubClient(sampleArticles("3")...)
	app := NewApp(cfg, client, WithInitialArticle("3"))
	model, _ := app.Update(tea.WindowSizeMsg{Width: 120, Height: 60})
	app = model.(*App)
	app = drive(t, app, app.Init())

	app = drive(t, app, press(t, app, submitKey()))
	if client.postCount() != 1 {
		t.Fatalf("an empty draft is sent when validation is off, got %d posts", client.postCount())
	}
}
