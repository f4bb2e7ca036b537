package tui

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/newsroom/internal/api"
	"github.com/kingrea/newsroom/internal/news"
)

// instanced is implemented by every async completion. The App drops a
// completion unless its instance is the view currently mounted.
type instanced interface {
	viewInstance() uint64
}

type articlesLoadedMsg struct {
	instance uint64
	gen      uint64
	articles []news.Article
	err      error
}

type articleLoadedMsg struct {
	instance uint64
	gen      uint64
	id       news.ID
	article  news.Article
	err      error
}

type commentsLoadedMsg struct {
	instance uint64
	gen      uint64
	comments []news.Comment
	err      error
}

type commentPostedMsg struct {
	instance uint64
	gen      uint64
	comment  news.Comment
	err      error
}

// openArticleMsg asks the App to route to an article.
type openArticleMsg struct {
	id news.ID
}

func (m articlesLoadedMsg) viewInstance() uint64 { return m.instance }
func (m articleLoadedMsg) viewInstance() uint64  { return m.instance }
func (m commentsLoadedMsg) viewInstance() uint64 { return m.instance }
func (m commentPostedMsg) viewInstance() uint64  { return m.instance }

func fetchArticles(ctx context.Context, client api.Client, instance, gen uint64) tea.Cmd {
	return func() tea.Msg {
		articles, err := client.ListArticles(ctx)
		return articlesLoadedMsg{instance: instance, gen: gen, articles: articles, err: err}
	}
}

func fetchArticle(ctx context.Context, client api.Client, instance, gen uint64, id news.ID) tea.Cmd {
	return func() tea.Msg {
		article, err := client.GetArticle(ctx, id)
		return articleLoadedMsg{instance: instance, gen: gen, id: id, article: article, err: err}
	}
}

func fetchComments(ctx context.Context, client api.Client, instance, gen uint64, id news.ID) tea.Cmd {
	return func() tea.Msg {
		comments, err := client.ListComments(ctx, id)
		return commentsLoadedMsg{instance: instance, gen: gen, comments: comments, err: err}
	}
}

func postComment(ctx context.Context, client api.Client, instance, gen uint64, draft news.CommentDraft) tea.Cmd {
	return func() tea.Msg {
		comment, err := client.PostComment(ctx, draft)
		return commentPostedMsg{instance: instance, gen: gen, comment: comment, err: err}
	}
}

func openArticle(id news.ID) tea.Cmd {
	return func() tea.Msg {
		return openArticleMsg{id: id}
	}
}
