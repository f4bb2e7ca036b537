package detail

import "github.com/kingrea/newsroom/internal/news"

// Machine is the complete state of one detail screen instance.
type Machine struct {
	read ReadState
	form Form
}

// Navigate points the screen at an article: the read side enters Loading
// with a new generation and the form starts over, dropping any pending or
// confirmed submission.
func (m Machine) Navigate(id news.ID) Machine {
	return Machine{read: m.read.Begin(id), form: m.form.Reset(id)}
}

// Reload re-reads the current article. The form, including a pending or
// confirmed submission, is kept.
func (m Machine) Reload() Machine {
	m.read = m.read.Begin(m.read.ArticleID())
	return m
}

// ResolveRead applies a successful fetch for generation gen.
func (m Machine) ResolveRead(gen uint64, article news.Article) (Machine, bool) {
	read, ok := m.read.Resolve(gen, article)
	if !ok {
		return m, false
	}
	m.read = read
	return m, true
}

// FailRead applies a failed fetch for generation gen.
func (m Machine) FailRead(gen uint64, info news.ErrorInfo) (Machine, bool) {
	read, ok := m.read.Fail(gen, info)
	if !ok {
		return m, false
	}
	m.read = read
	return m, true
}

// Edit updates a form field. Edits are ignored unless an article is loaded.
func (m Machine) Edit(field Field, value string) Machine {
	if m.read.Phase() != ReadLoaded {
		return m
	}
	m.form = m.form.Edit(field, value)
	return m
}

// Submit starts a write. The returned generation tags the completion.
func (m Machine) Submit(validate bool) (Machine, news.CommentDraft, uint64, SubmitOutcome) {
	if m.read.Phase() != ReadLoaded {
		return m, news.CommentDraft{}, 0, SubmitUnavailable
	}
	form, draft, outcome := m.form.Submit(validate)
	m.form = form
	return m, draft, form.Write().Generation(), outcome
}

// SucceedWrite applies a successful write for generation gen.
func (m Machine) SucceedWrite(gen uint64) (Machine, bool) {
	form, ok := m.form.Succeed(gen)
	if !ok {
		return m, false
	}
	m.form = form
	return m, true
}

// FailWrite applies a failed write for generation gen. The read side is
// never touched.
func (m Machine) FailWrite(gen uint64, info news.ErrorInfo) (Machine, bool) {
	form, ok := m.form.Fail(gen, info)
	if !ok {
		return m, false
	}
	m.form = form
	return m, true
}

// Phase is the single value that drives rendering.
func (m Machine) Phase() ReadPhase { return m.read.Phase() }

// Read returns the read-side state.
func (m Machine) Read() ReadState { return m.read }

// Form returns the form state.
func (m Machine) Form() Form { return m.form }
