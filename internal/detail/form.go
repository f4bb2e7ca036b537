package detail

import (
	"errors"
	"strings"

	"github.com/kingrea/newsroom/internal/news"
)

// Field names an editable form field.
type Field int

const (
	FieldAuthor Field = iota
	FieldBody
)

// SubmitOutcome tells the caller what a submit request did.
type SubmitOutcome int

const (
	// SubmitDispatched means the caller must issue the write.
	SubmitDispatched SubmitOutcome = iota
	// SubmitBusy means a write is already in flight.
	SubmitBusy
	// SubmitInvalid means explicit validation rejected the draft.
	SubmitInvalid
	// SubmitUnavailable means no article is loaded, so there is no form.
	SubmitUnavailable
)

func (o SubmitOutcome) String() string {
	switch o {
	case SubmitDispatched:
		return "dispatched"
	case SubmitBusy:
		return "busy"
	case SubmitInvalid:
		return "invalid"
	default:
		return "unavailable"
	}
}

// Form is the comment draft together with its write state.
type Form struct {
	draft  news.CommentDraft
	write  WriteState
	notice string
}

// NewForm starts an empty form for an article.
func NewForm(articleID news.ID) Form {
	return Form{draft: news.NewDraft(articleID)}
}

// Edit updates one draft field. Edits never trigger network work.
func (f Form) Edit(field Field, value string) Form {
	switch field {
	case FieldAuthor:
		f.draft = f.draft.WithAuthor(value)
	case FieldBody:
		f.draft = f.draft.WithBody(value)
	}
	f.notice = ""
	return f
}

// Submit starts a submission cycle and returns the draft snapshot to send.
// With validate set, an incomplete draft produces one inline notice instead
// of a request.
func (f Form) Submit(validate bool) (Form, news.CommentDraft, SubmitOutcome) {
	if f.write.Submitting() {
		return f, news.CommentDraft{}, SubmitBusy
	}
	if validate {
		if err := f.draft.Validate(); err != nil {
			var verr *news.ValidationError
			if errors.As(err, &verr) {
				f.notice = "Please fill in: " + strings.Join(verr.Fields, ", ")
			} else {
				f.notice = err.Error()
			}
			return f, news.CommentDraft{}, SubmitInvalid
		}
	}
	write, ok := f.write.Submit()
	if !ok {
		return f, news.CommentDraft{}, SubmitBusy
	}
	f.write = write
	f.notice = ""
	return f, f.draft, SubmitDispatched
}

// Succeed confirms the submission and begins a fresh empty draft.
func (f Form) Succeed(gen uint64) (Form, bool) {
	write, ok := f.write.Succeed(gen)
	if !ok {
		return f, false
	}
	return Form{draft: news.NewDraft(f.draft.ArticleID), write: write}, true
}

// Fail records the write failure and keeps the draft for a retry.
func (f Form) Fail(gen uint64, info news.ErrorInfo) (Form, bool) {
	write, ok := f.write.Fail(gen, info)
	if !ok {
		return f, false
	}
	f.write = write
	return f, true
}

// Reset discards the draft and the write state for a new article.
func (f Form) Reset(articleID news.ID) Form {
	return Form{draft: news.NewDraft(articleID), write: f.write.Reset()}
}

// Draft returns the in-progress draft.
func (f Form) Draft() news.CommentDraft { return f.draft }

// Write returns the write-side state.
func (f Form) Write() WriteState { return f.write }

// Notice is the inline validation message, if any.
func (f Form) Notice() string { return f.notice }
