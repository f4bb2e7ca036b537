package news

import (
	"fmt"
	"strings"
)

// CommentDraft is comment data the visitor has not submitted yet. ArticleID
// comes from the current route and is never edited by the visitor.
type CommentDraft struct {
	Author    string
	Body      string
	ArticleID ID
}

// NewDraft starts an empty draft bound to an article.
func NewDraft(articleID ID) CommentDraft {
	return CommentDraft{ArticleID: articleID}
}

// WithAuthor returns a copy of the draft with the author replaced.
func (d CommentDraft) WithAuthor(author string) CommentDraft {
	d.Author = author
	return d
}

// WithBody returns a copy of the draft with the body replaced.
func (d CommentDraft) WithBody(body string) CommentDraft {
	d.Body = body
	return d
}

// IsEmpty reports whether neither field has been filled in.
func (d CommentDraft) IsEmpty() bool {
	return strings.TrimSpace(d.Author) == "" && strings.TrimSpace(d.Body) == ""
}

// CommentPayload is the request body the API expects for a new comment.
type CommentPayload struct {
	Username string `json:"username"`
	Body     string `json:"body"`
}

// Payload converts the draft to its wire shape.
func (d CommentDraft) Payload() CommentPayload {
	return CommentPayload{
		Username: strings.TrimSpace(d.Author),
		Body:     d.Body,
	}
}

// Validate checks the required fields. Whitespace-only values count as empty.
func (d CommentDraft) Validate() error {
	var missing []string
	if strings.TrimSpace(d.Author) == "" {
		missing = append(missing, "author")
	}
	if strings.TrimSpace(d.Body) == "" {
		missing = append(missing, "comment")
	}
	if len(missing) == 0 {
		return nil
	}
	return &ValidationError{Fields: missing}
}

// ValidationError lists required draft fields that are empty.
type ValidationError struct {
	Fields []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("required: %s", strings.Join(e.Fields, ", "))
}
