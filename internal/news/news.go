// Package news holds the records the newsroom client reads from and writes to
// the remote articles API.
package news

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"
	"time"
)

// DefaultDateLayout is used when no date format is configured.
const DefaultDateLayout = "02 Jan 2006"

// ID is an opaque record identifier. The API emits numeric ids; the client
// treats them as strings so routes can carry them verbatim.
type ID string

// UnmarshalJSON accepts both JSON strings and JSON numbers.
func (id *ID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if len(data) > 0 && data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("news: decode id: %w", err)
		}
		*id = ID(strings.TrimSpace(s))
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("news: decode id: %w", err)
	}
	*id = ID(n.String())
	return nil
}

// String returns the identifier as a route parameter.
func (id ID) String() string { return string(id) }

// Article is a server-owned content record. It is never mutated after a fetch.
type Article struct {
	ID           ID        `json:"article_id"`
	Title        string    `json:"title"`
	Author       string    `json:"author"`
	CreatedAt    time.Time `json:"created_at"`
	Topic        string    `json:"topic"`
	Body         string    `json:"body"`
	CommentCount int       `json:"comment_count"`
	Votes        int       `json:"votes"`
}

// Comment is a persisted comment attached to an article.
type Comment struct {
	ID        ID        `json:"comment_id"`
	ArticleID ID        `json:"article_id"`
	Author    string    `json:"author"`
	Body      string    `json:"body"`
	CreatedAt time.Time `json:"created_at"`
	Votes     int       `json:"votes"`
}

// FormatDate renders a creation timestamp for display. The zero time renders
// as an empty string.
func FormatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	if strings.TrimSpace(layout) == "" {
		layout = DefaultDateLayout
	}
	return t.Local().Format(layout)
}
