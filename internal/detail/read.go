// Package detail models the article detail screen as pure values: the read
// side (fetching one article) and the write side (submitting a comment).
// Every transition returns a new value, so the screen's behavior can be
// tested without rendering anything.
package detail

import "github.com/kingrea/newsroom/internal/news"

// ReadPhase is the read-side state of a detail screen.
type ReadPhase int

const (
	ReadIdle ReadPhase = iota
	ReadLoading
	ReadLoaded
	ReadFailed
)

func (p ReadPhase) String() string {
	switch p {
	case ReadLoading:
		return "loading"
	case ReadLoaded:
		return "loaded"
	case ReadFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ReadState is a tagged union: the article is only present when Loaded and
// the error only when Failed. Fields are unexported so no caller can build
// an inconsistent combination.
type ReadState struct {
	phase   ReadPhase
	gen     uint64
	id      news.ID
	article news.Article
	err     news.ErrorInfo
}

// Begin starts a fetch for id. The generation always advances, so any
// completion tagged with an older generation becomes stale.
func (s ReadState) Begin(id news.ID) ReadState {
	return ReadState{phase: ReadLoading, gen: s.gen + 1, id: id}
}

// Resolve stores a fetched article. It is a no-op returning false unless gen
// is the current generation and a fetch is outstanding.
func (s ReadState) Resolve(gen uint64, article news.Article) (ReadState, bool) {
	if !s.accepts(gen) {
		return s, false
	}
	return ReadState{phase: ReadLoaded, gen: s.gen, id: s.id, article: article}, true
}

// Fail records a fetch failure with the same staleness rule as Resolve.
func (s ReadState) Fail(gen uint64, info news.ErrorInfo) (ReadState, bool) {
	if !s.accepts(gen) {
		return s, false
	}
	return ReadState{phase: ReadFailed, gen: s.gen, id: s.id, err: info}, true
}

func (s ReadState) accepts(gen uint64) bool {
	return s.phase == ReadLoading && gen == s.gen
}

// Phase returns the current read phase.
func (s ReadState) Phase() ReadPhase { return s.phase }

// Generation identifies the latest fetch.
func (s ReadState) Generation() uint64 { return s.gen }

// ArticleID is the identifier of the latest fetch.
func (s ReadState) ArticleID() news.ID { return s.id }

// Article returns the fetched article when Loaded.
func (s ReadState) Article() (news.Article, bool) {
	if s.phase != ReadLoaded {
		return news.Article{}, false
	}
	return s.article, true
}

// Err returns the failure when Failed.
func (s ReadState) Err() (news.ErrorInfo, bool) {
	if s.phase != ReadFailed {
		return news.ErrorInfo{}, false
	}
	return s.err, true
}
