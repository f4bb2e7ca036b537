package detail

import "github.com/kingrea/newsroom/internal/news"

// WritePhase is the write-side state of the comment form.
type WritePhase int

const (
	WriteIdle WritePhase = iota
	WriteSubmitting
	WriteConfirmed
	WriteFailed
)

func (p WritePhase) String() string {
	switch p {
	case WriteSubmitting:
		return "submitting"
	case WriteConfirmed:
		return "confirmed"
	case WriteFailed:
		return "failed"
	default:
		return "idle"
	}
}

// WriteState tracks one comment submission cycle. confirmed is sticky: a
// later failed submission leaves it set, and only Reset clears it.
type WriteState struct {
	phase     WritePhase
	gen       uint64
	err       news.ErrorInfo
	confirmed bool
}

// Submit enters Submitting. It refuses (ok=false) while a submission is
// already in flight.
func (s WriteState) Submit() (WriteState, bool) {
	if s.phase == WriteSubmitting {
		return s, false
	}
	return WriteState{phase: WriteSubmitting, gen: s.gen + 1, confirmed: s.confirmed}, true
}

// Succeed applies a successful write for generation gen.
func (s WriteState) Succeed(gen uint64) (WriteState, bool) {
	if !s.accepts(gen) {
		return s, false
	}
	return WriteState{phase: WriteConfirmed, gen: s.gen, confirmed: true}, true
}

// Fail applies a failed write for generation gen.
func (s WriteState) Fail(gen uint64, info news.ErrorInfo) (WriteState, bool) {
	if !s.accepts(gen) {
		return s, false
	}
	return WriteState{phase: WriteFailed, gen: s.gen, err: info, confirmed: s.confirmed}, true
}

// Reset returns to Idle and invalidates any outstanding submission.
func (s WriteState) Reset() WriteState {
	return WriteState{gen: s.gen + 1}
}

func (s WriteState) accepts(gen uint64) bool {
	return s.phase == WriteSubmitting && gen == s.gen
}

// Phase returns the current write phase.
func (s WriteState) Phase() WritePhase { return s.phase }

// Generation identifies the latest submission.
func (s WriteState) Generation() uint64 { return s.gen }

// Submitting reports whether a write is in flight.
func (s WriteState) Submitting() bool { return s.phase == WriteSubmitting }

// Confirmed reports whether a submission has succeeded since the last Reset.
func (s WriteState) Confirmed() bool { return s.confirmed }

// Err returns the latest write failure when WriteFailed.
func (s WriteState) Err() (news.ErrorInfo, bool) {
	if s.phase != WriteFailed {
		return news.ErrorInfo{}, false
	}
	return s.err, true
}
