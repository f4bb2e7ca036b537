package logbook

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"
)

// Level represents the severity of a log entry.
type Level string

const (
	LevelInfo  Level = "INFO"
	LevelWarn  Level = "WARN"
	LevelError Level = "ERROR"
)

// DefaultCapacity is how many entries stay in memory for the status panel.
const DefaultCapacity = 64

// Entry is a single logbook line.
type Entry struct {
	Time    time.Time
	Level   Level
	Message string
}

// String renders the entry the way it is written to disk.
func (e Entry) String() string {
	return fmt.Sprintf("%s %-5s %s", e.Time.UTC().Format(time.RFC3339), string(e.Level), e.Message)
}

// Logbook records navigation and submission events. Entries are appended to
// a text file and the most recent ones are kept in memory so the TUI can
// show them without re-reading the file on every render.
type Logbook struct {
	path  string
	clock func() time.Time

	mu      sync.Mutex
	recent  []Entry
	next    int
	total   int
	writeOK bool
}

// New creates a logbook that writes to the provided path. An empty path keeps
// entries in memory only.
func New(path string) (*Logbook, error) {
	lb := &Logbook{
		path:   path,
		clock:  time.Now,
		recent: make([]Entry, 0, DefaultCapacity),
	}
	if path == "" {
		return lb, nil
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, err
	}
	lb.writeOK = true
	return lb, nil
}

// Path returns the file backing this logbook.
func (l *Logbook) Path() string {
	if l == nil {
		return ""
	}
	return l.path
}

// Append records a single entry.
func (l *Logbook) Append(level Level, message string) {
	if l == nil {
		return
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	entry := Entry{Time: l.clock(), Level: level, Message: strings.TrimSpace(message)}
	if len(l.recent) < DefaultCapacity {
		l.recent = append(l.recent, entry)
	} else {
		l.recent[l.next] = entry
	}
	l.next = (l.next + 1) % DefaultCapacity
	l.total++
	if !l.writeOK {
		return
	}
	file, err := os.OpenFile(l.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return
	}
	defer file.Close()
	_, _ = file.WriteString(entry.String() + "\n")
}

// Tail returns up to maxLines of the most recent entries, oldest first, and
// the number of entries recorded since the logbook was opened.
func (l *Logbook) Tail(maxLines int) ([]string, int) {
	if l == nil || maxLines <= 0 {
		return nil, 0
	}
	l.mu.Lock()
	defer l.mu.Unlock()
	ordered := l.ordered()
	if len(ordered) > maxLines {
		ordered = ordered[len(ordered)-maxLines:]
	}
	lines := make([]string, len(ordered))
	for i, e := range ordered {
		lines[i] = e.String()
	}
	return lines, l.total
}

func (l *Logbook) ordered() []Entry {
	if len(l.recent) < DefaultCapacity {
		return append([]Entry(nil), l.recent...)
	}
	out := make([]Entry, 0, DefaultCapacity)
	out = append(out, l.recent[l.next:]...)
	return append(out, l.recent[:l.next]...)
}

// Info appends an informational entry.
func (l *Logbook) Info(format string, args ...any) {
	l.Append(LevelInfo, fmt.Sprintf(format, args...))
}

// Warn appends a warning entry.
func (l *Logbook) Warn(format string, args ...any) {
	l.Append(LevelWarn, fmt.Sprintf(format, args...))
}

// Error appends an error entry.
func (l *Logbook) Error(format string, args ...any) {
	l.Append(LevelError, fmt.Sprintf(format, args...))
}
