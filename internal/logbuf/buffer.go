// Package logbuf keeps a bounded in-memory tail of captured output lines
// for display surfaces such as the dashboard.
package logbuf

import (
	"fmt"
	"sync"
	"time"
)

// Line is one captured output line with its origin.
type Line struct {
	Service string
	Stream  string
	Text    string
	At      time.Time
}

// String renders the line the way the dashboard shows it.
func (l Line) String() string {
	return fmt.Sprintf("%s [%s/%s] %s", l.At.Format("15:04:05"), l.Service, l.Stream, l.Text)
}

// Buffer is a fixed-capacity ring of output lines. When full, the oldest
// line is dropped. Safe for concurrent use.
type Buffer struct {
	mu    sync.Mutex
	lines []Line
	head  int
	count int
}

// New returns a buffer holding at most capacity lines. A non-positive
// capacity falls back to 1000.
func New(capacity int) *Buffer {
	if capacity <= 0 {
		capacity = 1000
	}
	return &Buffer{lines: make([]Line, capacity)}
}

// Append records one line, evicting the oldest when at capacity.
func (b *Buffer) Append(l Line) {
	if l.At.IsZero() {
		l.At = time.Now()
	}
	b.mu.Lock()
	b.lines[(b.head+b.count)%len(b.lines)] = l
	if b.count < len(b.lines) {
		b.count++
	} else {
		b.head = (b.head + 1) % len(b.lines)
	}
	b.mu.Unlock()
}

// Snapshot returns the buffered lines, oldest first.
func (b *Buffer) Snapshot() []Line {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]Line, b.count)
	for i := 0; i < b.count; i++ {
		out[i] = b.lines[(b.head+i)%len(b.lines)]
	}
	return out
}

// Len reports the number of buffered lines.
func (b *Buffer) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.count
}
