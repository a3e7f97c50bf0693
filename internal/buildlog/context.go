// Package buildlog provides the scoped progress log and timer facility shared
// by every pipeline stage, generalized from recast.BuildContext.
package buildlog

import (
	"fmt"
	"sync"
	"time"
)

// Category classifies a log entry.
type Category int

const (
	Progress Category = 1 + iota
	Warning
	Error
)

func (c Category) String() string {
	switch c {
	case Progress:
		return "progress"
	case Warning:
		return "warning"
	case Error:
		return "error"
	default:
		return "unknown"
	}
}

// Entry is one recorded log line.
type Entry struct {
	Category Category
	Message  string
}

// Timer names a named accumulated-duration counter. Stages register their own
// timer labels; Context places no bound on the set.
type Timer string

// Context is the build-wide scoped logger and timer set threaded through the
// pipeline. A nil *Context is valid and behaves as if logging and timing were
// disabled, so stages can be called directly in tests without constructing one.
type Context struct {
	mu           sync.Mutex
	logEnabled   bool
	timerEnabled bool
	entries      []Entry
	start        map[Timer]time.Time
	acc          map[Timer]time.Duration
}

// New returns a Context with logging and timers enabled or disabled per state.
func New(state bool) *Context {
	return &Context{
		logEnabled:   state,
		timerEnabled: state,
		start:        make(map[Timer]time.Time),
		acc:          make(map[Timer]time.Duration),
	}
}

func (c *Context) log(cat Category, format string, v ...interface{}) {
	if c == nil || !c.logEnabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = append(c.entries, Entry{Category: cat, Message: fmt.Sprintf(format, v...)})
}

// Progressf records a progress message.
func (c *Context) Progressf(format string, v ...interface{}) { c.log(Progress, format, v...) }

// Warningf records a non-fatal diagnostic, per spec.md §7: warnings are
// diagnostic records, not errors, and never abort a stage.
func (c *Context) Warningf(format string, v ...interface{}) { c.log(Warning, format, v...) }

// Errorf records an error-level log entry. It does not itself return an
// error; callers that need to fail a stage construct an *errs.Error.
func (c *Context) Errorf(format string, v ...interface{}) { c.log(Error, format, v...) }

// Entries returns a copy of all recorded log entries in order.
func (c *Context) Entries() []Entry {
	if c == nil {
		return nil
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]Entry, len(c.entries))
	copy(out, c.entries)
	return out
}

// ResetLog discards all recorded entries.
func (c *Context) ResetLog() {
	if c == nil || !c.logEnabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = c.entries[:0]
}

// StartTimer begins (or resumes) the named scope timer.
func (c *Context) StartTimer(label Timer) {
	if c == nil || !c.timerEnabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.start[label] = time.Now()
}

// StopTimer accumulates elapsed time since the matching StartTimer call into
// the named timer's running total.
func (c *Context) StopTimer(label Timer) {
	if c == nil || !c.timerEnabled {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	t0, ok := c.start[label]
	if !ok {
		return
	}
	c.acc[label] += time.Since(t0)
	delete(c.start, label)
}

// AccumulatedTime returns the total time recorded under label, or zero if
// timers are disabled or the label was never started.
func (c *Context) AccumulatedTime(label Timer) time.Duration {
	if c == nil || !c.timerEnabled {
		return 0
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.acc[label]
}

// Scope starts label and returns a function that stops it; intended for
// `defer ctx.Scope(label)()`.
func (c *Context) Scope(label Timer) func() {
	c.StartTimer(label)
	return func() { c.StopTimer(label) }
}
