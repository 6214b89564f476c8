package testlog

import (
	"sync"

	"food-dispatch/internal/logx"
)

// Entry is a log entry
type Entry struct {
	Level  string
	Msg    string
	Fields []logx.Field
}

// Field returns the value of the named field and whether it was present.
func (e Entry) Field(key string) (any, bool) {
	for _, f := range e.Fields {
		if f.Key == key {
			return f.Value, true
		}
	}
	return nil, false
}

// Recorder records log entries
type Recorder struct {
	mu      sync.Mutex
	entries []Entry
}

// New returns a new logger
func New() *Recorder { return &Recorder{} }

// Logger returns a bound logger
func (r *Recorder) Logger() logx.Logger {
	return bound{r: r}
}

// Entries returns a copy of the log entries
func (r *Recorder) Entries() []Entry {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Entry, len(r.entries))
	copy(out, r.entries)
	return out
}

// Events returns the "event" field of every entry that has one, in order.
func (r *Recorder) Events() []string {
	var out []string
	for _, e := range r.Entries() {
		if v, ok := e.Field("event"); ok {
			if s, ok := v.(string); ok {
				out = append(out, s)
			}
		}
	}
	return out
}

// ByLevel returns the entries logged at level.
func (r *Recorder) ByLevel(level string) []Entry {
	var out []Entry
	for _, e := range r.Entries() {
		if e.Level == level {
			out = append(out, e)
		}
	}
	return out
}

func (r *Recorder) add(level, msg string, base, fields []logx.Field) {
	cp := make([]logx.Field, 0, len(base)+len(fields))
	cp = append(cp, base...)
	cp = append(cp, fields...)

	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, Entry{Level: level, Msg: msg, Fields: cp})
}

type bound struct {
	r    *Recorder
	base []logx.Field
}

// Debug logs a debug message
func (b bound) Debug(msg string, f ...logx.Field) { b.r.add("debug", msg, b.base, f) }

// Info logs an info message
func (b bound) Info(msg string, f ...logx.Field) { b.r.add("info", msg, b.base, f) }

// Warn logs a warn message
func (b bound) Warn(msg string, f ...logx.Field) { b.r.add("warn", msg, b.base, f) }

// Error logs an error message
func (b bound) Error(msg string, f ...logx.Field) { b.r.add("error", msg, b.base, f) }

func (b bound) With(f ...logx.Field) logx.Logger {
	nb := bound{r: b.r, base: make([]logx.Field, 0, len(b.base)+len(f))}
	nb.base = append(nb.base, b.base...)
	nb.base = append(nb.base, f...)
	return nb
}

func (b bound) Sync() error { return nil }

var _ logx.Logger = bound{}
