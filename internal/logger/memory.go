package logger

import "sync"

// Entry is one recorded log call.
type Entry struct {
	Level   string
	Message string
	KeyVals []any
}

// Memory records log calls in order. Used by tests that assert on logged
// context.
type Memory struct {
	mu      sync.Mutex
	entries []Entry
}

func (m *Memory) record(level, message string, keyvals []any) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.entries = append(m.entries, Entry{Level: level, Message: message, KeyVals: append([]any(nil), keyvals...)})
}

func (m *Memory) Debug(message string, keyvals ...any) { m.record("debug", message, keyvals) }
func (m *Memory) Info(message string, keyvals ...any)  { m.record("info", message, keyvals) }
func (m *Memory) Warn(message string, keyvals ...any)  { m.record("warn", message, keyvals) }
func (m *Memory) Error(message string, keyvals ...any) { m.record("error", message, keyvals) }

// Entries returns a copy of everything recorded so far.
func (m *Memory) Entries() []Entry {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]Entry(nil), m.entries...)
}

// Count returns how many entries were recorded at level.
func (m *Memory) Count(level string) int {
	n := 0
	for _, e := range m.Entries() {
		if e.Level == level {
			n++
		}
	}
	return n
}
