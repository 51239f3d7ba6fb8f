package logger

// Logger is the logging surface handed to every component. Backends live in
// subpackages so the core never imports a concrete logging library.
type Logger interface {
	Debug(message string, keyvals ...any)
	Info(message string, keyvals ...any)
	Warn(message string, keyvals ...any)
	Error(message string, keyvals ...any)
}

// Nop discards everything. Tests and library callers that do not care about
// logs use it.
type Nop struct{}

func (Nop) Debug(string, ...any) {}
func (Nop) Info(string, ...any)  {}
func (Nop) Warn(string, ...any)  {}
func (Nop) Error(string, ...any) {}

// With returns l, or Nop when l is nil.
func With(l Logger) Logger {
	if l == nil {
		return Nop{}
	}
	return l
}

// Multi fans a call out to several backends.
type Multi []Logger

func (m Multi) Debug(message string, keyvals ...any) {
	for _, instance := range m {
		instance.Debug(message, keyvals...)
	}
}

func (m Multi) Info(message string, keyvals ...any) {
	for _, instance := range m {
		instance.Info(message, keyvals...)
	}
}

func (m Multi) Warn(message string, keyvals ...any) {
	for _, instance := range m {
		instance.Warn(message, keyvals...)
	}
}

func (m Multi) Error(message string, keyvals ...any) {
	for _, instance := range m {
		instance.Error(message, keyvals...)
	}
}
