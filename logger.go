package replycache

// Fields is a minimal structured field map for logs.
type Fields map[string]any

// Logger is a tiny leveled logger. Provide an adapter around logging stack.
// If Logger is nil in Options, logging is disabled.
type Logger interface {
	Debug(msg string, f Fields)
	Info(msg string, f Fields)
	Warn(msg string, f Fields)
	Error(msg string, f Fields)
}

type NopLogger struct{}

func (NopLogger) Debug(string, Fields) {}
func (NopLogger) Info(string, Fields)  {}
func (NopLogger) Warn(string, Fields)  {}
func (NopLogger) Error(string, Fields) {}

// SafeLogger wraps l so that a panicking logger never takes down the caller.
// A nil l yields NopLogger.
func SafeLogger(l Logger) Logger {
	switch l.(type) {
	case nil:
		return NopLogger{}
	case NopLogger, safeLogger:
		return l
	}
	return safeLogger{inner: l}
}

type safeLogger struct{ inner Logger }

func (s safeLogger) Debug(msg string, f Fields) {
	defer swallow()
	s.inner.Debug(msg, f)
}

func (s safeLogger) Info(msg string, f Fields) {
	defer swallow()
	s.inner.Info(msg, f)
}

func (s safeLogger) Warn(msg string, f Fields) {
	defer swallow()
	s.inner.Warn(msg, f)
}

func (s safeLogger) Error(msg string, f Fields) {
	defer swallow()
	s.inner.Error(msg, f)
}

func swallow() { _ = recover() }
