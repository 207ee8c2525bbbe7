package interfaces

import "context"

// Logger is the leveled logging contract used across mdtree. It matches the
// method set of github.com/goliatone/go-logger so hosts can pass that logger
// straight through.
type Logger interface {
	Trace(msg string, args ...any)
	Debug(msg string, args ...any)
	Info(msg string, args ...any)
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
	Fatal(msg string, args ...any)
	WithContext(ctx context.Context) Logger
}

// LoggerProvider hands out named loggers, one per mdtree module.
type LoggerProvider interface {
	GetLogger(name string) Logger
}

// FieldsLogger is implemented by loggers that can carry structured fields on
// every entry.
type FieldsLogger interface {
	WithFields(fields map[string]any) Logger
}
