package merge

import "log"

// Logger is a minimal leveled logging interface used throughout the merge
// package. It matches the sugared zap loggers handed in by the CLI.
type Logger interface {
	Infof(string, ...any)
	Warnf(string, ...any)
	Errorf(string, ...any)
}

type stdLogger struct {
	l *log.Logger
}

func (s stdLogger) Infof(format string, args ...any)  { s.l.Printf("INFO "+format, args...) }
func (s stdLogger) Warnf(format string, args ...any)  { s.l.Printf("WARN "+format, args...) }
func (s stdLogger) Errorf(format string, args ...any) { s.l.Printf("ERROR "+format, args...) }

var logSink Logger = stdLogger{l: log.Default()}

// SetLogger allows callers/tests to inject a custom logger (or noop) instead of
// the default stdlib logger. Passing nil resets to the default.
func SetLogger(l Logger) {
	if l == nil {
		logSink = stdLogger{l: log.Default()}
		return
	}
	logSink = l
}
