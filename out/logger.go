package out

import (
	"fmt"
	"io"
	"log"
)

// Logger writes leveled messages to a standard logger.
// Debug messages are dropped unless the logger was created in debug mode.
type Logger struct {
	*log.Logger
	debug bool
}

func NewLogger(w io.Writer, debug bool) *Logger {
	return &Logger{
		Logger: log.New(w, "", log.Ldate|log.Ltime|log.Lshortfile),
		debug:  debug,
	}
}

// Discard returns a logger that writes nowhere, useful in tests.
func Discard() *Logger {
	return NewLogger(io.Discard, false)
}

func (l *Logger) Debugf(format string, args ...interface{}) {
	if l.debug {
		l.Output(2, fmt.Sprintf("[debug] "+format, args...))
	}
}

func (l *Logger) Infof(format string, args ...interface{}) {
	l.Output(2, fmt.Sprintf("[info] "+format, args...))
}

func (l *Logger) Errorf(format string, args ...interface{}) {
	l.Output(2, fmt.Sprintf("[error] "+format, args...))
}
