package quartzcron

import (
	"fmt"
	"io"
	"log"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// DefaultLogger is used by Cron if none is specified. It logs errors only.
var DefaultLogger = PrintfLogger(log.New(os.Stdout, "quartzcron: ", log.LstdFlags))

// DiscardLogger can be used by callers to discard all log messages.
var DiscardLogger = PrintfLogger(log.New(io.Discard, "", 0))

// Logger is the interface used by the runner, so that any backend can be
// plugged in. It is a subset of the github.com/go-logr/logr interface.
type Logger interface {
	// Info logs routine messages about the runner's operation.
	Info(msg string, keysAndValues ...interface{})
	// Error logs an error condition.
	Error(err error, msg string, keysAndValues ...interface{})
}

// PrintfLogger wraps a Printf-based logger (such as the standard library "log")
// into a Logger that logs errors only.
func PrintfLogger(l interface{ Printf(string, ...interface{}) }) Logger {
	return printfLogger{l, false}
}

// VerbosePrintfLogger is like PrintfLogger but also logs Info messages.
func VerbosePrintfLogger(l interface{ Printf(string, ...interface{}) }) Logger {
	return printfLogger{l, true}
}

type printfLogger struct {
	logger  interface{ Printf(string, ...interface{}) }
	logInfo bool
}

func (pl printfLogger) Info(msg string, keysAndValues ...interface{}) {
	if pl.logInfo {
		keysAndValues = formatTimes(keysAndValues)
		pl.logger.Printf(
			formatString(len(keysAndValues)),
			append([]interface{}{msg}, keysAndValues...)...)
	}
}

func (pl printfLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	keysAndValues = formatTimes(keysAndValues)
	pl.logger.Printf(
		formatString(len(keysAndValues)+2),
		append([]interface{}{msg, "error", err}, keysAndValues...)...)
}

// formatString returns a logfmt-like format string for the number of
// key/values.
func formatString(numKeysAndValues int) string {
	var sb strings.Builder
	sb.WriteString("%s")
	for i := 0; i < numKeysAndValues/2; i++ {
		if i == 0 {
			sb.WriteString(", ")
		} else {
			sb.WriteString(" ")
		}
		sb.WriteString("%v=%v")
	}
	return sb.String()
}

// formatTimes renders time.Time values as RFC3339, and zero times as "never".
func formatTimes(keysAndValues []interface{}) []interface{} {
	out := make([]interface{}, 0, len(keysAndValues))
	for _, arg := range keysAndValues {
		if t, ok := arg.(time.Time); ok {
			if t.IsZero() {
				arg = "never"
			} else {
				arg = t.Format(time.RFC3339)
			}
		}
		out = append(out, arg)
	}
	return out
}

// SlogLogger adapts log/slog to the Logger interface.
type SlogLogger struct {
	logger *slog.Logger
}

// NewSlogLogger creates a Logger that writes to l, or slog.Default() if l
// is nil.
func NewSlogLogger(l *slog.Logger) *SlogLogger {
	if l == nil {
		l = slog.Default()
	}
	return &SlogLogger{logger: l}
}

func (s *SlogLogger) Info(msg string, keysAndValues ...interface{}) {
	s.logger.Info(msg, keysAndValues...)
}

func (s *SlogLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	s.logger.Error(msg, append([]interface{}{"error", err}, keysAndValues...)...)
}

// ZerologLogger adapts a zerolog.Logger to the Logger interface. Info
// messages are written at debug level, so that a logger at info level only
// shows errors, like PrintfLogger.
type ZerologLogger struct {
	logger zerolog.Logger
}

// NewZerologLogger creates a Logger that writes to l.
func NewZerologLogger(l zerolog.Logger) *ZerologLogger {
	return &ZerologLogger{logger: l}
}

func (z *ZerologLogger) Info(msg string, keysAndValues ...interface{}) {
	withFields(z.logger.Debug(), keysAndValues).Msg(msg)
}

func (z *ZerologLogger) Error(err error, msg string, keysAndValues ...interface{}) {
	withFields(z.logger.Error().Err(err), keysAndValues).Msg(msg)
}

func withFields(ev *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			key = fmt.Sprint(keysAndValues[i])
		}
		ev = ev.Interface(key, keysAndValues[i+1])
	}
	return ev
}
