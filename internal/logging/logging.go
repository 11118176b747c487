// Package logging owns the process-wide logger. Human-readable output goes to
// stderr so stdout stays free for reports; when a log file is configured every
// event is also appended to it as a JSON line.
package logging

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

var (
	mu      sync.Mutex
	logFile *os.File
	logger  = newLogger([]io.Writer{consoleWriter(os.Stderr)}, zerolog.InfoLevel)
)

// Init configures the logger. An empty logPath disables file output.
func Init(logPath string, debug bool) error {
	mu.Lock()
	defer mu.Unlock()

	if logFile != nil {
		_ = logFile.Close()
		logFile = nil
	}

	writers := []io.Writer{consoleWriter(os.Stderr)}
	if logPath != "" {
		if dir := filepath.Dir(logPath); dir != "" && dir != "." {
			if err := os.MkdirAll(dir, 0o755); err != nil {
				return err
			}
		}
		file, err := os.OpenFile(logPath, os.O_CREATE|os.O_APPEND|os.O_WRONLY, 0o644)
		if err != nil {
			return err
		}
		logFile = file
		writers = append(writers, logFile)
	}

	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	logger = newLogger(writers, level)
	return nil
}

// Close flushes and detaches the log file, if any.
func Close() error {
	mu.Lock()
	defer mu.Unlock()
	logger = newLogger([]io.Writer{consoleWriter(os.Stderr)}, logger.GetLevel())
	if logFile == nil {
		return nil
	}
	err := logFile.Close()
	logFile = nil
	return err
}

// L returns a copy of the current logger for callers that want structured fields.
func L() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()
	return logger
}

func LogEvent(format string, args ...any) {
	l := L()
	l.Info().Msg(fmt.Sprintf(format, args...))
}

func LogDebug(format string, args ...any) {
	l := L()
	l.Debug().Msg(fmt.Sprintf(format, args...))
}

func LogWarn(format string, args ...any) {
	l := L()
	l.Warn().Msg(fmt.Sprintf(format, args...))
}

// LogRequest records a payload crossing the classifier boundary at debug level.
func LogRequest(direction, backend, classifier, op string, payload any) {
	l := L()
	evt := l.Debug().
		Str("direction", normalizeDirection(direction)).
		Str("backend", valueOrUnknown(backend)).
		Str("classifier", valueOrUnknown(classifier))
	if op = strings.TrimSpace(op); op != "" {
		evt = evt.Str("op", op)
	}
	evt.Str("payload", formatPayload(payload)).Msg("classifier exchange")
}

func newLogger(writers []io.Writer, level zerolog.Level) zerolog.Logger {
	return zerolog.New(zerolog.MultiLevelWriter(writers...)).
		Level(level).
		With().
		Timestamp().
		Logger()
}

func consoleWriter(out io.Writer) zerolog.ConsoleWriter {
	return zerolog.ConsoleWriter{Out: out, TimeFormat: time.TimeOnly}
}

func normalizeDirection(direction string) string {
	return strings.ToUpper(strings.TrimSpace(direction))
}

func valueOrUnknown(value string) string {
	if v := strings.TrimSpace(value); v != "" {
		return v
	}
	return "unknown"
}

func formatPayload(payload any) string {
	switch v := payload.(type) {
	case nil:
		return "null"
	case string:
		if strings.TrimSpace(v) == "" {
			return `""`
		}
		return v
	case []byte:
		if len(v) == 0 {
			return "[]"
		}
		return string(v)
	case fmt.Stringer:
		return v.String()
	default:
		data, err := json.Marshal(v)
		if err != nil {
			return fmt.Sprintf("%v", v)
		}
		return string(data)
	}
}
