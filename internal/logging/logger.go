// Package logging wraps zerolog with the small surface the CLI needs:
// a debug-gated stderr logger and a Secret type that redacts itself.
package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
)

// Logger is a thin wrapper around zerolog.Logger. Embedding exposes the
// full zerolog API while leaving room for helpers.
type Logger struct {
	zerolog.Logger
}

// New builds a stderr console logger. Debug-level events are emitted only
// when debug is set; colors honor noColor.
func New(debug, noColor bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}

	writer := zerolog.ConsoleWriter{
		Out:     os.Stderr,
		NoColor: noColor,
	}

	logger := zerolog.New(writer).Level(level).With().Timestamp().Logger()
	return &Logger{logger}
}

// NewWriter builds a logger against an arbitrary writer. Used by tests to
// capture output.
func NewWriter(w io.Writer, debug bool) *Logger {
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return &Logger{zerolog.New(w).Level(level)}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zerolog.Nop()}
}

// Secret is a string that should never appear in output. It redacts itself
// under every format verb, so accidentally logging one is harmless.
type Secret string

// String implements fmt.Stringer, always returning a redacted value.
func (s Secret) String() string {
	return "[REDACTED]"
}

// GoString implements fmt.GoStringer for %#v formatting.
func (s Secret) GoString() string {
	return "[REDACTED]"
}

// MarshalJSON keeps secrets out of JSON output too.
func (s Secret) MarshalJSON() ([]byte, error) {
	return []byte(`"[REDACTED]"`), nil
}

// Redact replaces occurrences of the given secret values in s.
func Redact(s string, secrets []string) string {
	result := s
	for _, secret := range secrets {
		// Only redact non-trivial values; short fragments would mangle
		// unrelated text.
		if len(secret) > 3 {
			result = strings.ReplaceAll(result, secret, "[REDACTED]")
		}
	}
	return result
}
