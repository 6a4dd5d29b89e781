// Package logger holds the process-wide zerolog logger.
//
// Call Init once from the command entrypoint, then Get wherever a logger is
// needed. Levels, lowest first:
//
//	trace → debug → info → warn → error → disabled
package logger

import (
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
)

// Options controls how Init builds the logger.
type Options struct {
	// Level is one of trace, debug, info, warn, error or disabled.
	// Anything else means info.
	Level string
	// Pretty switches to the coloured console writer. Leave it off outside
	// development so logs stay JSON.
	Pretty bool
	// Service is attached to every event as the "service" field when set.
	Service string
	// Output defaults to os.Stdout.
	Output io.Writer
}

var (
	mu       sync.Mutex
	instance *zerolog.Logger
)

// Init builds the logger on first call and returns it. Later calls return the
// existing logger unchanged.
func Init(opts Options) zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance != nil {
		return *instance
	}

	zerolog.TimeFieldFormat = time.RFC3339Nano
	zerolog.DurationFieldUnit = time.Millisecond

	out := opts.Output
	if out == nil {
		out = os.Stdout
	}
	if opts.Pretty {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	lvl := parseLevel(opts.Level)
	zerolog.SetGlobalLevel(lvl)

	ctx := zerolog.New(out).Level(lvl).With().Timestamp()
	if opts.Service != "" {
		ctx = ctx.Str("service", opts.Service)
	}
	l := ctx.Logger()
	instance = &l
	return l
}

// Get returns the logger built by Init. Panics if Init has not run.
func Get() zerolog.Logger {
	mu.Lock()
	defer mu.Unlock()

	if instance == nil {
		panic("logger: Get() called before Init()")
	}
	return *instance
}

// Reset drops the logger so the next Init builds a new one. Tests only.
func Reset() {
	mu.Lock()
	defer mu.Unlock()

	instance = nil
	zerolog.SetGlobalLevel(zerolog.TraceLevel)
}

func parseLevel(s string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	case "disabled", "off":
		return zerolog.Disabled
	default:
		return zerolog.InfoLevel
	}
}
