// Package logging provides the process-wide structured logger.
//
// A single *Logger is built at startup by the CLI and passed to every
// component constructor. Components derive their own child with Component.
package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rescale/twitch-live-opener/internal/constants"
)

// Options configures NewLogger.
type Options struct {
	// FilePath is the rotating log file (empty = no file logging)
	FilePath string

	// Console receives human-readable output (nil = no console output)
	Console io.Writer

	// ConsoleNoColor disables ANSI colors, e.g. when Console is not a terminal
	ConsoleNoColor bool

	// MaxSizeMB is the rotation threshold (0 = constants.LogMaxSizeMB)
	MaxSizeMB int

	// MaxBackups is the number of rotated files kept (0 = constants.LogMaxBackups)
	MaxBackups int
}

// Logger wraps zerolog with the sinks it owns.
type Logger struct {
	zlog   zerolog.Logger
	writer *LogWriter
}

// NewLogger creates a logger that writes to the configured sinks.
func NewLogger(opts Options) (*Logger, error) {
	writer, err := NewLogWriter(LogWriterConfig{
		LogFile:    opts.FilePath,
		Console:    opts.Console,
		NoColor:    opts.ConsoleNoColor,
		MaxSizeMB:  opts.MaxSizeMB,
		MaxBackups: opts.MaxBackups,
	})
	if err != nil {
		return nil, err
	}

	logger := zerolog.New(writer).
		With().
		Timestamp().
		Logger()

	return &Logger{
		zlog:   logger,
		writer: writer,
	}, nil
}

// Nop returns a logger that discards everything. Used by tests.
func Nop() *Logger {
	return &Logger{zlog: zerolog.Nop()}
}

// Component returns a child logger tagged with the given component name.
// The name is printed before the message in file output.
func (l *Logger) Component(name string) *Logger {
	return &Logger{
		zlog:   l.zlog.With().Str(componentField, name).Logger(),
		writer: l.writer,
	}
}

// Info returns an info level event.
func (l *Logger) Info() *zerolog.Event {
	return l.zlog.Info()
}

// Error returns an error level event.
func (l *Logger) Error() *zerolog.Event {
	return l.zlog.Error()
}

// Debug returns a debug level event.
func (l *Logger) Debug() *zerolog.Event {
	return l.zlog.Debug()
}

// Warn returns a warn level event.
func (l *Logger) Warn() *zerolog.Event {
	return l.zlog.Warn()
}

// FilePath returns the active log file, or "" if file logging is off.
func (l *Logger) FilePath() string {
	if l.writer == nil {
		return ""
	}
	return l.writer.FilePath()
}

// Close flushes and closes the log file. Safe to call on any logger,
// including children; the shared sink is closed once.
func (l *Logger) Close() error {
	if l.writer == nil {
		return nil
	}
	return l.writer.Close()
}

// SetGlobalLevel sets the global log level.
func SetGlobalLevel(level zerolog.Level) {
	zerolog.SetGlobalLevel(level)
}

// SetVerbose switches between info and debug level.
func SetVerbose(verbose bool) {
	if verbose {
		SetGlobalLevel(zerolog.DebugLevel)
		return
	}
	SetGlobalLevel(zerolog.InfoLevel)
}

func init() {
	// Set default log level to info
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	// Configure global logger for code paths that run before NewLogger
	log.Logger = log.Output(zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: constants.ConsoleTimeFormat,
	})
}
