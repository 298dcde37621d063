package logging

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/rescale/twitch-live-opener/internal/constants"
)

const componentField = "component"

// LogWriter is the sink behind every Logger. It sends each zerolog event to:
// 1. Console (zerolog.ConsoleWriter, if configured)
// 2. File (plain text, rotated by lumberjack, if configured)
//
// Each event becomes exactly one Write on the file, under mu, so lines from
// the tray goroutine and the watcher never interleave.
type LogWriter struct {
	mu      sync.Mutex
	console io.Writer
	file    *lumberjack.Logger
	closed  bool
}

// LogWriterConfig configures the log writer.
type LogWriterConfig struct {
	// LogFile is the path to write logs (empty = no file logging)
	LogFile string

	// Console is where human-readable output goes (nil = none)
	Console io.Writer

	// NoColor disables ANSI colors on the console
	NoColor bool

	// MaxSizeMB is the rotation threshold in megabytes
	MaxSizeMB int

	// MaxBackups is the number of rotated files to keep
	MaxBackups int
}

// NewLogWriter creates the writer and makes sure the log directory exists.
func NewLogWriter(cfg LogWriterConfig) (*LogWriter, error) {
	w := &LogWriter{}

	if cfg.Console != nil {
		w.console = zerolog.ConsoleWriter{
			Out:        cfg.Console,
			TimeFormat: constants.ConsoleTimeFormat,
			NoColor:    cfg.NoColor,
		}
	}

	if cfg.LogFile != "" {
		if err := os.MkdirAll(filepath.Dir(cfg.LogFile), 0700); err != nil {
			return nil, fmt.Errorf("failed to create log directory: %w", err)
		}

		maxSize := cfg.MaxSizeMB
		if maxSize <= 0 {
			maxSize = constants.LogMaxSizeMB
		}
		maxBackups := cfg.MaxBackups
		if maxBackups <= 0 {
			maxBackups = constants.LogMaxBackups
		}

		w.file = &lumberjack.Logger{
			Filename:   cfg.LogFile,
			MaxSize:    maxSize, // MB
			MaxBackups: maxBackups,
			LocalTime:  true,
		}
	}

	return w, nil
}

// Write implements io.Writer for zerolog.
// p is one JSON-encoded event.
func (w *LogWriter) Write(p []byte) (n int, err error) {
	n = len(p)

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.console != nil {
		w.console.Write(p)
	}

	if w.file != nil && !w.closed {
		if _, err := w.file.Write(formatLine(p, time.Now())); err != nil {
			return n, err
		}
	}

	return n, nil
}

// FilePath returns the active log file path.
func (w *LogWriter) FilePath() string {
	if w.file == nil {
		return ""
	}
	return w.file.Filename
}

// Close closes the file logger if open. Later writes only reach the console.
func (w *LogWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil || w.closed {
		return nil
	}
	w.closed = true
	return w.file.Close()
}

// formatLine renders a zerolog JSON event as
//
//	2006-01-02 15:04:05 [LEVEL] component: message key=value ...
func formatLine(p []byte, now time.Time) []byte {
	var fields map[string]interface{}
	dec := json.NewDecoder(bytes.NewReader(p))
	dec.UseNumber()
	if err := dec.Decode(&fields); err != nil {
		// Not JSON: keep the raw text on a single line
		raw := strings.TrimRight(string(p), "\n")
		return []byte(now.Format(constants.LogTimeFormat) + " [INFO] " + raw + "\n")
	}

	level := strings.ToUpper(stringField(fields, zerolog.LevelFieldName))
	if level == "" {
		level = "INFO"
	}
	component := stringField(fields, componentField)
	msg := stringField(fields, zerolog.MessageFieldName)

	delete(fields, zerolog.LevelFieldName)
	delete(fields, zerolog.TimestampFieldName)
	delete(fields, zerolog.MessageFieldName)
	delete(fields, componentField)

	var b strings.Builder
	b.WriteString(now.Format(constants.LogTimeFormat))
	b.WriteString(" [")
	b.WriteString(level)
	b.WriteString("] ")
	if component != "" {
		b.WriteString(component)
		b.WriteString(": ")
	}
	b.WriteString(strings.ReplaceAll(msg, "\n", " "))

	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	for _, k := range keys {
		b.WriteByte(' ')
		b.WriteString(k)
		b.WriteByte('=')
		b.WriteString(formatValue(fields[k]))
	}
	b.WriteByte('\n')

	return []byte(b.String())
}

func stringField(fields map[string]interface{}, key string) string {
	if v, ok := fields[key].(string); ok {
		return v
	}
	return ""
}

func formatValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		if val == "" || strings.ContainsAny(val, " \t\n\"=") {
			return strconv.Quote(val)
		}
		return val
	case json.Number:
		return val.String()
	case nil:
		return "null"
	default:
		data, err := json.Marshal(val)
		if err != nil {
			return fmt.Sprint(val)
		}
		return string(data)
	}
}
