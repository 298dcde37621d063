// Package http provides the HTTP client used to talk to Twitch.
package http

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/rescale/twitch-live-opener/internal/logging"
)

// retryLogger implements the retryablehttp.LeveledLogger interface on top of
// the application logger. Everything but Warn is logged at debug level;
// failed requests surface to callers as errors and are logged there.
type retryLogger struct {
	logger *logging.Logger
}

func newRetryLogger(logger *logging.Logger) *retryLogger {
	if logger == nil {
		logger = logging.Nop()
	}
	return &retryLogger{logger: logger.Component("http")}
}

func (l *retryLogger) Error(msg string, keysAndValues ...interface{}) {
	withFields(l.logger.Debug(), keysAndValues).Msg(msg)
}

func (l *retryLogger) Info(msg string, keysAndValues ...interface{}) {
	withFields(l.logger.Debug(), keysAndValues).Msg(msg)
}

func (l *retryLogger) Debug(msg string, keysAndValues ...interface{}) {
	withFields(l.logger.Debug(), keysAndValues).Msg(msg)
}

func (l *retryLogger) Warn(msg string, keysAndValues ...interface{}) {
	withFields(l.logger.Warn(), keysAndValues).Msg(msg)
}

// withFields attaches alternating key/value pairs to the event.
// A trailing key without a value is dropped.
func withFields(e *zerolog.Event, keysAndValues []interface{}) *zerolog.Event {
	for i := 0; i+1 < len(keysAndValues); i += 2 {
		key, ok := keysAndValues[i].(string)
		if !ok {
			continue
		}
		switch v := keysAndValues[i+1].(type) {
		case error:
			e = e.AnErr(key, v)
		case fmt.Stringer:
			e = e.Str(key, v.String())
		default:
			e = e.Interface(key, v)
		}
	}
	return e
}
