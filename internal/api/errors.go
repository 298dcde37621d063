package api

import (
	"fmt"
	"io"
	nethttp "net/http"
	"strings"

	"github.com/rescale/twitch-live-opener/internal/constants"
)

// AuthError reports a failed client-credentials token exchange.
// It is recoverable: the watcher logs it and skips the cycle.
type AuthError struct {
	Endpoint   string
	StatusCode int    // 0 when no response was received
	Summary    string // truncated response body or decode problem
	Err        error
}

func (e *AuthError) Error() string {
	return describe("token request", e.Endpoint, e.StatusCode, e.Summary, e.Err)
}

func (e *AuthError) Unwrap() error {
	return e.Err
}

// PollError reports a failed stream status query.
// It is recoverable: the watcher logs it and skips the cycle.
type PollError struct {
	Endpoint   string
	StatusCode int
	Summary    string
	Err        error
}

func (e *PollError) Error() string {
	return describe("stream status request", e.Endpoint, e.StatusCode, e.Summary, e.Err)
}

func (e *PollError) Unwrap() error {
	return e.Err
}

// Unauthorized reports whether Twitch rejected the bearer token.
func (e *PollError) Unauthorized() bool {
	return e.StatusCode == nethttp.StatusUnauthorized
}

func describe(op, endpoint string, status int, summary string, err error) string {
	var b strings.Builder
	b.WriteString(op)
	b.WriteString(" failed")
	if endpoint != "" {
		b.WriteString(" (")
		b.WriteString(endpoint)
		b.WriteString(")")
	}
	if status != 0 {
		fmt.Fprintf(&b, ": HTTP %d", status)
	}
	if summary != "" {
		b.WriteString(": ")
		b.WriteString(summary)
	}
	if err != nil {
		b.WriteString(": ")
		b.WriteString(err.Error())
	}
	return b.String()
}

// summarize reads at most constants.ErrorSummaryLimit bytes of body for error
// messages. Read errors are ignored; the status code is what matters.
func summarize(body io.Reader) string {
	data, _ := io.ReadAll(io.LimitReader(body, constants.ErrorSummaryLimit+1))
	s := strings.TrimSpace(string(data))
	if len(s) > constants.ErrorSummaryLimit {
		s = s[:constants.ErrorSummaryLimit] + "..."
	}
	return strings.Join(strings.Fields(s), " ")
}

// endpointOf strips the query string so logged endpoints never carry parameters.
func endpointOf(rawURL string) string {
	if i := strings.IndexByte(rawURL, '?'); i >= 0 {
		return rawURL[:i]
	}
	return rawURL
}
