// Package browser opens channel pages in the user's default browser.
// A failed launch is reported to the caller and never stops the watcher.
package browser

import (
	"fmt"
	"io"

	pkgbrowser "github.com/pkg/browser"

	"github.com/rescale/twitch-live-opener/internal/logging"
)

func init() {
	// The launched helper (xdg-open, open, rundll32) must not write into our console.
	pkgbrowser.Stdout = io.Discard
	pkgbrowser.Stderr = io.Discard
}

// LaunchError reports that the browser could not be started for URL.
type LaunchError struct {
	URL string
	Err error
}

func (e *LaunchError) Error() string {
	return fmt.Sprintf("failed to open browser for %s: %v", e.URL, e.Err)
}

func (e *LaunchError) Unwrap() error {
	return e.Err
}

// Launcher opens URLs with the platform's default handler.
type Launcher struct {
	logger  *logging.Logger
	openURL func(url string) error
}

// NewLauncher creates a launcher backed by github.com/pkg/browser.
func NewLauncher(logger *logging.Logger) *Launcher {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Launcher{
		logger:  logger.Component("browser"),
		openURL: pkgbrowser.OpenURL,
	}
}

// Open launches url and returns once the handler has been started.
// Failures are *LaunchError.
func (l *Launcher) Open(url string) error {
	if url == "" {
		return &LaunchError{URL: url, Err: fmt.Errorf("empty URL")}
	}

	l.logger.Debug().Str("url", url).Msg("Launching browser")
	if err := l.openURL(url); err != nil {
		return &LaunchError{URL: url, Err: err}
	}
	return nil
}
