// Package daemon runs the poll loop that watches one Twitch channel and opens
// it in the browser when it goes live.
package daemon

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/rescale/twitch-live-opener/internal/api"
	"github.com/rescale/twitch-live-opener/internal/logging"
	"github.com/rescale/twitch-live-opener/internal/models"
)

// TokenSource hands out valid app access tokens.
type TokenSource interface {
	Token(ctx context.Context) (models.AccessToken, error)
	Invalidate()
}

// StatusChecker reports whether a channel is live.
type StatusChecker interface {
	CheckLive(ctx context.Context, target models.WatchTarget, token models.AccessToken) (bool, error)
}

// URLOpener opens a URL for the user.
type URLOpener interface {
	Open(url string) error
}

// Config holds watcher configuration.
type Config struct {
	// Target is the channel to watch
	Target models.WatchTarget

	// PollInterval is the delay between the end of one cycle and the start of the next
	PollInterval time.Duration
}

// Deps are the collaborators a Watcher drives.
type Deps struct {
	Tokens  TokenSource
	Status  StatusChecker
	Browser URLOpener
	Logger  *logging.Logger
}

// Watcher is the main poll loop. Token, Status, Detector and Browser are
// only touched from the goroutine running Run.
type Watcher struct {
	cfg      Config
	tokens   TokenSource
	status   StatusChecker
	browser  URLOpener
	logger   *logging.Logger
	detector Detector
}

// New creates a watcher.
func New(cfg Config, deps Deps) (*Watcher, error) {
	if cfg.Target.Login == "" {
		return nil, fmt.Errorf("watch target login is required")
	}
	if cfg.PollInterval <= 0 {
		return nil, fmt.Errorf("poll interval must be positive, got %s", cfg.PollInterval)
	}
	if deps.Tokens == nil || deps.Status == nil || deps.Browser == nil {
		return nil, fmt.Errorf("token source, status checker and browser are required")
	}
	logger := deps.Logger
	if logger == nil {
		logger = logging.Nop()
	}

	return &Watcher{
		cfg:     cfg,
		tokens:  deps.Tokens,
		status:  deps.Status,
		browser: deps.Browser,
		logger:  logger.Component("watcher"),
	}, nil
}

// State returns the detector state after the last successful cycle.
func (w *Watcher) State() State {
	return w.detector.State()
}

// Run polls until ctx is cancelled. The first cycle runs immediately.
// It returns nil on cancellation; cycle failures are logged, never returned.
func (w *Watcher) Run(ctx context.Context) error {
	w.logger.Info().
		Str("login", w.cfg.Target.Login).
		Str("poll_interval", w.cfg.PollInterval.String()).
		Msg("Monitoring Twitch channel")

	timer := time.NewTimer(0)
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			w.logger.Info().Msg("Watch loop has been stopped.")
			return nil
		case <-timer.C:
		}

		w.cycle(ctx)
		if ctx.Err() != nil {
			continue
		}
		timer.Reset(w.cfg.PollInterval)
	}
}

// RunOnce fetches a token and queries the status once, without touching the
// detector or opening the browser.
func (w *Watcher) RunOnce(ctx context.Context) (bool, error) {
	token, err := w.tokens.Token(ctx)
	if err != nil {
		return false, err
	}
	live, err := w.status.CheckLive(ctx, w.cfg.Target, token)
	if err != nil {
		w.handlePollError(ctx, err)
		return false, err
	}
	return live, nil
}

// cycle is one tick: token, status, detect, maybe launch.
// A failed token or status request skips the detector so errors never flip state.
func (w *Watcher) cycle(ctx context.Context) {
	w.logger.Debug().Msg("Starting poll cycle")

	token, err := w.tokens.Token(ctx)
	if err != nil {
		w.logCycleError(ctx, err, "Skipping poll cycle: no API token")
		return
	}

	live, err := w.status.CheckLive(ctx, w.cfg.Target, token)
	if err != nil {
		w.handlePollError(ctx, err)
		return
	}

	prev := w.detector.State()
	switch w.detector.Observe(live) {
	case EventBecameLive:
		url := w.cfg.Target.ChannelURL()
		w.logger.Info().Msgf("%s just went LIVE! Opening %s", w.cfg.Target.Login, url)
		if err := w.browser.Open(url); err != nil {
			// State stays Live: the edge has been consumed either way.
			w.logger.Warn().Err(err).Str("url", url).Msg("Failed to open browser")
		}
	default:
		if prev == StateLive && !live {
			w.logger.Info().Msgf("%s appears to be offline now.", w.cfg.Target.Login)
		}
	}
}

func (w *Watcher) handlePollError(ctx context.Context, err error) {
	var pollErr *api.PollError
	if errors.As(err, &pollErr) && pollErr.Unauthorized() {
		w.tokens.Invalidate()
		w.logger.Warn().Err(err).Msg("Token expired or invalid. Refreshing on next poll")
		return
	}
	w.logCycleError(ctx, err, "Error checking stream status")
}

// logCycleError logs at error level, or debug when the failure came from
// shutdown cancelling the in-flight request.
func (w *Watcher) logCycleError(ctx context.Context, err error, msg string) {
	if ctx.Err() != nil {
		w.logger.Debug().Err(err).Msg(msg + " (shutting down)")
		return
	}
	w.logger.Error().Err(err).Msg(msg)
}
