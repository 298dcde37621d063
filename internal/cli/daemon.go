package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/rescale/twitch-live-opener/internal/api"
	"github.com/rescale/twitch-live-opener/internal/browser"
	"github.com/rescale/twitch-live-opener/internal/config"
	"github.com/rescale/twitch-live-opener/internal/constants"
	"github.com/rescale/twitch-live-opener/internal/daemon"
	"github.com/rescale/twitch-live-opener/internal/http"
	"github.com/rescale/twitch-live-opener/internal/instance"
	"github.com/rescale/twitch-live-opener/internal/logging"
	"github.com/rescale/twitch-live-opener/internal/tray"
	"github.com/rescale/twitch-live-opener/internal/version"
)

// runWatcher loads the configuration and runs the watch loop until Quit,
// a signal, or a fatal error.
//
// With the tray, systray owns the calling (main) goroutine and the loop runs
// on its own goroutine. Whichever side stops first stops the other.
func runWatcher(ctx context.Context, opts *rootOptions) error {
	logger := opts.logger
	logger.Info().
		Str("version", version.Version).
		Str("log_file", logger.FilePath()).
		Msg("Starting " + constants.AppName)

	cfg, err := opts.loadConfig()
	if err != nil {
		logger.Error().Err(err).Msg("Configuration error")
		return err
	}
	if cfg.EnvFile != "" {
		logger.Info().Str("env_file", cfg.EnvFile).Msg("Loaded configuration")
	}

	if !opts.allowMultiple {
		lock, err := acquireInstanceLock(opts.logFilePath())
		if err != nil {
			logger.Error().Err(err).Msg("Cannot start watcher")
			return err
		}
		defer lock.Release()
	}

	watcher, err := newWatcher(cfg, logger)
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	if opts.noTray {
		err = watcher.Run(ctx)
		logger.Info().Msg("Exiting.")
		return err
	}

	trayIcon := tray.New(tray.Options{
		Title:   constants.TrayTitle,
		Tooltip: constants.TrayTitle + " - " + cfg.StreamerLogin,
		Logger:  logger,
	})

	done := make(chan error, 1)
	go func() {
		done <- watcher.Run(ctx)
		trayIcon.Quit()
	}()

	trayIcon.Run(cancel)

	// The tray may also go away on its own (session logout).
	cancel()
	err = <-done
	logger.Info().Msg("Exiting.")
	return err
}

// acquireInstanceLock takes the single-instance lock next to the log file.
func acquireInstanceLock(logFile string) (*instance.Lock, error) {
	dir := filepath.Dir(logFile)
	if err := os.MkdirAll(dir, 0700); err != nil {
		return nil, fmt.Errorf("failed to create lock directory: %w", err)
	}
	lock, err := instance.Acquire(dir, constants.AppName)
	if errors.Is(err, instance.ErrAlreadyRunning) {
		return nil, fmt.Errorf("%w (use --allow-multiple to override)", err)
	}
	return lock, err
}

// newWatcher wires the HTTP client, token manager, Helix client and
// browser launcher into a watcher for cfg.
func newWatcher(cfg *config.Config, logger *logging.Logger) (*daemon.Watcher, error) {
	httpClient := http.NewClient(logger)

	tokens := api.NewTokenManager(api.TokenManagerConfig{
		HTTPClient:  httpClient,
		Credentials: cfg.Credentials(),
	}, logger)

	helix := api.NewHelixClient(api.HelixClientConfig{
		HTTPClient: httpClient,
		ClientID:   cfg.ClientID,
	}, logger)

	return daemon.New(daemon.Config{
		Target:       cfg.Target(),
		PollInterval: cfg.PollInterval,
	}, daemon.Deps{
		Tokens:  tokens,
		Status:  helix,
		Browser: browser.NewLauncher(logger),
		Logger:  logger,
	})
}
