// Package cli provides the command-line interface for twitch-live-opener.
package cli

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/rescale/twitch-live-opener/internal/config"
	"github.com/rescale/twitch-live-opener/internal/constants"
	"github.com/rescale/twitch-live-opener/internal/logging"
	"github.com/rescale/twitch-live-opener/internal/version"
)

// rootOptions holds the flags shared by every command and the logger they build.
type rootOptions struct {
	// Global flags
	envFile string
	logFile string
	verbose bool
	debug   bool
	console bool

	// Root command flags
	noTray        bool
	allowMultiple bool

	logger *logging.Logger
}

// NewRootCmd creates the root command. Running it without a subcommand
// starts the watcher.
func NewRootCmd() *cobra.Command {
	opts := &rootOptions{}

	rootCmd := &cobra.Command{
		Use:   constants.AppName,
		Short: "Open a Twitch channel in the browser when it goes live",
		Long: `twitch-live-opener ` + version.Version + ` - Built: ` + version.BuildTime + `
Watches one Twitch channel through the Helix API and opens it in the default
browser the moment it goes live. A tray icon with a Quit item stays in the
notification area while it runs.

Configuration is read from the environment and from a .env file next to the
executable or in the working directory:
  CLIENT_ID        Twitch application client ID (required)
  CLIENT_SECRET    Twitch application client secret (required)
  STREAMER_LOGIN   Channel login to watch (required)
  POLL_INTERVAL    Seconds between checks (default 180)`,
		SilenceUsage: true,
		Args:         cobra.NoArgs,
		RunE: opts.withLogger(func(cmd *cobra.Command, args []string) error {
			return runWatcher(cmd.Context(), opts)
		}),
	}

	rootCmd.PersistentFlags().StringVar(&opts.envFile, "env-file", "", "Path to the .env file (default: next to the executable, then ./.env)")
	rootCmd.PersistentFlags().StringVar(&opts.logFile, "log-file", "", "Path to the rotating log file (default: "+config.DefaultLogFilePath()+")")
	rootCmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Verbose output (shows debug messages)")
	rootCmd.PersistentFlags().BoolVar(&opts.debug, "debug", false, "Enable debug output (same as --verbose)")
	rootCmd.PersistentFlags().BoolVar(&opts.console, "console", true, "Mirror log output to stdout")

	rootCmd.Flags().BoolVar(&opts.noTray, "no-tray", false, "Run without the tray icon (stop with Ctrl+C)")
	rootCmd.Flags().BoolVar(&opts.allowMultiple, "allow-multiple", false, "Skip the single-instance check")

	rootCmd.Version = version.String()

	rootCmd.AddCommand(newCheckCmd(opts))
	rootCmd.AddCommand(newConfigCmd(opts))

	return rootCmd
}

// Execute runs the CLI until the command finishes or a signal stops it.
func Execute() error {
	// Create a context that can be cancelled by signals
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	// Loop so repeated Ctrl+C presses don't block the sender.
	go func() {
		for sig := range sigChan {
			if sig != nil {
				fmt.Fprintf(os.Stderr, "\nReceived signal %v, stopping watcher...\n", sig)
				cancel()
			}
		}
	}()

	err := NewRootCmd().ExecuteContext(ctx)

	// Clean up signal handler
	signal.Stop(sigChan)
	close(sigChan)

	return err
}

// withLogger builds the process logger before fn runs and closes it after,
// whether or not fn fails.
func (o *rootOptions) withLogger(fn func(cmd *cobra.Command, args []string) error) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		logging.SetVerbose(o.verbose || o.debug)

		logOpts := logging.Options{FilePath: o.logFilePath()}
		if o.console {
			out := cmd.OutOrStdout()
			logOpts.Console = out
			logOpts.ConsoleNoColor = !isTerminal(out)
		}
		logger, err := logging.NewLogger(logOpts)
		if err != nil {
			return fmt.Errorf("failed to set up logging: %w", err)
		}
		o.logger = logger
		defer logger.Close()

		return fn(cmd, args)
	}
}

// loadConfig reads the watcher configuration from the environment and dotfile.
func (o *rootOptions) loadConfig() (*config.Config, error) {
	return config.Load(config.LoadOptions{EnvFile: o.envFile})
}

// isTerminal reports whether w is an interactive terminal.
func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

func (o *rootOptions) logFilePath() string {
	if o.logFile != "" {
		return o.logFile
	}
	return config.DefaultLogFilePath()
}
