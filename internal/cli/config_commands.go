package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/rescale/twitch-live-opener/internal/config"
)

// newConfigCmd creates the 'config' command group.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Inspect twitch-live-opener configuration",
		Long: `Configuration commands for twitch-live-opener.

Commands:
  show  - Display the resolved configuration
  path  - Show where the .env file and log file are looked up`,
	}

	configCmd.AddCommand(newConfigShowCmd(opts))
	configCmd.AddCommand(newConfigPathCmd(opts))

	return configCmd
}

// newConfigShowCmd creates the 'config show' command.
func newConfigShowCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Display current configuration",
		Long: `Display the configuration the watcher would run with.

Values are merged from:
  1. Process environment (CLIENT_ID or TWITCH_CLIENT_ID, ...)
  2. The .env file (--env-file, or the first one found)

Priority: environment > .env file > defaults`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			fmt.Fprintln(out, "Current Configuration")
			fmt.Fprintln(out, "=====================")
			fmt.Fprintln(out)

			envFile := cfg.EnvFile
			if envFile == "" {
				envFile = "<none>"
			}
			fmt.Fprintf(out, "  Env file:       %s\n", envFile)
			fmt.Fprintf(out, "  Client ID:      %s\n", cfg.ClientID)
			// Never display any portion of the secret
			fmt.Fprintf(out, "  Client secret:  <set (%d chars)>\n", len(cfg.ClientSecret))
			fmt.Fprintf(out, "  Streamer login: %s\n", cfg.StreamerLogin)
			fmt.Fprintf(out, "  Channel URL:    %s\n", cfg.Target().ChannelURL())
			fmt.Fprintf(out, "  Poll interval:  %s\n", cfg.PollInterval)
			return nil
		},
	}
}

// newConfigPathCmd creates the 'config path' command.
func newConfigPathCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "path",
		Short: "Show .env search paths and log file location",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			fmt.Fprintln(out, "Env file search order:")
			paths := config.EnvFileSearchPaths()
			if opts.envFile != "" {
				paths = []string{opts.envFile}
			}
			for _, p := range paths {
				status := "not found"
				if info, err := os.Stat(p); err == nil && !info.IsDir() {
					status = "found"
				}
				fmt.Fprintf(out, "  %s (%s)\n", p, status)
			}

			fmt.Fprintln(out)
			fmt.Fprintf(out, "Log file: %s\n", opts.logFilePath())
			return nil
		},
	}
}
