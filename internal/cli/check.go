package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

// newCheckCmd creates the 'check' command.
func newCheckCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "check",
		Short: "Check once whether the channel is live",
		Long: `Load the configuration, request an API token and query the channel's
stream status once. Prints LIVE or OFFLINE and never opens the browser.

Useful for verifying credentials before leaving the watcher running.`,
		Args: cobra.NoArgs,
		RunE: opts.withLogger(func(cmd *cobra.Command, args []string) error {
			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			watcher, err := newWatcher(cfg, opts.logger)
			if err != nil {
				return fmt.Errorf("failed to create watcher: %w", err)
			}

			live, err := watcher.RunOnce(cmd.Context())
			if err != nil {
				return err
			}

			target := cfg.Target()
			if live {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is LIVE: %s\n", target.Login, target.ChannelURL())
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s is OFFLINE\n", target.Login)
			}
			return nil
		}),
	}
}
