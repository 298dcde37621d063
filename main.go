// twitch-live-opener watches one Twitch channel and opens it in the default
// browser when it goes live.
//
// Build for Windows without a console window:
//
//	GOOS=windows go build -ldflags "-H=windowsgui" .
package main

import (
	"os"

	"github.com/rescale/twitch-live-opener/internal/cli"
)

func main() {
	os.Exit(cli.ExitCode(cli.Execute()))
}
