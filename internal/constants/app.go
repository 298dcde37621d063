package constants

import (
	"time"
)

// Application identity
const (
	// AppName is used for the log file, the lock file and the tray title.
	AppName = "twitch-live-opener"

	// TrayTitle - title shown next to the tray icon on platforms that support it
	TrayTitle = "Twitch Watcher"
)

// Twitch endpoints
const (
	// TwitchOAuthURL - client-credentials token endpoint
	TwitchOAuthURL = "https://id.twitch.tv/oauth2/token"

	// TwitchStreamsURL - Helix "get streams" endpoint
	TwitchStreamsURL = "https://api.twitch.tv/helix/streams"

	// TwitchChannelBaseURL - prefix of the channel page opened on go-live
	TwitchChannelBaseURL = "https://www.twitch.tv/"
)

// Polling and token lifetime
const (
	// DefaultPollInterval - POLL_INTERVAL default (3 minutes)
	DefaultPollInterval = 180 * time.Second

	// TokenExpiryMargin - refresh the app token this long before it expires (60 seconds)
	TokenExpiryMargin = 60 * time.Second

	// ErrorSummaryLimit - max bytes of a response body kept in Auth/Poll errors
	ErrorSummaryLimit = 200
)

// Log file rotation
const (
	// LogMaxSizeMB - rotate the active log file once it would exceed this size (1 MB)
	LogMaxSizeMB = 1

	// LogMaxBackups - number of rotated log files kept
	LogMaxBackups = 3

	// LogTimeFormat - timestamp layout for file log lines
	LogTimeFormat = "2006-01-02 15:04:05"

	// ConsoleTimeFormat - timestamp layout for console log lines
	ConsoleTimeFormat = "15:04:05"
)

// HTTP Client Timeouts
const (
	// HTTPRequestTimeout - overall timeout for a single token or status request (10 seconds)
	HTTPRequestTimeout = 10 * time.Second

	// HTTPIdleConnTimeout - how long to keep idle connections open (90 seconds)
	HTTPIdleConnTimeout = 90 * time.Second

	// HTTPTLSHandshakeTimeout - timeout for TLS handshake (10 seconds)
	HTTPTLSHandshakeTimeout = 10 * time.Second

	// HTTPExpectContinueTimeout - timeout for 100-continue response (1 second)
	HTTPExpectContinueTimeout = 1 * time.Second

	// HTTPDialTimeout - timeout for establishing connection (10 seconds)
	HTTPDialTimeout = 10 * time.Second

	// HTTPDialKeepAlive - keep-alive period for dialer (30 seconds)
	HTTPDialKeepAlive = 30 * time.Second
)
