// Package api talks to Twitch: the OAuth client-credentials token exchange
// (TokenManager) and the Helix streams query (HelixClient). Failures are
// returned as *AuthError and *PollError.
package api

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/url"
	"time"

	"github.com/rescale/twitch-live-opener/internal/constants"
	"github.com/rescale/twitch-live-opener/internal/logging"
	"github.com/rescale/twitch-live-opener/internal/models"
)

// maxStreamsBody caps how much of a streams response is decoded.
const maxStreamsBody = 1024 * 1024

// HelixClientConfig configures a HelixClient.
type HelixClientConfig struct {
	// HTTPClient sends the status request (default: nethttp.DefaultClient)
	HTTPClient *nethttp.Client

	// StreamsURL is the Helix streams endpoint (default: constants.TwitchStreamsURL)
	StreamsURL string

	// ClientID is sent as the Client-Id header
	ClientID string
}

// HelixClient queries the Twitch Helix API for stream status.
type HelixClient struct {
	httpClient *nethttp.Client
	streamsURL string
	clientID   string
	logger     *logging.Logger
	now        func() time.Time
}

// NewHelixClient creates a Helix API client.
func NewHelixClient(cfg HelixClientConfig, logger *logging.Logger) *HelixClient {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = nethttp.DefaultClient
	}
	if cfg.StreamsURL == "" {
		cfg.StreamsURL = constants.TwitchStreamsURL
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &HelixClient{
		httpClient: cfg.HTTPClient,
		streamsURL: cfg.StreamsURL,
		clientID:   cfg.ClientID,
		logger:     logger.Component("helix"),
		now:        time.Now,
	}
}

// CheckLive reports whether target is currently streaming.
// A non-empty Helix "data" list means live. Failures are *PollError.
func (c *HelixClient) CheckLive(ctx context.Context, target models.WatchTarget, token models.AccessToken) (bool, error) {
	streams, err := c.GetStreams(ctx, target, token)
	if err != nil {
		return false, err
	}

	if len(streams) > 0 {
		s := streams[0]
		c.logger.Debug().
			Str("login", target.Login).
			Str("title", s.Title).
			Str("game", s.GameName).
			Int("viewers", s.ViewerCount).
			Time("started_at", s.StartedAt).
			Msg("Stream is live")
		return true, nil
	}
	return false, nil
}

// GetStreams returns the active streams for target (at most one for a single login).
func (c *HelixClient) GetStreams(ctx context.Context, target models.WatchTarget, token models.AccessToken) ([]models.Stream, error) {
	endpoint := endpointOf(c.streamsURL)

	// Never send a token past its expiry.
	if token.Expired(c.now()) {
		return nil, &PollError{Endpoint: endpoint, Summary: "access token expired"}
	}

	u, err := url.Parse(c.streamsURL)
	if err != nil {
		return nil, &PollError{Endpoint: endpoint, Summary: "invalid streams URL", Err: err}
	}
	q := u.Query()
	q.Set("user_login", target.Login)
	u.RawQuery = q.Encode()

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, u.String(), nil)
	if err != nil {
		return nil, &PollError{Endpoint: endpoint, Summary: "failed to create request", Err: err}
	}
	req.Header.Set("Client-Id", c.clientID)
	req.Header.Set("Authorization", "Bearer "+token.Value)
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &PollError{Endpoint: endpoint, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &PollError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Summary:    summarize(resp.Body),
		}
	}

	var body models.StreamsResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxStreamsBody)).Decode(&body); err != nil {
		return nil, &PollError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Summary:    "malformed streams response",
			Err:        err,
		}
	}
	if body.Data == nil {
		return nil, &PollError{
			Endpoint:   endpoint,
			StatusCode: resp.StatusCode,
			Summary:    "streams response has no data field",
		}
	}

	return *body.Data, nil
}
