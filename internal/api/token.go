package api

import (
	"context"
	"encoding/json"
	"io"
	nethttp "net/http"
	"net/url"
	"strings"
	"time"

	"github.com/rescale/twitch-live-opener/internal/constants"
	"github.com/rescale/twitch-live-opener/internal/logging"
	"github.com/rescale/twitch-live-opener/internal/models"
)

// maxTokenBody caps how much of a token response is decoded.
const maxTokenBody = 64 * 1024

// TokenManagerConfig configures a TokenManager.
type TokenManagerConfig struct {
	// HTTPClient sends the token request (default: nethttp.DefaultClient)
	HTTPClient *nethttp.Client

	// TokenURL is the OAuth token endpoint (default: constants.TwitchOAuthURL)
	TokenURL string

	// Credentials identify the Twitch application
	Credentials models.Credentials

	// Margin is how long before expiry a token is refreshed
	// (default: constants.TokenExpiryMargin)
	Margin time.Duration
}

// TokenManager holds the app access token and refreshes it through the
// client-credentials grant when it is missing or close to expiry.
//
// It is owned by the watcher goroutine and is not safe for concurrent use.
type TokenManager struct {
	httpClient *nethttp.Client
	tokenURL   string
	creds      models.Credentials
	margin     time.Duration
	logger     *logging.Logger
	now        func() time.Time

	token models.AccessToken
}

// NewTokenManager creates a token manager. No request is made until Token is called.
func NewTokenManager(cfg TokenManagerConfig, logger *logging.Logger) *TokenManager {
	if cfg.HTTPClient == nil {
		cfg.HTTPClient = nethttp.DefaultClient
	}
	if cfg.TokenURL == "" {
		cfg.TokenURL = constants.TwitchOAuthURL
	}
	if cfg.Margin <= 0 {
		cfg.Margin = constants.TokenExpiryMargin
	}
	if logger == nil {
		logger = logging.Nop()
	}

	return &TokenManager{
		httpClient: cfg.HTTPClient,
		tokenURL:   cfg.TokenURL,
		creds:      cfg.Credentials,
		margin:     cfg.Margin,
		logger:     logger.Component("auth"),
		now:        time.Now,
	}
}

// Token returns a token that is valid for at least the refresh margin,
// requesting a new one first if needed. Failures are *AuthError.
func (m *TokenManager) Token(ctx context.Context) (models.AccessToken, error) {
	if !m.token.NeedsRefresh(m.now(), m.margin) {
		return m.token, nil
	}
	return m.refresh(ctx)
}

// Invalidate drops the held token so the next Token call refreshes.
func (m *TokenManager) Invalidate() {
	m.token = models.AccessToken{}
}

func (m *TokenManager) refresh(ctx context.Context) (models.AccessToken, error) {
	// Expiry is measured from before the request so it errs on the early side.
	issuedAt := m.now()
	m.token = models.AccessToken{}

	m.logger.Info().Str("endpoint", m.tokenURL).Msg("Requesting new Twitch API token...")

	token, err := m.requestToken(ctx, issuedAt)
	if err != nil {
		event := m.logger.Error()
		if ctx.Err() != nil {
			event = m.logger.Debug()
		}
		event.Err(err).Str("endpoint", m.tokenURL).Msg("Failed to get Twitch API token")
		return models.AccessToken{}, err
	}

	m.token = token
	m.logger.Info().
		Time("expires_at", token.ExpiresAt).
		Msg("Got Twitch API token.")

	return token, nil
}

func (m *TokenManager) requestToken(ctx context.Context, issuedAt time.Time) (models.AccessToken, error) {
	form := url.Values{
		"client_id":     {m.creds.ClientID},
		"client_secret": {m.creds.ClientSecret},
		"grant_type":    {"client_credentials"},
	}

	req, err := nethttp.NewRequestWithContext(ctx, nethttp.MethodPost, m.tokenURL, strings.NewReader(form.Encode()))
	if err != nil {
		return models.AccessToken{}, &AuthError{Endpoint: m.tokenURL, Summary: "failed to create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set("Accept", "application/json")

	resp, err := m.httpClient.Do(req)
	if err != nil {
		return models.AccessToken{}, &AuthError{Endpoint: m.tokenURL, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return models.AccessToken{}, &AuthError{
			Endpoint:   m.tokenURL,
			StatusCode: resp.StatusCode,
			Summary:    summarize(resp.Body),
		}
	}

	var body models.TokenResponse
	if err := json.NewDecoder(io.LimitReader(resp.Body, maxTokenBody)).Decode(&body); err != nil {
		return models.AccessToken{}, &AuthError{
			Endpoint:   m.tokenURL,
			StatusCode: resp.StatusCode,
			Summary:    "malformed token response",
			Err:        err,
		}
	}
	if body.AccessToken == "" || body.ExpiresIn <= 0 {
		return models.AccessToken{}, &AuthError{
			Endpoint:   m.tokenURL,
			StatusCode: resp.StatusCode,
			Summary:    "token response missing access_token or expires_in",
		}
	}

	return models.AccessToken{
		Value:     body.AccessToken,
		ExpiresAt: issuedAt.Add(time.Duration(body.ExpiresIn) * time.Second),
	}, nil
}
