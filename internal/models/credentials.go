package models

import "time"

// Credentials identifies the registered Twitch application.
type Credentials struct {
	ClientID     string
	ClientSecret string
}

// TokenResponse is the body returned by the OAuth client-credentials grant.
type TokenResponse struct {
	AccessToken string `json:"access_token"`
	ExpiresIn   int64  `json:"expires_in"`
	TokenType   string `json:"token_type"`
}

// AccessToken is an app access token and the instant it stops being valid.
type AccessToken struct {
	Value     string
	ExpiresAt time.Time
}

// IsZero reports whether no token has been issued.
func (t AccessToken) IsZero() bool {
	return t.Value == ""
}

// Expired reports whether the token must no longer be sent at now.
func (t AccessToken) Expired(now time.Time) bool {
	return t.IsZero() || !now.Before(t.ExpiresAt)
}

// NeedsRefresh reports whether the token is within margin of expiring.
func (t AccessToken) NeedsRefresh(now time.Time, margin time.Duration) bool {
	return t.IsZero() || !now.Before(t.ExpiresAt.Add(-margin))
}
