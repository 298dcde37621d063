package models

import (
	"strings"
	"time"

	"github.com/rescale/twitch-live-opener/internal/constants"
)

// WatchTarget is the single channel being monitored.
type WatchTarget struct {
	Login string
}

// NewWatchTarget normalizes login the way Helix compares it.
func NewWatchTarget(login string) WatchTarget {
	return WatchTarget{Login: strings.ToLower(strings.TrimSpace(login))}
}

// ChannelURL returns the channel page opened when the target goes live.
func (w WatchTarget) ChannelURL() string {
	return constants.TwitchChannelBaseURL + w.Login
}

// Stream is the subset of a Helix stream record used for logging.
type Stream struct {
	ID          string    `json:"id"`
	UserID      string    `json:"user_id"`
	UserLogin   string    `json:"user_login"`
	UserName    string    `json:"user_name"`
	GameName    string    `json:"game_name"`
	Type        string    `json:"type"`
	Title       string    `json:"title"`
	ViewerCount int       `json:"viewer_count"`
	StartedAt   time.Time `json:"started_at"`
}

// StreamsResponse is the body of GET /helix/streams.
// Data is a pointer so a body without the field can be told apart from an empty list.
type StreamsResponse struct {
	Data *[]Stream `json:"data"`
}
