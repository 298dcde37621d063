package api

import (
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rescale/twitch-live-opener/internal/models"
)

const liveBody = `{"data":[{"id":"1","user_login":"somestreamer","user_name":"SomeStreamer",
"game_name":"Chess","type":"live","title":"hello","viewer_count":42,
"started_at":"2026-05-01T10:00:00Z"}],"pagination":{}}`

func validToken() models.AccessToken {
	return models.AccessToken{Value: "tok-abc", ExpiresAt: time.Now().Add(time.Hour)}
}

func newStreamsServer(t *testing.T, calls *int32, status int, body string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		atomic.AddInt32(calls, 1)

		if r.Method != nethttp.MethodGet {
			t.Errorf("method = %s, want GET", r.Method)
		}
		if got := r.URL.Query().Get("user_login"); got != "somestreamer" {
			t.Errorf("user_login = %q", got)
		}
		if got := r.Header.Get("Client-Id"); got != "my-client" {
			t.Errorf("Client-Id = %q", got)
		}
		if got := r.Header.Get("Authorization"); got != "Bearer tok-abc" {
			t.Errorf("Authorization = %q", got)
		}

		w.WriteHeader(status)
		io.WriteString(w, body)
	}))
	t.Cleanup(srv.Close)
	return srv
}

func newTestHelixClient(srv *httptest.Server) *HelixClient {
	return NewHelixClient(HelixClientConfig{
		HTTPClient: srv.Client(),
		StreamsURL: srv.URL + "/helix/streams",
		ClientID:   "my-client",
	}, nil)
}

func TestHelixClient_CheckLive(t *testing.T) {
	tests := []struct {
		name string
		body string
		want bool
	}{
		{"live", liveBody, true},
		{"offline", `{"data":[],"pagination":{}}`, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := newStreamsServer(t, &calls, nethttp.StatusOK, tt.body)
			c := newTestHelixClient(srv)

			got, err := c.CheckLive(context.Background(), models.NewWatchTarget("SomeStreamer"), validToken())
			if err != nil {
				t.Fatalf("CheckLive() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("CheckLive() = %v, want %v", got, tt.want)
			}
			if atomic.LoadInt32(&calls) != 1 {
				t.Errorf("expected 1 request, got %d", calls)
			}
		})
	}
}

func TestHelixClient_GetStreamsDecodes(t *testing.T) {
	var calls int32
	srv := newStreamsServer(t, &calls, nethttp.StatusOK, liveBody)

	streams, err := newTestHelixClient(srv).GetStreams(context.Background(), models.NewWatchTarget("somestreamer"), validToken())
	if err != nil {
		t.Fatalf("GetStreams() error = %v", err)
	}
	if len(streams) != 1 {
		t.Fatalf("expected 1 stream, got %d", len(streams))
	}
	s := streams[0]
	if s.Title != "hello" || s.GameName != "Chess" || s.ViewerCount != 42 {
		t.Errorf("unexpected stream: %+v", s)
	}
	if !s.StartedAt.Equal(time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)) {
		t.Errorf("StartedAt = %v", s.StartedAt)
	}
}

func TestHelixClient_Errors(t *testing.T) {
	tests := []struct {
		name             string
		status           int
		body             string
		wantStatus       int
		wantUnauthorized bool
		wantInError      string
	}{
		{"unauthorized", nethttp.StatusUnauthorized, `{"error":"Unauthorized","status":401,"message":"Invalid OAuth token"}`, 401, true, "Invalid OAuth token"},
		{"rate limited", nethttp.StatusTooManyRequests, "slow down", 429, false, "HTTP 429"},
		{"server error", nethttp.StatusInternalServerError, "", 500, false, "HTTP 500"},
		{"malformed body", nethttp.StatusOK, "<html>", 200, false, "malformed streams response"},
		{"missing data", nethttp.StatusOK, `{"pagination":{}}`, 200, false, "no data field"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var calls int32
			srv := newStreamsServer(t, &calls, tt.status, tt.body)

			_, err := newTestHelixClient(srv).CheckLive(context.Background(), models.NewWatchTarget("somestreamer"), validToken())
			var pollErr *PollError
			if !errors.As(err, &pollErr) {
				t.Fatalf("expected *PollError, got %T: %v", err, err)
			}
			if pollErr.StatusCode != tt.wantStatus {
				t.Errorf("StatusCode = %d, want %d", pollErr.StatusCode, tt.wantStatus)
			}
			if pollErr.Unauthorized() != tt.wantUnauthorized {
				t.Errorf("Unauthorized() = %v, want %v", pollErr.Unauthorized(), tt.wantUnauthorized)
			}
			if !strings.Contains(err.Error(), tt.wantInError) {
				t.Errorf("Error() = %q, want it to contain %q", err.Error(), tt.wantInError)
			}
			if strings.Contains(err.Error(), "user_login") {
				t.Errorf("Error() should not include the query string: %q", err.Error())
			}
		})
	}
}

func TestHelixClient_RefusesExpiredToken(t *testing.T) {
	var calls int32
	srv := newStreamsServer(t, &calls, nethttp.StatusOK, liveBody)
	c := newTestHelixClient(srv)

	expired := models.AccessToken{Value: "tok-abc", ExpiresAt: time.Now().Add(-time.Second)}
	_, err := c.CheckLive(context.Background(), models.NewWatchTarget("somestreamer"), expired)

	var pollErr *PollError
	if !errors.As(err, &pollErr) {
		t.Fatalf("expected *PollError, got %v", err)
	}
	if got := atomic.LoadInt32(&calls); got != 0 {
		t.Errorf("expired token must not be sent, got %d requests", got)
	}
}

func TestHelixClient_TransportError(t *testing.T) {
	var calls int32
	srv := newStreamsServer(t, &calls, nethttp.StatusOK, liveBody)
	c := newTestHelixClient(srv)
	srv.Close()

	_, err := c.CheckLive(context.Background(), models.NewWatchTarget("somestreamer"), validToken())
	var pollErr *PollError
	if !errors.As(err, &pollErr) {
		t.Fatalf("expected *PollError, got %v", err)
	}
	if pollErr.StatusCode != 0 {
		t.Errorf("StatusCode = %d, want 0", pollErr.StatusCode)
	}
}
