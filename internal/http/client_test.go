package http

import (
	"bytes"
	"context"
	"errors"
	"io"
	nethttp "net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rescale/twitch-live-opener/internal/logging"
)

func TestNewClient_ServerErrorIsNotRetried(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(nethttp.StatusServiceUnavailable)
		io.WriteString(w, "down for maintenance")
	}))
	defer srv.Close()

	client := NewClient(logging.Nop())

	req, err := nethttp.NewRequestWithContext(context.Background(), nethttp.MethodGet, srv.URL, nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("expected the 503 response to be passed through, got error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != nethttp.StatusServiceUnavailable {
		t.Errorf("StatusCode = %d, want 503", resp.StatusCode)
	}
	if got := atomic.LoadInt32(&calls); got != 1 {
		t.Errorf("expected exactly 1 request (no retries), got %d", got)
	}
}

func TestNewClient_PostBodyIsSent(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("ParseForm() error = %v", err)
		}
		io.WriteString(w, r.PostForm.Get("grant_type"))
	}))
	defer srv.Close()

	client := NewClient(nil)
	form := url.Values{"grant_type": {"client_credentials"}}
	resp, err := client.Post(srv.URL, "application/x-www-form-urlencoded", strings.NewReader(form.Encode()))
	if err != nil {
		t.Fatalf("Post() error = %v", err)
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if string(body) != "client_credentials" {
		t.Errorf("server saw grant_type %q", body)
	}
}

func TestNewClient_ContextCancelled(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	req, _ := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, srv.URL, nil)
	_, err := NewClient(logging.Nop()).Do(req)
	if err == nil {
		t.Fatal("expected error for cancelled context")
	}
	if !errors.Is(err, context.Canceled) {
		t.Errorf("expected context.Canceled, got %v", err)
	}
}

func TestNewClient_CancelledRequestLoggedAtDebug(t *testing.T) {
	srv := httptest.NewServer(nethttp.HandlerFunc(func(w nethttp.ResponseWriter, r *nethttp.Request) {
		<-r.Context().Done()
	}))
	defer srv.Close()

	var buf bytes.Buffer
	logger, err := logging.NewLogger(logging.Options{Console: &buf, ConsoleNoColor: true})
	if err != nil {
		t.Fatal(err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	go func() {
		time.Sleep(50 * time.Millisecond)
		cancel()
	}()

	req, _ := nethttp.NewRequestWithContext(ctx, nethttp.MethodGet, srv.URL, nil)
	if _, err := NewClient(logger).Do(req); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}

	if out := buf.String(); strings.Contains(out, "ERR") {
		t.Errorf("cancelled request logged at error level: %q", out)
	}
}

func TestRetryLogger_WritesFields(t *testing.T) {
	logging.SetVerbose(true)
	defer logging.SetVerbose(false)

	var buf bytes.Buffer
	logger, err := logging.NewLogger(logging.Options{Console: &buf})
	if err != nil {
		t.Fatal(err)
	}

	u, _ := url.Parse("https://api.twitch.tv/helix/streams")
	l := newRetryLogger(logger)
	l.Error("request failed", "url", u, "error", errors.New("boom"), "dangling")

	out := buf.String()
	for _, want := range []string{"request failed", "https://api.twitch.tv/helix/streams", "boom"} {
		if !strings.Contains(out, want) {
			t.Errorf("log output %q missing %q", out, want)
		}
	}
}
