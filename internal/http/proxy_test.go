package http

import (
	nethttp "net/http"
	"net/url"
	"testing"

	"golang.org/x/net/http/httpproxy"
)

const testProxy = "http://proxy.corp:8080"

func newProxyFunc(noProxy string) func(*nethttp.Request) (*url.URL, error) {
	return proxyFunc(&httpproxy.Config{
		HTTPProxy:  testProxy,
		HTTPSProxy: testProxy,
		NoProxy:    noProxy,
	})
}

// TestProxyFunc_EmptyNoProxy verifies that an empty NO_PROXY always routes through the proxy.
func TestProxyFunc_EmptyNoProxy(t *testing.T) {
	fn := newProxyFunc("")

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "https://api.twitch.tv/helix/streams", nil)
	result, err := fn(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result == nil {
		t.Fatal("expected proxy URL, got nil (direct)")
	}
	if result.Host != "proxy.corp:8080" {
		t.Errorf("expected proxy host proxy.corp:8080, got %s", result.Host)
	}
}

// TestProxyFunc_NoProxyPatterns verifies domain, wildcard and CIDR bypass entries.
func TestProxyFunc_NoProxyPatterns(t *testing.T) {
	fn := newProxyFunc("*.internal.corp, id.twitch.tv, 192.168.0.0/16")

	tests := []struct {
		name       string
		url        string
		wantBypass bool
	}{
		{"wildcard match", "https://svc.internal.corp/status", true},
		{"exact domain match", "https://id.twitch.tv/oauth2/token", true},
		{"cidr match", "http://192.168.1.100/api", true},
		{"helix goes through proxy", "https://api.twitch.tv/helix/streams", false},
		{"channel page goes through proxy", "https://www.twitch.tv/somestreamer", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, _ := nethttp.NewRequest(nethttp.MethodGet, tt.url, nil)
			result, err := fn(req)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if tt.wantBypass && result != nil {
				t.Errorf("expected bypass (nil) for %s, got %v", tt.url, result)
			}
			if !tt.wantBypass && result == nil {
				t.Errorf("expected proxy for %s, got nil (bypass)", tt.url)
			}
		})
	}
}

// TestProxyFunc_NoProxyConfigured verifies requests go direct when no proxy is set.
func TestProxyFunc_NoProxyConfigured(t *testing.T) {
	fn := proxyFunc(&httpproxy.Config{})

	req, _ := nethttp.NewRequest(nethttp.MethodGet, "https://api.twitch.tv/helix/streams", nil)
	result, err := fn(req)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if result != nil {
		t.Errorf("expected direct connection, got %v", result)
	}
}
