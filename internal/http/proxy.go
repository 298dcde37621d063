package http

import (
	nethttp "net/http"
	"net/url"

	"golang.org/x/net/http/httpproxy"
)

// ProxyFromEnvironment returns a transport proxy func built from
// HTTP_PROXY, HTTPS_PROXY and NO_PROXY (and their lower-case forms).
// The environment is read once, when the function is created.
func ProxyFromEnvironment() func(*nethttp.Request) (*url.URL, error) {
	return proxyFunc(httpproxy.FromEnvironment())
}

func proxyFunc(cfg *httpproxy.Config) func(*nethttp.Request) (*url.URL, error) {
	fn := cfg.ProxyFunc()
	return func(req *nethttp.Request) (*url.URL, error) {
		return fn(req.URL)
	}
}
