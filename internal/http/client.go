package http

import (
	"crypto/tls"
	"net"
	nethttp "net/http"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/net/http2"

	"github.com/rescale/twitch-live-opener/internal/constants"
	"github.com/rescale/twitch-live-opener/internal/logging"
)

// NewClient creates the HTTP client shared by the token and status requests.
//
// Key features:
//   - Proxy support from HTTP_PROXY / HTTPS_PROXY / NO_PROXY
//   - HTTP/2 enabled on the transport
//   - Per-request timeout (constants.HTTPRequestTimeout)
//   - go-retryablehttp wrapper for request logging; RetryMax is 0 because the
//     poll interval itself is the retry delay
//
// Non-2xx responses are returned as responses, not errors, so callers can
// report the status code and body.
func NewClient(logger *logging.Logger) *nethttp.Client {
	transport := &nethttp.Transport{
		Proxy: ProxyFromEnvironment(),
		DialContext: (&net.Dialer{
			Timeout:   constants.HTTPDialTimeout,
			KeepAlive: constants.HTTPDialKeepAlive,
		}).DialContext,
		TLSClientConfig: &tls.Config{
			MinVersion: tls.VersionTLS12,
		},
		MaxIdleConns:          4,
		MaxIdleConnsPerHost:   2,
		IdleConnTimeout:       constants.HTTPIdleConnTimeout,
		TLSHandshakeTimeout:   constants.HTTPTLSHandshakeTimeout,
		ExpectContinueTimeout: constants.HTTPExpectContinueTimeout,
	}

	// Ensure HTTP/2 is properly configured
	_ = http2.ConfigureTransport(transport)

	baseClient := &nethttp.Client{
		Transport: transport,
		Timeout:   constants.HTTPRequestTimeout,
	}

	retryClient := retryablehttp.NewClient()
	retryClient.HTTPClient = baseClient
	retryClient.RetryMax = 0
	retryClient.ErrorHandler = retryablehttp.PassthroughErrorHandler
	retryClient.Logger = newRetryLogger(logger)

	return retryClient.StandardClient()
}
