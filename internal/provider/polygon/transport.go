package polygon

import (
	"net/http"
	"time"
)

// DefaultTimeout bounds a single aggregates request including body read.
const DefaultTimeout = 2 * time.Minute

// baseTransportConfig returns the HTTP transport used by the REST client.
// One fetch is a short sequential burst, so connections are not pooled.
func baseTransportConfig() *http.Transport {
	return &http.Transport{
		Proxy:                 http.ProxyFromEnvironment,
		ResponseHeaderTimeout: time.Minute,
		TLSHandshakeTimeout:   10 * time.Second,
		DisableKeepAlives:     true,
	}
}

// newHTTPClient creates an HTTP client configured for Polygon requests.
func newHTTPClient(timeout time.Duration) *http.Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &http.Client{
		Transport: baseTransportConfig(),
		Timeout:   timeout,
	}
}
