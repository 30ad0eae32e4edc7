package httputil

import (
	"net"
	"net/http"
	"time"
)

// NewClient returns an HTTP client with an overall request timeout and
// bounded dial/TLS phases. The remote APIs this bot talks to give no
// guarantee of answering; an unbounded client could stall a whole pass.
func NewClient(timeout time.Duration) *http.Client {
	tr := &http.Transport{
		Proxy:               http.ProxyFromEnvironment,
		DialContext:         (&net.Dialer{Timeout: 5 * time.Second, KeepAlive: 60 * time.Second}).DialContext,
		MaxIdleConns:        100,
		IdleConnTimeout:     90 * time.Second,
		TLSHandshakeTimeout: 5 * time.Second,
	}
	return &http.Client{Timeout: timeout, Transport: tr}
}
