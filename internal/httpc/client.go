// Package httpc provides HTTP and WebSocket clients with timeouts set.
// Use these instead of http.DefaultClient and websocket.DefaultDialer.
package httpc

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// Default timeouts for network operations.
const (
	DefaultTimeout          = 30 * time.Second
	DefaultConnectTimeout   = 10 * time.Second
	DefaultKeepAlive        = 30 * time.Second
	DefaultHandshakeTimeout = 10 * time.Second
)

func netDialer() *net.Dialer {
	return &net.Dialer{
		Timeout:   DefaultConnectTimeout,
		KeepAlive: DefaultKeepAlive,
	}
}

// Client is a shared HTTP client.
var Client = &http.Client{
	Timeout: DefaultTimeout,
	Transport: &http.Transport{
		DialContext:         netDialer().DialContext,
		MaxIdleConnsPerHost: 4,
		TLSHandshakeTimeout: DefaultHandshakeTimeout,
	},
}

// Dialer is a shared WebSocket dialer.
var Dialer = &websocket.Dialer{
	NetDialContext:   netDialer().DialContext,
	HandshakeTimeout: DefaultHandshakeTimeout,
}

// HTTPURL maps a ws:// or wss:// URL to the http(s) URL of path on the
// same host.
func HTTPURL(wsURL, path string) (string, error) {
	u, err := url.Parse(wsURL)
	if err != nil {
		return "", err
	}
	switch u.Scheme {
	case "ws":
		u.Scheme = "http"
	case "wss":
		u.Scheme = "https"
	case "http", "https":
	default:
		return "", fmt.Errorf("httpc: unsupported scheme %q", u.Scheme)
	}
	u.Path = path
	u.RawQuery = ""
	return u.String(), nil
}
