package wsclient

import (
	"crypto/tls"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"golang.org/x/time/rate"
)

// Option configures a Client before its first connection attempt.
type Option func(c *Client)

// WithLogger replaces the default console logger.
func WithLogger(logger *log.Logger) Option {
	return func(c *Client) {
		c.logger = logger
	}
}

// WithPrefix sets the prefix of the default logger.
func WithPrefix(prefix string) Option {
	return func(c *Client) {
		c.prefix = prefix
	}
}

// WithHeader sets extra handshake headers. They are merged with the fixed
// defaults on every connect and reconnect, caller values winning on
// collision.
func WithHeader(header http.Header) Option {
	return func(c *Client) {
		c.header = header
	}
}

// WithTLSConfig sets the TLS configuration used for wss URLs.
func WithTLSConfig(cfg *tls.Config) Option {
	return func(c *Client) {
		c.tlsConfig = cfg
	}
}

// WithDialTimeout bounds the opening handshake.
func WithDialTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.dialTimeout = timeout
	}
}

// WithPingInterval sets the keepalive ping period.
func WithPingInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.pingInterval = interval
	}
}

// WithPingTimeout bounds how long Ping waits for the matching pong.
func WithPingTimeout(timeout time.Duration) Option {
	return func(c *Client) {
		c.pingTimeout = timeout
	}
}

// WithReconnectInterval sets the fixed wait before an automatic reconnect.
func WithReconnectInterval(interval time.Duration) Option {
	return func(c *Client) {
		c.reconnectInterval = interval
	}
}

// WithMaxReconnectAttempts bounds the automatic reconnect budget. Once the
// budget is spent the client stays disconnected until Connect is called
// again.
func WithMaxReconnectAttempts(n int) Option {
	return func(c *Client) {
		c.maxReconnects = n
	}
}

// WithSendLimit throttles outbound sends with the given limiter.
func WithSendLimit(limiter *rate.Limiter) Option {
	return func(c *Client) {
		c.limiter = limiter
	}
}
