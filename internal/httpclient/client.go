// Package httpclient provides the shared HTTP client used for all outbound
// calls (model API, social platform APIs, image fetches).
package httpclient

import (
	"net/http"
	"time"
)

const (
	// DefaultTimeout is the default timeout for HTTP requests.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxIdleConns is the default maximum number of idle connections.
	DefaultMaxIdleConns = 100

	// DefaultMaxIdleConnsPerHost is the default maximum number of idle connections per host.
	DefaultMaxIdleConnsPerHost = 10

	// DefaultIdleConnTimeout is the default idle connection timeout.
	DefaultIdleConnTimeout = 90 * time.Second

	// DefaultTLSHandshakeTimeout is the default TLS handshake timeout.
	DefaultTLSHandshakeTimeout = 10 * time.Second
)

// Config configures an HTTP client.
type Config struct {
	// Timeout specifies a time limit for requests made by this client.
	// Zero means DefaultTimeout.
	Timeout time.Duration

	// MaxIdleConns controls the maximum number of idle connections across all hosts.
	MaxIdleConns int

	// MaxIdleConnsPerHost controls the maximum idle connections per host.
	MaxIdleConnsPerHost int

	// IdleConnTimeout is how long an idle connection remains open.
	IdleConnTimeout time.Duration
}

// New creates an HTTP client with standardized transport settings.
// If cfg is nil, defaults are used.
func New(cfg *Config) *http.Client {
	if cfg == nil {
		cfg = &Config{}
	}

	timeout := cfg.Timeout
	if timeout == 0 {
		timeout = DefaultTimeout
	}

	maxIdleConns := cfg.MaxIdleConns
	if maxIdleConns == 0 {
		maxIdleConns = DefaultMaxIdleConns
	}

	maxIdleConnsPerHost := cfg.MaxIdleConnsPerHost
	if maxIdleConnsPerHost == 0 {
		maxIdleConnsPerHost = DefaultMaxIdleConnsPerHost
	}

	idleConnTimeout := cfg.IdleConnTimeout
	if idleConnTimeout == 0 {
		idleConnTimeout = DefaultIdleConnTimeout
	}

	return &http.Client{
		Timeout: timeout,
		Transport: &http.Transport{
			MaxIdleConns:        maxIdleConns,
			MaxIdleConnsPerHost: maxIdleConnsPerHost,
			IdleConnTimeout:     idleConnTimeout,
			TLSHandshakeTimeout: DefaultTLSHandshakeTimeout,
		},
	}
}

// NewDefault creates an HTTP client with all default settings.
func NewDefault() *http.Client {
	return New(nil)
}
