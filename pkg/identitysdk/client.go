package identitysdk

import (
	"fmt"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"
)

const (
	// DefaultTimeout bounds a single HTTP exchange.
	DefaultTimeout = 30 * time.Second

	// DefaultMaxRetries is how many times a retryable failure is repeated.
	DefaultMaxRetries = 3

	defaultRetryInterval = 200 * time.Millisecond
)

// Client talks to one identity service instance.
type Client struct {
	BaseURL    string
	HTTPClient *http.Client

	// MaxRetries of zero disables retries.
	MaxRetries int

	// RetryInitialInterval is the first backoff delay; it grows
	// exponentially from there.
	RetryInitialInterval time.Duration
}

// NewClient returns a client with the default timeout and retry policy.
func NewClient(baseURL string) *Client {
	return &Client{
		BaseURL:              strings.TrimSuffix(baseURL, "/"),
		HTTPClient:           &http.Client{Timeout: DefaultTimeout},
		MaxRetries:           DefaultMaxRetries,
		RetryInitialInterval: defaultRetryInterval,
	}
}

// BaseURLFor builds a base URL from a host name and optional port. A port
// of zero selects the scheme's default.
func BaseURLFor(host string, port int, useHTTPS bool) (string, error) {
	host = strings.TrimSpace(host)
	if host == "" {
		return "", fmt.Errorf("%w: host is required", ErrInvalidArgument)
	}
	if strings.ContainsAny(host, "/?#@ ") {
		return "", fmt.Errorf("%w: invalid server address %q", ErrInvalidArgument, host)
	}
	if port < 0 || port > 65535 {
		return "", fmt.Errorf("%w: port %d out of range", ErrInvalidArgument, port)
	}

	scheme, defaultPort := "http", 80
	if useHTTPS {
		scheme, defaultPort = "https", 443
	}
	if port == 0 {
		port = defaultPort
	}

	u := url.URL{Scheme: scheme, Host: net.JoinHostPort(host, strconv.Itoa(port))}
	return u.String(), nil
}
