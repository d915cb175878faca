package client

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/Belphemur/CounterView/internal/config"
)

// Response is the outcome of a single fetch.
// The body is only read when JSON is called.
type Response interface {
	// OK reports whether the status is in the 2xx range.
	OK() bool
	StatusCode() int
	// JSON decodes the body into v. It may be called at most once.
	JSON(v any) error
	// Close releases the body without reading it.
	Close() error
}

// Client is the fetch capability the loader depends on.
// url may be absolute or a path relative to the backend origin.
type Client interface {
	Fetch(ctx context.Context, url string) (Response, error)
}

// Func adapts a plain function to the Client interface, so tests and
// callers can substitute the capability without an HTTP stack.
type Func func(ctx context.Context, url string) (Response, error)

// Fetch calls f(ctx, url).
func (f Func) Fetch(ctx context.Context, url string) (Response, error) {
	return f(ctx, url)
}

// client implements the Client interface over net/http
type client struct {
	httpClient *http.Client
	baseURL    *url.URL
	userAgent  string
}

// NewClient creates a new HTTP fetch capability with proxy configuration if provided
func NewClient(cfg *config.Config) Client {
	logger := config.GetLogger()

	timeout := 30 * time.Second
	if cfg.ClientTimeout != "" {
		if parsedTimeout, err := time.ParseDuration(cfg.ClientTimeout); err != nil {
			logger.Warn().Err(err).Str("timeout", cfg.ClientTimeout).Msg("Invalid timeout duration, using default 30s")
		} else {
			timeout = parsedTimeout
		}
	}

	// Clone DefaultTransport to keep its pooling and HTTP/2 settings
	baseTransport := http.DefaultTransport.(*http.Transport).Clone()

	if cfg.ProxyConnectionString != "" {
		proxyURL, err := url.Parse(cfg.ProxyConnectionString)
		if err != nil {
			logger.Warn().Err(err).Str("proxy", cfg.ProxyConnectionString).Msg("Invalid proxy URL, continuing without proxy")
		} else {
			baseTransport.Proxy = http.ProxyURL(proxyURL)
		}
	}

	backend := cfg.BackendURL
	if backend == "" {
		backend = config.DefaultBackendURL
	}
	baseURL, err := url.Parse(backend)
	if err != nil {
		logger.Warn().Err(err).Str("backend_url", backend).Msg("Invalid backend URL, relative fetches will fail")
		baseURL = nil
	}

	userAgent := cfg.UserAgent
	if userAgent == "" {
		userAgent = config.GetUserAgent()
	}

	return &client{
		httpClient: &http.Client{
			Timeout:   timeout,
			Transport: newCompressionTransport(baseTransport),
		},
		baseURL:   baseURL,
		userAgent: userAgent,
	}
}
