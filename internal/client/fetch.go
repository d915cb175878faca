package client

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"

	"github.com/Belphemur/CounterView/internal/config"
)

// errBodyConsumed is returned when JSON is called on a response whose body was already read or closed.
var errBodyConsumed = errors.New("response body already consumed")

// Fetch issues a single GET request. No retries are made.
func (c *client) Fetch(ctx context.Context, target string) (Response, error) {
	logger := config.GetLogger()

	endpoint, err := c.resolve(target)
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("User-Agent", c.userAgent)
	req.Header.Set("Accept", "application/json")

	logger.Debug().Str("url", endpoint).Msg("Fetching")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch %s: %w", endpoint, err)
	}

	logger.Debug().Str("url", endpoint).Int("status", resp.StatusCode).Msg("Fetch completed")
	return &httpResponse{resp: resp}, nil
}

// resolve turns target into an absolute URL, resolving paths against the backend origin.
func (c *client) resolve(target string) (string, error) {
	ref, err := url.Parse(target)
	if err != nil {
		return "", fmt.Errorf("invalid fetch URL %q: %w", target, err)
	}
	if ref.IsAbs() {
		return ref.String(), nil
	}
	if c.baseURL == nil {
		return "", fmt.Errorf("cannot resolve %q: no valid backend URL configured", target)
	}
	return c.baseURL.ResolveReference(ref).String(), nil
}

// httpResponse adapts *http.Response to the Response interface
type httpResponse struct {
	resp     *http.Response
	consumed bool
}

func (r *httpResponse) OK() bool {
	return r.resp.StatusCode >= 200 && r.resp.StatusCode <= 299
}

func (r *httpResponse) StatusCode() int {
	return r.resp.StatusCode
}

func (r *httpResponse) JSON(v any) error {
	if r.consumed {
		return errBodyConsumed
	}
	r.consumed = true
	defer r.resp.Body.Close()

	if err := json.NewDecoder(r.resp.Body).Decode(v); err != nil {
		return fmt.Errorf("failed to decode JSON response: %w", err)
	}
	return nil
}

func (r *httpResponse) Close() error {
	if r.consumed {
		return nil
	}
	r.consumed = true
	return r.resp.Body.Close()
}
