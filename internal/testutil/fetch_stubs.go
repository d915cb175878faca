package testutil

import (
	"context"
	"encoding/json"
	"sync"
	"testing"

	"github.com/Belphemur/CounterView/internal/client"
)

// StubResponse is a substitute client.Response with a canned status and body.
// This is a test helper and should not be used in production code.
type StubResponse struct {
	Ok     bool
	Status int
	Body   string

	// When ForbidJSON is set, decoding the body fails T.
	T          *testing.T
	ForbidJSON bool

	JSONCalls int
	Closed    bool
}

func (r *StubResponse) OK() bool        { return r.Ok }
func (r *StubResponse) StatusCode() int { return r.Status }

func (r *StubResponse) Close() error {
	r.Closed = true
	return nil
}

func (r *StubResponse) JSON(v any) error {
	r.JSONCalls++
	if r.ForbidJSON && r.T != nil {
		r.T.Error("Expected body not to be read for an unsuccessful response")
	}
	return json.Unmarshal([]byte(r.Body), v)
}

// OKResponse returns a 200 response with the given body.
func OKResponse(body string) *StubResponse {
	return &StubResponse{Ok: true, Status: 200, Body: body}
}

// ErrorResponse returns a non-2xx response whose body must never be decoded.
func ErrorResponse(t *testing.T, status int, body string) *StubResponse {
	return &StubResponse{Ok: false, Status: status, Body: body, T: t, ForbidJSON: true}
}

// FetchRecorder is a substitute fetch capability that answers every call
// with the same canned outcome and records the requested URLs.
type FetchRecorder struct {
	Resp client.Response
	Err  error

	mu   sync.Mutex
	urls []string
}

// NewFetchRecorder creates a FetchRecorder answering with resp and err.
// A nil resp is returned as a nil client.Response.
func NewFetchRecorder(resp *StubResponse, err error) *FetchRecorder {
	r := &FetchRecorder{Err: err}
	if resp != nil {
		r.Resp = resp
	}
	return r
}

func (r *FetchRecorder) Fetch(ctx context.Context, url string) (client.Response, error) {
	r.mu.Lock()
	r.urls = append(r.urls, url)
	r.mu.Unlock()
	return r.Resp, r.Err
}

// Calls returns the number of fetches made.
func (r *FetchRecorder) Calls() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.urls)
}

// URLs returns the requested URLs in call order.
func (r *FetchRecorder) URLs() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.urls...)
}
