// Package httpx abstracts the outgoing HTTP transport so callers can pick
// between net/http and fasthttp without touching request logic.
package httpx

import (
	"context"
	"fmt"
	"net/http"
	"time"
)

// Response is the unified response representation returned by adapters.
type Response struct {
	Status int
	Body   []byte
	Header http.Header
}

// Doer issues one HTTP request. Implementations must honor the context's
// deadline and cancellation and must always return a fully read body.
type Doer interface {
	Do(ctx context.Context, method, url string, header http.Header, body []byte) (*Response, error)
}

// DefaultTimeout bounds a single request when the caller's context carries
// no deadline of its own.
const DefaultTimeout = 15 * time.Second

// New returns the adapter selected by name: "nethttp" (also the empty
// string) or "fasthttp".
func New(name string, timeout time.Duration) (Doer, error) {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	switch name {
	case "", "nethttp":
		return NewNetHTTP(timeout), nil
	case "fasthttp":
		return NewFastHTTP(timeout), nil
	}
	return nil, fmt.Errorf("unknown transport %q", name)
}
