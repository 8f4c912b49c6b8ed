package httpx

import (
	"context"
	"net/http"
	"time"

	"github.com/valyala/fasthttp"
)

// FastHTTPDoer is the fasthttp-backed transport adapter. fasthttp has no
// native context support, so the context deadline is translated into a
// per-request timeout.
type FastHTTPDoer struct {
	client  *fasthttp.Client
	timeout time.Duration
}

func NewFastHTTP(timeout time.Duration) *FastHTTPDoer {
	return &FastHTTPDoer{client: &fasthttp.Client{}, timeout: timeout}
}

func (d *FastHTTPDoer) Do(ctx context.Context, method, url string, header http.Header, body []byte) (*Response, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	timeout := d.timeout
	if dl, ok := ctx.Deadline(); ok {
		if rem := time.Until(dl); rem < timeout {
			timeout = rem
		}
	}

	req := fasthttp.AcquireRequest()
	res := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(res)

	req.Header.SetMethod(method)
	req.SetRequestURI(url)
	for k, vs := range header {
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	if len(body) > 0 {
		req.SetBody(body)
	}

	if err := d.client.DoTimeout(req, res, timeout); err != nil {
		return nil, err
	}

	out := &Response{Status: res.StatusCode(), Body: append([]byte(nil), res.Body()...), Header: make(http.Header)}
	res.Header.VisitAll(func(k, v []byte) {
		out.Header.Add(string(k), string(v))
	})
	return out, nil
}
