package httpx

import (
	"bytes"
	"context"
	"io"
	"net/http"
	"time"
)

// NetHTTPDoer is the default transport adapter over net/http.
type NetHTTPDoer struct {
	client *http.Client
}

func NewNetHTTP(timeout time.Duration) *NetHTTPDoer {
	return &NetHTTPDoer{client: &http.Client{Timeout: timeout}}
}

func (d *NetHTTPDoer) Do(ctx context.Context, method, url string, header http.Header, body []byte) (*Response, error) {
	var rd io.Reader
	if len(body) > 0 {
		rd = bytes.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, url, rd)
	if err != nil {
		return nil, err
	}
	for k, vs := range header {
		req.Header[k] = append([]string(nil), vs...)
	}
	res, err := d.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer res.Body.Close()
	b, err := io.ReadAll(res.Body)
	if err != nil {
		return nil, err
	}
	return &Response{Status: res.StatusCode, Body: b, Header: res.Header.Clone()}, nil
}
