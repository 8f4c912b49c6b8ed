package httpx

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestAdapters(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("X-Check") != "oui" {
			t.Errorf("header not forwarded")
		}
		body, _ := io.ReadAll(r.Body)
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write(append([]byte(r.Method+" "), body...))
	}))
	defer srv.Close()

	for _, name := range []string{"nethttp", "fasthttp"} {
		t.Run(name, func(t *testing.T) {
			d, err := New(name, time.Second)
			if err != nil {
				t.Fatalf("New(%q): %v", name, err)
			}
			hdr := make(http.Header)
			hdr.Set("X-Check", "oui")
			res, err := d.Do(context.Background(), http.MethodPost, srv.URL, hdr, []byte("ping"))
			if err != nil {
				t.Fatalf("Do: %v", err)
			}
			if res.Status != http.StatusCreated {
				t.Fatalf("status = %d", res.Status)
			}
			if got := string(res.Body); got != "POST ping" {
				t.Fatalf("body = %q", got)
			}
		})
	}
}

func TestNewUnknownTransport(t *testing.T) {
	if _, err := New("carrier-pigeon", 0); err == nil {
		t.Fatal("expected error for unknown transport")
	}
}

func TestCancelledContext(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	defer srv.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	for _, name := range []string{"nethttp", "fasthttp"} {
		d, err := New(name, time.Second)
		if err != nil {
			t.Fatal(err)
		}
		if _, err := d.Do(ctx, http.MethodGet, srv.URL, nil, nil); err == nil {
			t.Errorf("%s: expected error from cancelled context", name)
		}
	}
}
