// Package metrics exposes counters for the polling and send paths.
package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"classechat/pkg/logger"
)

var (
	Polls = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classechat_polls_total",
		Help: "Feed fetches by outcome (ok, error).",
	}, []string{"outcome"})

	Sends = prometheus.NewCounterVec(prometheus.CounterOpts{
		Name: "classechat_sends_total",
		Help: "Message sends by outcome (ok, error, rejected).",
	}, []string{"outcome"})

	StaleFetches = prometheus.NewCounter(prometheus.CounterOpts{
		Name: "classechat_stale_fetches_discarded_total",
		Help: "Fetch results discarded because a newer fetch had started.",
	})
)

func init() {
	prometheus.MustRegister(Polls, Sends, StaleFetches)
}

// Serve starts a debug listener exposing /metrics on addr. It returns
// immediately; the listener runs until the process exits.
func Serve(addr string) {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())
	go func() {
		if err := http.ListenAndServe(addr, mux); err != nil {
			logger.Log.Warn("metrics listener stopped", "addr", addr, "err", err)
		}
	}()
}
