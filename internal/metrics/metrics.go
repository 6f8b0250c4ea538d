// Package metrics holds the prometheus collectors exported at /metrics.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

type Metrics struct {
	Requests        *prometheus.CounterVec
	RequestDuration *prometheus.HistogramVec
	PollVotes       *prometheus.CounterVec
	VoteConflicts   prometheus.Counter
}

// New creates the collectors and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Requests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hobbyhub_http_requests_total",
			Help: "HTTP requests by method, route and status code.",
		}, []string{"method", "route", "status"}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "hobbyhub_http_request_duration_seconds",
			Help:    "HTTP request latency by method and route.",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		PollVotes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "hobbyhub_poll_votes_total",
			Help: "Poll vote attempts by outcome.",
		}, []string{"outcome"}),
		VoteConflicts: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "hobbyhub_vote_conflicts_total",
			Help: "Poll vote transactions retried because of a concurrent writer.",
		}),
	}

	reg.MustRegister(m.Requests, m.RequestDuration, m.PollVotes, m.VoteConflicts)
	return m
}
