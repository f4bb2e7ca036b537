package api

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/sony/gobreaker"
)

// Operation labels. Paths carry ids, so they are never used as labels.
const (
	opListArticles = "list_articles"
	opGetArticle   = "get_article"
	opListComments = "list_comments"
	opPostComment  = "post_comment"
)

type requestOutcome int

const (
	outcomeResponse  requestOutcome = iota // a status code came back
	outcomeTransport                       // no response
	outcomeRejected                        // refused by the circuit breaker
)

// Prometheus metrics for the articles API client
var (
	// apiRequestsTotal counts requests per operation and result
	apiRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_api_requests_total",
			Help: "Total number of articles API requests",
		},
		[]string{"op", "status"}, // status: HTTP code|transport|rejected
	)

	// apiRequestDuration tracks round-trip time of answered and failed requests
	apiRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "newsroom_api_request_duration_seconds",
			Help:    "Articles API request duration in seconds",
			Buckets: []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"op"},
	)

	// apiRetriesTotal counts read retries
	apiRetriesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "newsroom_api_retries_total",
			Help: "Total number of retried articles API reads",
		},
		[]string{"op"},
	)

	// apiCircuitBreakerState is 0 closed, 1 half-open, 2 open
	apiCircuitBreakerState = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "newsroom_api_circuit_breaker_state",
			Help: "Articles API circuit breaker state (0 closed, 1 half-open, 2 open)",
		},
	)
)

func recordRequest(op string, status int, elapsed time.Duration, outcome requestOutcome) {
	switch outcome {
	case outcomeRejected:
		apiRequestsTotal.WithLabelValues(op, "rejected").Inc()
		return
	case outcomeTransport:
		apiRequestsTotal.WithLabelValues(op, "transport").Inc()
	default:
		apiRequestsTotal.WithLabelValues(op, strconv.Itoa(status)).Inc()
	}
	apiRequestDuration.WithLabelValues(op).Observe(elapsed.Seconds())
}

func recordRetry(op string) {
	apiRetriesTotal.WithLabelValues(op).Inc()
}

func recordBreakerState(state gobreaker.State) {
	switch state {
	case gobreaker.StateOpen:
		apiCircuitBreakerState.Set(2)
	case gobreaker.StateHalfOpen:
		apiCircuitBreakerState.Set(1)
	default:
		apiCircuitBreakerState.Set(0)
	}
}
