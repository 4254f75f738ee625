package metrics

import (
	"errors"
	"net/http"
	"strconv"
	"sync"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mintly/mintly-api/internal/domain"
)

const namespace = "mintly"

type registry struct {
	ledgerOps      *prometheus.CounterVec
	ledgerLatency  *prometheus.HistogramVec
	httpRequests   *prometheus.CounterVec
	httpLatency    *prometheus.HistogramVec
	idempotentHits prometheus.Counter
	throttled      prometheus.Counter
}

var (
	once sync.Once
	reg  *registry
)

func metrics() *registry {
	once.Do(func() {
		reg = &registry{
			ledgerOps: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "operations_total",
				Help:      "Ledger mutations segmented by operation and outcome.",
			}, []string{"operation", "outcome"}),
			ledgerLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "ledger",
				Name:      "operation_duration_seconds",
				Help:      "Latency of ledger mutations including lock waits.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"operation"}),
			httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "requests_total",
				Help:      "HTTP requests segmented by route, method and status.",
			}, []string{"route", "method", "status"}),
			httpLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "request_duration_seconds",
				Help:      "Duration of HTTP requests in seconds.",
				Buckets:   prometheus.DefBuckets,
			}, []string{"route", "method"}),
			idempotentHits: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "idempotent_replays_total",
				Help:      "Responses replayed for a repeated Idempotency-Key.",
			}),
			throttled: prometheus.NewCounter(prometheus.CounterOpts{
				Namespace: namespace,
				Subsystem: "http",
				Name:      "throttled_total",
				Help:      "Requests rejected by the rate limiter.",
			}),
		}
		prometheus.MustRegister(
			reg.ledgerOps,
			reg.ledgerLatency,
			reg.httpRequests,
			reg.httpLatency,
			reg.idempotentHits,
			reg.throttled,
		)
	})

	return reg
}

// Outcome names the error class of err, or "ok" when err is nil.
func Outcome(err error) string {
	switch {
	case err == nil:
		return "ok"
	case errors.Is(err, domain.ErrValidation):
		return "validation"
	case errors.Is(err, domain.ErrNotFound):
		return "not_found"
	case errors.Is(err, domain.ErrInsufficientFunds):
		return "insufficient_funds"
	case errors.Is(err, domain.ErrState):
		return "state"
	case errors.Is(err, domain.ErrConcurrency):
		return "busy"
	case errors.Is(err, domain.ErrUnauthorized):
		return "unauthorized"
	default:
		return "error"
	}
}

func ObserveLedgerOperation(operation string, err error, elapsed time.Duration) {
	m := metrics()
	m.ledgerOps.WithLabelValues(operation, Outcome(err)).Inc()
	m.ledgerLatency.WithLabelValues(operation).Observe(elapsed.Seconds())
}

func ObserveHTTPRequest(route, method string, status int, elapsed time.Duration) {
	m := metrics()
	m.httpRequests.WithLabelValues(route, method, strconv.Itoa(status)).Inc()
	m.httpLatency.WithLabelValues(route, method).Observe(elapsed.Seconds())
}

func IncIdempotentReplay() {
	metrics().idempotentHits.Inc()
}

func IncThrottled() {
	metrics().throttled.Inc()
}

// Handler serves the default registry.
func Handler() http.Handler {
	metrics()

	return promhttp.Handler()
}
