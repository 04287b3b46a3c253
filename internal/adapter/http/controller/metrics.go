package controller

import (
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/mux"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	httpRequestsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transfer_engine_http_requests_total",
		Help: "Total HTTP requests",
	}, []string{"method", "endpoint", "status"})

	httpLatency = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Name:    "transfer_engine_http_request_duration_seconds",
		Help:    "Request latency",
		Buckets: []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1},
	}, []string{"method", "endpoint"})

	transfersTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Name: "transfer_engine_transfers_total",
		Help: "Processed transfers by terminal status",
	}, []string{"status"})
)

func observeRequest(r *http.Request, status int, start time.Time) {
	endpoint := r.URL.Path
	if route := mux.CurrentRoute(r); route != nil {
		if template, err := route.GetPathTemplate(); err == nil {
			endpoint = template
		}
	}

	httpRequestsTotal.WithLabelValues(r.Method, endpoint, strconv.Itoa(status)).Inc()
	httpLatency.WithLabelValues(r.Method, endpoint).Observe(time.Since(start).Seconds())
}

func observeTransferOutcome(status string) {
	transfersTotal.WithLabelValues(status).Inc()
}
