package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

var (
	HTTPRequests = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "toyfactory", Name: "http_requests_total", Help: "Number of HTTP requests by method, route and status."},
		[]string{"method", "route", "status"},
	)
	ToyOperations = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "toyfactory", Name: "toy_operations_total", Help: "Number of toy store operations by operation and result."},
		[]string{"operation", "result"},
	)
	CacheLookups = prometheus.NewCounterVec(
		prometheus.CounterOpts{Namespace: "toyfactory", Name: "cache_lookups_total", Help: "Number of toy list cache lookups by result (hit, miss, error)."},
		[]string{"result"},
	)
)

func RegisterCollectors(reg prometheus.Registerer) {
	reg.MustRegister(HTTPRequests)
	reg.MustRegister(ToyOperations)
	reg.MustRegister(CacheLookups)
}
