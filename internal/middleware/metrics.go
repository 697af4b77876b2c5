package middleware

import (
	"github.com/prometheus/client_golang/prometheus"
)

var HttpRequests = prometheus.NewCounterVec(
	prometheus.CounterOpts{
		Name: "minesweeper_http_requests_total",
		Help: "Total HTTP requests handled, by method and status code",
	},
	[]string{"method", "code"},
)

func init() {
	prometheus.MustRegister(HttpRequests)
}
