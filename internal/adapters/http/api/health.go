package api

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/okian/syncsix/pkg/metrics"
)

// HandleHealth serves the custom Prometheus registry.
func HandleHealth() http.Handler {
	return promhttp.HandlerFor(metrics.GetRegistry(), promhttp.HandlerOpts{})
}
