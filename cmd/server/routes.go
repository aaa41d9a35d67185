package main

import (
	"net/http"
	"strings"

	"github.com/JaimeStill/color-lab/internal/infrastructure"
	"github.com/JaimeStill/color-lab/pkg/lifecycle"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// buildRouter mounts the infrastructure endpoints alongside the API handler.
func buildRouter(infra *infrastructure.Infrastructure, basePath string, apiHandler http.Handler) http.Handler {
	mux := http.NewServeMux()

	mux.HandleFunc("GET /healthz", handleHealthCheck)
	mux.HandleFunc("GET /readyz", func(w http.ResponseWriter, r *http.Request) {
		handleReadinessCheck(w, infra.Lifecycle)
	})
	mux.Handle("GET /metrics", promhttp.HandlerFor(infra.Metrics, promhttp.HandlerOpts{
		Registry: infra.Metrics,
	}))

	base := strings.TrimSuffix(basePath, "/")
	mux.Handle(base, apiHandler)
	mux.Handle(base+"/", apiHandler)

	return mux
}

// handleHealthCheck responds with OK status for health monitoring.
func handleHealthCheck(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("OK"))
}

func handleReadinessCheck(w http.ResponseWriter, ready lifecycle.ReadinessChecker) {
	if !ready.Ready() {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte("NOT READY"))
		return
	}

	w.WriteHeader(http.StatusOK)
	w.Write([]byte("READY"))
}
