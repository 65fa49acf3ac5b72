package cmd

import (
	"encoding/json"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/paw-chain/ammpool/app"
)

var (
	startTime = time.Now()

	invariantsBroken = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: "ammpool",
		Name:      "invariants_broken",
		Help:      "Number of invariants failing at the last check",
	})

	healthCheckTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Namespace: "ammpool",
			Name:      "health_check_total",
			Help:      "Total number of health check requests",
		},
		[]string{"status"},
	)
)

// HealthResponse is served on /health.
type HealthResponse struct {
	Status     string   `json:"status"`
	Version    int64    `json:"version"`
	Uptime     string   `json:"uptime"`
	Invariants int      `json:"invariants"`
	Broken     []string `json:"broken,omitempty"`
}

// healthHandler reports the committed store version and invariant status.
// It answers 503 while any invariant is broken.
func healthHandler(a *app.App) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		broken := a.CheckInvariants()
		invariantsBroken.Set(float64(len(broken)))

		resp := HealthResponse{
			Status:     "healthy",
			Version:    a.LastCommitID().Version,
			Uptime:     time.Since(startTime).Round(time.Second).String(),
			Invariants: len(a.InvariantRoutes()),
			Broken:     broken,
		}
		code := http.StatusOK
		if len(broken) > 0 {
			resp.Status = "unhealthy"
			code = http.StatusServiceUnavailable
		}
		healthCheckTotal.WithLabelValues(resp.Status).Inc()

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(code)
		_ = json.NewEncoder(w).Encode(resp)
	}
}
