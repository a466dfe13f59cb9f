package lifecycle

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Proton-105/arcade-bot/internal/health"
	"github.com/Proton-105/arcade-bot/internal/middleware"
	"github.com/Proton-105/arcade-bot/pkg/logger"
)

type probeResponse struct {
	Status string          `json:"status"`
	Error  string          `json:"error,omitempty"`
	Checks []health.Result `json:"checks,omitempty"`
}

// NewRouter exposes metrics and probes on the operational HTTP port.
func NewRouter(probes *Probes, log *slog.Logger) http.Handler {
	if log == nil {
		log = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chiMiddleware.RealIP)
	r.Use(logger.Middleware)
	r.Use(middleware.AccessLog(log))
	r.Use(chiMiddleware.Recoverer)

	r.Handle("/metrics", promhttp.Handler())

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if err := probes.Liveness(req.Context()); err != nil {
			writeProbe(w, http.StatusServiceUnavailable, probeResponse{Status: "failed", Error: err.Error()})
			return
		}
		writeProbe(w, http.StatusOK, probeResponse{Status: "ok"})
	})

	r.Get("/readyz", func(w http.ResponseWriter, req *http.Request) {
		checks, err := probes.Readiness(req.Context())
		if err != nil {
			writeProbe(w, http.StatusServiceUnavailable, probeResponse{Status: "failed", Error: err.Error(), Checks: checks})
			return
		}
		writeProbe(w, http.StatusOK, probeResponse{Status: "ok", Checks: checks})
	})

	return r
}

func writeProbe(w http.ResponseWriter, status int, body probeResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
