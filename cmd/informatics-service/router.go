package main

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/biosmart-lab/informatics/pkg/common/logger"
	"github.com/biosmart-lab/informatics/pkg/gateway/middleware"
	"github.com/biosmart-lab/informatics/pkg/informatics"
	"github.com/biosmart-lab/informatics/pkg/observability/metrics"
	"github.com/gorilla/mux"
)

const readinessTimeout = 2 * time.Second

// readinessCheck checks one backing service. A failing critical check
// makes /ready answer 503; a failing optional one only reports "degraded".
type readinessCheck struct {
	name     string
	critical bool
	ping     func(ctx context.Context) error
}

type routerConfig struct {
	service        *informatics.Service
	recorder       *metrics.Recorder
	validator      middleware.TokenValidator
	checks         []readinessCheck
	rateLimitRPS   int
	rateLimitBurst int
	maxRequestBody int64
}

type readinessResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

// newHandler assembles the service routes. CORS wraps the router so that
// preflight requests are answered before route matching.
func newHandler(rc routerConfig) http.Handler {
	router := mux.NewRouter()
	router.Use(middleware.Logging)
	router.Use(middleware.Recovery)
	router.Use(middleware.Instrument(rc.recorder))
	router.Use(middleware.BodyLimit(rc.maxRequestBody))

	router.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusOK, readinessResponse{Status: "healthy"})
	}).Methods(http.MethodGet)
	router.HandleFunc("/ready", readyHandler(rc.checks)).Methods(http.MethodGet)
	router.Handle("/metrics", rc.recorder.Handler()).Methods(http.MethodGet)

	apiRouter := router.PathPrefix("/api/v1").Subrouter()
	apiRouter.Use(middleware.RateLimit(rc.rateLimitRPS, rc.rateLimitBurst))
	if rc.validator != nil {
		apiRouter.Use(middleware.Authenticate(rc.validator))
	}
	informatics.NewHTTPHandler(rc.service, rc.maxRequestBody).Register(apiRouter)

	return middleware.CORS(router)
}

func readyHandler(checks []readinessCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		resp := readinessResponse{Status: "ready"}
		status := http.StatusOK
		if len(checks) > 0 {
			resp.Checks = make(map[string]string, len(checks))
		}

		for _, c := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), readinessTimeout)
			err := c.ping(ctx)
			cancel()
			if err == nil {
				resp.Checks[c.name] = "ok"
				continue
			}

			logger.Log.WithError(err).WithField("check", c.name).Warn("Readiness check failed")
			resp.Checks[c.name] = "unavailable"
			if c.critical {
				status = http.StatusServiceUnavailable
				resp.Status = "unavailable"
			} else if resp.Status == "ready" {
				resp.Status = "degraded"
			}
		}

		writeStatus(w, status, resp)
	}
}

func writeStatus(w http.ResponseWriter, status int, resp readinessResponse) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(resp); err != nil {
		logger.Log.WithError(err).Error("failed to write status response")
	}
}
