package handlers

import (
	"net/http"

	"food-dispatch/internal/logx"
)

// Probes serves the unauthenticated liveness routes and the JSON fallbacks for
// unknown routes and methods.
type Probes struct {
	logger logx.Logger
}

// NewProbes returns Probes. A nil logger discards.
func NewProbes(logger logx.Logger) *Probes {
	if logger == nil {
		logger = logx.Nop()
	}
	return &Probes{logger: logger}
}

// Ping answers GET /ping with {"message":"pong"}.
func (p *Probes) Ping(w http.ResponseWriter, r *http.Request) {
	writeJSON(p.logger, w, r, http.StatusOK, map[string]string{"message": "pong"})
}

// Healthcheck answers HEAD /healthcheck with 204 and no body.
func (p *Probes) Healthcheck(w http.ResponseWriter, _ *http.Request) {
	w.WriteHeader(http.StatusNoContent)
}

func (p *Probes) NotFound(w http.ResponseWriter, r *http.Request) {
	writeError(p.logger, w, r, http.StatusNotFound, "route not found")
}

func (p *Probes) MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	writeError(p.logger, w, r, http.StatusMethodNotAllowed, "method not allowed")
}
