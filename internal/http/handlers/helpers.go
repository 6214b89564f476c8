package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5/middleware"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/logx"
)

// DriverHeader carries the authenticated driver id set by the gateway in front of the API.
const DriverHeader = "X-Driver-ID"

func reqID(ctx context.Context) string {
	if id := middleware.GetReqID(ctx); id != "" {
		return id
	}
	return "-"
}

func writeJSON(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		logger.Warn("json encode error", logx.String("req_id", reqID(r.Context())), logx.Err(err))
	}
}

type errResponse struct {
	Error string `json:"error"`
}

func writeError(logger logx.Logger, w http.ResponseWriter, r *http.Request, status int, msg string) {
	logger.Debug("http error",
		logx.String("req_id", reqID(r.Context())),
		logx.Int("status", status),
		logx.String("msg", msg),
	)
	writeJSON(logger, w, r, status, errResponse{Error: msg})
}

// writeAppError maps service errors onto HTTP statuses.
func writeAppError(logger logx.Logger, w http.ResponseWriter, r *http.Request, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalid):
		writeError(logger, w, r, http.StatusBadRequest, "invalid input")
	case errors.Is(err, apperr.ErrContractInactive):
		writeError(logger, w, r, http.StatusForbidden, "driver contract inactive")
	case errors.Is(err, apperr.ErrNotFound):
		writeError(logger, w, r, http.StatusNotFound, "not found")
	case errors.Is(err, apperr.ErrInvalidState):
		writeError(logger, w, r, http.StatusConflict, "invalid state")
	case errors.Is(err, apperr.ErrNoCourierAvailable):
		writeError(logger, w, r, http.StatusConflict, "no courier available")
	case errors.Is(err, apperr.ErrCancelled):
		writeError(logger, w, r, http.StatusConflict, "order cancelled")
	default:
		logger.Error("request failed", logx.String("req_id", reqID(r.Context())),
			logx.String("path", r.URL.Path), logx.Err(err))
		writeError(logger, w, r, http.StatusInternalServerError, "internal error")
	}
}

const (
	bodyLimit = 1 << 20
)

func decodeJSON[T any](logger logx.Logger, w http.ResponseWriter, r *http.Request, dst *T) bool {
	r.Body = http.MaxBytesReader(w, r.Body, bodyLimit)
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	if err := dec.Decode(dst); err != nil {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json")
		return false
	}
	if err := dec.Decode(new(struct{})); err != io.EOF {
		writeError(logger, w, r, http.StatusBadRequest, "invalid json: trailing data")
		return false
	}
	return true
}

func driverID(logger logx.Logger, w http.ResponseWriter, r *http.Request) (string, bool) {
	id := strings.TrimSpace(r.Header.Get(DriverHeader))
	if id == "" {
		writeError(logger, w, r, http.StatusUnauthorized, "missing driver identity")
		return "", false
	}
	return id, true
}
