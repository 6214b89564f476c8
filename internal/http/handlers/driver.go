package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
)

// DriverHandler serves driver-facing endpoints. The driver is identified by DriverHeader.
type DriverHandler struct {
	usecase driverUsecase
	logger  logx.Logger
}

// NewDriverHandler creates a new DriverHandler.
func NewDriverHandler(logger logx.Logger, uc driverUsecase) *DriverHandler {
	return &DriverHandler{usecase: uc, logger: logger}
}

// Online handles POST /driver/online. The body with lat and lng is optional.
func (h *DriverHandler) Online(w http.ResponseWriter, r *http.Request) {
	id, ok := driverID(h.logger, w, r)
	if !ok {
		return
	}
	var req goOnlineRequest
	if r.ContentLength != 0 {
		if ok := decodeJSON(h.logger, w, r, &req); !ok {
			return
		}
	}
	if (req.Lat == nil) != (req.Lng == nil) {
		writeError(h.logger, w, r, http.StatusBadRequest, "lat and lng go together")
		return
	}
	var pos *domain.Point
	if req.Lat != nil {
		pos = &domain.Point{Lat: *req.Lat, Lng: *req.Lng}
	}

	p, err := h.usecase.GoOnline(r.Context(), id, pos)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, presenceToResponse(*p))
}

// Offline handles POST /driver/offline.
func (h *DriverHandler) Offline(w http.ResponseWriter, r *http.Request) {
	h.presence(w, r, h.usecase.GoOffline)
}

// Status handles GET /driver/status.
func (h *DriverHandler) Status(w http.ResponseWriter, r *http.Request) {
	h.presence(w, r, h.usecase.Status)
}

func (h *DriverHandler) presence(w http.ResponseWriter, r *http.Request, fn func(context.Context, string) (*domain.DriverPresence, error)) {
	id, ok := driverID(h.logger, w, r)
	if !ok {
		return
	}
	p, err := fn(r.Context(), id)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, presenceToResponse(*p))
}

// Contract handles GET /driver/contract.
func (h *DriverHandler) Contract(w http.ResponseWriter, r *http.Request) {
	id, ok := driverID(h.logger, w, r)
	if !ok {
		return
	}
	v, err := h.usecase.Contract(r.Context(), id)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, contractToResponse(*v))
}

// Available handles GET /driver/deliveries/available?limit=N.
func (h *DriverHandler) Available(w http.ResponseWriter, r *http.Request) {
	id, ok := driverID(h.logger, w, r)
	if !ok {
		return
	}
	limit := 0
	if s := r.URL.Query().Get("limit"); s != "" {
		v, err := strconv.Atoi(s)
		if err != nil || v < 0 {
			writeError(h.logger, w, r, http.StatusBadRequest, "invalid limit")
			return
		}
		limit = v
	}
	list, err := h.usecase.Available(r.Context(), id, limit)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveriesToResponse(list))
}

// Active handles GET /driver/deliveries/active.
func (h *DriverHandler) Active(w http.ResponseWriter, r *http.Request) {
	id, ok := driverID(h.logger, w, r)
	if !ok {
		return
	}
	list, err := h.usecase.Active(r.Context(), id)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveriesToResponse(list))
}

// Claim handles POST /driver/deliveries/{id}/claim.
func (h *DriverHandler) Claim(w http.ResponseWriter, r *http.Request) {
	h.deliveryAction(w, r, h.usecase.Claim)
}

// Release handles POST /driver/deliveries/{id}/release.
func (h *DriverHandler) Release(w http.ResponseWriter, r *http.Request) {
	h.deliveryAction(w, r, h.usecase.Release)
}

// Pickup handles POST /driver/deliveries/{id}/pickup.
func (h *DriverHandler) Pickup(w http.ResponseWriter, r *http.Request) {
	h.deliveryAction(w, r, h.usecase.Pickup)
}

// Depart handles POST /driver/deliveries/{id}/depart.
func (h *DriverHandler) Depart(w http.ResponseWriter, r *http.Request) {
	h.deliveryAction(w, r, h.usecase.Depart)
}

// Deliver handles POST /driver/deliveries/{id}/deliver.
func (h *DriverHandler) Deliver(w http.ResponseWriter, r *http.Request) {
	h.deliveryAction(w, r, h.usecase.Deliver)
}

func (h *DriverHandler) deliveryAction(w http.ResponseWriter, r *http.Request, fn func(context.Context, string, string) (*domain.Delivery, error)) {
	id, ok := driverID(h.logger, w, r)
	if !ok {
		return
	}
	d, err := fn(r.Context(), id, chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, deliveryToResponse(*d))
}
