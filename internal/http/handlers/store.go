package handlers

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"

	"food-dispatch/internal/domain"
	"food-dispatch/internal/logx"
)

// StoreHandler serves store-facing order endpoints.
type StoreHandler struct {
	usecase storeUsecase
	logger  logx.Logger
}

// NewStoreHandler creates a new StoreHandler.
func NewStoreHandler(logger logx.Logger, uc storeUsecase) *StoreHandler {
	return &StoreHandler{usecase: uc, logger: logger}
}

// Accept handles POST /store/orders/accept.
// The dispatch flow runs in the background; the response carries the new order status.
func (h *StoreHandler) Accept(w http.ResponseWriter, r *http.Request) {
	var req acceptOrderRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	o, err := h.usecase.Accept(r.Context(), req.OrderID, req.PrepMinutes)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusAccepted, orderToResponse(*o))
}

// Reject handles POST /store/orders/reject.
func (h *StoreHandler) Reject(w http.ResponseWriter, r *http.Request) {
	h.orderAction(w, r, h.usecase.Reject)
}

// Ready handles POST /store/orders/ready.
func (h *StoreHandler) Ready(w http.ResponseWriter, r *http.Request) {
	h.orderAction(w, r, h.usecase.MarkReady)
}

func (h *StoreHandler) orderAction(w http.ResponseWriter, r *http.Request, action func(context.Context, string) (*domain.Order, error)) {
	var req orderRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	o, err := action(r.Context(), req.OrderID)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, orderToResponse(*o))
}

// Get handles GET /orders/{id}.
func (h *StoreHandler) Get(w http.ResponseWriter, r *http.Request) {
	v, err := h.usecase.View(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, viewToResponse(*v))
}
