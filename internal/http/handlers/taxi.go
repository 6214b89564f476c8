package handlers

import (
	"net/http"

	"food-dispatch/internal/logx"
)

// TaxiHandler receives taxi office replies from the messaging bridge.
type TaxiHandler struct {
	usecase replyUsecase
	logger  logx.Logger
}

// NewTaxiHandler creates a new TaxiHandler.
func NewTaxiHandler(logger logx.Logger, uc replyUsecase) *TaxiHandler {
	return &TaxiHandler{usecase: uc, logger: logger}
}

// Reply handles POST /taxi/whatsapp-reply.
// Replies that change nothing still answer 200 with a note.
func (h *TaxiHandler) Reply(w http.ResponseWriter, r *http.Request) {
	var req replyRequest
	if ok := decodeJSON(h.logger, w, r, &req); !ok {
		return
	}
	res, err := h.usecase.Handle(r.Context(), req.From, req.Text)
	if err != nil {
		writeAppError(h.logger, w, r, err)
		return
	}
	writeJSON(h.logger, w, r, http.StatusOK, replyToResponse(*res))
}
