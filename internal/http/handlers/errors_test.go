package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"food-dispatch/internal/apperr"
	"food-dispatch/internal/logx"
)

func TestWriteAppError(t *testing.T) {
	t.Parallel()

	tests := []struct {
		err  error
		code int
		msg  string
	}{
		{fmt.Errorf("prep: %w", apperr.ErrInvalid), http.StatusBadRequest, "invalid input"},
		{apperr.ErrContractInactive, http.StatusForbidden, "driver contract inactive"},
		{fmt.Errorf("order: %w", apperr.ErrNotFound), http.StatusNotFound, "not found"},
		{apperr.ErrInvalidState, http.StatusConflict, "invalid state"},
		{apperr.ErrNoCourierAvailable, http.StatusConflict, "no courier available"},
		{apperr.ErrCancelled, http.StatusConflict, "order cancelled"},
		{errors.New("db down"), http.StatusInternalServerError, "internal error"},
	}
	for _, tt := range tests {
		rr := httptest.NewRecorder()
		writeAppError(logx.Nop(), rr, httptest.NewRequest(http.MethodGet, "/x", nil), tt.err)
		require.Equal(t, tt.code, rr.Code, tt.err.Error())
		require.JSONEq(t, `{"error":"`+tt.msg+`"}`, rr.Body.String())
	}
}

func TestDecodeJSON_RejectsUnknownAndTrailing(t *testing.T) {
	t.Parallel()

	for body, want := range map[string]string{
		`{"order_id":"o1","extra":1}`: "invalid json",
		`{"order_id":"o1"} {}`:        "invalid json: trailing data",
	} {
		rr := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/x", strings.NewReader(body))
		var dst orderRequest
		require.False(t, decodeJSON(logx.Nop(), rr, req, &dst))
		require.Equal(t, http.StatusBadRequest, rr.Code)
		require.JSONEq(t, `{"error":"`+want+`"}`, rr.Body.String())
	}
}
