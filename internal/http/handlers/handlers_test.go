package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestProbes(t *testing.T) {
	t.Parallel()

	p := NewProbes(nil)

	tests := []struct {
		name     string
		method   string
		handler  http.HandlerFunc
		wantCode int
		wantBody string
	}{
		{"ping", http.MethodGet, p.Ping, http.StatusOK, `{"message":"pong"}`},
		{"healthcheck", http.MethodHead, p.Healthcheck, http.StatusNoContent, ""},
		{"not found", http.MethodGet, p.NotFound, http.StatusNotFound, `{"error":"route not found"}`},
		{"method not allowed", http.MethodPut, p.MethodNotAllowed, http.StatusMethodNotAllowed, `{"error":"method not allowed"}`},
	}
	for _, tt := range tests {
		tt := tt
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			rr := httptest.NewRecorder()
			tt.handler(rr, httptest.NewRequest(tt.method, "/x", nil))

			require.Equal(t, tt.wantCode, rr.Code)
			if tt.wantBody == "" {
				require.Zero(t, rr.Body.Len())
				return
			}
			require.JSONEq(t, tt.wantBody, rr.Body.String())
		})
	}
}
