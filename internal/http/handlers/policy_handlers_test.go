package handlers

import (
	"net/http"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Castafa/News-ans-Public-opinion/internal/mocks"
	"github.com/Castafa/News-ans-Public-opinion/internal/services"
)

func TestPolicyHandlers(t *testing.T) {
	enforcer := mocks.NewMockCasbinEnforcer()
	enforcer.SetPolicies([][]string{{"ADMIN", "/admin"}, {"ADMIN", "/admin/*"}})
	h := NewPolicyHandlers(services.NewPolicyServiceWithEnforcer(enforcer), zerolog.Nop())

	r := newTestEngine(t, nil)
	r.GET("/admin/policies", h.List)
	r.POST("/admin/policies", h.Add)
	r.DELETE("/admin/policies", h.Remove)

	w := doJSON(t, r, http.MethodGet, "/admin/policies", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode(t, w)["data"], 2)

	tests := []struct {
		name           string
		method         string
		body           interface{}
		expectedStatus int
	}{
		{name: "grant", method: http.MethodPost, body: PolicyRequest{Resource: "/reports/*", Role: "USER"}, expectedStatus: http.StatusNoContent},
		{name: "unknown role", method: http.MethodPost, body: PolicyRequest{Resource: "/reports/*", Role: "EDITOR"}, expectedStatus: http.StatusBadRequest},
		{name: "relative pattern", method: http.MethodPost, body: PolicyRequest{Resource: "reports", Role: "USER"}, expectedStatus: http.StatusBadRequest},
		{name: "missing fields", method: http.MethodPost, body: map[string]string{"role": "USER"}, expectedStatus: http.StatusBadRequest},
		{name: "revoke", method: http.MethodDelete, body: PolicyRequest{Resource: "/reports/*", Role: "USER"}, expectedStatus: http.StatusNoContent},
		{name: "revoke missing", method: http.MethodDelete, body: PolicyRequest{Resource: "/reports/*", Role: "USER"}, expectedStatus: http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := doJSON(t, r, tt.method, "/admin/policies", tt.body)
			assert.Equal(t, tt.expectedStatus, w.Code, w.Body.String())
		})
	}
}
