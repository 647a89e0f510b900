package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/Castafa/News-ans-Public-opinion/domain"
)

// PolicyHandlers manages the access rules of the resource registry
type PolicyHandlers struct {
	policies domain.PolicyService
	log      zerolog.Logger
}

// NewPolicyHandlers creates new policy handlers
func NewPolicyHandlers(policies domain.PolicyService, log zerolog.Logger) *PolicyHandlers {
	return &PolicyHandlers{policies: policies, log: log}
}

// PolicyRequest names one (resource pattern, role) pair
type PolicyRequest struct {
	Resource string `json:"resource" binding:"required"`
	Role     string `json:"role" binding:"required"`
}

// List returns every declared rule
func (h *PolicyHandlers) List(c *gin.Context) {
	rules, err := h.policies.Rules()
	if err != nil {
		h.log.Error().Err(err).Msg("failed to list access rules")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to list access rules"})
		return
	}
	views := make([]gin.H, 0, len(rules))
	for _, r := range rules {
		views = append(views, gin.H{"resource": r.ResourceID, "roles": r.AllowedRoles})
	}
	c.JSON(http.StatusOK, gin.H{"data": views})
}

// Add grants a role access to a resource pattern
func (h *PolicyHandlers) Add(c *gin.Context) {
	req, ok := bindPolicy(c)
	if !ok {
		return
	}
	if err := h.policies.Grant(req.Resource, domain.Role(req.Role)); err != nil {
		h.policyError(c, err)
		return
	}
	h.log.Info().Str("resource", req.Resource).Str("role", req.Role).Msg("access rule granted")
	c.Status(http.StatusNoContent)
}

// Remove revokes a role's access to a resource pattern
func (h *PolicyHandlers) Remove(c *gin.Context) {
	req, ok := bindPolicy(c)
	if !ok {
		return
	}
	if err := h.policies.Revoke(req.Resource, domain.Role(req.Role)); err != nil {
		h.policyError(c, err)
		return
	}
	h.log.Info().Str("resource", req.Resource).Str("role", req.Role).Msg("access rule revoked")
	c.Status(http.StatusNoContent)
}

func bindPolicy(c *gin.Context) (PolicyRequest, bool) {
	var req PolicyRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return req, false
	}
	return req, true
}

func (h *PolicyHandlers) policyError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, domain.ErrInvalidRule):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, domain.ErrResourceNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": "Access rule not found"})
	default:
		h.log.Error().Err(err).Msg("failed to update access rules")
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to update access rules"})
	}
}
