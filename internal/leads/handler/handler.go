package handler

import (
	"net/http"

	"tre_crm/internal/leads/service"
	"tre_crm/internal/leads/transport"
	"tre_crm/platform/apperr"
	"tre_crm/platform/httpkit"
	"tre_crm/platform/validator"

	"github.com/gin-gonic/gin"
)

const (
	msgInvalidRequest   = "invalid request"
	msgValidationFailed = "validation failed"
)

type Handler struct {
	svc *service.Service
	val *validator.Validator
}

func New(svc *service.Service, val *validator.Validator) *Handler {
	return &Handler{svc: svc, val: val}
}

// RegisterLeadRoutes mounts /leads.
func (h *Handler) RegisterLeadRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListLeads)
}

// RegisterAgentRoutes mounts /agents.
func (h *Handler) RegisterAgentRoutes(rg *gin.RouterGroup) {
	rg.GET("", h.ListAgents)
	rg.GET("/stats", h.Leaderboard)
	rg.POST("/stats/digest", h.RequestDigest)
	rg.GET("/:id/stats", h.AgentStats)
}

func (h *Handler) ListLeads(c *gin.Context) {
	var q transport.ListLeadsQuery
	if err := c.ShouldBindQuery(&q); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(q); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err)))
		return
	}

	result, err := h.svc.ListLeads(c.Request.Context(), q)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) ListAgents(c *gin.Context) {
	result, err := h.svc.ListAgents(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) AgentStats(c *gin.Context) {
	var p transport.AgentIDParam
	if err := c.ShouldBindUri(&p); err != nil {
		httpkit.HandleError(c, apperr.BadRequest(msgInvalidRequest))
		return
	}
	if err := h.val.Struct(p); err != nil {
		httpkit.HandleError(c, apperr.Validation(msgValidationFailed).WithDetails(validator.FieldErrors(err)))
		return
	}

	result, err := h.svc.AgentStats(c.Request.Context(), p.ID)
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) Leaderboard(c *gin.Context) {
	result, err := h.svc.Leaderboard(c.Request.Context())
	if httpkit.HandleError(c, err) {
		return
	}

	httpkit.OK(c, result)
}

func (h *Handler) RequestDigest(c *gin.Context) {
	if err := h.svc.RequestDigest(c.Request.Context(), "manual"); httpkit.HandleError(c, err) {
		return
	}

	httpkit.JSON(c, http.StatusAccepted, transport.DigestResponse{Status: "queued"})
}
