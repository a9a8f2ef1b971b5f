package email

import (
	"tre_crm/platform/apperr"
	"tre_crm/platform/httpkit"

	"github.com/gin-gonic/gin"
)

type senderListResponse struct {
	Items []SenderProfile `json:"items"`
}

// Handler exposes the registry read-only.
type Handler struct {
	registry *Registry
}

func NewHandler(registry *Registry) *Handler {
	return &Handler{registry: registry}
}

// RegisterRoutes mounts /senders.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/senders", h.ListSenders)
	rg.GET("/senders/:key", h.GetSender)
}

func (h *Handler) ListSenders(c *gin.Context) {
	httpkit.OK(c, senderListResponse{Items: h.registry.Profiles()})
}

func (h *Handler) GetSender(c *gin.Context) {
	profile, ok := h.registry.Lookup(c.Param("key"))
	if !ok {
		httpkit.HandleError(c, apperr.NotFound("sender not found"))
		return
	}
	httpkit.OK(c, profile)
}
