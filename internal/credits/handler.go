package credits

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"resume-parser-backend/internal/shared/server/middleware"
	"resume-parser-backend/internal/shared/server/respond"
)

// Handler exposes the credit balance endpoint.
type Handler struct {
	Svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{Svc: svc}
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	rg.GET("/credits", h.getBalance)
}

func (h *Handler) getBalance(c *gin.Context) {
	userID := middleware.UserIDFromContext(c)
	if userID == "" {
		respond.Error(c, http.StatusUnauthorized, "unauthorized", "missing user identity", nil)
		return
	}
	balance, err := h.Svc.Balance(c.Request.Context(), userID)
	if err != nil {
		respond.Error(c, http.StatusInternalServerError, "internal_error", "failed to load balance", nil)
		return
	}
	respond.OK(c, gin.H{
		"billingEnabled": h.Svc.Enabled(),
		"balance":        balance,
		"costPerJob":     h.Svc.CostPerJob(),
	})
}
