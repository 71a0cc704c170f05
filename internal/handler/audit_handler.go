package handler

import (
	"context"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/contractguard-api/internal/middleware"
	"github.com/noah-isme/contractguard-api/internal/models"
	appErrors "github.com/noah-isme/contractguard-api/pkg/errors"
	"github.com/noah-isme/contractguard-api/pkg/response"
)

type auditService interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.AuditLog, error)
}

// AuditHandler exposes the authenticated user's audit trail.
type AuditHandler struct {
	service auditService
}

// NewAuditHandler constructs the handler.
func NewAuditHandler(svc auditService) *AuditHandler {
	return &AuditHandler{service: svc}
}

// List godoc
// @Summary List audit trail entries
// @Description Most recent audit entries for the authenticated user
// @Tags Audit
// @Produce json
// @Param limit query int false "Maximum entries to return (default 50)"
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /audit [get]
func (h *AuditHandler) List(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	entries, err := h.service.ListByUser(c.Request.Context(), claims.UserID, limit)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, entries, nil)
}
