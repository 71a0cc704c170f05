package handler

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/contractguard-api/internal/dto"
	"github.com/noah-isme/contractguard-api/internal/middleware"
	"github.com/noah-isme/contractguard-api/internal/models"
	appErrors "github.com/noah-isme/contractguard-api/pkg/errors"
	"github.com/noah-isme/contractguard-api/pkg/response"
)

type alertService interface {
	List(ctx context.Context, userID string) []models.Alert
	Create(ctx context.Context, userID, orgID string, req *dto.CreateAlertRequest) (*models.Alert, error)
	Send(ctx context.Context, userID, alertID string) (*models.Alert, error)
}

// AlertHandler wires alert endpoints to the alert service.
type AlertHandler struct {
	service alertService
}

// NewAlertHandler constructs the handler.
func NewAlertHandler(svc alertService) *AlertHandler {
	return &AlertHandler{service: svc}
}

// List godoc
// @Summary List alerts
// @Tags Alerts
// @Produce json
// @Success 200 {object} response.Envelope
// @Security BearerAuth
// @Router /alerts [get]
func (h *AlertHandler) List(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	alerts := h.service.List(c.Request.Context(), claims.UserID)
	response.JSON(c, http.StatusOK, alerts, nil)
}

// Create godoc
// @Summary Raise a manual alert
// @Tags Alerts
// @Accept json
// @Produce json
// @Param payload body dto.CreateAlertRequest true "Alert payload"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Security BearerAuth
// @Router /alerts [post]
func (h *AlertHandler) Create(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	var req dto.CreateAlertRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid alert payload"))
		return
	}

	alert, err := h.service.Create(c.Request.Context(), claims.UserID, claims.OrganizationID, &req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, alert)
}

// Send godoc
// @Summary Mark an alert as sent
// @Description One-way transition; repeated sends are no-ops
// @Tags Alerts
// @Produce json
// @Param id path string true "Alert ID"
// @Success 200 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Security BearerAuth
// @Router /alerts/{id}/send [post]
func (h *AlertHandler) Send(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	alert, err := h.service.Send(c.Request.Context(), claims.UserID, c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, alert, nil)
}
