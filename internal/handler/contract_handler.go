package handler

import (
	"context"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/contractguard-api/internal/middleware"
	"github.com/noah-isme/contractguard-api/internal/models"
	"github.com/noah-isme/contractguard-api/internal/service"
	appErrors "github.com/noah-isme/contractguard-api/pkg/errors"
	"github.com/noah-isme/contractguard-api/pkg/response"
)

type contractService interface {
	List(ctx context.Context, userID string) []models.Contract
	AddContract(ctx context.Context, userID, orgID string, in service.UploadInput) (*models.Contract, []models.Alert, error)
}

// ContractHandler wires the contract register to HTTP endpoints.
type ContractHandler struct {
	service contractService
}

// NewContractHandler constructs the handler.
func NewContractHandler(svc contractService) *ContractHandler {
	return &ContractHandler{service: svc}
}

// List godoc
// @Summary List contracts
// @Description Return the authenticated user's contract register
// @Tags Contracts
// @Produce json
// @Success 200 {object} response.Envelope
// @Failure 401 {object} response.Envelope
// @Security BearerAuth
// @Router /contracts [get]
func (h *ContractHandler) List(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	contracts := h.service.List(c.Request.Context(), claims.UserID)
	response.JSON(c, http.StatusOK, contracts, nil)
}

// Upload godoc
// @Summary Upload and analyze a contract
// @Description Accept a multipart file, run the analysis pipeline and persist the result
// @Tags Contracts
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Contract document"
// @Success 201 {object} response.Envelope
// @Failure 400 {object} response.Envelope
// @Failure 415 {object} response.Envelope
// @Failure 502 {object} response.Envelope
// @Security BearerAuth
// @Router /contracts [post]
func (h *ContractHandler) Upload(c *gin.Context) {
	claims := middleware.CurrentClaims(c)
	if claims == nil {
		response.Error(c, appErrors.ErrUnauthorized)
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, "file is required"))
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "failed to open upload"))
		return
	}
	defer file.Close() //nolint:errcheck

	data, err := io.ReadAll(file)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to read upload"))
		return
	}

	mimeType := fileHeader.Header.Get("Content-Type")
	contract, alerts, err := h.service.AddContract(c.Request.Context(), claims.UserID, claims.OrganizationID, service.UploadInput{
		FileName: fileHeader.Filename,
		MimeType: mimeType,
		Data:     data,
	})
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusCreated, gin.H{
		"contract": contract,
		"alerts":   alerts,
	}, nil)
}
