package dto

import "github.com/noah-isme/contractguard-api/internal/models"

// CreateAlertRequest is the payload for a manually raised alert.
type CreateAlertRequest struct {
	ContractID string           `json:"contract_id" validate:"required"`
	Severity   models.RiskLevel `json:"severity" validate:"required,oneof=Low Medium High"`
	Title      string           `json:"title" validate:"required,max=200"`
	Message    string           `json:"message" validate:"required,max=1000"`
}
