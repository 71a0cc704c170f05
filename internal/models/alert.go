package models

import "time"

// AlertType classifies a derived notification.
type AlertType string

const (
	AlertRenewal           AlertType = "renewal"
	AlertRisk              AlertType = "risk"
	AlertCompliance        AlertType = "compliance"
	AlertObligationDue     AlertType = "obligation_due"
	AlertTerminationWindow AlertType = "termination_window"
	AlertManual            AlertType = "manual"
)

// Alert is a notification derived from a contract's renewal or risk fields.
// Alerts are immutable except for the one-way sent transition.
type Alert struct {
	ID             string    `json:"id"`
	ContractID     string    `json:"contract_id"`
	OrganizationID string    `json:"organization_id"`
	Type           AlertType `json:"type"`
	Severity       RiskLevel `json:"severity"`
	Title          string    `json:"title"`
	Message        string    `json:"message"`
	Sent           bool      `json:"sent"`
	CreatedAt      time.Time `json:"created_at"`
}
