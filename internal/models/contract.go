package models

import "time"

// RiskLevel is assigned by the remote analysis and never recomputed locally.
type RiskLevel string

const (
	RiskLow    RiskLevel = "Low"
	RiskMedium RiskLevel = "Medium"
	RiskHigh   RiskLevel = "High"
)

// Valid reports whether the level is one of the known bands.
func (l RiskLevel) Valid() bool {
	switch l {
	case RiskLow, RiskMedium, RiskHigh:
		return true
	}
	return false
}

// ContractStatus tracks the lifecycle of a persisted contract.
type ContractStatus string

const (
	StatusDraft      ContractStatus = "draft"
	StatusActive     ContractStatus = "active"
	StatusExpired    ContractStatus = "expired"
	StatusTerminated ContractStatus = "terminated"
	StatusArchived   ContractStatus = "archived"
)

// Risk is a single finding inside a contract analysis.
type Risk struct {
	Category    string    `json:"category"`
	Severity    RiskLevel `json:"severity"`
	Description string    `json:"description"`
}

// ContractAnalysis is the structured payload produced by the remote model
// for one contract. Scores are integers in [0,100].
type ContractAnalysis struct {
	ContractType    string    `json:"contractType"`
	Vendor          string    `json:"vendor"`
	Summary         string    `json:"summary"`
	RiskLevel       RiskLevel `json:"riskLevel"`
	RiskScore       int       `json:"riskScore"`
	Risks           []Risk    `json:"risks"`
	RenewalDate     string    `json:"renewalDate,omitempty"`
	AutoRenews      bool      `json:"autoRenews"`
	NoticePeriod    string    `json:"noticePeriod"`
	Value           string    `json:"value"`
	ComplianceScore int       `json:"complianceScore"`
}

// Contract combines uploaded-file metadata with its analysis. Contracts are
// replaced wholesale on save, never mutated in place.
type Contract struct {
	ID             string         `json:"id"`
	FileName       string         `json:"file_name"`
	FileSize       int64          `json:"file_size"`
	MimeType       string         `json:"mime_type"`
	StorageKey     string         `json:"storage_key"`
	UploadedAt     time.Time      `json:"uploaded_at"`
	UploadedBy     string         `json:"uploaded_by"`
	OrganizationID string         `json:"organization_id"`
	Status         ContractStatus `json:"status"`
	LastModified   time.Time      `json:"last_modified"`
	LastReviewedAt *time.Time     `json:"last_reviewed_at,omitempty"`
	Tags           []string       `json:"tags"`

	ContractAnalysis
}

// ContractStats aggregates the register for the dashboard header cards.
type ContractStats struct {
	Total         int `json:"total"`
	High          int `json:"high"`
	Medium        int `json:"medium"`
	Low           int `json:"low"`
	AvgRisk       int `json:"avg_risk"`
	AvgCompliance int `json:"avg_compliance"`
}
