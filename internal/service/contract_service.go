package service

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/contractguard-api/internal/models"
)

type contractStore interface {
	LoadByUser(ctx context.Context, userID string) ([]models.Contract, error)
	SaveForUser(ctx context.Context, userID string, contracts []models.Contract) error
}

type contractAnalyzer interface {
	UploadAndAnalyze(ctx context.Context, userID, orgID string, in UploadInput) (*models.Contract, error)
}

type alertDeriver interface {
	DeriveForContract(contract models.Contract) []models.Alert
	Append(ctx context.Context, userID string, derived []models.Alert) error
}

type cacheInvalidator interface {
	InvalidateDashboard(ctx context.Context, userID string)
}

// AuditWriter records audit trail entries. Audit failures are logged and
// never fail the business operation.
type AuditWriter interface {
	Create(ctx context.Context, log *models.AuditLog) error
}

// ContractService orchestrates the upload pipeline and register access.
type ContractService struct {
	repo     contractStore
	analyzer contractAnalyzer
	alerts   alertDeriver
	cache    cacheInvalidator
	audit    AuditWriter
	logger   *zap.Logger
}

// NewContractService wires the contract orchestration layer. The cache and
// audit collaborators are optional.
func NewContractService(
	repo contractStore,
	analyzer contractAnalyzer,
	alerts alertDeriver,
	cache cacheInvalidator,
	audit AuditWriter,
	logger *zap.Logger,
) *ContractService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContractService{
		repo:     repo,
		analyzer: analyzer,
		alerts:   alerts,
		cache:    cache,
		audit:    audit,
		logger:   logger,
	}
}

// List returns the user's contract register. Read failures degrade to an
// empty register so the dashboard keeps rendering; the failure is logged.
func (s *ContractService) List(ctx context.Context, userID string) []models.Contract {
	contracts, err := s.repo.LoadByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load contracts, serving empty register",
			zap.String("user_id", userID), zap.Error(err))
		return []models.Contract{}
	}
	return contracts
}

// AddContract runs the full upload pipeline: analyze, persist the contract,
// then derive and persist alerts. The contract write happens first; if it
// fails, no alerts are produced. Alert persistence is a separate write, so a
// failure there leaves the contract saved and surfaces the error.
func (s *ContractService) AddContract(ctx context.Context, userID, orgID string, in UploadInput) (*models.Contract, []models.Alert, error) {
	contract, err := s.analyzer.UploadAndAnalyze(ctx, userID, orgID, in)
	if err != nil {
		return nil, nil, err
	}

	existing, err := s.repo.LoadByUser(ctx, userID)
	if err != nil {
		return nil, nil, err
	}
	if err := s.repo.SaveForUser(ctx, userID, append(existing, *contract)); err != nil {
		return nil, nil, err
	}

	derived := s.alerts.DeriveForContract(*contract)
	if err := s.alerts.Append(ctx, userID, derived); err != nil {
		return contract, nil, err
	}

	if s.cache != nil {
		s.cache.InvalidateDashboard(ctx, userID)
	}
	s.recordUploadAudit(ctx, userID, contract)

	return contract, derived, nil
}

// Stats aggregates the user's register for the dashboard header cards.
func (s *ContractService) Stats(ctx context.Context, userID string) models.ContractStats {
	return CalculateStats(s.List(ctx, userID))
}

func (s *ContractService) recordUploadAudit(ctx context.Context, userID string, contract *models.Contract) {
	if s.audit == nil {
		return
	}

	payload, err := json.Marshal(map[string]string{
		"file_name":  contract.FileName,
		"risk_level": string(contract.RiskLevel),
	})
	if err != nil {
		payload = nil
	}

	entry := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionContractUpload,
		Resource:   "contract",
		ResourceID: &contract.ID,
		NewValues:  payload,
		CreatedAt:  time.Now().UTC(),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record upload audit",
			zap.String("user_id", userID), zap.Error(err))
	}
}
