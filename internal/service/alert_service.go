package service

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/noah-isme/contractguard-api/internal/dto"
	"github.com/noah-isme/contractguard-api/internal/models"
	appErrors "github.com/noah-isme/contractguard-api/pkg/errors"
)

type alertStore interface {
	LoadByUser(ctx context.Context, userID string) ([]models.Alert, error)
	SaveForUser(ctx context.Context, userID string, alerts []models.Alert) error
}

// AlertService derives, lists and dispatches contract alerts.
type AlertService struct {
	repo              alertStore
	validate          *validator.Validate
	logger            *zap.Logger
	audit             AuditWriter
	renewalWindowDays int

	now func() time.Time
}

// NewAlertService wires an alert service. A zero renewal window falls back
// to 30 days. The audit collaborator is optional.
func NewAlertService(repo alertStore, validate *validator.Validate, logger *zap.Logger, audit AuditWriter, renewalWindowDays int) *AlertService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	if renewalWindowDays <= 0 {
		renewalWindowDays = 30
	}
	return &AlertService{
		repo:              repo,
		validate:          validate,
		logger:            logger,
		audit:             audit,
		renewalWindowDays: renewalWindowDays,
		now:               time.Now,
	}
}

// DeriveForContract evaluates the alert rules against one analyzed contract.
// The renewal and risk rules fire independently of each other. Days until
// renewal are counted with ceiling semantics: any fraction of a day left
// counts as a full day.
func (s *AlertService) DeriveForContract(contract models.Contract) []models.Alert {
	now := s.now()
	var alerts []models.Alert

	if contract.RenewalDate != "" {
		if renews, err := time.Parse("2006-01-02", contract.RenewalDate); err == nil {
			days := int(math.Ceil(renews.Sub(now).Hours() / 24))
			if days > 0 && days <= s.renewalWindowDays {
				alerts = append(alerts, models.Alert{
					ID:             uuid.NewString(),
					ContractID:     contract.ID,
					OrganizationID: contract.OrganizationID,
					Type:           models.AlertRenewal,
					Severity:       models.RiskMedium,
					Title:          "Contract Renewal Upcoming",
					Message:        fmt.Sprintf("%q renews in %d days", contract.FileName, days),
					CreatedAt:      now,
				})
			}
		} else {
			s.logger.Warn("unparseable renewal date",
				zap.String("contract_id", contract.ID),
				zap.String("renewal_date", contract.RenewalDate))
		}
	}

	if contract.RiskLevel == models.RiskHigh {
		alerts = append(alerts, models.Alert{
			ID:             uuid.NewString(),
			ContractID:     contract.ID,
			OrganizationID: contract.OrganizationID,
			Type:           models.AlertRisk,
			Severity:       models.RiskHigh,
			Title:          "High-Risk Contract",
			Message:        fmt.Sprintf("High risk in %q", contract.FileName),
			CreatedAt:      now,
		})
	}

	return alerts
}

// List returns the user's alerts. Read failures degrade to an empty list so
// the dashboard keeps rendering.
func (s *AlertService) List(ctx context.Context, userID string) []models.Alert {
	alerts, err := s.repo.LoadByUser(ctx, userID)
	if err != nil {
		s.logger.Warn("failed to load alerts, serving empty list",
			zap.String("user_id", userID), zap.Error(err))
		return []models.Alert{}
	}
	return alerts
}

// Create raises a manual alert and persists it alongside the derived ones.
func (s *AlertService) Create(ctx context.Context, userID, orgID string, req *dto.CreateAlertRequest) (*models.Alert, error) {
	if err := s.validate.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid alert payload")
	}

	alerts, err := s.repo.LoadByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	alert := models.Alert{
		ID:             uuid.NewString(),
		ContractID:     req.ContractID,
		OrganizationID: orgID,
		Type:           models.AlertManual,
		Severity:       req.Severity,
		Title:          req.Title,
		Message:        req.Message,
		CreatedAt:      s.now(),
	}

	if err := s.repo.SaveForUser(ctx, userID, append(alerts, alert)); err != nil {
		return nil, err
	}
	return &alert, nil
}

// MarkSent flips the sent flag of the matching alert. The transition is
// one-way and idempotent; unknown ids leave the slice untouched.
func MarkSent(alerts []models.Alert, alertID string) []models.Alert {
	updated := make([]models.Alert, len(alerts))
	for i, a := range alerts {
		if a.ID == alertID {
			a.Sent = true
		}
		updated[i] = a
	}
	return updated
}

// Send marks an alert as dispatched and persists the updated collection.
func (s *AlertService) Send(ctx context.Context, userID, alertID string) (*models.Alert, error) {
	alerts, err := s.repo.LoadByUser(ctx, userID)
	if err != nil {
		return nil, err
	}

	updated := MarkSent(alerts, alertID)
	var sent *models.Alert
	for i := range updated {
		if updated[i].ID == alertID {
			sent = &updated[i]
			break
		}
	}
	if sent == nil {
		return nil, appErrors.Clone(appErrors.ErrNotFound, "alert not found")
	}

	if err := s.repo.SaveForUser(ctx, userID, updated); err != nil {
		return nil, err
	}

	s.recordSendAudit(ctx, userID, sent)
	return sent, nil
}

func (s *AlertService) recordSendAudit(ctx context.Context, userID string, alert *models.Alert) {
	if s.audit == nil {
		return
	}
	entry := &models.AuditLog{
		UserID:     &userID,
		Action:     models.AuditActionAlertSent,
		Resource:   "alert",
		ResourceID: &alert.ID,
		CreatedAt:  s.now().UTC(),
	}
	if err := s.audit.Create(ctx, entry); err != nil {
		s.logger.Warn("failed to record alert send audit",
			zap.String("user_id", userID),
			zap.String("alert_id", alert.ID),
			zap.Error(err))
	}
}

// Append persists derived alerts for a user on top of the existing
// collection. Used by the upload pipeline after analysis.
func (s *AlertService) Append(ctx context.Context, userID string, derived []models.Alert) error {
	if len(derived) == 0 {
		return nil
	}
	alerts, err := s.repo.LoadByUser(ctx, userID)
	if err != nil {
		return err
	}
	return s.repo.SaveForUser(ctx, userID, append(alerts, derived...))
}
