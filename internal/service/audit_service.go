package service

import (
	"context"

	"go.uber.org/zap"

	"github.com/noah-isme/contractguard-api/internal/models"
)

// AuditReader lists recorded audit trail entries.
type AuditReader interface {
	ListByUser(ctx context.Context, userID string, limit int) ([]models.AuditLog, error)
}

// AuditService exposes the audit trail for the authenticated user. The
// backing store is optional: when auditing is disabled the trail is empty
// rather than an error, matching the write side.
type AuditService struct {
	repo   AuditReader
	logger *zap.Logger
}

// NewAuditService constructs an AuditService. A nil reader disables the trail.
func NewAuditService(repo AuditReader, logger *zap.Logger) *AuditService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AuditService{repo: repo, logger: logger}
}

// ListByUser returns the user's most recent audit entries.
func (s *AuditService) ListByUser(ctx context.Context, userID string, limit int) ([]models.AuditLog, error) {
	if s.repo == nil {
		return []models.AuditLog{}, nil
	}
	entries, err := s.repo.ListByUser(ctx, userID, limit)
	if err != nil {
		s.logger.Warn("failed to load audit trail",
			zap.String("user_id", userID), zap.Error(err))
		return nil, err
	}
	return entries, nil
}
