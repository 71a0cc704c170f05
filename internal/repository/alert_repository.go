package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/contractguard-api/internal/models"
	"github.com/noah-isme/contractguard-api/pkg/kvstore"
)

// AlertRepository persists each user's alert collection as one JSON document
// under alerts_<userID>.
type AlertRepository struct {
	store kvstore.Store
}

// NewAlertRepository creates a new instance of AlertRepository.
func NewAlertRepository(store kvstore.Store) *AlertRepository {
	return &AlertRepository{store: store}
}

func alertsKey(userID string) string {
	return "alerts_" + userID
}

// LoadByUser returns the user's alerts; an absent key is an empty collection.
func (r *AlertRepository) LoadByUser(ctx context.Context, userID string) ([]models.Alert, error) {
	raw, ok, err := r.store.Get(ctx, alertsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("load alerts for %s: %w", userID, err)
	}
	if !ok {
		return []models.Alert{}, nil
	}

	var alerts []models.Alert
	if err := json.Unmarshal([]byte(raw), &alerts); err != nil {
		return nil, fmt.Errorf("decode alerts for %s: %w", userID, err)
	}
	return alerts, nil
}

// SaveForUser replaces the stored collection.
func (r *AlertRepository) SaveForUser(ctx context.Context, userID string, alerts []models.Alert) error {
	payload, err := json.Marshal(alerts)
	if err != nil {
		return fmt.Errorf("encode alerts for %s: %w", userID, err)
	}
	if err := r.store.Set(ctx, alertsKey(userID), string(payload)); err != nil {
		return fmt.Errorf("save alerts for %s: %w", userID, err)
	}
	return nil
}
