package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/noah-isme/contractguard-api/internal/models"
	"github.com/noah-isme/contractguard-api/pkg/kvstore"
)

// ContractRepository persists each user's contract collection as one JSON
// document under contracts_<userID>. Saves replace the whole collection.
type ContractRepository struct {
	store kvstore.Store
}

// NewContractRepository creates a new instance of ContractRepository.
func NewContractRepository(store kvstore.Store) *ContractRepository {
	return &ContractRepository{store: store}
}

func contractsKey(userID string) string {
	return "contracts_" + userID
}

// LoadByUser returns the user's contracts; an absent key is an empty
// collection, not an error.
func (r *ContractRepository) LoadByUser(ctx context.Context, userID string) ([]models.Contract, error) {
	raw, ok, err := r.store.Get(ctx, contractsKey(userID))
	if err != nil {
		return nil, fmt.Errorf("load contracts for %s: %w", userID, err)
	}
	if !ok {
		return []models.Contract{}, nil
	}

	var contracts []models.Contract
	if err := json.Unmarshal([]byte(raw), &contracts); err != nil {
		return nil, fmt.Errorf("decode contracts for %s: %w", userID, err)
	}
	return contracts, nil
}

// SaveForUser replaces the stored collection.
func (r *ContractRepository) SaveForUser(ctx context.Context, userID string, contracts []models.Contract) error {
	payload, err := json.Marshal(contracts)
	if err != nil {
		return fmt.Errorf("encode contracts for %s: %w", userID, err)
	}
	if err := r.store.Set(ctx, contractsKey(userID), string(payload)); err != nil {
		return fmt.Errorf("save contracts for %s: %w", userID, err)
	}
	return nil
}
