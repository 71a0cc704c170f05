package service

import (
	"context"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/contractguard-api/internal/dto"
	"github.com/noah-isme/contractguard-api/internal/models"
)

type contractLister interface {
	List(ctx context.Context, userID string) []models.Contract
}

type alertLister interface {
	List(ctx context.Context, userID string) []models.Alert
}

// DashboardServiceConfig tunes dashboard behaviour.
type DashboardServiceConfig struct {
	CacheTTL time.Duration
}

// DashboardService composes the per-user dashboard payload from the
// contract register and alert list.
type DashboardService struct {
	contracts contractLister
	alerts    alertLister
	cache     *CacheService
	logger    *zap.Logger
	cfg       DashboardServiceConfig
}

// NewDashboardService constructs a DashboardService with sane defaults.
func NewDashboardService(contracts contractLister, alerts alertLister, cache *CacheService, logger *zap.Logger, cfg DashboardServiceConfig) *DashboardService {
	if cfg.CacheTTL <= 0 {
		cfg.CacheTTL = 5 * time.Minute
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &DashboardService{
		contracts: contracts,
		alerts:    alerts,
		cache:     cache,
		logger:    logger,
		cfg:       cfg,
	}
}

// Overview returns the composed dashboard and indicates cache utilisation.
// The contract and alert loads run concurrently; each degrades to an empty
// collection on failure inside its service, so composition never errors.
func (s *DashboardService) Overview(ctx context.Context, userID string) (*dto.DashboardResponse, bool, error) {
	cacheKey := fmt.Sprintf("dash:overview:%s", userID)
	if s.cache != nil {
		var cached dto.DashboardResponse
		hit, err := s.cache.Get(ctx, cacheKey, &cached)
		if err == nil && hit {
			return &cached, true, nil
		}
	}

	var (
		wg        sync.WaitGroup
		contracts []models.Contract
		alerts    []models.Alert
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		contracts = s.contracts.List(ctx, userID)
	}()
	go func() {
		defer wg.Done()
		alerts = s.alerts.List(ctx, userID)
	}()
	wg.Wait()

	overview := &dto.DashboardResponse{
		Stats:     CalculateStats(contracts),
		Charts:    BuildChartData(contracts),
		Contracts: contracts,
		Alerts:    alerts,
	}

	if s.cache != nil {
		if err := s.cache.Set(ctx, cacheKey, overview, s.cfg.CacheTTL); err != nil {
			s.logger.Warn("dashboard cache write failed", zap.String("key", cacheKey), zap.Error(err))
		}
	}
	return overview, false, nil
}
