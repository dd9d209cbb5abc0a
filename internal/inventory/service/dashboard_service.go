package service

import (
	"context"
	"encoding/json"
	"time"

	"github.com/bitfantasy/labstock/internal/inventory/entity"
	"github.com/bitfantasy/labstock/internal/inventory/repository"
	"github.com/redis/go-redis/v9"
)

const (
	statsCacheKey = "labstock:dashboard:stats"
	statsCacheTTL = 30 * time.Second
)

// DashboardService serves read-only projections over the catalog and
// the request queue.
type DashboardService struct {
	itemRepo       *repository.ItemRepository
	withdrawalRepo *repository.WithdrawalRepository
	rdb            *redis.Client
}

func NewDashboardService(itemRepo *repository.ItemRepository, withdrawalRepo *repository.WithdrawalRepository, rdb *redis.Client) *DashboardService {
	return &DashboardService{
		itemRepo:       itemRepo,
		withdrawalRepo: withdrawalRepo,
		rdb:            rdb,
	}
}

// Stats is the dashboard headline block.
type Stats struct {
	TotalItems      int64 `json:"total_items"`
	LowStockItems   int64 `json:"low_stock_items"`
	ExpiringSoon    int64 `json:"expiring_soon"`
	ExpiredItems    int64 `json:"expired_items"`
	PendingRequests int64 `json:"pending_requests"`
}

// GetStats computes the headline counts. Results are cached in redis
// for a short window when a client is configured; cache failures fall
// through to the database.
func (s *DashboardService) GetStats(ctx context.Context) (*Stats, error) {
	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, statsCacheKey).Result(); err == nil && cached != "" {
			var stats Stats
			if json.Unmarshal([]byte(cached), &stats) == nil {
				return &stats, nil
			}
		}
	}

	now := time.Now()
	nextMonth := now.Add(30 * 24 * time.Hour)

	var stats Stats
	var err error
	if stats.TotalItems, err = s.itemRepo.CountAll(ctx); err != nil {
		return nil, err
	}
	if stats.LowStockItems, err = s.itemRepo.CountLowStock(ctx); err != nil {
		return nil, err
	}
	if stats.ExpiringSoon, err = s.itemRepo.CountExpiring(ctx, now, nextMonth); err != nil {
		return nil, err
	}
	if stats.ExpiredItems, err = s.itemRepo.CountExpired(ctx, now); err != nil {
		return nil, err
	}
	if stats.PendingRequests, err = s.withdrawalRepo.CountByStatus(ctx, entity.RequestStatusPending); err != nil {
		return nil, err
	}

	if s.rdb != nil {
		if payload, err := json.Marshal(stats); err == nil {
			s.rdb.Set(ctx, statsCacheKey, payload, statsCacheTTL)
		}
	}
	return &stats, nil
}

// CategoryStats aggregates item count and quantity per category.
func (s *DashboardService) CategoryStats(ctx context.Context) ([]repository.CategoryStat, error) {
	return s.itemRepo.CategoryStats(ctx)
}

// LowStockItems returns items at or below their reorder level.
func (s *DashboardService) LowStockItems(ctx context.Context) ([]entity.InventoryItem, error) {
	return s.itemRepo.ListLowStock(ctx)
}

// ExpiringItems returns items expiring within the next 30 days.
func (s *DashboardService) ExpiringItems(ctx context.Context) ([]entity.InventoryItem, error) {
	now := time.Now()
	return s.itemRepo.ListExpiring(ctx, now, now.Add(30*24*time.Hour))
}
