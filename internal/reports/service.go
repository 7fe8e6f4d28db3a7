package reports

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/noah-isme/backend-lapak/internal/store"
)

// Querier defines the database access required by the reporting queries.
type Querier interface {
	TopItems(ctx context.Context, merchantID uuid.UUID, limit int32) ([]store.ItemRevenue, error)
	TopMerchants(ctx context.Context, limit int32) ([]store.MerchantRevenue, error)
	FavoriteCustomers(ctx context.Context, merchantID uuid.UUID, limit int32) ([]store.CustomerActivity, error)
	BestDay(ctx context.Context, merchantID uuid.UUID) (store.BestDay, bool, error)
}

// Service provides cached access to the reporting aggregations. These are
// plain read aggregations; no competing-rule resolution happens here.
type Service struct {
	Q            Querier
	R            *redis.Client
	TTL          time.Duration
	DefaultLimit int32
}

func cacheKey(parts ...any) string {
	formatted := make([]string, 0, len(parts))
	for _, part := range parts {
		formatted = append(formatted, fmt.Sprint(part))
	}
	return strings.Join(formatted, ":")
}

func (s *Service) limit(requested int32) int32 {
	if requested > 0 {
		return requested
	}
	if s.DefaultLimit > 0 {
		return s.DefaultLimit
	}
	return 5
}

// TopItems returns a merchant's best-selling items by revenue.
func (s *Service) TopItems(ctx context.Context, merchantID uuid.UUID, limit int32) ([]store.ItemRevenue, error) {
	if s == nil || s.Q == nil {
		return nil, fmt.Errorf("reports service not configured")
	}
	limit = s.limit(limit)
	key := cacheKey("rp", "top_items", merchantID, limit)
	var cached []store.ItemRevenue
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.Q.TopItems(ctx, merchantID, limit)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, rows)
	return rows, nil
}

// TopMerchants returns merchants ranked by revenue.
func (s *Service) TopMerchants(ctx context.Context, limit int32) ([]store.MerchantRevenue, error) {
	if s == nil || s.Q == nil {
		return nil, fmt.Errorf("reports service not configured")
	}
	limit = s.limit(limit)
	key := cacheKey("rp", "top_merchants", limit)
	var cached []store.MerchantRevenue
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.Q.TopMerchants(ctx, limit)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, rows)
	return rows, nil
}

// FavoriteCustomers returns a merchant's most active customers.
func (s *Service) FavoriteCustomers(ctx context.Context, merchantID uuid.UUID, limit int32) ([]store.CustomerActivity, error) {
	if s == nil || s.Q == nil {
		return nil, fmt.Errorf("reports service not configured")
	}
	limit = s.limit(limit)
	key := cacheKey("rp", "fav_customers", merchantID, limit)
	var cached []store.CustomerActivity
	if s.fromCache(ctx, key, &cached) {
		return cached, nil
	}
	rows, err := s.Q.FavoriteCustomers(ctx, merchantID, limit)
	if err != nil {
		return nil, err
	}
	s.toCache(ctx, key, rows)
	return rows, nil
}

// BestDay returns the merchant's highest-revenue day, or found=false when
// there are no qualifying sales.
func (s *Service) BestDay(ctx context.Context, merchantID uuid.UUID) (store.BestDay, bool, error) {
	if s == nil || s.Q == nil {
		return store.BestDay{}, false, fmt.Errorf("reports service not configured")
	}
	key := cacheKey("rp", "best_day", merchantID)
	var cached store.BestDay
	if s.fromCache(ctx, key, &cached) {
		return cached, true, nil
	}
	day, found, err := s.Q.BestDay(ctx, merchantID)
	if err != nil || !found {
		return store.BestDay{}, found, err
	}
	s.toCache(ctx, key, day)
	return day, true, nil
}

func (s *Service) fromCache(ctx context.Context, key string, v any) bool {
	if s.R == nil || s.TTL <= 0 {
		return false
	}
	data, err := s.R.Get(ctx, key).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(data, v) == nil
}

func (s *Service) toCache(ctx context.Context, key string, v any) {
	if s.R == nil || s.TTL <= 0 {
		return
	}
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	_ = s.R.Set(ctx, key, data, s.TTL).Err()
}
