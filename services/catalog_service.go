package services

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/ryadom-food/restaurant-backend/models"
	"github.com/ryadom-food/restaurant-backend/utils"
)

const (
	catalogCacheKey = "catalog:grouped"
	catalogCacheTTL = 5 * time.Minute
)

// CatalogService serves catalog reads. The grouped payload is cached in
// redis with a short TTL; a nil client just disables caching.
type CatalogService struct {
	DB    *gorm.DB
	Redis *redis.Client
}

func NewCatalogService(db *gorm.DB, rdb *redis.Client) *CatalogService {
	return &CatalogService{DB: db, Redis: rdb}
}

// CategoryGroup is one section of the storefront menu.
type CategoryGroup struct {
	Category string           `json:"category"`
	Products []models.Product `json:"products"`
}

// GroupedCatalog carries a content hash so clients can check staleness
// without re-downloading the full payload.
type GroupedCatalog struct {
	Hash       string          `json:"hash"`
	Categories []CategoryGroup `json:"categories"`
}

// Grouped returns the catalog bucketed by category, cache-first.
func (s *CatalogService) Grouped(ctx context.Context) (*GroupedCatalog, error) {
	if s.Redis != nil {
		if cached, err := s.Redis.Get(ctx, catalogCacheKey).Bytes(); err == nil {
			var out GroupedCatalog
			if json.Unmarshal(cached, &out) == nil {
				return &out, nil
			}
		}
	}

	var products []models.Product
	if err := s.DB.Order("category, sort_order, id").Find(&products).Error; err != nil {
		return nil, err
	}

	out := &GroupedCatalog{Hash: ContentHash(products)}
	byCategory := make(map[string]int)
	for _, p := range products {
		pos, ok := byCategory[p.Category]
		if !ok {
			pos = len(out.Categories)
			byCategory[p.Category] = pos
			out.Categories = append(out.Categories, CategoryGroup{Category: p.Category})
		}
		out.Categories[pos].Products = append(out.Categories[pos].Products, p)
	}

	if s.Redis != nil {
		if payload, err := json.Marshal(out); err == nil {
			// Best effort; a dead cache must not break catalog reads.
			if err := s.Redis.Set(ctx, catalogCacheKey, payload, catalogCacheTTL).Err(); err != nil {
				utils.ErrorLogger.Errorf("catalog cache write failed: %v", err)
			}
		}
	}
	return out, nil
}

// Invalidate drops the cached payload after any catalog write.
func (s *CatalogService) Invalidate(ctx context.Context) {
	if s.Redis == nil {
		return
	}
	if err := s.Redis.Del(ctx, catalogCacheKey).Err(); err != nil {
		utils.ErrorLogger.Errorf("catalog cache invalidation failed: %v", err)
	}
}

// ContentHash fingerprints the fields a storefront cares about. It
// changes whenever a price, availability or ordering changes.
func ContentHash(products []models.Product) string {
	h := sha256.New()
	for _, p := range products {
		fmt.Fprintf(h, "%s|%d|%t|%t|%d;", p.Slug, p.Price, p.IsAvailable, p.IsFeatured, p.SortOrder)
	}
	return hex.EncodeToString(h.Sum(nil))
}

// CatalogStats is the admin dashboard summary.
type CatalogStats struct {
	Total       int64            `json:"total"`
	Unavailable int64            `json:"unavailable"`
	Featured    int64            `json:"featured"`
	PerCategory map[string]int64 `json:"per_category"`
}

func (s *CatalogService) Stats() (*CatalogStats, error) {
	stats := &CatalogStats{PerCategory: make(map[string]int64)}

	if err := s.DB.Model(&models.Product{}).Count(&stats.Total).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Product{}).Where("is_available = ?", false).Count(&stats.Unavailable).Error; err != nil {
		return nil, err
	}
	if err := s.DB.Model(&models.Product{}).Where("is_featured = ?", true).Count(&stats.Featured).Error; err != nil {
		return nil, err
	}

	type row struct {
		Category string
		Total    int64
	}
	var rows []row
	if err := s.DB.Model(&models.Product{}).
		Select("category, count(*) as total").Group("category").Scan(&rows).Error; err != nil {
		return nil, err
	}
	for _, r := range rows {
		stats.PerCategory[r.Category] = r.Total
	}
	return stats, nil
}
