package service

import (
	"context"
	"time"

	"gorm.io/gorm"

	"memotheque/internal/core/cache"
	"memotheque/internal/domain"
)

const (
	statsCacheKey = "memotheque:stats:v1"
	statsCacheTTL = time.Minute
)

// Stats 纯读聚合；走 redis 短缓存，写操作后由 Theses 失效
type Stats struct {
	db    *gorm.DB
	cache *cache.Cache
}

func NewStats(db *gorm.DB, c *cache.Cache) *Stats { return &Stats{db: db, cache: c} }

type CountRow struct {
	Name  string `json:"name"`
	Count int64  `json:"count"`
}

type Statistics struct {
	TotalTheses int64      `json:"totalTheses"`
	PerEntity   []CountRow `json:"perEntity"`   // count 降序
	PerSession  []CountRow `json:"perSession"`  // 学年降序
	TopPrograms []CountRow `json:"topPrograms"` // count 降序，前 10
}

func (s *Stats) Get(ctx context.Context) (*Statistics, error) {
	if s.cache == nil {
		return s.load(ctx)
	}
	return cache.GetOrLoadJSON[Statistics](s.cache, ctx, statsCacheKey, statsCacheTTL, s.load)
}

func (s *Stats) Invalidate(ctx context.Context) {
	if s.cache != nil {
		s.cache.Invalidate(ctx, statsCacheKey)
	}
}

func (s *Stats) load(ctx context.Context) (*Statistics, error) {
	out := &Statistics{}

	if err := s.db.WithContext(ctx).Model(&domain.Thesis{}).
		Count(&out.TotalTheses).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Table("theses AS m").
		Select("e.name AS name, COUNT(*) AS count").
		Joins("JOIN programs f ON m.program_id = f.id").
		Joins("JOIN entities e ON f.entity_id = e.id").
		Group("e.name").
		Order("count DESC").
		Scan(&out.PerEntity).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Table("theses AS m").
		Select("s.label AS name, COUNT(*) AS count").
		Joins("JOIN sessions s ON m.session_id = s.id").
		Group("s.label").
		Order("s.label DESC").
		Scan(&out.PerSession).Error; err != nil {
		return nil, err
	}

	if err := s.db.WithContext(ctx).
		Table("theses AS m").
		Select("f.name AS name, COUNT(*) AS count").
		Joins("JOIN programs f ON m.program_id = f.id").
		Group("f.name").
		Order("count DESC").
		Limit(10).
		Scan(&out.TopPrograms).Error; err != nil {
		return nil, err
	}

	return out, nil
}
