package app

import (
	"context"
	"fmt"
	"time"

	"valley_travel/internal/domain"
)

// CatalogService serves travel packages through the cache.
type CatalogService struct {
	repo     domain.PackageRepository
	cache    domain.Cache
	cacheTTL time.Duration
}

func NewCatalogService(r domain.PackageRepository, c domain.Cache, ttl time.Duration) *CatalogService {
	return &CatalogService{repo: r, cache: c, cacheTTL: ttl}
}

const packagesKey = "packages:active"

func (s *CatalogService) GetPackage(ctx context.Context, id int64) (domain.TravelPackage, error) {
	key := fmt.Sprintf("package:%d", id)
	var p domain.TravelPackage
	if ok, _ := s.cache.Get(ctx, key, &p); ok {
		return p, nil
	}
	p, err := s.repo.GetPackage(ctx, id)
	if err != nil {
		return domain.TravelPackage{}, err
	}
	_ = s.cache.Set(ctx, key, p, int(s.cacheTTL.Seconds()))
	return p, nil
}

func (s *CatalogService) ListPackages(ctx context.Context) ([]domain.TravelPackage, error) {
	var out []domain.TravelPackage
	if ok, _ := s.cache.Get(ctx, packagesKey, &out); ok {
		return out, nil
	}
	ps, err := s.repo.ListPackages(ctx)
	if err != nil {
		return nil, err
	}
	// copy so callers can't mutate what the cache holds
	out = deepCopyPackages(ps)
	_ = s.cache.Set(ctx, packagesKey, out, int(s.cacheTTL.Seconds()))
	return deepCopyPackages(out), nil
}

func deepCopyPackages(in []domain.TravelPackage) []domain.TravelPackage {
	out := make([]domain.TravelPackage, len(in))
	for i, p := range in {
		p.Highlights = append([]string(nil), p.Highlights...)
		out[i] = p
	}
	return out
}
