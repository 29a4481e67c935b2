package redis

import (
	"context"
	"time"

	"github.com/turtacn/CoverGap-Intelligence/internal/domain/coverage"
	"github.com/turtacn/CoverGap-Intelligence/pkg/errors"
)

const analysisKeyPrefix = "analysis:"

// AnalysisCache stores analyses keyed by policy hash.
type AnalysisCache struct {
	cache Cache
}

// NewAnalysisCache adapts cache to coverage.AnalysisCache.
func NewAnalysisCache(cache Cache) *AnalysisCache {
	return &AnalysisCache{cache: cache}
}

func (a *AnalysisCache) Get(ctx context.Context, policyHash string) (*coverage.Analysis, bool, error) {
	var out coverage.Analysis
	err := a.cache.Get(ctx, analysisKeyPrefix+policyHash, &out)
	if errors.IsCode(err, errors.ErrCodeNotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return &out, true, nil
}

func (a *AnalysisCache) Set(ctx context.Context, policyHash string, an *coverage.Analysis, ttl time.Duration) error {
	return a.cache.Set(ctx, analysisKeyPrefix+policyHash, an, ttl)
}

func (a *AnalysisCache) Ping(ctx context.Context) error {
	return a.cache.Ping(ctx)
}

var _ coverage.AnalysisCache = (*AnalysisCache)(nil)

//Personal.AI order the ending
