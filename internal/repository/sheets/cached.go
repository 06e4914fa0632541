package sheets

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/mamadbah2/perfdash/internal/metrics"
	"github.com/mamadbah2/perfdash/internal/repository/cache"
)

// DefaultTTL bounds how long a fetched range is served from cache.
const DefaultTTL = 5 * time.Minute

// CachedRepository is a read-through cache in front of a Repository.
// Cache failures are logged and bypassed; they never fail a read.
type CachedRepository struct {
	next          Repository
	cache         cache.Cache
	spreadsheetID string
	ttl           time.Duration
	metrics       *metrics.Recorder
	logger        *zap.Logger
}

// NewCachedRepository decorates next. A non-positive ttl falls back to DefaultTTL.
func NewCachedRepository(next Repository, c cache.Cache, spreadsheetID string, ttl time.Duration, rec *metrics.Recorder, logger *zap.Logger) *CachedRepository {
	if logger == nil {
		logger = zap.NewNop()
	}
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &CachedRepository{
		next:          next,
		cache:         c,
		spreadsheetID: spreadsheetID,
		ttl:           ttl,
		metrics:       rec,
		logger:        logger,
	}
}

// Key is the cache key of one range.
func (r *CachedRepository) Key(sheetRange string) string {
	return fmt.Sprintf("sheets:%s:%s", r.spreadsheetID, sheetRange)
}

func (r *CachedRepository) ReadRange(ctx context.Context, sheetRange string) ([][]interface{}, error) {
	if rows, ok := r.lookup(ctx, sheetRange); ok {
		return rows, nil
	}

	rows, err := r.next.ReadRange(ctx, sheetRange)
	if err != nil {
		return nil, err
	}
	r.store(ctx, sheetRange, rows)
	return rows, nil
}

// ReadRanges serves cached ranges and fetches only the missing ones in a single batch.
func (r *CachedRepository) ReadRanges(ctx context.Context, sheetRanges ...string) (map[string][][]interface{}, error) {
	out := make(map[string][][]interface{}, len(sheetRanges))
	var missing []string
	for _, rng := range sheetRanges {
		if rows, ok := r.lookup(ctx, rng); ok {
			out[rng] = rows
			continue
		}
		missing = append(missing, rng)
	}
	if len(missing) == 0 {
		return out, nil
	}

	fetched, err := r.next.ReadRanges(ctx, missing...)
	if err != nil {
		return nil, err
	}
	for rng, rows := range fetched {
		r.store(ctx, rng, rows)
		out[rng] = rows
	}
	return out, nil
}

func (r *CachedRepository) lookup(ctx context.Context, sheetRange string) ([][]interface{}, bool) {
	raw, ok, err := r.cache.Get(ctx, r.Key(sheetRange))
	switch {
	case err != nil:
		r.metrics.CacheLookup("error")
		r.logger.Warn("cache get failed", zap.String("range", sheetRange), zap.Error(err))
		return nil, false
	case !ok:
		r.metrics.CacheLookup("miss")
		return nil, false
	}

	var rows [][]interface{}
	if err := json.Unmarshal(raw, &rows); err != nil {
		r.metrics.CacheLookup("error")
		r.logger.Warn("discarding undecodable cache entry", zap.String("range", sheetRange), zap.Error(err))
		return nil, false
	}
	r.metrics.CacheLookup("hit")
	return rows, true
}

func (r *CachedRepository) store(ctx context.Context, sheetRange string, rows [][]interface{}) {
	raw, err := json.Marshal(rows)
	if err != nil {
		r.logger.Warn("cannot encode range for cache", zap.String("range", sheetRange), zap.Error(err))
		return
	}
	if err := r.cache.Set(ctx, r.Key(sheetRange), raw, r.ttl); err != nil {
		r.logger.Warn("cache set failed", zap.String("range", sheetRange), zap.Error(err))
	}
}
