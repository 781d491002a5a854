package core

import (
	"context"
	"crypto/sha256"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/huangsam/skillspot/schema"
	"go.uber.org/zap"
)

// currentCacheVersion defines the version of the cached result encoding.
const currentCacheVersion = 1

// cachedCompute returns the cached result of op for the current data version, computing and
// storing it on a miss. Concurrent misses for the same key share one computation, which is
// detached from any single caller's cancellation; each caller still returns as soon as its
// own ctx is done. Cache failures never fail the call; the result is recomputed instead.
func cachedCompute[T any](ctx context.Context, e *Engine, op string, params []any, compute func(ctx context.Context, version string) (T, error)) (T, error) {
	var zero T
	version, err := e.source.Version(ctx)
	if err != nil {
		return zero, schema.SourceUnavailable(err)
	}
	if e.cache == nil {
		return compute(ctx, version)
	}

	key := generateCacheKey(op, params, version)
	shared := context.WithoutCancel(ctx)
	ch := e.group.DoChan(key, func() (any, error) {
		if result, ok := checkCacheHit[T](e, op, key); ok {
			return result, nil
		}
		return computeAndStore(shared, e, op, key, version, compute)
	})
	select {
	case <-ctx.Done():
		return zero, schema.SourceUnavailable(ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return zero, res.Err
		}
		return res.Val.(T), nil
	}
}

// checkCacheHit attempts to retrieve and validate a cached result.
func checkCacheHit[T any](e *Engine, op, key string) (T, bool) {
	var result T
	data, version, ts, err := e.cache.Get(key)
	if err != nil {
		if !errors.Is(err, sql.ErrNoRows) {
			e.logger.Warn("cache read failed", zap.String("op", op), zap.Error(err))
		}
		e.logger.Debug("cache miss", zap.String("op", op))
		return result, false
	}

	if version != currentCacheVersion {
		e.logger.Debug("cache entry has an old format", zap.String("op", op), zap.Int("version", version))
		return result, false
	}
	if e.cacheTTL > 0 && e.now().Sub(time.Unix(ts, 0)) > e.cacheTTL {
		e.logger.Debug("cache entry expired", zap.String("op", op))
		return result, false
	}
	if err := json.Unmarshal(data, &result); err != nil {
		e.logger.Warn("cache entry could not be decoded", zap.String("op", op), zap.Error(err))
		return result, false
	}
	e.logger.Debug("cache hit", zap.String("op", op))
	return result, true
}

// computeAndStore computes the result and stores it in cache.
func computeAndStore[T any](ctx context.Context, e *Engine, op, key, version string, compute func(ctx context.Context, version string) (T, error)) (T, error) {
	result, err := compute(ctx, version)
	if err != nil {
		return result, err
	}

	data, err := json.Marshal(result)
	if err != nil {
		e.logger.Warn("result could not be encoded for the cache", zap.String("op", op), zap.Error(err))
		return result, nil
	}
	if err := e.cache.Set(key, data, currentCacheVersion, e.now().Unix()); err != nil {
		e.logger.Warn("cache write failed", zap.String("op", op), zap.Error(err))
	}
	return result, nil
}

// generateCacheKey hashes the operation, its normalized parameters and the data version.
func generateCacheKey(op string, params []any, version string) string {
	parts := make([]string, 0, len(params)+2)
	parts = append(parts, op)
	for _, p := range params {
		parts = append(parts, normalizeParam(p))
	}
	parts = append(parts, version)
	return fmt.Sprintf("%x", sha256.Sum256([]byte(strings.Join(parts, "|"))))
}

// normalizeParam renders a parameter canonically: strings are trimmed and lower-cased and
// numbers use their shortest exact form.
func normalizeParam(p any) string {
	switch v := p.(type) {
	case string:
		return schema.SkillKey(v)
	case []string:
		out := make([]string, len(v))
		for i, s := range v {
			out[i] = schema.SkillKey(s)
		}
		return strings.Join(out, ",")
	case int:
		return strconv.Itoa(v)
	case float64:
		return strconv.FormatFloat(v, 'g', -1, 64)
	case time.Time:
		if v.IsZero() {
			return ""
		}
		return v.UTC().Format(time.RFC3339)
	case fmt.Stringer:
		return schema.SkillKey(v.String())
	default:
		return schema.SkillKey(fmt.Sprint(v))
	}
}
