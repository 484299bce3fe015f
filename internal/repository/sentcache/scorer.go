package sentcache

import (
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"github.com/docsift/docsift/internal/db"
	"github.com/docsift/docsift/internal/domain"
)

// store is the consumer interface for the sentiment cache (ISP).
type store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Set(ctx context.Context, key string, value []byte) error
	SetWithTTL(ctx context.Context, key string, value []byte, ttl time.Duration) error
}

// CachedScorer caches sentiment scores in a key-value store. Scores are
// deterministic per text, so entries never go stale; TTL is only a way
// to bound cache growth.
type CachedScorer struct {
	inner      domain.SentimentScorer
	store      store
	cacheTotal *prometheus.CounterVec
	logger     *zap.Logger
	ttl        time.Duration
}

// New creates a caching decorator.
// cacheTotal is a counter vec with label "result" ("hit"/"miss"), passed explicitly.
func New(
	inner domain.SentimentScorer,
	s store,
	cacheTotal *prometheus.CounterVec,
	logger *zap.Logger,
) *CachedScorer {
	return &CachedScorer{
		inner:      inner,
		store:      s,
		cacheTotal: cacheTotal,
		logger:     logger,
	}
}

// WithTTL sets an expiry on cache entries. Zero keeps them forever.
func (c *CachedScorer) WithTTL(ttl time.Duration) *CachedScorer {
	c.ttl = ttl
	return c
}

// Score returns a cached sentiment score or calls the inner scorer.
func (c *CachedScorer) Score(ctx context.Context, text string) (float64, error) {
	key := c.cacheKey(text)

	if score, ok := c.getFromCache(ctx, key); ok {
		c.incCache("hit")
		return score, nil
	}

	c.incCache("miss")

	score, err := c.inner.Score(ctx, text)
	if err != nil {
		return 0, fmt.Errorf("score text: %w", err)
	}

	c.putToCache(ctx, key, score)
	return score, nil
}

func (c *CachedScorer) incCache(result string) {
	if c.cacheTotal != nil {
		c.cacheTotal.WithLabelValues(result).Inc()
	}
}

func (c *CachedScorer) cacheKey(text string) string {
	h := sha256.Sum256([]byte(text))
	return domain.KeyPrefix + "sent_cache:" + hex.EncodeToString(h[:])
}

func (c *CachedScorer) getFromCache(ctx context.Context, key string) (float64, bool) {
	data, err := c.store.Get(ctx, key)
	if err != nil {
		if !errors.Is(err, db.ErrKeyNotFound) {
			c.logger.Warn("Failed to get cached sentiment", zap.String("key", key), zap.Error(err))
		}
		return 0, false
	}

	score, err := bytesToScore(data)
	if err != nil {
		c.logger.Warn("Failed to parse cached sentiment", zap.String("key", key), zap.Error(err))
		return 0, false
	}

	return score, true
}

func (c *CachedScorer) putToCache(ctx context.Context, key string, score float64) {
	data := scoreToCacheBytes(score)

	var err error
	if c.ttl > 0 {
		err = c.store.SetWithTTL(ctx, key, data, c.ttl)
	} else {
		err = c.store.Set(ctx, key, data)
	}
	if err != nil {
		c.logger.Warn("Failed to cache sentiment", zap.String("key", key), zap.Error(err))
	}
}

func scoreToCacheBytes(score float64) []byte {
	buf := make([]byte, 8)
	binary.LittleEndian.PutUint64(buf, math.Float64bits(score))
	return buf
}

func bytesToScore(data []byte) (float64, error) {
	if len(data) != 8 {
		return 0, fmt.Errorf("invalid sentiment cache data: len=%d", len(data))
	}
	return math.Float64frombits(binary.LittleEndian.Uint64(data)), nil
}
