package engine

import (
	"context"
	"encoding/json"
	"time"

	"go.uber.org/zap"

	"github.com/ppiankov/tagharmony/internal/cache"
	"github.com/ppiankov/tagharmony/internal/model"
)

// CachedTagger memoizes a tagger's output per text
type CachedTagger struct {
	next   Tagger
	cache  cache.Cache
	ttl    time.Duration
	logger *zap.Logger
}

// NewCachedTagger wraps next with c
func NewCachedTagger(next Tagger, c cache.Cache, ttl time.Duration, logger *zap.Logger) *CachedTagger {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &CachedTagger{next: next, cache: c, ttl: ttl, logger: logger}
}

// ID returns the wrapped engine's identifier
func (c *CachedTagger) ID() model.EngineID {
	return c.next.ID()
}

// Tag returns the cached tokens for text, calling the wrapped tagger on a miss.
// Failures are never cached.
func (c *CachedTagger) Tag(ctx context.Context, text string) ([]model.RawToken, error) {
	key := cache.Key(string(c.next.ID()), text)

	if data, ok := c.cache.Get(key); ok {
		var tokens []model.RawToken
		if err := json.Unmarshal(data, &tokens); err == nil {
			c.logger.Debug("tagger cache hit", zap.String("engine", string(c.next.ID())), zap.Int("tokens", len(tokens)))
			return tokens, nil
		}
		_ = c.cache.Delete(key)
	}

	tokens, err := c.next.Tag(ctx, text)
	if err != nil {
		return nil, err
	}

	if data, err := json.Marshal(tokens); err == nil {
		if err := c.cache.Set(key, data, c.ttl); err != nil {
			c.logger.Warn("tagger cache write failed", zap.Error(err))
		}
	}
	return tokens, nil
}
