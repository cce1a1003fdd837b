package catalog

import (
	"context"
	"sync"
	"time"

	"github.com/ad/go-telegram-practice/internal/models"
	"go.uber.org/zap"
)

// FetchFunc retrieves the full problemset from the remote catalog.
type FetchFunc func(ctx context.Context) ([]models.Problem, error)

// Cache holds the problemset in memory and refreshes it wholesale once
// the TTL expires or a forced refresh is requested. A failed refresh
// keeps the previous contents and timestamp and yields an empty slice
// for that call only.
type Cache struct {
	mu     sync.RWMutex
	fetch  FetchFunc
	ttl    time.Duration
	now    func() time.Time
	logger *zap.Logger

	problems  []models.Problem
	fetchedAt time.Time
}

func NewCache(fetch FetchFunc, ttl time.Duration, logger *zap.Logger) *Cache {
	return &Cache{
		fetch:  fetch,
		ttl:    ttl,
		now:    time.Now,
		logger: logger,
	}
}

func (c *Cache) Problems(ctx context.Context, force bool) []models.Problem {
	c.mu.RLock()
	if c.fresh(force) {
		problems := c.problems
		c.mu.RUnlock()
		return problems
	}
	c.mu.RUnlock()

	c.mu.Lock()
	defer c.mu.Unlock()

	// another request may have refreshed while we waited for the lock
	if c.fresh(force) {
		return c.problems
	}

	problems, err := c.fetch(ctx)
	if err != nil {
		c.logger.Warn("problemset refresh failed", zap.Error(err))
		return nil
	}

	c.problems = problems
	c.fetchedAt = c.now()
	c.logger.Info("problemset refreshed", zap.Int("problems", len(problems)))
	return c.problems
}

// fresh requires at least one successful fetch; callers must hold a lock.
func (c *Cache) fresh(force bool) bool {
	return !force && len(c.problems) > 0 && c.now().Sub(c.fetchedAt) < c.ttl
}
