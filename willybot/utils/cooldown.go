package utils

import (
	"sync"
	"time"

	"github.com/disgoorg/snowflake/v2"
	lru "github.com/hashicorp/golang-lru"
	"golang.org/x/time/rate"
)

// Cooldowns rate limits commands per user. Limiters live in a bounded LRU so
// users who stop talking are eventually forgotten.
type Cooldowns struct {
	mu    sync.Mutex
	every time.Duration
	cache *lru.Cache
}

func NewCooldowns(size int, every time.Duration) (*Cooldowns, error) {
	cache, err := lru.New(size)
	if err != nil {
		return nil, err
	}
	return &Cooldowns{every: every, cache: cache}, nil
}

// Allow reports whether the user may run a command now, and otherwise how
// long they have to wait.
func (c *Cooldowns) Allow(userID snowflake.ID) (bool, time.Duration) {
	return c.AllowAt(userID, time.Now())
}

func (c *Cooldowns) AllowAt(userID snowflake.ID, now time.Time) (bool, time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	var limiter *rate.Limiter
	if v, ok := c.cache.Get(userID); ok {
		limiter = v.(*rate.Limiter)
	} else {
		limiter = rate.NewLimiter(rate.Every(c.every), 1)
		c.cache.Add(userID, limiter)
	}

	r := limiter.ReserveN(now, 1)
	if delay := r.DelayFrom(now); delay > 0 {
		r.CancelAt(now)
		return false, delay
	}
	return true, 0
}
