package calendar

import (
	"context"
	"fmt"
	"time"

	gocache "github.com/patrickmn/go-cache"

	"github.com/psouza/agenda-api/internal/model"
)

// CachedClient memoizes list calls for a short window so a UI re-render
// right after an action does not hit the provider again. Creating an
// event invalidates the cache.
type CachedClient struct {
	inner Client
	cache *gocache.Cache
}

func NewCachedClient(inner Client, ttl time.Duration) *CachedClient {
	return &CachedClient{
		inner: inner,
		cache: gocache.New(ttl, 2*ttl),
	}
}

func (c *CachedClient) CreateEvent(ctx context.Context, rec model.AppointmentRecord) (string, error) {
	link, err := c.inner.CreateEvent(ctx, rec)
	if err == nil {
		c.cache.Flush()
	}
	return link, err
}

func (c *CachedClient) FetchUpcoming(ctx context.Context) ([]model.AppointmentRecord, error) {
	return c.fetch(ctx, "upcoming", func() ([]model.AppointmentRecord, error) {
		return c.inner.FetchUpcoming(ctx)
	})
}

func (c *CachedClient) FetchPast(ctx context.Context, lookbackDays int) ([]model.AppointmentRecord, error) {
	key := fmt.Sprintf("past:%d", lookbackDays)
	return c.fetch(ctx, key, func() ([]model.AppointmentRecord, error) {
		return c.inner.FetchPast(ctx, lookbackDays)
	})
}

func (c *CachedClient) fetch(_ context.Context, key string, load func() ([]model.AppointmentRecord, error)) ([]model.AppointmentRecord, error) {
	if cached, ok := c.cache.Get(key); ok {
		return cached.([]model.AppointmentRecord), nil
	}
	records, err := load()
	if err != nil {
		// Errors are not cached; the next interaction retries manually.
		return nil, err
	}
	c.cache.SetDefault(key, records)
	return records, nil
}
