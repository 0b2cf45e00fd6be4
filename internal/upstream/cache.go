package upstream

import (
	"context"
	"sync"
	"time"
)

// cacheEntry holds a cached response and its expiration time.
type cacheEntry struct {
	value     any
	expiresAt time.Time
}

// CachedClient wraps Client with a TTL cache for the read-only endpoints
// (schemas and model info). Prediction calls are never cached. Expiration is
// lazy: an expired entry is refetched on the next read.
type CachedClient struct {
	client *Client
	ttl    time.Duration

	mu      sync.Mutex
	entries map[string]*cacheEntry
}

// NewCachedClient wraps client with a response cache. A non-positive TTL
// disables caching entirely.
func NewCachedClient(client *Client, ttl time.Duration) *CachedClient {
	return &CachedClient{
		client:  client,
		ttl:     ttl,
		entries: make(map[string]*cacheEntry),
	}
}

// CoxSchema fetches the Cox field schema, served from cache when fresh.
func (c *CachedClient) CoxSchema(ctx context.Context) (*SchemaResponse, error) {
	v, err := c.cached("cox-schema", func() (any, error) {
		return c.client.CoxSchema(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SchemaResponse), nil
}

// BayesianSchema fetches the Bayesian field schema, served from cache when
// fresh.
func (c *CachedClient) BayesianSchema(ctx context.Context) (*SchemaResponse, error) {
	v, err := c.cached("bayesian-schema", func() (any, error) {
		return c.client.BayesianSchema(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SchemaResponse), nil
}

// CoxModelInfo fetches model statistics, served from cache when fresh.
func (c *CachedClient) CoxModelInfo(ctx context.Context) (*ModelInfo, error) {
	v, err := c.cached("cox-model-info", func() (any, error) {
		return c.client.CoxModelInfo(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.(*ModelInfo), nil
}

// PredictCox passes through to the underlying client.
func (c *CachedClient) PredictCox(ctx context.Context, payload map[string]any) (*CoxResult, error) {
	return c.client.PredictCox(ctx, payload)
}

// PredictFlexible passes through to the underlying client.
func (c *CachedClient) PredictFlexible(ctx context.Context, payload *FlexiblePayload) (*FlexibleResult, error) {
	return c.client.PredictFlexible(ctx, payload)
}

func (c *CachedClient) cached(key string, fetch func() (any, error)) (any, error) {
	if c.ttl <= 0 {
		return fetch()
	}

	c.mu.Lock()
	if e, ok := c.entries[key]; ok {
		if time.Now().Before(e.expiresAt) {
			c.mu.Unlock()
			return e.value, nil
		}
		delete(c.entries, key)
	}
	c.mu.Unlock()

	v, err := fetch()
	if err != nil {
		// Failures are not cached; the next read retries the upstream.
		return nil, err
	}

	c.mu.Lock()
	c.entries[key] = &cacheEntry{value: v, expiresAt: time.Now().Add(c.ttl)}
	c.mu.Unlock()
	return v, nil
}
