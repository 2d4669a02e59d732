package openrouter

import (
	"context"
	"sync"
	"time"
)

const catalogTTL = 1 * time.Hour

type ModelPricing struct {
	Prompt     string `json:"prompt"`
	Completion string `json:"completion"`
}

type ModelInfo struct {
	Id                  string       `json:"id"`
	Name                string       `json:"name"`
	ContextLength       int          `json:"context_length"`
	MaxCompletionTokens int          `json:"max_completion_tokens"`
	Pricing             ModelPricing `json:"pricing"`
}

// Catalog caches the upstream model list for one hour. All callers
// within the window observe the same snapshot. Concurrent refreshers are
// tolerated: last write wins, staleness is acceptable, so no fetch lock
// is held across the network call.
type Catalog struct {
	fetch        func(ctx context.Context) ([]ModelInfo, error)
	now          func() time.Time
	defaultModel string

	mu        sync.RWMutex
	snapshot  []ModelInfo
	expiresAt time.Time
}

func NewCatalog(fetch func(ctx context.Context) ([]ModelInfo, error), now func() time.Time, defaultModel string) *Catalog {
	return &Catalog{
		fetch:        fetch,
		now:          now,
		defaultModel: defaultModel,
	}
}

// List returns the cached snapshot, refreshing it when expired. A fetch
// failure propagates to the caller and leaves the cache untouched; it is
// not retried until the next call.
func (c *Catalog) List(ctx context.Context) ([]ModelInfo, error) {
	c.mu.RLock()
	if c.snapshot != nil && c.now().Before(c.expiresAt) {
		snapshot := c.snapshot
		c.mu.RUnlock()
		return snapshot, nil
	}
	c.mu.RUnlock()

	models, err := c.fetch(ctx)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	c.snapshot = models
	c.expiresAt = c.now().Add(catalogTTL)
	c.mu.Unlock()

	return models, nil
}

// IsValid reports whether the id exists in the current snapshot.
func (c *Catalog) IsValid(ctx context.Context, id string) (bool, error) {
	models, err := c.List(ctx)
	if err != nil {
		return false, err
	}
	for _, m := range models {
		if m.Id == id {
			return true, nil
		}
	}
	return false, nil
}

// Resolve substitutes the default model for ids absent from the current
// snapshot rather than erroring.
func (c *Catalog) Resolve(ctx context.Context, id string) (string, error) {
	if id != "" {
		valid, err := c.IsValid(ctx, id)
		if err != nil {
			return "", err
		}
		if valid {
			return id, nil
		}
	}
	return c.defaultModel, nil
}

func (c *Catalog) Default() string {
	return c.defaultModel
}
