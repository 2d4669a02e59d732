package openrouter

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClock struct {
	current time.Time
}

func (c *fakeClock) Now() time.Time {
	return c.current
}

func (c *fakeClock) Advance(d time.Duration) {
	c.current = c.current.Add(d)
}

func TestCatalogCachesWithinTTL(t *testing.T) {
	clock := &fakeClock{current: time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)}
	fetches := 0
	fetch := func(ctx context.Context) ([]ModelInfo, error) {
		fetches++
		return []ModelInfo{{Id: "openai/gpt-4.1-mini", Name: "GPT-4.1 Mini"}}, nil
	}

	c := NewCatalog(fetch, clock.Now, "openai/gpt-4.1-mini")
	ctx := context.Background()

	_, err := c.List(ctx)
	require.NoError(t, err)
	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)

	clock.Advance(59 * time.Minute)
	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, fetches)

	clock.Advance(2 * time.Minute)
	_, err = c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, fetches)
}

func TestCatalogFetchErrorPropagates(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	fetchErr := errors.New("upstream down")
	calls := 0
	fetch := func(ctx context.Context) ([]ModelInfo, error) {
		calls++
		if calls == 1 {
			return nil, fetchErr
		}
		return []ModelInfo{{Id: "m"}}, nil
	}

	c := NewCatalog(fetch, clock.Now, "m")
	ctx := context.Background()

	_, err := c.List(ctx)
	assert.ErrorIs(t, err, fetchErr)

	// The failure is not cached, the next call fetches again.
	models, err := c.List(ctx)
	require.NoError(t, err)
	assert.Len(t, models, 1)
}

func TestCatalogIsValid(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	fetch := func(ctx context.Context) ([]ModelInfo, error) {
		return []ModelInfo{{Id: "a"}, {Id: "b"}}, nil
	}
	c := NewCatalog(fetch, clock.Now, "a")
	ctx := context.Background()

	valid, err := c.IsValid(ctx, "b")
	require.NoError(t, err)
	assert.True(t, valid)

	valid, err = c.IsValid(ctx, "z")
	require.NoError(t, err)
	assert.False(t, valid)
}

func TestCatalogResolve(t *testing.T) {
	clock := &fakeClock{current: time.Now()}
	fetch := func(ctx context.Context) ([]ModelInfo, error) {
		return []ModelInfo{{Id: "known"}}, nil
	}
	c := NewCatalog(fetch, clock.Now, "fallback")
	ctx := context.Background()

	tests := []struct {
		name string
		id   string
		want string
	}{
		{name: "known id kept", id: "known", want: "known"},
		{name: "unknown id falls back to default", id: "mystery", want: "fallback"},
		{name: "empty id falls back to default", id: "", want: "fallback"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := c.Resolve(ctx, tt.id)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}
