package auth_test

import (
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/dte-emitter/internal/auth"
	"github.com/rezonia/dte-emitter/internal/model"
)

var epoch = time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC)

func TestTokenCache_GetSet(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	cache := auth.NewTokenCache(clock)

	_, ok := cache.Get(model.EnvironmentTest, "06140101901013")
	assert.False(t, ok)

	cache.Set(&auth.Token{
		Value:       "Bearer a",
		Environment: model.EnvironmentTest,
		NIT:         "06140101901013",
		IssuedAt:    epoch,
		ExpiresAt:   epoch.Add(time.Hour),
	})

	tok, ok := cache.Get(model.EnvironmentTest, "06140101901013")
	require.True(t, ok)
	assert.Equal(t, "Bearer a", tok.Value)

	// Keyed by environment as well
	_, ok = cache.Get(model.EnvironmentProduction, "06140101901013")
	assert.False(t, ok)
	assert.Equal(t, 1, cache.Size())
}

func TestTokenCache_RefreshMargin(t *testing.T) {
	clock := clockwork.NewFakeClockAt(epoch)
	cache := auth.NewTokenCache(clock)
	cache.Set(&auth.Token{
		Value:       "t",
		Environment: model.EnvironmentTest,
		NIT:         "1",
		ExpiresAt:   epoch.Add(time.Hour),
	})

	clock.Advance(29 * time.Minute)
	_, ok := cache.Get(model.EnvironmentTest, "1")
	assert.True(t, ok)

	clock.Advance(time.Minute)
	_, ok = cache.Get(model.EnvironmentTest, "1")
	assert.False(t, ok, "token 30 minutes from expiry must not be used")
	assert.Equal(t, 0, cache.Size())
}

func TestTokenCache_DeleteAndClear(t *testing.T) {
	cache := auth.NewTokenCache(clockwork.NewFakeClockAt(epoch))
	for _, nit := range []string{"1", "2", "3"} {
		cache.Set(&auth.Token{Value: nit, Environment: model.EnvironmentTest, NIT: nit, ExpiresAt: epoch.Add(48 * time.Hour)})
	}
	cache.Set(nil)
	assert.Equal(t, 3, cache.Size())

	cache.Delete(model.EnvironmentTest, "2")
	assert.Equal(t, 2, cache.Size())
	_, ok := cache.Get(model.EnvironmentTest, "2")
	assert.False(t, ok)

	cache.Clear()
	assert.Equal(t, 0, cache.Size())
}
