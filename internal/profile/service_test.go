package profile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pettycoon/backend/internal/domain"
)

func TestRegisterIsIdempotent(t *testing.T) {
	repo := NewFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	first, err := svc.Register(ctx, "tg-1", "alice")
	require.NoError(t, err)
	assert.Equal(t, 1, first.Level)
	assert.Equal(t, "cat", first.PetType)

	// Re-registering refreshes the username and nothing else.
	again, err := svc.Register(ctx, "tg-1", "alice_renamed")
	require.NoError(t, err)
	assert.Equal(t, "alice_renamed", again.Username)
	assert.Equal(t, first.CreatedAt, again.CreatedAt)
}

func TestRegisterRejectsEmptyInput(t *testing.T) {
	svc := NewService(NewFakeRepository())

	_, err := svc.Register(context.Background(), "", "alice")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = svc.Register(context.Background(), "tg-1", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestGetProfileCaches(t *testing.T) {
	repo := NewFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "tg-1", "alice")
	require.NoError(t, err)

	_, err = svc.GetProfile(ctx, "tg-1")
	require.NoError(t, err)

	stats := svc.GetCacheStats()
	assert.Equal(t, uint64(1), stats.Hits, "register primes the cache")

	svc.InvalidateCache("tg-1")
	_, err = svc.GetProfile(ctx, "tg-1")
	require.NoError(t, err)
	assert.Equal(t, uint64(1), svc.GetCacheStats().Misses)
}

func TestGetProfileNotFound(t *testing.T) {
	svc := NewService(NewFakeRepository())

	_, err := svc.GetProfile(context.Background(), "nobody")
	assert.ErrorIs(t, err, domain.ErrProfileNotFound)
}

func TestChangePet(t *testing.T) {
	repo := NewFakeRepository()
	svc := NewService(repo)
	ctx := context.Background()

	_, err := svc.Register(ctx, "tg-1", "alice")
	require.NoError(t, err)

	p, err := svc.ChangePet(ctx, "tg-1", "axolotl")
	require.NoError(t, err)
	assert.Equal(t, "axolotl", p.PetType)
	assert.Equal(t, 1, p.PetChanges)

	_, err = svc.ChangePet(ctx, "tg-1", "dragon")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}
