package profile

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/pettycoon/backend/internal/domain"
	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/repository"
)

// Service defines the interface for profile operations
type Service interface {
	Register(ctx context.Context, userID, username string) (*domain.Profile, error)
	GetProfile(ctx context.Context, userID string) (*domain.Profile, error)
	GetSnapshot(ctx context.Context, userID string) (*domain.PlayerSnapshot, error)
	ChangePet(ctx context.Context, userID, petType string) (*domain.Profile, error)

	// InvalidateCache drops the cached profile after an out-of-band
	// mutation (engine writes go through the repositories directly).
	InvalidateCache(userID string)
	GetCacheStats() CacheStats
}

// CacheStats exposes hit/miss counters for the profile cache
type CacheStats struct {
	Hits   uint64 `json:"hits"`
	Misses uint64 `json:"misses"`
}

type service struct {
	repo  repository.Profile
	cache *profileCache

	cacheHits   atomic.Uint64
	cacheMisses atomic.Uint64
}

// NewService creates a new profile service
func NewService(repo repository.Profile) Service {
	return &service{
		repo:  repo,
		cache: newProfileCache(DefaultCacheSize, DefaultCacheTTL),
	}
}

// Register creates the profile on first contact and refreshes the username
// afterwards. Safe to call on every session start.
func (s *service) Register(ctx context.Context, userID, username string) (*domain.Profile, error) {
	if userID == "" || username == "" {
		return nil, fmt.Errorf("%w: user id and username are required", domain.ErrInvalidInput)
	}

	p, err := s.repo.CreateProfile(ctx, userID, username)
	if err != nil {
		return nil, fmt.Errorf("failed to register profile: %w", err)
	}

	s.cache.Set(userID, p)
	logger.FromContext(ctx).Info("Profile registered", "user_id", userID, "username", username)
	return p, nil
}

func (s *service) GetProfile(ctx context.Context, userID string) (*domain.Profile, error) {
	if p, ok := s.cache.Get(userID); ok {
		s.cacheHits.Add(1)
		return p, nil
	}
	s.cacheMisses.Add(1)

	p, err := s.repo.GetProfile(ctx, userID)
	if err != nil {
		return nil, err
	}

	s.cache.Set(userID, p)
	return p, nil
}

// GetSnapshot always reads through to the database: requirement evaluation
// runs right after mutations and must not see a stale projection.
func (s *service) GetSnapshot(ctx context.Context, userID string) (*domain.PlayerSnapshot, error) {
	return s.repo.GetSnapshot(ctx, userID)
}

func (s *service) ChangePet(ctx context.Context, userID, petType string) (*domain.Profile, error) {
	if !validPetTypes[petType] {
		return nil, fmt.Errorf("%w: unknown pet type %q", domain.ErrInvalidInput, petType)
	}

	p, err := s.repo.ChangePet(ctx, userID, petType)
	if err != nil {
		return nil, err
	}

	s.cache.Set(userID, p)
	logger.FromContext(ctx).Info("Pet changed", "user_id", userID, "pet_type", petType, "pet_changes", p.PetChanges)
	return p, nil
}

func (s *service) InvalidateCache(userID string) {
	s.cache.Invalidate(userID)
}

func (s *service) GetCacheStats() CacheStats {
	return CacheStats{
		Hits:   s.cacheHits.Load(),
		Misses: s.cacheMisses.Load(),
	}
}
