package bootstrap

import (
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/pettycoon/backend/internal/database/postgres"
	"github.com/pettycoon/backend/internal/repository"
)

// Repositories holds all repository implementations used by the application.
// This provides a centralized location for repository initialization and
// makes dependency injection clearer.
type Repositories struct {
	Profile repository.Profile
	Unlock  repository.Unlock
	Quest   repository.Quest
	Lootbox repository.Lootbox
}

// InitializeRepositories creates all repository implementations
func InitializeRepositories(dbPool *pgxpool.Pool) *Repositories {
	return &Repositories{
		Profile: postgres.NewProfileRepository(dbPool),
		Unlock:  postgres.NewUnlockRepository(dbPool),
		Quest:   postgres.NewQuestRepository(dbPool),
		Lootbox: postgres.NewLootboxRepository(dbPool),
	}
}
