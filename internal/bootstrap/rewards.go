package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/pettycoon/backend/internal/config"
	"github.com/pettycoon/backend/internal/reward"
)

// InitializeRewardGenerator loads the drop tables config and builds the
// weighted reward generator shared by lootbox opens.
func InitializeRewardGenerator(cfg *config.Config) (*reward.Generator, error) {
	dropConfig, err := reward.LoadConfig(cfg.DropTablesPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadDropTables, err)
	}

	generator, err := reward.NewGenerator(dropConfig)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", ErrMsgFailedBuildRewardEngine, err)
	}

	slog.Info(LogMsgDropTablesLoaded,
		"path", cfg.DropTablesPath,
		"tables", len(dropConfig.DropTables))

	return generator, nil
}
