package main

import (
	"context"
	"log"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/pettycoon/backend/internal/bootstrap"
	"github.com/pettycoon/backend/internal/config"
	"github.com/pettycoon/backend/internal/database"
	"github.com/pettycoon/backend/internal/lootbox"
	"github.com/pettycoon/backend/internal/passive"
	"github.com/pettycoon/backend/internal/profile"
	"github.com/pettycoon/backend/internal/progression"
	"github.com/pettycoon/backend/internal/quest"
	"github.com/pettycoon/backend/internal/server"
	"github.com/pettycoon/backend/internal/unlock"
)

const shutdownTimeout = 15 * time.Second

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		log.Fatalf("Environment validation failed: %v", err)
	}

	logFile, err := bootstrap.SetupLogger(cfg)
	if err != nil {
		log.Fatalf("Failed to set up logging: %v", err)
	}
	defer logFile.Close()

	for _, warning := range warnings {
		slog.Warn(warning)
	}

	ctx := context.Background()

	dbPool, err := database.NewPool(ctx, cfg.GetDBConnString(), cfg.DBMaxConns, cfg.DBMaxIdle, cfg.DBMaxLife)
	if err != nil {
		slog.Error("Failed to connect to database", "error", err)
		os.Exit(1)
	}
	defer dbPool.Close()

	eventBus, resilientPublisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		slog.Error("Failed to initialize event system", "error", err)
		os.Exit(1)
	}
	bootstrap.RegisterEventHandlers(eventBus)

	generator, err := bootstrap.InitializeRewardGenerator(cfg)
	if err != nil {
		slog.Error("Failed to initialize reward generator", "error", err)
		os.Exit(1)
	}

	repos := bootstrap.InitializeRepositories(dbPool)

	profileService := profile.NewService(repos.Profile)
	unlockService := unlock.NewService(repos.Unlock, resilientPublisher)
	questService := quest.NewService(repos.Quest, resilientPublisher, cfg.SeasonID)
	lootboxService := lootbox.NewService(repos.Lootbox, generator, resilientPublisher)

	passivePolicy := passive.Policy{
		RatePerHour: cfg.PassiveRatePerHour,
		MaxHours:    cfg.PassiveMaxHours,
		GraceHours:  cfg.PassiveGraceHours,
		BasePenalty: cfg.PassivePenaltyPerHour,
	}

	progressionService := progression.NewService(
		repos.Profile,
		profileService,
		unlockService,
		questService,
		lootboxService,
		resilientPublisher,
		passivePolicy,
	)

	srv := server.NewServer(
		cfg.Port,
		cfg.APIKey,
		cfg.TrustedProxies,
		dbPool,
		profileService,
		lootboxService,
		progressionService,
	)

	serverErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	stop := make(chan os.Signal, 1)
	signal.Notify(stop, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErr:
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	case sig := <-stop:
		slog.Info("Shutdown signal received", "signal", sig.String())
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		ResilientPublisher: resilientPublisher,
	})
}
