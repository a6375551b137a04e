package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/pettycoon/backend/internal/database"
	"github.com/pettycoon/backend/internal/handler"
	"github.com/pettycoon/backend/internal/logger"
	"github.com/pettycoon/backend/internal/lootbox"
	"github.com/pettycoon/backend/internal/metrics"
	"github.com/pettycoon/backend/internal/profile"
	"github.com/pettycoon/backend/internal/progression"
)

type Server struct {
	httpServer         *http.Server
	dbPool             database.Pool
	profileService     profile.Service
	lootboxService     lootbox.Service
	progressionService progression.Service
}

// NewServer creates a new Server instance with the full route tree mounted
func NewServer(port int, apiKey string, trustedProxies []string, dbPool database.Pool, profileService profile.Service, lootboxService lootbox.Service, progressionService progression.Service) *Server {
	r := chi.NewRouter()

	// Middleware stack, outermost to innermost
	detector := NewSuspiciousActivityDetector()

	r.Use(SecurityHeadersMiddleware())
	r.Use(AuthMiddleware(apiKey, trustedProxies, detector))
	r.Use(SecurityLoggingMiddleware(trustedProxies, detector))
	r.Use(RequestSizeLimitMiddleware(MaxRequestBodyBytes))
	r.Use(metrics.Middleware)
	r.Use(loggingMiddleware)

	// Health check routes (unversioned)
	r.Get("/healthz", handler.HandleHealthz())
	r.Get("/readyz", handler.HandleReadyz(dbPool))

	// Version endpoint (public, for deployment verification)
	r.Get("/version", handler.HandleVersion())

	// Metrics endpoint (public, for Prometheus scraping)
	r.Handle("/metrics", promhttp.Handler())

	// API v1 routes
	r.Route("/api/v1", func(r chi.Router) {
		// Profile routes
		profileHandler := handler.NewProfileHandler(profileService, progressionService)
		r.Route("/profile", func(r chi.Router) {
			r.Post("/register", profileHandler.Register)
			r.Get("/", profileHandler.Get)
			r.Post("/pet", profileHandler.ChangePet)
		})

		// Core game loop routes
		gameHandler := handler.NewGameHandler(progressionService)
		r.Route("/game", func(r chi.Router) {
			r.Post("/click", gameHandler.Click)
			r.Post("/catch", gameHandler.Catch)
			r.Post("/chest/claim", gameHandler.ClaimChest)
			r.Post("/passive/claim", gameHandler.ClaimPassive)
		})

		// Unlock catalog and reward routes
		rewardsHandler := handler.NewRewardsHandler(progressionService)
		r.Post("/rewards/claim", rewardsHandler.ClaimReward)
		r.Get("/achievements", rewardsHandler.ListAchievements)
		r.Get("/ranks", rewardsHandler.ListRanks)
		r.Get("/pet-milestones", rewardsHandler.ListPetMilestones)
		r.Route("/titles", func(r chi.Router) {
			r.Get("/", rewardsHandler.ListTitles)
			r.Post("/equip", rewardsHandler.EquipTitle)
		})

		// Quest routes
		questHandler := handler.NewQuestHandler(progressionService)
		r.Route("/quests", func(r chi.Router) {
			r.Get("/", questHandler.List)
			r.Post("/claim", questHandler.Claim)
		})

		// Lootbox routes
		lootboxHandler := handler.NewLootboxHandler(lootboxService, progressionService)
		r.Route("/lootboxes", func(r chi.Router) {
			r.Get("/", lootboxHandler.Catalog)
			r.Get("/owned", lootboxHandler.Owned)
			r.Post("/purchase", lootboxHandler.Purchase)
			r.Post("/open", lootboxHandler.Open)
			r.Get("/history", lootboxHandler.History)
		})

		// Admin routes
		adminHandler := handler.NewAdminHandler(profileService)
		r.Route("/admin", func(r chi.Router) {
			r.Route("/cache", func(r chi.Router) {
				r.Get("/stats", adminHandler.CacheStats)
				r.Post("/invalidate", adminHandler.InvalidateCache)
			})
		})
	})

	return &Server{
		httpServer: &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           r,
			ReadHeaderTimeout: 5 * time.Second,
		},
		dbPool:             dbPool,
		profileService:     profileService,
		lootboxService:     lootboxService,
		progressionService: progressionService,
	}
}

// responseWriter wraps http.ResponseWriter to capture the status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func newResponseWriter(w http.ResponseWriter) *responseWriter {
	return &responseWriter{
		ResponseWriter: w,
		statusCode:     http.StatusOK,
	}
}

func (rw *responseWriter) WriteHeader(statusCode int) {
	if !rw.written {
		rw.statusCode = statusCode
		rw.written = true
		rw.ResponseWriter.WriteHeader(statusCode)
	}
}

func (rw *responseWriter) Write(b []byte) (int, error) {
	if !rw.written {
		rw.WriteHeader(http.StatusOK)
	}
	return rw.ResponseWriter.Write(b)
}

func loggingMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		// Health and metrics probes would drown out real traffic in the logs
		if strings.HasPrefix(r.URL.Path, "/healthz") ||
			strings.HasPrefix(r.URL.Path, "/readyz") ||
			strings.HasPrefix(r.URL.Path, "/metrics") {
			next.ServeHTTP(w, r)
			return
		}

		requestID := logger.GenerateRequestID()

		ctx := logger.WithRequestID(r.Context(), requestID)
		r = r.WithContext(ctx)

		log := logger.FromContext(ctx)

		log.Info(LogMsgRequestStarted,
			"method", r.Method,
			"path", r.URL.Path,
			"remote_addr", r.RemoteAddr,
			"content_length", r.ContentLength,
			"user_agent", r.UserAgent())

		// Sanitize headers for logging
		sanitizedHeaders := make(http.Header)
		for k, v := range r.Header {
			if strings.EqualFold(k, HeaderAPIKey) || strings.EqualFold(k, HeaderAuthorization) {
				sanitizedHeaders[k] = []string{RedactedValue}
			} else {
				sanitizedHeaders[k] = v
			}
		}
		log.Debug(LogMsgRequestHeaders, "headers", sanitizedHeaders)

		rw := newResponseWriter(w)

		next.ServeHTTP(rw, r)

		duration := time.Since(start)
		log.Info(LogMsgRequestCompleted,
			"method", r.Method,
			"path", r.URL.Path,
			"status", rw.statusCode,
			"duration_ms", duration.Milliseconds(),
			"duration", duration)
	})
}

// Start starts the server
func (s *Server) Start() error {
	slog.Default().Info(LogMsgServerStarting, "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Stop stops the server gracefully
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
