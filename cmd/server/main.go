// Package main runs the sponsorship-matching API server with graceful
// shutdown.
package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/sponsorlane/backend/config"
	"github.com/sponsorlane/backend/internal/events"
	"github.com/sponsorlane/backend/internal/identity"
	"github.com/sponsorlane/backend/internal/integrity"
	"github.com/sponsorlane/backend/internal/middleware"
	"github.com/sponsorlane/backend/internal/offers"
	"github.com/sponsorlane/backend/internal/policy"
	"github.com/sponsorlane/backend/internal/profiles"
	"github.com/sponsorlane/backend/pkg/database"
	"github.com/sponsorlane/backend/pkg/redis"
	"github.com/sponsorlane/backend/pkg/response"
)

func main() {
	logger := newLogger()
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("load config", zap.Error(err))
	}

	ctx := context.Background()
	pool, err := database.NewPostgresPool(ctx, cfg.Database.DSN(), logger)
	if err != nil {
		logger.Fatal("database", zap.Error(err))
	}
	defer pool.Close()

	if err := database.Migrate(ctx, pool); err != nil {
		logger.Fatal("migrate", zap.Error(err))
	}

	var rdb *redis.Client
	if cfg.Redis.Addr != "" {
		rdb, err = redis.NewClient(ctx, cfg.Redis.Addr, cfg.Redis.Password, cfg.Redis.DB, logger)
		if err != nil {
			logger.Warn("role cache disabled", zap.Error(err))
		} else {
			defer rdb.Close()
		}
	}

	verifier := identity.NewVerifier(cfg.Identity.JWTSecret)
	enforcer := integrity.New(nil)

	profileRepo := profiles.NewRepository(pool)
	eventRepo := events.NewRepository(pool)
	offerRepo := offers.NewRepository(pool)

	var roleCache *profiles.RoleCache
	if rdb != nil {
		roleCache = profiles.NewRoleCache(profileRepo, rdb.Client, logger)
	} else {
		roleCache = profiles.NewRoleCache(profileRepo, nil, logger)
	}

	engine := policy.NewEngine(policy.Directory{
		ProfileRole: roleCache.Role,
		EventOrganizer: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
			ev, err := eventRepo.Get(ctx, id)
			if err != nil {
				return uuid.Nil, err
			}
			return ev.OrganizerID, nil
		},
		OfferOwner: func(ctx context.Context, id uuid.UUID) (uuid.UUID, error) {
			o, err := offerRepo.Get(ctx, id)
			if err != nil {
				return uuid.Nil, err
			}
			return o.ProfileID, nil
		},
	})

	profileHandler := profiles.NewHandler(profiles.NewService(profileRepo, engine, enforcer))
	eventHandler := events.NewHandler(events.NewService(eventRepo, engine, enforcer))
	offerHandler := offers.NewHandler(offers.NewService(offerRepo, engine, enforcer))

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(middleware.CORS(cfg.Server.CORSAllowedOrigins))
	router.Use(middleware.Logger(logger))

	// Health
	router.GET("/health", func(c *gin.Context) { response.OK(c, gin.H{"status": "ok"}) })

	// Everything else requires an authenticated principal; the policy
	// engine decides per row from there.
	api := router.Group("")
	api.Use(middleware.Auth(verifier))
	{
		api.POST("/profiles", profileHandler.Provision)
		api.GET("/profiles/:id", profileHandler.Get)
		api.PATCH("/profiles/:id", profileHandler.Update)

		api.GET("/events", eventHandler.List)
		api.POST("/events", eventHandler.Create)
		api.GET("/events/:id", eventHandler.Get)
		api.PATCH("/events/:id", eventHandler.Update)

		api.GET("/sponsor-offers", offerHandler.List)
		api.POST("/sponsor-offers", offerHandler.Create)
		api.GET("/sponsor-offers/:id", offerHandler.Get)
		api.PATCH("/sponsor-offers/:id", offerHandler.Update)
		api.POST("/sponsor-offers/:id/event-types", offerHandler.CreateEventType)
		api.GET("/sponsor-offers/:id/event-types", offerHandler.ListEventTypes)
	}

	srv := &http.Server{
		Addr:         ":" + cfg.Server.Port,
		Handler:      router,
		ReadTimeout:  time.Duration(cfg.Server.ReadTimeout) * time.Second,
		WriteTimeout: time.Duration(cfg.Server.WriteTimeout) * time.Second,
	}

	go func() {
		logger.Info("server listening", zap.String("port", cfg.Server.Port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Fatal("server", zap.Error(err))
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown", zap.Error(err))
	}
	logger.Info("server stopped")
}

func newLogger() *zap.Logger {
	config := zap.NewProductionConfig()
	config.EncoderConfig.TimeKey = "timestamp"
	config.EncoderConfig.EncodeTime = zapcore.ISO8601TimeEncoder
	logger, _ := config.Build()
	return logger
}
