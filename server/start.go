package server

import (
	"fmt"
	"os"

	"starwars-api/auth"
	cachepackage "starwars-api/cache"
	"starwars-api/config"
	"starwars-api/database"
	"starwars-api/handlers"
	"starwars-api/repository"
	"starwars-api/services"

	"github.com/umakantv/go-utils/httpserver"
	"github.com/umakantv/go-utils/logger"
	"go.uber.org/zap"
)

func StartServer() {
	// Initialize logger
	logger.Init(logger.LoggerConfig{
		CallerKey:  "file",
		TimeKey:    "timestamp",
		CallerSkip: 1,
	})

	cfg, err := config.Load()
	if err != nil {
		logger.Error("Failed to load configuration", zap.Error(err))
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		logger.Error("Invalid configuration", zap.Error(err))
		os.Exit(1)
	}

	logger.Info("Starting Star Wars API...",
		zap.String("env", cfg.Server.Env),
		zap.String("db_driver", cfg.Database.Driver),
		zap.String("cache", cfg.Cache.Type),
	)

	// Initialize database
	dbConn := database.InitializeDatabase(cfg.Database)
	defer dbConn.Close()

	// Initialize cache
	cache := cachepackage.InitializeCache(cfg.Cache)
	defer cache.Close()

	// Repositories and services
	userRepo := repository.NewUserRepository()
	characterRepo := repository.NewCharacterRepository()
	planetRepo := repository.NewPlanetRepository()
	favoriteRepo := repository.NewFavoriteRepository()

	policy := services.PasswordPolicy{BcryptCost: cfg.Auth.BcryptCost, Strict: cfg.Auth.StrictPassword}
	userService := services.NewUserService(dbConn, userRepo, favoriteRepo, policy)
	characterService := services.NewCharacterService(dbConn, characterRepo)
	planetService := services.NewPlanetService(dbConn, planetRepo)
	favoriteService := services.NewFavoriteService(dbConn, favoriteRepo, userRepo, characterRepo, planetRepo)

	sessions := auth.NewSessionManager(cfg.Auth, cache)

	// Initialize handlers
	userHandler := handlers.NewUserHandler(userService, favoriteService)
	h := handlerSet{
		users:      userHandler,
		characters: handlers.NewCharacterHandler(characterService, cache),
		planets:    handlers.NewPlanetHandler(planetService, cache),
		favorites:  handlers.NewFavoriteHandler(favoriteService),
		auth:       handlers.NewAuthHandler(userHandler, sessions),
	}

	// Create HTTP server with session authentication
	server := httpserver.New(cfg.Server.Port, newAuthChecker(sessions))

	// Register routes
	routes := buildRoutes(h)
	for _, rt := range routes {
		server.Register(rt.Route, rt.handler)
	}

	logger.Info(fmt.Sprintf("Star Wars API started on port %s", cfg.Server.Port),
		zap.Int("routes", len(routes)),
	)
	logger.Info("Health check: GET /health")
	logger.Info("Sitemap: GET /")

	// Start server
	if err := server.Start(); err != nil {
		logger.Error("Server failed to start", zap.Error(err))
		os.Exit(1)
	}
}
