package main

import (
	"context"
	"log"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/Testing-de-software-2025/JWT/config"
	"github.com/Testing-de-software-2025/JWT/db"
	"github.com/Testing-de-software-2025/JWT/internal/auth/handler"
	repo "github.com/Testing-de-software-2025/JWT/internal/auth/repository/postgres"
	"github.com/Testing-de-software-2025/JWT/internal/auth/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg.Env)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx := context.Background()

	dbPool, err := db.NewPostgresPool(ctx, cfg.DBURL)
	if err != nil {
		logger.Fatal("failed to connect to database", zap.Error(err))
	}
	defer dbPool.Close()

	userRepo := repo.NewPostgresUserRepository(dbPool)
	roleRepo := repo.NewPostgresRoleRepository(dbPool)
	permissionRepo := repo.NewPostgresPermissionRepository(dbPool)

	tokenService := service.NewTokenService(cfg.AccessTokenSecret, cfg.RefreshTokenSecret,
		cfg.AccessExpiryMin, cfg.RefreshExpiryMin, cfg.RotateThresholdMin)
	lockout := service.NewLockoutTracker(userRepo, logger, cfg.MaxFailedLogins, cfg.LockDurationMin)
	userService := service.NewUserService(userRepo, roleRepo, tokenService, lockout, logger)
	roleService := service.NewRoleService(roleRepo, permissionRepo)
	permissionService := service.NewPermissionService(permissionRepo)

	authHandler := handler.NewAuthHandler(userService)
	roleHandler := handler.NewRoleHandler(roleService)
	permissionHandler := handler.NewPermissionHandler(permissionService)
	guard := handler.NewAuthMiddleware(tokenService, userRepo)

	app := fiber.New()
	handler.RegisterRoutes(app, authHandler, roleHandler, permissionHandler, guard)

	logger.Info("starting server", zap.String("port", cfg.Port), zap.String("env", cfg.Env))
	if err := app.Listen(":" + cfg.Port); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}

func newLogger(env string) (*zap.Logger, error) {
	if env == "development" {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
