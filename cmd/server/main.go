package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/labstack/echo/v4"

	"realestate/docs"
	"realestate/internal/auth"
	"realestate/internal/backend"
	"realestate/internal/cache"
	"realestate/internal/config"
	"realestate/internal/handler"
	"realestate/internal/logging"
	"realestate/internal/metrics"
	"realestate/internal/repository"
	"realestate/internal/router"
	"realestate/internal/service"
)

// @title Real Estate Listings API
// @version 1.0
// @description Property listings with JWT authentication, invitations and admin management.
// @BasePath /api/v1
// @schemes http https
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT token.
func main() {
	cfg := config.Load()
	logger := logging.New(logging.Config{
		Service: "realestate-api",
		Env:     cfg.Env,
		Level:   cfg.LogLevel,
		Format:  cfg.LogFormat,
	})

	if err := run(cfg, logger); err != nil {
		logging.LogError(logger, "server exited", err)
		os.Exit(1)
	}
}

func run(cfg *config.Config, logger *slog.Logger) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	provider := backend.NewProvider(cfg.Backend, nil, logger)
	store := provider.Resolve(ctx)
	defer store.Close()
	logger.Info("backend resolved", "backend", store.Name(), "mode", store.Mode())

	registry := metrics.NewRegistry()
	metrics.SetBackend(store.Name(), string(store.Mode()))

	cacheClient := cache.New(cache.Options{Addr: cfg.RedisAddr, Password: cfg.RedisPass, DB: cfg.RedisDB})
	defer cacheClient.Close()
	if err := cacheClient.Ping(ctx); err != nil {
		logger.Warn("redis unreachable, caching and token revocation degrade to no-ops", "error", err)
	}

	userRepo := repository.NewUserRepository(store)
	invitationRepo := repository.NewInvitationRepository(store)
	propertyRepo := repository.NewPropertyRepository(store)

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	jwtService := auth.NewJWTService(cfg.JWTSecret, cfg.AccessTokenTTL)
	revocations := auth.NewRevocationStore(cacheClient)
	locks := service.NewKeyedMutex()

	authService, err := service.NewAuthService(userRepo, hasher, jwtService, revocations, locks)
	if err != nil {
		return err
	}
	invitationService := service.NewInvitationService(invitationRepo, userRepo, hasher, locks)
	propertyService := service.NewPropertyService(propertyRepo, cacheClient)
	userService := service.NewUserService(userRepo, hasher, locks)

	// The mock user store starts empty; give it an administrator.
	if store.Mode() == backend.ModeMock {
		created, err := userService.EnsureAdmin(ctx, cfg.AdminEmail, cfg.AdminPassword)
		if err != nil {
			return err
		}
		if created {
			logger.Warn("seeded default administrator for mock backend", "email", cfg.AdminEmail)
		}
	}

	if cfg.SwaggerHost != "" {
		docs.SwaggerInfo.Host = cfg.SwaggerHost
	}

	e := echo.New()
	e.HideBanner = true
	e.HidePort = true

	router.Register(e, cfg, logger, registry, authService, router.Handlers{
		Health:   handler.NewHealthHandler(store),
		Auth:     handler.NewAuthHandler(authService, invitationService),
		Property: handler.NewPropertyHandler(propertyService),
		User:     handler.NewUserHandler(userService),
	})

	addr := ":" + cfg.ServerPort
	errCh := make(chan error, 1)
	go func() {
		logger.Info("listening", "addr", addr, "swagger", "/swagger/index.html")
		if err := e.Start(addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	logger.Info("shutting down", "grace_period", cfg.ShutdownGracePeriod)
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownGracePeriod)
	defer cancel()
	return e.Shutdown(shutdownCtx)
}
