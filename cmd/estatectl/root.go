package main

import (
	"context"
	"log/slog"
	"time"

	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"realestate/internal/auth"
	"realestate/internal/backend"
	"realestate/internal/config"
	"realestate/internal/logging"
	"realestate/internal/repository"
	"realestate/internal/service"
)

const defaultTimeout = 30 * time.Second

// Global flags available to all subcommands.
var (
	timeout  time.Duration
	logLevel string
)

// environment is the set of stores a command operates on.
type environment struct {
	backend    backend.Backend
	users      service.UserService
	properties repository.PropertyRepository
	close      func() error
}

// openEnvironment resolves the configured backend. Replaced in tests.
var openEnvironment = func(ctx context.Context, cfg *config.Config, logger *slog.Logger) (*environment, error) {
	provider := backend.NewProvider(cfg.Backend, nil, logger)
	b := provider.Resolve(ctx)
	if mock, ok := b.(*backend.Mock); ok {
		return nil, oops.Code("BACKEND_MOCK").
			With("reason", mock.Reason).
			Errorf("live backend unavailable (%s); changes would not persist", mock.Reason)
	}
	return newEnvironment(b, cfg, b.Close), nil
}

func newEnvironment(b backend.Backend, cfg *config.Config, closeFn func() error) *environment {
	users := repository.NewUserRepository(b)
	return &environment{
		backend:    b,
		users:      service.NewUserService(users, auth.NewBcryptHasher(cfg.BcryptCost), service.NewKeyedMutex()),
		properties: repository.NewPropertyRepository(b),
		close:      closeFn,
	}
}

// NewRootCmd creates the root command for estatectl.
func NewRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "estatectl",
		Short: "Administer the real estate backend",
		Long: `estatectl manages accounts and listings directly against the configured
backend (Firestore or MySQL). Configuration is read from the environment
and an optional .env file, the same way the API server reads it.`,
		SilenceUsage: true,
	}

	cmd.PersistentFlags().DurationVar(&timeout, "timeout", defaultTimeout, "timeout for backend operations (e.g., 30s, 1m)")
	cmd.PersistentFlags().StringVar(&logLevel, "log-level", "warn", "log level (debug, info, warn, error)")

	cmd.AddCommand(NewUsersCmd())
	cmd.AddCommand(NewSeedCmd())
	cmd.AddCommand(NewCheckEnvCmd())

	return cmd
}

// withEnvironment loads configuration, opens the backend and runs fn under the global timeout.
func withEnvironment(cmd *cobra.Command, fn func(ctx context.Context, env *environment) error) error {
	cfg := config.Load()
	logger := logging.NewWithWriter(cmd.ErrOrStderr(), logging.Config{
		Service: "estatectl",
		Env:     cfg.Env,
		Level:   logLevel,
		Format:  "text",
	})

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	env, err := openEnvironment(ctx, cfg, logger)
	if err != nil {
		return err
	}
	defer func() {
		if env.close != nil {
			if cerr := env.close(); cerr != nil {
				logger.Warn("closing backend", "error", cerr)
			}
		}
	}()

	return fn(ctx, env)
}
