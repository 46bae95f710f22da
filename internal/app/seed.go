package app

import (
	"context"
	"errors"

	"github.com/mlazarev/taskman/internal/config"
	"github.com/mlazarev/taskman/internal/services"
	"github.com/mlazarev/taskman/internal/storage/postgres"
)

// SeedDemoUser registers the demo account when SEED_DEMO_USER is set.
// It is a no-op otherwise and tolerates the account already existing,
// so deployment tooling can run it on every start.
func SeedDemoUser() {
	cfg := config.Global()
	if !cfg.Seed.DemoUser {
		return
	}

	jwtCfg := cfg.JWT
	userStore := postgres.NewUserStore(globalLogger, globalPostgresPool)
	authService := services.NewAuthService(
		globalLogger,
		jwtCfg.Issuer,
		jwtCfg.SigningKey,
		jwtCfg.TokenTTL,
	)
	userService := services.NewUserService(globalLogger, userStore, authService)

	user, err := userService.Register(context.Background(), services.RegisterParams{
		Email:    cfg.Seed.DemoEmail,
		Password: cfg.Seed.DemoPassword,
		Name:     cfg.Seed.DemoName,
	})
	if err != nil {
		if errors.Is(err, services.ErrUserAlreadyExists) {
			globalLogger.Info().
				Str("email", cfg.Seed.DemoEmail).
				Msg("demo user already seeded")
			return
		}

		globalLogger.Error().
			Err(err).
			Msg("failed to seed demo user")
		panic(err)
	}

	globalLogger.Info().
		Str("user_id", user.ID).
		Str("email", user.Email).
		Msg("seeded demo user")
}
