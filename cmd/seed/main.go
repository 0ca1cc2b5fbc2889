// seed creates an application user.
//
// Usage: go run ./cmd/seed -username admin -password secret [-role admin] [-email a@b.c]
// Database settings come from the same env vars as the API.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/jhoicas/yarn-inventory/internal/application/audit"
	"github.com/jhoicas/yarn-inventory/internal/application/auth"
	"github.com/jhoicas/yarn-inventory/internal/application/dto"
	"github.com/jhoicas/yarn-inventory/internal/domain/entity"
	"github.com/jhoicas/yarn-inventory/internal/infrastructure/postgres"
	"github.com/jhoicas/yarn-inventory/pkg/config"
	"github.com/jhoicas/yarn-inventory/pkg/logger"
)

func main() {
	var in dto.RegisterUserRequest
	flag.StringVar(&in.Username, "username", "", "login name (required)")
	flag.StringVar(&in.Password, "password", "", "password, at least 6 characters (required)")
	flag.StringVar(&in.Email, "email", "", "contact email")
	flag.StringVar(&in.Role, "role", entity.RoleUser, "admin or user")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "load config: %v\n", err)
		os.Exit(1)
	}
	log := logger.New(logger.Config{Env: cfg.App.Env, Level: cfg.App.LogLevel})

	ctx := context.Background()
	pool, err := postgres.NewPool(ctx, cfg.DB)
	if err != nil {
		fmt.Fprintf(os.Stderr, "connect to PostgreSQL: %v\n", err)
		os.Exit(1)
	}
	defer pool.Close()

	if cfg.DB.AutoMigrate {
		if err := postgres.Migrate(ctx, pool, log.Component("migrate")); err != nil {
			fmt.Fprintf(os.Stderr, "apply migrations: %v\n", err)
			os.Exit(1)
		}
	}

	logRepo := postgres.NewLogRepository(pool)
	uc := auth.NewAuthUseCase(postgres.NewUserRepository(pool), audit.NewRecorder(logRepo, log), auth.TokenConfig{
		Secret: cfg.Session.Secret,
		Issuer: cfg.Session.Issuer,
		TTL:    cfg.Session.IdleTimeout,
	})

	who, err := uc.RegisterUser(ctx, in)
	if err != nil {
		fmt.Fprintf(os.Stderr, "create user: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("created %s user %q (id %d)\n", who.Role, who.Username, who.UserID)
}
