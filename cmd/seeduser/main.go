// cmd/seeduser/main.go creates or updates the initial superuser.
// Usage: SEED_USERNAME=owner SEED_PASSWORD=secret go run ./cmd/seeduser
package main

import (
	"context"
	"os"

	"github.com/Joe-Bills/moto-spares-manager/internal/config"
	"github.com/Joe-Bills/moto-spares-manager/internal/infra"
	"github.com/Joe-Bills/moto-spares-manager/internal/model"
	"github.com/Joe-Bills/moto-spares-manager/internal/service"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"
)

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func main() {
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("failed to load config")
	}

	username := envOr("SEED_USERNAME", "admin")
	password := os.Getenv("SEED_PASSWORD")
	email := envOr("SEED_EMAIL", "admin@example.com")
	if len(password) < 8 {
		log.Fatal().Msg("SEED_PASSWORD must be at least 8 characters")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), service.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("bcrypt error")
	}

	if err := infra.RunMigrations(cfg.DatabaseURL); err != nil {
		log.Fatal().Err(err).Msg("migrations failed")
	}
	db, err := infra.NewDatabase(cfg.DatabaseURL)
	if err != nil {
		log.Fatal().Err(err).Msg("db connect error")
	}

	result := db.WithContext(context.Background()).Exec(`
		INSERT INTO users (username, email, password_hash, role)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (username) DO UPDATE
		SET password_hash = EXCLUDED.password_hash,
		    email = EXCLUDED.email,
		    role = EXCLUDED.role,
		    active = true,
		    updated_at = NOW()
	`, username, email, string(hash), model.RoleSuperuser)

	if result.Error != nil {
		log.Fatal().Err(result.Error).Msg("insert error")
	}
	log.Info().Str("username", username).Msg("superuser created/updated")
}
