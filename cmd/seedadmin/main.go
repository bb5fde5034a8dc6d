// Seeds an admin account for local development.
//
// Run with: go run ./cmd/seedadmin
package main

import (
	"errors"

	"github.com/rs/zerolog/log"

	"github.com/girik/portfolio-share-be/internal/config"
	"github.com/girik/portfolio-share-be/internal/database"
	"github.com/girik/portfolio-share-be/internal/logger"
	"github.com/girik/portfolio-share-be/internal/services"
)

const (
	adminName     = "Admin"
	adminEmail    = "admin@example.com"
	adminPassword = "password"
)

func main() {
	logger.Init()

	cfg, err := config.Load()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to load configuration")
	}

	db, err := database.New(cfg.DatabasePath)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		log.Fatal().Err(err).Msg("Failed to apply database migrations")
	}

	userService := services.NewUserService(db)
	user, err := userService.RegisterUser(adminName, adminEmail, adminPassword)
	if err != nil {
		if errors.Is(err, services.ErrDuplicateEmail) {
			log.Info().Str("email", adminEmail).Msg("Admin already exists")
			return
		}
		log.Fatal().Err(err).Msg("Failed to create admin user")
	}

	log.Info().Str("id", user.ID).Str("email", adminEmail).Msg("Admin user created")
}
