package main

import (
	"context"
	"flag"
	"log"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"aichat/internal/config"
	"aichat/internal/domain/models"
	"aichat/internal/repository/postgres"
)

// Seeds the database schema and, optionally, an initial user. Token issuance
// lives outside this service, so seeding is how a fresh environment gets a
// user record for the bearer tokens to resolve to.
func main() {
	username := flag.String("username", "", "Username for the seeded user")
	email := flag.String("email", "", "Email for the seeded user")
	password := flag.String("password", "", "Password for the seeded user")
	schemaOnly := flag.Bool("schema-only", false, "Only set up schema, don't create a user")
	flag.Parse()

	_ = godotenv.Load()

	cfg := config.Load()

	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))

	ctx := context.Background()
	pool, err := postgres.CreateConnectionPool(ctx, cfg.DatabaseURL, cfg.DBResolverAddr)
	if err != nil {
		log.Fatalf("Failed to create connection pool: %v", err)
	}
	defer pool.Close()

	if err := postgres.EnsureSchema(ctx, pool); err != nil {
		log.Fatalf("Failed to ensure schema: %v", err)
	}
	logger.Info("schema ready")

	if *schemaOnly {
		return
	}

	if *username == "" || *email == "" || *password == "" {
		log.Fatal("username, email and password are required unless -schema-only is set")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(*password), 10)
	if err != nil {
		log.Fatalf("Failed to hash password: %v", err)
	}

	userRepo := postgres.NewUserRepository(&postgres.RepositoryConfig{
		Pool:   pool,
		Logger: logger,
	})

	user := &models.User{
		Username:     *username,
		Email:        *email,
		PasswordHash: string(hash),
	}
	if err := userRepo.CreateUser(ctx, user); err != nil {
		log.Fatalf("Failed to create user: %v", err)
	}

	logger.Info("user seeded", "id", user.ID, "username", user.Username)
}
