package main

import (
	"context"
	"errors"
	"flag"
	"log"
	"strings"
	"time"

	"job-board/internal/auth"
	"job-board/internal/config"
	"job-board/internal/storage"
)

// create_admin inserts an admin account. Admins cannot self-register.
func main() {
	var name, email, password string
	flag.StringVar(&name, "name", "Admin", "Display name")
	flag.StringVar(&email, "email", "", "Login email (required)")
	flag.StringVar(&password, "password", "", "Login password (required)")
	flag.Parse()

	if strings.TrimSpace(email) == "" || password == "" {
		log.Fatal("-email and -password are required")
	}

	cfg := config.LoadConfig()
	if cfg.DatabaseURL == "" {
		log.Fatal("DATABASE_URL is required")
	}

	db, err := storage.NewDB(cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to db: %v", err)
	}
	defer db.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()
	if err := db.Migrate(ctx); err != nil {
		log.Fatalf("migrate: %v", err)
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		log.Fatalf("hash password: %v", err)
	}

	admin, err := db.CreateAdmin(ctx, name, email, hash)
	if errors.Is(err, storage.ErrDuplicate) {
		log.Fatalf("an admin with email %s already exists", email)
	}
	if err != nil {
		log.Fatalf("create admin: %v", err)
	}
	log.Printf("Created admin %s <%s>", admin.ID, admin.Email)
}
