// Command seed creates a user so a fresh deployment can be signed into.
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"

	"filesmanager/internal/config"
	"filesmanager/internal/database"
	"filesmanager/internal/modules/auth"
	"filesmanager/internal/pkg/logging"
	"filesmanager/internal/session"

	"go.uber.org/zap"
)

func main() {
	email := flag.String("email", "", "email of the user to create")
	password := flag.String("password", "", "password of the user to create")
	flag.Parse()

	if err := run(*email, *password); err != nil {
		fmt.Fprintln(os.Stderr, "seed failed:", err)
		os.Exit(1)
	}
}

func run(email, password string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	log, err := logging.New(logging.Config{Level: cfg.LogLevel, Format: cfg.LogFormat})
	if err != nil {
		return err
	}
	defer func() { _ = log.Sync() }()

	ctx := context.Background()
	stores, err := database.Open(ctx, cfg.DatabaseURL, cfg.DBDatabase, log)
	if err != nil {
		return fmt.Errorf("database: %w", err)
	}
	defer func() { _ = stores.Close(ctx) }()

	// Registration never touches sessions; an in-memory store keeps the
	// server's badger directory free for the running process.
	sessions, err := session.OpenBadger(session.InMemory, log)
	if err != nil {
		return err
	}
	defer sessions.Close()

	svc := auth.NewService(stores.Users, sessions, log, nil)
	user, err := svc.Register(ctx, auth.RegisterRequest{Email: email, Password: password})
	switch {
	case errors.Is(err, auth.ErrAlreadyExists):
		log.Info("user already exists, skipping", zap.String("email", email))
		return nil
	case err != nil:
		return err
	}

	log.Info("user created", zap.String("id", user.ID), zap.String("email", user.Email))
	return nil
}
