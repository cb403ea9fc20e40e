package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"devconnector/backend/internal/config"
	"devconnector/backend/internal/httpserver"
	"devconnector/backend/internal/infrastructure/hash"
	"devconnector/backend/internal/infrastructure/postgres"
	"devconnector/backend/internal/infrastructure/token"
	authusecase "devconnector/backend/internal/usecase/auth"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	rootCtx := context.Background()
	db, err := postgres.New(rootCtx, cfg.DatabaseURL)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer db.Close()
	if err := db.Migrate(rootCtx); err != nil {
		log.Fatalf("failed to run database migrations: %v", err)
	}

	tokenManager := token.NewJWTManager(cfg.JWTSecret, cfg.JWTIssuer)
	hasher := hash.NewBcryptHasher(cfg.BcryptCost)

	authService, err := authusecase.NewService(
		postgres.NewAccountRepository(db.Pool),
		hasher,
		tokenManager,
		authusecase.Config{
			RegisterTokenTTL: cfg.RegisterTokenTTL,
			LoginTokenTTL:    cfg.LoginTokenTTL,
		},
	)
	if err != nil {
		log.Fatalf("failed to construct auth service: %v", err)
	}

	server := httpserver.NewServer(cfg, authService)
	log.Printf("HTTP server listening on %s", server.Addr())

	go func() {
		if err := server.Start(); err != nil {
			if errors.Is(err, http.ErrServerClosed) {
				log.Printf("HTTP server closed: %v", err)
				return
			}
			log.Fatalf("server error: %v", err)
		}
	}()

	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	} else {
		log.Printf("graceful shutdown completed")
	}
}
