package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"syscall"

	"akun/internal/config"
	"akun/internal/database"
	"akun/internal/repositories"
	"akun/internal/server"
	"akun/internal/services"
	"akun/pkg/rabbitmq"
)

func main() {
	// --- Configuration ---
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	ctx := context.Background()

	// --- Initialize Repository ---
	userRepo, closeStore, err := openUserRepository(ctx, cfg)
	if err != nil {
		log.Fatalf("Failed to initialize user store: %v", err)
	}
	defer func() {
		if err := closeStore(); err != nil {
			log.Printf("Error closing user store: %v", err)
		}
	}()

	// --- Initialize RabbitMQ Client (optional) ---
	var publisher services.EventPublisher
	if cfg.RabbitMQURL != "" {
		mqClient, err := rabbitmq.NewClient(rabbitmq.Config{URL: cfg.RabbitMQURL})
		if err != nil {
			log.Fatalf("Failed to initialize RabbitMQ client: %v", err)
		}
		defer mqClient.Close()
		publisher = mqClient

		// Audit log of account activity.
		if err := mqClient.ConsumeUserEvents(func(event rabbitmq.Event) error {
			log.Printf("Account event %s at %s: %v", event.Type, event.OccurredAt.Format("2006-01-02T15:04:05Z07:00"), event.Data)
			return nil
		}); err != nil {
			log.Printf("Failed to start RabbitMQ consumer: %v", err)
		}
	}

	// --- Initialize Fiber App ---
	app, _ := server.New(server.Options{
		APIPrefix:   cfg.APIPrefix,
		JWTSecret:   cfg.JWTSecret,
		CORSOrigins: cfg.CORSOrigins,
		Publisher:   publisher,
	}, userRepo)

	// --- Start HTTP Server ---
	log.Printf("Starting server on port %s", cfg.AppPort)

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		if err := app.Listen(cfg.AppPort); err != nil {
			log.Fatalf("Server failed to start: %v", err)
		}
	}()

	<-quit
	log.Println("Shutting down server...")

	if err := app.Shutdown(); err != nil {
		log.Printf("Error during Fiber shutdown: %v", err)
	}
	log.Println("Server gracefully stopped")
}

// openUserRepository returns the user store selected by STORE_DRIVER and a
// function releasing its connection.
func openUserRepository(ctx context.Context, cfg *config.Config) (repositories.UserRepository, func() error, error) {
	switch cfg.StoreDriver {
	case "memory":
		return repositories.NewMockUserRepository(), func() error { return nil }, nil
	case "postgres", "sqlite":
		db, err := database.OpenGORM(cfg.StoreDriver, cfg.DatabaseDSN)
		if err != nil {
			return nil, nil, err
		}
		closeFn := func() error {
			sqlDB, err := db.DB()
			if err != nil {
				return err
			}
			return sqlDB.Close()
		}
		return repositories.NewGORMUserRepository(db), closeFn, nil
	case "mongo":
		client, db, err := database.OpenMongo(ctx, cfg.MongoURI, cfg.MongoDatabase)
		if err != nil {
			return nil, nil, err
		}
		repo, err := repositories.NewMongoUserRepository(ctx, db)
		if err != nil {
			_ = client.Disconnect(ctx)
			return nil, nil, err
		}
		return repo, func() error { return client.Disconnect(context.Background()) }, nil
	}
	return nil, nil, fmt.Errorf("unknown store driver %q", cfg.StoreDriver)
}
