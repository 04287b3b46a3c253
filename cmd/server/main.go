package main

import (
	"context"
	"log"
	"net/http"
	"time"

	"github.com/corebank/transfer-engine/internal/adapter/http/controller"
	"github.com/corebank/transfer-engine/internal/adapter/http/middleware"
	"github.com/corebank/transfer-engine/internal/adapter/http/router"
	"github.com/corebank/transfer-engine/internal/adapter/repository/postgres"
	"github.com/corebank/transfer-engine/internal/config"
	"github.com/corebank/transfer-engine/internal/usecase/services"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := postgres.RunMigrations(ctx, cfg.DatabaseDSN, cfg.MigrationsDir); err != nil {
		log.Fatalf("run migrations: %v", err)
	}

	db, err := postgres.Open(ctx, cfg.DatabaseDSN)
	if err != nil {
		log.Fatalf("open database: %v", err)
	}
	defer db.Close()

	userRepo := postgres.NewUserRepository(db)
	accountRepo := postgres.NewAccountRepository(db)
	transferRepo := postgres.NewTransferRepository(db)
	auditRepo := postgres.NewAuditRepository(db)
	healthRepo := postgres.NewHealthRepository(db)

	sessionService := services.NewSessionService(cfg.SessionTTL)
	feeService := services.NewFeeService()
	authService := services.NewAuthService(userRepo, auditRepo, sessionService)
	accountService := services.NewAccountService(accountRepo)
	transferService := services.NewTransferService(transferRepo, accountRepo, userRepo, auditRepo, feeService)
	userService := services.NewUserService(userRepo, auditRepo)

	authMiddleware := middleware.SessionAuth(sessionService)

	handler := router.New(
		controller.NewAuthController(authService),
		controller.NewAccountController(accountService),
		controller.NewTransferController(transferService),
		controller.NewFeeController(feeService),
		controller.NewUserController(userService),
		controller.NewHealthController(healthRepo),
		authMiddleware,
	)

	server := &http.Server{
		Addr:         cfg.ListenAddr,
		Handler:      handler,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	log.Printf("server listening on %s", cfg.ListenAddr)
	if err := server.ListenAndServe(); err != nil {
		log.Fatalf("serve: %v", err)
	}
}
