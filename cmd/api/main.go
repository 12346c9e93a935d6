package main

import (
	"context"
	"log"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"

	"github.com/opusnote/opusnote-api/internal/config"
	"github.com/opusnote/opusnote-api/internal/handler"
	"github.com/opusnote/opusnote-api/internal/middleware"
	"github.com/opusnote/opusnote-api/internal/repository"
	"github.com/opusnote/opusnote-api/internal/router"
	"github.com/opusnote/opusnote-api/internal/service"
	"github.com/opusnote/opusnote-api/internal/session"
	"github.com/opusnote/opusnote-api/pkg/ai"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load configuration: %v", err)
	}

	logger := zerolog.New(os.Stdout).With().Timestamp().Logger()

	validate := validator.New(validator.WithRequiredStructEnabled())

	studentRepo := repository.NewStudentRepository(cfg.DataDir)
	accountRepo := repository.NewAccountRepository(cfg.DataDir)
	sessions := session.NewStore(cfg.SessionTTL)

	var generator ai.Generator
	if cfg.OpenAIAPIKey != "" {
		generator, err = ai.NewOpenAIGenerator(ai.OpenAIConfig{
			APIKey:      cfg.OpenAIAPIKey,
			Model:       cfg.AIModel,
			MaxTokens:   cfg.AIMaxTokens,
			Temperature: cfg.AITemperature,
			Logger:      logger,
		})
		if err != nil {
			log.Fatalf("failed to create generator: %v", err)
		}
	} else {
		logger.Warn().Msg("no AI api key configured, generation endpoints will be unavailable")
	}

	authService := service.NewAuthService(accountRepo, validate, cfg.BootstrapUsername, cfg.BootstrapPassword, logger)
	studentService := service.NewStudentService(studentRepo, validate, logger)
	generationService := service.NewGenerationService(studentRepo, generator, cfg.GenerationTimeout, logger)
	importService := service.NewImportService(studentRepo, logger)

	// The credential store must hold its admin before the listener starts.
	if err := authService.Bootstrap(context.Background()); err != nil {
		log.Fatalf("failed to bootstrap credential store: %v", err)
	}

	authHandler := handler.NewAuthHandler(authService, sessions, cfg.SessionTTL, logger)
	studentHandler := handler.NewStudentHandler(studentService, logger)
	generationHandler := handler.NewGenerationHandler(generationService, logger)
	importHandler := handler.NewImportHandler(importService, cfg.SampleImportPath, logger)

	app := fiber.New(fiber.Config{
		AppName:      cfg.AppName,
		ServerHeader: cfg.AppName,
	})

	middleware.Register(app, middleware.Config{Logger: &logger})
	router.Register(app, cfg, router.Dependencies{
		AuthHandler:       authHandler,
		StudentHandler:    studentHandler,
		GenerationHandler: generationHandler,
		ImportHandler:     importHandler,
		Sessions:          sessions,
	})

	go func() {
		if err := app.Listen(cfg.HTTPAddress()); err != nil {
			log.Fatalf("failed to start server: %v", err)
		}
	}()

	waitForShutdown(app)
}

func waitForShutdown(app *fiber.App) {
	shutdownCtx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	<-shutdownCtx.Done()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := app.ShutdownWithContext(ctx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
	}

	log.Println("server stopped")
}
