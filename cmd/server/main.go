package main

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/benbeisheim/grandmaster-backend/internal/config"
	"github.com/benbeisheim/grandmaster-backend/internal/controller"
	"github.com/benbeisheim/grandmaster-backend/internal/service"
	"github.com/benbeisheim/grandmaster-backend/internal/storage"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/log"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
)

func main() {
	cfg, err := config.InitConfig()
	if err != nil {
		log.Fatal(err)
	}

	store, err := openStorage(cfg)
	if err != nil {
		log.Fatal(err)
	}

	app := fiber.New(fiber.Config{
		AppName: "grandmaster",
	})
	app.Use(recover.New())
	app.Use(logger.New())
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.OriginList(),
		AllowHeaders:     "Origin, Content-Type, Accept, X-Player-ID",
		AllowMethods:     "GET, POST, OPTIONS",
		AllowCredentials: true,
	}))

	// Initialize services
	gameManager := service.NewGameManager(cfg.TimeControl())
	gameService := service.NewGameService(gameManager, store, cfg.ComputerDelay())

	controller.SetupRoutes(app, gameService, cfg.Server.AllowedOrigins)

	go func() {
		quit := make(chan os.Signal, 1)
		signal.Notify(quit, os.Interrupt, syscall.SIGTERM)
		<-quit
		log.Info("shutting down")
		if err := app.Shutdown(); err != nil {
			log.Errorf("shutdown: %v", err)
		}
	}()

	log.Infof("listening on %s", cfg.Server.Address)
	if err := app.Listen(cfg.Server.Address); err != nil {
		log.Errorf("listen: %v", err)
	}

	gameService.Close()
	if err := store.Close(); err != nil {
		log.Errorf("close storage: %v", err)
	}
}

func openStorage(cfg *config.Config) (*storage.Storage, error) {
	if cfg.Storage.InMemory {
		return storage.OpenInMemory(cfg.Storage.HistoryLimit)
	}
	dir, err := cfg.DatabaseDir()
	if err != nil {
		return nil, err
	}
	log.Infof("database directory: %s", dir)
	return storage.Open(dir, cfg.Storage.HistoryLimit)
}
