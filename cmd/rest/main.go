package main

import (
	"context"
	"log"

	"github.com/fatih/color"

	"github.com/changzhiho/mini-chatgpt/internal/bootstrap"
	"github.com/changzhiho/mini-chatgpt/internal/config"
	"github.com/changzhiho/mini-chatgpt/internal/server"
	"github.com/changzhiho/mini-chatgpt/pkg/database"
)

func main() {
	// 1. Load Configuration
	cfg := config.Load()

	// 2. Initialize Database
	gormDB, err := database.NewGormDBFromDSN(cfg.Database.Connection)
	if err != nil {
		log.Panicf("Unable to connect to GORM DB: %v", err)
	}

	// 3. Bootstrap Dependencies (Container)
	container := bootstrap.NewContainer(gormDB, cfg)
	defer container.Logger.Sync() //nolint:errcheck

	// 4. Start Background Services
	go func() {
		log.Println("Background: Starting Consumer Service...")
		if err := container.ConsumerService.Listen(context.Background()); err != nil {
			log.Printf("Background Consumer Error: %v", err)
		}
	}()

	color.Cyan("mini-chatgpt backend")
	color.Green("environment: %s | default model: %s", cfg.App.Environment, cfg.OpenRouter.DefaultModel)

	// 5. Initialize & Run Server
	srv := server.New(cfg, container)
	log.Fatal(srv.Run())
}
