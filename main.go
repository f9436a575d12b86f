package main

import (
	"os"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/joho/godotenv"

	"moneyticket-demo/config"
	"moneyticket-demo/database"
	"moneyticket-demo/logger"
	"moneyticket-demo/middleware"
	"moneyticket-demo/routes"
	"moneyticket-demo/storage"
)

func main() {
	app := fiber.New(fiber.Config{
		AppName:      "MoneyTicket Demo Verification API",
		ReadTimeout:  time.Second * 30,
		WriteTimeout: time.Second * 30,
	})

	if err := godotenv.Load(); err != nil {
		logger.Warning("No .env file found - relying on environment variables")
	}

	cfg := config.Default()

	// Initialize storage
	var store storage.Store
	if os.Getenv("USE_MEMORY_STORE") == "true" {
		logger.Warning("Using in-memory storage (not for production!)")
		store = storage.NewMemoryStore()
	} else {
		db, err := database.InitDB()
		if err != nil {
			logger.Error("Failed to connect to the database", err)
			return
		}
		store = storage.NewGormStore(db)
	}

	app.Use(cors.New(cors.Config{
		AllowOriginsFunc: func(origin string) bool {
			return middleware.IsValidOrigin(cfg, origin)
		},
		AllowMethods: "POST,GET,OPTIONS",
		AllowHeaders: "Origin, Content-Type, Accept, Authorization",
	}))

	cleanupJob := routes.SetupRoutes(app, store, cfg)
	defer cleanupJob.Stop()

	host := os.Getenv("APP_HOST")
	port := os.Getenv("APP_PORT")
	if port == "" {
		port = "3000"
	}

	logger.Success("Server is running on " + strings.TrimSpace(host+":"+port))
	if err := app.Listen(host + ":" + port); err != nil {
		logger.Error("Server stopped", err)
	}
}
