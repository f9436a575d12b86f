package routes

import (
	"github.com/gofiber/fiber/v2"

	"moneyticket-demo/config"
	demoController "moneyticket-demo/controllers/demo"
	statsController "moneyticket-demo/controllers/stats"
	"moneyticket-demo/jobs"
	"moneyticket-demo/logger"
	"moneyticket-demo/middleware"
	otpService "moneyticket-demo/services/otp"
	"moneyticket-demo/services/session"
	"moneyticket-demo/storage"
	"moneyticket-demo/types"
)

// SetupRoutes wires the demo controllers, middleware and background jobs.
func SetupRoutes(app *fiber.App, store storage.Store, cfg config.DemoConfig) *jobs.CleanupJob {
	accessLogger := logger.NewAccessLogger(store)
	sessionService := session.NewService(store, cfg, accessLogger)
	otpSvc := otpService.NewService(store, sessionService, cfg, accessLogger)
	demoCtrl := demoController.NewDemoController(sessionService, otpSvc, cfg)
	statsCtrl := statsController.NewStatsController(sessionService)

	// Start the async access logger processing goroutine
	go accessLogger.Process()

	// Index route
	app.Get("/", func(c *fiber.Ctx) error {
		return c.JSON(types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "MoneyTicket demo verification API",
		})
	})

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(types.ApiResponse{
			Status:  fiber.StatusOK,
			Message: "healthy",
		})
	})

	/*=============================================================================
	| Demo Routes
	===============================================================================*/
	demoGroup := app.Group("/demo",
		middleware.Security(),
		middleware.ValidateEnvironment(cfg),
	)

	demoGroup.Post("/send-otp", demoCtrl.SendOTP)
	demoGroup.Post("/verify-otp", demoCtrl.VerifyOTP)

	/*=============================================================================
	| Admin Routes
	===============================================================================*/
	demoGroup.Get("/stats", middleware.RequireAdmin(), statsCtrl.GetStatistics)

	cleanupJob := jobs.NewCleanupJob(sessionService, cfg.CleanupInterval)
	cleanupJob.Start()

	return cleanupJob
}
