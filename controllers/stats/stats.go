package stats

import (
	"github.com/gofiber/fiber/v2"

	"moneyticket-demo/logger"
	"moneyticket-demo/services/session"
	"moneyticket-demo/types"
)

// Controller exposes demo usage statistics.
type Controller struct {
	Sessions *session.Service
}

func NewStatsController(sessions *session.Service) *Controller {
	return &Controller{Sessions: sessions}
}

// GetStatistics serves GET /demo/stats.
func (sc *Controller) GetStatistics(c *fiber.Ctx) error {
	stats, err := sc.Sessions.Statistics()
	if err != nil {
		logger.Error("Failed to compute demo statistics", err)
		return c.Status(fiber.StatusInternalServerError).JSON(types.ApiResponse{
			Status:  fiber.StatusInternalServerError,
			Message: "Failed to compute statistics",
		})
	}

	return c.Status(fiber.StatusOK).JSON(types.ApiResponse{
		Status:  fiber.StatusOK,
		Message: "Statistics retrieved successfully",
		Data:    stats,
	})
}
