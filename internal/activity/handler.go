package activity

import (
	"strconv"
	"time"

	"inventory-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const (
	defaultListLimit = 50
	maxListLimit     = 100
)

// GET /api/activity-logs?limit=50
func ListHandler(db *gorm.DB, enricher *Enricher) fiber.Handler {
	return func(c *fiber.Ctx) error {
		limit := defaultListLimit
		if s := c.Query("limit"); s != "" {
			n, err := strconv.Atoi(s)
			if err != nil || n < 1 {
				return fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
			}
			limit = min(n, maxListLimit)
		}

		rows, err := Recent(c.UserContext(), db, limit)
		if err != nil {
			return err
		}

		return response.OK(c, enricher.Enrich(c.UserContext(), rows, time.Now()))
	}
}
