package dashboard

import (
	"context"
	"strconv"

	"inventory-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
)

type Summarizer interface {
	Summary(ctx context.Context, f Filter) (*Summary, error)
}

// GET /api/dashboard?warehouse_id=1&category_id=2&threshold=5&top=10
func SummaryHandler(svc Summarizer) fiber.Handler {
	return func(c *fiber.Ctx) error {
		f, err := parseFilter(c)
		if err != nil {
			return err
		}

		summary, err := svc.Summary(c.UserContext(), f)
		if err != nil {
			return err
		}
		return response.OK(c, summary)
	}
}

func parseFilter(c *fiber.Ctx) (Filter, error) {
	f := Filter{Top: DefaultTop}

	var err error
	if f.WarehouseID, err = optionalID(c.Query("warehouse_id")); err != nil {
		return f, fiber.NewError(fiber.StatusBadRequest, "warehouse_id must be a positive integer")
	}
	if f.CategoryID, err = optionalID(c.Query("category_id")); err != nil {
		return f, fiber.NewError(fiber.StatusBadRequest, "category_id must be a positive integer")
	}

	if s := c.Query("threshold"); s != "" {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "threshold must be numeric")
		}
		f.Threshold = &d
	}

	if s := c.Query("top"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			return f, fiber.NewError(fiber.StatusBadRequest, "top must be an integer")
		}
		f.Top = max(n, 1)
	}

	return f, nil
}

// optionalID treats an empty value or 0 as "no filter".
func optionalID(s string) (*uint, error) {
	if s == "" {
		return nil, nil
	}
	n, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return nil, err
	}
	if n == 0 {
		return nil, nil
	}
	id := uint(n)
	return &id, nil
}
