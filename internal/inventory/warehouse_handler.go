package inventory

import (
	"strings"

	"inventory-backend/internal/models"
	"inventory-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateWarehouseRequest struct {
	Name    string `json:"name"`
	Code    string `json:"code"`
	Address string `json:"address"`
}

// GET /api/warehouses
func ListWarehousesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var warehouses []models.Warehouse
		if err := db.WithContext(c.UserContext()).Order("name asc").Find(&warehouses).Error; err != nil {
			return err
		}
		return response.OK(c, warehouses)
	}
}

// POST /api/warehouses
func CreateWarehouseHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateWarehouseRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		w, err := body.toWarehouse()
		if err != nil {
			return err
		}

		tx := db.WithContext(c.UserContext())
		var count int64
		if err := tx.Model(&models.Warehouse{}).Where("code = ?", w.Code).Count(&count).Error; err != nil {
			return err
		}
		if count > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Warehouse code is already in use")
		}

		if err := tx.Create(w).Error; err != nil {
			return err
		}
		return response.Created(c, w)
	}
}

func (r *CreateWarehouseRequest) toWarehouse() (*models.Warehouse, error) {
	w := &models.Warehouse{
		Name:    cleanText(r.Name),
		Code:    strings.ToUpper(strings.TrimSpace(r.Code)),
		Address: cleanText(r.Address),
	}
	if w.Name == "" || w.Code == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "name and code are required")
	}
	return w, nil
}
