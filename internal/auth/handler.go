package auth

import (
	"errors"
	"strings"
	"time"

	"inventory-backend/internal/models"
	"inventory-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

const minPasswordLength = 8

type RegisterRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
	Phone    string `json:"phone"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// POST /api/auth/register
// The very first account becomes admin; every later one starts as staff.
func RegisterHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body RegisterRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = normalizeEmail(body.Email)
		body.Name = strings.TrimSpace(body.Name)

		if body.Email == "" || body.Password == "" || body.Name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Name, email and password are required")
		}
		if len(body.Password) < minPasswordLength {
			return fiber.NewError(fiber.StatusBadRequest, "Password must be at least 8 characters")
		}

		var existing int64
		if err := db.Model(&models.User{}).Unscoped().Where("email = ?", body.Email).Count(&existing).Error; err != nil {
			return err
		}
		if existing > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Email is already registered")
		}

		hash, err := HashPassword(body.Password)
		if err != nil {
			return err
		}

		user := models.User{
			Name:         body.Name,
			Email:        body.Email,
			PasswordHash: hash,
			Phone:        strings.TrimSpace(body.Phone),
			IsActive:     true,
		}

		err = db.Transaction(func(tx *gorm.DB) error {
			var total int64
			if err := tx.Model(&models.User{}).Unscoped().Count(&total).Error; err != nil {
				return err
			}
			user.Role = models.RoleStaff
			if total == 0 {
				user.Role = models.RoleAdmin
			}
			return tx.Create(&user).Error
		})
		if err != nil {
			return err
		}

		return c.Status(fiber.StatusCreated).JSON(fiber.Map{
			"success": true,
			"user":    user,
		})
	}
}

// POST /api/auth/login
func LoginHandler(db *gorm.DB, secret string, ttl time.Duration) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body LoginRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		body.Email = normalizeEmail(body.Email)
		if body.Email == "" || body.Password == "" {
			return fiber.NewError(fiber.StatusBadRequest, "Email and password are required")
		}

		var user models.User
		if err := db.Where("email = ?", body.Email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Invalid email or password")
			}
			return err
		}

		if !user.IsActive || !CheckPassword(user.PasswordHash, body.Password) {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid email or password")
		}

		token, err := GenerateToken(secret, ttl, &user)
		if err != nil {
			return err
		}

		return c.JSON(fiber.Map{
			"success": true,
			"user":    user,
			"token":   token,
		})
	}
}

// GET /api/auth/me
func MeHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		userID := CurrentUserID(c)
		if userID == nil {
			return fiber.NewError(fiber.StatusUnauthorized, "Invalid token")
		}

		var user models.User
		if err := db.First(&user, *userID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusNotFound, "User not found")
			}
			return err
		}

		return response.OK(c, user)
	}
}

func normalizeEmail(s string) string {
	return strings.TrimSpace(strings.ToLower(s))
}
