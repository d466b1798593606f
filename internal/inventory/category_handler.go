package inventory

import (
	"errors"
	"strconv"

	"inventory-backend/internal/activity"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/models"
	"inventory-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

type CreateCategoryRequest struct {
	Name     string `json:"name"`
	Slug     string `json:"slug"`
	ParentID *uint  `json:"parent_id"`
}

type UpdateCategoryRequest struct {
	Name     *string `json:"name"`
	Slug     *string `json:"slug"`
	ParentID *uint   `json:"parent_id"`
}

// GET /api/categories
func ListCategoriesHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var categories []models.Category
		if err := db.WithContext(c.UserContext()).Order("name asc").Find(&categories).Error; err != nil {
			return err
		}
		return response.OK(c, categories)
	}
}

// POST /api/categories
func CreateCategoryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		cat, err := body.toCategory()
		if err != nil {
			return err
		}

		tx := db.WithContext(c.UserContext())
		if err := ensureUniqueSlug(tx, cat.Slug, 0); err != nil {
			return err
		}

		err = tx.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(cat).Error; err != nil {
				return err
			}
			return activity.Write(c.UserContext(), tx, activity.Entry{
				UserID: auth.CurrentUserID(c),
				Action: models.ActionCategoryCreated,
				Meta:   activity.CategoryMeta(cat),
			})
		})
		if err != nil {
			return err
		}

		return response.Created(c, cat)
	}
}

// PUT /api/categories/:id
func UpdateCategoryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx := db.WithContext(c.UserContext())

		cat, err := findCategory(tx, c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateCategoryRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		oldSlug := cat.Slug
		if err := body.apply(cat); err != nil {
			return err
		}
		if cat.Slug != oldSlug {
			if err := ensureUniqueSlug(tx, cat.Slug, cat.ID); err != nil {
				return err
			}
		}

		err = tx.Transaction(func(tx *gorm.DB) error {
			if err := tx.Save(cat).Error; err != nil {
				return err
			}
			return activity.Write(c.UserContext(), tx, activity.Entry{
				UserID: auth.CurrentUserID(c),
				Action: models.ActionCategoryUpdated,
				Meta:   activity.CategoryMeta(cat),
			})
		})
		if err != nil {
			return err
		}

		return response.OK(c, cat)
	}
}

// DELETE /api/categories/:id
func DeleteCategoryHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx := db.WithContext(c.UserContext())

		cat, err := findCategory(tx, c.Params("id"))
		if err != nil {
			return err
		}

		var inUse int64
		if err := tx.Model(&models.Product{}).Unscoped().Where("category_id = ?", cat.ID).Count(&inUse).Error; err != nil {
			return err
		}
		if inUse > 0 {
			return fiber.NewError(fiber.StatusBadRequest, "Category is used by products and cannot be deleted")
		}

		err = tx.Transaction(func(tx *gorm.DB) error {
			if err := tx.Delete(cat).Error; err != nil {
				return err
			}
			return activity.Write(c.UserContext(), tx, activity.Entry{
				UserID: auth.CurrentUserID(c),
				Action: models.ActionCategoryDeleted,
				Meta:   activity.CategoryMeta(cat),
			})
		})
		if err != nil {
			return err
		}

		return response.Done(c)
	}
}

func (r *CreateCategoryRequest) toCategory() (*models.Category, error) {
	name := cleanText(r.Name)
	if name == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "name is required")
	}

	slug := Slugify(r.Slug)
	if slug == "" {
		slug = Slugify(name)
	}
	if slug == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "slug cannot be derived from name")
	}

	return &models.Category{Name: name, Slug: slug, ParentID: r.ParentID}, nil
}

func (r *UpdateCategoryRequest) apply(cat *models.Category) error {
	if r.Name != nil {
		name := cleanText(*r.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
		}
		cat.Name = name
	}
	if r.Slug != nil {
		slug := Slugify(*r.Slug)
		if slug == "" {
			return fiber.NewError(fiber.StatusBadRequest, "slug cannot be empty")
		}
		cat.Slug = slug
	}
	if r.ParentID != nil {
		if *r.ParentID == cat.ID {
			return fiber.NewError(fiber.StatusBadRequest, "category cannot be its own parent")
		}
		cat.ParentID = r.ParentID
	}
	return nil
}

func findCategory(db *gorm.DB, idParam string) (*models.Category, error) {
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil || id == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid category id")
	}

	var cat models.Category
	if err := db.First(&cat, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Category not found")
		}
		return nil, err
	}
	return &cat, nil
}

func ensureUniqueSlug(db *gorm.DB, slug string, exceptID uint) error {
	var count int64
	q := db.Model(&models.Category{}).Where("slug = ?", slug)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "Slug is already in use")
	}
	return nil
}
