package inventory

import (
	"errors"
	"strconv"
	"strings"

	"inventory-backend/internal/activity"
	"inventory-backend/internal/auth"
	"inventory-backend/internal/models"
	"inventory-backend/internal/response"

	"github.com/gofiber/fiber/v2"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

type ProductResponse struct {
	models.Product
	Stock float64 `json:"stock"`
}

type ProductListResponse struct {
	Total int64             `json:"total"`
	Items []ProductResponse `json:"items"`
	Page  int               `json:"page"`
	Limit int               `json:"limit"`
}

type CreateProductRequest struct {
	Name               string           `json:"name"`
	SKU                string           `json:"sku"`
	CategoryID         *uint            `json:"category_id"`
	Unit               string           `json:"unit"`
	Description        string           `json:"description"`
	ReorderLevel       *decimal.Decimal `json:"reorder_level"`
	DefaultWarehouseID *uint            `json:"default_warehouse_id"`
	IsActive           *bool            `json:"is_active"`
}

type UpdateProductRequest struct {
	Name               *string          `json:"name"`
	SKU                *string          `json:"sku"`
	CategoryID         *uint            `json:"category_id"`
	Unit               *string          `json:"unit"`
	Description        *string          `json:"description"`
	ReorderLevel       *decimal.Decimal `json:"reorder_level"`
	DefaultWarehouseID *uint            `json:"default_warehouse_id"`
	IsActive           *bool            `json:"is_active"`
}

// GET /api/products?search=&category_id=&page=1&limit=20
func ListProductsHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		page, limit, err := parsePage(c.Query("page"), c.Query("limit"))
		if err != nil {
			return err
		}

		var categoryID uint64
		if s := c.Query("category_id"); s != "" {
			categoryID, err = strconv.ParseUint(s, 10, 64)
			if err != nil {
				return fiber.NewError(fiber.StatusBadRequest, "category_id must be a positive integer")
			}
		}

		dbq := db.WithContext(c.UserContext()).Model(&models.Product{})
		if search := strings.TrimSpace(c.Query("search")); search != "" {
			like := "%" + escapeLike(search) + "%"
			dbq = dbq.Where("(name ILIKE ? OR sku ILIKE ?)", like, like)
		}
		if categoryID != 0 {
			dbq = dbq.Where("category_id = ?", categoryID)
		}
		dbq = dbq.Session(&gorm.Session{})

		var total int64
		if err := dbq.Count(&total).Error; err != nil {
			return err
		}

		var products []models.Product
		err = dbq.Preload("Category").
			Order("created_at DESC").
			Order("id DESC").
			Limit(limit).
			Offset((page - 1) * limit).
			Find(&products).Error
		if err != nil {
			return err
		}

		ids := make([]uint, 0, len(products))
		for _, p := range products {
			ids = append(ids, p.ID)
		}
		stock, err := stockByProduct(db.WithContext(c.UserContext()), ids)
		if err != nil {
			return err
		}

		items := make([]ProductResponse, 0, len(products))
		for _, p := range products {
			items = append(items, ProductResponse{Product: p, Stock: stock[p.ID].InexactFloat64()})
		}

		return response.OK(c, ProductListResponse{Total: total, Items: items, Page: page, Limit: limit})
	}
}

// GET /api/products/:id
func GetProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		p, err := findProduct(db.WithContext(c.UserContext()).Preload("Category"), c.Params("id"))
		if err != nil {
			return err
		}

		stock, err := stockByProduct(db.WithContext(c.UserContext()), []uint{p.ID})
		if err != nil {
			return err
		}

		return response.OK(c, ProductResponse{Product: *p, Stock: stock[p.ID].InexactFloat64()})
	}
}

// POST /api/products
func CreateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var body CreateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}

		p, err := body.toProduct()
		if err != nil {
			return err
		}

		tx := db.WithContext(c.UserContext())
		if err := checkProductRefs(tx, p); err != nil {
			return err
		}
		if err := ensureUniqueSKU(tx, p.SKU, 0); err != nil {
			return err
		}

		err = tx.Transaction(func(tx *gorm.DB) error {
			if err := tx.Create(p).Error; err != nil {
				return err
			}
			return activity.Write(c.UserContext(), tx, activity.Entry{
				UserID: auth.CurrentUserID(c),
				Action: models.ActionProductCreated,
				Meta:   activity.ProductMeta(p),
			})
		})
		if err != nil {
			return err
		}

		return response.Created(c, ProductResponse{Product: *p})
	}
}

// PUT /api/products/:id
func UpdateProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx := db.WithContext(c.UserContext())

		p, err := findProduct(tx, c.Params("id"))
		if err != nil {
			return err
		}

		var body UpdateProductRequest
		if err := c.BodyParser(&body); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
		}
		skuChanged := body.SKU != nil && strings.TrimSpace(*body.SKU) != p.SKU
		if err := body.apply(p); err != nil {
			return err
		}

		if err := checkProductRefs(tx, p); err != nil {
			return err
		}
		if skuChanged {
			if err := ensureUniqueSKU(tx, p.SKU, p.ID); err != nil {
				return err
			}
		}

		err = tx.Transaction(func(tx *gorm.DB) error {
			if err := tx.Omit("Category").Save(p).Error; err != nil {
				return err
			}
			return activity.Write(c.UserContext(), tx, activity.Entry{
				UserID: auth.CurrentUserID(c),
				Action: models.ActionProductUpdated,
				Meta:   activity.ProductMeta(p),
			})
		})
		if err != nil {
			return err
		}

		stock, err := stockByProduct(tx, []uint{p.ID})
		if err != nil {
			return err
		}
		p.Category = nil
		return response.OK(c, ProductResponse{Product: *p, Stock: stock[p.ID].InexactFloat64()})
	}
}

// DELETE /api/products/:id
// Soft delete: the row stays for reporting and activity labels.
func DeleteProductHandler(db *gorm.DB) fiber.Handler {
	return func(c *fiber.Ctx) error {
		tx := db.WithContext(c.UserContext())

		p, err := findProduct(tx, c.Params("id"))
		if err != nil {
			return err
		}

		err = tx.Transaction(func(tx *gorm.DB) error {
			if err := tx.Model(p).Update("is_active", false).Error; err != nil {
				return err
			}
			if err := tx.Delete(p).Error; err != nil {
				return err
			}
			return activity.Write(c.UserContext(), tx, activity.Entry{
				UserID: auth.CurrentUserID(c),
				Action: models.ActionProductDeleted,
				Meta:   activity.ProductMeta(p),
			})
		})
		if err != nil {
			return err
		}

		return response.Done(c)
	}
}

func (r *CreateProductRequest) toProduct() (*models.Product, error) {
	p := &models.Product{
		Name:               cleanText(r.Name),
		SKU:                strings.TrimSpace(r.SKU),
		CategoryID:         r.CategoryID,
		Unit:               strings.TrimSpace(r.Unit),
		Description:        cleanText(r.Description),
		ReorderLevel:       decimal.Zero,
		DefaultWarehouseID: r.DefaultWarehouseID,
		IsActive:           true,
	}
	if r.ReorderLevel != nil {
		p.ReorderLevel = *r.ReorderLevel
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}

	if p.Name == "" || p.SKU == "" || p.Unit == "" {
		return nil, fiber.NewError(fiber.StatusBadRequest, "name, sku and unit are required")
	}
	if p.ReorderLevel.IsNegative() {
		return nil, fiber.NewError(fiber.StatusBadRequest, "reorder_level cannot be negative")
	}
	return p, nil
}

func (r *UpdateProductRequest) apply(p *models.Product) error {
	if r.Name != nil {
		name := cleanText(*r.Name)
		if name == "" {
			return fiber.NewError(fiber.StatusBadRequest, "name cannot be empty")
		}
		p.Name = name
	}
	if r.SKU != nil {
		sku := strings.TrimSpace(*r.SKU)
		if sku == "" {
			return fiber.NewError(fiber.StatusBadRequest, "sku cannot be empty")
		}
		p.SKU = sku
	}
	if r.Unit != nil {
		unit := strings.TrimSpace(*r.Unit)
		if unit == "" {
			return fiber.NewError(fiber.StatusBadRequest, "unit cannot be empty")
		}
		p.Unit = unit
	}
	if r.Description != nil {
		p.Description = cleanText(*r.Description)
	}
	if r.ReorderLevel != nil {
		if r.ReorderLevel.IsNegative() {
			return fiber.NewError(fiber.StatusBadRequest, "reorder_level cannot be negative")
		}
		p.ReorderLevel = *r.ReorderLevel
	}
	// 0 clears the reference.
	if r.CategoryID != nil {
		p.CategoryID = clearable(r.CategoryID)
		p.Category = nil
	}
	if r.DefaultWarehouseID != nil {
		p.DefaultWarehouseID = clearable(r.DefaultWarehouseID)
	}
	if r.IsActive != nil {
		p.IsActive = *r.IsActive
	}
	return nil
}

func clearable(id *uint) *uint {
	if *id == 0 {
		return nil
	}
	return id
}

func findProduct(db *gorm.DB, idParam string) (*models.Product, error) {
	id, err := strconv.ParseUint(idParam, 10, 64)
	if err != nil || id == 0 {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid product id")
	}

	var p models.Product
	if err := db.First(&p, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fiber.NewError(fiber.StatusNotFound, "Product not found")
		}
		return nil, err
	}
	return &p, nil
}

func ensureUniqueSKU(db *gorm.DB, sku string, exceptID uint) error {
	var count int64
	q := db.Model(&models.Product{}).Unscoped().Where("sku = ?", sku)
	if exceptID != 0 {
		q = q.Where("id <> ?", exceptID)
	}
	if err := q.Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return fiber.NewError(fiber.StatusBadRequest, "SKU is already in use")
	}
	return nil
}

func checkProductRefs(db *gorm.DB, p *models.Product) error {
	if p.CategoryID != nil {
		if err := exists(db, &models.Category{}, *p.CategoryID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Category not found")
			}
			return err
		}
	}
	if p.DefaultWarehouseID != nil {
		if err := exists(db, &models.Warehouse{}, *p.DefaultWarehouseID); err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return fiber.NewError(fiber.StatusBadRequest, "Warehouse not found")
			}
			return err
		}
	}
	return nil
}

func exists(db *gorm.DB, model any, id uint) error {
	var n int64
	if err := db.Model(model).Where("id = ?", id).Count(&n).Error; err != nil {
		return err
	}
	if n == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// stockByProduct sums every stock-quant line of the given products.
func stockByProduct(db *gorm.DB, ids []uint) (map[uint]decimal.Decimal, error) {
	out := make(map[uint]decimal.Decimal, len(ids))
	if len(ids) == 0 {
		return out, nil
	}

	var rows []struct {
		ProductID uint
		Qty       decimal.Decimal
	}
	err := db.Model(&models.StockQuant{}).
		Select("product_id, COALESCE(SUM(quantity), 0) AS qty").
		Where("product_id IN ?", ids).
		Group("product_id").
		Scan(&rows).Error
	if err != nil {
		return nil, err
	}
	for _, r := range rows {
		out[r.ProductID] = r.Qty
	}
	return out, nil
}

func parsePage(pageStr, limitStr string) (int, int, error) {
	page, limit := 1, defaultPageSize
	if pageStr != "" {
		n, err := strconv.Atoi(pageStr)
		if err != nil || n < 1 {
			return 0, 0, fiber.NewError(fiber.StatusBadRequest, "page must be a positive integer")
		}
		page = n
	}
	if limitStr != "" {
		n, err := strconv.Atoi(limitStr)
		if err != nil || n < 1 {
			return 0, 0, fiber.NewError(fiber.StatusBadRequest, "limit must be a positive integer")
		}
		limit = min(n, maxPageSize)
	}
	return page, limit, nil
}

func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}
