package activity

import (
	"context"
	"encoding/json"
	"fmt"

	"inventory-backend/internal/models"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type Entry struct {
	UserID *uint
	Action string
	Meta   *Meta
}

// Write appends one activity row. db may be a transaction so the row commits
// together with the change it describes.
func Write(ctx context.Context, db *gorm.DB, entry Entry) error {
	row := models.ActivityLog{
		UserID: entry.UserID,
		Action: entry.Action,
	}
	if entry.Meta != nil {
		b, err := json.Marshal(entry.Meta)
		if err != nil {
			return fmt.Errorf("activity: encode metadata: %w", err)
		}
		row.Meta = datatypes.JSON(b)
	}

	if err := db.WithContext(ctx).Create(&row).Error; err != nil {
		return fmt.Errorf("activity: write log: %w", err)
	}
	return nil
}

// Recent returns the newest rows first.
func Recent(ctx context.Context, db *gorm.DB, limit int) ([]models.ActivityLog, error) {
	var rows []models.ActivityLog
	err := db.WithContext(ctx).
		Order("created_at DESC").
		Order("id DESC").
		Limit(limit).
		Find(&rows).Error
	if err != nil {
		return nil, fmt.Errorf("activity: recent: %w", err)
	}
	return rows, nil
}

type gormDirectory struct {
	db *gorm.DB
}

// NewDirectory looks names up in the users and products tables, including
// soft-deleted rows so old activity keeps its labels.
func NewDirectory(db *gorm.DB) Directory {
	return &gormDirectory{db: db}
}

func (d *gormDirectory) UserName(ctx context.Context, id uint) (string, error) {
	var u models.User
	err := d.db.WithContext(ctx).Unscoped().Select("id", "name").Take(&u, id).Error
	return u.Name, err
}

func (d *gormDirectory) ProductName(ctx context.Context, id uint) (string, error) {
	var p models.Product
	err := d.db.WithContext(ctx).Unscoped().Select("id", "name").Take(&p, id).Error
	return p.Name, err
}

// ProductMeta is the payload written for product changes.
func ProductMeta(p *models.Product) *Meta {
	name := p.Name
	id := p.ID
	return &Meta{ProductID: &id, ProductName: &name}
}

func CategoryMeta(c *models.Category) *Meta {
	name := c.Name
	id := c.ID
	return &Meta{CategoryID: &id, CategoryName: &name}
}
