package models

import (
	"time"

	"gorm.io/datatypes"
)

const (
	ActionProductCreated  = "product.created"
	ActionProductUpdated  = "product.updated"
	ActionProductDeleted  = "product.deleted"
	ActionCategoryCreated = "category.created"
	ActionCategoryUpdated = "category.updated"
	ActionCategoryDeleted = "category.deleted"
)

// ActivityLog rows are append only. Meta is an optional JSON payload whose
// keys (product_id, product_name, qty, status) may each be absent.
type ActivityLog struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    *uint          `gorm:"index" json:"user_id"`
	Action    string         `gorm:"size:100;not null" json:"action"`
	Meta      datatypes.JSON `gorm:"type:jsonb" json:"meta"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`
}
