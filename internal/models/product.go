package models

import (
	"time"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

type Product struct {
	ID                 uint            `gorm:"primaryKey" json:"id"`
	Name               string          `gorm:"size:150;not null" json:"name"`
	SKU                string          `gorm:"column:sku;size:64;uniqueIndex;not null" json:"sku"`
	CategoryID         *uint           `gorm:"index" json:"category_id"`
	Category           *Category       `json:"category,omitempty"`
	Unit               string          `gorm:"size:20;not null" json:"unit"` // pcs, kg, box...
	Description        string          `gorm:"type:text" json:"description"`
	ReorderLevel       decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"reorder_level"`
	DefaultWarehouseID *uint           `json:"default_warehouse_id"`
	IsActive           bool            `gorm:"not null;index" json:"is_active"`
	CreatedAt          time.Time       `json:"created_at"`
	UpdatedAt          time.Time       `json:"updated_at"`
	DeletedAt          gorm.DeletedAt  `gorm:"index" json:"-"`
}
