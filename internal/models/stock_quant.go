package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// StockQuant is one ledger line of on-hand quantity for a product in a
// warehouse. A product may have several lines per warehouse (one per lot);
// its current stock is the sum of its lines.
type StockQuant struct {
	ID          uint            `gorm:"primaryKey" json:"id"`
	ProductID   uint            `gorm:"index;not null" json:"product_id"`
	Product     Product         `json:"-"`
	WarehouseID uint            `gorm:"index;not null" json:"warehouse_id"`
	Warehouse   Warehouse       `json:"-"`
	Quantity    decimal.Decimal `gorm:"type:numeric(18,4);not null;default:0" json:"quantity"`
	Lot         string          `gorm:"size:64" json:"lot"`
	CreatedAt   time.Time       `json:"created_at"`
	UpdatedAt   time.Time       `json:"updated_at"`
}
