package models

import "time"

type DocumentStatus string

const (
	DocumentDraft     DocumentStatus = "draft"
	DocumentWaiting   DocumentStatus = "waiting"
	DocumentReady     DocumentStatus = "ready"
	DocumentDone      DocumentStatus = "done"
	DocumentCancelled DocumentStatus = "cancelled"
)

// PendingStatuses are the statuses counted as outstanding work on the dashboard.
var PendingStatuses = []DocumentStatus{DocumentDraft, DocumentWaiting}

// Receipt: inbound goods into one warehouse.
type Receipt struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Reference   string         `gorm:"size:50;uniqueIndex;not null" json:"reference"`
	WarehouseID uint           `gorm:"index;not null" json:"warehouse_id"`
	Supplier    string         `gorm:"size:150" json:"supplier"`
	Status      DocumentStatus `gorm:"size:20;index;not null;default:draft" json:"status"`
	ScheduledAt *time.Time     `json:"scheduled_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// DeliveryOrder: outbound goods from one warehouse.
type DeliveryOrder struct {
	ID          uint           `gorm:"primaryKey" json:"id"`
	Reference   string         `gorm:"size:50;uniqueIndex;not null" json:"reference"`
	WarehouseID uint           `gorm:"index;not null" json:"warehouse_id"`
	Customer    string         `gorm:"size:150" json:"customer"`
	Status      DocumentStatus `gorm:"size:20;index;not null;default:draft" json:"status"`
	ScheduledAt *time.Time     `json:"scheduled_at"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// InternalTransfer moves goods between two warehouses.
type InternalTransfer struct {
	ID              uint           `gorm:"primaryKey" json:"id"`
	Reference       string         `gorm:"size:50;uniqueIndex;not null" json:"reference"`
	FromWarehouseID uint           `gorm:"index;not null" json:"from_warehouse_id"`
	ToWarehouseID   uint           `gorm:"index;not null" json:"to_warehouse_id"`
	Status          DocumentStatus `gorm:"size:20;index;not null;default:draft" json:"status"`
	ScheduledAt     *time.Time     `json:"scheduled_at"`
	CreatedAt       time.Time      `json:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at"`
}
