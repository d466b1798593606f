package dashboard

import (
	"context"

	"inventory-backend/internal/activity"
	"inventory-backend/internal/models"

	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// DocumentKind selects the document table CountPending reads.
type DocumentKind string

const (
	KindReceipt  DocumentKind = "receipt"
	KindDelivery DocumentKind = "delivery"
	KindTransfer DocumentKind = "transfer"
)

// ProductReorder is a product id with its reorder level, invalid when unset.
type ProductReorder struct {
	ID           uint
	ReorderLevel decimal.NullDecimal
}

// ProductLabel is the display name and SKU shown for top products.
type ProductLabel struct {
	Name string
	SKU  string
}

// Store is every read the dashboard performs. Implementations must be safe
// for concurrent use.
type Store interface {
	// StockByProduct groups stock_quants by product, optionally for one warehouse.
	StockByProduct(ctx context.Context, warehouseID *uint) ([]ProductStock, error)
	// ActiveProductIDs lists active, non-deleted products, optionally in one category.
	ActiveProductIDs(ctx context.Context, categoryID *uint) ([]uint, error)
	// ReorderLevels returns active products in the category filter, limited
	// to ids when ids is non-empty.
	ReorderLevels(ctx context.Context, categoryID *uint, ids []uint) ([]ProductReorder, error)
	// CountPending counts documents of kind in a pending status. Transfers
	// match when either side is the warehouse.
	CountPending(ctx context.Context, kind DocumentKind, warehouseID *uint) (int64, error)
	// RecentActivity returns the newest limit activity rows, newest first.
	RecentActivity(ctx context.Context, limit int) ([]models.ActivityLog, error)
	// ProductLabels returns name and SKU for the ids, deleted products included.
	ProductLabels(ctx context.Context, ids []uint) (map[uint]ProductLabel, error)
}

type gormStore struct {
	db *gorm.DB
}

// NewStore returns the gorm-backed Store.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) StockByProduct(ctx context.Context, warehouseID *uint) ([]ProductStock, error) {
	q := s.db.WithContext(ctx).
		Model(&models.StockQuant{}).
		Select("product_id, COALESCE(SUM(quantity), 0) AS qty").
		Group("product_id")
	if warehouseID != nil {
		q = q.Where("warehouse_id = ?", *warehouseID)
	}

	var rows []ProductStock
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *gormStore) activeProducts(ctx context.Context, categoryID *uint) *gorm.DB {
	q := s.db.WithContext(ctx).Model(&models.Product{}).Where("is_active = ?", true)
	if categoryID != nil {
		q = q.Where("category_id = ?", *categoryID)
	}
	return q
}

func (s *gormStore) ActiveProductIDs(ctx context.Context, categoryID *uint) ([]uint, error) {
	var ids []uint
	if err := s.activeProducts(ctx, categoryID).Pluck("id", &ids).Error; err != nil {
		return nil, err
	}
	return ids, nil
}

func (s *gormStore) ReorderLevels(ctx context.Context, categoryID *uint, ids []uint) ([]ProductReorder, error) {
	q := s.activeProducts(ctx, categoryID).Select("id, reorder_level")
	if len(ids) > 0 {
		q = q.Where("id IN ?", ids)
	}

	var rows []ProductReorder
	if err := q.Scan(&rows).Error; err != nil {
		return nil, err
	}
	return rows, nil
}

func (s *gormStore) CountPending(ctx context.Context, kind DocumentKind, warehouseID *uint) (int64, error) {
	q := s.db.WithContext(ctx)
	switch kind {
	case KindReceipt:
		q = q.Model(&models.Receipt{})
		if warehouseID != nil {
			q = q.Where("warehouse_id = ?", *warehouseID)
		}
	case KindDelivery:
		q = q.Model(&models.DeliveryOrder{})
		if warehouseID != nil {
			q = q.Where("warehouse_id = ?", *warehouseID)
		}
	case KindTransfer:
		q = q.Model(&models.InternalTransfer{})
		if warehouseID != nil {
			q = q.Where("(from_warehouse_id = ? OR to_warehouse_id = ?)", *warehouseID, *warehouseID)
		}
	default:
		return 0, gorm.ErrInvalidValue
	}

	var n int64
	if err := q.Where("status IN ?", models.PendingStatuses).Count(&n).Error; err != nil {
		return 0, err
	}
	return n, nil
}

func (s *gormStore) RecentActivity(ctx context.Context, limit int) ([]models.ActivityLog, error) {
	return activity.Recent(ctx, s.db, limit)
}

func (s *gormStore) ProductLabels(ctx context.Context, ids []uint) (map[uint]ProductLabel, error) {
	labels := make(map[uint]ProductLabel, len(ids))
	if len(ids) == 0 {
		return labels, nil
	}

	var products []models.Product
	err := s.db.WithContext(ctx).Unscoped().
		Select("id", "name", "sku").
		Where("id IN ?", ids).
		Find(&products).Error
	if err != nil {
		return nil, err
	}
	for _, p := range products {
		labels[p.ID] = ProductLabel{Name: p.Name, SKU: p.SKU}
	}
	return labels, nil
}
