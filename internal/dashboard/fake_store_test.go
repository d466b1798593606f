package dashboard

import (
	"context"
	"sort"

	"inventory-backend/internal/models"

	"github.com/shopspring/decimal"
)

// memStore is an in-memory Store that applies the same filters as the gorm
// implementation.
type memStore struct {
	products  []models.Product
	quants    []models.StockQuant
	receipts  []models.Receipt
	deliverys []models.DeliveryOrder
	transfers []models.InternalTransfer
	logs      []models.ActivityLog
}

func dec(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func idPtr(v uint) *uint { return &v }

func isPending(s models.DocumentStatus) bool {
	for _, p := range models.PendingStatuses {
		if p == s {
			return true
		}
	}
	return false
}

func (m *memStore) StockByProduct(_ context.Context, warehouseID *uint) ([]ProductStock, error) {
	sums := map[uint]decimal.Decimal{}
	for _, q := range m.quants {
		if warehouseID != nil && q.WarehouseID != *warehouseID {
			continue
		}
		sums[q.ProductID] = sums[q.ProductID].Add(q.Quantity)
	}
	out := make([]ProductStock, 0, len(sums))
	for id, q := range sums {
		out = append(out, ProductStock{ProductID: id, Qty: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ProductID < out[j].ProductID })
	return out, nil
}

func (m *memStore) active(categoryID *uint) []models.Product {
	var out []models.Product
	for _, p := range m.products {
		if !p.IsActive {
			continue
		}
		if categoryID != nil && (p.CategoryID == nil || *p.CategoryID != *categoryID) {
			continue
		}
		out = append(out, p)
	}
	return out
}

func (m *memStore) ActiveProductIDs(_ context.Context, categoryID *uint) ([]uint, error) {
	var ids []uint
	for _, p := range m.active(categoryID) {
		ids = append(ids, p.ID)
	}
	return ids, nil
}

func (m *memStore) ReorderLevels(_ context.Context, categoryID *uint, ids []uint) ([]ProductReorder, error) {
	want := map[uint]bool{}
	for _, id := range ids {
		want[id] = true
	}
	var out []ProductReorder
	for _, p := range m.active(categoryID) {
		if len(ids) > 0 && !want[p.ID] {
			continue
		}
		out = append(out, ProductReorder{ID: p.ID, ReorderLevel: decimal.NullDecimal{Decimal: p.ReorderLevel, Valid: true}})
	}
	return out, nil
}

func (m *memStore) CountPending(_ context.Context, kind DocumentKind, warehouseID *uint) (int64, error) {
	var n int64
	switch kind {
	case KindReceipt:
		for _, r := range m.receipts {
			if isPending(r.Status) && (warehouseID == nil || r.WarehouseID == *warehouseID) {
				n++
			}
		}
	case KindDelivery:
		for _, d := range m.deliverys {
			if isPending(d.Status) && (warehouseID == nil || d.WarehouseID == *warehouseID) {
				n++
			}
		}
	case KindTransfer:
		for _, t := range m.transfers {
			if isPending(t.Status) && (warehouseID == nil || t.FromWarehouseID == *warehouseID || t.ToWarehouseID == *warehouseID) {
				n++
			}
		}
	}
	return n, nil
}

func (m *memStore) RecentActivity(_ context.Context, limit int) ([]models.ActivityLog, error) {
	rows := append([]models.ActivityLog(nil), m.logs...)
	sort.SliceStable(rows, func(i, j int) bool { return rows[i].CreatedAt.After(rows[j].CreatedAt) })
	if len(rows) > limit {
		rows = rows[:limit]
	}
	return rows, nil
}

func (m *memStore) ProductLabels(_ context.Context, ids []uint) (map[uint]ProductLabel, error) {
	out := map[uint]ProductLabel{}
	for _, id := range ids {
		for _, p := range m.products {
			if p.ID == id {
				out[id] = ProductLabel{Name: p.Name, SKU: p.SKU}
			}
		}
	}
	return out, nil
}
