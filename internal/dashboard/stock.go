package dashboard

import (
	"sort"

	"github.com/shopspring/decimal"
)

// ProductStock is one product's quantity summed over its stock-quant lines.
type ProductStock struct {
	ProductID uint            `gorm:"column:product_id"`
	Qty       decimal.Decimal `gorm:"column:qty"`
}

// StockLevels is the result of aggregating the stock ledger under one
// warehouse filter. Products without ledger lines are absent from ByProduct.
type StockLevels struct {
	Total     decimal.Decimal
	ByProduct map[uint]decimal.Decimal
}

// AggregateStock folds grouped ledger rows into per-product quantities and a
// fleet-wide total rounded to 3 decimals. The total is derived from the map,
// so the two can never disagree.
func AggregateStock(rows []ProductStock) StockLevels {
	levels := StockLevels{ByProduct: make(map[uint]decimal.Decimal, len(rows))}
	sum := decimal.Zero
	for _, r := range rows {
		levels.ByProduct[r.ProductID] = levels.ByProduct[r.ProductID].Add(r.Qty)
		sum = sum.Add(r.Qty)
	}
	levels.Total = sum.Round(3)
	return levels
}

// Qty returns the product's quantity, zero when it has no ledger lines.
func (l StockLevels) Qty(productID uint) decimal.Decimal {
	return l.ByProduct[productID]
}

// ProductIDs returns the products present in the ledger, ascending.
func (l StockLevels) ProductIDs() []uint {
	ids := make([]uint, 0, len(l.ByProduct))
	for id := range l.ByProduct {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Top returns the n products with the most stock, quantity descending and
// product id ascending on ties.
func (l StockLevels) Top(n int) []ProductStock {
	out := make([]ProductStock, 0, len(l.ByProduct))
	for id, q := range l.ByProduct {
		out = append(out, ProductStock{ProductID: id, Qty: q})
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Qty.Cmp(out[j].Qty); c != 0 {
			return c > 0
		}
		return out[i].ProductID < out[j].ProductID
	})
	if n < len(out) {
		out = out[:n]
	}
	return out
}

// CountOutOfStock counts the given products whose quantity is zero or less,
// including products with no ledger lines at all.
func CountOutOfStock(activeIDs []uint, levels StockLevels) int64 {
	var n int64
	for _, id := range activeIDs {
		if !levels.Qty(id).IsPositive() {
			n++
		}
	}
	return n
}
