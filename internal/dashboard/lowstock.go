package dashboard

import (
	"context"
	"fmt"

	"github.com/shopspring/decimal"
)

// LowStockPolicy decides how many products count as low on stock. It is
// chosen once per request by PolicyFor.
type LowStockPolicy interface {
	CountLow(ctx context.Context, store Store, levels StockLevels, categoryID *uint) (int64, error)
}

// PolicyFor picks ThresholdPolicy when the caller supplied a threshold and
// ReorderLevelPolicy otherwise.
func PolicyFor(threshold *decimal.Decimal) LowStockPolicy {
	if threshold != nil {
		return ThresholdPolicy{Limit: *threshold}
	}
	return ReorderLevelPolicy{}
}

// ThresholdPolicy counts ledger products whose quantity is at or below Limit.
//
// Only products that have at least one stock-quant line are considered, and
// the category filter is not applied. A product with no ledger lines is never
// low under this policy even though ReorderLevelPolicy may count it. Kept
// as-is pending product-owner confirmation.
type ThresholdPolicy struct {
	Limit decimal.Decimal
}

func (p ThresholdPolicy) CountLow(_ context.Context, _ Store, levels StockLevels, _ *uint) (int64, error) {
	var n int64
	for _, q := range levels.ByProduct {
		if q.LessThanOrEqual(p.Limit) {
			n++
		}
	}
	return n, nil
}

// ReorderLevelPolicy compares each candidate's quantity with its own reorder
// level. Candidates are the active products in the category filter that appear
// in the ledger, or every such product when the ledger is empty.
type ReorderLevelPolicy struct{}

func (ReorderLevelPolicy) CountLow(ctx context.Context, store Store, levels StockLevels, categoryID *uint) (int64, error) {
	products, err := store.ReorderLevels(ctx, categoryID, levels.ProductIDs())
	if err != nil {
		return 0, fmt.Errorf("reorder levels: %w", err)
	}

	var n int64
	for _, p := range products {
		reorder := decimal.Zero
		if p.ReorderLevel.Valid {
			reorder = p.ReorderLevel.Decimal
		}
		if levels.Qty(p.ID).LessThanOrEqual(reorder) {
			n++
		}
	}
	return n, nil
}
