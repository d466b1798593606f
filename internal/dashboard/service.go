package dashboard

import (
	"context"
	"fmt"
	"time"

	"inventory-backend/internal/activity"

	"github.com/shopspring/decimal"
	"golang.org/x/sync/errgroup"
)

const (
	DefaultTop         = 10
	recentActivityRows = 10
)

type Filter struct {
	WarehouseID *uint
	CategoryID  *uint
	Threshold   *decimal.Decimal
	Top         int
}

type StockStatus struct {
	InStock    float64 `json:"inStock"`
	LowStock   int64   `json:"lowStock"`
	OutOfStock int64   `json:"outOfStock"`
}

type TopProduct struct {
	ProductID uint    `json:"product_id"`
	Name      *string `json:"name"`
	SKU       *string `json:"sku"`
	Qty       float64 `json:"qty"`
}

type Summary struct {
	TotalProducts     int64             `json:"totalProducts"`
	LowStock          int64             `json:"lowStock"`
	PendingReceipts   int64             `json:"pendingReceipts"`
	PendingDeliveries int64             `json:"pendingDeliveries"`
	PendingTransfers  int64             `json:"pendingTransfers"`
	StockStatus       StockStatus       `json:"stockStatus"`
	RecentActivities  []activity.Record `json:"recentActivities"`
	TopProducts       []TopProduct      `json:"topProducts"`
}

type Service struct {
	store    Store
	enricher *activity.Enricher
	now      func() time.Time
}

func NewService(store Store, enricher *activity.Enricher) *Service {
	return &Service{store: store, enricher: enricher, now: time.Now}
}

// Summary assembles the dashboard. All reads are independent and the result
// may reflect slightly different instants; any failed read fails the whole
// summary.
func (s *Service) Summary(ctx context.Context, f Filter) (*Summary, error) {
	if f.Top < 1 {
		f.Top = DefaultTop
	}

	activeIDs, err := s.store.ActiveProductIDs(ctx, f.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: active products: %w", err)
	}

	rows, err := s.store.StockByProduct(ctx, f.WarehouseID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: stock by product: %w", err)
	}
	levels := AggregateStock(rows)

	lowStock, err := PolicyFor(f.Threshold).CountLow(ctx, s.store, levels, f.CategoryID)
	if err != nil {
		return nil, fmt.Errorf("dashboard: low stock: %w", err)
	}

	out := &Summary{
		TotalProducts: int64(len(activeIDs)),
		LowStock:      lowStock,
		StockStatus: StockStatus{
			InStock:    levels.Total.InexactFloat64(),
			LowStock:   lowStock,
			OutOfStock: CountOutOfStock(activeIDs, levels),
		},
	}

	if err := s.countPending(ctx, f.WarehouseID, out); err != nil {
		return nil, err
	}

	logs, err := s.store.RecentActivity(ctx, recentActivityRows)
	if err != nil {
		return nil, fmt.Errorf("dashboard: recent activity: %w", err)
	}
	out.RecentActivities = s.enricher.Enrich(ctx, logs, s.now())

	out.TopProducts, err = s.topProducts(ctx, levels, f.Top)
	if err != nil {
		return nil, err
	}

	return out, nil
}

func (s *Service) countPending(ctx context.Context, warehouseID *uint, out *Summary) error {
	g, gctx := errgroup.WithContext(ctx)

	targets := map[DocumentKind]*int64{
		KindReceipt:  &out.PendingReceipts,
		KindDelivery: &out.PendingDeliveries,
		KindTransfer: &out.PendingTransfers,
	}
	for kind, dst := range targets {
		kind, dst := kind, dst
		g.Go(func() error {
			n, err := s.store.CountPending(gctx, kind, warehouseID)
			if err != nil {
				return fmt.Errorf("dashboard: pending %s: %w", kind, err)
			}
			*dst = n
			return nil
		})
	}

	return g.Wait()
}

func (s *Service) topProducts(ctx context.Context, levels StockLevels, n int) ([]TopProduct, error) {
	top := levels.Top(n)
	out := make([]TopProduct, 0, len(top))
	if len(top) == 0 {
		return out, nil
	}

	ids := make([]uint, 0, len(top))
	for _, t := range top {
		ids = append(ids, t.ProductID)
	}
	labels, err := s.store.ProductLabels(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("dashboard: product labels: %w", err)
	}

	for _, t := range top {
		tp := TopProduct{ProductID: t.ProductID, Qty: t.Qty.Round(3).InexactFloat64()}
		if l, ok := labels[t.ProductID]; ok {
			if l.Name != "" {
				name := l.Name
				tp.Name = &name
			}
			if l.SKU != "" {
				sku := l.SKU
				tp.SKU = &sku
			}
		}
		out = append(out, tp)
	}
	return out, nil
}
