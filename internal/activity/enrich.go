package activity

import (
	"context"
	"time"

	"inventory-backend/internal/models"

	"github.com/rs/zerolog"
)

// Directory resolves display names for the enricher.
type Directory interface {
	UserName(ctx context.Context, id uint) (string, error)
	ProductName(ctx context.Context, id uint) (string, error)
}

// Record is an activity row ready for display. Nil fields could not be
// resolved for this row.
type Record struct {
	ID      uint               `json:"id"`
	Product *string            `json:"product"`
	Qty     *float64           `json:"qty"`
	User    *string            `json:"user"`
	TimeAgo *string            `json:"timeAgo"`
	Status  *string            `json:"status"`
	Raw     models.ActivityLog `json:"raw"`
}

type Enricher struct {
	dir Directory
	log zerolog.Logger
}

func NewEnricher(dir Directory, log zerolog.Logger) *Enricher {
	return &Enricher{dir: dir, log: log}
}

// Enrich resolves rows one by one, keeping their order. It never fails: a
// lookup or parse problem only leaves the affected field nil.
func (e *Enricher) Enrich(ctx context.Context, rows []models.ActivityLog, now time.Time) []Record {
	out := make([]Record, 0, len(rows))
	for _, row := range rows {
		out = append(out, e.enrichRow(ctx, row, now))
	}
	return out
}

func (e *Enricher) enrichRow(ctx context.Context, row models.ActivityLog, now time.Time) Record {
	rec := Record{ID: row.ID, Raw: row}
	if row.Action != "" {
		action := row.Action
		rec.Status = &action
	}

	if row.UserID != nil {
		name, err := e.dir.UserName(ctx, *row.UserID)
		if err != nil {
			e.log.Debug().Err(err).Uint("activity_id", row.ID).Msg("activity user lookup failed")
		} else if name != "" {
			rec.User = &name
		}
	}

	meta, err := ParseMeta(row.Meta)
	if err != nil {
		e.log.Debug().Err(err).Uint("activity_id", row.ID).Msg("activity metadata unreadable")
	}
	if meta != nil {
		switch {
		case meta.ProductName != nil:
			rec.Product = meta.ProductName
		case meta.ProductID != nil:
			name, err := e.dir.ProductName(ctx, *meta.ProductID)
			if err != nil {
				e.log.Debug().Err(err).Uint("activity_id", row.ID).Msg("activity product lookup failed")
			} else if name != "" {
				rec.Product = &name
			}
		}
		rec.Qty = meta.Qty
		if meta.Status != nil {
			rec.Status = meta.Status
		}
	}

	if !row.CreatedAt.IsZero() {
		ago := TimeAgo(row.CreatedAt, now)
		rec.TimeAgo = &ago
	}

	return rec
}
