package repo

import (
	"context"
	"time"

	"github.com/jackc/pgx/v5"

	"engmate/internal/domain"
	"engmate/internal/infra"
	"engmate/internal/sqlinline"
)

// TopupRepositoryPG implements domain.TopupRepository backed by PostgreSQL.
type TopupRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewTopupRepository creates a new TopupRepositoryPG.
func NewTopupRepository(sql infra.SQLExecutor) *TopupRepositoryPG {
	return &TopupRepositoryPG{sql: sql}
}

// ListLive returns unexpired lots ordered oldest purchase first.
func (r *TopupRepositoryPG) ListLive(ctx context.Context, userID string, now time.Time) ([]domain.TopupLot, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectLiveTopupLots, userID, now)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLots(rows)
}

// ListAll returns every lot the user ever purchased, expired ones included.
func (r *TopupRepositoryPG) ListAll(ctx context.Context, userID string) ([]domain.TopupLot, error) {
	rows, err := r.sql.Query(ctx, sqlinline.QSelectTopupLots, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()
	return scanLots(rows)
}

// Insert stores a freshly issued lot with a zero used count.
func (r *TopupRepositoryPG) Insert(ctx context.Context, lot *domain.TopupLot) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertTopupLot,
		lot.ID,
		lot.UserID,
		lot.Amount,
		lot.PurchasedAt,
		lot.ExpiresAt,
	)
	return err
}

// AddUsed increments a lot's used count. The update is guarded in SQL so a
// concurrent debit can never push used count past the lot amount; a rejected
// increment reports ErrLotExhausted.
func (r *TopupRepositoryPG) AddUsed(ctx context.Context, lotID string, n int) error {
	tag, err := r.sql.Exec(ctx, sqlinline.QAddTopupLotUsed, lotID, n)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrLotExhausted
	}
	return nil
}

func scanLots(rows pgx.Rows) ([]domain.TopupLot, error) {
	var lots []domain.TopupLot
	for rows.Next() {
		var lot domain.TopupLot
		if err := rows.Scan(&lot.ID, &lot.UserID, &lot.Amount, &lot.UsedCount, &lot.PurchasedAt, &lot.ExpiresAt); err != nil {
			return nil, err
		}
		lots = append(lots, lot)
	}
	return lots, rows.Err()
}

var _ domain.TopupRepository = (*TopupRepositoryPG)(nil)
