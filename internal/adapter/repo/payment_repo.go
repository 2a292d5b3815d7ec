package repo

import (
	"context"

	"engmate/internal/domain"
	"engmate/internal/infra"
	"engmate/internal/sqlinline"
)

// PaymentRepositoryPG implements domain.PaymentRepository backed by PostgreSQL.
type PaymentRepositoryPG struct {
	sql infra.SQLExecutor
}

// NewPaymentRepository creates a new PaymentRepositoryPG.
func NewPaymentRepository(sql infra.SQLExecutor) *PaymentRepositoryPG {
	return &PaymentRepositoryPG{sql: sql}
}

// Insert stores a purchase audit record.
func (r *PaymentRepositoryPG) Insert(ctx context.Context, payment *domain.Payment) error {
	_, err := r.sql.Exec(ctx, sqlinline.QInsertPayment,
		payment.ID,
		payment.UserID,
		payment.Kind,
		payment.Units,
		payment.Price,
		payment.CreatedAt,
	)
	return err
}

var _ domain.PaymentRepository = (*PaymentRepositoryPG)(nil)
