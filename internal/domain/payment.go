package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// PaymentKindTopup tags payments created by top-up purchases.
const PaymentKindTopup = "topup"

// Payment is the audit record written alongside a purchase. Writing it is
// best-effort: a failed insert never voids the credits already issued.
type Payment struct {
	ID        string
	UserID    string
	Kind      string
	Units     int
	Price     decimal.Decimal
	CreatedAt time.Time
}
