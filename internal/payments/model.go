package payments

import (
	"github.com/shopspring/decimal"

	"github.com/supplyline/supplyline/internal/store"
)

// Payment records money received against one order.
type Payment struct {
	ID            int64           `json:"id"`
	OrderID       int64           `json:"order_id" validate:"required,gt=0"`
	Amount        decimal.Decimal `json:"amount"`
	PaymentDate   store.Date      `json:"payment_date"`
	PaymentMethod string          `json:"payment_method" validate:"required,max=50"`
}
