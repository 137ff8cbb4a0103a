package orders

import "github.com/supplyline/supplyline/internal/store"

// Order is a customer order for a quantity of one inventory item.
type Order struct {
	ID             int64      `json:"id"`
	OrderDate      store.Date `json:"order_date"`
	CustomerName   string     `json:"customer_name" validate:"required,max=255"`
	ItemID         int64      `json:"item_id" validate:"required,gt=0"`
	Quantity       int        `json:"quantity" validate:"gt=0"`
	ShipmentStatus string     `json:"shipment_status" validate:"required,max=50"`
	PaymentStatus  string     `json:"payment_status" validate:"required,max=50"`
}
