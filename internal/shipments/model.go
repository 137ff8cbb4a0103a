package shipments

import "github.com/supplyline/supplyline/internal/store"

// Shipment tracks the delivery of one order.
type Shipment struct {
	ID           int64      `json:"id"`
	OrderID      int64      `json:"order_id" validate:"required,gt=0"`
	ShipmentDate store.Date `json:"shipment_date"`
	DeliveryDate store.Date `json:"delivery_date"`
	Status       string     `json:"status" validate:"required,oneof=Pending Shipped Delivered"`
}
