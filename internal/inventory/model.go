package inventory

import "github.com/supplyline/supplyline/internal/shared"

// Item is a stocked product supplied by one supplier.
type Item struct {
	ID         int64  `json:"id"`
	Name       string `json:"name" validate:"required,max=255"`
	Quantity   int    `json:"quantity" validate:"gte=0"`
	SupplierID int64  `json:"supplier_id" validate:"required,gt=0"`
}

// Page is one window of the inventory listing.
type Page struct {
	Items      []Item            `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}

// DefaultLowStockThreshold is the quantity below which an item is reported
// as running low.
const DefaultLowStockThreshold = 50
