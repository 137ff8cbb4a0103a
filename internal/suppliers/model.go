package suppliers

import "github.com/supplyline/supplyline/internal/shared"

// Supplier is a vendor of inventory items.
type Supplier struct {
	ID            int64  `json:"id"`
	Name          string `json:"name" validate:"required,max=255"`
	ContactPerson string `json:"contact_person" validate:"required,max=255"`
	Phone         string `json:"phone" validate:"required,max=50"`
	Email         string `json:"email" validate:"required,email"`
	Address       string `json:"address" validate:"required"`
	City          string `json:"city" validate:"required,max=100"`
}

// Page is one window of the supplier listing.
type Page struct {
	Items      []Supplier        `json:"items"`
	Pagination shared.Pagination `json:"pagination"`
}
