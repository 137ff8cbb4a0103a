package shared

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Status values written by the application.
const (
	StatusPending   = "Pending"
	StatusShipped   = "Shipped"
	StatusDelivered = "Delivered"
	StatusPaid      = "Paid"
	StatusUnpaid    = "Unpaid"
)

// NormalizeStatus trims and title-cases free-text status values so "paid",
// " PAID " and "Paid" are stored identically.
func NormalizeStatus(s string) string {
	s = strings.Join(strings.Fields(s), " ")
	if s == "" {
		return ""
	}
	return cases.Title(language.English).String(s)
}
