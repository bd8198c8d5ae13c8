package domain

import "github.com/shopspring/decimal"

// CartLine is one dish entry with quantity in the active cart.
type CartLine struct {
	ItemID       int64           `json:"itemId"`
	Name         string          `json:"name"`
	UnitPrice    decimal.Decimal `json:"unitPrice"`
	Quantity     int             `json:"quantity"`
	RestaurantID int64           `json:"restaurantId"`
}

// LineTotal is unitPrice multiplied by quantity.
func (l CartLine) LineTotal() decimal.Decimal {
	return l.UnitPrice.Mul(decimal.NewFromInt(int64(l.Quantity)))
}
