package domain

import "github.com/shopspring/decimal"

// Restaurant is the summary the backend returns from GET /restaurants.
type Restaurant struct {
	ID  int64  `json:"id"`
	Nom string `json:"nom"`
}

// Dish is one menu record as served by the backend menu endpoint.
type Dish struct {
	ID           int64           `json:"id"`
	Nom          string          `json:"nom"`
	Prix         decimal.Decimal `json:"prix"`
	RestaurantID int64           `json:"restaurant_id"`
	ImageURL     string          `json:"image_url,omitempty"`
	CategorieNom string          `json:"categorie_nom,omitempty"`
}
