package cart

import "github.com/verdantlabs/verdant/internal/product"

// Line is one cart row: a product reference and a quantity.
type Line struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

// Item is a cart line joined with its product for responses.
type Item struct {
	product.Product
	Quantity int `json:"quantity"`
}
