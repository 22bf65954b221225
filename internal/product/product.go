// Package product defines the product record stored in the products
// collection and returned by the products API.
package product

// Product represents a single catalog item.
type Product struct {
	// ID is the unique numeric identifier of the product,
	// generated randomly at creation.
	ID int64 `json:"id"`

	Name        string  `json:"name"`
	Price       float64 `json:"price"`
	Description string  `json:"description"`
	ImageURL    string  `json:"imageUrl"`
	Unit        string  `json:"unit"`
}
