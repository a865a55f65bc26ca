// Package cart defines the item shape supplied by the cart source
// collaborator. The engine never scrapes carts itself.
package cart

// Item is one entry of the shopping cart under analysis.
type Item struct {
	Title    string `json:"title"`
	Price    int    `json:"price"`
	ImageURL string `json:"imageUrl,omitempty"`
}
