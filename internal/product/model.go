package product

import "time"

const Kind = "product"

const (
	StatusActive   = "active"
	StatusPending  = "pending"
	StatusInactive = "inactive"
)

var Statuses = []string{StatusActive, StatusPending, StatusInactive}

var Categories = []string{"electronics", "fashion", "home", "beauty", "books", "sports"}

type Product struct {
	ID          string    `json:"id"`
	Name        string    `json:"name" validate:"required,max=200"`
	Description string    `json:"description,omitempty"`
	Category    string    `json:"category" validate:"required"`
	Price       float64   `json:"price" validate:"gte=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	Status      string    `json:"status" validate:"oneof=active pending inactive"`
	SellerID    string    `json:"sellerId" validate:"required"`
	SellerName  string    `json:"sellerName"`
	Image       string    `json:"image,omitempty"`
	Sold        int       `json:"sold" validate:"gte=0"`
	Rating      float64   `json:"rating" validate:"gte=0,lte=5"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Available reports whether buyers can see and order the product.
func (p Product) Available() bool {
	return p.Status == StatusActive && p.Stock > 0
}
