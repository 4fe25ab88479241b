package cart

// Item is one cart line as stored under the session's "cartItems" key.
type Item struct {
	ID       string  `json:"id"`
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"`
	Image    string  `json:"image,omitempty"`
	Variant  string  `json:"variant,omitempty"`
	SellerID string  `json:"sellerId,omitempty"`
}

func (i Item) same(productID, variant string) bool {
	return i.ID == productID && i.Variant == variant
}

type Cart struct {
	Items    []Item  `json:"items"`
	Count    int     `json:"count"`
	Subtotal float64 `json:"subtotal"`
}

func newCart(items []Item) Cart {
	c := Cart{Items: items}
	if c.Items == nil {
		c.Items = []Item{}
	}
	for _, it := range c.Items {
		c.Count += it.Quantity
		c.Subtotal += it.Price * float64(it.Quantity)
	}
	return c
}

// CheckoutInput is what the buyer submits at checkout.
type CheckoutInput struct {
	CustomerName    string `json:"customerName" validate:"required"`
	CustomerEmail   string `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string `json:"customerPhone" validate:"required"`
	ShippingAddress string `json:"shippingAddress" validate:"required"`
	PaymentMethod   string `json:"paymentMethod" validate:"omitempty,oneof=cod bank_transfer e_wallet"`
	Note            string `json:"note,omitempty"`
}
