package order

import "time"

const Kind = "order"

type Status string

const (
	StatusPending   Status = "pending"
	StatusConfirmed Status = "confirmed"
	StatusShipping  Status = "shipping"
	StatusDelivered Status = "delivered"
	StatusCancelled Status = "cancelled"
)

var Statuses = []string{
	string(StatusPending),
	string(StatusConfirmed),
	string(StatusShipping),
	string(StatusDelivered),
	string(StatusCancelled),
}

type PaymentMethod string

const (
	PaymentCOD          PaymentMethod = "cod"
	PaymentBankTransfer PaymentMethod = "bank_transfer"
	PaymentEWallet      PaymentMethod = "e_wallet"
)

var PaymentMethods = []string{string(PaymentCOD), string(PaymentBankTransfer), string(PaymentEWallet)}

type PaymentStatus string

const (
	PaymentUnpaid   PaymentStatus = "unpaid"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

var PaymentStatuses = []string{string(PaymentUnpaid), string(PaymentPaid), string(PaymentRefunded)}

type Line struct {
	ProductID string  `json:"productId" validate:"required"`
	Name      string  `json:"name" validate:"required"`
	Price     float64 `json:"price" validate:"gte=0"`
	Quantity  int     `json:"quantity" validate:"gt=0"`
	Variant   string  `json:"variant,omitempty"`
	Image     string  `json:"image,omitempty"`
}

type Order struct {
	ID              string        `json:"id"`
	InvoiceNo       string        `json:"invoiceNo,omitempty"`
	CustomerName    string        `json:"customerName" validate:"required"`
	CustomerEmail   string        `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string        `json:"customerPhone,omitempty"`
	ShippingAddress string        `json:"shippingAddress" validate:"required"`
	SellerID        string        `json:"sellerId" validate:"required"`
	Lines           []Line        `json:"items" validate:"required,min=1,dive"`
	Total           float64       `json:"total" validate:"gte=0"`
	Status          Status        `json:"status" validate:"oneof=pending confirmed shipping delivered cancelled"`
	PaymentMethod   PaymentMethod `json:"paymentMethod" validate:"oneof=cod bank_transfer e_wallet"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" validate:"oneof=unpaid paid refunded"`
	Note            string        `json:"note,omitempty"`
	CreatedAt       time.Time     `json:"createdAt"`
	UpdatedAt       time.Time     `json:"updatedAt"`
}

// Subtotal sums price times quantity over the lines.
func (o Order) Subtotal() float64 {
	var sum float64
	for _, l := range o.Lines {
		sum += l.Price * float64(l.Quantity)
	}
	return sum
}

func (o Order) Quantity() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}
