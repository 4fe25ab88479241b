package seller

import "time"

const Kind = "seller"

const (
	StatusPending   = "pending"
	StatusActive    = "active"
	StatusSuspended = "suspended"
)

var Statuses = []string{StatusPending, StatusActive, StatusSuspended}

const (
	TypeIndividual = "individual"
	TypeBusiness   = "business"
)

var Types = []string{TypeIndividual, TypeBusiness}

type Seller struct {
	ID            string    `json:"id"`
	ShopName      string    `json:"shopName" validate:"required,max=120"`
	OwnerName     string    `json:"ownerName" validate:"required"`
	Email         string    `json:"email" validate:"required,email"`
	Phone         string    `json:"phone,omitempty"`
	Address       string    `json:"address,omitempty"`
	Type          string    `json:"type" validate:"oneof=individual business"`
	Status        string    `json:"status" validate:"oneof=pending active suspended"`
	Rating        float64   `json:"rating" validate:"gte=0,lte=5"`
	Revenue       float64   `json:"revenue" validate:"gte=0"`
	ProductCount  int       `json:"productCount" validate:"gte=0"`
	SuspendReason string    `json:"suspendReason,omitempty"`
	JoinedAt      time.Time `json:"joinedAt"`
}
