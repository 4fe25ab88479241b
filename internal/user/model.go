package user

import "time"

const Kind = "user"

const (
	RoleBuyer  = "buyer"
	RoleSeller = "seller"
	RoleAdmin  = "admin"
)

var Roles = []string{RoleBuyer, RoleSeller, RoleAdmin}

const (
	StatusActive = "active"
	StatusBanned = "banned"
)

var Statuses = []string{StatusActive, StatusBanned}

type User struct {
	ID           string    `json:"id"`
	Name         string    `json:"name" validate:"required"`
	Email        string    `json:"email" validate:"required,email"`
	Phone        string    `json:"phone,omitempty"`
	Role         string    `json:"role" validate:"oneof=buyer seller admin"`
	Status       string    `json:"status" validate:"oneof=active banned"`
	SellerID     string    `json:"sellerId,omitempty" validate:"required_if=Role seller"`
	BanReason    string    `json:"banReason,omitempty"`
	Password     string    `json:"password,omitempty"`
	PasswordHash string    `json:"passwordHash,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// Redact strips credentials before a user leaves the service.
func Redact(u User) User {
	u.Password = ""
	u.PasswordHash = ""
	return u
}
