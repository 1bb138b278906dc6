package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type Role string

const (
	RoleUser  Role = "user"
	RoleAdmin Role = "admin"
)

type PaymentStatus string

const (
	PaymentUnpaid PaymentStatus = "Unpaid"
	PaymentPaid   PaymentStatus = "Paid"
)

type User struct {
	Username     string    `json:"username"`
	PasswordHash string    `json:"passwordHash"`
	Role         Role      `json:"role"`
	DisplayName  string    `json:"displayName"`
	Photo        string    `json:"photo"`
	Address      string    `json:"address"`
	Phone        string    `json:"phone"`
	Language     string    `json:"language,omitempty"`
	CreatedAt    time.Time `json:"timestamp"`
}

// Profile is the user view safe to return to clients.
type Profile struct {
	Username    string    `json:"username"`
	Role        Role      `json:"role"`
	DisplayName string    `json:"displayName"`
	Photo       string    `json:"photo"`
	Address     string    `json:"address"`
	Phone       string    `json:"phone"`
	Language    string    `json:"language,omitempty"`
	CreatedAt   time.Time `json:"timestamp"`
}

func (u User) Profile() Profile {
	return Profile{
		Username:    u.Username,
		Role:        u.Role,
		DisplayName: u.DisplayName,
		Photo:       u.Photo,
		Address:     u.Address,
		Phone:       u.Phone,
		Language:    u.Language,
		CreatedAt:   u.CreatedAt,
	}
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Rating      float64         `json:"rating"`
	ReviewCount int             `json:"reviewCount"`
	ImageURL    string          `json:"imageUrl"`
	Category    string          `json:"category,omitempty"`
}

type CartLine struct {
	Product  Product `json:"product"`
	Quantity int     `json:"quantity"`
}

// Subtotal is the unit price times quantity.
func (l CartLine) Subtotal() decimal.Decimal {
	return l.Product.Price.Mul(decimal.NewFromInt(int64(l.Quantity)))
}

type Order struct {
	ID            int64           `json:"orderId"`
	Items         []CartLine      `json:"items"`
	Total         decimal.Decimal `json:"total"`
	CreatedAt     time.Time       `json:"date"`
	Username      string          `json:"username"`
	PaymentStatus PaymentStatus   `json:"paymentStatus"`
	PaymentMethod *string         `json:"paymentMethod"`
	TransactionID *string         `json:"transactionId"`
}

type PaymentMethod struct {
	ID          int64  `json:"id"`
	Name        string `json:"name"`
	QRCodeImage string `json:"qrCodeImage"`
}
