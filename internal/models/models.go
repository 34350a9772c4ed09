package models

import (
	"encoding/json"
	"time"
)

const (
	RoleCustomer = 0
	RoleAdmin    = 1
)

const (
	StatusNotProcessed = "Not Processed"
	StatusProcessing   = "Processing"
	StatusShipped      = "Shipped"
	StatusDelivered    = "Delivered"
	StatusCancelled    = "Cancelled"
)

// OrderStatuses is the full set of accepted order states. There is no
// transition table: an admin may set any member from any other member.
var OrderStatuses = []string{
	StatusNotProcessed,
	StatusProcessing,
	StatusShipped,
	StatusDelivered,
	StatusCancelled,
}

func ValidOrderStatus(s string) bool {
	for _, v := range OrderStatuses {
		if v == s {
			return true
		}
	}
	return false
}

type User struct {
	ID           uint      `gorm:"primaryKey;autoIncrement"  json:"id"`
	Name         string    `gorm:"not null"                  json:"name"`
	Email        string    `gorm:"uniqueIndex;not null"      json:"email"`
	PasswordHash string    `gorm:"not null"                  json:"-"`
	Phone        string    `json:"phone"`
	Address      string    `json:"address"`
	Answer       string    `gorm:"not null"                  json:"-"`
	Role         int       `gorm:"not null;default:0"        json:"role"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

type Category struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"not null"                 json:"name"`
	Slug      string    `gorm:"index;not null"           json:"slug"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

type Product struct {
	ID          uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Name        string    `gorm:"not null"                 json:"name"`
	Slug        string    `gorm:"index;not null"           json:"slug"`
	Description string    `gorm:"not null"                 json:"description"`
	Price       float64   `gorm:"not null"                 json:"price"`
	Quantity    int       `gorm:"not null"                 json:"quantity"`
	Shipping    bool      `json:"shipping"`
	CategoryID  uint      `gorm:"index;not null"           json:"category_id"`
	Category    *Category `json:"category,omitempty"`
	Photo       []byte    `gorm:"type:bytea"               json:"-"`
	PhotoType   string    `json:"-"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ProductColumns is the column set used by every read path except the
// photo endpoint, so list payloads never carry the binary blob.
var ProductColumns = []string{
	"id", "name", "slug", "description", "price", "quantity",
	"shipping", "category_id", "created_at", "updated_at",
}

type Order struct {
	ID        uint            `gorm:"primaryKey;autoIncrement" json:"id"`
	BuyerID   uint            `gorm:"index;not null"           json:"buyer_id"`
	Buyer     *User           `json:"buyer,omitempty"`
	Items     []OrderItem     `gorm:"foreignKey:OrderID"       json:"items"`
	Payment   json.RawMessage `gorm:"type:jsonb"               json:"payment"`
	Status    string          `gorm:"not null;default:'Not Processed'" json:"status"`
	CreatedAt time.Time       `json:"created_at"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// OrderItem keeps the price the buyer submitted at checkout, which is
// not re-read from the catalog afterwards.
type OrderItem struct {
	ID        uint    `gorm:"primaryKey;autoIncrement" json:"id"`
	OrderID   uint    `gorm:"index;not null"           json:"order_id"`
	ProductID uint    `gorm:"not null"                 json:"product_id"`
	Price     float64 `gorm:"not null"                 json:"price"`
}
