package models

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// OrderStatus enumerates the order lifecycle states.
type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderPending, OrderConfirmed, OrderProcessing, OrderShipped, OrderDelivered, OrderCancelled:
		return true
	}
	return false
}

// Customer holds the checkout contact details, stored as a JSONB document.
type Customer struct {
	FullName    string `json:"fullName"`
	PhoneNumber string `json:"phoneNumber"`
	City        string `json:"city"`
	Email       string `json:"email,omitempty"`
}

// Value implements driver.Valuer.
func (c Customer) Value() (driver.Value, error) {
	return json.Marshal(c)
}

// Scan implements sql.Scanner.
func (c *Customer) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("customer: unsupported scan type %T", src)
	}
	return json.Unmarshal(b, c)
}

// OrderItem is a line item snapshot. All catalog-derived fields are frozen at
// order creation and never updated when the referenced product changes.
type OrderItem struct {
	ProductID              *uuid.UUID `json:"product,omitempty"`
	ProductName            string     `json:"productName"`
	ProductDescription     string     `json:"productDescription"`
	CategoryName           string     `json:"categoryName"`
	SubCategoryName        string     `json:"subCategoryName"`
	SubCategoryDescription string     `json:"subCategoryDescription"`
	Quantity               int        `json:"quantity"`
	Price                  float64    `json:"price"`
	Discount               float64    `json:"discount"`
}

// OrderItems is the JSONB-stored list of line item snapshots.
type OrderItems []OrderItem

// Value implements driver.Valuer.
func (i OrderItems) Value() (driver.Value, error) {
	if i == nil {
		i = OrderItems{}
	}
	return json.Marshal(i)
}

// Scan implements sql.Scanner.
func (i *OrderItems) Scan(src interface{}) error {
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("order items: unsupported scan type %T", src)
	}
	return json.Unmarshal(b, i)
}

// Order is an immutable record of a checkout. Items own their snapshot data
// by value; only status and notes may change after creation.
type Order struct {
	ID          uuid.UUID   `db:"id" json:"id"`
	OrderNumber string      `db:"order_number" json:"orderNumber"`
	Customer    Customer    `db:"customer" json:"customer"`
	Items       OrderItems  `db:"items" json:"items"`
	TotalAmount float64     `db:"total_amount" json:"totalAmount"`
	Status      OrderStatus `db:"status" json:"status"`
	Notes       string      `db:"notes" json:"notes"`
	CreatedAt   time.Time   `db:"created_at" json:"createdAt"`
	UpdatedAt   time.Time   `db:"updated_at" json:"updatedAt"`
}
