package entities

import (
	"fmt"
	"math/rand"
	"time"
)

type LineItem struct {
	ProductID   string
	ProductName string
	Quantity    int
	Price       float64
	Unit        string
}

// LineTotal is the amount charged for this line (quantity * unit price).
func (i LineItem) LineTotal() float64 {
	return float64(i.Quantity) * i.Price
}

type Order struct {
	OrderID       string
	CustomerName  string
	CustomerEmail string
	CustomerPhone string

	ShippingAddress Address

	// Items keeps insertion order, message formatting depends on it.
	Items []LineItem

	TotalAmount float64
	TotalItems  int

	Status Status
	Notes  string

	// WhatsappMessage is rendered once at creation time and stored verbatim.
	WhatsappMessage string

	CreatedAt time.Time
	UpdatedAt time.Time
}

const orderIDAlphabet = "0123456789ABCDEFGHIJKLMNOPQRSTUVWXYZ"

// NewOrderID produces a human-readable order identifier of the form
// ORD-<last 6 digits of epoch ms><3 uppercase base-36 chars>. Uniqueness is
// guaranteed by the storage constraint, not by this function.
func NewOrderID(now time.Time) string {
	ts := now.UnixMilli() % 1_000_000

	token := make([]byte, 3)
	for i := range token {
		token[i] = orderIDAlphabet[rand.Intn(len(orderIDAlphabet))]
	}

	return fmt.Sprintf("ORD-%06d%s", ts, token)
}

// OrderFilter narrows repository listings. Zero values mean no constraint.
type OrderFilter struct {
	Status        Status
	CreatedAfter  time.Time
	CreatedBefore time.Time
}

// OrderPatch carries a partial update; nil fields retain their prior value.
type OrderPatch struct {
	Status *Status
	Notes  *string
}
