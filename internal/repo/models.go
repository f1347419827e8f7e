package repo

import (
	"database/sql"
	"time"

	"github.com/skoushik/storefront-orders/internal/entities"
)

type Order struct {
	OrderID       string `db:"order_id"`
	CustomerName  string `db:"customer_name"`
	CustomerEmail string `db:"customer_email"`
	CustomerPhone string `db:"customer_phone"`

	Street  sql.NullString `db:"street"`
	City    sql.NullString `db:"city"`
	State   sql.NullString `db:"state"`
	Pincode sql.NullString `db:"pincode"`
	Country sql.NullString `db:"country"`

	TotalAmount     float64        `db:"total_amount"`
	TotalItems      int            `db:"total_items"`
	Status          string         `db:"status"`
	Notes           sql.NullString `db:"notes"`
	WhatsappMessage string         `db:"whatsapp_message"`
	CreatedAt       time.Time      `db:"created_at"`
	UpdatedAt       time.Time      `db:"updated_at"`
}

type Item struct {
	OrderID     string         `db:"order_id"`
	Position    int            `db:"position"`
	ProductID   sql.NullString `db:"product_id"`
	ProductName string         `db:"product_name"`
	Quantity    int            `db:"quantity"`
	Price       float64        `db:"price"`
	Unit        sql.NullString `db:"unit"`
}

func ItemToEntity(i Item) entities.LineItem {
	return entities.LineItem{
		ProductID:   nullStringToString(i.ProductID),
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Price:       i.Price,
		Unit:        nullStringToString(i.Unit),
	}
}

func OrderToEntity(o Order, items []Item) entities.Order {
	order := entities.Order{
		OrderID:       o.OrderID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		ShippingAddress: entities.Address{
			Street:  nullStringToString(o.Street),
			City:    nullStringToString(o.City),
			State:   nullStringToString(o.State),
			Pincode: nullStringToString(o.Pincode),
			Country: nullStringToString(o.Country),
		},
		TotalAmount:     o.TotalAmount,
		TotalItems:      o.TotalItems,
		Status:          entities.Status(o.Status),
		Notes:           nullStringToString(o.Notes),
		WhatsappMessage: o.WhatsappMessage,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}

	if len(items) > 0 {
		order.Items = make([]entities.LineItem, 0, len(items))
		for _, it := range items {
			order.Items = append(order.Items, ItemToEntity(it))
		}
	}

	return order
}

func nullStringToString(ns sql.NullString) string {
	if ns.Valid {
		return ns.String
	}
	return ""
}

func nullString(s string) sql.NullString {
	if s == "" {
		return sql.NullString{}
	}
	return sql.NullString{String: s, Valid: true}
}
