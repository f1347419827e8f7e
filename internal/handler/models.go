package handler

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/skoushik/storefront-orders/internal/entities"
	"github.com/skoushik/storefront-orders/internal/service"
)

// Address is the structured shipping address
type Address struct {
	Street  string `json:"street"`
	City    string `json:"city"`
	State   string `json:"state"`
	Pincode string `json:"pincode"`
	Country string `json:"country,omitempty"`
}

// AddressInput accepts either a free-text string
// ("Street, City, State, Pincode") or a structured address object.
// Any other JSON shape is rejected.
type AddressInput struct {
	value entities.AddressInput
}

func (a *AddressInput) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 {
		return entities.ErrInvalidAddress
	}

	switch data[0] {
	case '"':
		var text string
		if err := json.Unmarshal(data, &text); err != nil {
			return err
		}
		a.value = entities.FreeTextAddress(text)
		return nil
	case '{':
		var rec Address
		if err := json.Unmarshal(data, &rec); err != nil {
			return err
		}
		a.value = entities.StructuredAddress(entities.Address{
			Street:  rec.Street,
			City:    rec.City,
			State:   rec.State,
			Pincode: rec.Pincode,
			Country: rec.Country,
		})
		return nil
	default:
		// null, numbers, arrays and the rest are unsupported shapes
		return entities.ErrInvalidAddress
	}
}

// Item is a single order line
type Item struct {
	ProductID   string  `json:"productId,omitempty"`
	ProductName string  `json:"productName" validate:"required"`
	Quantity    int     `json:"quantity" validate:"required,min=1"`
	Price       float64 `json:"price" validate:"gte=0"`
	Unit        string  `json:"unit" validate:"required"`
}

// CreateOrderRequest is the order intake payload
type CreateOrderRequest struct {
	CustomerName    string       `json:"customerName" validate:"required"`
	CustomerEmail   string       `json:"customerEmail" validate:"required,email"`
	CustomerPhone   string       `json:"customerPhone" validate:"required"`
	ShippingAddress AddressInput `json:"shippingAddress"`
	Items           []Item       `json:"items" validate:"required,min=1,dive"`
	TotalAmount     float64      `json:"totalAmount" validate:"gte=0"`
}

// UpdateOrderRequest patches status and/or notes; omitted fields keep their value
type UpdateOrderRequest struct {
	Status *string `json:"status,omitempty"`
	Notes  *string `json:"notes,omitempty"`
}

// Order is the JSON projection of a persisted order
type Order struct {
	OrderID         string    `json:"orderId"`
	CustomerName    string    `json:"customerName"`
	CustomerEmail   string    `json:"customerEmail"`
	CustomerPhone   string    `json:"customerPhone"`
	ShippingAddress Address   `json:"shippingAddress"`
	Items           []Item    `json:"items"`
	TotalAmount     float64   `json:"totalAmount"`
	TotalItems      int       `json:"totalItems"`
	Status          string    `json:"status"`
	Notes           string    `json:"notes"`
	WhatsappMessage string    `json:"whatsappMessage,omitempty"`
	CreatedAt       time.Time `json:"createdAt"`
	UpdatedAt       time.Time `json:"updatedAt"`
}

// CreateOrderResponse is returned on successful order intake
type CreateOrderResponse struct {
	Success      bool   `json:"success"`
	OrderID      string `json:"orderId"`
	Order        Order  `json:"order"`
	WhatsappLink string `json:"whatsappLink"`
}

// StatsResponse is the dashboard summary
type StatsResponse struct {
	TotalOrders       int     `json:"totalOrders"`
	TotalRevenue      float64 `json:"totalRevenue"`
	OrdersThisMonth   int     `json:"ordersThisMonth"`
	AverageOrderValue float64 `json:"averageOrderValue"`
}

func ItemJSONToEntity(i Item) entities.LineItem {
	return entities.LineItem{
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Price:       i.Price,
		Unit:        i.Unit,
	}
}

func ItemEntityToJSON(i entities.LineItem) Item {
	return Item{
		ProductID:   i.ProductID,
		ProductName: i.ProductName,
		Quantity:    i.Quantity,
		Price:       i.Price,
		Unit:        i.Unit,
	}
}

func CreateRequestToInput(req CreateOrderRequest) service.CreateOrderInput {
	items := make([]entities.LineItem, 0, len(req.Items))
	for _, it := range req.Items {
		items = append(items, ItemJSONToEntity(it))
	}

	return service.CreateOrderInput{
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		CustomerPhone:   req.CustomerPhone,
		ShippingAddress: req.ShippingAddress.value,
		Items:           items,
		TotalAmount:     req.TotalAmount,
	}
}

func OrderEntityToJSON(o entities.Order) Order {
	items := make([]Item, 0, len(o.Items))
	for _, it := range o.Items {
		items = append(items, ItemEntityToJSON(it))
	}

	return Order{
		OrderID:       o.OrderID,
		CustomerName:  o.CustomerName,
		CustomerEmail: o.CustomerEmail,
		CustomerPhone: o.CustomerPhone,
		ShippingAddress: Address{
			Street:  o.ShippingAddress.Street,
			City:    o.ShippingAddress.City,
			State:   o.ShippingAddress.State,
			Pincode: o.ShippingAddress.Pincode,
			Country: o.ShippingAddress.Country,
		},
		Items:           items,
		TotalAmount:     o.TotalAmount,
		TotalItems:      o.TotalItems,
		Status:          string(o.Status),
		Notes:           o.Notes,
		WhatsappMessage: o.WhatsappMessage,
		CreatedAt:       o.CreatedAt,
		UpdatedAt:       o.UpdatedAt,
	}
}

func OrdersEntityToJSON(orders []entities.Order) []Order {
	out := make([]Order, 0, len(orders))
	for _, o := range orders {
		out = append(out, OrderEntityToJSON(o))
	}
	return out
}
