package whatsapp_test

import (
	"strings"
	"testing"
	"time"

	"github.com/skoushik/storefront-orders/internal/entities"
	"github.com/skoushik/storefront-orders/internal/whatsapp"

	"github.com/stretchr/testify/assert"
)

func testOrder() entities.Order {
	return entities.Order{
		OrderID:       "ORD-123456ABC",
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "9876500001",
		ShippingAddress: entities.Address{
			Street:  "5 MG Road",
			City:    "Bengaluru",
			State:   "Karnataka",
			Pincode: "560001",
			Country: "India",
		},
		Items: []entities.LineItem{
			{ProductName: "A", Quantity: 2, Price: 50, Unit: "kg"},
			{ProductName: "B", Quantity: 1, Price: 100, Unit: "pc"},
		},
		TotalAmount: 200,
		TotalItems:  2,
		Status:      entities.StatusPending,
		CreatedAt:   time.Now(),
	}
}

func TestItemsSection(t *testing.T) {
	got := whatsapp.ItemsSection(testOrder().Items)
	assert.Equal(t, "A x2 (kg) - ₹100\nB x1 (pc) - ₹100", got)
}

func TestBuildOrderMessage(t *testing.T) {
	msg := whatsapp.BuildOrderMessage("Maadhuri Shop", testOrder())

	assert.True(t, strings.HasPrefix(msg, "*New Order from Maadhuri Shop*"))
	assert.True(t, strings.HasSuffix(msg, "Please confirm this order."))
	assert.Contains(t, msg, "Name: Asha Rao")
	assert.Contains(t, msg, "Phone: 9876500001")
	assert.Contains(t, msg, "Email: asha@example.com")
	assert.Contains(t, msg, "5 MG Road\nBengaluru, Karnataka - 560001")
	assert.Contains(t, msg, "A x2 (kg) - ₹100\nB x1 (pc) - ₹100")
	assert.Contains(t, msg, "Total Amount: ₹200")
}

func TestBuildOrderMessage_FractionalAmount(t *testing.T) {
	order := testOrder()
	order.TotalAmount = 249.5

	msg := whatsapp.BuildOrderMessage("Maadhuri Shop", order)
	assert.Contains(t, msg, "Total Amount: ₹249.5")
}

func TestLink(t *testing.T) {
	link := whatsapp.Link("919876543210", "hello world & more")

	assert.True(t, strings.HasPrefix(link, "https://wa.me/919876543210?text="))
	assert.Contains(t, link, "hello%20world%20%26%20more")
	assert.NotContains(t, link, "+")
}
