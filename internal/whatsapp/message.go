// Package whatsapp builds the order confirmation message and its wa.me deep
// link. The message is rendered once when the order is created and stored on
// the order verbatim.
package whatsapp

import (
	"fmt"
	"net/url"
	"strconv"
	"strings"

	"github.com/skoushik/storefront-orders/internal/entities"
)

const messageTemplate = `
*New Order from %s*
Name: %s
Phone: %s
Email: %s

*Shipping Address:*
%s
%s, %s - %s

*Items Ordered:*
%s

*Total Amount: ₹%s*

Please confirm this order.
`

// BuildOrderMessage renders the full order summary for the given store.
func BuildOrderMessage(storeName string, o entities.Order) string {
	msg := fmt.Sprintf(messageTemplate,
		storeName,
		o.CustomerName,
		o.CustomerPhone,
		o.CustomerEmail,
		o.ShippingAddress.Street,
		o.ShippingAddress.City,
		o.ShippingAddress.State,
		o.ShippingAddress.Pincode,
		ItemsSection(o.Items),
		Amount(o.TotalAmount),
	)
	return strings.TrimSpace(msg)
}

// ItemsSection renders one line per line item, in insertion order.
func ItemsSection(items []entities.LineItem) string {
	lines := make([]string, 0, len(items))
	for _, it := range items {
		lines = append(lines, fmt.Sprintf("%s x%d (%s) - ₹%s", it.ProductName, it.Quantity, it.Unit, Amount(it.LineTotal())))
	}
	return strings.Join(lines, "\n")
}

// Link builds the deep link that opens a chat with the store's number and the
// message pre-filled.
func Link(phone, message string) string {
	return "https://wa.me/" + phone + "?text=" + encodeComponent(message)
}

// Amount renders a rupee amount without trailing zeros (200, not 200.000000).
func Amount(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// wa.me expects %20 for spaces in the text payload, not the form encoding "+".
func encodeComponent(s string) string {
	return strings.ReplaceAll(url.QueryEscape(s), "+", "%20")
}
