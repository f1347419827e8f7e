package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/skoushik/storefront-orders/internal/entities"
	"github.com/skoushik/storefront-orders/pkg/csvenc"
)

// Report column headers, in output order.
var (
	billWiseHeaders = []string{
		"Order ID", "Date", "Customer Name", "Customer Email", "Customer Phone",
		"Status", "Total Items", "Total Amount (₹)", "City", "State", "Pincode",
	}
	productWiseHeaders = []string{
		"Product Name", "Total Quantity Sold", "Unit", "Total Revenue (₹)", "Number of Orders",
	}
	monthWiseHeaders = []string{
		"Month", "Total Orders", "Total Revenue (₹)", "Average Order Value (₹)",
	}
	yearWiseHeaders = []string{
		"Year", "Total Orders", "Total Revenue (₹)", "Average Order Value (₹)",
	}
)

// BillWiseReport projects every order (cancelled included) onto one CSV row,
// in the order the repository returns them (newest first).
func (s *orderService) BillWiseReport(ctx context.Context) (string, error) {
	orders, err := s.repo.List(ctx, entities.OrderFilter{})
	if err != nil {
		return "", fmt.Errorf("failed to load orders for bill-wise report: %w", err)
	}

	rows := make([]map[string]any, 0, len(orders))
	for _, o := range orders {
		rows = append(rows, map[string]any{
			"Order ID":         o.OrderID,
			"Date":             o.CreatedAt.Format("02/01/2006"),
			"Customer Name":    o.CustomerName,
			"Customer Email":   o.CustomerEmail,
			"Customer Phone":   o.CustomerPhone,
			"Status":           string(o.Status),
			"Total Items":      o.TotalItems,
			"Total Amount (₹)": o.TotalAmount,
			"City":             o.ShippingAddress.City,
			"State":            o.ShippingAddress.State,
			"Pincode":          o.ShippingAddress.Pincode,
		})
	}

	return csvenc.Encode(billWiseHeaders, rows), nil
}

type productSales struct {
	name     string
	unit     string
	quantity int
	revenue  float64
	// counted once per line item encountered, not once per order
	lineItems int
}

// ProductWiseReport groups line items of non-cancelled orders by product
// name, sorted by revenue descending; ties keep encounter order.
func (s *orderService) ProductWiseReport(ctx context.Context) (string, error) {
	orders, err := s.nonCancelledOrders(ctx, "product-wise")
	if err != nil {
		return "", err
	}

	byName := make(map[string]*productSales)
	var encounter []*productSales

	for _, o := range orders {
		for _, it := range o.Items {
			name := it.ProductName
			if name == "" {
				name = "Unknown Product"
			}

			p, ok := byName[name]
			if !ok {
				unit := it.Unit
				if unit == "" {
					unit = "piece"
				}
				p = &productSales{name: name, unit: unit}
				byName[name] = p
				encounter = append(encounter, p)
			}

			p.quantity += it.Quantity
			p.revenue += it.LineTotal()
			p.lineItems++
		}
	}

	sort.SliceStable(encounter, func(i, j int) bool {
		return encounter[i].revenue > encounter[j].revenue
	})

	rows := make([]map[string]any, 0, len(encounter))
	for _, p := range encounter {
		rows = append(rows, map[string]any{
			"Product Name":        p.name,
			"Total Quantity Sold": p.quantity,
			"Unit":                p.unit,
			"Total Revenue (₹)":   p.revenue,
			"Number of Orders":    p.lineItems,
		})
	}

	return csvenc.Encode(productWiseHeaders, rows), nil
}

type periodSales struct {
	orders  int
	revenue float64
}

func (p periodSales) average() string {
	return strconv.FormatFloat(p.revenue/float64(p.orders), 'f', 2, 64)
}

// MonthWiseReport groups non-cancelled orders by calendar month, most recent
// month first.
func (s *orderService) MonthWiseReport(ctx context.Context) (string, error) {
	orders, err := s.nonCancelledOrders(ctx, "month-wise")
	if err != nil {
		return "", err
	}

	type monthKey struct {
		year  int
		month int
	}

	sales := make(map[monthKey]*periodSales)
	for _, o := range orders {
		key := monthKey{year: o.CreatedAt.Year(), month: int(o.CreatedAt.Month())}
		p, ok := sales[key]
		if !ok {
			p = &periodSales{}
			sales[key] = p
		}
		p.orders++
		p.revenue += o.TotalAmount
	}

	keys := make([]monthKey, 0, len(sales))
	for k := range sales {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].year != keys[j].year {
			return keys[i].year > keys[j].year
		}
		return keys[i].month > keys[j].month
	})

	rows := make([]map[string]any, 0, len(keys))
	for _, k := range keys {
		p := sales[k]
		rows = append(rows, map[string]any{
			"Month":                   fmt.Sprintf("%s %d", time.Month(k.month), k.year),
			"Total Orders":            p.orders,
			"Total Revenue (₹)":       p.revenue,
			"Average Order Value (₹)": p.average(),
		})
	}

	return csvenc.Encode(monthWiseHeaders, rows), nil
}

// YearWiseReport groups non-cancelled orders by calendar year, descending.
func (s *orderService) YearWiseReport(ctx context.Context) (string, error) {
	orders, err := s.nonCancelledOrders(ctx, "year-wise")
	if err != nil {
		return "", err
	}

	sales := make(map[int]*periodSales)
	for _, o := range orders {
		year := o.CreatedAt.Year()
		p, ok := sales[year]
		if !ok {
			p = &periodSales{}
			sales[year] = p
		}
		p.orders++
		p.revenue += o.TotalAmount
	}

	years := make([]int, 0, len(sales))
	for y := range sales {
		years = append(years, y)
	}
	sort.Sort(sort.Reverse(sort.IntSlice(years)))

	rows := make([]map[string]any, 0, len(years))
	for _, y := range years {
		p := sales[y]
		rows = append(rows, map[string]any{
			"Year":                    y,
			"Total Orders":            p.orders,
			"Total Revenue (₹)":       p.revenue,
			"Average Order Value (₹)": p.average(),
		})
	}

	return csvenc.Encode(yearWiseHeaders, rows), nil
}

func (s *orderService) nonCancelledOrders(ctx context.Context, report string) ([]entities.Order, error) {
	orders, err := s.repo.List(ctx, entities.OrderFilter{})
	if err != nil {
		return nil, fmt.Errorf("failed to load orders for %s report: %w", report, err)
	}

	qualifying := orders[:0]
	for _, o := range orders {
		if o.Status != entities.StatusCancelled {
			qualifying = append(qualifying, o)
		}
	}
	return qualifying, nil
}
