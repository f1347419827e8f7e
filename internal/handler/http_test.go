package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/skoushik/storefront-orders/internal/entities"
	"github.com/skoushik/storefront-orders/internal/handler"
	"github.com/skoushik/storefront-orders/internal/service"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeOrderService struct {
	createFn func(ctx context.Context, in service.CreateOrderInput) (entities.Order, string, error)
	getFn    func(ctx context.Context, orderID string) (entities.Order, error)
	listFn   func(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error)
	byEmail  func(ctx context.Context, email string) ([]entities.Order, error)
	updateFn func(ctx context.Context, orderID string, patch entities.OrderPatch) (entities.Order, error)
	statsFn  func(ctx context.Context) (service.DashboardStats, error)
}

func (f *fakeOrderService) CreateOrder(ctx context.Context, in service.CreateOrderInput) (entities.Order, string, error) {
	return f.createFn(ctx, in)
}

func (f *fakeOrderService) GetOrder(ctx context.Context, orderID string) (entities.Order, error) {
	return f.getFn(ctx, orderID)
}

func (f *fakeOrderService) ListOrders(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	return f.listFn(ctx, filter)
}

func (f *fakeOrderService) OrdersByCustomer(ctx context.Context, email string) ([]entities.Order, error) {
	return f.byEmail(ctx, email)
}

func (f *fakeOrderService) UpdateOrder(ctx context.Context, orderID string, patch entities.OrderPatch) (entities.Order, error) {
	return f.updateFn(ctx, orderID, patch)
}

func (f *fakeOrderService) Stats(ctx context.Context) (service.DashboardStats, error) {
	return f.statsFn(ctx)
}

func newRouter(svc handler.OrderService) *chi.Mux {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	handler.NewHTTPHandler(logger, svc).Init(r)
	return r
}

func sampleOrder() entities.Order {
	now := time.Date(2025, 4, 1, 12, 0, 0, 0, time.UTC)
	return entities.Order{
		OrderID:       "ORD-123456ABC",
		CustomerName:  "Asha Rao",
		CustomerEmail: "asha@example.com",
		CustomerPhone: "9876500001",
		ShippingAddress: entities.Address{
			Street: "5 MG Road", City: "Bengaluru", State: "Karnataka",
			Pincode: "560001", Country: "India",
		},
		Items: []entities.LineItem{
			{ProductName: "Rice 5kg", Quantity: 2, Price: 100, Unit: "bag"},
		},
		TotalAmount: 200,
		TotalItems:  1,
		Status:      entities.StatusPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

const createBody = `{
	"customerName": "Asha Rao",
	"customerEmail": "asha@example.com",
	"customerPhone": "9876500001",
	"shippingAddress": "5 MG Road, Bengaluru, Karnataka, 560001",
	"items": [{"productName": "Rice 5kg", "quantity": 2, "price": 100, "unit": "bag"}],
	"totalAmount": 200
}`

func TestCreateOrderHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeOrderService{
			createFn: func(_ context.Context, in service.CreateOrderInput) (entities.Order, string, error) {
				assert.Equal(t, "Asha Rao", in.CustomerName)
				require.Len(t, in.Items, 1)
				assert.Equal(t, 2, in.Items[0].Quantity)
				return sampleOrder(), "https://wa.me/919876543210?text=hello", nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(createBody))
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)

		var resp handler.CreateOrderResponse
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
		assert.True(t, resp.Success)
		assert.Equal(t, "ORD-123456ABC", resp.OrderID)
		assert.Equal(t, "https://wa.me/919876543210?text=hello", resp.WhatsappLink)
		assert.Equal(t, "pending", resp.Order.Status)
	})

	t.Run("structured address object", func(t *testing.T) {
		body := strings.Replace(createBody,
			`"5 MG Road, Bengaluru, Karnataka, 560001"`,
			`{"street": "5 MG Road", "city": "Bengaluru", "state": "Karnataka", "pincode": "560001"}`, 1)

		svc := &fakeOrderService{
			createFn: func(_ context.Context, in service.CreateOrderInput) (entities.Order, string, error) {
				addr, err := in.ShippingAddress.Normalize()
				require.NoError(t, err)
				assert.Equal(t, "Bengaluru", addr.City)
				return sampleOrder(), "link", nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(body))
		newRouter(svc).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusCreated, rec.Code)
	})

	t.Run("malformed json", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader("{"))
		newRouter(&fakeOrderService{}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unsupported address shape", func(t *testing.T) {
		body := strings.Replace(createBody,
			`"5 MG Road, Bengaluru, Karnataka, 560001"`, `42`, 1)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(body))
		newRouter(&fakeOrderService{}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("missing required fields", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(`{"customerName": "Asha"}`))
		newRouter(&fakeOrderService{}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("service failure", func(t *testing.T) {
		svc := &fakeOrderService{
			createFn: func(context.Context, service.CreateOrderInput) (entities.Order, string, error) {
				return entities.Order{}, "", errors.New("db down")
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/api/orders/", strings.NewReader(createBody))
		newRouter(svc).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestGetOrderHandler(t *testing.T) {
	t.Run("found", func(t *testing.T) {
		svc := &fakeOrderService{
			getFn: func(_ context.Context, orderID string) (entities.Order, error) {
				assert.Equal(t, "ORD-123456ABC", orderID)
				return sampleOrder(), nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/ORD-123456ABC", nil)
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var order handler.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
		assert.Equal(t, "ORD-123456ABC", order.OrderID)
		assert.Equal(t, "Bengaluru", order.ShippingAddress.City)
	})

	t.Run("not found", func(t *testing.T) {
		svc := &fakeOrderService{
			getFn: func(context.Context, string) (entities.Order, error) {
				return entities.Order{}, entities.ErrOrderNotFound
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/missing", nil)
		newRouter(svc).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})
}

func TestListOrdersHandler(t *testing.T) {
	t.Run("passes filter through", func(t *testing.T) {
		svc := &fakeOrderService{
			listFn: func(_ context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
				assert.Equal(t, entities.StatusPending, filter.Status)
				assert.Equal(t, 2025, filter.CreatedAfter.Year())
				return []entities.Order{sampleOrder()}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/?status=pending&startDate=2025-01-01", nil)
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var orders []handler.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &orders))
		assert.Len(t, orders, 1)
	})

	t.Run("invalid date", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/?startDate=yesterday", nil)
		newRouter(&fakeOrderService{}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("unknown status", func(t *testing.T) {
		svc := &fakeOrderService{
			listFn: func(context.Context, entities.OrderFilter) ([]entities.Order, error) {
				return nil, entities.ErrInvalidStatus
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/?status=archived", nil)
		newRouter(svc).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestUpdateOrderHandler(t *testing.T) {
	t.Run("status and notes", func(t *testing.T) {
		svc := &fakeOrderService{
			updateFn: func(_ context.Context, orderID string, patch entities.OrderPatch) (entities.Order, error) {
				assert.Equal(t, "ORD-123456ABC", orderID)
				require.NotNil(t, patch.Status)
				assert.Equal(t, entities.StatusConfirmed, *patch.Status)
				require.NotNil(t, patch.Notes)
				assert.Equal(t, "ring the bell", *patch.Notes)

				order := sampleOrder()
				order.Status = entities.StatusConfirmed
				order.Notes = *patch.Notes
				return order, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/orders/ORD-123456ABC",
			strings.NewReader(`{"status": "confirmed", "notes": "ring the bell"}`))
		newRouter(svc).ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var order handler.Order
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &order))
		assert.Equal(t, "confirmed", order.Status)
	})

	t.Run("forbidden transition", func(t *testing.T) {
		svc := &fakeOrderService{
			updateFn: func(context.Context, string, entities.OrderPatch) (entities.Order, error) {
				return entities.Order{}, entities.ErrInvalidTransition
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/orders/ORD-123456ABC",
			strings.NewReader(`{"status": "pending"}`))
		newRouter(svc).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("notes only keeps status nil", func(t *testing.T) {
		svc := &fakeOrderService{
			updateFn: func(_ context.Context, _ string, patch entities.OrderPatch) (entities.Order, error) {
				assert.Nil(t, patch.Status)
				require.NotNil(t, patch.Notes)
				return sampleOrder(), nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPut, "/api/orders/ORD-123456ABC",
			strings.NewReader(`{"notes": "leave at the gate"}`))
		newRouter(svc).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestOrdersByCustomerHandler(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		svc := &fakeOrderService{
			byEmail: func(_ context.Context, email string) ([]entities.Order, error) {
				assert.Equal(t, "asha@example.com", email)
				return []entities.Order{sampleOrder()}, nil
			},
		}

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/customer/asha@example.com", nil)
		newRouter(svc).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("invalid email", func(t *testing.T) {
		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodGet, "/api/orders/customer/not-an-email", nil)
		newRouter(&fakeOrderService{}).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestStatsHandler(t *testing.T) {
	svc := &fakeOrderService{
		statsFn: func(context.Context) (service.DashboardStats, error) {
			return service.DashboardStats{
				TotalOrders:       4,
				TotalRevenue:      1000,
				OrdersThisMonth:   2,
				AverageOrderValue: 250,
			}, nil
		},
	}

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/orders/stats/dashboard", nil)
	newRouter(svc).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp handler.StatsResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, 4, resp.TotalOrders)
	assert.Equal(t, float64(250), resp.AverageOrderValue)
}
