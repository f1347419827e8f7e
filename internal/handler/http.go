package handler

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/skoushik/storefront-orders/internal/entities"
	"github.com/skoushik/storefront-orders/internal/service"
	"github.com/skoushik/storefront-orders/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
)

type OrderService interface {
	CreateOrder(ctx context.Context, in service.CreateOrderInput) (entities.Order, string, error)
	GetOrder(ctx context.Context, orderID string) (entities.Order, error)
	ListOrders(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error)
	OrdersByCustomer(ctx context.Context, email string) ([]entities.Order, error)
	UpdateOrder(ctx context.Context, orderID string, patch entities.OrderPatch) (entities.Order, error)
	Stats(ctx context.Context) (service.DashboardStats, error)
}

type HTTPHandler struct {
	logger   *slog.Logger
	validate *validator.Validate
	svc      OrderService
}

func NewHTTPHandler(logger *slog.Logger, svc OrderService) *HTTPHandler {
	return &HTTPHandler{
		logger:   logger.With(slog.String("handler", "orders")),
		validate: validator.New(),
		svc:      svc,
	}
}

func (h *HTTPHandler) Init(r chi.Router) {
	r.Route("/api/orders", func(r chi.Router) {
		r.Post("/", h.CreateOrder)
		r.Get("/", h.ListOrders)
		r.Get("/stats/dashboard", h.Stats)
		r.Get("/customer/{email}", h.OrdersByCustomer)
		r.Get("/{order_id}", h.GetOrder)
		r.Put("/{order_id}", h.UpdateOrder)
	})
}

// CreateOrder accepts a new order.
// @Summary      Create order
// @Description  Validates the order, persists it and returns the stored order with a WhatsApp confirmation link
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order  body      CreateOrderRequest  true  "Order payload"
// @Success      201  {object}  CreateOrderResponse
// @Failure      400  {object}  utils.ValidationErrorResponse "Validation error"
// @Failure      500  {object}  utils.ErrorResponse "Internal server error"
// @Router       /orders [post]
func (h *HTTPHandler) CreateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	var req CreateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		if errors.Is(err, entities.ErrInvalidAddress) {
			utils.WriteError(w, entities.ErrInvalidAddress.Error(), http.StatusBadRequest)
			return
		}
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	if err := h.validate.Struct(req); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, link, err := h.svc.CreateOrder(ctx, CreateRequestToInput(req))
	if err != nil {
		h.writeDomainError(ctx, w, err, "failed to create order")
		return
	}

	ordersCreated.Inc()
	utils.WriteJSON(w, CreateOrderResponse{
		Success:      true,
		OrderID:      order.OrderID,
		Order:        OrderEntityToJSON(order),
		WhatsappLink: link,
	}, http.StatusCreated)
}

// ListOrders lists orders, optionally filtered.
// @Summary      List orders
// @Description  Returns orders newest first, optionally filtered by status and creation date range
// @Tags         orders
// @Produce      json
// @Param        status     query  string  false  "Order status"
// @Param        startDate  query  string  false  "Created on or after (YYYY-MM-DD or RFC3339)"
// @Param        endDate    query  string  false  "Created on or before (YYYY-MM-DD or RFC3339)"
// @Success      200  {array}   Order
// @Failure      400  {object}  utils.ErrorResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /orders [get]
func (h *HTTPHandler) ListOrders(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	filter := entities.OrderFilter{
		Status: entities.Status(r.URL.Query().Get("status")),
	}

	var err error
	if filter.CreatedAfter, err = parseDate(r.URL.Query().Get("startDate")); err != nil {
		utils.WriteError(w, "invalid startDate", http.StatusBadRequest)
		return
	}
	if filter.CreatedBefore, err = parseDate(r.URL.Query().Get("endDate")); err != nil {
		utils.WriteError(w, "invalid endDate", http.StatusBadRequest)
		return
	}

	orders, err := h.svc.ListOrders(ctx, filter)
	if err != nil {
		h.writeDomainError(ctx, w, err, "failed to list orders")
		return
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

// GetOrder returns a single order.
// @Summary      Get order by id
// @Tags         orders
// @Produce      json
// @Param        order_id  path      string  true  "Order identifier"
// @Success      200  {object}  Order
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /orders/{order_id} [get]
func (h *HTTPHandler) GetOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	if err := h.validate.Var(orderID, "required"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	order, err := h.svc.GetOrder(ctx, orderID)
	if err != nil {
		h.writeDomainError(ctx, w, err, "failed to get order")
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// UpdateOrder patches status and/or notes.
// @Summary      Update order
// @Description  Applies a partial update; omitted fields keep their prior value
// @Tags         orders
// @Accept       json
// @Produce      json
// @Param        order_id  path      string              true  "Order identifier"
// @Param        patch     body      UpdateOrderRequest  true  "Fields to update"
// @Success      200  {object}  Order
// @Failure      400  {object}  utils.ErrorResponse "Unknown status"
// @Failure      404  {object}  utils.ErrorResponse "Order not found"
// @Failure      409  {object}  utils.ErrorResponse "Transition not allowed"
// @Router       /orders/{order_id} [put]
func (h *HTTPHandler) UpdateOrder(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	orderID := chi.URLParam(r, "order_id")

	var req UpdateOrderRequest
	if err := utils.DecodeBody(r, &req); err != nil {
		utils.WriteError(w, "invalid request body", http.StatusBadRequest)
		return
	}

	var patch entities.OrderPatch
	if req.Status != nil {
		status := entities.Status(*req.Status)
		patch.Status = &status
	}
	patch.Notes = req.Notes

	order, err := h.svc.UpdateOrder(ctx, orderID, patch)
	if err != nil {
		h.writeDomainError(ctx, w, err, "failed to update order")
		return
	}

	utils.WriteJSON(w, OrderEntityToJSON(order), http.StatusOK)
}

// OrdersByCustomer lists a customer's orders.
// @Summary      Get orders by customer email
// @Tags         orders
// @Produce      json
// @Param        email  path      string  true  "Customer email"
// @Success      200  {array}   Order
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /orders/customer/{email} [get]
func (h *HTTPHandler) OrdersByCustomer(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	email := chi.URLParam(r, "email")

	if err := h.validate.Var(email, "required,email"); err != nil {
		utils.WriteValidationError(w, err)
		return
	}

	orders, err := h.svc.OrdersByCustomer(ctx, email)
	if err != nil {
		h.writeDomainError(ctx, w, err, "failed to list customer orders")
		return
	}

	utils.WriteJSON(w, OrdersEntityToJSON(orders), http.StatusOK)
}

// Stats returns the dashboard summary.
// @Summary      Dashboard statistics
// @Tags         orders
// @Produce      json
// @Success      200  {object}  StatsResponse
// @Failure      500  {object}  utils.ErrorResponse
// @Router       /orders/stats/dashboard [get]
func (h *HTTPHandler) Stats(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	stats, err := h.svc.Stats(ctx)
	if err != nil {
		h.writeDomainError(ctx, w, err, "failed to compute stats")
		return
	}

	utils.WriteJSON(w, StatsResponse{
		TotalOrders:       stats.TotalOrders,
		TotalRevenue:      stats.TotalRevenue,
		OrdersThisMonth:   stats.OrdersThisMonth,
		AverageOrderValue: stats.AverageOrderValue,
	}, http.StatusOK)
}

func (h *HTTPHandler) writeDomainError(ctx context.Context, w http.ResponseWriter, err error, logMsg string) {
	var ve *entities.ValidationError

	switch {
	case errors.As(err, &ve):
		utils.WriteError(w, ve.Error(), http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidAddress), errors.Is(err, entities.ErrInvalidStatus):
		utils.WriteError(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, entities.ErrInvalidTransition):
		utils.WriteError(w, err.Error(), http.StatusConflict)
	case errors.Is(err, entities.ErrOrderNotFound):
		utils.WriteError(w, "order not found", http.StatusNotFound)
	default:
		h.logger.ErrorContext(ctx, logMsg, slog.Any("error", err))
		utils.WriteError(w, "internal server error", http.StatusInternalServerError)
	}
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	if t, err := time.Parse("2006-01-02", s); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, s)
}
