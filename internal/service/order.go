package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/skoushik/storefront-orders/internal/entities"
	"github.com/skoushik/storefront-orders/internal/whatsapp"
	"github.com/skoushik/storefront-orders/pkg/trm"
)

// maxIDAttempts bounds the regenerate-on-conflict loop; uniqueness itself is
// owned by the orders.order_id constraint.
const maxIDAttempts = 3

type OrderRepo interface {
	Create(ctx context.Context, o entities.Order) error
	GetByID(ctx context.Context, orderID string) (entities.Order, error)
	List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error)
	ListByCustomerEmail(ctx context.Context, email string) ([]entities.Order, error)
	Update(ctx context.Context, orderID string, patch entities.OrderPatch) (entities.Order, error)
}

type Notifier interface {
	NotifyOrderCreated(order entities.Order)
}

type Cache interface {
	Get(key string) (entities.Order, bool)
	Set(key string, value entities.Order)
}

// StoreConfig identifies the storefront in outbound messages.
type StoreConfig struct {
	Name          string
	WhatsAppPhone string
}

type orderService struct {
	logger    *slog.Logger
	txManager trm.Manager
	repo      OrderRepo
	cache     Cache
	notifier  Notifier
	store     StoreConfig
}

func NewOrderService(logger *slog.Logger, txManager trm.Manager, repo OrderRepo, cache Cache, notifier Notifier, store StoreConfig) *orderService {
	return &orderService{
		logger:    logger.With(slog.String("service", "order")),
		txManager: txManager,
		repo:      repo,
		cache:     cache,
		notifier:  notifier,
		store:     store,
	}
}

type CreateOrderInput struct {
	CustomerName    string
	CustomerEmail   string
	CustomerPhone   string
	ShippingAddress entities.AddressInput
	Items           []entities.LineItem
	TotalAmount     float64
}

// CreateOrder validates and persists a new order and returns it together with
// the wa.me confirmation link. Notification dispatch happens in the
// background after the order is committed.
func (s *orderService) CreateOrder(ctx context.Context, in CreateOrderInput) (entities.Order, string, error) {
	in.CustomerName = strings.TrimSpace(in.CustomerName)
	in.CustomerEmail = strings.ToLower(strings.TrimSpace(in.CustomerEmail))
	in.CustomerPhone = strings.TrimSpace(in.CustomerPhone)

	if err := validateCreateInput(in); err != nil {
		return entities.Order{}, "", err
	}

	addr, err := in.ShippingAddress.Normalize()
	if err != nil {
		return entities.Order{}, "", err
	}

	now := time.Now().UTC()
	order := entities.Order{
		CustomerName:    in.CustomerName,
		CustomerEmail:   in.CustomerEmail,
		CustomerPhone:   in.CustomerPhone,
		ShippingAddress: addr,
		Items:           in.Items,
		TotalAmount:     in.TotalAmount,
		TotalItems:      len(in.Items),
		Status:          entities.StatusPending,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	order.WhatsappMessage = whatsapp.BuildOrderMessage(s.store.Name, order)
	link := whatsapp.Link(s.store.WhatsAppPhone, order.WhatsappMessage)

	var createErr error
	for attempt := 0; attempt < maxIDAttempts; attempt++ {
		order.OrderID = entities.NewOrderID(time.Now())
		createErr = s.txManager.Do(ctx, func(ctx context.Context) error {
			return s.repo.Create(ctx, order)
		})
		if !errors.Is(createErr, entities.ErrOrderIDTaken) {
			break
		}
		s.logger.Warn("order id collision, regenerating", slog.String("order_id", order.OrderID))
	}
	if createErr != nil {
		return entities.Order{}, "", fmt.Errorf("failed to create order: %w", createErr)
	}

	s.cache.Set(order.OrderID, order)
	s.notifier.NotifyOrderCreated(order)

	s.logger.Info("order created",
		slog.String("order_id", order.OrderID),
		slog.Int("items", order.TotalItems))

	return order, link, nil
}

func validateCreateInput(in CreateOrderInput) error {
	var missing []string
	if in.CustomerName == "" {
		missing = append(missing, "customerName")
	}
	if in.CustomerEmail == "" {
		missing = append(missing, "customerEmail")
	}
	if in.CustomerPhone == "" {
		missing = append(missing, "customerPhone")
	}
	if len(in.Items) == 0 {
		missing = append(missing, "items")
	}
	if len(missing) > 0 {
		return &entities.ValidationError{Fields: missing}
	}
	return nil
}

func (s *orderService) GetOrder(ctx context.Context, orderID string) (entities.Order, error) {
	if order, ok := s.cache.Get(orderID); ok {
		return order, nil
	}

	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return entities.Order{}, err
	}

	s.cache.Set(orderID, order)
	return order, nil
}

func (s *orderService) ListOrders(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	if filter.Status != "" && !filter.Status.Valid() {
		return nil, entities.ErrInvalidStatus
	}
	return s.repo.List(ctx, filter)
}

func (s *orderService) OrdersByCustomer(ctx context.Context, email string) ([]entities.Order, error) {
	return s.repo.ListByCustomerEmail(ctx, strings.ToLower(strings.TrimSpace(email)))
}

// UpdateOrder applies a status/notes patch. Status changes must follow
// pending → confirmed → processing → shipped → delivered, with cancelled
// reachable from any non-terminal state.
func (s *orderService) UpdateOrder(ctx context.Context, orderID string, patch entities.OrderPatch) (entities.Order, error) {
	if patch.Status != nil {
		if !patch.Status.Valid() {
			return entities.Order{}, entities.ErrInvalidStatus
		}

		current, err := s.GetOrder(ctx, orderID)
		if err != nil {
			return entities.Order{}, err
		}
		if !current.Status.CanTransition(*patch.Status) {
			return entities.Order{}, fmt.Errorf("%w: %s -> %s",
				entities.ErrInvalidTransition, current.Status, *patch.Status)
		}
	}

	updated, err := s.repo.Update(ctx, orderID, patch)
	if err != nil {
		return entities.Order{}, err
	}

	s.cache.Set(orderID, updated)
	s.logger.Info("order updated", slog.String("order_id", orderID))
	return updated, nil
}

// DashboardStats summarizes the whole order history.
type DashboardStats struct {
	TotalOrders       int
	TotalRevenue      float64
	OrdersThisMonth   int
	AverageOrderValue float64
}

func (s *orderService) Stats(ctx context.Context) (DashboardStats, error) {
	orders, err := s.repo.List(ctx, entities.OrderFilter{})
	if err != nil {
		return DashboardStats{}, fmt.Errorf("failed to load orders for stats: %w", err)
	}

	now := time.Now().UTC()
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)

	stats := DashboardStats{TotalOrders: len(orders)}
	for _, o := range orders {
		stats.TotalRevenue += o.TotalAmount
		if !o.CreatedAt.Before(monthStart) {
			stats.OrdersThisMonth++
		}
	}
	if stats.TotalOrders > 0 {
		stats.AverageOrderValue = stats.TotalRevenue / float64(stats.TotalOrders)
	}

	return stats, nil
}
