package repo

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/skoushik/storefront-orders/internal/entities"
	"github.com/skoushik/storefront-orders/pkg/trm"

	sq "github.com/Masterminds/squirrel"
	"github.com/jmoiron/sqlx"
	"github.com/lib/pq"
)

const pgUniqueViolation = "23505"

var orderColumns = []string{
	"order_id", "customer_name", "customer_email", "customer_phone",
	"street", "city", "state", "pincode", "country",
	"total_amount", "total_items", "status", "notes",
	"whatsapp_message", "created_at", "updated_at",
}

var itemColumns = []string{
	"order_id", "position", "product_id", "product_name", "quantity", "price", "unit",
}

type postgresRepo struct {
	db *sqlx.DB
	qb sq.StatementBuilderType
}

func NewPostgresRepo(db *sqlx.DB) *postgresRepo {
	return &postgresRepo{
		db: db,
		qb: sq.StatementBuilder.PlaceholderFormat(sq.Dollar),
	}
}

// Create persists the order and its line items. A duplicate order id surfaces
// as entities.ErrOrderIDTaken so the caller can regenerate.
func (r *postgresRepo) Create(ctx context.Context, o entities.Order) error {
	query, args := r.qb.Insert("orders").
		Columns(orderColumns...).
		Values(
			o.OrderID, o.CustomerName, o.CustomerEmail, o.CustomerPhone,
			nullString(o.ShippingAddress.Street), nullString(o.ShippingAddress.City),
			nullString(o.ShippingAddress.State), nullString(o.ShippingAddress.Pincode),
			nullString(o.ShippingAddress.Country),
			o.TotalAmount, o.TotalItems, string(o.Status), nullString(o.Notes),
			o.WhatsappMessage, o.CreatedAt, o.UpdatedAt,
		).
		MustSql()

	if _, err := r.execContext(ctx, query, args...); err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == pgUniqueViolation {
			return entities.ErrOrderIDTaken
		}
		return fmt.Errorf("failed to insert order: %w", err)
	}

	if len(o.Items) == 0 {
		return nil
	}

	q := r.qb.Insert("order_items").Columns(itemColumns...)
	for pos, it := range o.Items {
		q = q.Values(o.OrderID, pos, nullString(it.ProductID), it.ProductName, it.Quantity, it.Price, nullString(it.Unit))
	}

	query, args = q.MustSql()
	if _, err := r.execContext(ctx, query, args...); err != nil {
		return fmt.Errorf("failed to insert order items: %w", err)
	}
	return nil
}

func (r *postgresRepo) GetByID(ctx context.Context, orderID string) (entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"order_id": orderID}).
		MustSql()

	var order Order
	err := r.getContext(ctx, &order, query, args...)
	if errors.Is(err, sql.ErrNoRows) {
		return entities.Order{}, entities.ErrOrderNotFound
	}
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to get order: %w", err)
	}

	itemsByOrder, err := r.loadItems(ctx, []string{orderID})
	if err != nil {
		return entities.Order{}, err
	}

	return OrderToEntity(order, itemsByOrder[orderID]), nil
}

// List returns orders matching the filter, newest first.
func (r *postgresRepo) List(ctx context.Context, filter entities.OrderFilter) ([]entities.Order, error) {
	q := r.qb.Select(orderColumns...).
		From("orders").
		OrderBy("created_at DESC")

	if filter.Status != "" {
		q = q.Where(sq.Eq{"status": string(filter.Status)})
	}
	if !filter.CreatedAfter.IsZero() {
		q = q.Where(sq.GtOrEq{"created_at": filter.CreatedAfter})
	}
	if !filter.CreatedBefore.IsZero() {
		q = q.Where(sq.LtOrEq{"created_at": filter.CreatedBefore})
	}

	query, args := q.MustSql()
	return r.selectOrders(ctx, query, args)
}

// ListByCustomerEmail returns the customer's orders, newest first.
func (r *postgresRepo) ListByCustomerEmail(ctx context.Context, email string) ([]entities.Order, error) {
	query, args := r.qb.Select(orderColumns...).
		From("orders").
		Where(sq.Eq{"customer_email": email}).
		OrderBy("created_at DESC").
		MustSql()

	return r.selectOrders(ctx, query, args)
}

// Update applies the patch to the order; nil patch fields retain their prior
// value, updated_at is always refreshed.
func (r *postgresRepo) Update(ctx context.Context, orderID string, patch entities.OrderPatch) (entities.Order, error) {
	q := r.qb.Update("orders").
		Set("updated_at", sq.Expr("now()")).
		Where(sq.Eq{"order_id": orderID})

	if patch.Status != nil {
		q = q.Set("status", string(*patch.Status))
	}
	if patch.Notes != nil {
		q = q.Set("notes", nullString(*patch.Notes))
	}

	query, args := q.MustSql()
	res, err := r.execContext(ctx, query, args...)
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to update order: %w", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return entities.Order{}, fmt.Errorf("failed to read update result: %w", err)
	}
	if affected == 0 {
		return entities.Order{}, entities.ErrOrderNotFound
	}

	return r.GetByID(ctx, orderID)
}

func (r *postgresRepo) selectOrders(ctx context.Context, query string, args []any) ([]entities.Order, error) {
	var orders []Order
	if err := r.selectContext(ctx, &orders, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select orders: %w", err)
	}

	if len(orders) == 0 {
		return []entities.Order{}, nil
	}

	ids := make([]string, len(orders))
	for i, order := range orders {
		ids[i] = order.OrderID
	}

	itemsByOrder, err := r.loadItems(ctx, ids)
	if err != nil {
		return nil, err
	}

	result := make([]entities.Order, 0, len(orders))
	for _, order := range orders {
		result = append(result, OrderToEntity(order, itemsByOrder[order.OrderID]))
	}
	return result, nil
}

// loadItems fetches line items for the given orders in one query, preserving
// each order's insertion order via the position column.
func (r *postgresRepo) loadItems(ctx context.Context, orderIDs []string) (map[string][]Item, error) {
	query, args := r.qb.Select(itemColumns...).
		From("order_items").
		Where(sq.Eq{"order_id": orderIDs}).
		OrderBy("order_id", "position").
		MustSql()

	var items []Item
	if err := r.selectContext(ctx, &items, query, args...); err != nil {
		return nil, fmt.Errorf("failed to select order items: %w", err)
	}

	byOrder := make(map[string][]Item, len(orderIDs))
	for _, it := range items {
		byOrder[it.OrderID] = append(byOrder[it.OrderID], it)
	}
	return byOrder, nil
}

func (r *postgresRepo) execContext(ctx context.Context, query string, args ...any) (sql.Result, error) {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.ExecContext(ctx, query, args...)
	}
	return r.db.ExecContext(ctx, query, args...)
}

func (r *postgresRepo) getContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.GetContext(ctx, dest, query, args...)
	}
	return r.db.GetContext(ctx, dest, query, args...)
}

func (r *postgresRepo) selectContext(ctx context.Context, dest any, query string, args ...any) error {
	if tx := trm.ExtractTx(ctx); tx != nil {
		return tx.SelectContext(ctx, dest, query, args...)
	}
	return r.db.SelectContext(ctx, dest, query, args...)
}
