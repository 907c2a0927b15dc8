package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/tu-usuario/calzastore/internal/domain"
	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/domain/repository"
)

var _ repository.OrderRepository = (*OrderRepo)(nil)

// OrderRepo implementación del puerto OrderRepository sobre PostgreSQL.
// shipping_info e items se guardan como jsonb, igual que el esquema original.
type OrderRepo struct {
	q Querier
}

// NewOrderRepository construye el adaptador. Pasar pool o tx (Querier).
func NewOrderRepository(q Querier) *OrderRepo {
	return &OrderRepo{q: q}
}

// Create persiste el pedido. Un id repetido retorna domain.ErrDuplicate
// (el flusher lo interpreta como "ya confirmado").
func (r *OrderRepo) Create(ctx context.Context, order *entity.Order) error {
	shipping, err := json.Marshal(order.ShippingInfo)
	if err != nil {
		return fmt.Errorf("serializar shipping_info: %w", err)
	}
	items, err := json.Marshal(order.Items)
	if err != nil {
		return fmt.Errorf("serializar items: %w", err)
	}
	query := `
		INSERT INTO orders (id, order_date, total, status, tracking_number, payment_method, shipping_info, items, sync_state, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err = r.q.Exec(ctx, query,
		order.ID, order.OrderDate, order.Total, order.Status, order.TrackingNumber,
		order.PaymentMethod, shipping, items, order.SyncState, order.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return domain.ErrDuplicate
		}
		return fmt.Errorf("insert order: %w", err)
	}
	return nil
}

// List devuelve todos los pedidos, más recientes primero (order_date DESC).
func (r *OrderRepo) List(ctx context.Context) ([]*entity.Order, error) {
	query := `
		SELECT id, order_date, total, status, tracking_number, payment_method, shipping_info, items, sync_state, created_at
		FROM orders ORDER BY order_date DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	defer rows.Close()
	var list []*entity.Order
	for rows.Next() {
		var o entity.Order
		var shipping, items []byte
		if err := rows.Scan(&o.ID, &o.OrderDate, &o.Total, &o.Status, &o.TrackingNumber,
			&o.PaymentMethod, &shipping, &items, &o.SyncState, &o.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		if err := json.Unmarshal(shipping, &o.ShippingInfo); err != nil {
			return nil, fmt.Errorf("deserializar shipping_info: %w", err)
		}
		if err := json.Unmarshal(items, &o.Items); err != nil {
			return nil, fmt.Errorf("deserializar items: %w", err)
		}
		list = append(list, &o)
	}
	return list, rows.Err()
}
