package repository

import (
	"context"

	"github.com/tu-usuario/calzastore/internal/domain/entity"
)

// OrderRepository define el puerto de persistencia para Order.
type OrderRepository interface {
	Create(ctx context.Context, order *entity.Order) error
	// List devuelve todos los pedidos, más recientes primero (order_date DESC).
	List(ctx context.Context) ([]*entity.Order, error)
}
