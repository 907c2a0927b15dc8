package dto

import (
	"time"

	"github.com/tu-usuario/calzastore/internal/domain/entity"
)

// CreateOrderRequest cuerpo del checkout: la foto del carrito más los datos
// de envío y el método de pago (solo forma, sin pasarela real). Total es
// puntero para distinguir "no enviado" (se acepta el recalculado) de un cero
// explícito (se valida como cualquier otro valor).
type CreateOrderRequest struct {
	Items         []entity.CartItem   `json:"items"`
	Total         *int                `json:"total"`
	ShippingInfo  entity.ShippingInfo `json:"shippingInfo"`
	PaymentMethod string              `json:"paymentMethod"`
}

// OrderResponse representación JSON de un pedido almacenado.
type OrderResponse struct {
	ID             string              `json:"id"`
	OrderDate      time.Time           `json:"orderDate"`
	Items          []entity.CartItem   `json:"items"`
	Total          int                 `json:"total"`
	Status         string              `json:"status"`
	ShippingInfo   entity.ShippingInfo `json:"shippingInfo"`
	PaymentMethod  string              `json:"paymentMethod"`
	TrackingNumber string              `json:"trackingNumber"`
	SyncState      string              `json:"syncState"`
}

// ToOrderResponse convierte la entidad a su representación de salida.
func ToOrderResponse(o *entity.Order) *OrderResponse {
	if o == nil {
		return nil
	}
	return &OrderResponse{
		ID:             o.ID,
		OrderDate:      o.OrderDate,
		Items:          o.Items,
		Total:          o.Total,
		Status:         o.Status,
		ShippingInfo:   o.ShippingInfo,
		PaymentMethod:  o.PaymentMethod,
		TrackingNumber: o.TrackingNumber,
		SyncState:      o.SyncState,
	}
}
