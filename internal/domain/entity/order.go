package entity

import "time"

// Estados de sincronización de un pedido con la base de datos.
// Un pedido nace "pending" en el outbox local y pasa a "confirmed"
// cuando el insert en la BD tiene éxito.
const (
	SyncPending   = "pending"
	SyncConfirmed = "confirmed"
)

// OrderStatus inicial de todo pedido recién creado.
const OrderStatusProcessing = "Processing"

// ShippingInfo datos de envío capturados en el checkout (solo forma, sin pasarela real).
type ShippingInfo struct {
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	Province  string `json:"province"`
	Postal    string `json:"postal"`
}

// Order es la foto de un carrito al momento del checkout.
// Total siempre es la suma de Price*Quantity de sus líneas (aritmética entera).
type Order struct {
	ID             string       `json:"id"`
	OrderDate      time.Time    `json:"orderDate"`
	Items          []CartItem   `json:"items"`
	Total          int          `json:"total"`
	Status         string       `json:"status"`
	ShippingInfo   ShippingInfo `json:"shippingInfo"`
	PaymentMethod  string       `json:"paymentMethod"`
	TrackingNumber string       `json:"trackingNumber"`
	SyncState      string       `json:"syncState"` // pending | confirmed
	CreatedAt      time.Time    `json:"createdAt"`
}

// ComputeTotal recalcula el total desde las líneas.
func (o *Order) ComputeTotal() int {
	sum := 0
	for _, it := range o.Items {
		sum += it.Shoe.Price * it.Quantity
	}
	return sum
}
