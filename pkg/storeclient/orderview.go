package storeclient

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tu-usuario/calzastore/internal/application/dto"
	"github.com/tu-usuario/calzastore/internal/domain/repository"
)

const cancelledKey = "cancelledOrders"

// OrderView es la vista local de pedidos del cliente. Cancelar un pedido solo
// lo oculta de esta vista: el registro del servidor no se toca, igual que en
// la tienda original. El conjunto de ids cancelados se persiste en el mismo
// almacén local que el carrito y la wishlist.
type OrderView struct {
	kv repository.KV

	mu        sync.Mutex
	cancelled map[string]bool
}

// NewOrderView carga el conjunto de cancelados persistido; un valor corrupto
// arranca con la vista completa.
func NewOrderView(kv repository.KV) (*OrderView, error) {
	v := &OrderView{kv: kv, cancelled: map[string]bool{}}
	raw, ok, err := kv.Get(cancelledKey)
	if err != nil {
		return nil, fmt.Errorf("leer cancelados persistidos: %w", err)
	}
	if ok {
		var ids []string
		if err := json.Unmarshal(raw, &ids); err == nil {
			for _, id := range ids {
				v.cancelled[id] = true
			}
		}
	}
	return v, nil
}

// Cancel oculta el pedido de la vista local. Cancelar un id desconocido o ya
// cancelado no es error.
func (v *OrderView) Cancel(orderID string) error {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.cancelled[orderID] {
		return nil
	}
	v.cancelled[orderID] = true
	return v.persist()
}

// IsCancelled indica si el pedido está oculto de la vista.
func (v *OrderView) IsCancelled(orderID string) bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.cancelled[orderID]
}

// Visible filtra la lista del servidor dejando fuera los pedidos cancelados
// localmente.
func (v *OrderView) Visible(orders []dto.OrderResponse) []dto.OrderResponse {
	v.mu.Lock()
	defer v.mu.Unlock()
	out := make([]dto.OrderResponse, 0, len(orders))
	for _, o := range orders {
		if v.cancelled[o.ID] {
			continue
		}
		out = append(out, o)
	}
	return out
}

// persist escribe el conjunto de ids. Llamar con mu tomado.
func (v *OrderView) persist() error {
	ids := make([]string, 0, len(v.cancelled))
	for id := range v.cancelled {
		ids = append(ids, id)
	}
	raw, err := json.Marshal(ids)
	if err != nil {
		return fmt.Errorf("serializar cancelados: %w", err)
	}
	if err := v.kv.Set(cancelledKey, raw); err != nil {
		return fmt.Errorf("persistir cancelados: %w", err)
	}
	return nil
}
