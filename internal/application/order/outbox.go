package order

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/domain/repository"
)

const outboxKey = "orderOutbox"

// Outbox es la cola local durable de pedidos aún no confirmados en la base
// de datos. Todo pedido se escribe aquí primero; cuando el insert en BD tiene
// éxito, la entrada se retira. Así un pedido creado con la BD caída sigue
// siendo visible localmente de inmediato.
type Outbox struct {
	kv repository.KV
	mu sync.Mutex
}

// NewOutbox construye la cola sobre el puerto de persistencia local.
func NewOutbox(kv repository.KV) *Outbox {
	return &Outbox{kv: kv}
}

// Put añade o reemplaza la entrada del pedido (clave: id).
func (o *Outbox) Put(order *entity.Order) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	pending, err := o.load()
	if err != nil {
		return err
	}
	replaced := false
	for i := range pending {
		if pending[i].ID == order.ID {
			pending[i] = *order
			replaced = true
			break
		}
	}
	if !replaced {
		pending = append(pending, *order)
	}
	return o.save(pending)
}

// Remove retira la entrada del pedido; retirar un id ausente no es error.
func (o *Outbox) Remove(orderID string) error {
	o.mu.Lock()
	defer o.mu.Unlock()
	pending, err := o.load()
	if err != nil {
		return err
	}
	kept := pending[:0]
	for _, p := range pending {
		if p.ID != orderID {
			kept = append(kept, p)
		}
	}
	return o.save(kept)
}

// Pending devuelve las entradas aún no confirmadas.
func (o *Outbox) Pending() ([]*entity.Order, error) {
	o.mu.Lock()
	defer o.mu.Unlock()
	pending, err := o.load()
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Order, 0, len(pending))
	for i := range pending {
		out = append(out, &pending[i])
	}
	return out, nil
}

// load lee la cola persistida. Llamar con mu tomado.
func (o *Outbox) load() ([]entity.Order, error) {
	raw, ok, err := o.kv.Get(outboxKey)
	if err != nil {
		return nil, fmt.Errorf("leer outbox: %w", err)
	}
	if !ok {
		return nil, nil
	}
	var pending []entity.Order
	if err := json.Unmarshal(raw, &pending); err != nil {
		return nil, fmt.Errorf("outbox corrupto: %w", err)
	}
	return pending, nil
}

// save escribe la cola. Llamar con mu tomado.
func (o *Outbox) save(pending []entity.Order) error {
	raw, err := json.Marshal(pending)
	if err != nil {
		return fmt.Errorf("serializar outbox: %w", err)
	}
	if err := o.kv.Set(outboxKey, raw); err != nil {
		return fmt.Errorf("persistir outbox: %w", err)
	}
	return nil
}
