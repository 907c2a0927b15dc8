package cart

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/google/uuid"
	"github.com/tu-usuario/calzastore/internal/domain"
	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/domain/repository"
)

// Clave bajo la que se persiste el carrito en el almacén local.
const storageKey = "shoeCart"

// Line una talla y cantidad a añadir para un mismo zapato.
type Line struct {
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}

// Store es el carrito del cliente: estado explícito con un puerto de
// persistencia inyectado, en lugar de estado global de módulo. Cada mutación
// se persiste, así que el carrito sobrevive a un reinicio del proceso pero
// no a un cambio de dispositivo.
type Store struct {
	kv repository.KV

	mu    sync.Mutex
	items []entity.CartItem
}

// NewStore construye el carrito cargando el estado persistido. Un valor
// corrupto se descarta y se arranca con el carrito vacío.
func NewStore(kv repository.KV) (*Store, error) {
	s := &Store{kv: kv}
	raw, ok, err := kv.Get(storageKey)
	if err != nil {
		return nil, fmt.Errorf("leer carrito persistido: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, &s.items); err != nil {
			s.items = nil
		}
	}
	return s, nil
}

// Add añade un zapato al carrito, una línea por talla. Si ya existe una línea
// para (zapato, talla) se acumula la cantidad en vez de duplicar la línea.
func (s *Store) Add(shoe entity.Shoe, lines []Line) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ln := range lines {
		if ln.Quantity <= 0 {
			return domain.ErrInvalidInput
		}
		merged := false
		for i := range s.items {
			if s.items[i].Shoe.ID == shoe.ID && s.items[i].Size == ln.Size {
				s.items[i].Quantity += ln.Quantity
				merged = true
				break
			}
		}
		if !merged {
			s.items = append(s.items, entity.CartItem{
				ID:       fmt.Sprintf("%s-%s-%s", shoe.ID, ln.Size, uuid.NewString()),
				Shoe:     shoe,
				Size:     ln.Size,
				Quantity: ln.Quantity,
			})
		}
	}
	return s.persist()
}

// Remove quita una línea por su id. Quitar una línea inexistente no es error.
func (s *Store) Remove(lineID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != lineID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return s.persist()
}

// UpdateQuantity suma delta (puede ser negativo) a la cantidad de la línea,
// con piso en 1: bajar de ahí se hace con Remove, no con restas.
func (s *Store) UpdateQuantity(lineID string, delta int) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for i := range s.items {
		if s.items[i].ID == lineID {
			q := s.items[i].Quantity + delta
			if q < 1 {
				q = 1
			}
			s.items[i].Quantity = q
			break
		}
	}
	return s.persist()
}

// Clear vacía el carrito.
func (s *Store) Clear() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items = nil
	return s.persist()
}

// Items devuelve una copia de las líneas actuales.
func (s *Store) Items() []entity.CartItem {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.CartItem, len(s.items))
	copy(out, s.items)
	return out
}

// Total suma price*quantity de todas las líneas (aritmética entera, sin
// impuestos ni envío).
func (s *Store) Total() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := 0
	for _, it := range s.items {
		sum += it.Shoe.Price * it.Quantity
	}
	return sum
}

// TotalItems cuenta unidades, no líneas.
func (s *Store) TotalItems() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for _, it := range s.items {
		n += it.Quantity
	}
	return n
}

// persist escribe el estado actual bajo storageKey. Llamar con mu tomado.
func (s *Store) persist() error {
	raw, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("serializar carrito: %w", err)
	}
	if err := s.kv.Set(storageKey, raw); err != nil {
		return fmt.Errorf("persistir carrito: %w", err)
	}
	return nil
}
