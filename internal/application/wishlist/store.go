package wishlist

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/domain/repository"
)

const storageKey = "wishlist"

// Store es la lista de deseos del cliente: zapatos completos, deduplicados
// por id, sobre el mismo puerto de persistencia local que el carrito.
type Store struct {
	kv repository.KV

	mu    sync.Mutex
	items []entity.Shoe
}

// NewStore carga la wishlist persistida; un valor corrupto arranca vacía.
func NewStore(kv repository.KV) (*Store, error) {
	s := &Store{kv: kv}
	raw, ok, err := kv.Get(storageKey)
	if err != nil {
		return nil, fmt.Errorf("leer wishlist persistida: %w", err)
	}
	if ok {
		if err := json.Unmarshal(raw, &s.items); err != nil {
			s.items = nil
		}
	}
	return s, nil
}

// Add añade el zapato si no estaba ya.
func (s *Store) Add(shoe entity.Shoe) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == shoe.ID {
			return nil
		}
	}
	s.items = append(s.items, shoe)
	return s.persist()
}

// Remove quita el zapato por id.
func (s *Store) Remove(shoeID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	kept := s.items[:0]
	for _, it := range s.items {
		if it.ID != shoeID {
			kept = append(kept, it)
		}
	}
	s.items = kept
	return s.persist()
}

// Contains indica si el zapato está en la lista.
func (s *Store) Contains(shoeID string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, it := range s.items {
		if it.ID == shoeID {
			return true
		}
	}
	return false
}

// Items devuelve una copia de la lista.
func (s *Store) Items() []entity.Shoe {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]entity.Shoe, len(s.items))
	copy(out, s.items)
	return out
}

// Count cantidad de zapatos en la lista.
func (s *Store) Count() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.items)
}

func (s *Store) persist() error {
	raw, err := json.Marshal(s.items)
	if err != nil {
		return fmt.Errorf("serializar wishlist: %w", err)
	}
	if err := s.kv.Set(storageKey, raw); err != nil {
		return fmt.Errorf("persistir wishlist: %w", err)
	}
	return nil
}
