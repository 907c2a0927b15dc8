package localstore

import (
	"sync"

	"github.com/tu-usuario/calzastore/internal/domain/repository"
)

var _ repository.KV = (*MemStore)(nil)

// MemStore implementa el puerto KV en memoria. Se usa en tests y como
// almacén efímero cuando no se quiere tocar disco.
type MemStore struct {
	mu   sync.Mutex
	data map[string][]byte
}

// NewMemStore construye el almacén vacío.
func NewMemStore() *MemStore {
	return &MemStore{data: map[string][]byte{}}
}

func (m *MemStore) Get(key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	raw, ok := m.data[key]
	if !ok {
		return nil, false, nil
	}
	cp := make([]byte, len(raw))
	copy(cp, raw)
	return cp, true, nil
}

func (m *MemStore) Set(key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	cp := make([]byte, len(value))
	copy(cp, value)
	m.data[key] = cp
	return nil
}

func (m *MemStore) Delete(key string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.data, key)
	return nil
}
