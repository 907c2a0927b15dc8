package localstore

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/tu-usuario/calzastore/internal/domain/repository"
)

var _ repository.KV = (*FileStore)(nil)

// FileStore implementa el puerto KV sobre un único archivo JSON
// (mapa clave→valor crudo). Es el equivalente local al storage del
// navegador: durable ante reinicios, propio del dispositivo. Cada Set
// reescribe el archivo completo vía archivo temporal + rename, así una
// caída a mitad de escritura no corrompe el estado previo.
type FileStore struct {
	path string
	mu   sync.Mutex
}

// NewFileStore construye el almacén sobre path. El archivo se crea en el
// primer Set; que no exista todavía no es error.
func NewFileStore(path string) *FileStore {
	return &FileStore{path: path}
}

// Get devuelve el valor y true si la clave existe.
func (f *FileStore) Get(key string) ([]byte, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return nil, false, err
	}
	raw, ok := data[key]
	if !ok {
		return nil, false, nil
	}
	return raw, true, nil
}

// Set escribe el valor bajo la clave.
func (f *FileStore) Set(key string, value []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	data[key] = json.RawMessage(value)
	return f.save(data)
}

// Delete elimina la clave; borrar una clave ausente no es error.
func (f *FileStore) Delete(key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, err := f.load()
	if err != nil {
		return err
	}
	if _, ok := data[key]; !ok {
		return nil
	}
	delete(data, key)
	return f.save(data)
}

// load lee el mapa completo. Llamar con mu tomado.
func (f *FileStore) load() (map[string]json.RawMessage, error) {
	raw, err := os.ReadFile(f.path)
	if os.IsNotExist(err) {
		return map[string]json.RawMessage{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("leer almacén local: %w", err)
	}
	data := map[string]json.RawMessage{}
	if err := json.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("almacén local corrupto: %w", err)
	}
	return data, nil
}

// save escribe el mapa completo de forma atómica. Llamar con mu tomado.
func (f *FileStore) save(data map[string]json.RawMessage) error {
	raw, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("serializar almacén local: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(f.path), ".localstore-*")
	if err != nil {
		return fmt.Errorf("archivo temporal: %w", err)
	}
	if _, err := tmp.Write(raw); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())
		return fmt.Errorf("escribir almacén local: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("cerrar almacén local: %w", err)
	}
	if err := os.Rename(tmp.Name(), f.path); err != nil {
		os.Remove(tmp.Name())
		return fmt.Errorf("reemplazar almacén local: %w", err)
	}
	return nil
}
