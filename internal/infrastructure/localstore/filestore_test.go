package localstore_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/calzastore/internal/infrastructure/localstore"
)

func tempStore(t *testing.T) (*localstore.FileStore, string) {
	t.Helper()
	path := filepath.Join(t.TempDir(), "localstore.json")
	return localstore.NewFileStore(path), path
}

func TestGet_ClaveAusente(t *testing.T) {
	fs, _ := tempStore(t)
	_, ok, err := fs.Get("carrito")
	require.NoError(t, err, "archivo inexistente no es error")
	assert.False(t, ok)
}

func TestSetGetDelete_Roundtrip(t *testing.T) {
	fs, _ := tempStore(t)

	require.NoError(t, fs.Set("carrito", []byte(`[{"id":"l1"}]`)))
	raw, ok, err := fs.Get("carrito")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `[{"id":"l1"}]`, string(raw))

	require.NoError(t, fs.Delete("carrito"))
	_, ok, err = fs.Get("carrito")
	require.NoError(t, err)
	assert.False(t, ok)

	require.NoError(t, fs.Delete("carrito"), "borrar una clave ausente no es error")
}

// Claves independientes no se pisan entre sí.
func TestSet_ClavesIndependientes(t *testing.T) {
	fs, _ := tempStore(t)
	require.NoError(t, fs.Set("shoeCart", []byte(`["a"]`)))
	require.NoError(t, fs.Set("wishlist", []byte(`["b"]`)))

	raw, ok, err := fs.Get("shoeCart")
	require.NoError(t, err)
	require.True(t, ok)
	assert.JSONEq(t, `["a"]`, string(raw))
}

// El contenido sobrevive a un reinicio del proceso: una instancia nueva
// sobre el mismo archivo lee lo escrito por la anterior.
func TestPersistencia_SobreviveReinicio(t *testing.T) {
	fs, path := tempStore(t)
	require.NoError(t, fs.Set("orderOutbox", []byte(`[{"id":"ORD-1"}]`)))

	fs2 := localstore.NewFileStore(path)
	raw, ok, err := fs2.Get("orderOutbox")
	require.NoError(t, err)
	require.True(t, ok)
	assert.Contains(t, string(raw), "ORD-1")
}

// Un archivo corrupto se reporta como error, no se sobreescribe en silencio.
func TestArchivoCorrupto(t *testing.T) {
	fs, path := tempStore(t)
	require.NoError(t, os.WriteFile(path, []byte("{{{"), 0o600))

	_, _, err := fs.Get("carrito")
	assert.Error(t, err)
	assert.Error(t, fs.Set("carrito", []byte("[]")), "Set tampoco debe pisar un archivo ilegible")
}
