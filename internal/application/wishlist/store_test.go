package wishlist_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/calzastore/internal/application/wishlist"
	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/infrastructure/localstore"
)

func TestAdd_Deduplica(t *testing.T) {
	s, err := wishlist.NewStore(localstore.NewMemStore())
	require.NoError(t, err)

	require.NoError(t, s.Add(entity.Shoe{ID: "a", Brand: "Acme"}))
	require.NoError(t, s.Add(entity.Shoe{ID: "a", Brand: "Acme"}))
	require.NoError(t, s.Add(entity.Shoe{ID: "b", Brand: "Acme"}))

	assert.Equal(t, 2, s.Count(), "añadir dos veces el mismo id no duplica")
	assert.True(t, s.Contains("a"))
	assert.False(t, s.Contains("z"))
}

func TestRemove(t *testing.T) {
	s, err := wishlist.NewStore(localstore.NewMemStore())
	require.NoError(t, err)
	require.NoError(t, s.Add(entity.Shoe{ID: "a"}))

	require.NoError(t, s.Remove("a"))
	assert.False(t, s.Contains("a"))
	assert.Zero(t, s.Count())

	require.NoError(t, s.Remove("a"), "quitar un id ausente no es error")
}

// La wishlist persistida se recarga en un Store nuevo sobre el mismo KV.
func TestPersistencia_SobreviveReinicio(t *testing.T) {
	kv := localstore.NewMemStore()
	s1, err := wishlist.NewStore(kv)
	require.NoError(t, err)
	require.NoError(t, s1.Add(entity.Shoe{ID: "a", Brand: "Acme", Price: 1200}))

	s2, err := wishlist.NewStore(kv)
	require.NoError(t, err)
	assert.Equal(t, s1.Items(), s2.Items())
}

// Un valor corrupto se descarta, igual que hacía el cliente original.
func TestPersistencia_CorruptoArrancaVacio(t *testing.T) {
	kv := localstore.NewMemStore()
	require.NoError(t, kv.Set("wishlist", []byte("no-json")))

	s, err := wishlist.NewStore(kv)
	require.NoError(t, err)
	assert.Zero(t, s.Count())
}
