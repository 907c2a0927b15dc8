package cart_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/calzastore/internal/application/cart"
	"github.com/tu-usuario/calzastore/internal/domain"
	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/infrastructure/localstore"
)

func testShoe(id string, price int) entity.Shoe {
	return entity.Shoe{ID: id, Brand: "Acme", Model: "M-" + id, Type: "running", Price: price}
}

// Añadir dos tallas del mismo zapato crea dos líneas; repetir una talla
// acumula cantidad en la línea existente en vez de duplicarla.
func TestAdd_FusionaPorZapatoYTalla(t *testing.T) {
	s, err := cart.NewStore(localstore.NewMemStore())
	require.NoError(t, err)

	require.NoError(t, s.Add(testShoe("a", 1000), []cart.Line{{Size: "42", Quantity: 1}, {Size: "43", Quantity: 2}}))
	require.NoError(t, s.Add(testShoe("a", 1000), []cart.Line{{Size: "42", Quantity: 3}}))

	items := s.Items()
	require.Len(t, items, 2, "dos tallas = dos líneas, sin duplicados")
	var q42 int
	for _, it := range items {
		if it.Size == "42" {
			q42 = it.Quantity
		}
	}
	assert.Equal(t, 4, q42, "la cantidad debe acumularse en la línea existente")
	assert.Equal(t, 6, s.TotalItems())
	assert.Equal(t, 6000, s.Total())
}

// Total = Σ price*quantity, aritmética entera sin impuestos ni envío.
func TestTotal_SumaEntera(t *testing.T) {
	s, err := cart.NewStore(localstore.NewMemStore())
	require.NoError(t, err)

	require.NoError(t, s.Add(testShoe("a", 1500), []cart.Line{{Size: "42", Quantity: 2}}))
	require.NoError(t, s.Add(testShoe("b", 2300), []cart.Line{{Size: "40", Quantity: 1}}))

	assert.Equal(t, 1500*2+2300, s.Total())
}

// La cantidad nunca baja de 1 con UpdateQuantity; quitar es cosa de Remove.
func TestUpdateQuantity_PisoEnUno(t *testing.T) {
	s, err := cart.NewStore(localstore.NewMemStore())
	require.NoError(t, err)
	require.NoError(t, s.Add(testShoe("a", 1000), []cart.Line{{Size: "42", Quantity: 2}}))
	lineID := s.Items()[0].ID

	require.NoError(t, s.UpdateQuantity(lineID, -5))
	assert.Equal(t, 1, s.Items()[0].Quantity)

	require.NoError(t, s.UpdateQuantity(lineID, 2))
	assert.Equal(t, 3, s.Items()[0].Quantity)
}

func TestAdd_CantidadInvalida(t *testing.T) {
	s, err := cart.NewStore(localstore.NewMemStore())
	require.NoError(t, err)
	err = s.Add(testShoe("a", 1000), []cart.Line{{Size: "42", Quantity: 0}})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestRemoveYClear(t *testing.T) {
	s, err := cart.NewStore(localstore.NewMemStore())
	require.NoError(t, err)
	require.NoError(t, s.Add(testShoe("a", 1000), []cart.Line{{Size: "42", Quantity: 1}, {Size: "43", Quantity: 1}}))

	lineID := s.Items()[0].ID
	require.NoError(t, s.Remove(lineID))
	assert.Len(t, s.Items(), 1)

	require.NoError(t, s.Remove("no-existe"))
	assert.Len(t, s.Items(), 1, "quitar una línea inexistente no es error")

	require.NoError(t, s.Clear())
	assert.Empty(t, s.Items())
	assert.Zero(t, s.Total())
}

// El carrito sobrevive a un reinicio: un Store nuevo sobre el mismo KV
// recarga las líneas persistidas.
func TestPersistencia_SobreviveReinicio(t *testing.T) {
	kv := localstore.NewMemStore()

	s1, err := cart.NewStore(kv)
	require.NoError(t, err)
	require.NoError(t, s1.Add(testShoe("a", 1000), []cart.Line{{Size: "42", Quantity: 2}}))

	s2, err := cart.NewStore(kv)
	require.NoError(t, err)
	assert.Equal(t, s1.Items(), s2.Items())
	assert.Equal(t, 2000, s2.Total())
}

// Un valor persistido corrupto se descarta y se arranca con carrito vacío.
func TestPersistencia_CorruptoArrancaVacio(t *testing.T) {
	kv := localstore.NewMemStore()
	require.NoError(t, kv.Set("shoeCart", []byte("{{{no es json")))

	s, err := cart.NewStore(kv)
	require.NoError(t, err)
	assert.Empty(t, s.Items())
}
