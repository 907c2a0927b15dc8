package repository

import (
	"context"

	"github.com/tu-usuario/calzastore/internal/domain/entity"
)

// ShoeRepository define el puerto de persistencia para la caché de zapatos (DIP).
// La caché es un espejo del último conjunto activo observado en el upstream,
// no un historial: upsert por id y borrado duro de lo ausente.
type ShoeRepository interface {
	// Upsert inserta o actualiza todos los campos del zapato, clave por id.
	Upsert(ctx context.Context, shoe *entity.Shoe) error
	// DeleteNotIn borra toda fila cuyo id no esté en activeIDs.
	// Con activeIDs vacío borra la tabla completa.
	DeleteNotIn(ctx context.Context, activeIDs []string) error
	// ListActive devuelve las filas con revoked=false, más recientes primero
	// (por createdAt del upstream).
	ListActive(ctx context.Context) ([]*entity.Shoe, error)
}
