package catalog

import (
	"context"

	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/domain/repository"
)

// UpstreamSource define el puerto de salida hacia la fuente de inventario
// upstream (Web A). La implementación concreta usa HTTP con timeout fijo;
// para tests se puede inyectar un fake.
type UpstreamSource interface {
	// FetchItems devuelve la lista completa de artículos tal como la publica
	// el upstream, incluidos los marcados revoked. Errores:
	// domain.ErrUpstreamUnavailable (red/timeout/no-200) o
	// domain.ErrMalformedUpstream (cuerpo sin campo items o no parseable).
	FetchItems(ctx context.Context) ([]entity.Shoe, error)
}

// TxRunner ejecuta una función dentro de una transacción de BD, pasando un
// repositorio de zapatos atado a esa tx. Garantiza que el upsert y la poda
// de la reconciliación se apliquen de forma atómica: nunca queda la caché
// con el upsert aplicado y la poda pendiente.
type TxRunner interface {
	Run(ctx context.Context, fn func(shoeRepo repository.ShoeRepository) error) error
}
