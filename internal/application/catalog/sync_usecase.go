package catalog

import (
	"context"
	"fmt"
	"time"

	"github.com/tu-usuario/calzastore/internal/domain"
	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/domain/repository"
	"github.com/tu-usuario/calzastore/pkg/logger"
)

// Source indica de dónde salió la lista servida.
type Source string

const (
	// SourceLive la lista viene directo del upstream (y la caché quedó reconciliada).
	SourceLive Source = "live"
	// SourceCache el upstream falló y se sirvió la última caché conocida.
	SourceCache Source = "cache"
)

// SyncUseCase es la rutina de sincronización del catálogo: intenta el fetch
// vivo, reconcilia la caché con el conjunto activo observado y, si el upstream
// no responde, sirve la caché filtrando lo revocado.
//
// Política de revocados: un artículo con revoked=true nunca se escribe en la
// caché ni entra al conjunto activo (la caché ES el conjunto activo). La
// lectura de respaldo filtra revoked de todas formas, por si quedaron filas
// escritas por una versión anterior del sincronizador.
type SyncUseCase struct {
	upstream UpstreamSource
	tx       TxRunner
	cache    repository.ShoeRepository
	log      *logger.Logger
	now      func() time.Time
}

// NewSyncUseCase construye el caso de uso. cache es el repositorio atado al
// pool (camino de solo lectura); las escrituras pasan por tx.
func NewSyncUseCase(upstream UpstreamSource, tx TxRunner, cache repository.ShoeRepository, log *logger.Logger) *SyncUseCase {
	return &SyncUseCase{
		upstream: upstream,
		tx:       tx,
		cache:    cache,
		log:      log,
		now:      time.Now,
	}
}

// Sync ejecuta un ciclo completo: fetch → reconciliación → respuesta, o caché
// de respaldo si el fetch falla. Solo retorna error cuando ni el upstream ni
// la caché pueden servir nada:
//   - domain.ErrNoInventory: caché legible pero vacía.
//   - domain.ErrCacheUnavailable: la lectura de la caché también falló.
func (uc *SyncUseCase) Sync(ctx context.Context) ([]*entity.Shoe, Source, error) {
	items, err := uc.upstream.FetchItems(ctx)
	if err != nil {
		uc.log.Warn().Err(err).Msg("fetch upstream falló, sirviendo caché")
		return uc.serveFromCache(ctx)
	}

	active, err := uc.reconcile(ctx, items)
	if err != nil {
		// La reconciliación es atómica: si la tx falla la caché quedó intacta
		// y todavía puede servir la última foto conocida.
		uc.log.Error().Err(err).Msg("reconciliación falló, sirviendo caché")
		return uc.serveFromCache(ctx)
	}

	uc.log.Info().Int("synced", len(active)).Msg("catálogo reconciliado desde upstream")
	return active, SourceLive, nil
}

// reconcile aplica la respuesta del upstream sobre la caché en una sola
// transacción: upsert de cada artículo activo y borrado de todo id ausente
// del conjunto activo. Una lista vacía (HTTP 200 con cero artículos activos)
// limpia la caché completa: "nada está activo" no es lo mismo que "el fetch
// se degradó".
func (uc *SyncUseCase) reconcile(ctx context.Context, items []entity.Shoe) ([]*entity.Shoe, error) {
	fetchedAt := uc.now()
	active := make([]*entity.Shoe, 0, len(items))
	activeIDs := make([]string, 0, len(items))

	err := uc.tx.Run(ctx, func(shoeRepo repository.ShoeRepository) error {
		for i := range items {
			item := items[i]
			if item.Revoked {
				// Nunca se cachea lo revocado; al quedar fuera del conjunto
				// activo, su fila previa (si existía) se borra abajo.
				continue
			}
			item.FetchedAt = fetchedAt
			if err := shoeRepo.Upsert(ctx, &item); err != nil {
				return err
			}
			active = append(active, &item)
			activeIDs = append(activeIDs, item.ID)
		}
		return shoeRepo.DeleteNotIn(ctx, activeIDs)
	})
	if err != nil {
		return nil, err
	}
	return active, nil
}

// serveFromCache lee la última foto conocida, sin revocados.
func (uc *SyncUseCase) serveFromCache(ctx context.Context) ([]*entity.Shoe, Source, error) {
	shoes, err := uc.cache.ListActive(ctx)
	if err != nil {
		return nil, SourceCache, fmt.Errorf("%w: %v", domain.ErrCacheUnavailable, err)
	}
	if len(shoes) == 0 {
		return nil, SourceCache, domain.ErrNoInventory
	}
	return shoes, SourceCache, nil
}

// Proxy devuelve los artículos no revocados del upstream sin tocar la caché.
// Es el passthrough puro: si el upstream falla, falla.
func (uc *SyncUseCase) Proxy(ctx context.Context) ([]*entity.Shoe, error) {
	items, err := uc.upstream.FetchItems(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]*entity.Shoe, 0, len(items))
	for i := range items {
		if items[i].Revoked {
			continue
		}
		out = append(out, &items[i])
	}
	return out, nil
}
