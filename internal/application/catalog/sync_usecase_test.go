package catalog_test

import (
	"context"
	"errors"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/tu-usuario/calzastore/internal/application/catalog"
	"github.com/tu-usuario/calzastore/internal/domain"
	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/domain/repository"
	"github.com/tu-usuario/calzastore/pkg/logger"
)

// ──────────────────────────────────────────────────────────────────────────────
// Fakes
// ──────────────────────────────────────────────────────────────────────────────

// fakeUpstream implementa catalog.UpstreamSource con respuesta fija.
type fakeUpstream struct {
	items []entity.Shoe
	err   error
}

func (f *fakeUpstream) FetchItems(ctx context.Context) ([]entity.Shoe, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.items, nil
}

// fakeShoeRepo caché en memoria que implementa repository.ShoeRepository.
type fakeShoeRepo struct {
	mu      sync.Mutex
	rows    map[string]entity.Shoe
	listErr error
}

func newFakeShoeRepo() *fakeShoeRepo {
	return &fakeShoeRepo{rows: map[string]entity.Shoe{}}
}

func (f *fakeShoeRepo) Upsert(ctx context.Context, shoe *entity.Shoe) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.rows[shoe.ID] = *shoe
	return nil
}

func (f *fakeShoeRepo) DeleteNotIn(ctx context.Context, activeIDs []string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	keep := map[string]bool{}
	for _, id := range activeIDs {
		keep[id] = true
	}
	for id := range f.rows {
		if !keep[id] {
			delete(f.rows, id)
		}
	}
	return nil
}

func (f *fakeShoeRepo) ListActive(ctx context.Context) ([]*entity.Shoe, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []*entity.Shoe
	for id := range f.rows {
		row := f.rows[id]
		if row.Revoked {
			continue
		}
		out = append(out, &row)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

// ids devuelve los ids cacheados, ordenados, para aserciones.
func (f *fakeShoeRepo) ids() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []string
	for id := range f.rows {
		out = append(out, id)
	}
	sort.Strings(out)
	return out
}

// fakeTxRunner ejecuta el callback directo sobre el repo (o falla entero,
// simulando el rollback: el repo no se toca).
type fakeTxRunner struct {
	repo repository.ShoeRepository
	err  error
}

func (f *fakeTxRunner) Run(ctx context.Context, fn func(repository.ShoeRepository) error) error {
	if f.err != nil {
		return f.err
	}
	return fn(f.repo)
}

// ──────────────────────────────────────────────────────────────────────────────
// Helpers
// ──────────────────────────────────────────────────────────────────────────────

func shoe(id string, revoked bool, createdAt time.Time) entity.Shoe {
	return entity.Shoe{
		ID:        id,
		Type:      "running",
		Brand:     "Acme",
		Model:     "Model-" + id,
		Size:      "42",
		Price:     1500,
		Revoked:   revoked,
		CreatedAt: createdAt,
	}
}

func buildUseCase(up *fakeUpstream, repo *fakeShoeRepo) *catalog.SyncUseCase {
	return catalog.NewSyncUseCase(up, &fakeTxRunner{repo: repo}, repo, logger.Nop())
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests de reconciliación
// ──────────────────────────────────────────────────────────────────────────────

// Upstream con un activo y un revocado: la caché termina conteniendo
// exactamente el conjunto activo, sin revocados, y la respuesta es "live".
func TestSync_ReconciliaConjuntoActivo(t *testing.T) {
	now := time.Now()
	up := &fakeUpstream{items: []entity.Shoe{
		shoe("a", false, now),
		shoe("b", true, now),
	}}
	repo := newFakeShoeRepo()
	uc := buildUseCase(up, repo)

	shoes, source, err := uc.Sync(context.Background())

	require.NoError(t, err)
	assert.Equal(t, catalog.SourceLive, source)
	require.Len(t, shoes, 1, "solo el artículo activo debe servirse")
	assert.Equal(t, "a", shoes[0].ID)
	assert.Equal(t, []string{"a"}, repo.ids(), "lo revocado nunca se escribe en la caché")
	assert.False(t, shoes[0].FetchedAt.IsZero(), "fetchedAt se asigna al reconciliar")
}

// Una fila cacheada cuyo id desaparece del upstream se borra (borrado duro),
// aunque antes hubiera sido activa.
func TestSync_BorraIdsAusentes(t *testing.T) {
	now := time.Now()
	repo := newFakeShoeRepo()
	up := &fakeUpstream{items: []entity.Shoe{shoe("a", false, now), shoe("b", false, now)}}
	uc := buildUseCase(up, repo)

	_, _, err := uc.Sync(context.Background())
	require.NoError(t, err)
	require.Equal(t, []string{"a", "b"}, repo.ids())

	up.items = []entity.Shoe{shoe("a", false, now)}
	_, _, err = uc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, repo.ids(), "el id ausente debe podarse")
}

// Propiedad del enunciado: {a activo, b revocado} seguido de {a activo}
// deja la caché solo con a, independiente de la política de revocados.
func TestSync_RevocadoLuegoAusenteQuedaFuera(t *testing.T) {
	now := time.Now()
	repo := newFakeShoeRepo()
	up := &fakeUpstream{items: []entity.Shoe{shoe("a", false, now), shoe("b", true, now)}}
	uc := buildUseCase(up, repo)

	_, _, err := uc.Sync(context.Background())
	require.NoError(t, err)

	up.items = []entity.Shoe{shoe("a", false, now)}
	_, _, err = uc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{"a"}, repo.ids())
}

// Un 200 con lista vacía significa "nada está activo": limpia la caché
// entera. No se confunde con un fetch degradado.
func TestSync_ListaVaciaLimpiaCache(t *testing.T) {
	now := time.Now()
	repo := newFakeShoeRepo()
	up := &fakeUpstream{items: []entity.Shoe{shoe("a", false, now)}}
	uc := buildUseCase(up, repo)

	_, _, err := uc.Sync(context.Background())
	require.NoError(t, err)

	up.items = []entity.Shoe{}
	shoes, source, err := uc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.SourceLive, source)
	assert.Empty(t, shoes)
	assert.Empty(t, repo.ids(), "lista vacía con 200 debe vaciar la caché")
}

// Dos syncs seguidos con el mismo upstream dejan la caché idéntica
// (mismos ids y campos, salvo fetchedAt).
func TestSync_Idempotente(t *testing.T) {
	now := time.Now()
	repo := newFakeShoeRepo()
	up := &fakeUpstream{items: []entity.Shoe{shoe("a", false, now), shoe("b", false, now)}}
	uc := buildUseCase(up, repo)

	_, _, err := uc.Sync(context.Background())
	require.NoError(t, err)
	first := repo.ids()

	_, _, err = uc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, first, repo.ids())

	repo.mu.Lock()
	row := repo.rows["a"]
	repo.mu.Unlock()
	assert.Equal(t, "Model-a", row.Model)
	assert.Equal(t, 1500, row.Price)
}

// ──────────────────────────────────────────────────────────────────────────────
// Tests del camino de respaldo
// ──────────────────────────────────────────────────────────────────────────────

// Tras un sync exitoso, un upstream caído se resuelve sirviendo exactamente
// las filas cacheadas no revocadas, sin tocar la caché.
func TestSync_FallbackACacheTrasFalloUpstream(t *testing.T) {
	now := time.Now()
	repo := newFakeShoeRepo()
	up := &fakeUpstream{items: []entity.Shoe{shoe("a", false, now), shoe("b", false, now)}}
	uc := buildUseCase(up, repo)

	_, _, err := uc.Sync(context.Background())
	require.NoError(t, err)

	up.err = domain.ErrUpstreamUnavailable
	shoes, source, err := uc.Sync(context.Background())

	require.NoError(t, err, "el fallo del upstream no debe llegar al llamador")
	assert.Equal(t, catalog.SourceCache, source)
	assert.Len(t, shoes, 2)
	assert.Equal(t, []string{"a", "b"}, repo.ids(), "el camino de respaldo es de solo lectura")
}

// Upstream caído y caché vacía: ErrNoInventory.
func TestSync_SinUpstreamNiCache(t *testing.T) {
	repo := newFakeShoeRepo()
	up := &fakeUpstream{err: domain.ErrUpstreamUnavailable}
	uc := buildUseCase(up, repo)

	_, _, err := uc.Sync(context.Background())
	assert.ErrorIs(t, err, domain.ErrNoInventory)
}

// Upstream caído y caché ilegible: ErrCacheUnavailable (fallo duro).
func TestSync_CacheIlegibleEsFalloDuro(t *testing.T) {
	repo := newFakeShoeRepo()
	repo.listErr = errors.New("conexión rechazada")
	up := &fakeUpstream{err: domain.ErrUpstreamUnavailable}
	uc := buildUseCase(up, repo)

	_, _, err := uc.Sync(context.Background())
	assert.ErrorIs(t, err, domain.ErrCacheUnavailable)
}

// Si la transacción de reconciliación falla, la caché previa sigue sirviendo.
func TestSync_TxFallidaSirveCache(t *testing.T) {
	now := time.Now()
	repo := newFakeShoeRepo()
	require.NoError(t, repo.Upsert(context.Background(), &entity.Shoe{ID: "viejo", CreatedAt: now, Price: 900}))

	up := &fakeUpstream{items: []entity.Shoe{shoe("nuevo", false, now)}}
	uc := catalog.NewSyncUseCase(up, &fakeTxRunner{repo: repo, err: errors.New("deadlock")}, repo, logger.Nop())

	shoes, source, err := uc.Sync(context.Background())
	require.NoError(t, err)
	assert.Equal(t, catalog.SourceCache, source)
	require.Len(t, shoes, 1)
	assert.Equal(t, "viejo", shoes[0].ID)
}

// El passthrough filtra revocados pero no escribe nada en la caché.
func TestProxy_NoTocaLaCache(t *testing.T) {
	now := time.Now()
	repo := newFakeShoeRepo()
	up := &fakeUpstream{items: []entity.Shoe{shoe("a", false, now), shoe("b", true, now)}}
	uc := buildUseCase(up, repo)

	shoes, err := uc.Proxy(context.Background())
	require.NoError(t, err)
	require.Len(t, shoes, 1)
	assert.Equal(t, "a", shoes[0].ID)
	assert.Empty(t, repo.ids(), "proxy es passthrough puro")
}
