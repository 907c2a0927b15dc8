package postgres

import (
	"context"
	"fmt"

	"github.com/tu-usuario/calzastore/internal/domain/entity"
	"github.com/tu-usuario/calzastore/internal/domain/repository"
)

var _ repository.ShoeRepository = (*ShoeRepo)(nil)

// ShoeRepo implementación del puerto ShoeRepository sobre PostgreSQL
// (usable con pool o tx). La tabla shoes es la caché espejo del upstream.
type ShoeRepo struct {
	q Querier
}

// NewShoeRepository construye el adaptador de persistencia. Pasar pool o tx (Querier).
func NewShoeRepository(q Querier) *ShoeRepo {
	return &ShoeRepo{q: q}
}

// Upsert inserta o actualiza todos los campos por id (última escritura gana,
// sin versionado).
func (r *ShoeRepo) Upsert(ctx context.Context, shoe *entity.Shoe) error {
	query := `
		INSERT INTO shoes (id, type, brand, model, size, price, image_url, revoked, created_at, fetched_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		ON CONFLICT (id) DO UPDATE SET
			type = EXCLUDED.type, brand = EXCLUDED.brand, model = EXCLUDED.model,
			size = EXCLUDED.size, price = EXCLUDED.price, image_url = EXCLUDED.image_url,
			revoked = EXCLUDED.revoked, created_at = EXCLUDED.created_at, fetched_at = EXCLUDED.fetched_at`
	_, err := r.q.Exec(ctx, query,
		shoe.ID, shoe.Type, shoe.Brand, shoe.Model, shoe.Size,
		shoe.Price, nullIfEmpty(shoe.ImageURL), shoe.Revoked, shoe.CreatedAt, shoe.FetchedAt,
	)
	if err != nil {
		return fmt.Errorf("upsert shoe: %w", err)
	}
	return nil
}

// DeleteNotIn borra toda fila cuyo id no esté en activeIDs. Con la lista
// vacía limpia la tabla: la caché siempre espeja el último conjunto activo
// observado, nunca un superconjunto.
func (r *ShoeRepo) DeleteNotIn(ctx context.Context, activeIDs []string) error {
	if len(activeIDs) == 0 {
		if _, err := r.q.Exec(ctx, `DELETE FROM shoes`); err != nil {
			return fmt.Errorf("clear shoes: %w", err)
		}
		return nil
	}
	if _, err := r.q.Exec(ctx, `DELETE FROM shoes WHERE NOT (id = ANY($1))`, activeIDs); err != nil {
		return fmt.Errorf("prune shoes: %w", err)
	}
	return nil
}

// ListActive devuelve las filas con revoked=false, más recientes primero
// (por created_at del upstream).
func (r *ShoeRepo) ListActive(ctx context.Context) ([]*entity.Shoe, error) {
	query := `
		SELECT id, type, brand, model, size, price, COALESCE(image_url, ''), revoked, created_at, fetched_at
		FROM shoes WHERE revoked = false ORDER BY created_at DESC`
	rows, err := r.q.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list shoes: %w", err)
	}
	defer rows.Close()
	var list []*entity.Shoe
	for rows.Next() {
		var s entity.Shoe
		if err := rows.Scan(&s.ID, &s.Type, &s.Brand, &s.Model, &s.Size,
			&s.Price, &s.ImageURL, &s.Revoked, &s.CreatedAt, &s.FetchedAt); err != nil {
			return nil, fmt.Errorf("scan shoe: %w", err)
		}
		list = append(list, &s)
	}
	return list, rows.Err()
}

// nullIfEmpty mapea "" a NULL para columnas opcionales.
func nullIfEmpty(s string) any {
	if s == "" {
		return nil
	}
	return s
}
