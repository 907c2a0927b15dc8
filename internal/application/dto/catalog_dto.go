package dto

import (
	"time"

	"github.com/tu-usuario/calzastore/internal/domain/entity"
)

// ShoeResponse representación JSON de un zapato hacia el cliente de la tienda.
type ShoeResponse struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"`
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Size      string    `json:"size"`
	Price     int       `json:"price"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
	FetchedAt time.Time `json:"fetchedAt"`
}

// SyncResponse resultado del disparo manual de sincronización.
type SyncResponse struct {
	Synced int            `json:"synced"`
	Source string         `json:"source"` // "live" | "cache"
	Shoes  []ShoeResponse `json:"shoes"`
}

// ToShoeResponse convierte la entidad a su representación de salida.
// El flag revoked nunca se expone: lo revocado no sale de la frontera de lectura.
func ToShoeResponse(s *entity.Shoe) ShoeResponse {
	return ShoeResponse{
		ID:        s.ID,
		Type:      s.Type,
		Brand:     s.Brand,
		Model:     s.Model,
		Size:      s.Size,
		Price:     s.Price,
		ImageURL:  s.ImageURL,
		CreatedAt: s.CreatedAt,
		FetchedAt: s.FetchedAt,
	}
}

// ToShoeResponses convierte una lista de entidades.
func ToShoeResponses(shoes []*entity.Shoe) []ShoeResponse {
	out := make([]ShoeResponse, 0, len(shoes))
	for _, s := range shoes {
		out = append(out, ToShoeResponse(s))
	}
	return out
}
