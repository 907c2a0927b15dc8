package entity

import "time"

// Shoe representa un zapato del catálogo sincronizado desde la tienda upstream (Web A).
// El ID lo asigna el upstream y es la clave primaria de la caché local.
type Shoe struct {
	ID        string    `json:"id"`
	Type      string    `json:"type"` // categoría libre: "running", "dress", etc.
	Brand     string    `json:"brand"`
	Model     string    `json:"model"`
	Size      string    `json:"size"`
	Price     int       `json:"price"` // unidad mínima de moneda, entero
	ImageURL  string    `json:"imageUrl,omitempty"`
	Revoked   bool      `json:"revoked"`
	CreatedAt time.Time `json:"createdAt"` // timestamp del upstream
	FetchedAt time.Time `json:"fetchedAt"` // asignado localmente al reconciliar
}
