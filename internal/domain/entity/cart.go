package entity

// CartItem una línea del carrito: un zapato en una talla concreta.
// El ID identifica la línea (no el zapato); dos tallas del mismo zapato
// son dos líneas distintas.
type CartItem struct {
	ID       string `json:"id"`
	Shoe     Shoe   `json:"shoe"`
	Size     string `json:"size"`
	Quantity int    `json:"quantity"`
}
