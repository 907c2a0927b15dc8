package repository

// KV define el puerto de persistencia local clave→JSON (el equivalente del
// local/session storage del navegador). Sobrevive a un reinicio del proceso
// pero no a un cambio de dispositivo. Se inyecta en los stores de carrito,
// wishlist y outbox para poder testearlos sin sistema de archivos real.
type KV interface {
	// Get devuelve el valor y true si la clave existe.
	Get(key string) ([]byte, bool, error)
	Set(key string, value []byte) error
	Delete(key string) error
}
