package domain

import "errors"

// Errores de dominio (sin dependencias externas).
var (
	ErrNotFound            = errors.New("recurso no encontrado")
	ErrInvalidInput        = errors.New("entrada inválida")
	ErrDuplicate           = errors.New("recurso duplicado")
	ErrUnauthorized        = errors.New("no autorizado")
	ErrUpstreamUnavailable = errors.New("upstream de inventario no disponible")
	ErrMalformedUpstream   = errors.New("respuesta del upstream malformada")
	ErrCacheUnavailable    = errors.New("caché de inventario no disponible")
	ErrNoInventory         = errors.New("sin inventario disponible")
	ErrTotalMismatch       = errors.New("el total no coincide con las líneas del pedido")
)
