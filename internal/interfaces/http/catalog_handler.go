package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/tu-usuario/calzastore/internal/application/catalog"
	"github.com/tu-usuario/calzastore/internal/application/dto"
	"github.com/tu-usuario/calzastore/internal/domain"
)

// CatalogHandler maneja las peticiones HTTP del catálogo sincronizado.
type CatalogHandler struct {
	uc *catalog.SyncUseCase
}

// NewCatalogHandler construye el handler.
func NewCatalogHandler(uc *catalog.SyncUseCase) *CatalogHandler {
	return &CatalogHandler{uc: uc}
}

// List godoc
// @Summary      Listar el catálogo (vivo o desde caché)
// @Tags         shoes
// @Produce      json
// @Success      200  {array}   dto.ShoeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/shoes [get]
//
// Cada petición dispara su propio intento de reconciliación: la frecuencia
// de sincronización es la frecuencia de polling del cliente, no un
// calendario del servidor.
func (h *CatalogHandler) List(c *fiber.Ctx) error {
	shoes, source, err := h.uc.Sync(c.UserContext())
	if err != nil {
		if errors.Is(err, domain.ErrNoInventory) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_INVENTORY", Message: "sin inventario disponible"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	c.Set("X-Inventory-Source", string(source))
	return c.JSON(dto.ToShoeResponses(shoes))
}

// Sync godoc
// @Summary      Disparar sincronización manual con el upstream
// @Tags         shoes
// @Produce      json
// @Success      200  {object}  dto.SyncResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/sync-shoes [get]
func (h *CatalogHandler) Sync(c *fiber.Ctx) error {
	shoes, source, err := h.uc.Sync(c.UserContext())
	if err != nil {
		if errors.Is(err, domain.ErrNoInventory) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_INVENTORY", Message: "sin inventario disponible"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := dto.SyncResponse{
		Synced: len(shoes),
		Source: string(source),
		Shoes:  dto.ToShoeResponses(shoes),
	}
	return c.JSON(out)
}

// Proxy godoc
// @Summary      Passthrough del upstream sin tocar la caché
// @Tags         shoes
// @Produce      json
// @Success      200  {array}   dto.ShoeResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Failure      500  {object}  dto.ErrorResponse
// @Router       /api/proxy [get]
func (h *CatalogHandler) Proxy(c *fiber.Ctx) error {
	shoes, err := h.uc.Proxy(c.UserContext())
	if err != nil {
		if errors.Is(err, domain.ErrMalformedUpstream) {
			return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{Code: "NO_SHOES", Message: "el upstream no publicó artículos"})
		}
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "UPSTREAM", Message: "no se pudo alcanzar el upstream"})
	}
	return c.JSON(dto.ToShoeResponses(shoes))
}
