package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jdvergara/extractora-api/internal/application/dto"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
)

// StorageUnitHandler listado read-only de perfiles de tanques y silos.
type StorageUnitHandler struct {
	units repository.StorageUnitRepository
}

// NewStorageUnitHandler construye el handler.
func NewStorageUnitHandler(units repository.StorageUnitRepository) *StorageUnitHandler {
	return &StorageUnitHandler{units: units}
}

// List godoc
// @Summary      Perfiles de tanques y silos del dominio
// @Tags         storage-units
// @Security     Bearer
// @Produce      json
// @Param        domain  query  string  true  "cpo | kernel"
// @Success      200  {array}   dto.StorageUnitResponse
// @Failure      400  {object}  dto.ErrorResponse
// @Router       /api/storage-units [get]
func (h *StorageUnitHandler) List(c *fiber.Ctx) error {
	d := entity.StorageDomain(c.Query("domain"))
	if !d.Valid() {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "VALIDATION", Message: "dominio desconocido"})
	}
	units, err := h.units.ListByDomain(c.Context(), d)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{Code: "INTERNAL", Message: err.Error()})
	}
	out := make([]dto.StorageUnitResponse, 0, len(units))
	for _, u := range units {
		out = append(out, dto.StorageUnitResponse{
			ID:                u.ID,
			Domain:            string(u.Domain),
			Kind:              u.Kind,
			Name:              u.Name,
			Height:            u.Height,
			Capacity:          u.Capacity,
			BaselineReference: u.BaselineReference,
			Multiplier:        u.Multiplier,
			AdditiveOffset:    u.AdditiveOffset,
		})
	}
	return c.JSON(fiber.Map{"total": len(out), "units": out})
}
