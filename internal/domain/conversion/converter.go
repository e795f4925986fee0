// Package conversion implementa el conversor nivel↔cantidad del motor de
// conciliación: funciones puras parametrizadas por el perfil de la unidad
// y la densidad a la temperatura medida.
package conversion

import (
	"errors"

	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/domain/entity"
)

// ErrReverseUnsupported: los silos solo convierten hacia adelante; pedir la
// conversión inversa de un silo es un error de programación, no de negocio.
var ErrReverseUnsupported = errors.New("conversión inversa no soportada para silos")

var cien = decimal.NewFromInt(100)

// Result es el producto de una conversión hacia adelante: la cantidad en
// toneladas y la marca de si se aplicó la densidad por defecto.
type Result struct {
	Quantity         decimal.Decimal
	DensityDefaulted bool
}

// Forward convierte la medición cruda de una unidad en cantidad (ton).
//
// Tanques: densidad a la temperatura redondeada y
//
//	qty_per_cm = capacity * density / (height * 100)
//	quantity   = level * qty_per_cm
//
// Silos: recta de aforo con coeficientes fijos del perfil:
//
//	quantity = (baseline_reference - level) * multiplier + additive_offset
//
// Devuelve nil si falta el nivel (o, en tanques, la temperatura): una
// medición incompleta es "no medida", jamás cero.
func Forward(unit entity.StorageUnit, level, temperature *decimal.Decimal, table DensityTable) *Result {
	if level == nil {
		return nil
	}
	if unit.Kind == entity.UnitKindSilo {
		qty := unit.BaselineReference.Sub(*level).Mul(unit.Multiplier).Add(unit.AdditiveOffset)
		return &Result{Quantity: qty}
	}
	if temperature == nil {
		return nil
	}
	perCM, defaulted, ok := quantityPerCM(unit, *temperature, table)
	if !ok {
		return nil
	}
	return &Result{
		Quantity:         level.Mul(perCM),
		DensityDefaulted: defaulted,
	}
}

// Reverse deriva el nivel (cm) que corresponde a una cantidad, usando la
// misma búsqueda de densidad que Forward. Es el inverso algebraico exacto:
// level = quantity / qty_per_cm. Solo aplica a tanques.
func Reverse(unit entity.StorageUnit, quantity, temperature decimal.Decimal, table DensityTable) (decimal.Decimal, bool, error) {
	if unit.Kind == entity.UnitKindSilo {
		return decimal.Zero, false, ErrReverseUnsupported
	}
	perCM, defaulted, ok := quantityPerCM(unit, temperature, table)
	if !ok || perCM.IsZero() {
		return decimal.Zero, defaulted, errors.New("perfil de tanque sin geometría válida")
	}
	return quantity.Div(perCM), defaulted, nil
}

// quantityPerCM calcula las toneladas por centímetro de columna para un
// tanque. ok=false si el perfil no tiene geometría utilizable.
func quantityPerCM(unit entity.StorageUnit, temperature decimal.Decimal, table DensityTable) (perCM decimal.Decimal, defaulted, ok bool) {
	if unit.Height.LessThanOrEqual(decimal.Zero) || unit.Capacity.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero, false, false
	}
	density, defaulted := table.Lookup(temperature)
	perCM = unit.Capacity.Mul(density).Div(unit.Height.Mul(cien))
	return perCM, defaulted, true
}
