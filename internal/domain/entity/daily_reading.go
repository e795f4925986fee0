package entity

import "github.com/shopspring/decimal"

// DailyReading es la medición de una unidad en un día: nivel (cm) y
// temperatura (°C) crudos más la cantidad (ton) derivada por el conversor.
//
// Quantity es nil salvo que Level y Temperature estén ambos presentes: una
// unidad con un solo dato se trata como "no medida", nunca como cero.
// Quality transporta los atributos de laboratorio (FFA, humedad, DOBI...)
// como mapa opaco; el motor no los calcula ni los interpreta.
type DailyReading struct {
	UnitID           int
	Level            *decimal.Decimal
	Temperature      *decimal.Decimal
	Quantity         *decimal.Decimal
	DensityDefaulted bool
	Quality          map[string]string
}

// Measured reporta si la unidad tiene cantidad derivada.
func (r DailyReading) Measured() bool {
	return r.Quantity != nil
}

// Clear anula todos los campos de la lectura. Se aplica a las unidades
// fuera de included_units antes de persistir: ningún valor fantasma
// sobrevive a una deselección.
func (r *DailyReading) Clear() {
	r.Level = nil
	r.Temperature = nil
	r.Quantity = nil
	r.DensityDefaulted = false
	r.Quality = nil
}
