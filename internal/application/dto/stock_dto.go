package dto

import (
	"github.com/shopspring/decimal"
)

// ReadingRequest medición cruda de una unidad. Level y Temperature son
// punteros: ausente significa "no medido", nunca cero.
type ReadingRequest struct {
	UnitID      int               `json:"unit_id"`
	Level       *decimal.Decimal  `json:"level"`
	Temperature *decimal.Decimal  `json:"temperature"`
	Quality     map[string]string `json:"quality,omitempty"`
}

// CorrectionsRequest términos de corrección del día.
type CorrectionsRequest struct {
	Skim     decimal.Decimal `json:"skim"`
	Mix      decimal.Decimal `json:"mix"`
	LoopBack decimal.Decimal `json:"loop_back"`
}

// SubmitDayRequest envío del día para un dominio de almacenamiento.
// En mode=no_production las lecturas se ignoran: el inventario se deriva
// del día anterior menos despachos.
type SubmitDayRequest struct {
	Date          string             `json:"date"` // YYYY-MM-DD
	Mode          string             `json:"mode"` // production | no_production
	IncludedUnits []int              `json:"included_units"`
	Readings      []ReadingRequest   `json:"readings"`
	Corrections   CorrectionsRequest `json:"corrections"`
}

// ReadingResponse lectura persistida de una unidad.
type ReadingResponse struct {
	UnitID           int               `json:"unit_id"`
	Level            *decimal.Decimal  `json:"level"`
	Temperature      *decimal.Decimal  `json:"temperature"`
	Quantity         *decimal.Decimal  `json:"quantity"`
	DensityDefaulted bool              `json:"density_defaulted,omitempty"`
	Quality          map[string]string `json:"quality,omitempty"`
}

// StockRecordResponse registro diario completo.
type StockRecordResponse struct {
	ID            string             `json:"id"`
	Domain        string             `json:"domain"`
	Date          string             `json:"date"`
	Mode          string             `json:"mode"`
	IncludedUnits []int              `json:"included_units"`
	Readings      []ReadingResponse  `json:"readings"`
	Corrections   CorrectionsRequest `json:"corrections"`
	TotalQuantity decimal.Decimal    `json:"total_quantity"`
}

// StorageUnitResponse perfil de referencia de un tanque o silo.
type StorageUnitResponse struct {
	ID                int             `json:"id"`
	Domain            string          `json:"domain"`
	Kind              string          `json:"kind"`
	Name              string          `json:"name"`
	Height            decimal.Decimal `json:"height"`
	Capacity          decimal.Decimal `json:"capacity"`
	BaselineReference decimal.Decimal `json:"baseline_reference"`
	Multiplier        decimal.Decimal `json:"multiplier"`
	AdditiveOffset    decimal.Decimal `json:"additive_offset"`
}
