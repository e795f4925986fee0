package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Modos de un registro diario de inventario.
const (
	ModeProduction   = "production"    // día con mediciones frescas de nivel/temperatura
	ModeNoProduction = "no_production" // día sin medición: arrastre del día anterior menos despachos
)

// Corrections términos aditivos del total del día. Skim es el recuperado
// del proceso secundario y entra directo al total; Mix y LoopBack se
// registran pero no alteran el total.
type Corrections struct {
	Skim     decimal.Decimal
	Mix      decimal.Decimal
	LoopBack decimal.Decimal
}

// DailyStockRecord es el registro de inventario de un día para un dominio
// de almacenamiento (tanques CPO o silos de almendra). La clave natural es
// (Domain, Date): volver a enviar el mismo día es una actualización, nunca
// un duplicado.
//
// TotalQuantity es siempre un valor derivado (suma de cantidades incluidas
// más Skim); no se edita de forma independiente.
type DailyStockRecord struct {
	ID            string
	Domain        StorageDomain
	Date          time.Time // normalizada a medianoche UTC, solo la fecha importa
	Mode          string    // production | no_production
	IncludedUnits []int
	Readings      []DailyReading
	Corrections   Corrections
	TotalQuantity decimal.Decimal
	CreatedBy     string
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// IsIncluded reporta si la unidad está en el conjunto included_units.
func (r *DailyStockRecord) IsIncluded(unitID int) bool {
	for _, id := range r.IncludedUnits {
		if id == unitID {
			return true
		}
	}
	return false
}

// Reading devuelve la lectura de la unidad, o nil si no existe.
func (r *DailyStockRecord) Reading(unitID int) *DailyReading {
	for i := range r.Readings {
		if r.Readings[i].UnitID == unitID {
			return &r.Readings[i]
		}
	}
	return nil
}

// DateOnly normaliza un instante a su fecha calendario en UTC.
// Todas las claves de fecha del motor pasan por aquí.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
