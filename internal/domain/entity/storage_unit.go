package entity

import "github.com/shopspring/decimal"

// StorageDomain separa los dos inventarios diarios de la planta:
// aceite crudo (tanques) y almendra/nuez (silos).
type StorageDomain string

const (
	DomainCPO    StorageDomain = "cpo"
	DomainKernel StorageDomain = "kernel"
)

// Valid reporta si el dominio es uno de los conocidos.
func (d StorageDomain) Valid() bool {
	return d == DomainCPO || d == DomainKernel
}

// Tipos de unidad de almacenamiento.
const (
	UnitKindTank = "tank" // tanque vertical de CPO, conversión volumétrica
	UnitKindSilo = "silo" // silo de almendra/nuez, conversión afín por aforo
)

// StorageUnit es el perfil geométrico de un tanque o silo. Datos de
// referencia inmutables: el motor los lee, nunca los modifica.
//
// Tanques: Height (m) y Capacity (m³) alimentan la fórmula volumétrica.
// Silos: BaselineReference es la lectura de aforo con el silo vacío
// (614, 640, 920, 870 según unidad); Multiplier y AdditiveOffset son los
// coeficientes fijos de la recta de conversión.
type StorageUnit struct {
	ID                int
	Domain            StorageDomain
	Kind              string // tank | silo
	Name              string
	Height            decimal.Decimal
	Capacity          decimal.Decimal
	BaselineReference decimal.Decimal
	Multiplier        decimal.Decimal
	AdditiveOffset    decimal.Decimal
}
