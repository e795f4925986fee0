package dto

import "github.com/shopspring/decimal"

// YieldDTO rendimiento del día con sus insumos, para auditoría del cálculo.
//
// SaleTotal y KernelTotal exponen el MISMO valor: el tablero heredado
// mostraba dos etiquetas para una sola fórmula y los clientes existentes
// esperan ambas llaves.
type YieldDTO struct {
	Domain           string          `json:"domain"`
	Date             string          `json:"date"`
	TodayTotal       decimal.Decimal `json:"today_total"`
	YesterdayTotal   decimal.Decimal `json:"yesterday_total"`
	Sales            decimal.Decimal `json:"sales"`
	Skim             decimal.Decimal `json:"skim"`
	ProductionIntake decimal.Decimal `json:"production_intake"`
	YieldPct         decimal.Decimal `json:"yield_pct"`
	SaleTotal        decimal.Decimal `json:"sale_total"`
	KernelTotal      decimal.Decimal `json:"kernel_total"`
}

// TrendPointDTO un total diario de la serie histórica.
type TrendPointDTO struct {
	Date          string          `json:"date"`
	Mode          string          `json:"mode"`
	TotalQuantity decimal.Decimal `json:"total_quantity"`
}

// TrendResponse serie para graficar. UsingSampleData marca de forma
// explícita cuando el almacén está vacío y los puntos son ilustrativos.
type TrendResponse struct {
	Domain          string          `json:"domain"`
	Points          []TrendPointDTO `json:"points"`
	UsingSampleData bool            `json:"using_sample_data"`
}
