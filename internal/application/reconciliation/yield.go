package reconciliation

import "github.com/shopspring/decimal"

var porCiento = decimal.NewFromInt(100)

// ComputeYield calcula el rendimiento del día como porcentaje:
//
//	numerador  = total_hoy − (total_ayer − despachos)
//	rendimiento = ((numerador − skim) / fruta_procesada) * 100
//
// redondeado a 3 decimales. Con fruta_procesada <= 0 el rendimiento es 0
// por política (día sin proceso), nunca un error ni una división inválida.
func ComputeYield(todayTotal, yesterdayTotal, sales, skim, productionIntake decimal.Decimal) decimal.Decimal {
	if productionIntake.LessThanOrEqual(decimal.Zero) {
		return decimal.Zero
	}
	numerator := todayTotal.Sub(yesterdayTotal.Sub(sales))
	return numerator.Sub(skim).Div(productionIntake).Mul(porCiento).Round(3)
}
