package reconciliation_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/jdvergara/extractora-api/internal/application/reconciliation"
)

// TestComputeYield_VectorBase:
//
//	numerador  = 110 − (100 − 20) = 30
//	rendimiento = (30 − 2) / 80 * 100 = 35
func TestComputeYield_VectorBase(t *testing.T) {
	got := reconciliation.ComputeYield(dec("110"), dec("100"), dec("20"), dec("2"), dec("80"))
	assert.True(t, dec("35").Equal(got), "esperado 35%%, obtuvo %s", got)
}

// TestComputeYield_Redondeo3Decimales: 1/3 * 100 debe salir como 33.333.
func TestComputeYield_Redondeo3Decimales(t *testing.T) {
	got := reconciliation.ComputeYield(dec("101"), dec("100"), dec("0"), dec("0"), dec("3"))
	assert.True(t, dec("33.333").Equal(got), "esperado 33.333, obtuvo %s", got)
}

// TestComputeYield_SinFrutaProcesada: con fruta_procesada <= 0 el rendimiento
// es 0 por política, nunca una división inválida.
func TestComputeYield_SinFrutaProcesada(t *testing.T) {
	assert.True(t, reconciliation.ComputeYield(dec("110"), dec("100"), dec("20"), dec("2"), decimal.Zero).IsZero())
	assert.True(t, reconciliation.ComputeYield(dec("110"), dec("100"), dec("20"), dec("2"), dec("-5")).IsZero())
}

// TestComputeYield_PuedeSerNegativo: un día con merma (skim mayor que la
// variación real) produce rendimiento negativo y se reporta tal cual.
func TestComputeYield_PuedeSerNegativo(t *testing.T) {
	got := reconciliation.ComputeYield(dec("100"), dec("100"), dec("0"), dec("5"), dec("50"))
	assert.True(t, dec("-10").Equal(got), "(0 - 5) / 50 * 100 = -10%%, obtuvo %s", got)
}

// TestComputeYield_DespachosAumentanNumerador: vender no puede castigar el
// rendimiento; los despachos del día vuelven a sumarse.
func TestComputeYield_DespachosAumentanNumerador(t *testing.T) {
	sinVenta := reconciliation.ComputeYield(dec("100"), dec("100"), dec("0"), dec("0"), dec("50"))
	conVenta := reconciliation.ComputeYield(dec("100"), dec("100"), dec("30"), dec("0"), dec("50"))
	assert.True(t, conVenta.GreaterThan(sinVenta))
	assert.True(t, dec("60").Equal(conVenta), "30 / 50 * 100 = 60%%, obtuvo %s", conVenta)
}
