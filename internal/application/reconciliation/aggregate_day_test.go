package reconciliation_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdvergara/extractora-api/internal/application/reconciliation"
	"github.com/jdvergara/extractora-api/internal/domain"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
)

func newAggregateUC(store *fakeRecordStore, units ...entity.StorageUnit) *reconciliation.AggregateDayUseCase {
	return reconciliation.NewAggregateDayUseCase(
		&fakeTxRunner{store: store},
		&fakeUnitRepo{units: units},
		&fakeDensityRepo{rows: densidadBase()},
		dec("0.8900"),
		nil,
	)
}

// TestAggregateDay_TotalDerivado valida el camino completo con dos tanques:
//
//	T-101: 250 cm a 30 °C → 250 * (500*0.8841/1000) = 110.5125 ton
//	T-102: 400 cm a 29 °C → 400 * (300*0.8845/800)  = 132.675  ton
//	skim 1.5 → total = 244.6875
func TestAggregateDay_TotalDerivado(t *testing.T) {
	store := newFakeRecordStore()
	uc := newAggregateUC(store, tanqueT101(), tanqueT102())

	record, err := uc.Execute(context.Background(), reconciliation.DayInput{
		Domain:        entity.DomainCPO,
		Date:          fecha("2026-03-10"),
		IncludedUnits: []int{1, 2},
		Readings: []reconciliation.ReadingInput{
			{UnitID: 1, Level: decPtr("250"), Temperature: decPtr("30")},
			{UnitID: 2, Level: decPtr("400"), Temperature: decPtr("29")},
		},
		Corrections: entity.Corrections{Skim: dec("1.5")},
		UserID:      "lab-01",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ModeProduction, record.Mode)
	assert.True(t, dec("244.6875").Equal(record.TotalQuantity),
		"total esperado 244.6875, obtuvo %s", record.TotalQuantity)

	r1 := record.Reading(1)
	require.NotNil(t, r1)
	require.NotNil(t, r1.Quantity)
	assert.True(t, dec("110.5125").Equal(*r1.Quantity))
	assert.Len(t, store.records, 1, "el registro debe quedar persistido")
}

// TestAggregateDay_ExcluidaQuedaNula: una unidad fuera de included_units
// termina con la lectura completamente nula aunque el formulario traiga
// datos para ella.
func TestAggregateDay_ExcluidaQuedaNula(t *testing.T) {
	store := newFakeRecordStore()
	uc := newAggregateUC(store, tanqueT101(), tanqueT102())

	record, err := uc.Execute(context.Background(), reconciliation.DayInput{
		Domain:        entity.DomainCPO,
		Date:          fecha("2026-03-10"),
		IncludedUnits: []int{1},
		Readings: []reconciliation.ReadingInput{
			{UnitID: 1, Level: decPtr("250"), Temperature: decPtr("30")},
			{UnitID: 2, Level: decPtr("400"), Temperature: decPtr("29"), Quality: map[string]string{"ffa": "3.2"}},
		},
		UserID: "lab-01",
	})

	require.NoError(t, err)
	assert.True(t, dec("110.5125").Equal(record.TotalQuantity),
		"solo T-101 aporta al total; el dato fantasma de T-102 no puede sobrevivir")

	r2 := record.Reading(2)
	require.NotNil(t, r2)
	assert.Nil(t, r2.Level)
	assert.Nil(t, r2.Temperature)
	assert.Nil(t, r2.Quantity)
	assert.Empty(t, r2.Quality)
}

// TestAggregateDay_MedicionIncompleta: nivel sin temperatura en un tanque
// es "no medida": no aporta al total y la cantidad queda nil.
func TestAggregateDay_MedicionIncompleta(t *testing.T) {
	store := newFakeRecordStore()
	uc := newAggregateUC(store, tanqueT101(), tanqueT102())

	record, err := uc.Execute(context.Background(), reconciliation.DayInput{
		Domain:        entity.DomainCPO,
		Date:          fecha("2026-03-10"),
		IncludedUnits: []int{1, 2},
		Readings: []reconciliation.ReadingInput{
			{UnitID: 1, Level: decPtr("250"), Temperature: decPtr("30")},
			{UnitID: 2, Level: decPtr("400")}, // sin temperatura
		},
		UserID: "lab-01",
	})

	require.NoError(t, err)
	assert.True(t, dec("110.5125").Equal(record.TotalQuantity))

	r2 := record.Reading(2)
	require.NotNil(t, r2)
	assert.Nil(t, r2.Quantity, "sin temperatura no hay cantidad, nunca cero")
	assert.NotNil(t, r2.Level, "el nivel crudo sí se conserva para auditoría")
}

func TestAggregateDay_SinUnidadesIncluidas(t *testing.T) {
	store := newFakeRecordStore()
	uc := newAggregateUC(store, tanqueT101())

	record, err := uc.Execute(context.Background(), reconciliation.DayInput{
		Domain: entity.DomainCPO,
		Date:   fecha("2026-03-10"),
		UserID: "lab-01",
	})

	require.NoError(t, err)
	assert.True(t, record.TotalQuantity.IsZero(),
		"día válido sin unidades incluidas: total 0")
}

func TestAggregateDay_UnidadDesconocida(t *testing.T) {
	store := newFakeRecordStore()
	uc := newAggregateUC(store, tanqueT101())

	_, err := uc.Execute(context.Background(), reconciliation.DayInput{
		Domain:        entity.DomainCPO,
		Date:          fecha("2026-03-10"),
		IncludedUnits: []int{99},
		UserID:        "lab-01",
	})

	assert.ErrorIs(t, err, domain.ErrInvalidInput,
		"incluir una unidad no configurada debe rechazarse antes de calcular")
	assert.Empty(t, store.records)
}

func TestAggregateDay_DominioInvalido(t *testing.T) {
	uc := newAggregateUC(newFakeRecordStore(), tanqueT101())

	_, err := uc.Execute(context.Background(), reconciliation.DayInput{
		Domain: "aceituna",
		Date:   fecha("2026-03-10"),
	})
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

// TestAggregateDay_ReenvioEsActualizacion: reenviar el mismo día reemplaza
// el registro, no lo duplica.
func TestAggregateDay_ReenvioEsActualizacion(t *testing.T) {
	store := newFakeRecordStore()
	uc := newAggregateUC(store, tanqueT101())

	in := reconciliation.DayInput{
		Domain:        entity.DomainCPO,
		Date:          fecha("2026-03-10"),
		IncludedUnits: []int{1},
		Readings: []reconciliation.ReadingInput{
			{UnitID: 1, Level: decPtr("250"), Temperature: decPtr("30")},
		},
		UserID: "lab-01",
	}
	_, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	in.Readings[0].Level = decPtr("260")
	segundo, err := uc.Execute(context.Background(), in)
	require.NoError(t, err)

	assert.Len(t, store.records, 1, "la clave natural es (dominio, fecha): un solo registro")
	assert.Equal(t, 2, store.upserts)
	guardado := store.records[recordKey(entity.DomainCPO, fecha("2026-03-10"))]
	assert.True(t, segundo.TotalQuantity.Equal(guardado.TotalQuantity),
		"el registro guardado debe reflejar el último envío")
}

// TestAggregateDay_DensidadPorDefectoMarcada: temperatura fuera de tabla usa
// la densidad configurada y deja la marca en la lectura.
func TestAggregateDay_DensidadPorDefectoMarcada(t *testing.T) {
	store := newFakeRecordStore()
	uc := newAggregateUC(store, tanqueT101())

	record, err := uc.Execute(context.Background(), reconciliation.DayInput{
		Domain:        entity.DomainCPO,
		Date:          fecha("2026-03-10"),
		IncludedUnits: []int{1},
		Readings: []reconciliation.ReadingInput{
			{UnitID: 1, Level: decPtr("100"), Temperature: decPtr("45")},
		},
		UserID: "lab-01",
	})

	require.NoError(t, err)
	r1 := record.Reading(1)
	require.NotNil(t, r1)
	assert.True(t, r1.DensityDefaulted)
	require.NotNil(t, r1.Quantity)
	assert.True(t, dec("44.5").Equal(*r1.Quantity), "100 cm con densidad 0.8900 → 44.5 ton")
}

func TestAggregateDay_SiloDeAlmendra(t *testing.T) {
	store := newFakeRecordStore()
	uc := newAggregateUC(store, siloS01())

	record, err := uc.Execute(context.Background(), reconciliation.DayInput{
		Domain:        entity.DomainKernel,
		Date:          fecha("2026-03-10"),
		IncludedUnits: []int{7},
		Readings: []reconciliation.ReadingInput{
			{UnitID: 7, Level: decPtr("600")},
		},
		UserID: "lab-01",
	})

	require.NoError(t, err)
	assert.True(t, dec("75").Equal(record.TotalQuantity),
		"(850-600)*0.25+12.5 = 75 ton sin necesidad de temperatura")
}

// ── ValidateInclusion ─────────────────────────────────────────────────────────

func TestValidateInclusion_DetectaFantasma(t *testing.T) {
	record := &entity.DailyStockRecord{
		IncludedUnits: []int{1},
		Readings: []entity.DailyReading{
			{UnitID: 1, Quantity: decPtr("10")},
			{UnitID: 2, Quantity: decPtr("5")}, // excluida pero con cantidad
		},
	}
	err := reconciliation.ValidateInclusion(record)
	assert.ErrorIs(t, err, domain.ErrInclusionViolation)
}

func TestValidateInclusion_RegistroLimpio(t *testing.T) {
	record := &entity.DailyStockRecord{
		IncludedUnits: []int{1},
		Readings: []entity.DailyReading{
			{UnitID: 1, Quantity: decPtr("10")},
			{UnitID: 2},
		},
	}
	assert.NoError(t, reconciliation.ValidateInclusion(record))
}
