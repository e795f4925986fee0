package reconciliation_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jdvergara/extractora-api/internal/application/reconciliation"
	"github.com/jdvergara/extractora-api/internal/domain"
	"github.com/jdvergara/extractora-api/internal/domain/conversion"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
)

func newCarryUC(store *fakeRecordStore, feed *fakeSalesFeed, units ...entity.StorageUnit) *reconciliation.CarryForwardUseCase {
	return reconciliation.NewCarryForwardUseCase(
		store,
		&fakeTxRunner{store: store},
		&fakeUnitRepo{units: units},
		&fakeDensityRepo{rows: densidadBase()},
		feed,
		dec("0.8900"),
		nil,
	)
}

// sembrarDiaAnterior deja en el almacén un registro production del 9 de
// marzo con T-101 en 100 ton a 30 °C.
func sembrarDiaAnterior(store *fakeRecordStore) {
	store.records[recordKey(entity.DomainCPO, fecha("2026-03-09"))] = &entity.DailyStockRecord{
		ID:            "prev-id",
		Domain:        entity.DomainCPO,
		Date:          entity.DateOnly(fecha("2026-03-09")),
		Mode:          entity.ModeProduction,
		IncludedUnits: []int{1},
		Readings: []entity.DailyReading{
			{
				UnitID:      1,
				Level:       decPtr("226.218"),
				Temperature: decPtr("30"),
				Quantity:    decPtr("100"),
				Quality:     map[string]string{"ffa": "3.1"},
			},
		},
		TotalQuantity: dec("100"),
	}
}

// TestCarryForward_RestaDespachos: 100 ton del día anterior menos 12.5 ton
// despachadas → 87.5 ton, con el nivel derivado por conversión inversa a la
// temperatura del día anterior.
func TestCarryForward_RestaDespachos(t *testing.T) {
	store := newFakeRecordStore()
	sembrarDiaAnterior(store)
	feed := &fakeSalesFeed{amount: dec("12.5")}
	uc := newCarryUC(store, feed, tanqueT101())

	record, err := uc.Execute(context.Background(), reconciliation.CarryForwardInput{
		Domain: entity.DomainCPO,
		Date:   fecha("2026-03-10"),
		UserID: "auto-scheduler",
	})

	require.NoError(t, err)
	assert.Equal(t, entity.ModeNoProduction, record.Mode)
	assert.Equal(t, []int{1}, record.IncludedUnits)

	r1 := record.Reading(1)
	require.NotNil(t, r1)
	require.NotNil(t, r1.Quantity)
	assert.True(t, dec("87.5").Equal(*r1.Quantity), "100 - 12.5 = 87.5 ton")
	assert.True(t, dec("87.5").Equal(record.TotalQuantity))

	// La temperatura y la calidad viajan del día anterior.
	require.NotNil(t, r1.Temperature)
	assert.True(t, dec("30").Equal(*r1.Temperature))
	assert.Equal(t, "3.1", r1.Quality["ffa"])

	// El nivel derivado debe ser el inverso exacto: volver a convertir hacia
	// adelante reproduce la cantidad tras venta dentro de 0.01 ton.
	require.NotNil(t, r1.Level)
	fwd := conversion.Forward(tanqueT101(), r1.Level, r1.Temperature,
		conversion.NewDensityTable(densidadBase(), dec("0.8900")))
	require.NotNil(t, fwd)
	diff := fwd.Quantity.Sub(dec("87.5")).Abs()
	assert.True(t, diff.LessThanOrEqual(dec("0.01")),
		"el nivel derivado se desvió %s ton al reconvertir", diff)
}

func TestCarryForward_SkimSeSuma(t *testing.T) {
	store := newFakeRecordStore()
	sembrarDiaAnterior(store)
	uc := newCarryUC(store, &fakeSalesFeed{amount: dec("12.5")}, tanqueT101())

	record, err := uc.Execute(context.Background(), reconciliation.CarryForwardInput{
		Domain:      entity.DomainCPO,
		Date:        fecha("2026-03-10"),
		Corrections: entity.Corrections{Skim: dec("2")},
		UserID:      "auto-scheduler",
	})

	require.NoError(t, err)
	assert.True(t, dec("89.5").Equal(record.TotalQuantity), "87.5 + skim 2 = 89.5")
}

func TestCarryForward_SinRegistroAnterior(t *testing.T) {
	store := newFakeRecordStore()
	uc := newCarryUC(store, &fakeSalesFeed{}, tanqueT101())

	_, err := uc.Execute(context.Background(), reconciliation.CarryForwardInput{
		Domain: entity.DomainCPO,
		Date:   fecha("2026-03-10"),
	})

	assert.ErrorIs(t, err, domain.ErrNoPreviousRecord)
	assert.Empty(t, store.records, "sin día anterior no se persiste nada")
}

// TestCarryForward_FeedCaidoNoPersiste: si el colaborador de despachos
// falla, el arrastre aborta completo sin escribir estado parcial.
func TestCarryForward_FeedCaidoNoPersiste(t *testing.T) {
	store := newFakeRecordStore()
	sembrarDiaAnterior(store)
	feed := &fakeSalesFeed{err: errors.New("timeout del ERP")}
	uc := newCarryUC(store, feed, tanqueT101())

	_, err := uc.Execute(context.Background(), reconciliation.CarryForwardInput{
		Domain: entity.DomainCPO,
		Date:   fecha("2026-03-10"),
	})

	assert.ErrorIs(t, err, domain.ErrFeedUnavailable)
	assert.Equal(t, 0, store.upserts, "una falla del feed jamás deja escritura parcial")
}

// TestCarryForward_NoMedidaSigueNula: una unidad sin cantidad en el día
// anterior se arrastra como no medida y queda fuera de included_units.
func TestCarryForward_NoMedidaSigueNula(t *testing.T) {
	store := newFakeRecordStore()
	sembrarDiaAnterior(store)
	uc := newCarryUC(store, &fakeSalesFeed{amount: dec("12.5")}, tanqueT101(), tanqueT102())

	record, err := uc.Execute(context.Background(), reconciliation.CarryForwardInput{
		Domain: entity.DomainCPO,
		Date:   fecha("2026-03-10"),
	})

	require.NoError(t, err)
	assert.Equal(t, []int{1}, record.IncludedUnits, "solo T-101 estaba medida el día anterior")

	r2 := record.Reading(2)
	require.NotNil(t, r2)
	assert.Nil(t, r2.Quantity)
	assert.Nil(t, r2.Level)
}

// TestCarryForward_SiloSinNivelDerivado: los silos arrastran cantidad pero
// no derivan nivel (la recta de aforo no se invierte).
func TestCarryForward_SiloSinNivelDerivado(t *testing.T) {
	store := newFakeRecordStore()
	store.records[recordKey(entity.DomainKernel, fecha("2026-03-09"))] = &entity.DailyStockRecord{
		ID:            "prev-silo",
		Domain:        entity.DomainKernel,
		Date:          entity.DateOnly(fecha("2026-03-09")),
		Mode:          entity.ModeProduction,
		IncludedUnits: []int{7},
		Readings: []entity.DailyReading{
			{UnitID: 7, Level: decPtr("600"), Quantity: decPtr("75")},
		},
		TotalQuantity: dec("75"),
	}
	uc := newCarryUC(store, &fakeSalesFeed{amount: dec("5")}, siloS01())

	record, err := uc.Execute(context.Background(), reconciliation.CarryForwardInput{
		Domain: entity.DomainKernel,
		Date:   fecha("2026-03-10"),
	})

	require.NoError(t, err)
	r7 := record.Reading(7)
	require.NotNil(t, r7)
	require.NotNil(t, r7.Quantity)
	assert.True(t, dec("70").Equal(*r7.Quantity), "75 - 5 = 70 ton")
	assert.Nil(t, r7.Level, "un silo arrastrado no tiene nivel derivado")
}

// TestCarryForward_VentaMayorQueStock: el resultado negativo se conserva
// como está (la corrección es responsabilidad del operador, no del motor).
func TestCarryForward_VentaMayorQueStock(t *testing.T) {
	store := newFakeRecordStore()
	sembrarDiaAnterior(store)
	uc := newCarryUC(store, &fakeSalesFeed{amount: dec("120")}, tanqueT101())

	record, err := uc.Execute(context.Background(), reconciliation.CarryForwardInput{
		Domain: entity.DomainCPO,
		Date:   fecha("2026-03-10"),
	})

	require.NoError(t, err)
	assert.True(t, dec("-20").Equal(record.TotalQuantity),
		"100 - 120 = -20: el motor registra el faltante, no lo oculta")
}

// TestCarryForward_Encadenado: dos arrastres seguidos restan los despachos
// de cada día en cadena.
func TestCarryForward_Encadenado(t *testing.T) {
	store := newFakeRecordStore()
	sembrarDiaAnterior(store)
	uc := newCarryUC(store, &fakeSalesFeed{amount: dec("10")}, tanqueT101())

	_, err := uc.Execute(context.Background(), reconciliation.CarryForwardInput{
		Domain: entity.DomainCPO, Date: fecha("2026-03-10"),
	})
	require.NoError(t, err)

	record, err := uc.Execute(context.Background(), reconciliation.CarryForwardInput{
		Domain: entity.DomainCPO, Date: fecha("2026-03-11"),
	})
	require.NoError(t, err)
	assert.True(t, dec("80").Equal(record.TotalQuantity), "100 - 10 - 10 = 80")
}
