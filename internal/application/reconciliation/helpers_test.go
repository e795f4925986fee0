package reconciliation_test

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/domain"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
)

// Dobles en memoria de los puertos del motor, al estilo de los repositorios
// de prueba de pkg/infrastructure/repositories/memory.

func dec(s string) decimal.Decimal {
	d, err := decimal.NewFromString(s)
	if err != nil {
		panic(err)
	}
	return d
}

func decPtr(s string) *decimal.Decimal {
	d := dec(s)
	return &d
}

func fecha(s string) time.Time {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		panic(err)
	}
	return t
}

type fakeRecordStore struct {
	records map[string]*entity.DailyStockRecord
	upserts int
}

func newFakeRecordStore() *fakeRecordStore {
	return &fakeRecordStore{records: make(map[string]*entity.DailyStockRecord)}
}

func recordKey(d entity.StorageDomain, date time.Time) string {
	return fmt.Sprintf("%s|%s", d, entity.DateOnly(date).Format("2006-01-02"))
}

func (s *fakeRecordStore) GetByDate(_ context.Context, d entity.StorageDomain, date time.Time) (*entity.DailyStockRecord, error) {
	if r, ok := s.records[recordKey(d, date)]; ok {
		return r, nil
	}
	return nil, domain.ErrNotFound
}

func (s *fakeRecordStore) GetLatest(_ context.Context, d entity.StorageDomain) (*entity.DailyStockRecord, error) {
	var latest *entity.DailyStockRecord
	for _, r := range s.records {
		if r.Domain != d {
			continue
		}
		if latest == nil || r.Date.After(latest.Date) {
			latest = r
		}
	}
	if latest == nil {
		return nil, domain.ErrNotFound
	}
	return latest, nil
}

func (s *fakeRecordStore) Upsert(_ context.Context, record *entity.DailyStockRecord) error {
	s.upserts++
	s.records[recordKey(record.Domain, record.Date)] = record
	return nil
}

// fakeTxRunner entrega el mismo almacén en memoria como "repositorio de la
// transacción"; failWith simula una tx que no puede abrirse o confirmarse.
type fakeTxRunner struct {
	store    *fakeRecordStore
	failWith error
}

func (r *fakeTxRunner) Run(_ context.Context, fn func(records repository.StockRecordRepository) error) error {
	if r.failWith != nil {
		return r.failWith
	}
	return fn(r.store)
}

type fakeUnitRepo struct {
	units []entity.StorageUnit
}

func (r *fakeUnitRepo) ListByDomain(_ context.Context, d entity.StorageDomain) ([]entity.StorageUnit, error) {
	var out []entity.StorageUnit
	for _, u := range r.units {
		if u.Domain == d {
			out = append(out, u)
		}
	}
	return out, nil
}

type fakeDensityRepo struct {
	rows []entity.DensityEntry
}

func (r *fakeDensityRepo) ListAll(_ context.Context) ([]entity.DensityEntry, error) {
	return r.rows, nil
}

type fakeSalesFeed struct {
	amount decimal.Decimal
	err    error
	calls  int
}

func (f *fakeSalesFeed) SalesForDate(_ context.Context, _ entity.StorageDomain, _ time.Time) (decimal.Decimal, error) {
	f.calls++
	if f.err != nil {
		return decimal.Zero, f.err
	}
	return f.amount, nil
}

// Perfiles de prueba compartidos: dos tanques de CPO y un silo de almendra.

func tanqueT101() entity.StorageUnit {
	return entity.StorageUnit{
		ID: 1, Domain: entity.DomainCPO, Kind: entity.UnitKindTank,
		Name: "T-101", Height: dec("10"), Capacity: dec("500"),
	}
}

func tanqueT102() entity.StorageUnit {
	return entity.StorageUnit{
		ID: 2, Domain: entity.DomainCPO, Kind: entity.UnitKindTank,
		Name: "T-102", Height: dec("8"), Capacity: dec("300"),
	}
}

func siloS01() entity.StorageUnit {
	return entity.StorageUnit{
		ID: 7, Domain: entity.DomainKernel, Kind: entity.UnitKindSilo,
		Name: "S-01", BaselineReference: dec("850"), Multiplier: dec("0.25"), AdditiveOffset: dec("12.5"),
	}
}

func densidadBase() []entity.DensityEntry {
	return []entity.DensityEntry{
		{TemperatureInt: 29, Density: dec("0.8845")},
		{TemperatureInt: 30, Density: dec("0.8841")},
		{TemperatureInt: 31, Density: dec("0.8837")},
	}
}
