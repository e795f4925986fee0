// Package analytics contiene los casos de uso read-only del tablero de
// operaciones: rendimiento del día y serie histórica de totales.
package analytics

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/application/dto"
	"github.com/jdvergara/extractora-api/internal/application/reconciliation"
	"github.com/jdvergara/extractora-api/internal/domain"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
)

const trendDefaultDays = 30

// DashboardUseCase compone almacén de registros y feeds externos en las
// cifras del tablero. No escribe nada.
type DashboardUseCase struct {
	records       repository.StockRecordRepository
	analyticsRepo repository.AnalyticsRepository
	salesFeed     reconciliation.SalesFeed
	production    reconciliation.ProductionFeed
}

// NewDashboardUseCase construye el caso de uso.
func NewDashboardUseCase(
	records repository.StockRecordRepository,
	analyticsRepo repository.AnalyticsRepository,
	salesFeed reconciliation.SalesFeed,
	production reconciliation.ProductionFeed,
) *DashboardUseCase {
	return &DashboardUseCase{
		records:       records,
		analyticsRepo: analyticsRepo,
		salesFeed:     salesFeed,
		production:    production,
	}
}

// GetYield arma el rendimiento del día para el dominio indicado.
//
// Cuatro lecturas independientes en paralelo:
//  1. registro de hoy (obligatorio)
//  2. registro de ayer (ausente → total cero, arranque de histórico)
//  3. despachos del día
//  4. fruta procesada del día (ausente → cero)
func (uc *DashboardUseCase) GetYield(
	ctx context.Context,
	d entity.StorageDomain,
	date time.Time,
) (*dto.YieldDTO, error) {
	if !d.Valid() {
		return nil, domain.ErrInvalidInput
	}
	date = entity.DateOnly(date)

	type recordResult struct {
		rec *entity.DailyStockRecord
		err error
	}
	type scalarResult struct {
		val decimal.Decimal
		err error
	}

	todayCh := make(chan recordResult, 1)
	prevCh := make(chan recordResult, 1)
	salesCh := make(chan scalarResult, 1)
	intakeCh := make(chan scalarResult, 1)

	go func() {
		rec, err := uc.records.GetByDate(ctx, d, date)
		todayCh <- recordResult{rec, err}
	}()
	go func() {
		rec, err := uc.records.GetByDate(ctx, d, date.AddDate(0, 0, -1))
		prevCh <- recordResult{rec, err}
	}()
	go func() {
		val, err := uc.salesFeed.SalesForDate(ctx, d, date)
		salesCh <- scalarResult{val, err}
	}()
	go func() {
		val, err := uc.production.IntakeForDate(ctx, date)
		intakeCh <- scalarResult{val, err}
	}()

	today := <-todayCh
	prev := <-prevCh
	sales := <-salesCh
	intake := <-intakeCh

	if today.err != nil {
		return nil, fmt.Errorf("rendimiento: registro de hoy: %w", today.err)
	}
	yesterdayTotal := decimal.Zero
	if prev.err != nil {
		if !errors.Is(prev.err, domain.ErrNotFound) {
			return nil, fmt.Errorf("rendimiento: registro de ayer: %w", prev.err)
		}
	} else {
		yesterdayTotal = prev.rec.TotalQuantity
	}
	if sales.err != nil {
		return nil, fmt.Errorf("rendimiento: despachos: %w: %v", domain.ErrFeedUnavailable, sales.err)
	}
	if intake.err != nil {
		return nil, fmt.Errorf("rendimiento: fruta procesada: %w: %v", domain.ErrFeedUnavailable, intake.err)
	}

	skim := today.rec.Corrections.Skim
	yield := reconciliation.ComputeYield(today.rec.TotalQuantity, yesterdayTotal, sales.val, skim, intake.val)

	// sale_total y kernel_total: una sola fórmula, dos etiquetas heredadas.
	saleTotal := today.rec.TotalQuantity

	return &dto.YieldDTO{
		Domain:           string(d),
		Date:             date.Format("2006-01-02"),
		TodayTotal:       today.rec.TotalQuantity,
		YesterdayTotal:   yesterdayTotal,
		Sales:            sales.val,
		Skim:             skim,
		ProductionIntake: intake.val,
		YieldPct:         yield,
		SaleTotal:        saleTotal,
		KernelTotal:      saleTotal,
	}, nil
}

// GetTrend devuelve la serie de totales de los últimos `days` días. Si el
// almacén no tiene filas para el rango, responde una serie ilustrativa con
// UsingSampleData=true; el caller decide cómo presentarla.
func (uc *DashboardUseCase) GetTrend(
	ctx context.Context,
	d entity.StorageDomain,
	days int,
) (*dto.TrendResponse, error) {
	if !d.Valid() {
		return nil, domain.ErrInvalidInput
	}
	if days <= 0 {
		days = trendDefaultDays
	}
	to := entity.DateOnly(time.Now())
	from := to.AddDate(0, 0, -days+1)

	points, err := uc.analyticsRepo.TotalsInRange(ctx, d, from, to)
	if err != nil {
		return nil, fmt.Errorf("tendencia de %s: %w", d, err)
	}
	if len(points) == 0 {
		return &dto.TrendResponse{
			Domain:          string(d),
			Points:          sampleTrend(from, days),
			UsingSampleData: true,
		}, nil
	}

	out := make([]dto.TrendPointDTO, 0, len(points))
	for _, p := range points {
		out = append(out, dto.TrendPointDTO{
			Date:          p.Date.Format("2006-01-02"),
			Mode:          p.Mode,
			TotalQuantity: p.TotalQuantity,
		})
	}
	return &dto.TrendResponse{Domain: string(d), Points: out}, nil
}

// sampleTrend genera la serie ilustrativa determinista que se muestra cuando
// aún no hay registros: una rampa suave alrededor de 250 ton.
func sampleTrend(from time.Time, days int) []dto.TrendPointDTO {
	base := decimal.NewFromInt(250)
	step := decimal.NewFromFloat(1.5)
	out := make([]dto.TrendPointDTO, 0, days)
	for i := 0; i < days; i++ {
		out = append(out, dto.TrendPointDTO{
			Date:          from.AddDate(0, 0, i).Format("2006-01-02"),
			Mode:          entity.ModeProduction,
			TotalQuantity: base.Add(step.Mul(decimal.NewFromInt(int64(i % 7)))),
		})
	}
	return out
}
