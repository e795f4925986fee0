package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/application/reconciliation"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
)

var _ reconciliation.SalesFeed = (*FeedsRepo)(nil)
var _ reconciliation.ProductionFeed = (*FeedsRepo)(nil)

var mil = decimal.NewFromInt(1000)

// FeedsRepo adaptador local de las cifras externas: despachos de venta
// (sales_dispatch, en kg) y fruta procesada (production_entries, en ton).
// La conversión kg → ton ocurre aquí, una sola vez, en la frontera.
type FeedsRepo struct {
	q               Querier
	cpoProductID    string
	kernelProductID string
}

// NewFeedsRepository construye el adaptador de feeds sobre las tablas locales.
func NewFeedsRepository(q Querier, cpoProductID, kernelProductID string) *FeedsRepo {
	return &FeedsRepo{q: q, cpoProductID: cpoProductID, kernelProductID: kernelProductID}
}

// SalesForDate devuelve la masa despachada del día en toneladas. El dominio
// CPO filtra por el producto CPO; el dominio kernel por almendra/palmiste.
// Sin despachos registrados el resultado es cero.
func (r *FeedsRepo) SalesForDate(ctx context.Context, d entity.StorageDomain, date time.Time) (decimal.Decimal, error) {
	productID := r.cpoProductID
	if d == entity.DomainKernel {
		productID = r.kernelProductID
	}
	const query = `
	SELECT COALESCE(SUM(quantity_kg), 0)
	FROM sales_dispatch
	WHERE dispatch_date = $1 AND product_id = $2`

	var kg decimal.Decimal
	err := r.q.QueryRow(ctx, query, entity.DateOnly(date), productID).Scan(&kg)
	if err != nil {
		return decimal.Zero, fmt.Errorf("feeds.SalesForDate: %w", err)
	}
	return kg.Div(mil), nil
}

// IntakeForDate devuelve la fruta procesada del día en toneladas.
// La ausencia de registro para la fecha es cero, no un error.
func (r *FeedsRepo) IntakeForDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	const query = `
	SELECT COALESCE(SUM(weight_ton), 0)
	FROM production_entries
	WHERE entry_date = $1`

	var ton decimal.Decimal
	err := r.q.QueryRow(ctx, query, entity.DateOnly(date)).Scan(&ton)
	if err != nil {
		return decimal.Zero, fmt.Errorf("feeds.IntakeForDate: %w", err)
	}
	return ton, nil
}
