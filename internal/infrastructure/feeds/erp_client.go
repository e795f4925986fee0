// Package feeds implementa los adaptadores HTTP de las cifras externas
// cuando los despachos y la fruta procesada viven en el ERP comercial en
// lugar de las tablas locales (FEEDS_MODE=http).
package feeds

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"
	"github.com/shopspring/decimal"

	"github.com/jdvergara/extractora-api/internal/application/reconciliation"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/pkg/config"
)

var _ reconciliation.SalesFeed = (*ERPClient)(nil)
var _ reconciliation.ProductionFeed = (*ERPClient)(nil)

var mil = decimal.NewFromInt(1000)

// ERPClient consulta el ERP comercial vía REST. Las respuestas llegan en
// kilogramos; la conversión a toneladas ocurre aquí, una sola vez.
type ERPClient struct {
	http            *resty.Client
	cpoProductID    string
	kernelProductID string
}

// NewERPClient construye el cliente con la configuración de feeds.
func NewERPClient(cfg config.FeedsConfig, engine config.EngineConfig) *ERPClient {
	client := resty.New().
		SetBaseURL(strings.TrimSuffix(cfg.BaseURL, "/")).
		SetHeader("Accept", "application/json").
		SetTimeout(time.Duration(cfg.TimeoutSeconds) * time.Second).
		SetRetryCount(2)
	if cfg.Token != "" {
		client.SetAuthToken(cfg.Token)
	}
	return &ERPClient{
		http:            client,
		cpoProductID:    engine.CPOProductID,
		kernelProductID: engine.KernelProductID,
	}
}

type scalarResponse struct {
	QuantityKG decimal.Decimal `json:"quantity_kg"`
}

// SalesForDate devuelve la masa despachada del día en toneladas.
func (c *ERPClient) SalesForDate(ctx context.Context, d entity.StorageDomain, date time.Time) (decimal.Decimal, error) {
	productID := c.cpoProductID
	if d == entity.DomainKernel {
		productID = c.kernelProductID
	}

	result := new(scalarResponse)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParams(map[string]string{
			"date":    entity.DateOnly(date).Format("2006-01-02"),
			"product": productID,
		}).
		SetResult(result).
		Get("/api/v1/sales")
	if err != nil {
		return decimal.Zero, fmt.Errorf("feeds.SalesForDate: %w", err)
	}
	if resp.IsError() {
		// 404 = sin despachos ese día; cualquier otro estado es falla del feed.
		if resp.StatusCode() == 404 {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("feeds.SalesForDate: ERP respondió %s", resp.Status())
	}
	return result.QuantityKG.Div(mil), nil
}

// IntakeForDate devuelve la fruta procesada del día en toneladas.
// Ausencia de registro (404) es cero, no un error.
func (c *ERPClient) IntakeForDate(ctx context.Context, date time.Time) (decimal.Decimal, error) {
	result := new(scalarResponse)
	resp, err := c.http.R().
		SetContext(ctx).
		SetQueryParam("date", entity.DateOnly(date).Format("2006-01-02")).
		SetResult(result).
		Get("/api/v1/production")
	if err != nil {
		return decimal.Zero, fmt.Errorf("feeds.IntakeForDate: %w", err)
	}
	if resp.IsError() {
		if resp.StatusCode() == 404 {
			return decimal.Zero, nil
		}
		return decimal.Zero, fmt.Errorf("feeds.IntakeForDate: ERP respondió %s", resp.Status())
	}
	return result.QuantityKG.Div(mil), nil
}
