// Package scheduler ejecuta el arrastre automático nocturno: los días sin
// envío de mediciones no deben dejar huecos en el histórico de inventario.
package scheduler

import (
	"context"
	"errors"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/jdvergara/extractora-api/internal/application/reconciliation"
	"github.com/jdvergara/extractora-api/internal/domain"
	"github.com/jdvergara/extractora-api/internal/domain/entity"
	"github.com/jdvergara/extractora-api/internal/domain/repository"
	"github.com/jdvergara/extractora-api/pkg/logger"
)

// Scheduler dispara el carry-forward para el día de ayer cuando ningún
// operador lo envió. Las fallas se registran y se reintentan en la
// siguiente corrida; el envío manual sigue disponible.
type Scheduler struct {
	cron         *cron.Cron
	records      repository.StockRecordRepository
	carryForward *reconciliation.CarryForwardUseCase
	spec         string
	log          *logger.Logger
}

// New construye el scheduler. spec es una expresión cron de 5 campos,
// ej. "30 1 * * *" (01:30 todas las noches).
func New(
	records repository.StockRecordRepository,
	carryForward *reconciliation.CarryForwardUseCase,
	spec string,
	log *logger.Logger,
) *Scheduler {
	if log == nil {
		log = logger.Nop()
	}
	return &Scheduler{
		cron:         cron.New(),
		records:      records,
		carryForward: carryForward,
		spec:         spec,
		log:          log,
	}
}

// Start registra la tarea y arranca el cron.
func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc(s.spec, s.run); err != nil {
		return err
	}
	s.cron.Start()
	s.log.Info().Str("cron", s.spec).Msg("arrastre automático programado")
	return nil
}

// Stop detiene el cron y espera las corridas en curso.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) run() {
	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	yesterday := entity.DateOnly(time.Now().AddDate(0, 0, -1))
	for _, d := range []entity.StorageDomain{entity.DomainCPO, entity.DomainKernel} {
		s.runDomain(ctx, d, yesterday)
	}
}

func (s *Scheduler) runDomain(ctx context.Context, d entity.StorageDomain, date time.Time) {
	if _, err := s.records.GetByDate(ctx, d, date); err == nil {
		return // el día ya fue enviado
	} else if !errors.Is(err, domain.ErrNotFound) {
		s.log.Error().Err(err).Str("domain", string(d)).Msg("scheduler: consultar registro de ayer")
		return
	}
	// Sin registro del día anterior al faltante no hay nada que arrastrar.
	if _, err := s.records.GetByDate(ctx, d, date.AddDate(0, 0, -1)); err != nil {
		if !errors.Is(err, domain.ErrNotFound) {
			s.log.Error().Err(err).Str("domain", string(d)).Msg("scheduler: consultar registro base")
		}
		return
	}

	rec, err := s.carryForward.Execute(ctx, reconciliation.CarryForwardInput{
		Domain: d,
		Date:   date,
		UserID: "auto-scheduler",
	})
	if err != nil {
		s.log.Error().Err(err).
			Str("domain", string(d)).
			Str("date", date.Format("2006-01-02")).
			Msg("scheduler: arrastre automático falló, se reintenta en la próxima corrida")
		return
	}
	s.log.Info().
		Str("domain", string(d)).
		Str("date", date.Format("2006-01-02")).
		Str("total", rec.TotalQuantity.String()).
		Msg("arrastre automático aplicado")
}
