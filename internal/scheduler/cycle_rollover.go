// Package scheduler contém os serviços de agendamento da virada de ciclo
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/go-co-op/gocron"
	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/config"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/cycling"
	"github.com/hidrapink/influencer-ops-api/pkg/multiplier"
	"github.com/hidrapink/influencer-ops-api/pkg/points"
	"github.com/sirupsen/logrus"
)

type CycleRolloverConfig struct {
	CronSchedule string
	Enabled      bool
}

// CycleRolloverService garante o ciclo do mês corrente na virada e grava o
// retrato de comissão dos ciclos fechados. O retrato é recalculado de forma
// idempotente a cada execução.
type CycleRolloverService struct {
	scheduler      *gocron.Scheduler
	cycles         cycling.CycleManager
	cycleRepo      repository.CycleRepository
	planRepo       repository.PlanRepository
	saleRepo       repository.SaleRepository
	influencerRepo repository.InfluencerRepository
	commissionRepo repository.MonthlyCommissionRepository
	converter      *points.Converter
	config         CycleRolloverConfig

	syncRunning         bool
	syncMutex           sync.Mutex
	lastSyncStartedAt   time.Time
	lastSyncCompletedAt time.Time
}

func NewCycleRolloverService(
	cycles cycling.CycleManager,
	cycleRepo repository.CycleRepository,
	planRepo repository.PlanRepository,
	saleRepo repository.SaleRepository,
	influencerRepo repository.InfluencerRepository,
	commissionRepo repository.MonthlyCommissionRepository,
	converter *points.Converter,
	cfg *config.Config,
) *CycleRolloverService {
	rolloverConfig := CycleRolloverConfig{
		CronSchedule: cfg.CycleRollover.CronSchedule, // Default: 5h da manhã do dia 1 de cada mês
		Enabled:      cfg.CycleRollover.Enabled,      // Default: desabilitado
	}

	scheduler := gocron.NewScheduler(time.Local)

	logrus.WithFields(logrus.Fields{
		"cron_schedule": rolloverConfig.CronSchedule,
	}).Info("Configuração do agendador da virada de ciclo carregada")

	return &CycleRolloverService{
		scheduler:      scheduler,
		cycles:         cycles,
		cycleRepo:      cycleRepo,
		planRepo:       planRepo,
		saleRepo:       saleRepo,
		influencerRepo: influencerRepo,
		commissionRepo: commissionRepo,
		converter:      converter,
		config:         rolloverConfig,
	}
}

func (s *CycleRolloverService) Start(ctx context.Context) error {
	if !s.config.Enabled {
		logrus.Info("Cron da virada de ciclo desabilitada por configuração")
		return nil
	}

	logrus.WithField("cron", s.config.CronSchedule).Info("Iniciando cron da virada de ciclo")

	_, err := s.scheduler.Cron(s.config.CronSchedule).Do(func() {
		if err := s.RunRollover(context.Background()); err != nil {
			logrus.WithError(err).Error("Erro na virada de ciclo")
		}
	})
	if err != nil {
		return fmt.Errorf("erro ao agendar a virada de ciclo: %w", err)
	}

	// Executar o cron em uma goroutine separada
	s.scheduler.StartAsync()

	// Configurar o cancelamento do cron quando o contexto for cancelado
	go func() {
		<-ctx.Done()
		logrus.Info("Parando cron da virada de ciclo")
		s.scheduler.Stop()
	}()

	return nil
}

// RunRollover abre o ciclo do mês corrente, fecha os anteriores e grava o
// retrato de comissão de todos os ciclos fechados.
func (s *CycleRolloverService) RunRollover(ctx context.Context) error {
	s.syncMutex.Lock()
	if s.syncRunning {
		s.syncMutex.Unlock()
		logrus.Warn("Virada de ciclo já está em execução")
		return nil
	}
	s.syncRunning = true
	s.lastSyncStartedAt = time.Now()
	s.syncMutex.Unlock()

	defer func() {
		s.syncMutex.Lock()
		s.syncRunning = false
		s.lastSyncCompletedAt = time.Now()
		s.syncMutex.Unlock()
	}()

	logrus.Info("Iniciando virada de ciclo")

	cycle, err := s.cycles.EnsureCurrentCycle(ctx)
	if err != nil {
		logrus.WithError(err).Error("Erro ao garantir o ciclo do mês corrente")
		return err
	}

	logrus.WithFields(logrus.Fields{
		"cycle_id": cycle.ID,
		"cycle":    cycle.Label(),
	}).Info("Ciclo do mês corrente garantido")

	closedCycles, err := s.cycleRepo.ListClosed()
	if err != nil {
		logrus.WithError(err).Error("Erro ao listar ciclos fechados")
		return err
	}

	for _, closed := range closedCycles {
		if err := s.snapshotCycleCommissions(closed); err != nil {
			logrus.WithError(err).WithField("cycle_id", closed.ID).Error("Erro ao gravar comissões do ciclo")
			return err
		}
	}

	logrus.WithField("closed_cycles", len(closedCycles)).Info("Virada de ciclo concluída")
	return nil
}

// snapshotCycleCommissions recalcula e grava a comissão de cada influenciadora
// com atividade no ciclo fechado.
func (s *CycleRolloverService) snapshotCycleCommissions(cycle *domain.MonthlyCycle) error {
	pointsByInfluencer, err := s.saleRepo.SumApprovedPointsByCycle(cycle.ID)
	if err != nil {
		return err
	}

	influencers, err := s.influencerRepo.List()
	if err != nil {
		return err
	}

	for _, influencer := range influencers {
		basePoints := pointsByInfluencer[influencer.ID]

		validatedDays, err := s.planRepo.CountValidated(cycle.ID, influencer.ID)
		if err != nil {
			return err
		}

		// Influenciadora sem pontos e sem dias validados não gera retrato.
		if basePoints == 0 && validatedDays == 0 {
			continue
		}

		summary := multiplier.Summarize(float64(basePoints), validatedDays)
		commission := &domain.MonthlyCommission{
			CycleID:         cycle.ID,
			InfluencerID:    influencer.ID,
			BasePoints:      summary.BasePoints,
			ValidatedDays:   summary.ValidatedDays,
			Multiplier:      summary.Factor,
			MultiplierLabel: summary.Label,
			TotalPoints:     summary.TotalPoints,
			TotalValueBRL:   s.converter.PointsToBRL(float64(summary.TotalPoints)),
		}

		if err := s.commissionRepo.Upsert(commission); err != nil {
			return err
		}

		logrus.WithFields(logrus.Fields{
			"cycle_id":      cycle.ID,
			"influencer_id": influencer.ID,
			"total_points":  summary.TotalPoints,
		}).Debug("Comissão do ciclo gravada")
	}

	return nil
}

// Status expõe o estado do job para o endpoint administrativo.
func (s *CycleRolloverService) Status() map[string]interface{} {
	s.syncMutex.Lock()
	defer s.syncMutex.Unlock()

	return map[string]interface{}{
		"enabled":           s.config.Enabled,
		"cron_schedule":     s.config.CronSchedule,
		"running":           s.syncRunning,
		"last_started_at":   s.lastSyncStartedAt,
		"last_completed_at": s.lastSyncCompletedAt,
	}
}
