package cycling

import (
	"context"
	"database/sql"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hidrapink/influencer-ops-api/infrastructure/database/postgres"
	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// txRunner abre a transação das operações de ciclo.
type txRunner interface {
	RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// IsValidDate informa se o valor está no formato YYYY-MM-DD.
func IsValidDate(value string) bool {
	return dateRegex.MatchString(strings.TrimSpace(value))
}

type CycleManager interface {
	EnsureCurrentCycle(ctx context.Context) (*domain.MonthlyCycle, error)
	GetCycleByIDOrCurrent(ctx context.Context, cycleID *int) (*domain.MonthlyCycle, error)
	EnsureCycleForDate(tx *sql.Tx, date string) (*domain.MonthlyCycle, error)
	TouchCycle(tx *sql.Tx, cycleID int)
}

type Service struct {
	conn      txRunner
	cycleRepo repository.CycleRepository
}

func NewService(conn *postgres.Connection, cycleRepo repository.CycleRepository) *Service {
	return &Service{
		conn:      conn,
		cycleRepo: cycleRepo,
	}
}

// EnsureCurrentCycle garante o ciclo aberto do mês corrente (UTC): fecha os
// demais ciclos abertos, cria o ciclo do mês se não existir e reabre se estiver
// fechado. Roda em transação única.
func (s *Service) EnsureCurrentCycle(ctx context.Context) (*domain.MonthlyCycle, error) {
	now := time.Now().UTC()
	year, month := now.Year(), int(now.Month())

	var result *domain.MonthlyCycle
	err := s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		repo := s.cycleRepo.WithTx(tx)

		cycle, err := repo.GetByYearMonth(year, month)
		if err != nil {
			return err
		}

		openCycles, err := repo.ListOpen()
		if err != nil {
			return err
		}

		for _, open := range openCycles {
			if open.CycleYear == year && open.CycleMonth == month {
				cycle = open
				continue
			}
			if err := repo.Close(open.ID); err != nil {
				return err
			}
		}

		switch {
		case cycle == nil:
			startedAt := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
			created, err := repo.Create(year, month, startedAt)
			if err != nil {
				return err
			}
			// Outra requisição criou o mesmo ciclo entre a busca e o
			// insert; o registro vencedor é relido e reaproveitado.
			if created == nil {
				created, err = repo.GetByYearMonth(year, month)
				if err != nil {
					return err
				}
				if created == nil {
					return NewCycleError(ErrDatabaseOperation, apiErrors.ErrDatabaseOperation, "ciclo desapareceu após conflito de criação")
				}
			}
			cycle = created
		case cycle.Status != domain.CycleStatusOpen:
			if err := repo.Reopen(cycle.ID); err != nil {
				return err
			}
			cycle, err = repo.GetByID(cycle.ID)
			if err != nil {
				return err
			}
		}

		result = cycle
		return nil
	})
	if err != nil {
		return nil, err
	}

	return result, nil
}

// GetCycleByIDOrCurrent busca o ciclo pelo ID quando informado e existente;
// caso contrário recai no ciclo do mês corrente. Nunca retorna erro por ID
// desconhecido.
func (s *Service) GetCycleByIDOrCurrent(ctx context.Context, cycleID *int) (*domain.MonthlyCycle, error) {
	if cycleID != nil && *cycleID > 0 {
		cycle, err := s.cycleRepo.GetByID(*cycleID)
		if err != nil {
			return nil, err
		}
		if cycle != nil {
			return cycle, nil
		}
	}
	return s.EnsureCurrentCycle(ctx)
}

// EnsureCycleForDate busca ou cria o ciclo do mês da data informada, sem
// fechar outros ciclos. Datas inválidas resultam em ciclo nulo, sem erro.
func (s *Service) EnsureCycleForDate(tx *sql.Tx, date string) (*domain.MonthlyCycle, error) {
	trimmed := strings.TrimSpace(date)
	if !IsValidDate(trimmed) {
		return nil, nil
	}

	parts := strings.SplitN(trimmed, "-", 3)
	year, err := strconv.Atoi(parts[0])
	if err != nil {
		return nil, nil
	}
	month, err := strconv.Atoi(parts[1])
	if err != nil {
		return nil, nil
	}

	repo := s.cycleRepo
	if tx != nil {
		repo = s.cycleRepo.WithTx(tx)
	}

	cycle, err := repo.GetByYearMonth(year, month)
	if err != nil {
		return nil, err
	}
	if cycle != nil {
		return cycle, nil
	}

	startedAt := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	created, err := repo.Create(year, month, startedAt)
	if err != nil {
		return nil, err
	}
	if created == nil {
		return repo.GetByYearMonth(year, month)
	}

	return created, nil
}

// TouchCycle atualiza o updated_at do ciclo. O ciclo pode ter sido removido
// no meio do caminho; nesse caso o toque é ignorado.
func (s *Service) TouchCycle(tx *sql.Tx, cycleID int) {
	if cycleID <= 0 {
		return
	}

	repo := s.cycleRepo
	if tx != nil {
		repo = s.cycleRepo.WithTx(tx)
	}

	if err := repo.Touch(cycleID); err != nil {
		logrus.WithError(err).WithField("cycle_id", cycleID).Warn("Não foi possível atualizar o ciclo")
	}
}
