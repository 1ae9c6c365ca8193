package planning

import (
	"context"
	"database/sql"
	"regexp"
	"strings"
	"time"

	"github.com/hidrapink/influencer-ops-api/infrastructure/database/postgres"
	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/cycling"
	"github.com/hidrapink/influencer-ops-api/pkg/apiErrors"
)

var dateRegex = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)

// txRunner abre a transação da reconciliação de planos.
type txRunner interface {
	RunInTransaction(ctx context.Context, fn func(*sql.Tx) error) error
}

type Planner interface {
	ListPlans(cycleID, influencerID int) ([]*domain.PlanWithDetails, error)
	GetPlanDetails(planID int) (*domain.PlanWithDetails, error)
	ReconcilePlans(ctx context.Context, cycle *domain.MonthlyCycle, influencer *domain.Influencer, req *domain.PlanMutationRequest) ([]*domain.PlanWithDetails, error)
	UpdateSinglePlan(ctx context.Context, cycle *domain.MonthlyCycle, influencer *domain.Influencer, update *domain.SinglePlanUpdate) (*domain.PlanWithDetails, error)
	ListPlansForCycle(cycleID int) ([]*domain.PlanWithDetails, error)
	ListPendingValidations(cycleID int) ([]*domain.PlanWithDetails, error)
	ApprovePlanValidation(ctx context.Context, planID int) (*domain.PlanWithDetails, error)
	RejectPlanValidation(ctx context.Context, planID int) (*domain.PlanWithDetails, error)
}

type Service struct {
	conn       txRunner
	planRepo   repository.PlanRepository
	scriptRepo repository.ScriptRepository
	cycles     cycling.CycleManager
}

func NewService(
	conn *postgres.Connection,
	planRepo repository.PlanRepository,
	scriptRepo repository.ScriptRepository,
	cycles cycling.CycleManager,
) Planner {
	return &Service{
		conn:       conn,
		planRepo:   planRepo,
		scriptRepo: scriptRepo,
		cycles:     cycles,
	}
}

func (s *Service) ListPlans(cycleID, influencerID int) ([]*domain.PlanWithDetails, error) {
	return s.planRepo.ListDetailsByCycleAndInfluencer(cycleID, influencerID)
}

func (s *Service) GetPlanDetails(planID int) (*domain.PlanWithDetails, error) {
	return s.planRepo.GetDetailsByID(planID)
}

func (s *Service) ListPlansForCycle(cycleID int) ([]*domain.PlanWithDetails, error) {
	return s.planRepo.ListDetailsByCycle(cycleID)
}

func (s *Service) ListPendingValidations(cycleID int) ([]*domain.PlanWithDetails, error) {
	return s.planRepo.ListPendingValidation(cycleID)
}

// ReconcilePlans aplica a agenda proposta sobre os planos persistidos do par
// (ciclo, influenciadora): normaliza as entradas, remove o que foi pedido,
// casa entradas com planos existentes e cria o restante, tudo em uma única
// transação. Retorna a agenda resultante.
func (s *Service) ReconcilePlans(
	ctx context.Context,
	cycle *domain.MonthlyCycle,
	influencer *domain.Influencer,
	req *domain.PlanMutationRequest,
) ([]*domain.PlanWithDetails, error) {
	existingPlans, err := s.planRepo.ListByCycleAndInfluencer(cycle.ID, influencer.ID)
	if err != nil {
		return nil, err
	}

	norm, err := s.normalizeRequest(cycle, req, newPlanWorkingSet(existingPlans))
	if err != nil {
		return nil, err
	}

	if err := s.applyMutations(ctx, cycle, influencer, norm); err != nil {
		return nil, err
	}

	return s.planRepo.ListDetailsByCycleAndInfluencer(cycle.ID, influencer.ID)
}

// shouldResetStatus decide se a mutação volta o plano para "scheduled":
// trocar a data ou o roteiro perde a validação; reenvio sem mudança preserva
// o status.
func shouldResetStatus(existing *domain.InfluencerPlan, newDate string, nextScriptID *int) bool {
	if existing.DateOnly() != newDate {
		return true
	}
	return scriptKey(existing.ContentScriptID) != scriptKey(nextScriptID)
}

func (s *Service) applyMutations(
	ctx context.Context,
	cycle *domain.MonthlyCycle,
	influencer *domain.Influencer,
	norm *normalizedRequest,
) error {
	return s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		repo := s.planRepo.WithTx(tx)

		// Conjunto de trabalho relido dentro da transação.
		plans, err := repo.ListByCycleAndInfluencer(cycle.ID, influencer.ID)
		if err != nil {
			return err
		}
		ws := newPlanWorkingSet(plans)

		touched := false
		removed := make(map[int]bool, len(norm.removedPlanIDs))
		for _, planID := range norm.removedPlanIDs {
			removed[planID] = true
		}
		processed := make(map[int]bool)

		for _, planID := range norm.removedPlanIDs {
			existing := ws.get(planID)
			if existing == nil || existing.CycleID != cycle.ID || existing.InfluencerID != influencer.ID {
				continue
			}
			if err := repo.Delete(existing.ID); err != nil {
				return err
			}
			ws.remove(existing.ID)
			touched = true
		}

		for _, scriptID := range norm.removedScriptIDs {
			count, err := repo.DeleteByScript(cycle.ID, influencer.ID, scriptID)
			if err != nil {
				return err
			}
			if count > 0 {
				touched = true
			}
			ws.removeScript(scriptID)
		}

		updatePlan := func(existing *domain.InfluencerPlan, entry *domain.NormalizedPlanEntry, nextScriptID *int) error {
			reset := shouldResetStatus(existing, entry.ScheduledDate, nextScriptID)
			oldKey := scriptKey(existing.ContentScriptID)

			existing.ScheduledDate, _ = time.Parse(time.DateOnly, entry.ScheduledDate)
			existing.ContentScriptID = nextScriptID
			existing.Notes = entry.Notes
			if reset {
				existing.Status = domain.PlanStatusScheduled
			}
			existing.UpdatedAt = time.Now().UTC()

			if err := repo.Update(existing); err != nil {
				return err
			}

			ws.removeFromScript(oldKey, existing.ID)
			ws.promote(existing)
			processed[existing.ID] = true
			touched = true
			return nil
		}

		createPlan := func(entry *domain.NormalizedPlanEntry, scriptID *int) error {
			scheduledDate, _ := time.Parse(time.DateOnly, entry.ScheduledDate)
			plan := &domain.InfluencerPlan{
				CycleID:         cycle.ID,
				InfluencerID:    influencer.ID,
				ScheduledDate:   scheduledDate,
				ContentScriptID: scriptID,
				Notes:           entry.Notes,
				Status:          domain.PlanStatusScheduled,
			}
			created, err := repo.Create(plan)
			if err != nil {
				return err
			}
			ws.promote(created)
			// O plano recém-criado já está reivindicado pela própria
			// entrada; as demais entradas do lote não podem casá-lo.
			processed[created.ID] = true
			touched = true
			return nil
		}

		for _, entry := range norm.entries {
			// Entrada referenciando um plano específico.
			if entry.PlanID != nil {
				planID := *entry.PlanID
				if removed[planID] || processed[planID] {
					continue
				}
				existing := ws.get(planID)
				if existing == nil || existing.CycleID != cycle.ID || existing.InfluencerID != influencer.ID {
					continue
				}

				nextScriptID := entry.ContentScriptID
				if nextScriptID == nil {
					nextScriptID = existing.ContentScriptID
				}

				if err := updatePlan(existing, entry, nextScriptID); err != nil {
					return err
				}
				continue
			}

			// Entrada sem roteiro: casa por data, senão cria um plano avulso.
			if entry.ContentScriptID == nil {
				if existing := ws.findByDate(entry.ScheduledDate, processed, removed); existing != nil {
					if err := updatePlan(existing, entry, nil); err != nil {
						return err
					}
					continue
				}
				if err := createPlan(entry, nil); err != nil {
					return err
				}
				continue
			}

			// Entrada com roteiro: casa com o plano mais recente do mesmo
			// roteiro, a menos que o cliente peça criação explícita.
			if !entry.Append {
				if existing := ws.firstByScript(*entry.ContentScriptID, processed, removed); existing != nil {
					if err := updatePlan(existing, entry, entry.ContentScriptID); err != nil {
						return err
					}
					continue
				}
			}

			if err := createPlan(entry, entry.ContentScriptID); err != nil {
				return err
			}
		}

		if touched {
			s.cycles.TouchCycle(tx, cycle.ID)
		}

		return nil
	})
}

// UpdateSinglePlan altera um plano pontual. A data nova precisa continuar no
// mesmo ciclo e não pode colidir com outro plano da influenciadora; a edição
// sempre devolve o plano para "scheduled".
func (s *Service) UpdateSinglePlan(
	ctx context.Context,
	cycle *domain.MonthlyCycle,
	influencer *domain.Influencer,
	update *domain.SinglePlanUpdate,
) (*domain.PlanWithDetails, error) {
	plan, err := s.planRepo.GetByID(update.PlanID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, NewPlanError(ErrPlanNotFound, apiErrors.ErrResourceNotFound, "Agendamento nao encontrado.")
	}
	if plan.CycleID != cycle.ID || plan.InfluencerID != influencer.ID {
		return nil, NewPlanError(ErrPlanAccessDenied, apiErrors.ErrInsufficientPrivilege, "Acesso negado.")
	}

	scheduledDate := plan.ScheduledDate
	if update.NextDate != nil {
		nextDate := strings.TrimSpace(*update.NextDate)
		if !dateRegex.MatchString(nextDate) {
			return nil, NewPlanError(ErrInvalidPlanDate, apiErrors.ErrInvalidFormat, "Informe uma data valida (YYYY-MM-DD).")
		}
		if !strings.HasPrefix(nextDate, cycle.MonthPrefix()) {
			return nil, NewPlanError(ErrDateOutsideCycle, apiErrors.ErrInvalidRequest, "Data precisa estar no mesmo ciclo mensal.")
		}

		parsed, err := time.Parse(time.DateOnly, nextDate)
		if err != nil {
			return nil, NewPlanError(ErrInvalidPlanDate, apiErrors.ErrInvalidFormat, "Informe uma data valida (YYYY-MM-DD).")
		}

		exists, err := s.planRepo.ExistsByDate(cycle.ID, influencer.ID, parsed, plan.ID)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, NewPlanError(ErrDuplicatePlanDate, apiErrors.ErrResourceConflict, "Ja existe um agendamento para esta data.")
		}

		scheduledDate = parsed
	}

	contentScriptID := plan.ContentScriptID
	if update.ClearScript {
		contentScriptID = nil
	} else if update.NextScriptID != nil {
		if *update.NextScriptID <= 0 {
			return nil, NewPlanError(ErrInvalidScriptID, apiErrors.ErrInvalidFormat, "Identificador de roteiro invalido.")
		}
		script, err := s.scriptRepo.GetByID(*update.NextScriptID)
		if err != nil {
			return nil, err
		}
		if script == nil {
			return nil, NewPlanError(ErrScriptNotFound, apiErrors.ErrResourceNotFound, "Roteiro nao encontrado.")
		}
		contentScriptID = update.NextScriptID
	}

	notes := plan.Notes
	if update.Notes != nil {
		notes = update.Notes
	}

	err = s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		repo := s.planRepo.WithTx(tx)

		plan.ScheduledDate = scheduledDate
		plan.ContentScriptID = contentScriptID
		plan.Notes = notes
		plan.Status = domain.PlanStatusScheduled

		if err := repo.Update(plan); err != nil {
			return err
		}

		s.cycles.TouchCycle(tx, cycle.ID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.planRepo.GetDetailsByID(plan.ID)
}

// ApprovePlanValidation marca o plano como validado.
func (s *Service) ApprovePlanValidation(ctx context.Context, planID int) (*domain.PlanWithDetails, error) {
	plan, err := s.planRepo.GetByID(planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, NewPlanError(ErrPlanNotFound, apiErrors.ErrResourceNotFound, "Agendamento nao encontrado.")
	}
	if plan.Status == domain.PlanStatusValidated {
		return nil, NewPlanError(ErrPlanAlreadyChecked, apiErrors.ErrResourceConflict, "Este dia ja foi validado.")
	}

	err = s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		repo := s.planRepo.WithTx(tx)
		if err := repo.UpdateStatus(plan.ID, domain.PlanStatusValidated); err != nil {
			return err
		}
		s.cycles.TouchCycle(tx, plan.CycleID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.planRepo.GetDetailsByID(plan.ID)
}

// RejectPlanValidation devolve o plano para "scheduled".
func (s *Service) RejectPlanValidation(ctx context.Context, planID int) (*domain.PlanWithDetails, error) {
	plan, err := s.planRepo.GetByID(planID)
	if err != nil {
		return nil, err
	}
	if plan == nil {
		return nil, NewPlanError(ErrPlanNotFound, apiErrors.ErrResourceNotFound, "Agendamento nao encontrado.")
	}

	err = s.conn.RunInTransaction(ctx, func(tx *sql.Tx) error {
		repo := s.planRepo.WithTx(tx)
		if err := repo.UpdateStatus(plan.ID, domain.PlanStatusScheduled); err != nil {
			return err
		}
		s.cycles.TouchCycle(tx, plan.CycleID)
		return nil
	})
	if err != nil {
		return nil, err
	}

	return s.planRepo.GetDetailsByID(plan.ID)
}
