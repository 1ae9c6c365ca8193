package reporting

import (
	"context"
	"time"

	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/pkg/multiplier"
	"github.com/hidrapink/influencer-ops-api/pkg/points"
)

const suggestionLimit = 15

type Reporter interface {
	InfluencerDashboard(ctx context.Context, cycle *domain.MonthlyCycle, influencer *domain.Influencer) (*domain.InfluencerDashboard, error)
	MasterDashboard(ctx context.Context, cycle *domain.MonthlyCycle) (*domain.MasterDashboard, error)
	CommissionHistory(influencerID int) ([]*domain.MonthlyCommission, error)
}

type Service struct {
	planRepo       repository.PlanRepository
	scriptRepo     repository.ScriptRepository
	influencerRepo repository.InfluencerRepository
	saleRepo       repository.SaleRepository
	commissionRepo repository.MonthlyCommissionRepository
	converter      *points.Converter
}

func NewService(
	planRepo repository.PlanRepository,
	scriptRepo repository.ScriptRepository,
	influencerRepo repository.InfluencerRepository,
	saleRepo repository.SaleRepository,
	commissionRepo repository.MonthlyCommissionRepository,
	converter *points.Converter,
) Reporter {
	return &Service{
		planRepo:       planRepo,
		scriptRepo:     scriptRepo,
		influencerRepo: influencerRepo,
		saleRepo:       saleRepo,
		commissionRepo: commissionRepo,
		converter:      converter,
	}
}

// InfluencerDashboard monta o painel do ciclo para a influenciadora: agenda,
// progresso, projeção de comissão com multiplicador e sugestões de conteúdo.
func (s *Service) InfluencerDashboard(
	ctx context.Context,
	cycle *domain.MonthlyCycle,
	influencer *domain.Influencer,
) (*domain.InfluencerDashboard, error) {
	plans, err := s.planRepo.ListDetailsByCycleAndInfluencer(cycle.ID, influencer.ID)
	if err != nil {
		return nil, err
	}

	plannedDays := len(plans)
	validatedDays := 0
	pendingValidations := 0
	for _, plan := range plans {
		switch plan.Status {
		case domain.PlanStatusValidated:
			validatedDays++
		case domain.PlanStatusScheduled:
			pendingValidations++
		}
	}

	todayIso := time.Now().UTC().Format(time.DateOnly)

	alerts := make([]*domain.PlanAlert, 0)
	for _, plan := range plans {
		if plan.Status != domain.PlanStatusValidated && plan.ScheduledDate < todayIso {
			alerts = append(alerts, &domain.PlanAlert{
				ID:     plan.ID,
				Date:   plan.ScheduledDate,
				Status: plan.Status,
			})
		}
	}

	scripts, err := s.scriptRepo.ListRecent(suggestionLimit)
	if err != nil {
		return nil, err
	}
	suggestions := make([]*domain.ScriptSuggestion, 0, len(scripts))
	for _, script := range scripts {
		suggestion := &domain.ScriptSuggestion{
			ID:    script.ID,
			Title: script.Title,
		}
		if script.Body != nil {
			suggestion.Description = *script.Body
		}
		suggestions = append(suggestions, suggestion)
	}

	approvedPoints, err := s.saleRepo.SumApprovedPoints(influencer.ID)
	if err != nil {
		return nil, err
	}

	summary := multiplier.Summarize(float64(approvedPoints), validatedDays)
	commission := &domain.CommissionEstimate{
		BasePoints:    summary.BasePoints,
		TotalPoints:   summary.TotalPoints,
		Multiplier:    summary.Factor,
		Label:         summary.Label,
		ValidatedDays: summary.ValidatedDays,
		BaseValue:     s.converter.PointsToBRL(float64(summary.BasePoints)),
		TotalValue:    s.converter.PointsToBRL(float64(summary.TotalPoints)),
		PointValue:    s.converter.PointValueBRL(),
	}

	// A lista vem ordenada por data; o primeiro plano de hoje em diante é o
	// próximo compromisso.
	var nextPlan *domain.PlanWithDetails
	for _, plan := range plans {
		if plan.ScheduledDate >= todayIso {
			nextPlan = plan
			break
		}
	}

	return &domain.InfluencerDashboard{
		Cycle:      cycle,
		Influencer: influencer,
		Plans:      plans,
		Progress: &domain.CycleProgress{
			PlannedDays:         plannedDays,
			ValidatedDays:       validatedDays,
			PendingValidations:  pendingValidations,
			Multiplier:          commission.Multiplier,
			MultiplierLabel:     commission.Label,
			EstimatedCommission: commission.TotalValue,
			EstimatedPoints:     commission.TotalPoints,
		},
		Commission:  commission,
		Alerts:      alerts,
		Suggestions: suggestions,
		NextPlan:    nextPlan,
	}, nil
}

// MasterDashboard monta o painel do ciclo para a gestão: agenda completa,
// validações pendentes e contadores por influenciadora.
func (s *Service) MasterDashboard(ctx context.Context, cycle *domain.MonthlyCycle) (*domain.MasterDashboard, error) {
	plans, err := s.planRepo.ListDetailsByCycle(cycle.ID)
	if err != nil {
		return nil, err
	}

	pending, err := s.planRepo.ListPendingValidation(cycle.ID)
	if err != nil {
		return nil, err
	}

	influencers, err := s.influencerRepo.List()
	if err != nil {
		return nil, err
	}

	summaries := make([]*domain.InfluencerCycleSummary, 0, len(influencers))
	validatedPosts := 0
	for _, influencer := range influencers {
		planned, err := s.planRepo.CountByCycleAndInfluencer(cycle.ID, influencer.ID)
		if err != nil {
			return nil, err
		}
		validated, err := s.planRepo.CountValidated(cycle.ID, influencer.ID)
		if err != nil {
			return nil, err
		}

		validatedPosts += validated
		summaries = append(summaries, &domain.InfluencerCycleSummary{
			ID:        influencer.ID,
			Name:      influencer.Name,
			Instagram: influencer.Instagram,
			Planned:   planned,
			Validated: validated,
		})
	}

	todayIso := time.Now().UTC().Format(time.DateOnly)
	alertCount := 0
	for _, plan := range plans {
		if plan.Status != domain.PlanStatusValidated && plan.ScheduledDate < todayIso {
			alertCount++
		}
	}

	return &domain.MasterDashboard{
		Cycle:              cycle,
		Plans:              plans,
		PendingValidations: pending,
		Influencers:        summaries,
		Stats: &domain.MasterDashboardStats{
			TotalInfluencers:   len(summaries),
			PlannedPosts:       len(plans),
			ValidatedPosts:     validatedPosts,
			PendingValidations: len(pending),
			Alerts:             alertCount,
		},
	}, nil
}

// CommissionHistory lista os fechamentos mensais da influenciadora, do mais
// recente para o mais antigo.
func (s *Service) CommissionHistory(influencerID int) ([]*domain.MonthlyCommission, error) {
	if influencerID <= 0 {
		return []*domain.MonthlyCommission{}, nil
	}
	return s.commissionRepo.ListByInfluencer(influencerID)
}
