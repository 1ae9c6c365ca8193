package planning

import (
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/pkg/apiErrors"
)

// normalizedRequest é a requisição de reconciliação depois da normalização:
// só datas válidas dentro do ciclo, roteiros confirmados em banco e
// deduplicação aplicada.
type normalizedRequest struct {
	entries          []*domain.NormalizedPlanEntry
	removedScriptIDs []int
	removedPlanIDs   []int
}

func dedupePositive(values []int) []int {
	seen := make(map[int]bool)
	result := make([]int, 0, len(values))
	for _, value := range values {
		if value <= 0 || seen[value] {
			continue
		}
		seen[value] = true
		result = append(result, value)
	}
	return result
}

// normalizeRequest valida e deduplica as entradas propostas contra o ciclo e
// os planos já persistidos. Entradas fora do ciclo ou com data inválida são
// descartadas em silêncio; o erro só aparece quando nada sobra.
func (s *Service) normalizeRequest(
	cycle *domain.MonthlyCycle,
	req *domain.PlanMutationRequest,
	existing *planWorkingSet,
) (*normalizedRequest, error) {
	if cycle == nil {
		return nil, NewPlanError(ErrCycleNotFound, apiErrors.ErrResourceNotFound, "Ciclo mensal nao encontrado.")
	}

	removedScriptIDs := dedupePositive(req.RemovedScriptIDs)
	removedPlanIDs := dedupePositive(req.RemovedPlanIDs)
	hasRemovals := len(removedScriptIDs) > 0 || len(removedPlanIDs) > 0

	if len(req.Entries) == 0 && !hasRemovals {
		return nil, NewPlanError(ErrNoEntries, apiErrors.ErrMissingRequiredData, "Informe ao menos um dia para agendar.")
	}

	expectedPrefix := cycle.MonthPrefix()

	entries := make([]*domain.NormalizedPlanEntry, 0, len(req.Entries))
	seenPairs := make(map[string]bool)
	seenPlanIDs := make(map[int]bool)
	scriptCache := make(map[int]bool)

	scriptExists := func(id int) (bool, error) {
		if exists, ok := scriptCache[id]; ok {
			return exists, nil
		}
		script, err := s.scriptRepo.GetByID(id)
		if err != nil {
			return false, err
		}
		scriptCache[id] = script != nil
		return script != nil, nil
	}

	for _, raw := range req.Entries {
		date := strings.TrimSpace(raw.Date)
		if !dateRegex.MatchString(date) {
			continue
		}
		if !strings.HasPrefix(date, expectedPrefix) {
			continue
		}
		if _, err := time.Parse(time.DateOnly, date); err != nil {
			continue
		}

		var planID *int
		if raw.PlanID != nil && *raw.PlanID > 0 {
			if seenPlanIDs[*raw.PlanID] {
				continue
			}
			seenPlanIDs[*raw.PlanID] = true
			planID = raw.PlanID
		}

		var contentScriptID *int
		if raw.ScriptID != nil && *raw.ScriptID > 0 {
			exists, err := scriptExists(*raw.ScriptID)
			if err != nil {
				return nil, err
			}
			if exists {
				contentScriptID = raw.ScriptID
			}
		}

		// Entrada que referencia um plano existente sem informar roteiro
		// herda o roteiro do plano.
		if contentScriptID == nil && planID != nil {
			if plan := existing.get(*planID); plan != nil && plan.ContentScriptID != nil {
				contentScriptID = plan.ContentScriptID
			}
		}

		pairKey := fmt.Sprintf("%d|%s", scriptKey(contentScriptID), date)
		if planID == nil && seenPairs[pairKey] {
			continue
		}
		seenPairs[pairKey] = true

		var notes *string
		if trimmed := strings.TrimSpace(raw.Notes); trimmed != "" {
			notes = &trimmed
		}

		entries = append(entries, &domain.NormalizedPlanEntry{
			PlanID:          planID,
			ScheduledDate:   date,
			ContentScriptID: contentScriptID,
			Notes:           notes,
			Append:          raw.Append,
		})
	}

	if len(entries) == 0 && !hasRemovals {
		return nil, NewPlanError(ErrNoValidDays, apiErrors.ErrInvalidFormat, "Nao foi possivel identificar dias validos para o agendamento.")
	}

	sort.Slice(entries, func(i, j int) bool {
		return entries[i].ScheduledDate < entries[j].ScheduledDate
	})

	return &normalizedRequest{
		entries:          entries,
		removedScriptIDs: removedScriptIDs,
		removedPlanIDs:   removedPlanIDs,
	}, nil
}
