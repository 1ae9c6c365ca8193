package planning

import (
	"sort"

	"github.com/hidrapink/influencer-ops-api/internal/domain"
)

// planWorkingSet é o conjunto de trabalho da reconciliação: os planos já
// persistidos do par (ciclo, influenciadora), indexados por id e por roteiro.
// Todas as mutações da reconciliação passam por aqui para que as decisões de
// casamento enxerguem o efeito das mutações anteriores da mesma requisição.
type planWorkingSet struct {
	byID     map[int]*domain.InfluencerPlan
	byScript map[int][]*domain.InfluencerPlan
}

// scriptKey traduz o ponteiro de roteiro para a chave do índice; zero
// representa plano sem roteiro.
func scriptKey(scriptID *int) int {
	if scriptID == nil {
		return 0
	}
	return *scriptID
}

func newPlanWorkingSet(plans []*domain.InfluencerPlan) *planWorkingSet {
	ws := &planWorkingSet{
		byID:     make(map[int]*domain.InfluencerPlan),
		byScript: make(map[int][]*domain.InfluencerPlan),
	}

	for _, plan := range plans {
		ws.byID[plan.ID] = plan
		key := scriptKey(plan.ContentScriptID)
		ws.byScript[key] = append(ws.byScript[key], plan)
	}

	// Candidatos ao casamento por roteiro: mais recentemente atualizado
	// primeiro; empate decidido pelo maior id.
	for _, list := range ws.byScript {
		sort.Slice(list, func(i, j int) bool {
			if list[i].UpdatedAt.Equal(list[j].UpdatedAt) {
				return list[i].ID > list[j].ID
			}
			return list[i].UpdatedAt.After(list[j].UpdatedAt)
		})
	}

	return ws
}

func (ws *planWorkingSet) get(planID int) *domain.InfluencerPlan {
	return ws.byID[planID]
}

// remove tira o plano dos dois índices.
func (ws *planWorkingSet) remove(planID int) {
	plan, ok := ws.byID[planID]
	if !ok {
		return
	}
	delete(ws.byID, planID)
	ws.removeFromScript(scriptKey(plan.ContentScriptID), planID)
}

func (ws *planWorkingSet) removeFromScript(key, planID int) {
	list, ok := ws.byScript[key]
	if !ok {
		return
	}
	remaining := list[:0]
	for _, plan := range list {
		if plan.ID != planID {
			remaining = append(remaining, plan)
		}
	}
	if len(remaining) == 0 {
		delete(ws.byScript, key)
	} else {
		ws.byScript[key] = remaining
	}
}

// removeScript apaga o índice inteiro de um roteiro e os planos dele.
func (ws *planWorkingSet) removeScript(scriptID int) {
	for _, plan := range ws.byScript[scriptID] {
		delete(ws.byID, plan.ID)
	}
	delete(ws.byScript, scriptID)
}

// promote recoloca o plano na frente do índice do roteiro: acabou de ser
// alterado, então é o candidato mais recente.
func (ws *planWorkingSet) promote(plan *domain.InfluencerPlan) {
	ws.byID[plan.ID] = plan
	key := scriptKey(plan.ContentScriptID)
	ws.byScript[key] = append([]*domain.InfluencerPlan{plan}, ws.byScript[key]...)
}

// firstByScript devolve o candidato mais recente do roteiro que ainda não
// foi processado nem removido nesta requisição.
func (ws *planWorkingSet) firstByScript(key int, processed, removed map[int]bool) *domain.InfluencerPlan {
	for _, plan := range ws.byScript[key] {
		if processed[plan.ID] || removed[plan.ID] {
			continue
		}
		return plan
	}
	return nil
}

// findByDate devolve algum plano na data informada que ainda não foi
// processado nem removido nesta requisição.
func (ws *planWorkingSet) findByDate(date string, processed, removed map[int]bool) *domain.InfluencerPlan {
	var found *domain.InfluencerPlan
	for _, plan := range ws.byID {
		if processed[plan.ID] || removed[plan.ID] {
			continue
		}
		if plan.DateOnly() != date {
			continue
		}
		// Desempate determinístico pelo menor id.
		if found == nil || plan.ID < found.ID {
			found = plan
		}
	}
	return found
}
