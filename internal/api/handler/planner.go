package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/cycling"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/planning"
	"github.com/hidrapink/influencer-ops-api/pkg/apiErrors"
	"github.com/hidrapink/influencer-ops-api/pkg/middleware"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// resolveInfluencer identifica a influenciadora alvo da requisição. O perfil
// master informa o ID explicitamente; a influenciadora só enxerga o próprio
// cadastro. Em caso de falha o erro já sai escrito na resposta.
func resolveInfluencer(
	w http.ResponseWriter,
	r *http.Request,
	influencerRepo repository.InfluencerRepository,
	requestedID *int,
) *domain.Influencer {
	userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
	if !ok {
		apiErrors.WriteError(w, apiErrors.ErrInvalidToken, "Usuário não autenticado", nil)
		return nil
	}

	switch userClaims.UserRoleID {
	case domain.RoleMaster:
		if requestedID == nil {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Informe o ID da influenciadora.", nil)
			return nil
		}
		influencer, err := influencerRepo.GetByID(*requestedID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar influenciadora", nil)
			return nil
		}
		if influencer == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Influenciadora nao encontrada.", nil)
			return nil
		}
		return influencer

	case domain.RoleInfluencer:
		influencer, err := influencerRepo.GetByUserID(userClaims.UserID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar influenciadora", nil)
			return nil
		}
		if influencer == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Cadastro da influenciadora nao encontrado.", nil)
			return nil
		}
		return influencer
	}

	apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Acesso negado.", nil)
	return nil
}

// parsePlanMutationPayload resolve os apelidos de campo do corpo da
// reconciliação de planos para o esquema tipado.
func parsePlanMutationPayload(body map[string]any) *domain.PlanMutationRequest {
	req := &domain.PlanMutationRequest{}

	for _, key := range []string{"removedScripts", "removedScriptIds", "removed_ids", "removed", "removals"} {
		if value, ok := body[key]; ok && value != nil && value != "" {
			req.RemovedScriptIDs = appendIDs(req.RemovedScriptIDs, value)
		}
	}
	for _, key := range []string{"removedPlans", "removedPlanIds", "removedOccurrences", "removed_occurrences"} {
		if value, ok := body[key]; ok && value != nil && value != "" {
			req.RemovedPlanIDs = appendIDs(req.RemovedPlanIDs, value)
		}
	}

	var rawEntries []any
	for _, key := range []string{"entries", "schedules", "agendamentos", "days", "dates"} {
		if list, ok := body[key].([]any); ok {
			rawEntries = list
			break
		}
	}

	for _, raw := range rawEntries {
		switch entry := raw.(type) {
		case string:
			req.Entries = append(req.Entries, domain.PlanEntryInput{Date: entry})

		case map[string]any:
			scriptID := payloadPositiveInt(entry, "scriptId", "contentScriptId", "content_script_id", "roteiro_id", "roteiroId")
			if scriptID == nil {
				for _, nestedKey := range []string{"script", "roteiro"} {
					if nested, ok := entry[nestedKey].(map[string]any); ok {
						if scriptID = payloadPositiveInt(nested, "id"); scriptID != nil {
							break
						}
					}
				}
			}

			appendFlag := false
			if value, ok := payloadValue(entry, "append", "add", "create", "novo"); ok {
				appendFlag = parseBooleanFlag(value)
			}
			if value, ok := payloadValue(entry, "action", "acao"); ok {
				appendFlag = appendFlag || parseBooleanFlag(value)
			}

			req.Entries = append(req.Entries, domain.PlanEntryInput{
				PlanID:   payloadPositiveInt(entry, "id", "planId", "plan_id"),
				Date:     payloadString(entry, "date", "day", "scheduled_date", "scheduledDate", "data"),
				ScriptID: scriptID,
				Notes:    payloadString(entry, "notes", "observacao", "obs", "annotation"),
				Append:   appendFlag,
			})
		}
	}

	return req
}

// ListInfluencerPlans retorna a agenda do ciclo da influenciadora
func ListInfluencerPlans(
	planner planning.Planner,
	cycles cycling.CycleManager,
	influencerRepo repository.InfluencerRepository,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		query := r.URL.Query()

		cycle, err := cycles.GetCycleByIDOrCurrent(r.Context(), queryInt(query, "cycleId", "cycle_id"))
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao resolver o ciclo mensal", nil)
			return
		}

		influencer := resolveInfluencer(w, r, influencerRepo, queryInt(query, "influencerId", "influencer_id"))
		if influencer == nil {
			return
		}

		plans, err := planner.ListPlans(cycle.ID, influencer.ID)
		if err != nil {
			writePlanError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"cycle":      cycle.Summary(),
			"influencer": influencer,
			"plans":      plans,
		})
	}
}

// ReconcileInfluencerPlans aplica a agenda proposta no corpo sobre os planos
// persistidos do ciclo
func ReconcileInfluencerPlans(
	planner planning.Planner,
	cycles cycling.CycleManager,
	influencerRepo repository.InfluencerRepository,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ReconcileInfluencerPlans")

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		cycle, err := cycles.GetCycleByIDOrCurrent(r.Context(), payloadPositiveInt(body, "cycleId", "cycle_id"))
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao resolver o ciclo mensal", nil)
			return
		}

		influencer := resolveInfluencer(w, r, influencerRepo, payloadPositiveInt(body, "influencerId", "influencer_id"))
		if influencer == nil {
			return
		}

		plans, err := planner.ReconcilePlans(r.Context(), cycle, influencer, parsePlanMutationPayload(body))
		if err != nil {
			writePlanError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, map[string]any{
			"cycle": cycle.Summary(),
			"plans": plans,
		})
	}
}

// UpdatePlan altera um agendamento pontual (data, roteiro, observação)
func UpdatePlan(
	planner planning.Planner,
	cycles cycling.CycleManager,
	influencerRepo repository.InfluencerRepository,
) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdatePlan")

		planID, err := strconv.Atoi(httprouter.ParamsFromContext(r.Context()).ByName("id"))
		if err != nil || planID <= 0 {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID invalido.", nil)
			return
		}

		details, err := planner.GetPlanDetails(planID)
		if err != nil {
			writePlanError(w, err)
			return
		}
		if details == nil {
			apiErrors.WriteError(w, apiErrors.ErrResourceNotFound, "Agendamento nao encontrado.", nil)
			return
		}

		influencer := resolveInfluencer(w, r, influencerRepo, &details.InfluencerID)
		if influencer == nil {
			return
		}

		cycle, err := cycles.GetCycleByIDOrCurrent(r.Context(), &details.CycleID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao resolver o ciclo mensal", nil)
			return
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		update := &domain.SinglePlanUpdate{
			PlanID:   planID,
			NextDate: payloadStringPtr(body, "date", "scheduled_date", "scheduledDate"),
			Notes:    payloadStringPtr(body, "notes", "observacao", "obs", "annotation"),
		}
		if value, ok := payloadValue(body, "scriptId", "contentScriptId"); ok {
			if scriptID := positiveInt(value); scriptID != nil {
				update.NextScriptID = scriptID
			} else {
				update.ClearScript = true
			}
		}

		plan, err := planner.UpdateSinglePlan(r.Context(), cycle, influencer, update)
		if err != nil {
			writePlanError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, plan)
	}
}

// ListPendingValidations lista os agendamentos aguardando validação no ciclo
func ListPendingValidations(planner planning.Planner, cycles cycling.CycleManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cycle, err := cycles.GetCycleByIDOrCurrent(r.Context(), queryInt(r.URL.Query(), "cycleId", "cycle_id"))
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao resolver o ciclo mensal", nil)
			return
		}

		pending, err := planner.ListPendingValidations(cycle.ID)
		if err != nil {
			writePlanError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"cycle":   cycle.Summary(),
			"pending": pending,
		})
	}
}

// ApprovePlanValidation marca o agendamento como validado
func ApprovePlanValidation(planner planning.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ApprovePlanValidation")

		planID, err := strconv.Atoi(httprouter.ParamsFromContext(r.Context()).ByName("id"))
		if err != nil || planID <= 0 {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID invalido.", nil)
			return
		}

		plan, err := planner.ApprovePlanValidation(r.Context(), planID)
		if err != nil {
			writePlanError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, plan)
	}
}

// RejectPlanValidation devolve o agendamento para "scheduled"
func RejectPlanValidation(planner planning.Planner) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RejectPlanValidation")

		planID, err := strconv.Atoi(httprouter.ParamsFromContext(r.Context()).ByName("id"))
		if err != nil || planID <= 0 {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID invalido.", nil)
			return
		}

		plan, err := planner.RejectPlanValidation(r.Context(), planID)
		if err != nil {
			writePlanError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, plan)
	}
}
