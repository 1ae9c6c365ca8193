package handler

import (
	"net/http"

	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/cycling"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/reporting"
	"github.com/hidrapink/influencer-ops-api/pkg/apiErrors"
	"github.com/sirupsen/logrus"
)

// GetInfluencerDashboard retorna o painel do ciclo da influenciadora
func GetInfluencerDashboard(
	reporter reporting.Reporter,
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

		dashboard, err := reporter.InfluencerDashboard(r.Context(), cycle, influencer)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao montar o painel", nil)
			return
		}

		respondJSON(w, http.StatusOK, dashboard)
	}
}

// GetMasterDashboard retorna o painel do ciclo para a gestão
func GetMasterDashboard(reporter reporting.Reporter, cycles cycling.CycleManager) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		cycle, err := cycles.GetCycleByIDOrCurrent(r.Context(), queryInt(r.URL.Query(), "cycleId", "cycle_id"))
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao resolver o ciclo mensal", nil)
			return
		}

		dashboard, err := reporter.MasterDashboard(r.Context(), cycle)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao montar o painel", nil)
			return
		}

		respondJSON(w, http.StatusOK, dashboard)
	}
}

// GetCommissionHistory lista os fechamentos mensais da influenciadora
func GetCommissionHistory(reporter reporting.Reporter, influencerRepo repository.InfluencerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		influencer := resolveInfluencer(w, r, influencerRepo, queryInt(r.URL.Query(), "influencerId", "influencer_id"))
		if influencer == nil {
			return
		}

		history, err := reporter.CommissionHistory(influencer.ID)
		if err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao buscar o histórico de comissões", nil)
			return
		}

		respondJSON(w, http.StatusOK, map[string]any{
			"influencer": map[string]any{"id": influencer.ID, "nome": influencer.Name},
			"history":    history,
		})
	}
}
