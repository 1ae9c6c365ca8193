package handler

import (
	"context"
	"net/http"

	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/internal/scheduler"
	"github.com/hidrapink/influencer-ops-api/pkg/apiErrors"
	"github.com/hidrapink/influencer-ops-api/pkg/middleware"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// Tipos de cron job que podem ser disparados manualmente
const (
	CronJobTypeCycleRollover = "cycle-rollover"
)

// CronJobServices contém os serviços de cron necessários para execução manual
type CronJobServices struct {
	CycleRolloverService *scheduler.CycleRolloverService
}

// RunCronJob dispara manualmente a cron job informada na URL
func RunCronJob(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - RunCronJob")

		// Apenas administradores podem executar cron jobs
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != domain.RoleMaster {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem executar cron jobs", nil)
			return
		}

		cronType := httprouter.ParamsFromContext(r.Context()).ByName("type")
		if cronType == "" {
			apiErrors.WriteError(w, apiErrors.ErrMissingRequiredData, "Tipo de cron job não especificado", nil)
			return
		}

		switch cronType {
		case CronJobTypeCycleRollover:
			if services.CycleRolloverService == nil {
				apiErrors.WriteError(w, apiErrors.ErrInternalServer, "Serviço da virada de ciclo não disponível", nil)
				return
			}

			// A execução segue em segundo plano; o guard interno evita
			// disparos concorrentes.
			go func() {
				if err := services.CycleRolloverService.RunRollover(context.Background()); err != nil {
					logrus.WithError(err).Error("Erro na virada de ciclo disparada manualmente")
				}
			}()

		default:
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Tipo de cron job inválido. Valores aceitos: cycle-rollover", nil)
			return
		}

		respondJSON(w, http.StatusAccepted, map[string]any{
			"message": "Cron job iniciada com sucesso",
			"type":    cronType,
		})
	}
}

// GetCronStatus retorna o status das cron jobs
func GetCronStatus(services CronJobServices) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - GetCronStatus")

		// Apenas administradores podem ver o status das crons
		userClaims, ok := r.Context().Value(middleware.ContextKeyUser).(*domain.Claims)
		if !ok || userClaims.UserRoleID != domain.RoleMaster {
			apiErrors.WriteError(w, apiErrors.ErrInsufficientPrivilege, "Apenas administradores podem verificar status de cron jobs", nil)
			return
		}

		status := map[string]any{}
		if services.CycleRolloverService != nil {
			status[CronJobTypeCycleRollover] = services.CycleRolloverService.Status()
		}

		respondJSON(w, http.StatusOK, status)
	}
}
