package handler

import (
	"errors"
	"net/http"

	"github.com/hidrapink/influencer-ops-api/internal/usecases/planning"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/selling"
	"github.com/hidrapink/influencer-ops-api/pkg/apiErrors"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
)

var jsonOut = jsoniter.ConfigCompatibleWithStandardLibrary

// respondJSON envia a resposta JSON com o status informado.
func respondJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := jsonOut.NewEncoder(w).Encode(payload); err != nil {
		logrus.Error(err)
	}
}

// writePlanError traduz erros do planejamento para a resposta padronizada.
func writePlanError(w http.ResponseWriter, err error) {
	var planErr *planning.PlanError
	if errors.As(err, &planErr) {
		apiErrors.WriteError(w, planErr.Code, planErr.Message, nil)
		return
	}

	logrus.Error(err)
	apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao processar o planejamento", nil)
}

// writeSaleError traduz erros de vendas para a resposta padronizada,
// preservando os detalhes (relatório de análise, lista de problemas).
func writeSaleError(w http.ResponseWriter, err error) {
	var saleErr *selling.SaleError
	if errors.As(err, &saleErr) {
		apiErrors.WriteError(w, saleErr.Code, saleErr.Message, saleErr.Details)
		return
	}

	logrus.Error(err)
	apiErrors.WriteError(w, apiErrors.ErrDatabaseOperation, "Erro ao processar a venda", nil)
}
