package handler

import (
	"encoding/json"
	"math"
	"net/http"
	"strconv"

	"github.com/hidrapink/influencer-ops-api/infrastructure/repository"
	"github.com/hidrapink/influencer-ops-api/internal/usecases/selling"
	"github.com/hidrapink/influencer-ops-api/pkg/apiErrors"
	"github.com/julienschmidt/httprouter"
	"github.com/sirupsen/logrus"
)

// extractImportText pega o texto colado da importação sem alterá-lo; a
// limpeza (BOM, espaços) é responsabilidade do serviço.
func extractImportText(body map[string]any) string {
	value, ok := payloadValue(body, "text", "data", "payload")
	if !ok {
		return ""
	}
	return coerceString(value)
}

// parseSaleRequestPayload resolve os apelidos de campo do corpo da venda
// manual para o esquema tipado.
func parseSaleRequestPayload(body map[string]any) *selling.SaleRequest {
	req := &selling.SaleRequest{
		OrderNumber: payloadString(body, "orderNumber", "order_number", "pedido", "order"),
		Coupon:      payloadString(body, "cupom"),
		Date:        payloadString(body, "date"),
		Points:      payloadFloat(body, "points", "pointsValue", "points_value", "pontuacao", "pontuacaoTotal", "salePoints"),
		Status:      payloadString(body, "status", "saleStatus"),
	}

	var rawItems []any
	for _, key := range []string{"skuDetails", "sku_items", "items", "skus", "itens"} {
		if list, ok := body[key].([]any); ok {
			rawItems = list
			break
		}
	}

	for _, raw := range rawItems {
		item, ok := raw.(map[string]any)
		if !ok {
			// Mantém a posição para os rótulos "Item N" do relatório.
			req.Items = append(req.Items, nil)
			continue
		}

		quantity := math.NaN()
		if value := payloadFloat(item, "quantity", "qty", "quantidade", "amount", "quantityRaw"); value != nil {
			quantity = *value
		}

		req.Items = append(req.Items, &selling.SaleItemRequest{
			SKU:      payloadString(item, "sku", "SKU", "code", "codigo", "skuCode"),
			Quantity: quantity,
		})
	}

	return req
}

// AnalyzeSalesImport interpreta o texto colado e devolve o relatório linha a
// linha, sem persistir nada
func AnalyzeSalesImport(seller selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - AnalyzeSalesImport")

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		analysis, err := seller.AnalyzeImport(r.Context(), extractImportText(body))
		if err != nil {
			writeSaleError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, analysis)
	}
}

// ConfirmSalesImport reanalisa o texto e insere as linhas válidas
func ConfirmSalesImport(seller selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - ConfirmSalesImport")

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		result, err := seller.ConfirmImport(r.Context(), extractImportText(body))
		if err != nil {
			writeSaleError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, result)
	}
}

// CreateSale cadastra uma venda manual
func CreateSale(seller selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - CreateSale")

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		sale, err := seller.CreateSale(r.Context(), parseSaleRequestPayload(body))
		if err != nil {
			writeSaleError(w, err)
			return
		}

		respondJSON(w, http.StatusCreated, sale)
	}
}

// UpdateSale altera uma venda existente
func UpdateSale(seller selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - UpdateSale")

		saleID, err := strconv.Atoi(httprouter.ParamsFromContext(r.Context()).ByName("id"))
		if err != nil || saleID <= 0 {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID invalido.", nil)
			return
		}

		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			logrus.Error(err)
			apiErrors.WriteError(w, apiErrors.ErrInvalidRequest, "Erro ao decodificar requisição", nil)
			return
		}

		sale, err := seller.UpdateSale(r.Context(), saleID, parseSaleRequestPayload(body))
		if err != nil {
			writeSaleError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, sale)
	}
}

// DeleteSale remove a venda e os itens pontuados
func DeleteSale(seller selling.Seller) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		logrus.Info("INIT - DeleteSale")

		saleID, err := strconv.Atoi(httprouter.ParamsFromContext(r.Context()).ByName("id"))
		if err != nil || saleID <= 0 {
			apiErrors.WriteError(w, apiErrors.ErrInvalidFormat, "ID invalido.", nil)
			return
		}

		if err := seller.DeleteSale(r.Context(), saleID); err != nil {
			writeSaleError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, map[string]string{"message": "Venda removida com sucesso."})
	}
}

// ListInfluencerSales lista as vendas atribuídas à influenciadora
func ListInfluencerSales(seller selling.Seller, influencerRepo repository.InfluencerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestedID := positiveInt(httprouter.ParamsFromContext(r.Context()).ByName("influencerId"))

		influencer := resolveInfluencer(w, r, influencerRepo, requestedID)
		if influencer == nil {
			return
		}

		sales, err := seller.ListSalesByInfluencer(influencer.ID)
		if err != nil {
			writeSaleError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, sales)
	}
}

// GetSalesSummary retorna o resumo de pontuação aprovada da influenciadora
func GetSalesSummary(seller selling.Seller, influencerRepo repository.InfluencerRepository) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		requestedID := positiveInt(httprouter.ParamsFromContext(r.Context()).ByName("influencerId"))

		influencer := resolveInfluencer(w, r, influencerRepo, requestedID)
		if influencer == nil {
			return
		}

		summary, err := seller.GetSalesSummary(influencer)
		if err != nil {
			writeSaleError(w, err)
			return
		}

		respondJSON(w, http.StatusOK, summary)
	}
}
