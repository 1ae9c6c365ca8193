package selling

import (
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/pkg/points"
)

// fakeSkuPointRepo resolve SKUs a partir de um mapa em memória.
type fakeSkuPointRepo struct {
	points map[string]float64
}

func (f *fakeSkuPointRepo) GetActiveBySKU(sku string) (*domain.SkuPoint, error) {
	perUnit, ok := f.points[strings.ToLower(sku)]
	if !ok {
		return nil, nil
	}
	return &domain.SkuPoint{SKU: strings.ToUpper(sku), PointsPerUnit: perUnit, Active: true}, nil
}

func (f *fakeSkuPointRepo) MapActivePoints() (map[string]float64, error) {
	return f.points, nil
}

func newSaleTestService() *Service {
	return &Service{
		skuRepo: &fakeSkuPointRepo{points: map[string]float64{
			"hp-gloss-01": 10,
			"hp-serum-01": 25,
		}},
		converter: points.NewConverter(0.1),
	}
}

func floatPtr(value float64) *float64 {
	return &value
}

func TestValidateSaleStatus(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		fallback      domain.SaleStatus
		expected      domain.SaleStatus
		expectedError string
	}{
		{name: "vazio sem fallback vira pending", value: "", expected: domain.SaleStatusPending},
		{name: "vazio mantem o status atual", value: "", fallback: domain.SaleStatusApproved, expected: domain.SaleStatusApproved},
		{name: "maiusculas sao normalizadas", value: "APPROVED", expected: domain.SaleStatusApproved},
		{name: "status desconhecido", value: "cancelado", expectedError: "Status invalido. Use pending, approved ou rejected."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			status, err := validateSaleStatus(tt.value, tt.fallback)
			if tt.expectedError != "" {
				require.Error(t, err)
				var saleErr *SaleError
				require.ErrorAs(t, err, &saleErr)
				assert.Equal(t, tt.expectedError, saleErr.Message)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.expected, status)
		})
	}
}

func TestNormalizeSaleBodyCamposObrigatorios(t *testing.T) {
	service := newSaleTestService()

	tests := []struct {
		name            string
		request         *SaleRequest
		expectedMessage string
	}{
		{
			name:            "corpo nulo",
			request:         nil,
			expectedMessage: "Informe o numero do pedido.",
		},
		{
			name:            "pedido ausente",
			request:         &SaleRequest{Coupon: "PINK10", Date: "2025-03-02"},
			expectedMessage: "Informe o numero do pedido.",
		},
		{
			name:            "pedido longo demais",
			request:         &SaleRequest{OrderNumber: strings.Repeat("9", 101), Coupon: "PINK10", Date: "2025-03-02"},
			expectedMessage: "Numero do pedido deve ter no maximo 100 caracteres.",
		},
		{
			name:            "cupom ausente",
			request:         &SaleRequest{OrderNumber: "1001", Date: "2025-03-02"},
			expectedMessage: "Informe o cupom da influenciadora.",
		},
		{
			name:            "data fora do formato",
			request:         &SaleRequest{OrderNumber: "1001", Coupon: "PINK10", Date: "02/03/2025"},
			expectedMessage: "Informe uma data valida (YYYY-MM-DD).",
		},
		{
			name:            "sem pontos e sem itens",
			request:         &SaleRequest{OrderNumber: "1001", Coupon: "PINK10", Date: "2025-03-02"},
			expectedMessage: "Informe a pontuacao da venda ou cadastre pelo menos um SKU valido.",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.normalizeSaleBody(tt.request)
			require.Error(t, err)

			var saleErr *SaleError
			require.ErrorAs(t, err, &saleErr)
			assert.Equal(t, tt.expectedMessage, saleErr.Message)
		})
	}
}

func TestNormalizeSaleBodyValidaPontos(t *testing.T) {
	service := newSaleTestService()

	tests := []struct {
		name            string
		points          *float64
		expectedMessage string
	}{
		{name: "NaN", points: floatPtr(math.NaN()), expectedMessage: "Pontos deve ser um numero inteiro maior ou igual a zero."},
		{name: "negativo", points: floatPtr(-10), expectedMessage: "Pontos deve ser um numero inteiro maior ou igual a zero."},
		{name: "fracionario", points: floatPtr(10.5), expectedMessage: "Pontos deve ser um numero inteiro."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := service.normalizeSaleBody(&SaleRequest{
				OrderNumber: "1001",
				Coupon:      "PINK10",
				Date:        "2025-03-02",
				Points:      tt.points,
			})
			require.Error(t, err)

			var saleErr *SaleError
			require.ErrorAs(t, err, &saleErr)
			assert.Equal(t, tt.expectedMessage, saleErr.Message)
		})
	}
}

func TestNormalizeSaleBodyComPontosInformados(t *testing.T) {
	service := newSaleTestService()

	data, err := service.normalizeSaleBody(&SaleRequest{
		OrderNumber: "  1001  ",
		Coupon:      " PINK10 ",
		Date:        "2025-03-02",
		Points:      floatPtr(150),
	})
	require.NoError(t, err)

	assert.Equal(t, "1001", data.orderNumber)
	assert.Equal(t, "PINK10", data.coupon)
	assert.Equal(t, "2025-03-02", data.date)
	assert.Equal(t, 150, data.points)
	assert.Empty(t, data.items)
}

func TestNormalizeSaleBodyCalculaPontosPelosItens(t *testing.T) {
	service := newSaleTestService()

	data, err := service.normalizeSaleBody(&SaleRequest{
		OrderNumber: "1001",
		Coupon:      "PINK10",
		Date:        "2025-03-02",
		Items: []*SaleItemRequest{
			{SKU: "hp-gloss-01", Quantity: 2},
			{SKU: "hp-serum-01", Quantity: 1},
		},
	})
	require.NoError(t, err)

	assert.Equal(t, 45, data.points)
	require.Len(t, data.items, 2)
	assert.Equal(t, 20, data.items[0].Points)
	assert.Equal(t, 25, data.items[1].Points)
}

func TestNormalizeSaleBodyPontosDivergemDosItens(t *testing.T) {
	service := newSaleTestService()

	_, err := service.normalizeSaleBody(&SaleRequest{
		OrderNumber: "1001",
		Coupon:      "PINK10",
		Date:        "2025-03-02",
		Points:      floatPtr(99),
		Items: []*SaleItemRequest{
			{SKU: "hp-gloss-01", Quantity: 2},
		},
	})
	require.Error(t, err)

	var saleErr *SaleError
	require.ErrorAs(t, err, &saleErr)
	assert.Equal(t, "A pontuacao informada nao corresponde ao total calculado pelos SKUs.", saleErr.Message)
	assert.Equal(t, []string{"Ajuste os pontos ou os itens cadastrados para prosseguir."}, saleErr.Details)
}

func TestNormalizeSaleItemsAcumulaProblemas(t *testing.T) {
	service := newSaleTestService()

	items := []*SaleItemRequest{
		nil,
		{SKU: "", Quantity: 1},
		{SKU: "SKU-FANTASMA", Quantity: 1},
		{SKU: "hp-gloss-01", Quantity: 0},
		{SKU: "hp-gloss-01", Quantity: 1.5},
	}

	_, _, err := service.normalizeSaleItems(items)
	require.Error(t, err)

	var saleErr *SaleError
	require.ErrorAs(t, err, &saleErr)

	// O item nulo é pulado mas preserva a posição dos demais no rótulo.
	problems, ok := saleErr.Details.([]string)
	require.True(t, ok)
	assert.Equal(t, []string{
		"Item 2: informe o SKU.",
		"SKU SKU-FANTASMA nao possui pontuacao cadastrada.",
		"Item 4: quantidade invalida.",
		"Item 5: quantidade deve ser um numero inteiro.",
	}, problems)
	assert.Equal(t, "Item 2: informe o SKU.", saleErr.Message)
}

func TestNormalizeSaleItemsSemItens(t *testing.T) {
	service := newSaleTestService()

	items, total, err := service.normalizeSaleItems(nil)
	require.NoError(t, err)
	assert.Nil(t, items)
	assert.Equal(t, 0, total)
}
