package selling

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/pkg/points"
)

func TestParsePointsValue(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		expected      int
		expectedError string
	}{
		{name: "inteiro valido", value: "150", expected: 150},
		{name: "ruido decimal tolerado", value: "150.0000", expected: 150},
		{name: "zero", value: "0", expected: 0},
		{name: "vazio", value: "  ", expectedError: "Pontos deve ser informado."},
		{name: "nao numerico", value: "abc", expectedError: "Pontos deve ser um numero inteiro maior ou igual a zero."},
		{name: "negativo", value: "-5", expectedError: "Pontos deve ser um numero inteiro maior ou igual a zero."},
		{name: "fracionario", value: "10.5", expectedError: "Pontos deve ser um numero inteiro."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			value, errMessage := parsePointsValue(tt.value, "Pontos")
			assert.Equal(t, tt.expectedError, errMessage)
			if tt.expectedError == "" {
				assert.Equal(t, tt.expected, value)
			}
		})
	}
}

func TestParseImportDate(t *testing.T) {
	tests := []struct {
		name          string
		value         string
		expected      string
		expectedError string
	}{
		{name: "formato completo", value: "02/03/2025", expected: "2025-03-02"},
		{name: "digitos simples", value: "2/3/25", expected: "2025-03-02"},
		{name: "separador hifen", value: "02-03-2025", expected: "2025-03-02"},
		{name: "hora opcional", value: "02/03/2025 14:30", expected: "2025-03-02"},
		{name: "vazio", value: "", expectedError: "Informe a data da venda."},
		{name: "formato ISO rejeitado", value: "2025-03-02", expectedError: "Data invalida. Use o formato DD/MM/AAAA."},
		{name: "dia inexistente no mes", value: "31/02/2025", expectedError: "Data invalida. Use o formato DD/MM/AAAA."},
		{name: "mes invalido", value: "10/13/2025", expectedError: "Data invalida. Use o formato DD/MM/AAAA."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			date, errMessage := parseImportDate(tt.value)
			assert.Equal(t, tt.expectedError, errMessage)
			assert.Equal(t, tt.expected, date)
		})
	}
}

func TestBuildImportAnalysisLinhaValida(t *testing.T) {
	converter := points.NewConverter(0.1)
	couponMap := map[string]*domain.Influencer{
		"pink10": {ID: 7, Name: "Ana"},
	}

	entries := []*domain.ImportEntry{
		{Line: 1, OrderNumber: "1001", Coupon: "PINK10", RawDate: "02/03/2025", RawPoints: "150"},
	}

	analysis := buildImportAnalysis(entries, couponMap, map[string]bool{}, converter)
	require.Len(t, analysis.Rows, 1)

	row := analysis.Rows[0]
	assert.True(t, row.Valid())
	assert.Empty(t, row.Errors)
	require.NotNil(t, row.OrderNumber)
	assert.Equal(t, "1001", *row.OrderNumber)
	require.NotNil(t, row.Date)
	assert.Equal(t, "2025-03-02", *row.Date)
	assert.Equal(t, 150, row.Points)
	assert.Equal(t, 15.0, row.PointsValue)
	require.NotNil(t, row.InfluencerID)
	assert.Equal(t, 7, *row.InfluencerID)

	assert.Equal(t, 1, analysis.ValidCount)
	assert.Equal(t, 0, analysis.ErrorCount)
	assert.False(t, analysis.HasErrors)
	assert.Equal(t, 1, analysis.Summary.Count)
	assert.Equal(t, 150, analysis.Summary.TotalPoints)
	assert.Equal(t, 15.0, analysis.Summary.TotalPointsValue)
	assert.Equal(t, 0.1, analysis.Summary.PointValueBRL)
}

func TestBuildImportAnalysisCupomNaoCadastrado(t *testing.T) {
	converter := points.NewConverter(0.1)

	entries := []*domain.ImportEntry{
		{Line: 1, OrderNumber: "1001", Coupon: "DESCONHECIDO", RawDate: "02/03/2025", RawPoints: "150"},
		{Line: 2, OrderNumber: "1002", Coupon: "", RawDate: "02/03/2025", RawPoints: "100"},
	}

	analysis := buildImportAnalysis(entries, map[string]*domain.Influencer{}, map[string]bool{}, converter)
	require.Len(t, analysis.Rows, 2)

	assert.Contains(t, analysis.Rows[0].Errors, "Cupom nao cadastrado.")
	assert.Contains(t, analysis.Rows[1].Errors, "Cupom nao cadastrado.")
	assert.Nil(t, analysis.Rows[0].InfluencerID)
	assert.Equal(t, 0, analysis.ValidCount)
	assert.True(t, analysis.HasErrors)
}

func TestBuildImportAnalysisPedidosRepetidosEExistentes(t *testing.T) {
	converter := points.NewConverter(0.1)
	couponMap := map[string]*domain.Influencer{
		"pink10": {ID: 7, Name: "Ana"},
	}

	entries := []*domain.ImportEntry{
		{Line: 1, OrderNumber: "2002", Coupon: "PINK10", RawDate: "02/03/2025", RawPoints: "10"},
		{Line: 2, OrderNumber: "2002", Coupon: "PINK10", RawDate: "03/03/2025", RawPoints: "20"},
		{Line: 3, OrderNumber: "3003", Coupon: "PINK10", RawDate: "04/03/2025", RawPoints: "30"},
		{Line: 4, OrderNumber: "", Coupon: "PINK10", RawDate: "05/03/2025", RawPoints: "40"},
	}
	existingOrders := map[string]bool{"3003": true}

	analysis := buildImportAnalysis(entries, couponMap, existingOrders, converter)
	require.Len(t, analysis.Rows, 4)

	// O erro de duplicidade marca todas as ocorrências do mesmo pedido.
	assert.Contains(t, analysis.Rows[0].Errors, "Numero de pedido repetido nos dados importados.")
	assert.Contains(t, analysis.Rows[1].Errors, "Numero de pedido repetido nos dados importados.")
	assert.Contains(t, analysis.Rows[2].Errors, "Numero de pedido ja cadastrado.")
	assert.Contains(t, analysis.Rows[3].Errors, "Informe o numero do pedido.")
	assert.Equal(t, 0, analysis.ValidCount)
	assert.Equal(t, 4, analysis.ErrorCount)
}

func TestBuildImportAnalysisDataAusente(t *testing.T) {
	converter := points.NewConverter(0.1)
	couponMap := map[string]*domain.Influencer{
		"pink10": {ID: 7, Name: "Ana"},
	}

	entries := []*domain.ImportEntry{
		{Line: 1, OrderNumber: "1001", Coupon: "PINK10", RawDate: "", RawPoints: "150"},
	}

	analysis := buildImportAnalysis(entries, couponMap, map[string]bool{}, converter)
	require.Len(t, analysis.Rows, 1)

	row := analysis.Rows[0]
	assert.Nil(t, row.Date)
	assert.Equal(t, []string{"Informe a data da venda.", "Informe a data da venda."}, row.Errors)
}

func TestBuildImportAnalysisTotalCalculadoPelosSkus(t *testing.T) {
	converter := points.NewConverter(0.1)
	couponMap := map[string]*domain.Influencer{
		"pink10": {ID: 7, Name: "Ana"},
	}

	two := 2.0
	one := 1.0
	ten := 10.0
	twentyFive := 25.0
	total := 45

	entries := []*domain.ImportEntry{
		{
			Line:        1,
			OrderNumber: "1001",
			Coupon:      "PINK10",
			RawDate:     "02/03/2025",
			TotalPoints: &total,
			SkuDetails: []*domain.ImportSkuDetail{
				{SKU: "HP-GLOSS-01", Quantity: &two, PointsPerUnit: &ten, Line: 1},
				{SKU: "HP-SERUM-01", Quantity: &one, PointsPerUnit: &twentyFive, Line: 2},
			},
		},
	}

	analysis := buildImportAnalysis(entries, couponMap, map[string]bool{}, converter)
	require.Len(t, analysis.Rows, 1)

	row := analysis.Rows[0]
	assert.True(t, row.Valid())
	assert.Equal(t, 45, row.Points)
	assert.Equal(t, 4.5, row.PointsValue)
	require.Len(t, row.SkuDetails, 2)
	require.NotNil(t, row.SkuDetails[0].Points)
	assert.Equal(t, 20, *row.SkuDetails[0].Points)
}

func TestBuildImportAnalysisSkusSemTotalMantemErroDePontos(t *testing.T) {
	converter := points.NewConverter(0.1)
	couponMap := map[string]*domain.Influencer{
		"pink10": {ID: 7, Name: "Ana"},
	}

	two := 2.0
	one := 1.0
	ten := 10.0
	twentyFive := 25.0

	// Sem total informado, a soma dos SKUs preenche a pontuação exibida, mas
	// o erro do campo de pontos permanece e a linha continua inválida.
	entries := []*domain.ImportEntry{
		{
			Line:        1,
			OrderNumber: "1001",
			Coupon:      "PINK10",
			RawDate:     "02/03/2025",
			SkuDetails: []*domain.ImportSkuDetail{
				{SKU: "HP-GLOSS-01", Quantity: &two, PointsPerUnit: &ten, Line: 1},
				{SKU: "HP-SERUM-01", Quantity: &one, PointsPerUnit: &twentyFive, Line: 2},
			},
		},
	}

	analysis := buildImportAnalysis(entries, couponMap, map[string]bool{}, converter)
	require.Len(t, analysis.Rows, 1)

	row := analysis.Rows[0]
	assert.False(t, row.Valid())
	assert.Equal(t, []string{"Pontos deve ser informado."}, row.Errors)
	assert.Equal(t, 45, row.Points)
}

func TestBuildImportAnalysisErrosDeSku(t *testing.T) {
	converter := points.NewConverter(0.1)
	couponMap := map[string]*domain.Influencer{
		"pink10": {ID: 7, Name: "Ana"},
	}

	two := 2.0

	entries := []*domain.ImportEntry{
		{
			Line:        1,
			OrderNumber: "1001",
			Coupon:      "PINK10",
			RawDate:     "02/03/2025",
			SkuDetails: []*domain.ImportSkuDetail{
				{SKU: "", Quantity: &two, Line: 3},
				{SKU: "HP-GLOSS-01", QuantityRaw: "abc", Line: 4},
			},
		},
	}

	analysis := buildImportAnalysis(entries, couponMap, map[string]bool{}, converter)
	require.Len(t, analysis.Rows, 1)

	row := analysis.Rows[0]
	assert.Contains(t, row.Errors, "SKU nao informado na linha 3.")
	assert.Contains(t, row.Errors, "SKU (sem SKU) nao possui pontuacao cadastrada.")
	assert.Contains(t, row.Errors, "Quantidade invalida para SKU HP-GLOSS-01 na linha 4.")
	assert.Contains(t, row.Errors, "SKU HP-GLOSS-01 nao possui pontuacao cadastrada.")
	assert.Contains(t, row.Errors, "Informe a pontuacao da venda.")
	assert.False(t, row.Valid())
}

func TestBuildImportAnalysisTotalPontosInformadoPrevalece(t *testing.T) {
	converter := points.NewConverter(0.1)
	couponMap := map[string]*domain.Influencer{
		"pink10": {ID: 7, Name: "Ana"},
	}

	total := 99
	entries := []*domain.ImportEntry{
		{Line: 1, OrderNumber: "1001", Coupon: "PINK10", RawDate: "02/03/2025", RawPoints: "abc", TotalPoints: &total},
	}

	analysis := buildImportAnalysis(entries, couponMap, map[string]bool{}, converter)
	require.Len(t, analysis.Rows, 1)

	row := analysis.Rows[0]
	assert.True(t, row.Valid())
	assert.Equal(t, 99, row.Points)
}
