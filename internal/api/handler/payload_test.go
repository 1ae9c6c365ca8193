package handler

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadStringResolveApelidos(t *testing.T) {
	body := map[string]any{"order_number": " 1001 ", "pedido": "ignorado"}

	assert.Equal(t, "1001", payloadString(body, "orderNumber", "order_number", "pedido"))
	assert.Equal(t, "", payloadString(body, "inexistente"))
}

func TestPayloadStringCoercaoDeTipos(t *testing.T) {
	body := map[string]any{"numero": float64(1001), "flag": true}

	assert.Equal(t, "1001", payloadString(body, "numero"))
	assert.Equal(t, "true", payloadString(body, "flag"))
}

func TestPayloadStringPtrDistingueAusenteDeVazio(t *testing.T) {
	body := map[string]any{"notes": "  "}

	present := payloadStringPtr(body, "notes")
	require.NotNil(t, present)
	assert.Equal(t, "", *present)

	assert.Nil(t, payloadStringPtr(body, "observacao"))
}

func TestPayloadFloat(t *testing.T) {
	body := map[string]any{
		"points":  float64(150),
		"texto":   "99.5",
		"vazio":   "",
		"invalid": "abc",
	}

	require.NotNil(t, payloadFloat(body, "points"))
	assert.Equal(t, 150.0, *payloadFloat(body, "points"))
	assert.Equal(t, 99.5, *payloadFloat(body, "texto"))
	assert.Nil(t, payloadFloat(body, "vazio"))
	assert.Nil(t, payloadFloat(body, "invalid"))
	assert.Nil(t, payloadFloat(body, "ausente"))
}

func TestPositiveInt(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected *int
	}{
		{name: "numero", value: float64(7), expected: intPtr(7)},
		{name: "string numerica", value: "12", expected: intPtr(12)},
		{name: "fracionario rejeitado", value: 7.5, expected: nil},
		{name: "zero rejeitado", value: float64(0), expected: nil},
		{name: "negativo rejeitado", value: float64(-3), expected: nil},
		{name: "texto rejeitado", value: "abc", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := positiveInt(tt.value)
			if tt.expected == nil {
				assert.Nil(t, result)
				return
			}
			require.NotNil(t, result)
			assert.Equal(t, *tt.expected, *result)
		})
	}
}

func TestAppendIDsAceitaArrayEEscalar(t *testing.T) {
	ids := appendIDs(nil, []any{float64(1), "2", float64(-3), "abc"})
	ids = appendIDs(ids, float64(9))

	assert.Equal(t, []int{1, 2, 9}, ids)
}

func TestParseBooleanFlag(t *testing.T) {
	tests := []struct {
		name     string
		value    any
		expected bool
	}{
		{name: "booleano", value: true, expected: true},
		{name: "numero diferente de zero", value: float64(1), expected: true},
		{name: "zero", value: float64(0), expected: false},
		{name: "palavra de criacao", value: "novo", expected: true},
		{name: "maiusculas", value: " APPEND ", expected: true},
		{name: "palavra desconhecida", value: "update", expected: false},
		{name: "tipo desconhecido", value: []any{}, expected: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, parseBooleanFlag(tt.value))
		})
	}
}

func TestQueryInt(t *testing.T) {
	values := map[string][]string{
		"cycle_id": {"5"},
		"invalido": {"abc"},
	}

	result := queryInt(values, "cycleId", "cycle_id")
	require.NotNil(t, result)
	assert.Equal(t, 5, *result)

	assert.Nil(t, queryInt(values, "invalido"))
	assert.Nil(t, queryInt(values, "ausente"))
}

func TestExtractImportText(t *testing.T) {
	assert.Equal(t, "conteudo", extractImportText(map[string]any{"text": "conteudo"}))
	assert.Equal(t, "conteudo", extractImportText(map[string]any{"payload": "conteudo"}))
	assert.Equal(t, "", extractImportText(map[string]any{}))

	// O texto não é aparado na borda: o serviço decide o que fazer com ele.
	assert.Equal(t, "  conteudo  ", extractImportText(map[string]any{"data": "  conteudo  "}))
}

func TestParsePlanMutationPayload(t *testing.T) {
	body := map[string]any{
		"agendamentos": []any{
			"2025-02-10",
			map[string]any{
				"data":       "2025-02-12",
				"roteiro_id": float64(3),
				"observacao": " postar stories ",
				"novo":       "sim",
				"acao":       "append",
			},
			map[string]any{
				"plan_id": float64(9),
				"day":     "2025-02-15",
				"script":  map[string]any{"id": float64(4)},
			},
		},
		"removedScripts":      []any{float64(2), "5"},
		"removed_occurrences": float64(11),
	}

	req := parsePlanMutationPayload(body)

	assert.Equal(t, []int{2, 5}, req.RemovedScriptIDs)
	assert.Equal(t, []int{11}, req.RemovedPlanIDs)
	require.Len(t, req.Entries, 3)

	assert.Equal(t, "2025-02-10", req.Entries[0].Date)
	assert.Nil(t, req.Entries[0].ScriptID)

	second := req.Entries[1]
	assert.Equal(t, "2025-02-12", second.Date)
	require.NotNil(t, second.ScriptID)
	assert.Equal(t, 3, *second.ScriptID)
	assert.Equal(t, "postar stories", second.Notes)
	// "sim" não é palavra de criação, mas "append" em acao é.
	assert.True(t, second.Append)

	third := req.Entries[2]
	require.NotNil(t, third.PlanID)
	assert.Equal(t, 9, *third.PlanID)
	assert.Equal(t, "2025-02-15", third.Date)
	require.NotNil(t, third.ScriptID)
	assert.Equal(t, 4, *third.ScriptID)
	assert.False(t, third.Append)
}

func TestParsePlanMutationPayloadSemEntradas(t *testing.T) {
	req := parsePlanMutationPayload(map[string]any{})

	assert.Empty(t, req.Entries)
	assert.Empty(t, req.RemovedScriptIDs)
	assert.Empty(t, req.RemovedPlanIDs)
}

func TestParseSaleRequestPayload(t *testing.T) {
	body := map[string]any{
		"pedido":    float64(1001),
		"cupom":     " PINK10 ",
		"date":      "2025-03-02",
		"pontuacao": "150",
		"status":    "approved",
		"itens": []any{
			map[string]any{"codigo": "HP-GLOSS-01", "quantidade": "2"},
			"invalido",
			map[string]any{"sku": "HP-SERUM-01"},
		},
	}

	req := parseSaleRequestPayload(body)

	assert.Equal(t, "1001", req.OrderNumber)
	assert.Equal(t, "PINK10", req.Coupon)
	assert.Equal(t, "2025-03-02", req.Date)
	require.NotNil(t, req.Points)
	assert.Equal(t, 150.0, *req.Points)
	assert.Equal(t, "approved", req.Status)

	require.Len(t, req.Items, 3)
	require.NotNil(t, req.Items[0])
	assert.Equal(t, "HP-GLOSS-01", req.Items[0].SKU)
	assert.Equal(t, 2.0, req.Items[0].Quantity)

	// Entrada que não é objeto vira nil para preservar o rótulo "Item N".
	assert.Nil(t, req.Items[1])

	require.NotNil(t, req.Items[2])
	assert.Equal(t, "HP-SERUM-01", req.Items[2].SKU)
	assert.True(t, math.IsNaN(req.Items[2].Quantity))
}

func intPtr(value int) *int {
	return &value
}
