package selling

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/pkg/points"
)

var importDateRegex = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{2,4})(?:\s+(\d{1,2}):(\d{2}))?$`)

// parsePointsValue valida um campo de pontos informado como texto: número
// inteiro maior ou igual a zero, com tolerância mínima para ruído decimal.
func parsePointsValue(value, fieldLabel string) (int, string) {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return 0, fmt.Sprintf("%s deve ser informado.", fieldLabel)
	}

	parsed, err := strconv.ParseFloat(trimmed, 64)
	if err != nil || math.IsInf(parsed, 0) || math.IsNaN(parsed) || parsed < 0 {
		return 0, fmt.Sprintf("%s deve ser um numero inteiro maior ou igual a zero.", fieldLabel)
	}

	rounded := points.RoundPoints(parsed)
	if math.Abs(float64(rounded)-parsed) > 0.0001 {
		return 0, fmt.Sprintf("%s deve ser um numero inteiro.", fieldLabel)
	}

	return rounded, ""
}

// parseImportDate aceita DD/MM/AAAA (ou com hífen, ano com dois dígitos e
// hora opcional) e devolve a data em ISO. Anos de dois dígitos caem nos anos
// 2000.
func parseImportDate(value string) (string, string) {
	trimmed := strings.TrimSpace(stripBOM(value))
	if trimmed == "" {
		return "", "Informe a data da venda."
	}

	match := importDateRegex.FindStringSubmatch(trimmed)
	if match == nil {
		return "", "Data invalida. Use o formato DD/MM/AAAA."
	}

	day, _ := strconv.Atoi(match[1])
	month, _ := strconv.Atoi(match[2])
	year, _ := strconv.Atoi(match[3])
	if year < 100 {
		year += 2000
	}
	if day < 1 || day > 31 || month < 1 || month > 12 || year < 1900 {
		return "", "Data invalida. Use o formato DD/MM/AAAA."
	}

	// Datas como 31/02 normalizam para outro mês; rejeitadas pelo round-trip.
	date := time.Date(year, time.Month(month), day, 0, 0, 0, 0, time.UTC)
	if date.Year() != year || int(date.Month()) != month || date.Day() != day {
		return "", "Data invalida. Use o formato DD/MM/AAAA."
	}

	return date.Format(time.DateOnly), ""
}

func normalizeOrderNumber(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// buildImportAnalysis valida cada entrada extraída do texto e monta o
// relatório da importação. Linhas com erro permanecem no relatório com os
// problemas anotados; o resumo considera apenas as linhas prontas para
// inserção.
func buildImportAnalysis(
	entries []*domain.ImportEntry,
	couponMap map[string]*domain.Influencer,
	existingOrders map[string]bool,
	converter *points.Converter,
) *domain.ImportAnalysis {
	rows := make([]*domain.AnalyzedImportRow, 0, len(entries))

	type rowState struct {
		row    *domain.AnalyzedImportRow
		points *int
	}
	states := make([]*rowState, 0, len(entries))

	for _, entry := range entries {
		row := &domain.AnalyzedImportRow{
			Line:        entry.Line,
			OrderNumber: normalizeOrderNumber(entry.OrderNumber),
			Coupon:      strings.TrimSpace(entry.Coupon),
			RawDate:     entry.RawDate,
			RawPoints:   entry.RawPoints,
			Errors:      []string{},
		}
		state := &rowState{row: row}

		isoDate, dateErr := parseImportDate(entry.RawDate)
		if dateErr != "" {
			row.Errors = append(row.Errors, dateErr)
		} else {
			row.Date = &isoDate
		}

		if entry.TotalPoints != nil {
			rounded := points.RoundPoints(float64(*entry.TotalPoints))
			state.points = &rounded
		} else {
			parsed, pointsErr := parsePointsValue(entry.RawPoints, "Pontos")
			if pointsErr != "" {
				row.Errors = append(row.Errors, pointsErr)
			} else {
				state.points = &parsed
			}
		}

		for _, detail := range entry.SkuDetails {
			sku := strings.TrimSpace(detail.SKU)
			skuLabel := sku
			if skuLabel == "" {
				skuLabel = "(sem SKU)"
			}
			lineNumber := detail.Line
			if lineNumber == 0 {
				lineNumber = entry.Line
			}

			quantity := detail.Quantity
			if quantity == nil && detail.QuantityRaw != "" {
				if parsed, err := strconv.ParseFloat(detail.QuantityRaw, 64); err == nil && !math.IsInf(parsed, 0) {
					quantity = &parsed
				}
			}

			if sku == "" {
				row.Errors = append(row.Errors, fmt.Sprintf("SKU nao informado na linha %d.", lineNumber))
			}
			if quantity == nil || *quantity <= 0 {
				row.Errors = append(row.Errors, fmt.Sprintf("Quantidade invalida para SKU %s na linha %d.", skuLabel, lineNumber))
			}
			if detail.PointsPerUnit == nil || *detail.PointsPerUnit < 0 {
				row.Errors = append(row.Errors, fmt.Sprintf("SKU %s nao possui pontuacao cadastrada.", skuLabel))
			}

			normalized := &domain.ImportSkuDetail{
				SKU:           sku,
				Quantity:      quantity,
				QuantityRaw:   detail.QuantityRaw,
				PointsPerUnit: detail.PointsPerUnit,
				Line:          lineNumber,
			}
			if detail.PointsPerUnit != nil && quantity != nil && *quantity > 0 {
				computed := points.RoundPoints(*quantity * *detail.PointsPerUnit)
				normalized.Points = &computed
			}
			row.SkuDetails = append(row.SkuDetails, normalized)
		}

		if row.Coupon == "" {
			row.Errors = append(row.Errors, "Cupom nao cadastrado.")
		} else if influencer, ok := couponMap[strings.ToLower(row.Coupon)]; ok && influencer != nil {
			row.InfluencerID = &influencer.ID
			row.InfluencerName = &influencer.Name
		} else {
			row.Errors = append(row.Errors, "Cupom nao cadastrado.")
		}

		rows = append(rows, row)
		states = append(states, state)
	}

	orderOccurrences := make(map[string]int)
	for _, state := range states {
		if state.row.OrderNumber != nil {
			orderOccurrences[*state.row.OrderNumber]++
		}
	}

	for _, state := range states {
		row := state.row

		if row.OrderNumber != nil && orderOccurrences[*row.OrderNumber] > 1 {
			row.Errors = append(row.Errors, "Numero de pedido repetido nos dados importados.")
		}
		if row.OrderNumber != nil && existingOrders[*row.OrderNumber] {
			row.Errors = append(row.Errors, "Numero de pedido ja cadastrado.")
		}
		if row.OrderNumber == nil {
			row.Errors = append(row.Errors, "Informe o numero do pedido.")
		}
		if row.Date == nil {
			row.Errors = append(row.Errors, "Informe a data da venda.")
		}

		// Sem pontos informados, o total calculado pelos SKUs serve de
		// fallback quando todos os itens têm pontuação conhecida.
		if state.points == nil && len(row.SkuDetails) > 0 {
			total := 0
			allKnown := true
			for _, detail := range row.SkuDetails {
				if detail.Points == nil {
					allKnown = false
					break
				}
				total += *detail.Points
			}
			if allKnown {
				rounded := points.RoundPoints(float64(total))
				state.points = &rounded
			}
		}

		if state.points == nil {
			row.Errors = append(row.Errors, "Informe a pontuacao da venda.")
		} else {
			row.Points = *state.points
		}
		row.PointsValue = converter.PointsToBRL(float64(row.Points))
	}

	validCount := 0
	totalPoints := 0
	for _, row := range rows {
		if row.Valid() {
			validCount++
			totalPoints += row.Points
		}
	}

	hasErrors := false
	for _, row := range rows {
		if len(row.Errors) > 0 {
			hasErrors = true
			break
		}
	}

	return &domain.ImportAnalysis{
		Rows: rows,
		Summary: &domain.ImportSummary{
			Count:            validCount,
			TotalPoints:      totalPoints,
			TotalPointsValue: converter.PointsToBRL(float64(totalPoints)),
			PointValueBRL:    converter.PointValueBRL(),
		},
		TotalCount: len(rows),
		ValidCount: validCount,
		ErrorCount: len(rows) - validCount,
		HasErrors:  hasErrors,
	}
}
