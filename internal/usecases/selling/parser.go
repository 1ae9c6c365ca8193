package selling

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"golang.org/x/text/unicode/norm"

	"github.com/hidrapink/influencer-ops-api/internal/domain"
	"github.com/hidrapink/influencer-ops-api/pkg/apiErrors"
	"github.com/hidrapink/influencer-ops-api/pkg/points"
)

// Apelidos aceitos para as colunas da importação manual. A ordem padrão das
// colunas vale quando o texto colado não traz cabeçalho.
var manualColumnAliases = map[string][]string{
	"orderNumber": {"pedido", "numero", "ordem", "ordernumber", "numeropedido"},
	"cupom":       {"cupom", "coupon"},
	"date":        {"data", "date"},
	"points":      {"pontos", "points", "pontuacao", "pontuacoes", "pontuacao_total"},
}

var (
	controlCharsRegex = regexp.MustCompile("[\\x00-\\x08\\x0a-\\x1f]+")
	isoDateFragment   = regexp.MustCompile(`(\d{4})-(\d{2})-(\d{2})`)
)

// stripBOM remove marcadores invisíveis do início do valor. Planilhas salvas
// no Windows costumam colar o BOM junto com a primeira célula.
func stripBOM(value string) string {
	return strings.TrimLeft(value, "\uFEFF\u200B")
}

// normalizeImportHeader reduz um cabeçalho a letras e dígitos ASCII,
// descartando acentos e pontuação, para o casamento com os apelidos.
func normalizeImportHeader(header string) string {
	decomposed := norm.NFD.String(strings.ToLower(stripBOM(header)))
	var builder strings.Builder
	for _, r := range decomposed {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			builder.WriteRune(r)
		}
	}
	return builder.String()
}

// detectImportDelimiter escolhe o delimitador da linha: tabulação vence
// ponto e vírgula, que vence vírgula.
func detectImportDelimiter(line string) string {
	switch {
	case strings.Contains(line, "\t"):
		return "\t"
	case strings.Contains(line, ";"):
		return ";"
	case strings.Contains(line, ","):
		return ","
	}
	return ""
}

// splitDelimitedLine divide uma única linha respeitando aspas duplas, com
// escape por aspas dobradas.
func splitDelimitedLine(line, delimiter string) []string {
	if delimiter == "" {
		cells := strings.Split(line, ",")
		for i, cell := range cells {
			cells[i] = strings.TrimSpace(stripBOM(cell))
		}
		return cells
	}

	sep := delimiter[0]
	var result []string
	var current strings.Builder
	insideQuotes := false

	for i := 0; i < len(line); i++ {
		char := line[i]
		switch {
		case char == '"':
			if insideQuotes && i+1 < len(line) && line[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				insideQuotes = !insideQuotes
			}
		case !insideQuotes && char == sep:
			result = append(result, current.String())
			current.Reset()
		default:
			current.WriteByte(char)
		}
	}
	result = append(result, current.String())

	for i, cell := range result {
		result[i] = strings.TrimSpace(stripBOM(cell))
	}
	return result
}

// parseDelimitedRows interpreta o texto inteiro como CSV, com suporte a
// quebras de linha dentro de células entre aspas.
func parseDelimitedRows(text, delimiter string) [][]string {
	sep := delimiter[0]
	var rows [][]string
	var row []string
	var current strings.Builder
	insideQuotes := false

	for i := 0; i < len(text); i++ {
		char := text[i]
		switch {
		case char == '"':
			if insideQuotes && i+1 < len(text) && text[i+1] == '"' {
				current.WriteByte('"')
				i++
			} else {
				insideQuotes = !insideQuotes
			}
		case !insideQuotes && char == sep:
			row = append(row, current.String())
			current.Reset()
		case !insideQuotes && (char == '\n' || char == '\r'):
			if char == '\r' && i+1 < len(text) && text[i+1] == '\n' {
				i++
			}
			row = append(row, current.String())
			rows = append(rows, row)
			row = nil
			current.Reset()
		default:
			current.WriteByte(char)
		}
	}

	if current.Len() > 0 || len(row) > 0 {
		row = append(row, current.String())
		rows = append(rows, row)
	}

	return rows
}

// formatShopifyPaidAtDate converte o timestamp "Paid at" do e-commerce para
// DD/MM/YYYY. Valores sem fragmento ISO passam adiante como estão.
func formatShopifyPaidAtDate(value string) string {
	trimmed := strings.TrimSpace(stripBOM(value))
	if trimmed == "" {
		return ""
	}
	match := isoDateFragment.FindStringSubmatch(trimmed)
	if match == nil {
		return trimmed
	}
	return match[3] + "/" + match[2] + "/" + match[1]
}

// parseManualSalesImport interpreta o texto colado no formato livre: uma
// venda por linha, com cabeçalho opcional que remapeia as colunas.
func parseManualSalesImport(text string) []*domain.ImportEntry {
	lines := strings.Split(strings.ReplaceAll(text, "\r\n", "\n"), "\n")

	columnIndexes := map[string]int{"orderNumber": 0, "cupom": 1, "date": 2, "points": 3}
	delimiter := ""
	dataStarted := false

	var entries []*domain.ImportEntry

	for lineNumber, rawLine := range lines {
		cleaned := strings.TrimRight(controlCharsRegex.ReplaceAllString(stripBOM(rawLine), ""), " \t")
		line := strings.TrimSpace(cleaned)
		if line == "" {
			continue
		}

		if !dataStarted {
			normalizedLine := normalizeImportHeader(line)
			headerMatched := false
			for _, aliases := range manualColumnAliases {
				for _, alias := range aliases {
					if strings.Contains(normalizedLine, alias) {
						headerMatched = true
						break
					}
				}
				if headerMatched {
					break
				}
			}

			if headerMatched {
				delimiter = detectImportDelimiter(line)
				var headers []string
				if delimiter != "" {
					headers = splitDelimitedLine(line, delimiter)
				} else {
					headers = strings.Fields(line)
				}
				normalizedHeaders := make([]string, len(headers))
				for i, header := range headers {
					normalizedHeaders[i] = normalizeImportHeader(header)
				}
				for column, aliases := range manualColumnAliases {
					for index, header := range normalizedHeaders {
						matched := false
						for _, alias := range aliases {
							if header == alias {
								matched = true
								break
							}
						}
						if matched {
							columnIndexes[column] = index
							break
						}
					}
				}
				dataStarted = true
				continue
			}
			dataStarted = true
		}

		if lineDelimiter := detectImportDelimiter(line); lineDelimiter != "" {
			delimiter = lineDelimiter
		}
		var cells []string
		if delimiter != "" {
			cells = strings.Split(line, delimiter)
		} else {
			cells = strings.Fields(line)
		}

		getCell := func(column string) string {
			index := columnIndexes[column]
			if index < 0 || index >= len(cells) {
				return ""
			}
			return strings.TrimSpace(stripBOM(cells[index]))
		}

		entries = append(entries, &domain.ImportEntry{
			Line:        lineNumber + 1,
			OrderNumber: getCell("orderNumber"),
			Coupon:      getCell("cupom"),
			RawDate:     getCell("date"),
			RawPoints:   getCell("points"),
		})
	}

	return entries
}

// tryParseShopifySalesImport reconhece a exportação de pedidos do e-commerce
// pelo cabeçalho e agrega as linhas físicas de cada pedido em uma única
// entrada. Retorna nil quando o texto não é uma exportação conhecida.
func tryParseShopifySalesImport(text string, skuPoints map[string]float64) ([]*domain.ImportEntry, error) {
	headerLine := text
	if index := strings.Index(text, "\n"); index >= 0 {
		headerLine = text[:index]
	}

	normalizedHeaderLine := normalizeImportHeader(headerLine)
	for _, required := range []string{"name", "paidat", "discountcode", "lineitemquantity", "lineitemsku"} {
		if !strings.Contains(normalizedHeaderLine, required) {
			return nil, nil
		}
	}

	delimiter := detectImportDelimiter(headerLine)
	if delimiter == "" {
		delimiter = ","
	}

	rows := parseDelimitedRows(text, delimiter)
	if len(rows) == 0 {
		return nil, NewSaleError(ErrImportNotParseable, apiErrors.ErrInvalidFormat, "Arquivo CSV sem conteudo.")
	}

	normalizedHeader := make([]string, len(rows[0]))
	for i, cell := range rows[0] {
		normalizedHeader[i] = normalizeImportHeader(cell)
	}

	resolveIndex := func(aliases ...string) int {
		for _, alias := range aliases {
			for index, header := range normalizedHeader {
				if header == alias {
					return index
				}
			}
		}
		return -1
	}

	nameIndex := resolveIndex("name")
	paidAtIndex := resolveIndex("paidat")
	couponIndex := resolveIndex("discountcode", "discountcodes")
	quantityIndex := resolveIndex("lineitemquantity")
	skuIndex := resolveIndex("lineitemsku")

	if nameIndex < 0 || paidAtIndex < 0 || couponIndex < 0 || quantityIndex < 0 || skuIndex < 0 {
		return nil, NewSaleError(ErrImportNotParseable, apiErrors.ErrInvalidFormat, "Nao foi possivel identificar as colunas obrigatorias do CSV.")
	}

	cellAt := func(cells []string, index int) string {
		if index >= len(cells) {
			return ""
		}
		return strings.TrimSpace(stripBOM(cells[index]))
	}

	entryMap := make(map[string]*domain.ImportEntry)
	var order []string

	for rowIndex := 1; rowIndex < len(rows); rowIndex++ {
		cells := rows[rowIndex]
		if len(cells) == 0 {
			continue
		}

		hasData := false
		for _, cell := range cells {
			if strings.TrimSpace(stripBOM(cell)) != "" {
				hasData = true
				break
			}
		}
		if !hasData {
			continue
		}

		orderRaw := cellAt(cells, nameIndex)
		if orderRaw == "" {
			continue
		}

		paidAtRaw := cellAt(cells, paidAtIndex)
		couponRaw := cellAt(cells, couponIndex)
		quantityRaw := cellAt(cells, quantityIndex)
		skuRaw := cellAt(cells, skuIndex)

		entry, ok := entryMap[orderRaw]
		if !ok {
			entry = &domain.ImportEntry{
				Line:        rowIndex + 1,
				OrderNumber: orderRaw,
				Coupon:      couponRaw,
			}
			if paidAtRaw != "" {
				entry.RawDate = formatShopifyPaidAtDate(paidAtRaw)
			}
			entryMap[orderRaw] = entry
			order = append(order, orderRaw)
		}

		if paidAtRaw != "" && entry.RawDate == "" {
			entry.RawDate = formatShopifyPaidAtDate(paidAtRaw)
		}
		if couponRaw != "" && entry.Coupon == "" {
			entry.Coupon = couponRaw
		}

		if skuRaw == "" && quantityRaw == "" {
			continue
		}

		detail := &domain.ImportSkuDetail{
			SKU:         skuRaw,
			QuantityRaw: quantityRaw,
			Line:        rowIndex + 1,
		}
		if quantity, err := strconv.ParseFloat(quantityRaw, 64); err == nil && !math.IsInf(quantity, 0) {
			detail.Quantity = &quantity
		}
		if skuRaw != "" {
			if perUnit, ok := skuPoints[strings.ToLower(skuRaw)]; ok {
				detail.PointsPerUnit = &perUnit
			}
		}
		entry.SkuDetails = append(entry.SkuDetails, detail)
	}

	entries := make([]*domain.ImportEntry, 0, len(order))
	for _, key := range order {
		entry := entryMap[key]

		allPointsKnown := len(entry.SkuDetails) > 0
		totalPoints := 0
		for _, detail := range entry.SkuDetails {
			// Quantidade pode vir com vírgula decimal na exportação.
			if detail.Quantity == nil && detail.QuantityRaw != "" {
				raw := strings.ReplaceAll(detail.QuantityRaw, ",", ".")
				if quantity, err := strconv.ParseFloat(raw, 64); err == nil && !math.IsInf(quantity, 0) {
					detail.Quantity = &quantity
				}
			}
			if detail.Quantity != nil && detail.PointsPerUnit != nil {
				computed := points.RoundPoints(*detail.Quantity * *detail.PointsPerUnit)
				detail.Points = &computed
				totalPoints += computed
			} else {
				allPointsKnown = false
			}
		}

		if allPointsKnown {
			total := totalPoints
			entry.TotalPoints = &total
			entry.RawPoints = strconv.Itoa(total)
		}

		entries = append(entries, entry)
	}

	if len(entries) == 0 {
		return nil, NewSaleError(ErrImportNotParseable, apiErrors.ErrInvalidFormat, "Nenhum pedido valido foi encontrado no arquivo CSV informado.")
	}

	return entries, nil
}
