package domain

// ImportEntry é uma entrada bruta extraída do texto colado, antes de
// qualquer validação. No formato de exportação do e-commerce as linhas
// físicas do mesmo pedido já chegam agregadas em uma única entrada.
type ImportEntry struct {
	Line        int
	OrderNumber string
	Coupon      string
	RawDate     string
	RawPoints   string
	TotalPoints *int
	SkuDetails  []*ImportSkuDetail
}

// ImportSkuDetail é um par SKU/quantidade de uma entrada importada.
type ImportSkuDetail struct {
	SKU           string   `json:"sku"`
	Quantity      *float64 `json:"quantity"`
	QuantityRaw   string   `json:"-"`
	PointsPerUnit *float64 `json:"points_per_unit"`
	Points        *int     `json:"points"`
	Line          int      `json:"line"`
}

// AnalyzedImportRow é o resultado da validação de uma entrada. Linhas
// inválidas permanecem na lista com seus erros anotados.
type AnalyzedImportRow struct {
	Line           int                `json:"line"`
	OrderNumber    *string            `json:"orderNumber"`
	Coupon         string             `json:"cupom"`
	Date           *string            `json:"date"`
	Points         int                `json:"points"`
	PointsValue    float64            `json:"points_value"`
	InfluencerID   *int               `json:"influencerId"`
	InfluencerName *string            `json:"influencerName"`
	Errors         []string           `json:"errors"`
	RawDate        string             `json:"rawDate"`
	RawPoints      string             `json:"rawPoints"`
	SkuDetails     []*ImportSkuDetail `json:"skuDetails"`
}

// Valid informa se a linha pode ser inserida: nenhum erro acumulado e
// influenciadora resolvida pelo cupom.
func (r *AnalyzedImportRow) Valid() bool {
	return len(r.Errors) == 0 && r.InfluencerID != nil
}

// ImportSummary resume apenas as linhas válidas da análise.
type ImportSummary struct {
	Count            int     `json:"count"`
	TotalPoints      int     `json:"total_points"`
	TotalPointsValue float64 `json:"total_points_value"`
	PointValueBRL    float64 `json:"point_value_brl"`
}

// ImportAnalysis é a análise completa de uma importação de vendas.
type ImportAnalysis struct {
	Rows       []*AnalyzedImportRow `json:"rows"`
	Summary    *ImportSummary       `json:"summary"`
	TotalCount int                  `json:"totalCount"`
	ValidCount int                  `json:"validCount"`
	ErrorCount int                  `json:"errorCount"`
	HasErrors  bool                 `json:"hasErrors"`
}

// ImportResult é o retorno da confirmação de uma importação.
type ImportResult struct {
	BatchID  string         `json:"batch_id"`
	Inserted int            `json:"inserted"`
	Ignored  int            `json:"ignored"`
	Rows     []*Sale        `json:"rows"`
	Summary  *ImportSummary `json:"summary"`
}
