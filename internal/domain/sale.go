package domain

import "time"

type SaleStatus string

const (
	SaleStatusPending  SaleStatus = "pending"
	SaleStatusApproved SaleStatus = "approved"
	SaleStatusRejected SaleStatus = "rejected"
)

// ValidSaleStatus informa se o valor é um status de venda conhecido.
func ValidSaleStatus(value SaleStatus) bool {
	switch value {
	case SaleStatusPending, SaleStatusApproved, SaleStatusRejected:
		return true
	}
	return false
}

// Sale é um pedido importado e atribuído a uma influenciadora via cupom.
// O orderNumber, quando presente, é único globalmente.
type Sale struct {
	ID           int        `json:"id"`
	InfluencerID int        `json:"influencer_id"`
	OrderNumber  *string    `json:"order_number"`
	Date         time.Time  `json:"-"`
	CycleID      *int       `json:"cycle_id"`
	GrossValue   float64    `json:"gross_value"`
	Discount     float64    `json:"discount"`
	NetValue     float64    `json:"net_value"`
	Commission   float64    `json:"commission"`
	Points       int        `json:"points"`
	Status       SaleStatus `json:"status"`
	CreatedAt    time.Time  `json:"created_at"`

	Items []*SaleSkuPoint `json:"sku_details"`

	// Campos resolvidos por join com a influenciadora.
	Coupon         *string `json:"cupom,omitempty"`
	InfluencerName *string `json:"nome,omitempty"`
	CommissionRate float64 `json:"commission_rate"`
}

// SaleSkuPoint é um item de venda pontuado por SKU.
type SaleSkuPoint struct {
	ID            int       `json:"id"`
	SaleID        int       `json:"sale_id"`
	SKU           string    `json:"sku"`
	Quantity      int       `json:"quantity"`
	PointsPerUnit float64   `json:"points_per_unit"`
	Points        int       `json:"points"`
	CreatedAt     time.Time `json:"created_at"`
}

// SkuPoint é a tabela de referência SKU -> pontos por unidade, consumida
// somente leitura pela importação de vendas.
type SkuPoint struct {
	ID            int     `json:"id"`
	SKU           string  `json:"sku"`
	PointsPerUnit float64 `json:"points_per_unit"`
	Active        bool    `json:"active"`
}

// SaleInput é o corpo normalizado da criação/edição manual de uma venda.
type SaleInput struct {
	OrderNumber string
	Coupon      string
	Date        string
	Points      int
	Status      *SaleStatus
	Items       []*SaleSkuPoint
}

// SalesSummary é o resumo de pontuação aprovada de uma influenciadora.
type SalesSummary struct {
	InfluencerID     *int    `json:"influencer_id"`
	Coupon           *string `json:"cupom"`
	CommissionRate   float64 `json:"commission_rate"`
	TotalPoints      int     `json:"total_points"`
	TotalPointsValue float64 `json:"total_points_value"`
	PointValueBRL    float64 `json:"point_value_brl"`
}
