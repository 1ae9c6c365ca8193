package domain

import "time"

// Influencer é o cadastro de uma influenciadora do programa. O cupom é a
// chave de atribuição das vendas importadas.
type Influencer struct {
	ID             int       `json:"id"`
	Name           string    `json:"nome"`
	Instagram      *string   `json:"instagram"`
	Coupon         *string   `json:"cupom"`
	CommissionRate float64   `json:"commission_rate"`
	UserID         *int      `json:"user_id"`
	Active         bool      `json:"active"`
	CreatedAt      time.Time `json:"created_at"`
}
