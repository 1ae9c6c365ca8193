package domain

import "time"

// MonthlyCommission é o retrato consolidado da comissão de uma influenciadora
// em um ciclo fechado. É gravado pelo job de virada de ciclo e recalculado de
// forma idempotente quando o job roda de novo.
type MonthlyCommission struct {
	ID              int       `json:"id"`
	CycleID         int       `json:"cycle_id"`
	InfluencerID    int       `json:"influencer_id"`
	BasePoints      int       `json:"base_points"`
	ValidatedDays   int       `json:"validated_days"`
	Multiplier      float64   `json:"multiplier"`
	MultiplierLabel string    `json:"multiplier_label"`
	TotalPoints     int       `json:"total_points"`
	TotalValueBRL   float64   `json:"total_value_brl"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
