package multiplier

import (
	"math"

	"github.com/hidrapink/influencer-ops-api/pkg/points"
)

// Band é uma faixa de ativações validadas com o fator de bonificação
// correspondente.
type Band struct {
	Min    int
	Max    int // math.MaxInt para a última faixa
	Factor float64
	Label  string
}

// ActivationBands é a tabela de bonificação por ativações validadas no ciclo.
var ActivationBands = []Band{
	{Min: 1, Max: 4, Factor: 1.0, Label: "1 a 4 ativacoes validadas (100%)"},
	{Min: 5, Max: 9, Factor: 1.25, Label: "5 a 9 ativacoes validadas (125%)"},
	{Min: 10, Max: 14, Factor: 1.5, Label: "10 a 14 ativacoes validadas (150%)"},
	{Min: 15, Max: 19, Factor: 1.75, Label: "15 a 19 ativacoes validadas (175%)"},
	{Min: 20, Max: math.MaxInt, Factor: 2.0, Label: "20 ou mais ativacoes validadas (200%)"},
}

// Result descreve o multiplicador aplicável a uma contagem de ativações.
type Result struct {
	Factor      float64 `json:"factor"`
	Label       string  `json:"label"`
	Band        *Band   `json:"-"`
	Activations int     `json:"activations"`
}

// ForActivations resolve a faixa de bonificação para a contagem informada.
// Contagens não positivas não têm multiplicador (fator 0).
func ForActivations(activations int) Result {
	if activations <= 0 {
		return Result{
			Factor:      0,
			Label:       "Sem ativacoes validadas no ciclo",
			Activations: 0,
		}
	}

	for i := range ActivationBands {
		band := &ActivationBands[i]
		if activations >= band.Min && activations <= band.Max {
			return Result{
				Factor:      band.Factor,
				Label:       band.Label,
				Band:        band,
				Activations: activations,
			}
		}
	}

	last := &ActivationBands[len(ActivationBands)-1]
	return Result{
		Factor:      last.Factor,
		Label:       last.Label,
		Band:        last,
		Activations: activations,
	}
}

// Summary combina pontos-base e multiplicador em um fechamento de pontuação.
type Summary struct {
	BasePoints    int     `json:"base_points"`
	TotalPoints   int     `json:"total_points"`
	Factor        float64 `json:"factor"`
	Label         string  `json:"label"`
	ValidatedDays int     `json:"validated_days"`
}

// Summarize aplica o multiplicador da contagem de ativações aos pontos-base.
func Summarize(basePoints float64, activations int) Summary {
	base := 0
	if basePoints > 0 {
		base = points.RoundPoints(basePoints)
	}

	result := ForActivations(activations)
	total := points.RoundPoints(float64(base) * result.Factor)

	return Summary{
		BasePoints:    base,
		TotalPoints:   total,
		Factor:        result.Factor,
		Label:         result.Label,
		ValidatedDays: result.Activations,
	}
}
