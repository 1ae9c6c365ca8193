package points

import "math"

// DefaultPointValueBRL é o valor de um ponto em reais quando nenhuma
// configuração é informada.
const DefaultPointValueBRL = 0.1

// RoundCurrency arredonda um valor monetário para duas casas decimais.
func RoundCurrency(value float64) float64 {
	if value == 0 {
		return 0
	}
	return math.Round(value*100) / 100
}

// RoundPoints arredonda para o inteiro mais próximo. Valores negativos,
// NaN ou infinitos viram 0: pontos nunca são negativos no ledger.
func RoundPoints(value float64) int {
	rounded := math.Round(value)
	if math.IsNaN(rounded) || math.IsInf(rounded, 0) || rounded < 0 {
		return 0
	}
	return int(rounded)
}

// Converter converte pontos em reais usando um valor fixo por ponto,
// resolvido uma única vez a partir da configuração.
type Converter struct {
	pointValue float64
}

// NewConverter cria um conversor com o valor informado. Valores não
// positivos (ou não finitos) caem no padrão.
func NewConverter(pointValueBRL float64) *Converter {
	if math.IsNaN(pointValueBRL) || math.IsInf(pointValueBRL, 0) || pointValueBRL <= 0 {
		pointValueBRL = DefaultPointValueBRL
	}
	return &Converter{pointValue: RoundCurrency(pointValueBRL)}
}

// PointValueBRL retorna o valor de um ponto em reais.
func (c *Converter) PointValueBRL() float64 {
	return c.pointValue
}

// PointsToBRL converte uma quantidade de pontos em reais.
func (c *Converter) PointsToBRL(pts float64) float64 {
	if math.IsNaN(pts) || math.IsInf(pts, 0) {
		return 0
	}
	return RoundCurrency(pts * c.pointValue)
}

// BRLToPoints converte um valor em reais para pontos inteiros.
func (c *Converter) BRLToPoints(value float64) int {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return 0
	}
	return RoundPoints(value / c.pointValue)
}
