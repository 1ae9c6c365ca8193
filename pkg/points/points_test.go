package points

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRoundPoints(t *testing.T) {
	tests := []struct {
		name     string
		input    float64
		expected int
	}{
		{name: "arredonda para cima", input: 10.5, expected: 11},
		{name: "arredonda para baixo", input: 10.4, expected: 10},
		{name: "inteiro exato", input: 42, expected: 42},
		{name: "negativo vira zero", input: -3.2, expected: 0},
		{name: "NaN vira zero", input: math.NaN(), expected: 0},
		{name: "infinito vira zero", input: math.Inf(1), expected: 0},
		{name: "zero", input: 0, expected: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, RoundPoints(tt.input))
		})
	}
}

func TestRoundCurrency(t *testing.T) {
	assert.Equal(t, 10.46, RoundCurrency(10.455))
	assert.Equal(t, 0.1, RoundCurrency(0.1))
	assert.Equal(t, float64(0), RoundCurrency(0))
}

func TestNewConverterFallsBackToDefault(t *testing.T) {
	tests := []struct {
		name  string
		value float64
	}{
		{name: "zero", value: 0},
		{name: "negativo", value: -0.5},
		{name: "NaN", value: math.NaN()},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			conv := NewConverter(tt.value)
			assert.Equal(t, DefaultPointValueBRL, conv.PointValueBRL())
		})
	}
}

func TestPointsToBRL(t *testing.T) {
	conv := NewConverter(0.1)

	assert.Equal(t, 10.0, conv.PointsToBRL(100))
	assert.Equal(t, 0.5, conv.PointsToBRL(5))
	assert.Equal(t, float64(0), conv.PointsToBRL(math.NaN()))
}

func TestPointsCurrencyRoundTripIsNonNegative(t *testing.T) {
	conv := NewConverter(0.1)

	inputs := []float64{-100, -0.5, 0, 0.4, 1, 999.7, math.NaN(), math.Inf(-1)}
	for _, input := range inputs {
		pts := RoundPoints(input)
		value := conv.PointsToBRL(float64(pts))
		assert.GreaterOrEqual(t, pts, 0)
		assert.GreaterOrEqual(t, value, float64(0))
	}
}

func TestBRLToPoints(t *testing.T) {
	conv := NewConverter(0.1)

	assert.Equal(t, 100, conv.BRLToPoints(10))
	assert.Equal(t, 0, conv.BRLToPoints(-5))
}
