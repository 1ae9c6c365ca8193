package multiplier

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestForActivationsBands(t *testing.T) {
	tests := []struct {
		activations int
		factor      float64
	}{
		{activations: 0, factor: 0},
		{activations: 1, factor: 1.0},
		{activations: 4, factor: 1.0},
		{activations: 5, factor: 1.25},
		{activations: 9, factor: 1.25},
		{activations: 10, factor: 1.5},
		{activations: 14, factor: 1.5},
		{activations: 15, factor: 1.75},
		{activations: 19, factor: 1.75},
		{activations: 20, factor: 2.0},
		{activations: 25, factor: 2.0},
		{activations: 1000, factor: 2.0},
	}

	for _, tt := range tests {
		result := ForActivations(tt.activations)
		assert.Equalf(t, tt.factor, result.Factor, "ativações=%d", tt.activations)
	}
}

func TestForActivationsNegativeHasNoMultiplier(t *testing.T) {
	result := ForActivations(-3)

	assert.Equal(t, float64(0), result.Factor)
	assert.Equal(t, 0, result.Activations)
	assert.Nil(t, result.Band)
}

func TestSummarize(t *testing.T) {
	summary := Summarize(100, 7)

	assert.Equal(t, 100, summary.BasePoints)
	assert.Equal(t, 1.25, summary.Factor)
	assert.Equal(t, 125, summary.TotalPoints)
	assert.Equal(t, 7, summary.ValidatedDays)
}

func TestSummarizeRoundsTotal(t *testing.T) {
	// 10 * 1.25 = 12.5 -> 13
	summary := Summarize(10, 5)
	assert.Equal(t, 13, summary.TotalPoints)
}

func TestSummarizeNegativeBaseFlooredToZero(t *testing.T) {
	summary := Summarize(-50, 10)

	assert.Equal(t, 0, summary.BasePoints)
	assert.Equal(t, 0, summary.TotalPoints)
	assert.Equal(t, 1.5, summary.Factor)
}
