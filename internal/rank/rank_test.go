// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package rank

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestCosine(t *testing.T) {
	tests := []struct {
		name string
		a, b []float32
		want float64
	}{
		{"identical", []float32{1, 2, 3}, []float32{1, 2, 3}, 1},
		{"scaled copy", []float32{1, 2, 3}, []float32{2, 4, 6}, 1},
		{"orthogonal", []float32{1, 0}, []float32{0, 1}, 0},
		{"opposite", []float32{1, 0}, []float32{-1, 0}, -1},
		{"zero query", []float32{0, 0}, []float32{1, 1}, 0},
		{"zero paper", []float32{1, 1}, []float32{0, 0}, 0},
		{"length mismatch", []float32{1, 1}, []float32{1, 1, 1}, 0},
		{"empty", nil, nil, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.InDelta(t, tt.want, Cosine(tt.a, tt.b), 1e-9)
		})
	}
}

func TestScoreSelfSimilarityIsMax(t *testing.T) {
	v := []float32{0.12, -0.53, 0.77, 0.01}
	assert.Equal(t, 100.0, Score(v, v))
}

func TestScoreRange(t *testing.T) {
	vectors := [][]float32{
		{1, 0, 0},
		{0, 1, 0},
		{-1, 0, 0},
		{0.5, 0.5, 0.1},
		{0, 0, 0},
		{-0.3, 0.9, -0.2},
	}
	for _, a := range vectors {
		for _, b := range vectors {
			s := Score(a, b)
			assert.GreaterOrEqual(t, s, 0.0)
			assert.LessOrEqual(t, s, 100.0)
		}
	}
}

func TestScoreRoundsToTwoDecimals(t *testing.T) {
	a := []float32{1, 0}
	b := []float32{1, 1}
	// cos = 1/sqrt(2) = 0.70710678...
	assert.Equal(t, 70.71, Score(a, b))

	s := Score([]float32{3, 1, 2}, []float32{1, 5, 2})
	assert.Equal(t, s, math.Round(s*100)/100)
}

func TestScoreDegenerateIsZero(t *testing.T) {
	assert.Equal(t, 0.0, Score([]float32{0, 0, 0}, []float32{0, 0, 0}))
}
