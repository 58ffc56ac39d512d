// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank scores papers against a query by the cosine similarity of
// their embeddings.
package rank

import "math"

// MaxScore is the score of a vector compared with itself.
const MaxScore = 100.0

// Cosine returns dot(a,b) / (|a| |b|). It returns 0 when either vector has
// zero norm or the vectors differ in length.
func Cosine(a, b []float32) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		x, y := float64(a[i]), float64(b[i])
		dot += x * y
		normA += x * x
		normB += y * y
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}

// Score converts the similarity of query and paper vectors to a relevance
// score: cosine scaled by 100, clamped to [0, 100], rounded to two decimals.
// Scores only rank papers within one search; they carry no meaning across
// queries.
func Score(query, paper []float32) float64 {
	s := Cosine(query, paper) * MaxScore
	s = math.Max(0, math.Min(MaxScore, s))
	return Round2(s)
}

// Round2 rounds x to two decimal places, halves away from zero.
func Round2(x float64) float64 {
	return math.Round(x*100) / 100
}
