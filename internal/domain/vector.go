package domain

import "math"

const maxCosineDistance = 2.0

// CosineSimilarity computes the cosine similarity between two vectors.
// Returns 0 if the lengths differ or either vector has zero norm.
func CosineSimilarity(a, b []float64) float64 {
	if len(a) != len(b) || len(a) == 0 {
		return 0
	}

	var dot, normA, normB float64
	for i := range a {
		dot += a[i] * b[i]
		normA += a[i] * a[i]
		normB += b[i] * b[i]
	}

	denominator := math.Sqrt(normA) * math.Sqrt(normB)
	if denominator == 0 {
		return 0
	}

	return dot / denominator
}

// CosineDistance is 1 - CosineSimilarity, clamped to [0, 2].
// This is the distance the cache threshold is compared against, and the one
// RediSearch reports for a COSINE index.
func CosineDistance(a, b []float64) float64 {
	return clampDistance(1 - CosineSimilarity(a, b))
}

// SimilarityFromDistance is the single mapping from distance to reported similarity.
func SimilarityFromDistance(distance float64) float64 {
	return 1 - distance
}

func clampDistance(d float64) float64 {
	switch {
	case d < 0:
		return 0
	case d > maxCosineDistance:
		return maxCosineDistance
	default:
		return d
	}
}
