package retrieval

import "math"

// maximalMarginalRelevance greedily selects k candidate indices balancing
// similarity to the query against redundancy with already-selected
// candidates (Carbonell & Goldstein 1998):
//
//	score(d) = diversity * sim(q, d) - (1 - diversity) * max_{s in selected} sim(d, s)
//
// The max over an empty selection is 0, so the first pick is the most
// similar candidate whenever diversity > 0. Candidates must be ordered by
// descending query similarity; ties keep the earlier (more similar) one.
func maximalMarginalRelevance(query []float32, candidates [][]float32, k int, diversity float64) []int {
	n := len(candidates)
	if k >= n {
		all := make([]int, n)
		for i := range all {
			all[i] = i
		}
		return all
	}

	querySim := make([]float64, n)
	for i, c := range candidates {
		querySim[i] = cosineSimilarity(query, c)
	}

	selected := make([]int, 0, k)
	taken := make([]bool, n)

	for len(selected) < k {
		best := -1
		bestScore := math.Inf(-1)

		for i := 0; i < n; i++ {
			if taken[i] {
				continue
			}

			redundancy := 0.0
			if len(selected) > 0 {
				redundancy = math.Inf(-1)
				for _, j := range selected {
					if sim := cosineSimilarity(candidates[i], candidates[j]); sim > redundancy {
						redundancy = sim
					}
				}
			}

			// Strict > keeps the earliest candidate on ties, i.e. the one
			// with the better original similarity rank.
			if score := diversity*querySim[i] - (1-diversity)*redundancy; score > bestScore {
				best = i
				bestScore = score
			}
		}

		selected = append(selected, best)
		taken[best] = true
	}

	return selected
}

// cosineSimilarity computes the cosine of the angle between two vectors.
// A zero vector has similarity 0 to everything.
func cosineSimilarity(a, b []float32) float64 {
	n := len(a)
	if len(b) < n {
		n = len(b)
	}

	var dot, normA, normB float64
	for i := 0; i < n; i++ {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA == 0 || normB == 0 {
		return 0
	}
	return dot / (math.Sqrt(normA) * math.Sqrt(normB))
}
