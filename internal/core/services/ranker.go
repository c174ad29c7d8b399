package services

import (
	"container/heap"
	"math"

	"github.com/docqa-labs/docqa-core/internal/core/domain"
)

// TopK returns the indices of the k stored vectors most similar to the
// query vector, ordered by descending cosine similarity. Ties keep the
// original ascending index order. k is clamped to the number of stored
// vectors; k <= 0 or an empty collection returns an empty result.
//
// Selection uses a bounded min-heap (O(n log k)) instead of sorting all
// candidates; the ordering contract is identical either way.
func TopK(query []float32, vectors [][]float32, k int) []domain.RankedIndex {
	if k <= 0 || len(vectors) == 0 {
		return nil
	}
	if k > len(vectors) {
		k = len(vectors)
	}

	h := make(rankHeap, 0, k)
	for i, v := range vectors {
		candidate := domain.RankedIndex{Index: i, Score: CosineSimilarity(query, v)}
		if len(h) < k {
			heap.Push(&h, candidate)
			continue
		}
		if h.beats(candidate) {
			h[0] = candidate
			heap.Fix(&h, 0)
		}
	}

	// Popping yields worst-first; reverse for descending relevance.
	out := make([]domain.RankedIndex, len(h))
	for i := len(h) - 1; i >= 0; i-- {
		out[i] = heap.Pop(&h).(domain.RankedIndex)
	}
	return out
}

// CosineSimilarity computes dot(a,b) / (|a|*|b|). Defined as 0 (not an
// error) when either vector has zero magnitude. Mismatched dimensions also
// score 0; callers validate dimensions before ranking.
func CosineSimilarity(a, b []float32) float64 {
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

// rankHeap is a min-heap whose root is the current worst candidate: lowest
// score, with the larger index treated as worse among equals. Evicting by
// this ordering makes the final ranking a stable sort by descending score.
type rankHeap []domain.RankedIndex

func (h rankHeap) Len() int { return len(h) }

func (h rankHeap) Less(i, j int) bool {
	if h[i].Score != h[j].Score {
		return h[i].Score < h[j].Score
	}
	return h[i].Index > h[j].Index
}

func (h rankHeap) Swap(i, j int) { h[i], h[j] = h[j], h[i] }

func (h *rankHeap) Push(x any) { *h = append(*h, x.(domain.RankedIndex)) }

func (h *rankHeap) Pop() any {
	old := *h
	n := len(old)
	item := old[n-1]
	*h = old[:n-1]
	return item
}

// beats reports whether the candidate should replace the heap's current
// worst entry.
func (h rankHeap) beats(c domain.RankedIndex) bool {
	worst := h[0]
	if c.Score != worst.Score {
		return c.Score > worst.Score
	}
	return c.Index < worst.Index
}
