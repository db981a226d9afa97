package stats

import (
	"fmt"
	"math"
	"math/rand"

	"nomengine/domain/analysis"
	"nomengine/internal/numeric"
)

const minClusterSample = 10

// clusterResult runs seeded k-means over standardized feature columns,
// sweeping k and keeping the count with the best silhouette score.
func clusterResult(name string, columns [][]float64, seed int64) (analysis.Result, error) {
	if len(columns) == 0 {
		return analysis.Result{}, fmt.Errorf("no feature columns to cluster")
	}
	n := len(columns[0])
	if n < minClusterSample {
		return analysis.Result{}, fmt.Errorf("need at least %d samples for clustering, have %d", minClusterSample, n)
	}

	points := make([][]float64, n)
	for j := range columns {
		std := numeric.Standardize(columns[j])
		for i := 0; i < n; i++ {
			if points[i] == nil {
				points[i] = make([]float64, len(columns))
			}
			points[i][j] = std[i]
		}
	}

	maxK := n / 5
	if maxK > 6 {
		maxK = 6
	}
	if maxK < 2 {
		maxK = 2
	}

	bestK := 0
	bestSilhouette := math.Inf(-1)
	var bestAssignment []int
	for k := 2; k <= maxK; k++ {
		stream := rand.New(rand.NewSource(seed + int64(k)))
		assignment := kMeans(stream, points, k)
		score := silhouette(points, assignment, k)
		if score > bestSilhouette {
			bestSilhouette = score
			bestK = k
			bestAssignment = assignment
		}
	}

	sizes := make([]int, bestK)
	for _, c := range bestAssignment {
		sizes[c]++
	}

	result := analysis.Result{
		Kind:     analysis.KindCluster,
		Name:     name,
		Estimate: bestSilhouette,
		CILow:    -1,
		CIHigh:   1,
		PValue:   1.0, // clustering carries no hypothesis test
	}
	result.WithMeta("k", bestK)
	result.WithMeta("cluster_sizes", sizes)
	result.WithMeta("silhouette", bestSilhouette)
	if bestSilhouette < 0.25 {
		result.AddCaveat(fmt.Sprintf("weak cluster structure (silhouette %.3f)", bestSilhouette))
	}
	return result, nil
}

// kMeans clusters with k-means++ initialization and Lloyd iterations,
// fully determined by the provided stream.
func kMeans(stream *rand.Rand, points [][]float64, k int) []int {
	n := len(points)
	dim := len(points[0])

	// k-means++ seeding
	centroids := make([][]float64, 0, k)
	first := points[stream.Intn(n)]
	centroids = append(centroids, append([]float64(nil), first...))
	for len(centroids) < k {
		dists := make([]float64, n)
		total := 0.0
		for i, p := range points {
			best := math.Inf(1)
			for _, c := range centroids {
				if d := sqDist(p, c); d < best {
					best = d
				}
			}
			dists[i] = best
			total += best
		}
		pick := 0
		if total > 0 {
			target := stream.Float64() * total
			acc := 0.0
			for i, d := range dists {
				acc += d
				if acc >= target {
					pick = i
					break
				}
			}
		} else {
			pick = stream.Intn(n)
		}
		centroids = append(centroids, append([]float64(nil), points[pick]...))
	}

	assignment := make([]int, n)
	for iter := 0; iter < 50; iter++ {
		changed := false
		for i, p := range points {
			best := 0
			bestDist := math.Inf(1)
			for c := range centroids {
				if d := sqDist(p, centroids[c]); d < bestDist {
					bestDist = d
					best = c
				}
			}
			if assignment[i] != best {
				assignment[i] = best
				changed = true
			}
		}
		if !changed && iter > 0 {
			break
		}

		counts := make([]int, k)
		sums := make([][]float64, k)
		for c := range sums {
			sums[c] = make([]float64, dim)
		}
		for i, p := range points {
			c := assignment[i]
			counts[c]++
			for j, v := range p {
				sums[c][j] += v
			}
		}
		for c := range centroids {
			if counts[c] == 0 {
				continue // empty cluster keeps its centroid
			}
			for j := range centroids[c] {
				centroids[c][j] = sums[c][j] / float64(counts[c])
			}
		}
	}
	return assignment
}

// silhouette is the mean silhouette coefficient over all points
func silhouette(points [][]float64, assignment []int, k int) float64 {
	n := len(points)
	total := 0.0
	counted := 0
	for i := 0; i < n; i++ {
		own := assignment[i]

		intraSum, intraCount := 0.0, 0
		interBest := math.Inf(1)
		for other := 0; other < k; other++ {
			sum, count := 0.0, 0
			for j := 0; j < n; j++ {
				if j == i || assignment[j] != other {
					continue
				}
				sum += math.Sqrt(sqDist(points[i], points[j]))
				count++
			}
			if count == 0 {
				continue
			}
			mean := sum / float64(count)
			if other == own {
				intraSum, intraCount = sum, count
			} else if mean < interBest {
				interBest = mean
			}
		}
		if intraCount == 0 || math.IsInf(interBest, 1) {
			continue
		}
		a := intraSum / float64(intraCount)
		b := interBest
		denom := math.Max(a, b)
		if denom == 0 {
			continue
		}
		total += (b - a) / denom
		counted++
	}
	if counted == 0 {
		return 0
	}
	return total / float64(counted)
}

func sqDist(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
