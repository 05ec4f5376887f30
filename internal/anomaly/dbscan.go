package anomaly

import "math"

// noiseLabel marks points DBSCAN leaves unclustered.
const noiseLabel = -1

// clustering holds a fitted density-based clustering of the training points.
type clustering struct {
	points     [][]float64
	labels     []int
	eps        float64
	minSamples int
}

// dbscanFit runs DBSCAN with euclidean distance over the training rows.
func dbscanFit(points [][]float64, eps float64, minSamples int) *clustering {
	labels := make([]int, len(points))
	for i := range labels {
		labels[i] = noiseLabel
	}
	visited := make([]bool, len(points))
	clusterID := 0

	for i := range points {
		if visited[i] {
			continue
		}
		visited[i] = true

		neighbors := regionQuery(points, i, eps)
		if len(neighbors) < minSamples {
			continue
		}

		labels[i] = clusterID
		// Expand the cluster; neighbors may grow as new core points join.
		for j := 0; j < len(neighbors); j++ {
			p := neighbors[j]
			if !visited[p] {
				visited[p] = true
				more := regionQuery(points, p, eps)
				if len(more) >= minSamples {
					neighbors = append(neighbors, more...)
				}
			}
			if labels[p] == noiseLabel {
				labels[p] = clusterID
			}
		}
		clusterID++
	}

	return &clustering{points: points, labels: labels, eps: eps, minSamples: minSamples}
}

func regionQuery(points [][]float64, idx int, eps float64) []int {
	var out []int
	for i := range points {
		if euclidean(points[idx], points[i]) <= eps {
			out = append(out, i)
		}
	}
	return out
}

// assign maps a new point to the cluster of its nearest clustered training
// point within eps, or nil when it falls in no cluster's reach.
func (c *clustering) assign(x []float64) *int {
	best := noiseLabel
	bestDist := math.Inf(1)
	for i, p := range c.points {
		if c.labels[i] == noiseLabel {
			continue
		}
		if d := euclidean(x, p); d <= c.eps && d < bestDist {
			best = c.labels[i]
			bestDist = d
		}
	}
	if best == noiseLabel {
		return nil
	}
	return &best
}

func euclidean(a, b []float64) float64 {
	if len(a) != len(b) {
		return math.Inf(1)
	}
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return math.Sqrt(sum)
}
