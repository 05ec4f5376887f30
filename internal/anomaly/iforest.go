package anomaly

import (
	"math"
	"math/rand"
)

// isolationForest is a small isolation forest: random trees built to a height
// limit, scoring points by average path length. Scores are in [0,1], higher
// meaning more isolated (more anomalous).
type isolationForest struct {
	trees      []*iNode
	sampleSize int
}

type iNode struct {
	leaf     bool
	size     int
	dim      int
	splitVal float64
	left     *iNode
	right    *iNode
}

func fitForest(data [][]float64, numTrees, sampleSize int, rng *rand.Rand) *isolationForest {
	if sampleSize > len(data) {
		sampleSize = len(data)
	}
	heightLimit := int(math.Ceil(math.Log2(float64(sampleSize))))
	if heightLimit < 1 {
		heightLimit = 1
	}

	f := &isolationForest{
		trees:      make([]*iNode, numTrees),
		sampleSize: sampleSize,
	}
	for i := range f.trees {
		idxs := rng.Perm(len(data))
		sample := make([][]float64, sampleSize)
		for j := 0; j < sampleSize; j++ {
			sample[j] = data[idxs[j]]
		}
		f.trees[i] = buildTree(sample, 0, heightLimit, rng)
	}
	return f
}

func buildTree(data [][]float64, height, limit int, rng *rand.Rand) *iNode {
	if len(data) <= 1 || height >= limit {
		return &iNode{leaf: true, size: len(data)}
	}

	dim := rng.Intn(len(data[0]))
	minv, maxv := data[0][dim], data[0][dim]
	for _, row := range data[1:] {
		if row[dim] < minv {
			minv = row[dim]
		}
		if row[dim] > maxv {
			maxv = row[dim]
		}
	}
	if minv == maxv {
		return &iNode{leaf: true, size: len(data)}
	}

	split := minv + rng.Float64()*(maxv-minv)
	var left, right [][]float64
	for _, row := range data {
		if row[dim] < split {
			left = append(left, row)
		} else {
			right = append(right, row)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &iNode{leaf: true, size: len(data)}
	}

	return &iNode{
		dim:      dim,
		splitVal: split,
		left:     buildTree(left, height+1, limit, rng),
		right:    buildTree(right, height+1, limit, rng),
	}
}

// cFactor is the average path length of an unsuccessful BST search, the
// standard normalizer for isolation forest scores.
func cFactor(n int) float64 {
	if n <= 1 {
		return 0
	}
	return 2.0*(math.Log(float64(n-1))+0.5772156649) - 2.0*float64(n-1)/float64(n)
}

func pathLength(node *iNode, x []float64, depth int) float64 {
	if node.leaf {
		if node.size <= 1 {
			return float64(depth)
		}
		return float64(depth) + cFactor(node.size)
	}
	if x[node.dim] < node.splitVal {
		return pathLength(node.left, x, depth+1)
	}
	return pathLength(node.right, x, depth+1)
}

func (f *isolationForest) score(x []float64) float64 {
	if len(f.trees) == 0 {
		return 0
	}
	sum := 0.0
	for _, t := range f.trees {
		sum += pathLength(t, x, 0)
	}
	avg := sum / float64(len(f.trees))
	c := cFactor(f.sampleSize)
	if c <= 0 {
		c = 1
	}
	return math.Pow(2, -avg/c)
}
