package util

import (
	"math"
	"math/rand"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func _RandomPoints(n int, seed int64) [][]float64 {
	rng := rand.New(rand.NewSource(seed))
	points := make([][]float64, n)
	for i := range points {
		points[i] = []float64{rng.Float64() * 1000, rng.Float64() * 1000}
	}
	return points
}

func _Range(n int) []int32 {
	values := make([]int32, n)
	for i := range values {
		values[i] = int32(i)
	}
	return values
}

func TestKDTreeClosestMatchesBruteForce(t *testing.T) {
	points := _RandomPoints(500, 1)
	tree := BuildKDTree(2, points, _Range(len(points)))

	for _, query := range _RandomPoints(50, 2) {
		best := -1
		best_dist := math.Inf(1)
		for i, p := range points {
			d := math.Hypot(p[0]-query[0], p[1]-query[1])
			if d < best_dist {
				best = i
				best_dist = d
			}
		}
		value, ok := tree.GetClosest(query, math.Inf(1))
		require.True(t, ok)
		require.Equal(t, int32(best), value)
	}
}

func TestKDTreeClosestMaxDist(t *testing.T) {
	tree := NewKDTree[int32](2)
	tree.Insert([]float64{0, 0}, 7)
	tree.Insert([]float64{10, 0}, 8)

	_, ok := tree.GetClosest([]float64{5, 5}, 1)
	require.False(t, ok)
	value, ok := tree.GetClosest([]float64{9, 0}, 1)
	require.True(t, ok)
	require.Equal(t, int32(8), value)
}

func TestKDTreeKClosest(t *testing.T) {
	points := _RandomPoints(300, 3)
	tree := BuildKDTree(2, points, _Range(len(points)))
	query := []float64{500, 500}

	dists := make([]float64, len(points))
	for i, p := range points {
		dists[i] = math.Hypot(p[0]-query[0], p[1]-query[1])
	}
	sorted := append([]float64(nil), dists...)
	sort.Float64s(sorted)

	found := tree.GetKClosest(query, 5)
	require.Equal(t, 5, found.Length())
	for i, item := range found {
		require.InDelta(t, sorted[i], item.B, 1e-9)
		require.InDelta(t, dists[item.A], item.B, 1e-9)
	}
}

func TestKDTreeInRadius(t *testing.T) {
	points := _RandomPoints(400, 4)
	tree := NewKDTree[int32](2)
	for i, p := range points {
		tree.Insert(p, int32(i))
	}
	query := []float64{300, 600}
	radius := 150.0

	expected := map[int32]bool{}
	for i, p := range points {
		if math.Hypot(p[0]-query[0], p[1]-query[1]) <= radius {
			expected[int32(i)] = true
		}
	}
	found := map[int32]bool{}
	tree.ForInRadius(query, radius, func(value int32, dist float64) {
		require.LessOrEqual(t, dist, radius)
		found[value] = true
	})
	require.Equal(t, expected, found)
}

func TestKDTreeEmpty(t *testing.T) {
	tree := BuildKDTree[int32](2, nil, nil)
	_, ok := tree.GetClosest([]float64{0, 0}, math.Inf(1))
	require.False(t, ok)
	require.Equal(t, 0, tree.GetKClosest([]float64{0, 0}, 3).Length())
}
