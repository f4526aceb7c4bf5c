package util

import (
	"math"
	"slices"
)

//*******************************************
// kd-tree
//*******************************************

type _KDNode[T any] struct {
	point []float64
	value T
	left  int32
	right int32
}

// KD-tree over euclidean space.
//
// Nodes are stored in a flat list and linked by index (-1 = no child).
type KDTree[T any] struct {
	dim   int
	root  int32
	nodes List[_KDNode[T]]
}

func NewKDTree[T any](dim int) KDTree[T] {
	return KDTree[T]{
		dim:   dim,
		root:  -1,
		nodes: NewList[_KDNode[T]](100),
	}
}

// Builds a balanced tree by recursive median splits.
func BuildKDTree[T any](dim int, points [][]float64, values []T) KDTree[T] {
	tree := KDTree[T]{
		dim:   dim,
		root:  -1,
		nodes: NewList[_KDNode[T]](len(points)),
	}
	indices := make([]int, len(points))
	for i := range indices {
		indices[i] = i
	}
	tree.root = tree._Build(points, values, indices, 0)
	return tree
}

func (self *KDTree[T]) _Build(points [][]float64, values []T, indices []int, depth int) int32 {
	if len(indices) == 0 {
		return -1
	}
	axis := depth % self.dim
	slices.SortFunc(indices, func(a, b int) int {
		pa := points[a][axis]
		pb := points[b][axis]
		if pa < pb {
			return -1
		}
		if pa > pb {
			return 1
		}
		return a - b
	})
	mid := len(indices) / 2
	id := int32(self.nodes.Length())
	self.nodes.Add(_KDNode[T]{
		point: slices.Clone(points[indices[mid]]),
		value: values[indices[mid]],
		left:  -1,
		right: -1,
	})
	left := self._Build(points, values, indices[:mid], depth+1)
	right := self._Build(points, values, indices[mid+1:], depth+1)
	self.nodes[id].left = left
	self.nodes[id].right = right
	return id
}

func (self *KDTree[T]) Insert(point []float64, value T) {
	id := int32(self.nodes.Length())
	self.nodes.Add(_KDNode[T]{
		point: slices.Clone(point),
		value: value,
		left:  -1,
		right: -1,
	})
	if self.root == -1 {
		self.root = id
		return
	}
	curr := self.root
	depth := 0
	for {
		axis := depth % self.dim
		node := &self.nodes[curr]
		if point[axis] < node.point[axis] {
			if node.left == -1 {
				node.left = id
				return
			}
			curr = node.left
		} else {
			if node.right == -1 {
				node.right = id
				return
			}
			curr = node.right
		}
		depth += 1
	}
}

func (self *KDTree[T]) Length() int {
	return self.nodes.Length()
}

// Returns the value closest to point if it lies within max_dist.
func (self *KDTree[T]) GetClosest(point []float64, max_dist float64) (T, bool) {
	best := int32(-1)
	best_dist := max_dist * max_dist
	self._Closest(self.root, point, 0, &best, &best_dist)
	if best == -1 {
		var value T
		return value, false
	}
	return self.nodes[best].value, true
}

func (self *KDTree[T]) _Closest(id int32, point []float64, depth int, best *int32, best_dist *float64) {
	if id == -1 {
		return
	}
	node := &self.nodes[id]
	dist := _SquaredDistance(node.point, point)
	if dist <= *best_dist && (*best == -1 || dist < *best_dist || id < *best) {
		*best = id
		*best_dist = dist
	}
	axis := depth % self.dim
	diff := point[axis] - node.point[axis]
	near, far := node.left, node.right
	if diff >= 0 {
		near, far = node.right, node.left
	}
	self._Closest(near, point, depth+1, best, best_dist)
	if diff*diff <= *best_dist {
		self._Closest(far, point, depth+1, best, best_dist)
	}
}

// Returns up to k values ordered by ascending distance to point.
func (self *KDTree[T]) GetKClosest(point []float64, k int) List[Tuple[T, float64]] {
	found := NewList[Tuple[int32, float64]](k + 1)
	self._KClosest(self.root, point, 0, k, &found)
	result := NewList[Tuple[T, float64]](found.Length())
	for _, item := range found {
		result.Add(MakeTuple(self.nodes[item.A].value, math.Sqrt(item.B)))
	}
	return result
}

func (self *KDTree[T]) _KClosest(id int32, point []float64, depth int, k int, found *List[Tuple[int32, float64]]) {
	if id == -1 || k <= 0 {
		return
	}
	node := &self.nodes[id]
	dist := _SquaredDistance(node.point, point)
	if found.Length() < k || dist < (*found)[found.Length()-1].B {
		// sorted insert, list stays bounded by k
		pos, _ := slices.BinarySearchFunc(*found, dist, func(e Tuple[int32, float64], d float64) int {
			if e.B <= d {
				return -1
			}
			return 1
		})
		*found = slices.Insert(*found, pos, MakeTuple(id, dist))
		if found.Length() > k {
			*found = (*found)[:k]
		}
	}
	axis := depth % self.dim
	diff := point[axis] - node.point[axis]
	near, far := node.left, node.right
	if diff >= 0 {
		near, far = node.right, node.left
	}
	self._KClosest(near, point, depth+1, k, found)
	if found.Length() < k || diff*diff <= (*found)[found.Length()-1].B {
		self._KClosest(far, point, depth+1, k, found)
	}
}

// Calls the callback for every value within radius (inclusive) of point.
func (self *KDTree[T]) ForInRadius(point []float64, radius float64, callback func(T, float64)) {
	self._InRadius(self.root, point, 0, radius*radius, callback)
}

func (self *KDTree[T]) _InRadius(id int32, point []float64, depth int, sq_radius float64, callback func(T, float64)) {
	for id != -1 {
		node := &self.nodes[id]
		dist := _SquaredDistance(node.point, point)
		if dist <= sq_radius {
			callback(node.value, math.Sqrt(dist))
		}
		axis := depth % self.dim
		diff := point[axis] - node.point[axis]
		near, far := node.left, node.right
		if diff >= 0 {
			near, far = node.right, node.left
		}
		if diff*diff <= sq_radius {
			self._InRadius(far, point, depth+1, sq_radius, callback)
		}
		id = near
		depth += 1
	}
}

func _SquaredDistance(a, b []float64) float64 {
	sum := 0.0
	for i := range a {
		d := a[i] - b[i]
		sum += d * d
	}
	return sum
}
