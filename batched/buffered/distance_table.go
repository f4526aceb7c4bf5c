package buffered

import (
	"slices"
	"sync"

	. "github.com/ttpr0/go-accessibility/util"
)

//*******************************************
// distance table
//*******************************************

type DistanceRecord struct {
	Vertex   int32
	Distance float64
}

// Minimum distance per vertex over all merged records.
//
// Merging replaces a distance only if the new one is smaller, merge order
// does not change the result. Safe for concurrent use.
type DistanceTable struct {
	mu    sync.RWMutex
	dists Dict[int32, float64]
}

func NewDistanceTable() *DistanceTable {
	return &DistanceTable{
		dists: NewDict[int32, float64](1000),
	}
}

// Merges the records and returns the number of improved vertices.
func (self *DistanceTable) Merge(records []DistanceRecord) int {
	self.mu.Lock()
	defer self.mu.Unlock()

	improved := 0
	for _, rec := range records {
		curr, ok := self.dists[rec.Vertex]
		if ok && curr <= rec.Distance {
			continue
		}
		self.dists[rec.Vertex] = rec.Distance
		improved += 1
	}
	return improved
}

func (self *DistanceTable) Get(vertex int32) (float64, bool) {
	self.mu.RLock()
	defer self.mu.RUnlock()

	dist, ok := self.dists[vertex]
	return dist, ok
}

func (self *DistanceTable) Length() int {
	self.mu.RLock()
	defer self.mu.RUnlock()

	return self.dists.Length()
}

// Returns all records ordered by distance, then vertex.
func (self *DistanceTable) Records() List[DistanceRecord] {
	self.mu.RLock()
	records := NewList[DistanceRecord](self.dists.Length())
	for vertex, dist := range self.dists {
		records.Add(DistanceRecord{Vertex: vertex, Distance: dist})
	}
	self.mu.RUnlock()

	slices.SortFunc(records, func(a, b DistanceRecord) int {
		if a.Distance < b.Distance {
			return -1
		}
		if a.Distance > b.Distance {
			return 1
		}
		return int(a.Vertex) - int(b.Vertex)
	})
	return records
}
