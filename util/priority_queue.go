package util

import (
	"cmp"
)

//*******************************************
// priority queue (binary min-heap)
//*******************************************

type _PQEntry[T any, P cmp.Ordered] struct {
	item     T
	priority P
}

type PriorityQueue[T any, P cmp.Ordered] struct {
	entries []_PQEntry[T, P]
}

func NewPriorityQueue[T any, P cmp.Ordered](capacity int) PriorityQueue[T, P] {
	return PriorityQueue[T, P]{
		entries: make([]_PQEntry[T, P], 0, capacity),
	}
}

func (self *PriorityQueue[T, P]) Enqueue(item T, priority P) {
	self.entries = append(self.entries, _PQEntry[T, P]{item, priority})
	self._Up(len(self.entries) - 1)
}

// Removes and returns the item with the lowest priority.
func (self *PriorityQueue[T, P]) Dequeue() (T, bool) {
	n := len(self.entries)
	if n == 0 {
		var item T
		return item, false
	}
	top := self.entries[0]
	self.entries[0] = self.entries[n-1]
	self.entries = self.entries[:n-1]
	if n > 1 {
		self._Down(0)
	}
	return top.item, true
}

func (self *PriorityQueue[T, P]) Length() int {
	return len(self.entries)
}

func (self *PriorityQueue[T, P]) Clear() {
	self.entries = self.entries[:0]
}

func (self *PriorityQueue[T, P]) _Up(i int) {
	for i > 0 {
		parent := (i - 1) / 2
		if self.entries[parent].priority <= self.entries[i].priority {
			break
		}
		self.entries[parent], self.entries[i] = self.entries[i], self.entries[parent]
		i = parent
	}
}

func (self *PriorityQueue[T, P]) _Down(i int) {
	n := len(self.entries)
	for {
		left := 2*i + 1
		if left >= n {
			break
		}
		smallest := left
		if right := left + 1; right < n && self.entries[right].priority < self.entries[left].priority {
			smallest = right
		}
		if self.entries[i].priority <= self.entries[smallest].priority {
			break
		}
		self.entries[i], self.entries[smallest] = self.entries[smallest], self.entries[i]
		i = smallest
	}
}
