package util

//*******************************************
// flags
//*******************************************

// Per-id state with O(1) reset.
//
// Every slot carries the generation it was last written in; slots from an
// older generation read as the default value.
type Flags[T any] struct {
	flags       []T
	generations []uint32
	generation  uint32
	_default    T
}

func NewFlags[T any](size int32, _default T) Flags[T] {
	return Flags[T]{
		flags:       make([]T, size),
		generations: make([]uint32, size),
		generation:  1,
		_default:    _default,
	}
}

func (self *Flags[T]) Get(id int32) *T {
	if self.generations[id] != self.generation {
		self.flags[id] = self._default
		self.generations[id] = self.generation
	}
	return &self.flags[id]
}

// Reports whether the slot was touched since the last reset.
func (self *Flags[T]) IsSet(id int32) bool {
	return self.generations[id] == self.generation
}

func (self *Flags[T]) Reset() {
	self.generation += 1
	if self.generation == 0 {
		clear(self.generations)
		self.generation = 1
	}
}

func (self *Flags[T]) Length() int {
	return len(self.flags)
}
