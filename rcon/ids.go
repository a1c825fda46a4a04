package rcon

import "math"

// idAllocator hands out request ids for one session. Ids are never zero or
// negative, so they cannot collide with InvalidAuthID.
type idAllocator struct {
	last int32
}

func (a *idAllocator) next() int32 {
	if a.last <= 0 || a.last == math.MaxInt32 {
		a.last = 0
	}
	a.last++
	return a.last
}
