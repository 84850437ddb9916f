package pool

import "sync"

// uint64SlicePool pools the one typed scratch slice shape actually reused
// on a decode hot path: Array column end-offsets (spec §4.4 "Array(T)").
var uint64SlicePool = sync.Pool{
	New: func() any { return &[]uint64{} },
}

// GetUint64Slice retrieves and resizes a uint64 slice from the pool, used
// for Array column end-offsets (spec §4.4 "Array(T)").
func GetUint64Slice(size int) ([]uint64, func()) {
	ptr, _ := uint64SlicePool.Get().(*[]uint64)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]uint64, size)
		*ptr = slice
	} else {
		slice = slice[:size]
		*ptr = slice
	}

	return slice, func() { uint64SlicePool.Put(ptr) }
}
