package pool

import "sync"

// Slice pools for efficient reuse of the typed scratch slices MG1's encoder
// needs: int32 for the flattened index-delta stream, uint32 for the identity
// vertex permutation, float32 for the flattened positions, normals, and map
// values.
var (
	int32SlicePool = sync.Pool{
		New: func() any { return &[]int32{} },
	}
	uint32SlicePool = sync.Pool{
		New: func() any { return &[]uint32{} },
	}
	float32SlicePool = sync.Pool{
		New: func() any { return &[]float32{} },
	}
)

// GetInt32Slice retrieves and resizes an int32 slice from the pool.
//
// The returned slice will have the exact length specified by size. The
// caller must call the returned cleanup function to return the slice to the
// pool.
func GetInt32Slice(size int) ([]int32, func()) {
	ptr, _ := int32SlicePool.Get().(*[]int32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]int32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { int32SlicePool.Put(ptr) }
}

// GetUint32Slice retrieves and resizes a uint32 slice from the pool.
func GetUint32Slice(size int) ([]uint32, func()) {
	ptr, _ := uint32SlicePool.Get().(*[]uint32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]uint32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { uint32SlicePool.Put(ptr) }
}

// GetFloat32Slice retrieves and resizes a float32 slice from the pool.
func GetFloat32Slice(size int) ([]float32, func()) {
	ptr, _ := float32SlicePool.Get().(*[]float32)
	slice := (*ptr)[:0]

	if cap(slice) < size {
		slice = make([]float32, size)
	} else {
		slice = slice[:size]
	}
	*ptr = slice

	return slice, func() { float32SlicePool.Put(ptr) }
}
