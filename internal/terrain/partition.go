package terrain

// Partition divides a linear domain of the given size into count balanced
// contiguous pieces and returns the half-open cell range owned by index. The
// pieces are pairwise disjoint, their union is exactly [0,size), and their
// sizes differ by at most one cell, with the remainder going to the lowest
// indices.
func Partition(size, index, count int) (first, last int) {
	per := size / count
	rem := size % count
	first = index*per + min(index, rem)
	last = first + per
	if index < rem {
		last++
	}
	return first, last
}
