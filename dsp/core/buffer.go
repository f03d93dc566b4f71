package core

// Sample is the set of host sample formats.
type Sample interface {
	~float32 | ~float64
}

// EnsureLen returns a slice with the requested length, reusing buf capacity if possible.
func EnsureLen(buf []float64, n int) []float64 {
	if n <= 0 {
		return buf[:0]
	}
	if cap(buf) >= n {
		return buf[:n]
	}
	return make([]float64, n)
}

// Zero sets all values in buf to 0.
func Zero[F Sample](buf []F) {
	for i := range buf {
		buf[i] = 0
	}
}

// CopyInto copies src into dst and returns the number of copied elements.
func CopyInto[F Sample](dst, src []F) int {
	n := min(len(dst), len(src))
	copy(dst[:n], src[:n])
	return n
}

// SameMemory reports whether a and b start at the same element.
func SameMemory[F Sample](a, b []F) bool {
	if len(a) == 0 || len(b) == 0 {
		return false
	}
	return &a[0] == &b[0]
}

// Widen converts src into dst as float64 and returns the count written.
func Widen[F Sample](dst []float64, src []F) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = float64(src[i])
	}
	return n
}

// Narrow converts src into dst in the host format and returns the count written.
func Narrow[F Sample](dst []F, src []float64) int {
	n := min(len(dst), len(src))
	for i := range n {
		dst[i] = F(src[i])
	}
	return n
}
