package demo

// Accumulate returns the sum of input, folded left to right from 0.
// Overflow wraps; Accumulate(nil) is 0.
func Accumulate(input []int64) int64 {
	var sum int64
	for _, v := range input {
		sum += v
	}
	return sum
}

// Increment returns value+1. Increment(math.MaxInt64) is math.MinInt64.
func Increment(value int64) int64 {
	value++
	return value
}

// ConsumeSlice returns the number of bytes in view.
func ConsumeSlice(view []byte) uint {
	return uint(len(view))
}
