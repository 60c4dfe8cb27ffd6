package demo

// BenchmarkWorkloadSize is the input length used by AccumulateWorkload.
const BenchmarkWorkloadSize = 10_000

// SequentialInput returns 0, 1, ..., n-1. A non-positive n yields an empty slice.
func SequentialInput(n int) []int64 {
	if n < 0 {
		n = 0
	}
	data := make([]int64, n)
	for i := range data {
		data[i] = int64(i)
	}
	return data
}

// Workload is one unit of measured work. Harnesses call it repeatedly and
// own all timing.
type Workload func()

// AccumulateWorkload returns a Workload that runs Accumulate over
// SequentialInput(BenchmarkWorkloadSize). The input is built once, up front.
func AccumulateWorkload() Workload {
	return AccumulateWorkloadOf(SequentialInput(BenchmarkWorkloadSize))
}

// AccumulateWorkloadOf returns a Workload over a caller-built input.
// The result of each call is kept in a package sink so the compiler cannot
// drop the call.
func AccumulateWorkloadOf(data []int64) Workload {
	return func() {
		sink = Accumulate(data)
	}
}

var sink int64
