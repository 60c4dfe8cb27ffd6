package demo

import (
	"math"
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAccumulate(t *testing.T) {
	assert.Equal(t, int64(6), Accumulate([]int64{1, 2, 3}))
}

func TestAccumulate_Empty(t *testing.T) {
	assert.Equal(t, int64(0), Accumulate([]int64{}))
	assert.Equal(t, int64(0), Accumulate(nil))
}

func TestAccumulate_Workload(t *testing.T) {
	assert.Equal(t, int64(49_995_000), Accumulate(SequentialInput(BenchmarkWorkloadSize)))
}

func TestAccumulate_WrapsOnOverflow(t *testing.T) {
	assert.Equal(t, int64(math.MinInt64), Accumulate([]int64{math.MaxInt64, 1}))
	assert.Equal(t, int64(math.MaxInt64), Accumulate([]int64{math.MinInt64, -1}))
	assert.Equal(t, int64(-2), Accumulate([]int64{math.MaxInt64, math.MaxInt64}))
}

func TestAccumulate_Singleton(t *testing.T) {
	for _, x := range []int64{0, 1, -1, 42, math.MaxInt64, math.MinInt64} {
		assert.Equal(t, x, Accumulate([]int64{x}))
	}
}

func TestAccumulate_PermutationInvariant(t *testing.T) {
	rng := rand.New(rand.NewPCG(7, 11))
	input := []int64{math.MaxInt64, 3, -17, math.MinInt64, 99, 1 << 62, 1 << 62, -5}
	want := Accumulate(input)

	for i := 0; i < 20; i++ {
		perm := rng.Perm(len(input))
		shuffled := make([]int64, len(input))
		for j, p := range perm {
			shuffled[j] = input[p]
		}
		assert.Equal(t, want, Accumulate(shuffled), "permutation %v", perm)
	}
}

func TestAccumulate_Concatenation(t *testing.T) {
	a := []int64{math.MaxInt64, 10, -3}
	b := []int64{1 << 62, 1 << 62, 7}

	joined := append(append([]int64{}, a...), b...)
	assert.Equal(t, Accumulate(a)+Accumulate(b), Accumulate(joined))
}

func TestAccumulate_DoesNotMutateInput(t *testing.T) {
	input := []int64{4, 5, 6}
	Accumulate(input)
	assert.Equal(t, []int64{4, 5, 6}, input)
}

func TestAccumulate_SubsliceView(t *testing.T) {
	backing := []int64{100, 1, 2, 3, 100}
	assert.Equal(t, int64(6), Accumulate(backing[1:4]))
}

func TestIncrement(t *testing.T) {
	assert.Equal(t, int64(42), Increment(41))
	assert.Equal(t, int64(0), Increment(-1))
	assert.Equal(t, int64(math.MinInt64+1), Increment(math.MinInt64))
}

func TestIncrement_WrapsAtMax(t *testing.T) {
	assert.Equal(t, int64(math.MinInt64), Increment(math.MaxInt64))
}

func TestIncrement_LeavesCallerValue(t *testing.T) {
	value := int64(41)
	got := Increment(value)
	assert.Equal(t, int64(41), value)
	assert.Equal(t, int64(42), got)
}

func TestConsumeSlice(t *testing.T) {
	data := []byte{1, 2, 3, 4}
	assert.Equal(t, uint(4), ConsumeSlice(data))
	assert.Equal(t, []byte{1, 2, 3, 4}, data)
}

func TestConsumeSlice_Empty(t *testing.T) {
	assert.Equal(t, uint(0), ConsumeSlice([]byte{}))
	assert.Equal(t, uint(0), ConsumeSlice(nil))
}

func TestConsumeSlice_SubsliceView(t *testing.T) {
	data := []byte("hello, world")
	assert.Equal(t, uint(5), ConsumeSlice(data[:5]))
	assert.Equal(t, uint(5), ConsumeSlice(data[7:]))
}

func TestSequentialInput(t *testing.T) {
	assert.Equal(t, []int64{0, 1, 2, 3}, SequentialInput(4))
	assert.Empty(t, SequentialInput(0))
	assert.Empty(t, SequentialInput(-3))

	data := SequentialInput(BenchmarkWorkloadSize)
	require.Len(t, data, BenchmarkWorkloadSize)
	assert.Equal(t, int64(9999), data[len(data)-1])
}

func TestAccumulateWorkload(t *testing.T) {
	w := AccumulateWorkload()
	require.NotNil(t, w)

	w()
	assert.Equal(t, int64(49_995_000), sink)

	AccumulateWorkloadOf([]int64{1, 2, 3})()
	assert.Equal(t, int64(6), sink)
}

func TestAccumulate_DoesNotAllocate(t *testing.T) {
	data := SequentialInput(1024)
	allocs := testing.AllocsPerRun(100, func() {
		sink = Accumulate(data)
	})
	assert.Zero(t, allocs)
}

func BenchmarkAccumulate(b *testing.B) {
	work := AccumulateWorkload()

	b.ResetTimer()
	for range b.N {
		work()
	}
}
