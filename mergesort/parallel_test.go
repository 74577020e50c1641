package mergesort

import (
	"math/rand"
	"slices"
	"sync"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParallelSortScenarios(t *testing.T) {
	pool := NewPool(4)
	require.Equal(t, []int{}, ParallelSort([]int{}, pool))
	require.Equal(t, []int{1}, ParallelSort([]int{1}, pool))
	require.Equal(t, []int{1, 2, 3, 4, 5, 7, 8, 9}, ParallelSort([]int{2, 8, 5, 3, 9, 4, 1, 7}, pool))
	require.Equal(t, []int{2, 4, 7}, ParallelSort([]int{4, 2, 7}, nil))
}

func TestParallelSortMatchesSequential(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	pool := NewPool(4)

	for _, n := range []int{999, 5000, 20001, 150000} {
		input := make([]keyed, n)
		for i := range input {
			input[i] = keyed{key: rng.Intn(n / 10), tag: string(rune('a' + i%26))}
		}

		want := SortFunc(slices.Clone(input), byKey)
		got := ParallelSortFunc(slices.Clone(input), byKey, pool)

		// 동일 키 원소의 순서까지 같아야 한다
		require.Equal(t, want, got, "n=%d", n)
	}
}

func TestParallelSortSharedPool(t *testing.T) {
	pool := NewPool(2)
	var wg sync.WaitGroup
	results := make([][]int, 4)

	for g := range results {
		wg.Add(1)
		go func(g int) {
			defer wg.Done()
			rng := rand.New(rand.NewSource(int64(g)))
			s := make([]int, 30000)
			for i := range s {
				s[i] = rng.Intn(1000)
			}
			results[g] = ParallelSort(s, pool)
		}(g)
	}
	wg.Wait()

	for _, r := range results {
		require.True(t, slices.IsSorted(r))
	}
	used, capacity := pool.Status()
	require.Equal(t, 0, used)
	require.Equal(t, 2, capacity)
}

func TestParallelThreshold(t *testing.T) {
	require.Equal(t, 1, ParallelThreshold(0))
	require.Equal(t, 500, ParallelThreshold(500))
	require.Equal(t, 300, ParallelThreshold(5000))
	require.Equal(t, 800, ParallelThreshold(50000))
	require.Equal(t, 1500, ParallelThreshold(500000))
}

func TestDefaultPool(t *testing.T) {
	p := DefaultPool()
	require.Same(t, p, DefaultPool())
	require.Positive(t, p.Cap())
	require.Positive(t, NewPool(0).Cap())
}

func BenchmarkParallelSort(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	data := make([]int, 100000)
	for i := range data {
		data[i] = rng.Intn(1000000)
	}
	work := make([]int, len(data))
	pool := NewPool(0)

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(work, data)
		ParallelSort(work, pool)
	}
}
