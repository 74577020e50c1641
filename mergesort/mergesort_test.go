package mergesort

import (
	"math"
	"math/bits"
	"math/rand"
	"slices"
	"testing"

	"github.com/cockroachdb/errors"
	"github.com/stretchr/testify/require"
)

func TestSortScenarios(t *testing.T) {
	tests := []struct {
		name  string
		input []int
		want  []int
	}{
		{name: "empty", input: []int{}, want: []int{}},
		{name: "single", input: []int{42}, want: []int{42}},
		{name: "example", input: []int{2, 8, 5, 3, 9, 4, 1, 7}, want: []int{1, 2, 3, 4, 5, 7, 8, 9}},
		{name: "duplicates", input: []int{5, 3, 5, 1}, want: []int{1, 3, 5, 5}},
		{name: "odd length", input: []int{4, 2, 7}, want: []int{2, 4, 7}},
		{name: "reverse", input: []int{9, 7, 5, 3, 1}, want: []int{1, 3, 5, 7, 9}},
		{name: "already sorted", input: []int{1, 2, 3, 4, 5, 6}, want: []int{1, 2, 3, 4, 5, 6}},
		{name: "all same", input: []int{7, 7, 7, 7, 7}, want: []int{7, 7, 7, 7, 7}},
		{name: "negatives", input: []int{0, -3, 8, -1, -3}, want: []int{-3, -3, -1, 0, 8}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := Sort(slices.Clone(tt.input))
			require.Equal(t, tt.want, got)
		})
	}
}

func TestSortNil(t *testing.T) {
	var s []int
	require.Nil(t, Sort(s))
}

func TestSortInPlace(t *testing.T) {
	s := []int{3, 1, 2}
	got := Sort(s)
	require.Equal(t, []int{1, 2, 3}, s)
	require.Same(t, &s[0], &got[0])
}

func TestSortStrings(t *testing.T) {
	got := Sort([]string{"pear", "apple", "fig", "banana", "apple"})
	require.Equal(t, []string{"apple", "apple", "banana", "fig", "pear"}, got)
}

func TestSortRandomProperties(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	for _, n := range []int{2, 3, 7, 8, 9, 31, 64, 100, 1000, 4097} {
		input := make([]int, n)
		for i := range input {
			input[i] = rng.Intn(n/2 + 1) // 중복이 생기도록 작은 범위
		}

		got := Sort(slices.Clone(input))

		require.Len(t, got, n)
		require.True(t, slices.IsSorted(got), "n=%d", n)

		want := slices.Clone(input)
		slices.Sort(want)
		require.Equal(t, want, got, "n=%d: not a permutation of the input", n)

		// 이미 정렬된 입력은 그대로
		require.Equal(t, got, Sort(slices.Clone(got)))
	}
}

type keyed struct {
	key int
	tag string
}

func byKey(a, b keyed) int { return a.key - b.key }

func TestMergeTieTakesRightFirst(t *testing.T) {
	got := SortFunc([]keyed{{5, "a"}, {5, "b"}}, byKey)
	require.Equal(t, []keyed{{5, "b"}, {5, "a"}}, got)

	got = SortFunc([]keyed{{3, "a"}, {1, "b"}, {3, "c"}, {2, "d"}}, byKey)
	// pass 1: [1b 3a] [2d 3c], pass 2: 3a == 3c 이면 오른쪽 3c 먼저
	require.Equal(t, []keyed{{1, "b"}, {2, "d"}, {3, "c"}, {3, "a"}}, got)
}

func TestMergeRemainderKeepsOrder(t *testing.T) {
	dst := make([]keyed, 4)
	left := []keyed{{1, "a"}}
	right := []keyed{{2, "b"}, {2, "c"}, {2, "d"}}
	comparisons := merge(dst, left, right, func(a, b keyed) bool { return a.key < b.key })

	require.Equal(t, 1, comparisons)
	require.Equal(t, []keyed{{1, "a"}, {2, "b"}, {2, "c"}, {2, "d"}}, dst)
}

func TestSortFuncDescending(t *testing.T) {
	got := SortFunc([]int{4, 1, 3, 9, 2}, func(a, b int) int { return b - a })
	require.Equal(t, []int{9, 4, 3, 2, 1}, got)
}

func TestSorterStats(t *testing.T) {
	st := NewSorter[int]()
	for _, n := range []int{2, 3, 5, 8, 9, 100, 1024, 1025} {
		s := make([]int, n)
		for i := range s {
			s[i] = n - i
		}
		st.Sort(s)

		stats := st.Stats()
		passes := bits.Len(uint(n - 1)) // ceil(log2 n)
		require.Equal(t, passes, stats.Passes, "n=%d", n)
		require.Equal(t, n*passes, stats.Moves, "n=%d", n)
		require.LessOrEqual(t, stats.Comparisons, n*passes, "n=%d", n)
		require.Positive(t, stats.Merges)
	}

	st.Sort([]int{1})
	require.Equal(t, Stats{}, st.Stats())
}

func TestMergeBlocksCounts(t *testing.T) {
	s := []int{5, 1, 4, 2, 8, 3, 7}
	buf := make([]int, len(s))

	// 폭 2, from=4: 마지막 블록 하나만 병합된다
	blocks, comparisons, moves := mergeBlocks(s, buf, 2, 4, len(s), func(a, b int) bool { return a < b })
	require.Equal(t, 1, blocks)
	require.Equal(t, 3, moves) // 마지막 블록은 [4, 7)로 잘린다
	require.LessOrEqual(t, comparisons, 3)
	require.Equal(t, []int{5, 1, 4, 2, 7, 8, 3}, s)

	blocks, _, moves = mergeBlocks(s, buf, 1, 0, len(s), func(a, b int) bool { return a < b })
	require.Equal(t, 4, blocks)
	require.Equal(t, len(s), moves)
	require.Equal(t, []int{1, 5, 2, 4, 7, 8, 3}, s)
}

func TestSorterMergeCount(t *testing.T) {
	st := NewSorter[int]()
	st.Sort([]int{2, 8, 5, 3, 9, 4, 1, 7})
	require.Equal(t, 4+2+1, st.Stats().Merges)

	st.Sort([]int{4, 2, 7})
	require.Equal(t, 2+1, st.Stats().Merges)
}

func TestSorterReusesBuffer(t *testing.T) {
	st := NewSorter[int]()
	st.Sort([]int{5, 4, 3, 2, 1, 0})
	first := cap(st.buf)

	got := st.Sort([]int{3, 1, 2})
	require.Equal(t, []int{1, 2, 3}, got)
	require.Equal(t, first, cap(st.buf))
}

func TestSorted(t *testing.T) {
	input := []int{3, 1, 2}
	got := Sorted(input)
	require.Equal(t, []int{1, 2, 3}, got)
	require.Equal(t, []int{3, 1, 2}, input)
}

func TestSortCheckedRejectsNaN(t *testing.T) {
	input := []float64{3, math.NaN(), 1}
	got, err := SortChecked(input)
	require.Nil(t, got)
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrIncomparable))
	require.Equal(t, 3.0, input[0])
	require.True(t, math.IsNaN(input[1]))
	require.Equal(t, 1.0, input[2])
}

func TestSortChecked(t *testing.T) {
	got, err := SortChecked([]float64{2.5, -1, 0})
	require.NoError(t, err)
	require.Equal(t, []float64{-1, 0, 2.5}, got)

	got, err = SortChecked([]float64{})
	require.NoError(t, err)
	require.Empty(t, got)
}

func BenchmarkSort(b *testing.B) {
	rng := rand.New(rand.NewSource(42))
	data := make([]int, 10000)
	for i := range data {
		data[i] = rng.Intn(1000000)
	}
	work := make([]int, len(data))
	st := NewSorter[int]()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		copy(work, data)
		st.Sort(work)
	}
}
