package mergesort

import "cmp"

// Stats 마지막 정렬 한 번의 카운터
type Stats struct {
	Passes      int `json:"passes"`
	Merges      int `json:"merges"`
	Comparisons int `json:"comparisons"`
	Moves       int `json:"moves"`
}

// Sorter 보조 버퍼를 호출 간에 재사용하는 정렬기. 동시 사용은 안전하지 않다.
type Sorter[T any] struct {
	less  func(a, b T) bool
	buf   []T
	stats Stats
}

// NewSorter 기본 < 순서를 쓰는 Sorter
func NewSorter[T cmp.Ordered]() *Sorter[T] {
	return &Sorter[T]{less: lessOrdered[T]}
}

// NewSorterFunc 비교 함수 기반 Sorter
func NewSorterFunc[T any](cmp func(a, b T) int) *Sorter[T] {
	return &Sorter[T]{less: func(a, b T) bool { return cmp(a, b) < 0 }}
}

// Sort 폭 1, 2, 4, ... 순으로 인접 런을 병합한다. ceil(log2 n)번의 패스 후 종료.
func (st *Sorter[T]) Sort(s []T) []T {
	st.stats = Stats{}

	n := len(s)
	if n <= 1 {
		return s
	}

	if cap(st.buf) < n {
		st.buf = make([]T, n)
	}
	buf := st.buf[:n]

	for width := 1; width < n; width *= 2 {
		blocks, comparisons, moves := mergeBlocks(s, buf, width, 0, n, st.less)
		st.stats.Passes++
		st.stats.Merges += blocks
		st.stats.Comparisons += comparisons
		st.stats.Moves += moves
	}

	// 버퍼가 원소 참조를 붙잡지 않도록 비운다
	clear(buf)
	return s
}

// Stats 마지막 Sort 호출의 통계
func (st *Sorter[T]) Stats() Stats {
	return st.stats
}
