package mergesort

import (
	"cmp"
	"sync"
)

// ParallelSort 패스 순서는 Sort와 같고, 한 패스 안의 블록 병합만 풀 워커에 나눠 실행한다.
// 결과는 Sort와 원소 단위로 동일하다. pool이 nil이면 DefaultPool을 쓴다.
func ParallelSort[T cmp.Ordered](s []T, pool *Pool) []T {
	return parallelSort(s, pool, lessOrdered[T])
}

// ParallelSortFunc 비교 함수 버전
func ParallelSortFunc[T any](s []T, cmp func(a, b T) int, pool *Pool) []T {
	return parallelSort(s, pool, func(a, b T) bool { return cmp(a, b) < 0 })
}

func parallelSort[T any](s []T, pool *Pool, less func(a, b T) bool) []T {
	n := len(s)
	if n <= 1 {
		return s
	}
	if pool == nil {
		pool = DefaultPool()
	}

	buf := make([]T, n)
	threshold := ParallelThreshold(n)

	for width := 1; width < n; width *= 2 {
		block := 2 * width
		numBlocks := (n + block - 1) / block
		chunks := min(pool.Cap(), numBlocks, n/threshold)

		if chunks < 2 {
			mergeBlocks(s, buf, width, 0, n, less)
			continue
		}

		// 청크 경계는 블록 경계에 맞춘다. 청크끼리 s와 buf 구간이 겹치지 않는다.
		span := (numBlocks + chunks - 1) / chunks * block

		var wg sync.WaitGroup
		for from := 0; from < n; from += span {
			to := min(from+span, n)
			wg.Add(1)
			go func(from, to int) {
				defer wg.Done()
				pool.acquire()
				defer pool.release() // 확실히 반환
				mergeBlocks(s, buf, width, from, to, less)
			}(from, to)
		}
		// 다음 패스는 이번 패스의 모든 블록을 읽으므로 여기서 대기
		wg.Wait()
	}

	return s
}

// ParallelThreshold 청크 하나가 맡을 최소 원소 수 (동적 임계값)
func ParallelThreshold(n int) int {
	switch {
	case n < 1000:
		return max(n, 1) // 작은 데이터는 병렬처리 안함
	case n < 10000:
		return 300
	case n < 100000:
		return 800
	default:
		return 1500
	}
}
