package mergesort

// merge 정렬된 left, right를 dst에 병합하고 비교 횟수를 반환한다.
// dst 길이는 len(left)+len(right) 이상이어야 한다.
func merge[T any](dst, left, right []T, less func(a, b T) bool) int {
	i, j, k := 0, 0, 0
	comparisons := 0

	for i < len(left) && j < len(right) {
		comparisons++
		// 엄격히 작을 때만 왼쪽, 동률이면 오른쪽
		if less(left[i], right[j]) {
			dst[k] = left[i]
			i++
		} else {
			dst[k] = right[j]
			j++
		}
		k++
	}

	// 남은 요소들 한 번에 추가
	k += copy(dst[k:], left[i:])
	copy(dst[k:], right[j:])

	return comparisons
}

// mergeBlocks 폭 width 런 쌍들을 [from, to) 구간에서 병합해 s에 되쓴다.
// from은 2*width의 배수여야 하고, buf는 s와 같은 오프셋을 사용한다.
// 처리한 블록 수, 비교 횟수, s에 되쓴 원소 수를 반환한다.
func mergeBlocks[T any](s, buf []T, width, from, to int, less func(a, b T) bool) (blocks, comparisons, moves int) {
	n := len(s)
	for i := from; i < to; i += 2 * width {
		mid := min(i+width, n)
		end := min(i+2*width, n)

		comparisons += merge(buf[i:end], s[i:mid], s[mid:end], less)
		moves += copy(s[i:end], buf[i:end])
		blocks++
	}
	return blocks, comparisons, moves
}
