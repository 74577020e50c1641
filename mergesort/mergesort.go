// Package mergesort 재귀 없이 런 폭을 두 배씩 늘려가며 병합하는 상향식(bottom-up) 머지소트.
//
// 병합 단계에서 두 런의 머리가 같으면 오른쪽 런의 원소를 먼저 꺼낸다.
// 따라서 런 경계를 넘는 동일 키 원소의 상대 순서는 보존되지 않는다.
package mergesort

import (
	"cmp"
	"slices"

	"github.com/cockroachdb/errors"
)

// ErrIncomparable 전순서가 정의되지 않는 원소(부동소수 NaN 등)가 입력에 있을 때 반환된다.
var ErrIncomparable = errors.New("mergesort: incomparable element")

// Sort s를 제자리에서 오름차순 정렬하고 같은 슬라이스를 돌려준다.
// 길이 1 이하는 그대로 반환한다.
func Sort[T cmp.Ordered](s []T) []T {
	return NewSorter[T]().Sort(s)
}

// SortFunc cmp 비교 함수로 s를 정렬한다. cmp(a, b) < 0 일 때만 왼쪽 런을 먼저 꺼낸다.
func SortFunc[T any](s []T, cmp func(a, b T) int) []T {
	return NewSorterFunc(cmp).Sort(s)
}

// Sorted 입력은 건드리지 않고 정렬된 복사본을 반환한다.
func Sorted[T cmp.Ordered](s []T) []T {
	return Sort(slices.Clone(s))
}

// SortChecked 정렬 전에 자기 자신과도 같지 않은 원소(NaN)를 찾는다.
// 발견하면 입력을 수정하지 않고 ErrIncomparable을 감싼 에러를 반환한다.
func SortChecked[T cmp.Ordered](s []T) ([]T, error) {
	if i := indexIncomparable(s); i >= 0 {
		return nil, errors.Wrapf(ErrIncomparable, "index %d of %d", i, len(s))
	}
	return Sort(s), nil
}

func indexIncomparable[T cmp.Ordered](s []T) int {
	for i, v := range s {
		if v != v {
			return i
		}
	}
	return -1
}

func lessOrdered[T cmp.Ordered](a, b T) bool {
	return a < b
}
