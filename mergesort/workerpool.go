package mergesort

import (
	"runtime"
	"sync"
)

// 전역 워커 풀 (재사용을 위해)
var (
	defaultPool     *Pool
	defaultPoolOnce sync.Once
)

// Pool 병렬 병합 고루틴 수를 제한하는 채널 세마포
type Pool struct {
	sem chan struct{}
}

// NewPool workers 슬롯짜리 풀. workers <= 0 이면 CPU 코어 수.
func NewPool(workers int) *Pool {
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	return &Pool{sem: make(chan struct{}, workers)}
}

// DefaultPool 프로세스 전체에서 공유하는 풀
func DefaultPool() *Pool {
	defaultPoolOnce.Do(func() {
		defaultPool = NewPool(runtime.NumCPU())
	})
	return defaultPool
}

func (p *Pool) acquire() { p.sem <- struct{}{} }

func (p *Pool) release() { <-p.sem }

// Cap 풀 용량
func (p *Pool) Cap() int { return cap(p.sem) }

// Status 워커 풀 상태 확인 (디버깅용)
func (p *Pool) Status() (used int, capacity int) {
	return len(p.sem), cap(p.sem)
}
