package main

import (
	"bufio"
	"cmp"
	"encoding/json"
	"fmt"
	"math/rand"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
)

// BenchmarkResult 벤치마크 결과를 저장하는 구조체
type BenchmarkResult struct {
	RunID        string        `json:"run_id"`
	Algorithm    string        `json:"algorithm"`
	DataSize     int           `json:"data_size"`
	StorageType  string        `json:"storage_type"`
	TestRun      int           `json:"test_run"`
	Duration     time.Duration `json:"duration"`
	MemoryUsage  uint64        `json:"memory_usage_bytes"`
	GoroutineNum int           `json:"goroutine_num"`
	Passes       int           `json:"passes"`
	Comparisons  int           `json:"comparisons"`
	Sorted       bool          `json:"sorted"`
}

// SystemStats 시스템 통계를 위한 구조체
type SystemStats struct {
	startTime time.Time
	startMem  runtime.MemStats
	endMem    runtime.MemStats
}

// generateRandomData 고정 시드로 재현 가능한 랜덤 데이터 생성
func generateRandomData(size int, seed int64) []int {
	rng := rand.New(rand.NewSource(seed))

	data := make([]int, size)
	for i := range size {
		data[i] = rng.Intn(1000000)
	}
	return data
}

// writeDataToFile 한 줄에 정수 하나씩 기록
func writeDataToFile(data []int, filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer file.Close()

	// 큰 버퍼 사용으로 I/O 성능 향상
	writer := bufio.NewWriterSize(file, 64*1024) // 64KB 버퍼

	var builder strings.Builder
	builder.Grow(min(len(data), 10000) * 8) // 예상 크기 미리 할당

	for i, num := range data {
		if i > 0 {
			builder.WriteByte('\n')
		}
		builder.WriteString(strconv.Itoa(num))

		// 주기적으로 플러시 (메모리 사용량 제어)
		if i%10000 == 0 {
			writer.WriteString(builder.String())
			builder.Reset()
		}
	}

	// 남은 데이터 쓰기
	if builder.Len() > 0 {
		writer.WriteString(builder.String())
	}

	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s", filename)
	}
	return file.Close()
}

// readDataFromFile 빈 줄은 건너뛰고 정수를 읽는다
func readDataFromFile(filename string) ([]int, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, errors.Wrapf(err, "open %s", filename)
	}
	defer file.Close()

	fileInfo, err := file.Stat()
	if err != nil {
		return nil, errors.Wrapf(err, "stat %s", filename)
	}

	// 대략적인 숫자 개수 추정 (평균 6자리 + 개행)
	data := make([]int, 0, int(fileInfo.Size()/7))

	scanner := bufio.NewScanner(file)
	scanner.Buffer(make([]byte, 64*1024), bufio.MaxScanTokenSize)

	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" {
			continue
		}

		num, err := strconv.Atoi(text)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", filename, line)
		}
		data = append(data, num)
	}

	return data, errors.Wrapf(scanner.Err(), "scan %s", filename)
}

// startStats 성능 측정 시작
func startStats() *SystemStats {
	runtime.GC() // 가비지 컬렉션으로 정확한 측정

	var m runtime.MemStats
	runtime.ReadMemStats(&m)

	return &SystemStats{
		startTime: time.Now(),
		startMem:  m,
	}
}

// endStats 경과 시간과 측정 구간의 누적 할당 바이트
func (s *SystemStats) endStats() (time.Duration, uint64) {
	duration := time.Since(s.startTime)
	runtime.ReadMemStats(&s.endMem)
	return duration, s.endMem.TotalAlloc - s.startMem.TotalAlloc
}

// saveResultsToMarkdown 저장 방식/크기별 표와 평균 요약을 dir/benchmark_results.md에 쓴다
func saveResultsToMarkdown(results []BenchmarkResult, algorithms []string, dir string) error {
	filename := filepath.Join(dir, "benchmark_results.md")
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer file.Close()

	var builder strings.Builder

	builder.WriteString("# 정렬 알고리즘 벤치마크 결과\n\n")
	builder.WriteString(fmt.Sprintf("실행 시간: %s\n", time.Now().Format("2006-01-02 15:04:05")))
	builder.WriteString(fmt.Sprintf("CPU 코어 수: %d\n", runtime.NumCPU()))
	builder.WriteString(fmt.Sprintf("GOMAXPROCS: %d\n\n", runtime.GOMAXPROCS(0)))

	groups := groupResults(results)

	for _, g := range groups {
		builder.WriteString(fmt.Sprintf("## %s - %d개 데이터\n\n", storageName(g.storage), g.size))
		builder.WriteString("| 알고리즘 | 테스트 | 실행시간 | 메모리사용량 | 패스 | 비교횟수 | 고루틴수 | 정렬확인 |\n")
		builder.WriteString("|----------|--------|----------|--------------|------|----------|----------|----------|\n")

		for _, algo := range algorithms {
			for _, r := range lo.Filter(g.results, func(r BenchmarkResult, _ int) bool { return r.Algorithm == algo }) {
				builder.WriteString(fmt.Sprintf("| %s | %d | %v | %d bytes | %d | %d | %d | %s |\n",
					algoName(algo), r.TestRun, r.Duration, r.MemoryUsage,
					r.Passes, r.Comparisons, r.GoroutineNum, lo.Ternary(r.Sorted, "✅", "❌")))
			}
		}
		builder.WriteString("\n")
	}

	builder.WriteString("## 요약 통계\n\n")

	for _, g := range groups {
		builder.WriteString(fmt.Sprintf("### %s - %d개 데이터 평균\n\n", storageName(g.storage), g.size))
		builder.WriteString("| 알고리즘 | 평균 실행시간 | 평균 메모리사용량 |\n")
		builder.WriteString("|----------|---------------|-------------------|\n")

		for _, algo := range algorithms {
			avgDuration, avgMemory, ok := averages(g.results, algo)
			if !ok {
				continue
			}
			builder.WriteString(fmt.Sprintf("| %s | %v | %d bytes |\n", algoName(algo), avgDuration, avgMemory))
		}
		builder.WriteString("\n")
	}

	writer := bufio.NewWriterSize(file, 32*1024)
	if _, err := writer.WriteString(builder.String()); err != nil {
		return errors.Wrapf(err, "write %s", filename)
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s", filename)
	}
	return file.Close()
}

// saveResultsToJSON 들여쓰기 된 JSON 저장
func saveResultsToJSON(results []BenchmarkResult, dir string) error {
	filename := filepath.Join(dir, "benchmark_results.json")
	file, err := os.Create(filename)
	if err != nil {
		return errors.Wrapf(err, "create %s", filename)
	}
	defer file.Close()

	writer := bufio.NewWriterSize(file, 32*1024)
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(results); err != nil {
		return errors.Wrapf(err, "encode %s", filename)
	}
	if err := writer.Flush(); err != nil {
		return errors.Wrapf(err, "flush %s", filename)
	}
	return file.Close()
}

type resultGroup struct {
	storage string
	size    int
	results []BenchmarkResult
}

// groupResults (저장 방식, 크기)로 묶고 크기 순으로 정렬
func groupResults(results []BenchmarkResult) []resultGroup {
	type groupKey struct {
		storage string
		size    int
	}
	byKey := lo.GroupBy(results, func(r BenchmarkResult) groupKey {
		return groupKey{storage: r.StorageType, size: r.DataSize}
	})

	groups := lo.MapToSlice(byKey, func(k groupKey, rs []BenchmarkResult) resultGroup {
		return resultGroup{storage: k.storage, size: k.size, results: rs}
	})
	slices.SortFunc(groups, func(a, b resultGroup) int {
		return cmp.Or(cmp.Compare(a.size, b.size), cmp.Compare(a.storage, b.storage))
	})
	return groups
}

func averages(results []BenchmarkResult, algo string) (time.Duration, uint64, bool) {
	rs := lo.Filter(results, func(r BenchmarkResult, _ int) bool { return r.Algorithm == algo })
	if len(rs) == 0 {
		return 0, 0, false
	}
	totalDuration := lo.SumBy(rs, func(r BenchmarkResult) time.Duration { return r.Duration })
	totalMemory := lo.SumBy(rs, func(r BenchmarkResult) uint64 { return r.MemoryUsage })
	return totalDuration / time.Duration(len(rs)), totalMemory / uint64(len(rs)), true
}

var algoNames = map[string]string{
	algoMergeSort:      "머지소트",
	algoMergeSortReuse: "머지소트(버퍼재사용)",
	algoParallelMerge:  "병렬머지소트",
	algoStdlib:         "표준라이브러리",
}

var storageNames = map[string]string{
	storageMemory: "인메모리",
	storageFile:   "파일",
	storageKVDB:   "키값저장소",
}

func algoName(algo string) string {
	if name, ok := algoNames[algo]; ok {
		return name
	}
	return algo
}

func storageName(storage string) string {
	if name, ok := storageNames[storage]; ok {
		return name
	}
	return storage
}
