package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"slices"
	"time"

	"github.com/cockroachdb/errors"
	"go.uber.org/zap"

	"mergebench/kvdb"
	"mergebench/logutil"
	"mergebench/mergesort"
)

// runner 한 번의 벤치마크 실행 상태
type runner struct {
	cfg    *Config
	store  kvdb.Store
	sorter *mergesort.Sorter[int]
	pool   *mergesort.Pool
	runID  string
}

func newRunner(cfg *Config, store kvdb.Store) *runner {
	return &runner{
		cfg:    cfg,
		store:  store,
		sorter: mergesort.NewSorter[int](),
		pool:   mergesort.NewPool(cfg.Bench.Workers),
		runID:  newRunID(time.Now()),
	}
}

func (r *runner) datasetName(size int) string {
	return fmt.Sprintf("%s-%d", r.runID, size)
}

// storageFor FileThreshold 미만은 인메모리, 이상은 설정된 저장 방식
func (r *runner) storageFor(size int) string {
	if size < r.cfg.Bench.FileThreshold {
		return storageMemory
	}
	return r.cfg.Bench.Storage
}

// prepare 크기별 데이터를 만들고 저장 방식에 맞게 기록한다. 반환된 load는 매 실행마다 데이터를 다시 읽는다.
func (r *runner) prepare(size int) (load func() ([]int, error), cleanup func(), err error) {
	data := generateRandomData(size, r.cfg.Bench.Seed)

	switch storage := r.storageFor(size); storage {
	case storageFile:
		filename := filepath.Join(r.cfg.Output.Dir, fmt.Sprintf("test_data_%d.txt", size))
		if err := writeDataToFile(data, filename); err != nil {
			return nil, nil, err
		}
		return func() ([]int, error) { return readDataFromFile(filename) },
			func() { os.Remove(filename) }, nil

	case storageKVDB:
		name := r.datasetName(size)
		if err := kvdb.WriteDataset(r.store, name, data); err != nil {
			return nil, nil, err
		}
		return func() ([]int, error) { return kvdb.ReadDataset(r.store, name) },
			func() {
				if err := kvdb.DeleteDataset(r.store, name); err != nil {
					logutil.Warn("데이터셋 정리 실패", zap.String("dataset", name), zap.Error(err))
				}
			}, nil

	default:
		return func() ([]int, error) { return data, nil }, func() {}, nil
	}
}

// run 크기 × 알고리즘 × 반복 횟수만큼 측정하고 결과를 저장소에 남긴다
func (r *runner) run(ctx context.Context) ([]BenchmarkResult, error) {
	var results []BenchmarkResult

	for _, size := range r.cfg.Bench.Sizes {
		storage := r.storageFor(size)
		fmt.Printf("%d개 데이터 (%s) 테스트 중...\n", size, storageName(storage))

		load, cleanup, err := r.prepare(size)
		if err != nil {
			return results, err
		}

		for _, algo := range r.cfg.Bench.Algorithms {
			for run := 1; run <= r.cfg.Bench.Runs; run++ {
				if err := ctx.Err(); err != nil {
					cleanup()
					return results, err
				}
				fmt.Printf("  %s - 테스트 %d\n", algo, run)

				// 매번 저장소에서 읽기
				data, err := load()
				if err != nil {
					cleanup()
					return results, err
				}

				result := r.runBenchmark(algo, data, storage)
				result.TestRun = run
				if !result.Sorted {
					logutil.Error("정렬 결과 검증 실패",
						zap.String("algorithm", algo), zap.Int("size", size), zap.Int("run", run))
				}

				key := fmt.Sprintf("%s/%s/%010d/%s/%d", r.runID, storage, size, algo, run)
				if err := kvdb.PutResult(r.store, key, result); err != nil {
					cleanup()
					return results, err
				}
				results = append(results, result)
			}
		}
		cleanup()
	}

	return results, nil
}

// newRunID 같은 초에 시작한 실행끼리도 겹치지 않도록 마이크로초까지 쓴다
func newRunID(t time.Time) string {
	return t.Format("20060102T150405.000000")
}

// runBenchmark 데이터 복사본을 정렬하며 시간/메모리를 잰다
func (r *runner) runBenchmark(algorithm string, data []int, storage string) BenchmarkResult {
	result := BenchmarkResult{
		RunID:        r.runID,
		Algorithm:    algorithm,
		DataSize:     len(data),
		StorageType:  storage,
		GoroutineNum: runtime.NumGoroutine(),
	}

	testData := make([]int, len(data))
	copy(testData, data)

	stats := startStats()

	switch algorithm {
	case algoMergeSort:
		mergesort.Sort(testData)
	case algoMergeSortReuse:
		r.sorter.Sort(testData)
		s := r.sorter.Stats()
		result.Passes, result.Comparisons = s.Passes, s.Comparisons
	case algoParallelMerge:
		mergesort.ParallelSort(testData, r.pool)
	case algoStdlib:
		slices.Sort(testData)
	}

	result.Duration, result.MemoryUsage = stats.endStats()
	result.Sorted = slices.IsSorted(testData)

	logutil.Debug("벤치마크 측정",
		zap.String("algorithm", algorithm),
		zap.Int("size", len(data)),
		zap.String("storage", storage),
		zap.Duration("duration", result.Duration),
		zap.Uint64("memory", result.MemoryUsage))
	return result
}

// runBench run 명령 본체
func runBench(ctx context.Context, cfg *Config) error {
	if err := os.MkdirAll(cfg.Output.Dir, 0755); err != nil {
		return errors.Wrapf(err, "output dir %s", cfg.Output.Dir)
	}

	engine, err := kvdb.ParseEngine(cfg.Store.Engine)
	if err != nil {
		return err
	}
	store, err := kvdb.Open(engine, cfg.Store.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	fmt.Println("정렬 알고리즘 벤치마크 시작...")
	fmt.Printf("CPU 코어 수: %d\n", runtime.NumCPU())
	fmt.Printf("GOMAXPROCS: %d\n\n", runtime.GOMAXPROCS(0))

	r := newRunner(cfg, store)
	logutil.Info("벤치마크 시작",
		zap.String("run_id", r.runID),
		zap.Ints("sizes", cfg.Bench.Sizes),
		zap.Strings("algorithms", cfg.Bench.Algorithms),
		zap.String("engine", string(engine)))

	results, err := r.run(ctx)
	if err != nil {
		return errors.Wrapf(err, "run %s", r.runID)
	}

	fmt.Println("결과 저장 중...")
	if err := saveResultsToMarkdown(results, cfg.Bench.Algorithms, cfg.Output.Dir); err != nil {
		return err
	}
	fmt.Println("benchmark_results.md 파일이 생성되었습니다.")
	if err := saveResultsToJSON(results, cfg.Output.Dir); err != nil {
		return err
	}
	fmt.Println("benchmark_results.json 파일이 생성되었습니다.")

	fmt.Println("벤치마크 완료!")
	logutil.Info("벤치마크 완료", zap.String("run_id", r.runID), zap.Int("results", len(results)))
	return nil
}
