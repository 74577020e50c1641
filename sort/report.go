package main

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/samber/lo"

	"mergebench/kvdb"
)

// listResults 저장소에 쌓인 결과를 표로 출력한다. runID가 비어 있지 않으면 그 실행만.
func listResults(w io.Writer, cfg *Config, runID string) error {
	engine, err := kvdb.ParseEngine(cfg.Store.Engine)
	if err != nil {
		return err
	}
	store, err := kvdb.Open(engine, cfg.Store.Path)
	if err != nil {
		return err
	}
	defer store.Close()

	results, err := kvdb.ScanResults[BenchmarkResult](store)
	if err != nil {
		return err
	}
	if runID != "" {
		results = lo.Filter(results, func(r BenchmarkResult, _ int) bool { return r.RunID == runID })
	}
	printBenchmarkResults(w, results)
	return nil
}

func printBenchmarkResults(w io.Writer, results []BenchmarkResult) {
	if len(results) == 0 {
		fmt.Fprintln(w, "저장된 결과가 없습니다.")
		return
	}
	line := strings.Repeat("=", 116)
	fmt.Fprintln(w, line)
	fmt.Fprintf(w, "%-22s | %-20s | %-8s | %-10s | %-4s | %-14s | %-14s | %-6s\n",
		"실행 ID", "알고리즘", "저장", "크기", "회차", "실행시간", "메모리", "정렬")
	fmt.Fprintln(w, strings.Repeat("-", 116))
	for _, r := range results {
		fmt.Fprintf(w, "%-22s | %-20s | %-8s | %-10d | %-4d | %-14v | %-14d | %-6t\n",
			r.RunID, r.Algorithm, r.StorageType, r.DataSize, r.TestRun,
			r.Duration.Round(time.Microsecond), r.MemoryUsage, r.Sorted)
	}
	fmt.Fprintln(w, line)
}

// runStoreBench 각 엔진에 size개 데이터셋을 쓰고 읽는 시간을 비교한다
func runStoreBench(w io.Writer, cfg *Config, size, probes int) error {
	dir, err := os.MkdirTemp("", "sortbench-kvdb-")
	if err != nil {
		return err
	}
	defer os.RemoveAll(dir)

	data := generateRandomData(size, cfg.Bench.Seed)
	results := make([]kvdb.BenchResult, 0, len(kvdb.Engines))
	for _, engine := range kvdb.Engines {
		fmt.Fprintf(w, "\n--- %s 벤치마크 시작 ---\n", engine)
		res, err := kvdb.Bench(engine, dir, data, probes)
		if err != nil {
			return err
		}
		results = append(results, res)
	}
	printStoreResults(w, results)
	return nil
}

func printStoreResults(w io.Writer, results []kvdb.BenchResult) {
	fmt.Fprintln(w, "\n\n--- 최종 벤치마크 결과 ---")
	fmt.Fprintln(w, strings.Repeat("=", 100))

	row := func(label string, cell func(r kvdb.BenchResult) string) {
		fmt.Fprintf(w, "%-28s", label)
		for _, r := range results {
			fmt.Fprintf(w, " | %-18s", cell(r))
		}
		fmt.Fprintln(w)
	}

	row("항목", func(r kvdb.BenchResult) string { return string(r.Engine) })
	fmt.Fprintln(w, strings.Repeat("-", 100))
	row("저장 시간", func(r kvdb.BenchResult) string { return r.WriteTime.Round(time.Millisecond).String() })
	row("저장 공간", func(r kvdb.BenchResult) string { return fmt.Sprintf("%.2f MB", float64(r.DBSize)/1024/1024) })
	row("데이터셋 로드", func(r kvdb.BenchResult) string { return r.LoadTime.Round(time.Microsecond).String() })
	row("임의 읽기 (있는 데이터)", func(r kvdb.BenchResult) string { return r.RandomReadTime.Round(time.Microsecond).String() })
	row("임의 읽기 (없는 데이터)", func(r kvdb.BenchResult) string { return r.MissTime.Round(time.Microsecond).String() })
	row("블룸 필터 (없는 데이터)", func(r kvdb.BenchResult) string { return r.FilteredMissTime.Round(time.Microsecond).String() })
	fmt.Fprintln(w, strings.Repeat("=", 100))
}
