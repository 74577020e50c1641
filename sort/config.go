package main

import (
	"os"

	"github.com/BurntSushi/toml"
	"github.com/cockroachdb/errors"
	"github.com/samber/lo"
	"github.com/spf13/pflag"

	"mergebench/kvdb"
	"mergebench/logutil"
)

const (
	algoMergeSort      = "mergesort"
	algoMergeSortReuse = "mergesort_reuse"
	algoParallelMerge  = "parallel_mergesort"
	algoStdlib         = "stdlib"

	storageMemory = "memory"
	storageFile   = "file"
	storageKVDB   = "kvdb"
)

var (
	allAlgorithms = []string{algoMergeSort, algoMergeSortReuse, algoParallelMerge, algoStdlib}
	allStorages   = []string{storageMemory, storageFile, storageKVDB}
)

// Config sortbench 설정 (TOML)
type Config struct {
	Bench  BenchConfig       `toml:"bench"`
	Store  StoreConfig       `toml:"store"`
	Output OutputConfig      `toml:"output"`
	Log    logutil.LogConfig `toml:"log"`
}

type BenchConfig struct {
	Sizes      []int    `toml:"sizes"`
	Runs       int      `toml:"runs"`
	Algorithms []string `toml:"algorithms"`
	Seed       int64    `toml:"seed"`
	// FileThreshold 이 크기 이상의 데이터는 Storage 경로(파일/kvdb)를 거친다
	FileThreshold int    `toml:"file_threshold"`
	Storage       string `toml:"storage"`
	Workers       int    `toml:"workers"`
}

type StoreConfig struct {
	Engine string `toml:"engine"`
	Path   string `toml:"path"`
}

type OutputConfig struct {
	Dir string `toml:"dir"`
}

// DefaultConfig 1천/1만개는 인메모리, 10만개는 파일 방식
func DefaultConfig() *Config {
	return &Config{
		Bench: BenchConfig{
			Sizes:         []int{1000, 10000, 100000},
			Runs:          3,
			Algorithms:    append([]string(nil), allAlgorithms...),
			Seed:          42, // 동일한 시드로 일관된 결과
			FileThreshold: 100000,
			Storage:       storageFile,
		},
		Store: StoreConfig{
			Engine: string(kvdb.EngineBbolt),
			Path:   "sortbench.db",
		},
		Output: OutputConfig{Dir: "."},
		Log: logutil.LogConfig{
			Level:      "info",
			Format:     "console",
			MaxSize:    64,
			MaxDays:    7,
			MaxBackups: 3,
		},
	}
}

// LoadConfig 기본값 위에 path의 TOML을 덮어쓴다. path가 비어 있으면 기본값.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	if path == "" {
		return cfg, nil
	}
	if _, err := os.Stat(path); err != nil {
		return nil, errors.Wrapf(err, "config %s", path)
	}
	if _, err := toml.DecodeFile(path, cfg); err != nil {
		return nil, errors.Wrapf(err, "decode config %s", path)
	}
	return cfg, nil
}

// Validate 설정값 검사
func (c *Config) Validate() error {
	if len(c.Bench.Sizes) == 0 {
		return errors.New("bench.sizes is empty")
	}
	if lo.SomeBy(c.Bench.Sizes, func(n int) bool { return n < 0 }) {
		return errors.Newf("bench.sizes must be non-negative: %v", c.Bench.Sizes)
	}
	if c.Bench.Runs <= 0 {
		return errors.Newf("bench.runs must be positive: %d", c.Bench.Runs)
	}
	if len(c.Bench.Algorithms) == 0 {
		return errors.New("bench.algorithms is empty")
	}
	unknown := lo.Filter(c.Bench.Algorithms, func(a string, _ int) bool {
		return !lo.Contains(allAlgorithms, a)
	})
	if len(unknown) > 0 {
		return errors.Newf("unknown algorithms %v (known: %v)", unknown, allAlgorithms)
	}
	if !lo.Contains(allStorages, c.Bench.Storage) {
		return errors.Newf("unknown storage %q (known: %v)", c.Bench.Storage, allStorages)
	}
	if _, err := kvdb.ParseEngine(c.Store.Engine); err != nil {
		return err
	}
	if c.Store.Path == "" {
		return errors.New("store.path is empty")
	}
	return nil
}

// cliFlags 명령줄 플래그. 지정된 플래그만 설정 파일 값을 덮어쓴다.
type cliFlags struct {
	configFile string
	sizes      []int
	runs       int
	algorithms []string
	seed       int64
	storage    string
	workers    int
	engine     string
	storePath  string
	outDir     string
	logLevel   string
}

func (f *cliFlags) registerPersistent(fs *pflag.FlagSet) {
	fs.StringVarP(&f.configFile, "config", "c", "", "TOML 설정 파일")
	fs.StringVar(&f.engine, "engine", "", "저장소 엔진 (bbolt|badger|pebble)")
	fs.StringVar(&f.storePath, "store", "", "저장소 경로")
	fs.StringVar(&f.logLevel, "log-level", "", "로그 레벨")
}

func (f *cliFlags) registerRun(fs *pflag.FlagSet) {
	fs.IntSliceVar(&f.sizes, "sizes", nil, "데이터 크기 목록")
	fs.IntVar(&f.runs, "runs", 0, "크기/알고리즘별 반복 횟수")
	fs.StringSliceVar(&f.algorithms, "algorithms", nil, "실행할 알고리즘")
	fs.Int64Var(&f.seed, "seed", 0, "랜덤 시드")
	fs.StringVar(&f.storage, "storage", "", "큰 데이터의 저장 방식 (memory|file|kvdb)")
	fs.IntVar(&f.workers, "workers", 0, "병렬 머지소트 워커 수 (0이면 CPU 코어 수)")
	fs.StringVarP(&f.outDir, "out", "o", "", "결과 파일 디렉터리")
}

func (f *cliFlags) apply(fs *pflag.FlagSet, cfg *Config) {
	if fs.Changed("sizes") {
		cfg.Bench.Sizes = f.sizes
	}
	if fs.Changed("runs") {
		cfg.Bench.Runs = f.runs
	}
	if fs.Changed("algorithms") {
		cfg.Bench.Algorithms = f.algorithms
	}
	if fs.Changed("seed") {
		cfg.Bench.Seed = f.seed
	}
	if fs.Changed("storage") {
		cfg.Bench.Storage = f.storage
	}
	if fs.Changed("workers") {
		cfg.Bench.Workers = f.workers
	}
	if fs.Changed("engine") {
		cfg.Store.Engine = f.engine
	}
	if fs.Changed("store") {
		cfg.Store.Path = f.storePath
	}
	if fs.Changed("out") {
		cfg.Output.Dir = f.outDir
	}
	if fs.Changed("log-level") {
		cfg.Log.Level = f.logLevel
	}
}
