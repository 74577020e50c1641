package kvdb

import (
	"math/rand"
	"os"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
)

// BenchResult 엔진별 데이터셋 저장/로드 측정값
type BenchResult struct {
	Engine         Engine        `json:"engine"`
	Items          int           `json:"items"`
	WriteTime      time.Duration `json:"write_time"`
	DBSize         int64         `json:"db_size_bytes"`
	LoadTime       time.Duration `json:"load_time"`
	RandomReadTime time.Duration `json:"random_read_time"`
	MissTime       time.Duration `json:"miss_time"`
	// FilteredMissTime 블룸 필터를 앞에 둔 없는 키 조회
	FilteredMissTime time.Duration `json:"filtered_miss_time"`
}

// EnginePath dir 안에서 engine이 사용할 경로
func EnginePath(engine Engine, dir string) string {
	if engine == EngineBbolt {
		return filepath.Join(dir, string(engine)+".db")
	}
	return filepath.Join(dir, string(engine))
}

// Bench engine에 data를 데이터셋으로 쓰고 다시 읽는 시간을 잰다.
// probes개의 임의 키 조회와 없는 키 조회 시간도 함께 측정한다.
func Bench(engine Engine, dir string, data []int, probes int) (BenchResult, error) {
	const name = "bench"
	path := EnginePath(engine, dir)
	os.RemoveAll(path)
	defer os.RemoveAll(path)

	result := BenchResult{Engine: engine, Items: len(data)}

	start := time.Now()
	st, err := Open(engine, path)
	if err != nil {
		return result, err
	}
	if err := WriteDataset(st, name, data); err != nil {
		st.Close()
		return result, err
	}
	if err := st.Close(); err != nil {
		return result, errors.Wrapf(err, "close %s", engine)
	}
	result.WriteTime = time.Since(start)

	if result.DBSize, err = DirSize(path); err != nil {
		return result, err
	}

	st, err = Open(engine, path)
	if err != nil {
		return result, err
	}
	defer st.Close()

	start = time.Now()
	loaded, err := ReadDataset(st, name)
	if err != nil {
		return result, err
	}
	result.LoadTime = time.Since(start)
	if len(loaded) != len(data) {
		return result, errors.Newf("kvdb: %s loaded %d of %d elements", engine, len(loaded), len(data))
	}

	if len(data) == 0 || probes <= 0 {
		return result, nil
	}

	rng := rand.New(rand.NewSource(42))
	start = time.Now()
	for range probes {
		if _, err := st.Get(datasetKey(name, rng.Intn(len(data)))); err != nil {
			return result, errors.Wrapf(err, "%s random read", engine)
		}
	}
	result.RandomReadTime = time.Since(start)

	start = time.Now()
	for i := range probes {
		if _, err := st.Get(datasetKey(name, len(data)+i)); !errors.Is(err, ErrNotFound) {
			return result, errors.Newf("kvdb: %s expected miss, got %v", engine, err)
		}
	}
	result.MissTime = time.Since(start)

	filtered, err := WithBloomFilter(st, uint64(len(data))+1, 0.01)
	if err != nil {
		return result, err
	}
	start = time.Now()
	for i := range probes {
		if _, err := filtered.Get(datasetKey(name, len(data)+i)); !errors.Is(err, ErrNotFound) {
			return result, errors.Newf("kvdb: %s expected filtered miss, got %v", engine, err)
		}
	}
	result.FilteredMissTime = time.Since(start)

	return result, nil
}
