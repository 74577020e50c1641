package kvdb

import (
	"encoding/binary"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/cockroachdb/errors"
)

const (
	datasetPrefix = "data/"
	metaPrefix    = "meta/"
	resultPrefix  = "result/"

	batchSize = 10000 // 배치당 키 개수
)

func datasetKey(name string, i int) []byte {
	return []byte(fmt.Sprintf("%s%s/%016x", datasetPrefix, name, i))
}

func datasetLenKey(name string) []byte {
	return []byte(metaPrefix + name + "/len")
}

func checkName(name string) error {
	if name == "" || strings.Contains(name, "/") {
		return errors.Newf("kvdb: invalid dataset name %q", name)
	}
	return nil
}

// WriteDataset data를 원소당 키 하나로 저장한다. 값은 8바이트 빅엔디언.
func WriteDataset(st Store, name string, data []int) error {
	if err := checkName(name); err != nil {
		return err
	}

	batch := make([]KV, 0, min(len(data), batchSize))
	for i, v := range data {
		val := make([]byte, 8)
		binary.BigEndian.PutUint64(val, uint64(int64(v)))
		batch = append(batch, KV{Key: datasetKey(name, i), Value: val})

		// 주기적으로 플러시 (메모리 사용량 제어)
		if len(batch) == batchSize {
			if err := st.PutBatch(batch); err != nil {
				return errors.Wrapf(err, "write dataset %s", name)
			}
			batch = batch[:0]
		}
	}
	if len(batch) > 0 {
		if err := st.PutBatch(batch); err != nil {
			return errors.Wrapf(err, "write dataset %s", name)
		}
	}

	n := make([]byte, 8)
	binary.BigEndian.PutUint64(n, uint64(len(data)))
	return st.Put(datasetLenKey(name), n)
}

// ReadDataset WriteDataset으로 저장한 데이터를 원래 순서대로 읽는다.
func ReadDataset(st Store, name string) ([]int, error) {
	if err := checkName(name); err != nil {
		return nil, err
	}

	raw, err := st.Get(datasetLenKey(name))
	if err != nil {
		return nil, errors.Wrapf(err, "dataset %s", name)
	}
	if len(raw) != 8 {
		return nil, errors.Newf("kvdb: corrupt length for dataset %s", name)
	}
	n := int(binary.BigEndian.Uint64(raw))

	data := make([]int, 0, n)
	errDone := errors.New("done")
	err = st.Scan([]byte(datasetPrefix+name+"/"), func(_, value []byte) error {
		if len(data) == n {
			// 이전에 더 긴 데이터셋이 있었던 경우의 잔여 키
			return errDone
		}
		if len(value) != 8 {
			return errors.Newf("kvdb: corrupt element %d in dataset %s", len(data), name)
		}
		data = append(data, int(int64(binary.BigEndian.Uint64(value))))
		return nil
	})
	if err != nil && !errors.Is(err, errDone) {
		return nil, err
	}
	if len(data) != n {
		return nil, errors.Newf("kvdb: dataset %s truncated: %d of %d elements", name, len(data), n)
	}
	return data, nil
}

// DeleteDataset name 데이터셋의 원소 키와 길이 키를 지운다. 없는 데이터셋이면 아무 일도 하지 않는다.
func DeleteDataset(st Store, name string) error {
	if err := checkName(name); err != nil {
		return err
	}
	if err := st.DeletePrefix([]byte(datasetPrefix + name + "/")); err != nil {
		return errors.Wrapf(err, "delete dataset %s", name)
	}
	return errors.Wrapf(st.DeletePrefix(datasetLenKey(name)), "delete dataset %s", name)
}

// PutResult v를 JSON으로 직렬화해 result/ 아래에 저장한다.
func PutResult(st Store, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return errors.Wrapf(err, "marshal result %s", key)
	}
	return st.Put([]byte(resultPrefix+key), raw)
}

// ScanResults result/ 아래 저장된 결과를 키 순서대로 디코딩한다.
func ScanResults[T any](st Store) ([]T, error) {
	var out []T
	err := st.Scan([]byte(resultPrefix), func(key, value []byte) error {
		var v T
		if err := json.Unmarshal(value, &v); err != nil {
			return errors.Wrapf(err, "decode result %s", key)
		}
		out = append(out, v)
		return nil
	})
	return out, err
}
