// Package kvdb 벤치마크 데이터셋과 결과를 저장하는 키-값 저장소.
// bbolt, BadgerDB, PebbleDB 세 엔진을 같은 Store 인터페이스로 감싼다.
package kvdb

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/cockroachdb/errors"
)

var (
	// ErrNotFound 키가 없을 때
	ErrNotFound = errors.New("kvdb: key not found")
	// ErrUnknownEngine 지원하지 않는 엔진 이름
	ErrUnknownEngine = errors.New("kvdb: unknown engine")
)

// Engine 저장소 엔진 종류
type Engine string

const (
	EngineBbolt  Engine = "bbolt"
	EngineBadger Engine = "badger"
	EnginePebble Engine = "pebble"

	bucketName = "benchmark"
)

// Engines 지원 엔진 목록
var Engines = []Engine{EngineBbolt, EngineBadger, EnginePebble}

// KV 배치 쓰기 한 건
type KV struct {
	Key   []byte
	Value []byte
}

// Store 엔진 공통 인터페이스
type Store interface {
	Put(key, value []byte) error
	PutBatch(kvs []KV) error
	// Get 값의 복사본을 반환한다. 키가 없으면 ErrNotFound.
	Get(key []byte) ([]byte, error)
	// Scan prefix로 시작하는 키를 오름차순으로 순회한다. fn이 에러를 반환하면 즉시 멈추고 그 에러를 반환한다.
	Scan(prefix []byte, fn func(key, value []byte) error) error
	// DeletePrefix prefix로 시작하는 키를 모두 지운다
	DeletePrefix(prefix []byte) error
	Close() error
}

// ParseEngine 문자열을 Engine으로 변환
func ParseEngine(name string) (Engine, error) {
	e := Engine(strings.ToLower(strings.TrimSpace(name)))
	switch e {
	case EngineBbolt, EngineBadger, EnginePebble:
		return e, nil
	}
	return "", errors.Wrapf(ErrUnknownEngine, "%q", name)
}

// Open path에 engine 저장소를 연다. bbolt는 파일, 나머지는 디렉터리를 사용한다.
func Open(engine Engine, path string) (Store, error) {
	switch engine {
	case EngineBbolt:
		return openBbolt(path)
	case EngineBadger:
		return openBadger(path)
	case EnginePebble:
		return openPebble(path)
	}
	return nil, errors.Wrapf(ErrUnknownEngine, "%q", engine)
}

// prefixUpperBound prefix로 시작하는 모든 키보다 큰 최소 키. 없으면 nil.
func prefixUpperBound(prefix []byte) []byte {
	end := append([]byte(nil), prefix...)
	for i := len(end) - 1; i >= 0; i-- {
		if end[i] < 0xff {
			end[i]++
			return end[:i+1]
		}
	}
	return nil
}

// DirSize 파일 또는 디렉터리의 디스크 사용량
func DirSize(path string) (int64, error) {
	var size int64
	err := filepath.Walk(path, func(_ string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if !info.IsDir() {
			size += info.Size()
		}
		return nil
	})
	if err != nil {
		return 0, errors.Wrapf(err, "walk %s", path)
	}
	return size, nil
}
