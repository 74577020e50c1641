package kvdb

import (
	"crypto/rand"
	"math"

	"github.com/cespare/xxhash/v2"
	"github.com/cockroachdb/errors"
)

// bloomFilter 없는 키 조회를 저장소까지 보내지 않기 위한 블룸 필터
type bloomFilter struct {
	bitArray []uint64
	size     uint64
	numHash  uint
	numItems uint64
	seed     [8]byte
}

func newBloomFilter(expectedItems uint64, falsePositiveRate float64) *bloomFilter {
	expectedItems = max(expectedItems, 1)
	size := max(uint64(-float64(expectedItems)*math.Log(falsePositiveRate)/(math.Ln2*math.Ln2)), 64)
	numHash := min(max(uint(float64(size)/float64(expectedItems)*math.Ln2), 1), 15)

	bf := &bloomFilter{
		bitArray: make([]uint64, (size+63)/64),
		size:     size,
		numHash:  numHash,
	}
	rand.Read(bf.seed[:])
	return bf
}

// hashes 이중 해싱의 두 기본값. h2는 홀수로 맞춘다.
func (bf *bloomFilter) hashes(data []byte) (uint64, uint64) {
	d := xxhash.New()
	d.Write(bf.seed[:])
	d.Write(data)
	h1 := d.Sum64()

	h2 := h1>>17 ^ h1<<47 | 1
	return h1, h2
}

func (bf *bloomFilter) add(data []byte) {
	h1, h2 := bf.hashes(data)
	for i := uint64(0); i < uint64(bf.numHash); i++ {
		pos := (h1 + i*h2) % bf.size
		bf.bitArray[pos/64] |= 1 << (pos % 64)
	}
	bf.numItems++
}

func (bf *bloomFilter) contains(data []byte) bool {
	h1, h2 := bf.hashes(data)
	for i := uint64(0); i < uint64(bf.numHash); i++ {
		pos := (h1 + i*h2) % bf.size
		if bf.bitArray[pos/64]&(1<<(pos%64)) == 0 {
			return false
		}
	}
	return true
}

// filteredStore Get 앞단에 블룸 필터를 둔 Store. 동시 사용은 안전하지 않다.
type filteredStore struct {
	Store
	filter *bloomFilter
}

// WithBloomFilter st의 기존 키로 필터를 채운 뒤, 필터에 없는 키는 저장소 조회 없이 ErrNotFound를 반환한다.
// falsePositiveRate는 (0, 1) 구간이어야 한다.
func WithBloomFilter(st Store, expectedItems uint64, falsePositiveRate float64) (Store, error) {
	if !(falsePositiveRate > 0 && falsePositiveRate < 1) {
		return nil, errors.Newf("kvdb: bloom filter false positive rate %v out of (0, 1)", falsePositiveRate)
	}
	filter := newBloomFilter(expectedItems, falsePositiveRate)
	err := st.Scan(nil, func(key, _ []byte) error {
		filter.add(key)
		return nil
	})
	if err != nil {
		return nil, err
	}
	return &filteredStore{Store: st, filter: filter}, nil
}

func (s *filteredStore) Put(key, value []byte) error {
	if err := s.Store.Put(key, value); err != nil {
		return err
	}
	s.filter.add(key)
	return nil
}

func (s *filteredStore) PutBatch(kvs []KV) error {
	if err := s.Store.PutBatch(kvs); err != nil {
		return err
	}
	for _, kv := range kvs {
		s.filter.add(kv.Key)
	}
	return nil
}

func (s *filteredStore) Get(key []byte) ([]byte, error) {
	if !s.filter.contains(key) {
		return nil, ErrNotFound
	}
	return s.Store.Get(key)
}
