package kvdb

import (
	"github.com/cockroachdb/errors"
	"github.com/cockroachdb/pebble"
)

type pebbleStore struct {
	db *pebble.DB
}

func openPebble(dir string) (*pebbleStore, error) {
	db, err := pebble.Open(dir, &pebble.Options{})
	if err != nil {
		return nil, errors.Wrapf(err, "open pebble %s", dir)
	}
	return &pebbleStore{db: db}, nil
}

func (s *pebbleStore) Put(key, value []byte) error {
	return errors.Wrap(s.db.Set(key, value, pebble.Sync), "pebble put")
}

func (s *pebbleStore) PutBatch(kvs []KV) error {
	batch := s.db.NewBatch()
	defer batch.Close()
	for _, kv := range kvs {
		if err := batch.Set(kv.Key, kv.Value, nil); err != nil {
			return errors.Wrap(err, "pebble batch set")
		}
	}
	return errors.Wrap(batch.Commit(pebble.Sync), "pebble batch commit")
}

func (s *pebbleStore) Get(key []byte) ([]byte, error) {
	val, closer, err := s.db.Get(key)
	if errors.Is(err, pebble.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, errors.Wrap(err, "pebble get")
	}
	defer closer.Close()
	return append([]byte(nil), val...), nil
}

func (s *pebbleStore) Scan(prefix []byte, fn func(key, value []byte) error) error {
	it, err := s.db.NewIter(&pebble.IterOptions{
		LowerBound: prefix,
		UpperBound: prefixUpperBound(prefix),
	})
	if err != nil {
		return errors.Wrap(err, "pebble iter")
	}
	for it.First(); it.Valid(); it.Next() {
		if err := fn(it.Key(), it.Value()); err != nil {
			it.Close()
			return err
		}
	}
	return it.Close()
}

func (s *pebbleStore) DeletePrefix(prefix []byte) error {
	if end := prefixUpperBound(prefix); end != nil {
		return errors.Wrap(s.db.DeleteRange(prefix, end, pebble.Sync), "pebble delete range")
	}

	// 상한이 없는 prefix는 키를 하나씩 지운다
	batch := s.db.NewBatch()
	defer batch.Close()
	err := s.Scan(prefix, func(key, _ []byte) error {
		return batch.Delete(key, nil)
	})
	if err != nil {
		return errors.Wrap(err, "pebble batch delete")
	}
	return errors.Wrap(batch.Commit(pebble.Sync), "pebble batch commit")
}

func (s *pebbleStore) Close() error {
	return s.db.Close()
}
