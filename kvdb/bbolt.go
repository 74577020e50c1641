package kvdb

import (
	"bytes"
	"time"

	"github.com/cockroachdb/errors"
	"go.etcd.io/bbolt"
)

type bboltStore struct {
	db *bbolt.DB
}

func openBbolt(path string) (*bboltStore, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, errors.Wrapf(err, "open bbolt %s", path)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists([]byte(bucketName))
		return err
	})
	if err != nil {
		db.Close()
		return nil, errors.Wrap(err, "create bbolt bucket")
	}
	return &bboltStore{db: db}, nil
}

func (s *bboltStore) Put(key, value []byte) error {
	return s.PutBatch([]KV{{Key: key, Value: value}})
}

func (s *bboltStore) PutBatch(kvs []KV) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))
		for _, kv := range kvs {
			if err := b.Put(kv.Key, kv.Value); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "bbolt put")
}

func (s *bboltStore) Get(key []byte) ([]byte, error) {
	var val []byte
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket([]byte(bucketName)).Get(key)
		if v == nil {
			return ErrNotFound
		}
		// 트랜잭션 밖에서는 v가 무효하므로 복사
		val = append([]byte(nil), v...)
		return nil
	})
	return val, err
}

func (s *bboltStore) Scan(prefix []byte, fn func(key, value []byte) error) error {
	return s.db.View(func(tx *bbolt.Tx) error {
		c := tx.Bucket([]byte(bucketName)).Cursor()
		for k, v := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, v = c.Next() {
			if err := fn(k, v); err != nil {
				return err
			}
		}
		return nil
	})
}

func (s *bboltStore) DeletePrefix(prefix []byte) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket([]byte(bucketName))

		// 커서 순회 중 삭제하면 키를 건너뛸 수 있어 먼저 모은다
		var keys [][]byte
		c := b.Cursor()
		for k, _ := c.Seek(prefix); k != nil && bytes.HasPrefix(k, prefix); k, _ = c.Next() {
			keys = append(keys, append([]byte(nil), k...))
		}
		for _, k := range keys {
			if err := b.Delete(k); err != nil {
				return err
			}
		}
		return nil
	})
	return errors.Wrap(err, "bbolt delete prefix")
}

func (s *bboltStore) Close() error {
	return s.db.Close()
}
