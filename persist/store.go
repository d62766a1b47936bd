// Copyright (c) 2024 redis-hnsw Contributors
//
// Permission is hereby granted, free of charge, to any person
// obtaining a copy of this software and associated documentation
// files (the "Software"), to deal in the Software without
// restriction, including without limitation the rights to use,
// copy, modify, merge, publish, distribute, sublicense, and/or sell
// copies of the Software, and to permit persons to whom the
// Software is furnished to do so, subject to the following
// conditions:
//
// The above copyright notice and this permission notice shall be
// included in all copies or substantial portions of the Software.
//
// THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND,
// EXPRESS OR IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES
// OF MERCHANTABILITY, FITNESS FOR A PARTICULAR PURPOSE AND
// NONINFRINGEMENT. IN NO EVENT SHALL THE AUTHORS OR COPYRIGHT
// HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER LIABILITY,
// WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING
// FROM, OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR
// OTHER DEALINGS IN THE SOFTWARE.

// Package persist is an optional on-disk durability sink for hnsw.Index
// snapshots. A host embedding this module needs *something* to checkpoint Serialize() blobs
// to between restarts, and LevelDB is a natural fit for exactly this kind
// of durable key/value checkpoint.
//
// The graph itself never becomes disk-resident: Store only ever holds
// complete snapshot blobs keyed by index name, produced by
// (*hnsw.Index).Serialize and consumed by hnsw.Deserialize. A host loads
// every index back into memory at startup and serves all reads and writes
// out of memory afterward.
package persist

import (
	"errors"

	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/opt"
)

// ErrNotFound is returned when no snapshot is stored under the requested
// index name.
var ErrNotFound = errors.New("persist: not found")

const keyPrefix = "hnsw-index::"

// Store wraps a LevelDB database as a name -> snapshot-blob checkpoint.
type Store struct {
	db *leveldb.DB
}

// Open opens (creating if necessary) a LevelDB database at path.
func Open(path string) (*Store, error) {
	db, err := leveldb.OpenFile(path, &opt.Options{})
	if err != nil {
		return nil, err
	}
	return &Store{db: db}, nil
}

// Close releases the underlying LevelDB handle.
func (s *Store) Close() error { return s.db.Close() }

// key builds the LevelDB key for an index name: a fixed prefix plus the
// raw name, so index names with arbitrary bytes are never confused with
// the store's own bookkeeping keys.
func key(name string) []byte {
	return append([]byte(keyPrefix), name...)
}

// Save checkpoints blob (the output of (*hnsw.Index).Serialize) under name,
// overwriting any snapshot already stored there.
func (s *Store) Save(name string, blob []byte) error {
	return s.db.Put(key(name), blob, nil)
}

// Load returns the most recently saved snapshot blob for name, suitable
// for hnsw.Deserialize. Returns ErrNotFound if nothing was ever saved
// under that name.
func (s *Store) Load(name string) ([]byte, error) {
	v, err := s.db.Get(key(name), nil)
	if err == leveldb.ErrNotFound {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return v, nil
}

// Delete removes any snapshot stored under name. Not an error if none
// exists.
func (s *Store) Delete(name string) error {
	return s.db.Delete(key(name), nil)
}

// Names returns every index name with a stored snapshot.
func (s *Store) Names() ([]string, error) {
	iter := s.db.NewIterator(nil, nil)
	defer iter.Release()

	var names []string
	prefix := []byte(keyPrefix)
	for iter.Next() {
		k := iter.Key()
		if len(k) < len(prefix) {
			continue
		}
		match := true
		for i := range prefix {
			if k[i] != prefix[i] {
				match = false
				break
			}
		}
		if !match {
			continue
		}
		names = append(names, string(k[len(prefix):]))
	}
	return names, iter.Error()
}
