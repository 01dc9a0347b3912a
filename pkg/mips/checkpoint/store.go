// Copyright Consensys Software Inc.
//
// Licensed under the Apache License, Version 2.0 (the "License"); you may not use this file except in compliance with
// the License. You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software distributed under the License is distributed on
// an "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied. See the License for the
// specific language governing permissions and limitations under the License.
//
// SPDX-License-Identifier: Apache-2.0
package checkpoint

import (
	"encoding"
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"github.com/syndtr/goleveldb/leveldb"
	"github.com/syndtr/goleveldb/leveldb/storage"
	"github.com/syndtr/goleveldb/leveldb/util"
)

// keyLength is the length of a key, being a run identifier followed by a batch
// index.
const keyLength = 16 + 4

// Store persists the checkpoints of one or more executions, such that any
// batch of an execution can later be replayed.  Checkpoints are keyed by the
// identifier of the run which produced them, and the index of their batch.
type Store struct {
	db *leveldb.DB
}

// Open a store backed by a database in a given directory, creating it as
// necessary.  An empty path gives a store held entirely in memory.
func Open(path string) (*Store, error) {
	var (
		db  *leveldb.DB
		err error
	)
	//
	if path == "" {
		db, err = leveldb.Open(storage.NewMemStorage(), nil)
	} else {
		db, err = leveldb.OpenFile(path, nil)
	}
	//
	if err != nil {
		return nil, fmt.Errorf("opening checkpoint store %q: %w", path, err)
	}
	//
	return &Store{db}, nil
}

// Put stores the checkpoint of a given batch, replacing any checkpoint already
// stored for that batch.
func (p *Store) Put(run uuid.UUID, batch uint32, checkpoint encoding.BinaryMarshaler) error {
	bytes, err := checkpoint.MarshalBinary()
	//
	if err != nil {
		return fmt.Errorf("encoding checkpoint %d: %w", batch, err)
	}
	//
	log.Debugf("storing checkpoint %d of run %s (%d bytes)", batch, run, len(bytes))
	//
	return p.db.Put(key(run, batch), bytes, nil)
}

// Get reads the checkpoint of a given batch into the given target, returning
// false if no such checkpoint exists.
func (p *Store) Get(run uuid.UUID, batch uint32, checkpoint encoding.BinaryUnmarshaler) (bool, error) {
	bytes, err := p.db.Get(key(run, batch), nil)
	//
	if errors.Is(err, leveldb.ErrNotFound) {
		return false, nil
	} else if err != nil {
		return false, fmt.Errorf("reading checkpoint %d of run %s: %w", batch, run, err)
	}
	//
	if err := checkpoint.UnmarshalBinary(bytes); err != nil {
		return false, fmt.Errorf("decoding checkpoint %d of run %s: %w", batch, run, err)
	}
	//
	return true, nil
}

// Batches returns the indices of all checkpoints stored for a given run, in
// ascending order.
func (p *Store) Batches(run uuid.UUID) ([]uint32, error) {
	var (
		batches []uint32
		iter    = p.db.NewIterator(util.BytesPrefix(run[:]), nil)
	)
	//
	defer iter.Release()
	//
	for iter.Next() {
		if k := iter.Key(); len(k) == keyLength {
			batches = append(batches, binary.BigEndian.Uint32(k[16:]))
		}
	}
	//
	return batches, iter.Error()
}

// Delete removes every checkpoint of a given run.
func (p *Store) Delete(run uuid.UUID) error {
	var (
		batch = new(leveldb.Batch)
		iter  = p.db.NewIterator(util.BytesPrefix(run[:]), nil)
	)
	//
	for iter.Next() {
		batch.Delete(append([]byte(nil), iter.Key()...))
	}
	//
	iter.Release()
	//
	if err := iter.Error(); err != nil {
		return err
	}
	//
	return p.db.Write(batch, nil)
}

// Close the underlying database.
func (p *Store) Close() error {
	return p.db.Close()
}

// key orders checkpoints of the same run by batch index.
func key(run uuid.UUID, batch uint32) []byte {
	var k = make([]byte, keyLength)
	//
	copy(k, run[:])
	binary.BigEndian.PutUint32(k[16:], batch)
	//
	return k
}
