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
package executor

import (
	"bytes"
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/go-zkmips/pkg/mips/event"
	"github.com/consensys/go-zkmips/pkg/mips/memory"
	"github.com/consensys/go-zkmips/pkg/mips/syscall"
)

// CHECKPOINT_MAJOR_VERSION gives the major version of the checkpoint encoding.
//
//nolint:revive
const CHECKPOINT_MAJOR_VERSION uint16 = 1

// CHECKPOINT_MINOR_VERSION gives the minor version of the checkpoint encoding.
// Older minor versions can be read by newer ones.
//
//nolint:revive
const CHECKPOINT_MINOR_VERSION uint16 = 0

// ZKCHECKPOINT identifies an encoded checkpoint.
var ZKCHECKPOINT = [8]byte{'z', 'k', 'm', 'i', 'p', 's', 'c', 'p'}

// Checkpoint is the state of an executor before some batch of shards was
// executed, from which that batch can be replayed.  Rather than all of memory,
// a checkpoint holds only those addresses touched during the batch (with their
// values as they were before the batch).  The checkpoint of the final batch is
// the exception, since that includes all memory.
type Checkpoint struct {
	State
}

// Batch returns the index of the first shard executed from this checkpoint.
func (p *Checkpoint) Batch() uint32 {
	return p.CurrentShard
}

// MarshalBinary encodes this checkpoint as a fixed header, followed by a gob
// encoding of the state.
func (p *Checkpoint) MarshalBinary() ([]byte, error) {
	var (
		buffer bytes.Buffer
		header [12]byte
	)
	//
	copy(header[:8], ZKCHECKPOINT[:])
	binary.BigEndian.PutUint16(header[8:], CHECKPOINT_MAJOR_VERSION)
	binary.BigEndian.PutUint16(header[10:], CHECKPOINT_MINOR_VERSION)
	buffer.Write(header[:])
	//
	if err := gob.NewEncoder(&buffer).Encode(newCheckpointBody(&p.State)); err != nil {
		return nil, err
	}
	//
	return buffer.Bytes(), nil
}

// UnmarshalBinary decodes a checkpoint produced by MarshalBinary.
func (p *Checkpoint) UnmarshalBinary(data []byte) error {
	var (
		body   checkpointBody
		buffer = bytes.NewBuffer(data)
		header [12]byte
	)
	//
	if n, err := buffer.Read(header[:]); err != nil {
		return err
	} else if n != len(header) || !bytes.Equal(header[:8], ZKCHECKPOINT[:]) {
		return errors.New("malformed checkpoint")
	}
	//
	major := binary.BigEndian.Uint16(header[8:])
	minor := binary.BigEndian.Uint16(header[10:])
	//
	if major != CHECKPOINT_MAJOR_VERSION || minor > CHECKPOINT_MINOR_VERSION {
		return fmt.Errorf("incompatible checkpoint version %d.%d", major, minor)
	}
	//
	if err := gob.NewDecoder(buffer).Decode(&body); err != nil {
		return fmt.Errorf("malformed checkpoint: %w", err)
	}
	//
	p.State = body.state()
	//
	return nil
}

type cellEntry struct {
	Addr uint32
	Cell memory.Cell
}

type wordEntry struct {
	Addr  uint32
	Value uint32
}

// checkpointBody is the flattened form of a state used for encoding.
type checkpointBody struct {
	GlobalClk            uint64
	CurrentShard         uint32
	Clk                  uint32
	Pc                   uint32
	NextPc               uint32
	Memory               []cellEntry
	UninitializedMemory  []wordEntry
	InputStream          [][]byte
	InputStreamPtr       int
	ProofStream          [][]byte
	ProofStreamPtr       int
	PublicValuesStream   []byte
	Exited               bool
	ExitCode             uint32
	SyscallCounts        map[uint32]uint64
	CommittedValueDigest [event.DigestWords]uint32
	DeferredProofsDigest [event.DigestWords]uint32
	Deferred             [fr.Bytes]byte
	DeferredCount        uint
}

func newCheckpointBody(state *State) *checkpointBody {
	var deferred = state.Deferred.Element()
	//
	body := checkpointBody{
		GlobalClk:            state.GlobalClk,
		CurrentShard:         state.CurrentShard,
		Clk:                  state.Clk,
		Pc:                   state.Pc,
		NextPc:               state.NextPc,
		InputStream:          state.InputStream,
		InputStreamPtr:       state.InputStreamPtr,
		ProofStream:          state.ProofStream,
		ProofStreamPtr:       state.ProofStreamPtr,
		PublicValuesStream:   state.PublicValuesStream,
		Exited:               state.Exited,
		ExitCode:             state.ExitCode,
		SyscallCounts:        make(map[uint32]uint64, len(state.SyscallCounts)),
		CommittedValueDigest: state.CommittedValueDigest,
		DeferredProofsDigest: state.DeferredProofsDigest,
		Deferred:             deferred.Bytes(),
		DeferredCount:        state.Deferred.Count(),
	}
	//
	if state.Memory != nil {
		for _, addr := range state.Memory.Keys() {
			cell, _ := state.Memory.Get(addr)
			body.Memory = append(body.Memory, cellEntry{addr, cell})
		}
	}
	//
	if state.UninitializedMemory != nil {
		for _, addr := range state.UninitializedMemory.Keys() {
			value, _ := state.UninitializedMemory.Get(addr)
			body.UninitializedMemory = append(body.UninitializedMemory, wordEntry{addr, value})
		}
	}
	//
	for code, n := range state.SyscallCounts {
		body.SyscallCounts[uint32(code)] = n
	}
	//
	return &body
}

func (p *checkpointBody) state() State {
	var (
		state    = *NewState(p.Pc)
		deferred fr.Element
	)
	//
	state.GlobalClk = p.GlobalClk
	state.CurrentShard = p.CurrentShard
	state.Clk = p.Clk
	state.NextPc = p.NextPc
	state.InputStream = p.InputStream
	state.InputStreamPtr = p.InputStreamPtr
	state.ProofStream = p.ProofStream
	state.ProofStreamPtr = p.ProofStreamPtr
	state.PublicValuesStream = p.PublicValuesStream
	state.Exited = p.Exited
	state.ExitCode = p.ExitCode
	state.CommittedValueDigest = p.CommittedValueDigest
	state.DeferredProofsDigest = p.DeferredProofsDigest
	//
	deferred.SetBytes(p.Deferred[:])
	state.Deferred.Restore(deferred, p.DeferredCount)
	//
	for _, e := range p.Memory {
		state.Memory.Insert(e.Addr, e.Cell)
	}
	//
	for _, e := range p.UninitializedMemory {
		state.UninitializedMemory.Insert(e.Addr, e.Value)
	}
	//
	for code, n := range p.SyscallCounts {
		state.SyscallCounts[syscall.Code(code)] = n
	}
	//
	return state
}
