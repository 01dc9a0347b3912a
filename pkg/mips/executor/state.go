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
	"github.com/consensys/go-zkmips/pkg/mips/digest"
	"github.com/consensys/go-zkmips/pkg/mips/event"
	"github.com/consensys/go-zkmips/pkg/mips/memory"
	"github.com/consensys/go-zkmips/pkg/mips/syscall"
)

// Mode determines what an executor produces.
type Mode uint8

const (
	// Simple mode executes the program without producing any events.
	Simple Mode = iota
	// CheckpointMode records only what is needed to replay a batch of shards.
	CheckpointMode
	// Trace mode records every event.
	Trace
)

func (p Mode) String() string {
	switch p {
	case Simple:
		return "simple"
	case CheckpointMode:
		return "checkpoint"
	case Trace:
		return "trace"
	default:
		return "unknown"
	}
}

// State is the complete state of an executing program.  This is everything
// needed to resume execution (given the program itself).
type State struct {
	// Number of cycles executed so far.
	GlobalClk uint64
	// Index of the current shard.
	CurrentShard uint32
	// Clock within the current shard.
	Clk uint32
	// Program counter of the next instruction to execute.
	Pc uint32
	// Program counter following the next instruction (i.e. of its delay slot).
	NextPc uint32
	// Versioned memory, including registers.
	Memory *memory.Paged[memory.Cell]
	// Initial values of addresses which have not yet been accessed.
	UninitializedMemory *memory.Paged[uint32]
	// Hints available to the program.
	InputStream    [][]byte
	InputStreamPtr int
	// Deferred proofs available to the program.
	ProofStream    [][]byte
	ProofStreamPtr int
	// Bytes written to the public values descriptor.
	PublicValuesStream []byte
	// Indicates the program halted.
	Exited bool
	// Exit code of the program.
	ExitCode uint32
	// Number of invocations of each system call, used for nonces.
	SyscallCounts map[syscall.Code]uint64
	// Digests committed by the program.
	CommittedValueDigest [event.DigestWords]uint32
	DeferredProofsDigest [event.DigestWords]uint32
	// Accumulator of verified deferred proofs.
	Deferred digest.Accumulator
}

// NewState constructs the initial state for a program starting at a given
// program counter.
func NewState(pcStart uint32) *State {
	return &State{
		Pc:                  pcStart,
		NextPc:              pcStart + 4,
		CurrentShard:        1,
		Memory:              memory.NewPaged[memory.Cell](),
		UninitializedMemory: memory.NewPaged[uint32](),
		SyscallCounts:       make(map[syscall.Code]uint64),
	}
}

// shallowClone copies this state, except for its memory.
func (p *State) shallowClone() *State {
	var clone = *p
	//
	clone.Memory = nil
	clone.UninitializedMemory = nil
	clone.InputStream = cloneBuffers(p.InputStream)
	clone.ProofStream = cloneBuffers(p.ProofStream)
	clone.PublicValuesStream = append([]byte(nil), p.PublicValuesStream...)
	clone.SyscallCounts = make(map[syscall.Code]uint64, len(p.SyscallCounts))
	//
	for code, n := range p.SyscallCounts {
		clone.SyscallCounts[code] = n
	}
	//
	return &clone
}

func cloneBuffers(buffers [][]byte) [][]byte {
	if buffers == nil {
		return nil
	}
	//
	return append([][]byte(nil), buffers...)
}

// savedCell is the state of an address at some earlier point, which may have
// been vacant.
type savedCell struct {
	cell    memory.Cell
	present bool
}

// forkState holds everything needed to roll back an unconstrained scope.
type forkState struct {
	globalClk uint64
	clk       uint32
	pc        uint32
	nextPc    uint32
	// Pre-image of every address modified within the scope.
	memoryDiff *memory.Paged[savedCell]
	record     *event.ExecutionRecord
	accesses   event.AccessRecord
	mode       Mode
}
