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
package event

import (
	"github.com/consensys/go-zkmips/pkg/mips/memory"
	"github.com/consensys/go-zkmips/pkg/mips/program"
	"github.com/consensys/go-zkmips/pkg/mips/shape"
)

// DigestWords is the number of 32bit words in a public digest.
const DigestWords = 8

// PublicValues are the values of a shard which are exposed to the verifier.
type PublicValues struct {
	// Digest of the values committed by the program.
	CommittedValueDigest [DigestWords]uint32
	// Digest of the proofs whose verification was deferred.
	DeferredProofsDigest [DigestWords]uint32
	// Program counter of the first instruction in the shard.
	StartPc uint32
	// Program counter following the last instruction in the shard.
	NextPc uint32
	// Exit code of the last instruction in the shard.
	ExitCode uint32
	// Index of the shard within the overall execution.
	ExecutionShard uint32
}

// ExecutionRecord holds every event produced by a single shard, together with
// its public values.  A record is filled whilst the shard executes, then sealed
// and handed to the caller.  ALU events are collected in a separate ordered
// sequence per opcode category.
type ExecutionRecord struct {
	Program           *program.Program
	CpuEvents         []CpuEvent
	AluEvents         [shape.NumCategories][]AluEvent
	SyscallEvents     []SyscallEvent
	LocalMemoryAccess []memory.LocalEvent
	// Global memory events, only present in the final record.
	MemoryInitializeEvents []memory.InitializeFinalizeEvent
	MemoryFinalizeEvents   []memory.InitializeFinalizeEvent
	PublicValues           PublicValues
}

// NewRecord constructs an empty record for the given program.
func NewRecord(prog *program.Program) *ExecutionRecord {
	return &ExecutionRecord{Program: prog}
}

// AddAluEvent appends an ALU event to the sequence for its category.
func (p *ExecutionRecord) AddAluEvent(ev AluEvent) {
	c, ok := shape.CategoryOf(ev.Opcode)
	//
	if !ok {
		panic("not an alu opcode: " + ev.Opcode.String())
	}
	//
	p.AluEvents[c] = append(p.AluEvents[c], ev)
}

// AluEventsOf returns the ALU events of a given category.
func (p *ExecutionRecord) AluEventsOf(c shape.Category) []AluEvent {
	return p.AluEvents[c]
}

// Counts returns the number of ALU events in each category.
func (p *ExecutionRecord) Counts() shape.Counts {
	var counts shape.Counts
	//
	for c, events := range p.AluEvents {
		counts[c] = uint64(len(events))
	}
	//
	return counts
}

// Stats returns the number of events of each kind, for logging.
func (p *ExecutionRecord) Stats() map[string]int {
	var stats = make(map[string]int)
	//
	stats["cpu_events"] = len(p.CpuEvents)
	stats["syscall_events"] = len(p.SyscallEvents)
	stats["local_memory_access_events"] = len(p.LocalMemoryAccess)
	stats["memory_initialize_events"] = len(p.MemoryInitializeEvents)
	stats["memory_finalize_events"] = len(p.MemoryFinalizeEvents)
	//
	for c, events := range p.AluEvents {
		stats[shape.Category(c).String()+"_events"] = len(events)
	}
	//
	return stats
}
