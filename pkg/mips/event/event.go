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
	"fmt"

	"github.com/consensys/go-zkmips/pkg/mips/memory"
	"github.com/consensys/go-zkmips/pkg/mips/opcode"
)

// AluEvent records a single arithmetic fact "A = B op C" (or "(A, Hi) = B op C"
// for those operations producing a double-width result).  Events are tagged
// with the shard and clock of the cycle which produced them.
type AluEvent struct {
	Shard  uint32
	Clk    uint32
	Opcode opcode.Opcode
	A      uint32
	Hi     uint32
	B      uint32
	C      uint32
}

// NewAluEvent constructs a new ALU event.
func NewAluEvent(shard, clk uint32, op opcode.Opcode, a, hi, b, c uint32) AluEvent {
	return AluEvent{shard, clk, op, a, hi, b, c}
}

func (p AluEvent) String() string {
	if p.Opcode.UsesLoHi() {
		return fmt.Sprintf("%d:%d %s (%08x,%08x) = %08x, %08x", p.Shard, p.Clk, p.Opcode, p.A, p.Hi, p.B, p.C)
	}
	//
	return fmt.Sprintf("%d:%d %s %08x = %08x, %08x", p.Shard, p.Clk, p.Opcode, p.A, p.B, p.C)
}

// AccessRecord holds the memory records produced by a single cycle, one for
// each access position.  Positions which were not accessed are nil.
type AccessRecord struct {
	A      memory.Record
	B      memory.Record
	C      memory.Record
	S1     memory.Record
	S2     memory.Record
	Memory memory.Record
}

// Set the record for a given access position.
func (p *AccessRecord) Set(pos memory.Position, record memory.Record) {
	switch pos {
	case memory.PositionA:
		p.A = record
	case memory.PositionB:
		p.B = record
	case memory.PositionC:
		p.C = record
	case memory.PositionS1:
		p.S1 = record
	case memory.PositionS2:
		p.S2 = record
	case memory.PositionMemory:
		p.Memory = record
	default:
		panic(fmt.Sprintf("invalid access position %d", pos))
	}
}

// CpuEvent records the execution of a single instruction.
type CpuEvent struct {
	Shard      uint32
	Clk        uint32
	Pc         uint32
	NextPc     uint32
	NextNextPc uint32
	Opcode     opcode.Opcode
	A          uint32
	B          uint32
	C          uint32
	// Hi holds the secondary result of LO/HI operations.
	Hi       uint32
	HasHi    bool
	Accesses AccessRecord
	ExitCode uint32
}

// SyscallEvent records the invocation of a system call which is sent to the
// syscall table.
type SyscallEvent struct {
	Shard     uint32
	Clk       uint32
	SyscallID uint32
	Arg1      uint32
	Arg2      uint32
	Nonce     uint32
}
