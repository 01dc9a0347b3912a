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
package instruction

import (
	"fmt"

	"github.com/consensys/go-zkmips/pkg/mips/opcode"
	"github.com/consensys/go-zkmips/pkg/mips/register"
)

// Instruction represents a single decoded machine instruction.  Operand A is
// always a register, whilst operands B and C are either registers or
// immediates (as determined by the corresponding flags).  For example, the
// instruction "ADD x31, x30, 5" is represented with OpA=31, OpB=30, OpC=5,
// ImmB=false and ImmC=true.
type Instruction struct {
	Opcode opcode.Opcode
	OpA    uint8
	OpB    uint32
	OpC    uint32
	ImmB   bool
	ImmC   bool
	// Raw holds the undecoded machine word for instructions which could not be
	// decoded (i.e. UNIMPL), and is zero otherwise.
	Raw uint32
}

// New constructs a new instruction from its operands.
func New(op opcode.Opcode, a uint8, b uint32, c uint32, immB bool, immC bool) Instruction {
	return Instruction{Opcode: op, OpA: a, OpB: b, OpC: c, ImmB: immB, ImmC: immC}
}

// Unimplemented constructs an instruction representing a machine word which
// has no supported decoding.
func Unimplemented(raw uint32) Instruction {
	return Instruction{Opcode: opcode.UNIMPL, ImmB: true, ImmC: true, Raw: raw}
}

// IsBreak checks whether this is an (undecoded) BREAK instruction.
func (p Instruction) IsBreak() bool {
	return p.Opcode == opcode.UNIMPL && p.Raw>>26 == 0 && p.Raw&0x3f == 0x0d
}

// A returns operand A as a register.
func (p Instruction) A() register.Id {
	return register.Id(p.OpA)
}

// B returns operand B as a register.  This is only meaningful when ImmB is
// false.
func (p Instruction) B() register.Id {
	return register.Id(p.OpB)
}

// C returns operand C as a register.  This is only meaningful when ImmC is
// false.
func (p Instruction) C() register.Id {
	return register.Id(p.OpC)
}

// IsALU determines whether this instruction is executed by the arithmetic
// logic unit.
func (p Instruction) IsALU() bool {
	return p.Opcode.IsALU()
}

// IsLoad determines whether this instruction reads from memory.
func (p Instruction) IsLoad() bool {
	return p.Opcode.IsLoad()
}

// IsStore determines whether this instruction writes to memory.
func (p Instruction) IsStore() bool {
	return p.Opcode.IsStore()
}

// IsBranch determines whether this instruction is a conditional branch.
func (p Instruction) IsBranch() bool {
	return p.Opcode.IsBranch()
}

// IsJump determines whether this instruction is an unconditional jump.
func (p Instruction) IsJump() bool {
	return p.Opcode.IsJump()
}

// IsSyscall determines whether this instruction is a system call.
func (p Instruction) IsSyscall() bool {
	return p.Opcode == opcode.SYSCALL
}

func (p Instruction) String() string {
	var (
		a = fmt.Sprintf("%%x%d", p.OpA)
		b = operandString(p.OpB, p.ImmB)
		c = operandString(p.OpC, p.ImmC)
	)
	//
	return fmt.Sprintf("%-10s %-10s %-10s %-10s", p.Opcode.Mnemonic(), a, b, c)
}

func operandString(op uint32, imm bool) string {
	if imm {
		return fmt.Sprintf("%d", int32(op))
	}
	//
	return fmt.Sprintf("%%x%d", op)
}
