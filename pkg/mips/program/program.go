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
package program

import (
	"fmt"

	"github.com/consensys/go-zkmips/pkg/mips/instruction"
)

// Program is an immutable sequence of decoded instructions, together with the
// address of the first instruction (the base), the address at which execution
// starts and the initial memory image.
type Program struct {
	Instructions []instruction.Instruction
	PcStart      uint32
	PcBase       uint32
	// Image maps word-aligned addresses to their initial values.
	Image map[uint32]uint32
}

// New constructs a program with an empty memory image, where the first
// instruction is located at (and execution starts from) a given address.
func New(instructions []instruction.Instruction, pcStart uint32, pcBase uint32) *Program {
	return &Program{instructions, pcStart, pcBase, make(map[uint32]uint32)}
}

// FromWords decodes a sequence of machine words into a program.  The words are
// also included in the memory image, such that the program text can be read by
// load instructions.
func FromWords(words []uint32, pcStart uint32, pcBase uint32, image map[uint32]uint32) *Program {
	var prog = New(instruction.DecodeAll(words), pcStart, pcBase)
	//
	for addr, value := range image {
		prog.Image[addr] = value
	}
	//
	for i, w := range words {
		prog.Image[pcBase+uint32(i)*4] = w
	}
	//
	return prog
}

// Len returns the number of instructions in this program.
func (p *Program) Len() uint {
	return uint(len(p.Instructions))
}

// Contains checks whether a given program counter falls within the instruction
// range of this program.
func (p *Program) Contains(pc uint32) bool {
	return pc-p.PcBase < uint32(len(p.Instructions))*4
}

// Fetch the instruction at a given program counter.  The program counter must
// be within range, since fetching outside the program is a violation of the
// executor's own invariants.
func (p *Program) Fetch(pc uint32) instruction.Instruction {
	if !p.Contains(pc) {
		panic(fmt.Sprintf("program counter %08x out of range", pc))
	}
	//
	return p.Instructions[(pc-p.PcBase)/4]
}
