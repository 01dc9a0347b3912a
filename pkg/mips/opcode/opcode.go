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
package opcode

import "fmt"

// Opcode identifies the operation performed by a decoded instruction.  Several
// machine encodings collapse onto the same opcode (e.g. ADDU and ADDIU both
// execute as ADD), hence some opcodes are never produced by the decoder.
type Opcode uint8

// Binary operators.
const (
	ADD   Opcode = 0
	ADDU  Opcode = 1
	ADDI  Opcode = 2
	ADDIU Opcode = 3
	SUB   Opcode = 4
	SUBU  Opcode = 5
	MULT  Opcode = 6
	MULTU Opcode = 7
	MUL   Opcode = 8
	DIV   Opcode = 9
	DIVU  Opcode = 10
	SLLV  Opcode = 11
	SRLV  Opcode = 12
	SRAV  Opcode = 13
	SLL   Opcode = 14
	SRL   Opcode = 15
	SRA   Opcode = 16
	SLT   Opcode = 17
	SLTU  Opcode = 18
	SLTI  Opcode = 19
	SLTIU Opcode = 20
	LUI   Opcode = 21
	MFHI  Opcode = 22
	MTHI  Opcode = 23
	MFLO  Opcode = 24
	MTLO  Opcode = 25
	AND   Opcode = 26
	OR    Opcode = 27
	XOR   Opcode = 28
	NOR   Opcode = 29
)

// Branches, conditional moves and memory operations.
const (
	BEQ  Opcode = 30
	BGEZ Opcode = 31
	BGTZ Opcode = 32
	BLEZ Opcode = 33
	BLTZ Opcode = 34
	BNE  Opcode = 35
	MEQ  Opcode = 36
	MNE  Opcode = 37
	LH   Opcode = 38
	LWL  Opcode = 39
	LW   Opcode = 40
	LBU  Opcode = 41
	LHU  Opcode = 42
	LWR  Opcode = 43
	SB   Opcode = 44
	SH   Opcode = 45
	SWL  Opcode = 46
	SW   Opcode = 47
	SWR  Opcode = 48
	LL   Opcode = 49
	SC   Opcode = 50
	LB   Opcode = 51
	SDC1 Opcode = 52
)

// Everything else.
const (
	CLZ        Opcode = 53
	CLO        Opcode = 54
	Jump       Opcode = 55
	Jumpi      Opcode = 56
	JumpDirect Opcode = 57
	NOP        Opcode = 61
	SYSCALL    Opcode = 62
	EXT        Opcode = 63
	INS        Opcode = 64
	MADDU      Opcode = 65
	ROR        Opcode = 66
	RDHWR      Opcode = 67
	SIGNEXT    Opcode = 68
	TEQ        Opcode = 70
	UNIMPL     Opcode = 0xff
)

// NumOpcodes is an upper bound on the numeric value of any opcode, suitable for
// sizing opcode-indexed tables.
const NumOpcodes = 256

var mnemonics = map[Opcode]string{
	ADD: "add", ADDU: "addu", ADDI: "addi", ADDIU: "addiu", SUB: "sub", SUBU: "subu",
	MULT: "mult", MULTU: "multu", MUL: "mul", DIV: "div", DIVU: "divu",
	SLLV: "sllv", SRLV: "srlv", SRAV: "srav", SLL: "sll", SRL: "srl", SRA: "sra",
	SLT: "slt", SLTU: "sltu", SLTI: "slti", SLTIU: "sltiu", LUI: "lui",
	MFHI: "mfhi", MTHI: "mthi", MFLO: "mflo", MTLO: "mtlo",
	AND: "and", OR: "or", XOR: "xor", NOR: "nor",
	BEQ: "beq", BNE: "bne", BGEZ: "bgez", BLEZ: "blez", BGTZ: "bgtz", BLTZ: "bltz",
	MEQ: "meq", MNE: "mne",
	LH: "lh", LWL: "lwl", LW: "lw", LBU: "lbu", LHU: "lhu", LWR: "lwr", LL: "ll", LB: "lb",
	SB: "sb", SH: "sh", SWL: "swl", SW: "sw", SWR: "swr", SC: "sc", SDC1: "sdc1",
	CLZ: "clz", CLO: "clo",
	Jump: "jump", Jumpi: "jumpi", JumpDirect: "jump_direct",
	NOP: "nop", SYSCALL: "syscall",
	EXT: "ext", INS: "ins", MADDU: "maddu", ROR: "ror", RDHWR: "rdhwr", SIGNEXT: "sext",
	TEQ: "teq", UNIMPL: "unimpl",
}

// All returns every opcode which has a mnemonic, in ascending numeric order.
func All() []Opcode {
	var ops []Opcode
	//
	for i := range NumOpcodes {
		if _, ok := mnemonics[Opcode(i)]; ok {
			ops = append(ops, Opcode(i))
		}
	}
	//
	return ops
}

// Mnemonic returns the assembly mnemonic of this opcode.
func (p Opcode) Mnemonic() string {
	if m, ok := mnemonics[p]; ok {
		return m
	}
	//
	return fmt.Sprintf("op%d", uint8(p))
}

func (p Opcode) String() string {
	return p.Mnemonic()
}

// UsesLoHi determines whether this opcode writes its result into the LO/HI
// register pair, rather than a general purpose register.
func (p Opcode) UsesLoHi() bool {
	switch p {
	case DIV, DIVU, MULT, MULTU:
		return true
	default:
		return false
	}
}

// IsALU determines whether this opcode is executed by the arithmetic logic unit.
func (p Opcode) IsALU() bool {
	switch p {
	case ADD, SUB, MULT, MULTU, MUL, DIV, DIVU, SLL, SRL, SRA, SLT, SLTU, AND, OR, XOR, NOR, CLZ, CLO:
		return true
	default:
		return false
	}
}

// IsLoad determines whether this opcode reads a value from memory into a
// register.
func (p Opcode) IsLoad() bool {
	switch p {
	case LB, LH, LW, LWL, LBU, LHU, LWR, LL:
		return true
	default:
		return false
	}
}

// IsStore determines whether this opcode writes a register into memory.
func (p Opcode) IsStore() bool {
	switch p {
	case SB, SH, SW, SWL, SWR, SDC1, SC:
		return true
	default:
		return false
	}
}

// IsBranch determines whether this opcode is a conditional branch.
func (p Opcode) IsBranch() bool {
	switch p {
	case BEQ, BNE, BLTZ, BGEZ, BLEZ, BGTZ:
		return true
	default:
		return false
	}
}

// IsJump determines whether this opcode is an unconditional jump.
func (p Opcode) IsJump() bool {
	return p == Jump || p == Jumpi || p == JumpDirect
}
