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
	"github.com/consensys/go-zkmips/pkg/mips/opcode"
	"github.com/consensys/go-zkmips/pkg/mips/register"
	log "github.com/sirupsen/logrus"
)

// Primary opcode fields (bits 26..31).
const (
	opSpecial  = 0x00
	opRegImm   = 0x01
	opJ        = 0x02
	opJAL      = 0x03
	opBEQ      = 0x04
	opBNE      = 0x05
	opBLEZ     = 0x06
	opBGTZ     = 0x07
	opADDI     = 0x08
	opADDIU    = 0x09
	opSLTI     = 0x0a
	opSLTIU    = 0x0b
	opANDI     = 0x0c
	opORI      = 0x0d
	opXORI     = 0x0e
	opLUI      = 0x0f
	opSpecial2 = 0x1c
	opLB       = 0x20
	opLH       = 0x21
	opLWL      = 0x22
	opLW       = 0x23
	opLBU      = 0x24
	opLHU      = 0x25
	opLWR      = 0x26
	opSB       = 0x28
	opSH       = 0x29
	opSWL      = 0x2a
	opSW       = 0x2b
	opSWR      = 0x2e
	opLL       = 0x30
	opPREF     = 0x33
	opSC       = 0x38
	opSDC1     = 0x3d
)

// Decode a raw machine word into an instruction.  Words without a supported
// decoding produce an UNIMPL instruction which retains the raw word, such that
// the failure is only reported if the instruction is actually executed.
func Decode(word uint32) Instruction {
	var (
		op     = (word >> 26) & 0x3f
		fn     = word & 0x3f
		rs     = (word >> 21) & 0x1f
		rt     = (word >> 16) & 0x1f
		rd     = uint8((word >> 11) & 0x1f)
		sa     = (word >> 6) & 0x1f
		imm    = word & 0xffff
		simm   = SignExtend(imm, 16)
		target = SignExtend(word&0x3ffffff, 26)
	)
	//
	switch op {
	case opSpecial:
		return decodeSpecial(word, fn, rs, rt, rd, sa)
	case opSpecial2:
		return decodeSpecial2(word, fn, rs, rt, rd)
	case opRegImm:
		switch {
		case rt == 1:
			return New(opcode.BGEZ, uint8(rs), 0, simm<<2, true, true)
		case rt == 0:
			return New(opcode.BLTZ, uint8(rs), 0, simm<<2, true, true)
		case rt == 0x11 && rs == 0:
			// BAL
			return New(opcode.JumpDirect, uint8(register.RA), simm<<2, 0, true, true)
		}
	case opJ:
		return New(opcode.Jumpi, 0, target<<2, 0, true, true)
	case opJAL:
		return New(opcode.Jumpi, uint8(register.RA), target<<2, 0, true, true)
	case opBEQ:
		return New(opcode.BEQ, uint8(rs), rt, simm<<2, false, true)
	case opBNE:
		return New(opcode.BNE, uint8(rs), rt, simm<<2, false, true)
	case opBLEZ:
		return New(opcode.BLEZ, uint8(rs), 0, simm<<2, true, true)
	case opBGTZ:
		return New(opcode.BGTZ, uint8(rs), 0, simm<<2, true, true)
	case opADDI, opADDIU:
		return New(opcode.ADD, uint8(rt), rs, simm, false, true)
	case opSLTI:
		return New(opcode.SLT, uint8(rt), rs, simm, false, true)
	case opSLTIU:
		return New(opcode.SLTU, uint8(rt), rs, simm, false, true)
	case opANDI:
		return New(opcode.AND, uint8(rt), rs, imm, false, true)
	case opORI:
		return New(opcode.OR, uint8(rt), rs, imm, false, true)
	case opXORI:
		return New(opcode.XOR, uint8(rt), rs, imm, false, true)
	case opLUI:
		return New(opcode.SLL, uint8(rt), simm, 16, true, true)
	case opLB, opLH, opLWL, opLW, opLBU, opLHU, opLWR, opLL, opSB, opSH, opSWL, opSW, opSWR, opSC:
		return New(memoryOps[op], uint8(rt), rs, simm, false, true)
	case opSDC1:
		return New(opcode.SDC1, uint8(rs), rt, simm, false, true)
	case opPREF:
		return New(opcode.NOP, 0, 0, 0, true, true)
	}
	//
	return unsupported(word, op, fn)
}

// DecodeAll decodes a sequence of machine words.
func DecodeAll(words []uint32) []Instruction {
	var insns = make([]Instruction, len(words))
	//
	for i, w := range words {
		insns[i] = Decode(w)
	}
	//
	return insns
}

var memoryOps = map[uint32]opcode.Opcode{
	opLB: opcode.LB, opLH: opcode.LH, opLWL: opcode.LWL, opLW: opcode.LW, opLBU: opcode.LBU,
	opLHU: opcode.LHU, opLWR: opcode.LWR, opLL: opcode.LL, opSB: opcode.SB, opSH: opcode.SH,
	opSWL: opcode.SWL, opSW: opcode.SW, opSWR: opcode.SWR, opSC: opcode.SC,
}

//nolint:gocyclo
func decodeSpecial(word, fn, rs, rt uint32, rd uint8, sa uint32) Instruction {
	switch fn {
	case 0x00:
		return New(opcode.SLL, rd, rt, sa, false, true)
	case 0x02:
		// ROTR shares the SRL encoding
		if rs == 1 {
			return Unimplemented(word)
		}
		//
		return New(opcode.SRL, rd, rt, sa, false, true)
	case 0x03:
		return New(opcode.SRA, rd, rt, sa, false, true)
	case 0x04:
		return New(opcode.SLL, rd, rt, rs, false, false)
	case 0x06:
		return New(opcode.SRL, rd, rt, rs, false, false)
	case 0x07:
		return New(opcode.SRA, rd, rt, rs, false, false)
	case 0x08:
		// JR
		return New(opcode.Jump, 0, rs, 0, false, true)
	case 0x09:
		// JALR
		return New(opcode.Jump, rd, rs, 0, false, true)
	case 0x0a:
		// MOVZ
		return New(opcode.MEQ, rd, rs, rt, false, false)
	case 0x0b:
		// MOVN
		return New(opcode.MNE, rd, rs, rt, false, false)
	case 0x0c:
		return New(opcode.SYSCALL, uint8(register.V0), uint32(register.A0), uint32(register.A1), false, false)
	case 0x0f:
		// SYNC
		return New(opcode.NOP, 0, 0, 0, true, true)
	case 0x10:
		// MFHI
		return New(opcode.ADD, rd, uint32(register.HI), 0, false, true)
	case 0x11:
		// MTHI
		return New(opcode.ADD, uint8(register.HI), rs, 0, false, true)
	case 0x12:
		// MFLO
		return New(opcode.ADD, rd, uint32(register.LO), 0, false, true)
	case 0x13:
		// MTLO
		return New(opcode.ADD, uint8(register.LO), rs, 0, false, true)
	case 0x18:
		return New(opcode.MULT, rd, rt, rs, false, false)
	case 0x19:
		return New(opcode.MULTU, rd, rt, rs, false, false)
	case 0x1a:
		return New(opcode.DIV, rd, rs, rt, false, false)
	case 0x1b:
		return New(opcode.DIVU, rd, rs, rt, false, false)
	case 0x20, 0x21:
		return New(opcode.ADD, rd, rs, rt, false, false)
	case 0x22, 0x23:
		return New(opcode.SUB, rd, rs, rt, false, false)
	case 0x24:
		return New(opcode.AND, rd, rs, rt, false, false)
	case 0x25:
		return New(opcode.OR, rd, rs, rt, false, false)
	case 0x26:
		return New(opcode.XOR, rd, rs, rt, false, false)
	case 0x27:
		return New(opcode.NOR, rd, rs, rt, false, false)
	case 0x2a:
		return New(opcode.SLT, rd, rs, rt, false, false)
	case 0x2b:
		return New(opcode.SLTU, rd, rs, rt, false, false)
	case 0x34:
		return New(opcode.TEQ, uint8(rs), rt, 0, false, true)
	}
	//
	return unsupported(word, opSpecial, fn)
}

func decodeSpecial2(word, fn, rs, rt uint32, rd uint8) Instruction {
	switch fn {
	case 0x02:
		return New(opcode.MUL, rd, rt, rs, false, false)
	case 0x20:
		return New(opcode.CLZ, rd, rs, 0, false, true)
	case 0x21:
		return New(opcode.CLO, rd, rs, 0, false, true)
	}
	//
	return unsupported(word, opSpecial2, fn)
}

func unsupported(word, op, fn uint32) Instruction {
	log.Warnf("decode: unsupported instruction %08x (opcode %06b, function %06b)", word, op, fn)
	//
	return Unimplemented(word)
}

// SignExtend interprets the low n bits of a given value as a two's complement
// number, and extends it to 32 bits.
func SignExtend(value uint32, n uint) uint32 {
	var shift = 32 - n
	//
	return uint32(int32(value<<shift) >> shift)
}
