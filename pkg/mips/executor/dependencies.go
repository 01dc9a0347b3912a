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
	"github.com/consensys/go-zkmips/pkg/mips/event"
	"github.com/consensys/go-zkmips/pkg/mips/opcode"
)

// emitCpu records the CPU event of the cycle just executed, along with the ALU
// events it depends upon.
func (p *Executor) emitCpu(op opcode.Opcode, s *step) {
	var ev = event.CpuEvent{
		Shard:      p.state.CurrentShard,
		Clk:        s.clk,
		Pc:         s.pc,
		NextPc:     s.nextPc,
		NextNextPc: s.nextNextPc,
		Opcode:     op,
		A:          s.a,
		B:          s.b,
		C:          s.c,
		Hi:         s.hi,
		HasHi:      s.hasHi,
		Accesses:   p.accesses,
		ExitCode:   s.exitCode,
	}
	//
	p.record.CpuEvents = append(p.record.CpuEvents, ev)
	//
	switch {
	case op.IsLoad():
		p.emitMemoryDependencies(&ev)
	case op.IsBranch():
		p.emitBranchDependencies(&ev)
	case op == opcode.JumpDirect:
		p.dependency(ev, opcode.ADD, ev.NextNextPc, ev.NextPc, ev.NextNextPc-ev.NextPc)
	}
}

// emitAlu records an ALU event, along with the ALU events it depends upon.
func (p *Executor) emitAlu(ev event.AluEvent) {
	p.record.AddAluEvent(ev)
	//
	switch ev.Opcode {
	case opcode.DIV, opcode.DIVU:
		p.emitDivRemDependencies(ev)
	case opcode.CLZ, opcode.CLO:
		p.emitCloClzDependencies(ev)
	}
}

// dependency records an ALU event on behalf of a parent event.
func (p *Executor) dependency(parent event.CpuEvent, op opcode.Opcode, a, b, c uint32) {
	p.record.AddAluEvent(event.NewAluEvent(parent.Shard, parent.Clk, op, a, 0, b, c))
}

// emitDivRemDependencies records the multiplication and comparison which
// establish the quotient and remainder of a division, along with the
// additions establishing absolute values for signed division.
func (p *Executor) emitDivRemDependencies(ev event.AluEvent) {
	var (
		signed         = ev.Opcode == opcode.DIV
		quotient, rem  = divide(ev.Opcode, ev.B, ev.C)
		product        uint64
		mul            = opcode.MULTU
		remAbs, divAbs = rem, ev.C
	)
	//
	if signed {
		mul = opcode.MULT
		remAbs, divAbs = absolute(rem), absolute(ev.C)
		//
		if int32(ev.C) < 0 {
			p.record.AddAluEvent(event.NewAluEvent(ev.Shard, ev.Clk, opcode.ADD, 0, 0, ev.C, divAbs))
		}
		//
		if int32(rem) < 0 {
			p.record.AddAluEvent(event.NewAluEvent(ev.Shard, ev.Clk, opcode.ADD, 0, 0, rem, remAbs))
		}
		//
		product = uint64(int64(int32(quotient)) * int64(int32(ev.C)))
	} else {
		product = uint64(quotient) * uint64(ev.C)
	}
	//
	p.record.AddAluEvent(event.NewAluEvent(ev.Shard, ev.Clk, mul, uint32(product), uint32(product>>32), quotient, ev.C))
	//
	if ev.C != 0 {
		p.record.AddAluEvent(event.NewAluEvent(ev.Shard, ev.Clk, opcode.SLTU, 1, 0, remAbs, max(1, divAbs)))
	}
}

// absolute returns the magnitude of a two's complement word.
func absolute(w uint32) uint32 {
	if int32(w) < 0 {
		return uint32(-int32(w))
	}
	//
	return w
}

// emitCloClzDependencies records the shift establishing the position of the
// leading set bit.
func (p *Executor) emitCloClzDependencies(ev event.AluEvent) {
	var b = ev.B
	//
	if ev.Opcode == opcode.CLO {
		b = ^b
	}
	//
	if b != 0 {
		p.record.AddAluEvent(event.NewAluEvent(ev.Shard, ev.Clk, opcode.SRL, b>>(31-ev.A), 0, b, 31-ev.A))
	}
}

// emitMemoryDependencies records the address computation of a load, along with
// the subtraction establishing sign extension for signed loads.
func (p *Executor) emitMemoryDependencies(ev *event.CpuEvent) {
	var addr = ev.B + ev.C
	//
	p.dependency(*ev, opcode.ADD, addr, ev.B, ev.C)
	//
	if ev.Opcode != opcode.LB && ev.Opcode != opcode.LH {
		return
	}
	//
	var (
		mem            = ev.Accesses.Memory.Current().Value
		offset         = addr % 4
		unsigned, sign uint32
	)
	//
	if ev.Opcode == opcode.LB {
		unsigned, sign = (mem>>(offset*8))&0xff, 1<<8
	} else if (offset>>1)%2 == 0 {
		unsigned, sign = mem&0xffff, 1<<16
	} else {
		unsigned, sign = mem>>16, 1<<16
	}
	// Negative values were sign extended
	if unsigned >= sign/2 {
		p.dependency(*ev, opcode.SUB, ev.A, unsigned, sign)
	}
}

// emitBranchDependencies records the signed comparisons of a branch's operands
// and, when taken, the computation of its target.
func (p *Executor) emitBranchDependencies(ev *event.CpuEvent) {
	var (
		lt = int32(ev.A) < int32(ev.B)
		gt = int32(ev.A) > int32(ev.B)
	)
	//
	p.dependency(*ev, opcode.SLT, boolToWord(lt), ev.A, ev.B)
	p.dependency(*ev, opcode.SLT, boolToWord(gt), ev.B, ev.A)
	//
	if branchTaken(ev.Opcode, lt, gt) {
		p.dependency(*ev, opcode.ADD, ev.NextNextPc, ev.NextPc, ev.C)
	}
}

func branchTaken(op opcode.Opcode, lt, gt bool) bool {
	var eq = !lt && !gt
	//
	switch op {
	case opcode.BEQ:
		return eq
	case opcode.BNE:
		return !eq
	case opcode.BLTZ:
		return lt
	case opcode.BLEZ:
		return lt || eq
	case opcode.BGTZ:
		return gt
	default:
		return eq || gt
	}
}
