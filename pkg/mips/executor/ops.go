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
	"fmt"
	"math/bits"

	"github.com/consensys/go-zkmips/pkg/mips/event"
	"github.com/consensys/go-zkmips/pkg/mips/instruction"
	"github.com/consensys/go-zkmips/pkg/mips/memory"
	"github.com/consensys/go-zkmips/pkg/mips/opcode"
	"github.com/consensys/go-zkmips/pkg/mips/register"
	"github.com/consensys/go-zkmips/pkg/mips/syscall"
)

// ClkIncrement is the amount by which the shard clock advances for each
// instruction, leaving room for one timestamp per access position.
const ClkIncrement = 7

// step holds the working state of a single cycle.
type step struct {
	pc         uint32
	clk        uint32
	nextPc     uint32
	nextNextPc uint32
	exitCode   uint32
	a, b, c    uint32
	hi         uint32
	hasHi      bool
}

// executeInstruction executes a single instruction, updating the program
// counters and clock accordingly.
//
//nolint:gocyclo
func (p *Executor) executeInstruction(insn instruction.Instruction) error {
	var (
		s = step{
			pc:         p.state.Pc,
			clk:        p.state.Clk,
			nextPc:     p.state.NextPc,
			nextNextPc: p.state.NextPc + 4,
		}
		err error
	)
	//
	if p.mode == Trace {
		p.accesses = event.AccessRecord{}
	}
	//
	if !p.unconstrained {
		p.countInstruction(insn.Opcode)
	}
	//
	switch insn.Opcode {
	case opcode.SYSCALL:
		err = p.executeSyscall(&s)
	case opcode.MEQ, opcode.MNE:
		p.executeCondMov(insn, &s)
	case opcode.ADD, opcode.SUB, opcode.MULT, opcode.MULTU, opcode.MUL, opcode.DIV, opcode.DIVU, opcode.SLL,
		opcode.SRL, opcode.SRA, opcode.SLT, opcode.SLTU, opcode.AND, opcode.OR, opcode.XOR, opcode.NOR,
		opcode.CLZ, opcode.CLO:
		p.executeAlu(insn, &s)
	case opcode.LB, opcode.LH, opcode.LW, opcode.LWL, opcode.LBU, opcode.LHU, opcode.LWR, opcode.LL:
		err = p.executeLoad(insn, &s)
	case opcode.SB, opcode.SH, opcode.SW, opcode.SWL, opcode.SWR, opcode.SDC1, opcode.SC:
		err = p.executeStore(insn, &s)
	case opcode.BEQ, opcode.BNE, opcode.BGEZ, opcode.BLEZ, opcode.BGTZ, opcode.BLTZ:
		p.executeBranch(insn, &s)
	case opcode.Jump:
		p.executeJump(insn, p.rr(insn.B(), memory.PositionB), &s)
	case opcode.Jumpi:
		p.executeJump(insn, insn.OpB, &s)
	case opcode.JumpDirect:
		p.executeJump(insn, insn.OpB+s.pc+4, &s)
	case opcode.NOP:
		p.rw(register.ZERO, 0, memory.PositionA)
	case opcode.TEQ:
		err = p.executeTrap(insn, &s)
	default:
		if insn.IsBreak() {
			err = fmt.Errorf("%w at pc 0x%08x", ErrBreakpoint, s.pc)
		} else {
			err = &UnsupportedInstructionError{insn.Raw}
		}
	}
	//
	if err != nil {
		return err
	}
	//
	p.state.Pc = s.nextPc
	p.state.NextPc = s.nextNextPc
	p.state.Clk += ClkIncrement
	//
	if p.mode == Trace {
		p.emitCpu(insn.Opcode, &s)
	}
	//
	return nil
}

// countInstruction updates the report, and the number of events expected for
// the current shard.  The latter includes the ALU events each instruction
// produces indirectly.
func (p *Executor) countInstruction(op opcode.Opcode) {
	p.report.OpcodeCounts[op]++
	p.eventCounts[op]++
	//
	switch op {
	case opcode.LB, opcode.LH, opcode.LW, opcode.LBU, opcode.LHU, opcode.LWL, opcode.LWR:
		p.eventCounts[opcode.ADD] += 2
	case opcode.JumpDirect, opcode.BEQ, opcode.BNE:
		p.eventCounts[opcode.ADD]++
	case opcode.BLTZ, opcode.BGEZ, opcode.BLEZ, opcode.BGTZ:
		p.eventCounts[opcode.ADD]++
		p.eventCounts[opcode.SLT] += 2
	case opcode.DIV, opcode.DIVU:
		p.eventCounts[opcode.MUL] += 2
		p.eventCounts[opcode.ADD] += 2
		p.eventCounts[opcode.SLTU]++
	case opcode.CLZ, opcode.CLO:
		p.eventCounts[opcode.SRL]++
	}
}

// aluOperands reads the operands of an ALU instruction.  Register operands are
// read in the order C then B.
func (p *Executor) aluOperands(insn instruction.Instruction) (uint32, uint32) {
	switch {
	case !insn.ImmC:
		c := p.rr(insn.C(), memory.PositionC)
		b := p.rr(insn.B(), memory.PositionB)
		//
		return b, c
	case !insn.ImmB:
		return p.rr(insn.B(), memory.PositionB), insn.OpC
	default:
		return insn.OpB, insn.OpC
	}
}

func (p *Executor) executeAlu(insn instruction.Instruction, s *step) {
	var (
		op   = insn.Opcode
		b, c = p.aluOperands(insn)
		a    uint32
		hi   uint32
	)
	//
	switch op {
	case opcode.ADD:
		a = b + c
	case opcode.SUB:
		a = b - c
	case opcode.SLL:
		a = b << (c & 0x1f)
	case opcode.SRL:
		a = b >> (c & 0x1f)
	case opcode.SRA:
		a = uint32(int32(b) >> (c & 0x1f))
	case opcode.MUL:
		a = b * c
	case opcode.SLTU:
		a = boolToWord(b < c)
	case opcode.SLT:
		a = boolToWord(int32(b) < int32(c))
	case opcode.MULT:
		out := uint64(int64(int32(b)) * int64(int32(c)))
		a, hi = uint32(out), uint32(out>>32)
	case opcode.MULTU:
		out := uint64(b) * uint64(c)
		a, hi = uint32(out), uint32(out>>32)
	case opcode.DIV, opcode.DIVU:
		a, hi = divide(op, b, c)
	case opcode.AND:
		a = b & c
	case opcode.OR:
		a = b | c
	case opcode.XOR:
		a = b ^ c
	case opcode.NOR:
		a = ^(b | c)
	case opcode.CLZ:
		a = uint32(bits.LeadingZeros32(b))
	case opcode.CLO:
		a = uint32(bits.LeadingZeros32(^b))
	}
	//
	if op.UsesLoHi() {
		p.rw(register.LO, a, memory.PositionA)
		p.rw(register.HI, hi, memory.PositionS1)
		s.hi, s.hasHi = hi, true
	} else {
		p.rw(insn.A(), a, memory.PositionA)
	}
	//
	s.a, s.b, s.c = a, b, c
	//
	if p.mode == Trace {
		p.emitAlu(event.NewAluEvent(p.state.CurrentShard, p.state.Clk, op, a, hi, b, c))
	}
}

// divide computes the quotient and remainder of a division.  Division by zero
// does not fail, but produces a quotient with all bits set and a remainder
// equal to the dividend.
func divide(op opcode.Opcode, b, c uint32) (uint32, uint32) {
	switch {
	case c == 0:
		return 0xffffffff, b
	case op == opcode.DIV:
		return uint32(int32(b) / int32(c)), uint32(int32(b) % int32(c))
	default:
		return b / c, b % c
	}
}

func boolToWord(b bool) uint32 {
	if b {
		return 1
	}
	//
	return 0
}

// executeCondMov implements the conditional moves (MOVZ, MOVN).
func (p *Executor) executeCondMov(insn instruction.Instruction, s *step) {
	var (
		a = p.register(insn.A())
		c = p.rr(insn.C(), memory.PositionC)
		b = p.rr(insn.B(), memory.PositionB)
	)
	//
	if (insn.Opcode == opcode.MEQ) == (c == 0) {
		a = b
	}
	//
	p.rw(insn.A(), a, memory.PositionA)
	s.a, s.b, s.c = a, b, c
}

func (p *Executor) executeLoad(insn instruction.Instruction, s *step) error {
	var (
		base = p.rr(insn.B(), memory.PositionB)
		rt   = p.register(insn.A())
		addr = base + insn.OpC
	)
	//
	if err := checkAccess(insn.Opcode, addr); err != nil {
		return err
	}
	//
	var (
		mem    = p.mrCpu(addr&^3, memory.PositionMemory)
		offset = addr & 3
		val    uint32
	)
	//
	switch insn.Opcode {
	case opcode.LB:
		val = instruction.SignExtend((mem>>(offset*8))&0xff, 8)
	case opcode.LBU:
		val = (mem >> (offset * 8)) & 0xff
	case opcode.LH:
		val = instruction.SignExtend((mem>>((addr&2)*8))&0xffff, 16)
	case opcode.LHU:
		val = (mem >> ((addr & 2) * 8)) & 0xffff
	case opcode.LWL:
		mask := uint32(0xffffffff) << (24 - offset*8)
		val = (rt &^ mask) | (mem << (24 - offset*8))
	case opcode.LWR:
		mask := uint32(0xffffffff) >> (offset * 8)
		val = (rt &^ mask) | (mem >> (offset * 8))
	case opcode.LW, opcode.LL:
		val = mem
	}
	//
	p.rw(insn.A(), val, memory.PositionA)
	s.a, s.b, s.c = val, base, insn.OpC
	//
	return nil
}

func (p *Executor) executeStore(insn instruction.Instruction, s *step) error {
	var (
		base = p.rr(insn.B(), memory.PositionB)
		rt   uint32
		addr = base + insn.OpC
	)
	//
	if insn.Opcode == opcode.SC {
		rt = p.register(insn.A())
	} else {
		rt = p.rr(insn.A(), memory.PositionA)
	}
	//
	if err := checkAccess(insn.Opcode, addr); err != nil {
		return err
	}
	//
	var (
		mem    = p.word(addr &^ 3)
		offset = addr & 3
		val    uint32
	)
	//
	switch insn.Opcode {
	case opcode.SB:
		mask := uint32(0xff) << (offset * 8)
		val = (mem &^ mask) | ((rt & 0xff) << (offset * 8))
	case opcode.SH:
		mask := uint32(0xffff) << ((addr & 2) * 8)
		val = (mem &^ mask) | ((rt & 0xffff) << ((addr & 2) * 8))
	case opcode.SWL:
		mask := uint32(0xffffffff) >> (24 - offset*8)
		val = (mem &^ mask) | (rt >> (24 - offset*8))
	case opcode.SWR:
		mask := uint32(0xffffffff) << (offset * 8)
		val = (mem &^ mask) | (rt << (offset * 8))
	case opcode.SW, opcode.SC:
		val = rt
	case opcode.SDC1:
		val = 0
	}
	//
	p.mwCpu(addr&^3, val, memory.PositionMemory)
	//
	if insn.Opcode == opcode.SC {
		p.rw(insn.A(), 1, memory.PositionA)
		rt = 1
	}
	//
	s.a, s.b, s.c = rt, base, insn.OpC
	//
	return nil
}

func (p *Executor) executeBranch(insn instruction.Instruction, s *step) {
	var (
		a, b  uint32
		taken bool
	)
	//
	if insn.Opcode == opcode.BEQ || insn.Opcode == opcode.BNE {
		b = p.rr(insn.B(), memory.PositionB)
	}
	//
	a = p.rr(insn.A(), memory.PositionA)
	//
	switch insn.Opcode {
	case opcode.BEQ:
		taken = a == b
	case opcode.BNE:
		taken = a != b
	case opcode.BGEZ:
		taken = int32(a) >= 0
	case opcode.BLEZ:
		taken = int32(a) <= 0
	case opcode.BGTZ:
		taken = int32(a) > 0
	case opcode.BLTZ:
		taken = int32(a) < 0
	}
	//
	if taken {
		s.nextNextPc = insn.OpC + s.nextPc
	}
	//
	s.a, s.b, s.c = a, b, insn.OpC
}

// executeJump implements all three jumps, which differ only in how their
// target is determined.  The link register receives the address following
// the delay slot.
func (p *Executor) executeJump(insn instruction.Instruction, target uint32, s *step) {
	var link = s.pc + 8
	//
	p.rw(insn.A(), link, memory.PositionA)
	s.a, s.b, s.c = link, target, 0
	s.nextNextPc = target
}

func (p *Executor) executeTrap(insn instruction.Instruction, s *step) error {
	var (
		b = p.rr(insn.B(), memory.PositionB)
		a = p.rr(insn.A(), memory.PositionA)
	)
	//
	if a == b {
		return fmt.Errorf("%w at pc 0x%08x", ErrTrap, s.pc)
	}
	//
	s.a, s.b = a, b
	//
	return nil
}

// executeSyscall dispatches a system call to its handler.  The code is taken
// from V0 and the arguments from A0 and A1.  The result is written to V0.
func (p *Executor) executeSyscall(s *step) error {
	var (
		id   = p.register(register.V0)
		c    = p.rr(register.A1, memory.PositionC)
		b    = p.rr(register.A0, memory.PositionB)
		code = syscall.Code(id)
	)
	//
	if !p.unconstrained {
		p.report.SyscallCounts[code]++
	}
	//
	if p.unconstrained && !syscall.AllowedInUnconstrained(code) {
		return &InvalidSyscallUsageError{code}
	}
	//
	nonce := p.nextNonce(code)
	//
	if code.ShouldSend() && p.mode == Trace {
		p.record.SyscallEvents = append(p.record.SyscallEvents, event.SyscallEvent{
			Shard: p.state.CurrentShard, Clk: s.clk, SyscallID: code.ID(), Arg1: b, Arg2: c, Nonce: nonce,
		})
	}
	//
	handler, ok := p.syscalls[code]
	//
	if !ok {
		return &UnsupportedSyscallError{code}
	}
	//
	ctx := &syscallContext{executor: p, nextPc: s.nextPc}
	result, ok, err := handler.Execute(ctx, code, b, c)
	//
	if err != nil {
		return &SyscallError{code, s.pc, err}
	} else if !ok {
		result = id
	}
	//
	if code.IsHalt() {
		p.state.ExitCode = ctx.exitCode
		//
		if ctx.exitCode != 0 {
			return &HaltError{ctx.exitCode}
		}
		//
		p.state.Exited = true
	}
	// Leaving an unconstrained scope rewinds the clock and program counters.
	if ctx.restored {
		s.clk = p.state.Clk
		s.pc = p.state.Pc
		s.nextNextPc = ctx.nextPc + 4
	}
	//
	p.rw(register.V0, result, memory.PositionA)
	s.a, s.b, s.c = result, b, c
	s.nextPc = ctx.nextPc
	s.exitCode = ctx.exitCode
	p.state.Clk += handler.ExtraCycles()
	//
	return nil
}

// nextNonce returns the nonce of a system call invocation, and updates the
// invocation count.
func (p *Executor) nextNonce(code syscall.Code) uint32 {
	var (
		key                   = code.CountKey()
		count                 = p.state.SyscallCounts[key]
		threshold, multiplier uint64
	)
	//
	switch key {
	case syscall.KECCAK_PERMUTE:
		threshold, multiplier = p.opts.Split.Keccak, 24
	case syscall.SHA_EXTEND:
		threshold, multiplier = p.opts.Split.ShaExtend, 48
	case syscall.SHA_COMPRESS:
		threshold, multiplier = p.opts.Split.ShaCompress, 80
	default:
		threshold, multiplier = p.opts.Split.Deferred, 1
	}
	//
	p.state.SyscallCounts[key] = count + 1
	//
	return uint32((count % threshold) * multiplier)
}
