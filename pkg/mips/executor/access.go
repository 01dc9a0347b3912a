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
	"github.com/consensys/go-zkmips/pkg/mips/memory"
	"github.com/consensys/go-zkmips/pkg/mips/opcode"
	"github.com/consensys/go-zkmips/pkg/mips/register"
)

// register returns the current value of a register, without recording an
// access.
func (p *Executor) register(reg register.Id) uint32 {
	return p.word(reg.Addr())
}

// word returns the current value of a word, without recording an access.
func (p *Executor) word(addr uint32) uint32 {
	cell, ok := p.state.Memory.Get(addr)
	//
	if p.mode == CheckpointMode || p.unconstrained {
		p.saveCheckpoint(addr, cell, ok)
	}
	//
	if ok {
		return cell.Value
	}
	//
	value, _ := p.state.UninitializedMemory.Get(addr)
	entry := p.uninitializedCheckpoint.Entry(addr)
	entry.OrInsert(value != 0)
	//
	return value
}

// byteAt returns the current value of a byte, without recording an access.
func (p *Executor) byteAt(addr uint32) uint8 {
	word := p.word(addr &^ 3)
	//
	return uint8(word >> (8 * (addr & 3)))
}

// rr reads a register at a given position.
func (p *Executor) rr(reg register.Id, pos memory.Position) uint32 {
	return p.mrCpu(reg.Addr(), pos)
}

// rw writes a register at a given position.  Register zero always holds zero,
// regardless of what is written.
func (p *Executor) rw(reg register.Id, value uint32, pos memory.Position) {
	if reg == register.ZERO {
		value = 0
	}
	//
	p.mwCpu(reg.Addr(), value, pos)
}

// mrCpu reads an address at a given position, recording the access against
// the current cycle.
func (p *Executor) mrCpu(addr uint32, pos memory.Position) uint32 {
	current, prev := p.access(addr, 0, false, pos)
	//
	if !p.unconstrained && p.mode == Trace {
		p.accesses.Set(pos, memory.NewReadRecord(current, prev))
	}
	//
	return current.Value
}

// mwCpu writes an address at a given position, recording the access against
// the current cycle.
func (p *Executor) mwCpu(addr uint32, value uint32, pos memory.Position) {
	current, prev := p.access(addr, value, true, pos)
	//
	if !p.unconstrained && p.mode == Trace {
		p.accesses.Set(pos, memory.NewWriteRecord(current, prev))
	}
}

// access reads (or writes) an address, updating the shard and timestamp of its
// cell.  This returns the state of the cell after and before the access.  An
// address accessed for the first time takes its initial value from the
// uninitialised memory (or zero).
func (p *Executor) access(addr uint32, value uint32, write bool, pos memory.Position) (memory.Cell, memory.Cell) {
	cell, ok := p.state.Memory.Get(addr)
	//
	if p.mode == CheckpointMode || p.unconstrained {
		p.saveCheckpoint(addr, cell, ok)
	}
	// Record the pre-image, so it can be restored when the scope exits.
	if p.unconstrained {
		entry := p.fork.memoryDiff.Entry(addr)
		entry.OrInsert(savedCell{cell, ok})
	}
	//
	if !ok {
		initial, _ := p.state.UninitializedMemory.Get(addr)
		entry := p.uninitializedCheckpoint.Entry(addr)
		entry.OrInsert(initial != 0)
		cell = memory.Cell{Value: initial}
	}
	//
	prev := cell
	//
	if write {
		cell.Value = value
	}
	//
	cell.Shard = p.state.CurrentShard
	cell.Timestamp = p.state.Clk + uint32(pos)
	p.state.Memory.Insert(addr, cell)
	//
	if !p.unconstrained && p.mode == Trace {
		if local, ok := p.localMemory[addr]; ok {
			local.Final = cell
		} else {
			p.localMemory[addr] = &memory.LocalEvent{Addr: addr, Initial: prev, Final: cell}
		}
	}
	//
	return cell, prev
}

// saveCheckpoint records the state of an address before its first access in
// the current batch.
func (p *Executor) saveCheckpoint(addr uint32, cell memory.Cell, present bool) {
	entry := p.memoryCheckpoint.Entry(addr)
	entry.OrInsert(savedCell{cell, present})
}

// checkAccess checks a data address is outside the register region and
// suitably aligned for the given load or store.
func checkAccess(op opcode.Opcode, addr uint32) error {
	var misaligned bool
	//
	switch op {
	case opcode.LW, opcode.LL, opcode.SW, opcode.SC:
		misaligned = addr%4 != 0
	case opcode.LH, opcode.LHU, opcode.SH:
		misaligned = addr%2 != 0
	}
	//
	if misaligned || addr < memory.WordRegionStart {
		return &InvalidMemoryAccessError{op, addr}
	}
	//
	return nil
}
