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
	"slices"

	"github.com/consensys/go-zkmips/pkg/mips/event"
	"github.com/consensys/go-zkmips/pkg/mips/memory"
	"github.com/consensys/go-zkmips/pkg/mips/opcode"
	"github.com/consensys/go-zkmips/pkg/mips/shape"
	log "github.com/sirupsen/logrus"
)

// checkShard closes the current shard when either its clock budget is
// exhausted (leaving room for the most expensive system call) or, when shapes
// are configured, its events no longer fit any of them.
func (p *Executor) checkShard() {
	var (
		exhausted = p.maxSyscallCycles+p.state.Clk >= p.shardSize
		fits      = true
	)
	//
	if len(p.opts.Shapes) > 0 && p.state.GlobalClk%p.opts.ShapeCheckPeriod == 0 {
		counts := shape.CountsOf(&p.eventCounts)
		//
		if fits = shape.FitsAny(p.opts.Shapes, counts, p.opts.ShapeMargin); !fits {
			log.Warnf("stopping shard %d early as no shape fits (%d cycles, %s)", p.state.CurrentShard,
				p.state.Clk/ClkIncrement, counts.String())
		}
	}
	//
	if exhausted || !fits {
		p.state.CurrentShard++
		p.state.Clk = 0
		p.eventCounts = [opcode.NumOpcodes]uint64{}
		p.bumpRecord()
	}
}

// bumpRecord seals the current record, and begins a new one.  Public values
// are carried over into the new record, and are finalised later.
func (p *Executor) bumpRecord() {
	if p.mode == Trace {
		p.drainLocalMemory()
	}
	//
	var sealed = p.record
	//
	p.record = event.NewRecord(p.program)
	p.record.PublicValues = sealed.PublicValues
	p.records = append(p.records, sealed)
	//
	log.Debugf("sealed record %d %v", len(p.records), sealed.Stats())
}

// drainLocalMemory moves the local memory events accumulated for the current
// shard into its record, in ascending address order.
func (p *Executor) drainLocalMemory() {
	var addrs = make([]uint32, 0, len(p.localMemory))
	//
	for addr := range p.localMemory {
		addrs = append(addrs, addr)
	}
	//
	slices.Sort(addrs)
	//
	for _, addr := range addrs {
		p.record.LocalMemoryAccess = append(p.record.LocalMemoryAccess, *p.localMemory[addr])
	}
	//
	p.localMemory = make(map[uint32]*memory.LocalEvent)
}
