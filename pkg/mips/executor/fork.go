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
	"github.com/consensys/go-zkmips/pkg/mips/memory"
	log "github.com/sirupsen/logrus"
)

// enterUnconstrained begins an unconstrained scope.  Within the scope nothing
// is recorded, and every modified address has its pre-image saved such that
// the scope can be rolled back.
func (p *Executor) enterUnconstrained() {
	p.fork = forkState{
		globalClk:  p.state.GlobalClk,
		clk:        p.state.Clk,
		pc:         p.state.Pc,
		nextPc:     p.state.NextPc,
		memoryDiff: memory.NewPaged[savedCell](),
		record:     p.record,
		accesses:   p.accesses,
		mode:       p.mode,
	}
	//
	p.record = event.NewRecord(p.program)
	p.accesses = event.AccessRecord{}
	p.mode = Simple
	p.unconstrained = true
	//
	log.Tracef("entered unconstrained scope at pc 0x%08x", p.state.Pc)
}

// exitUnconstrained rolls back the current unconstrained scope, restoring
// clocks, program counters, memory and the record in progress.  This returns
// false when there is no scope to exit.
func (p *Executor) exitUnconstrained() bool {
	if !p.unconstrained {
		return false
	}
	//
	var (
		fork  = p.fork
		diff  = fork.memoryDiff
		addrs = diff.Keys()
	)
	//
	log.Tracef("exiting unconstrained scope after %d cycles (%d addresses touched)",
		p.state.GlobalClk-fork.globalClk, len(addrs))
	//
	p.state.GlobalClk = fork.globalClk
	p.state.Clk = fork.clk
	p.state.Pc = fork.pc
	p.state.NextPc = fork.nextPc
	//
	for _, addr := range addrs {
		saved, _ := diff.Get(addr)
		//
		if saved.present {
			p.state.Memory.Insert(addr, saved.cell)
		} else {
			p.state.Memory.Remove(addr)
		}
	}
	//
	p.record = fork.record
	p.accesses = fork.accesses
	p.mode = fork.mode
	p.unconstrained = false
	p.fork = forkState{}
	//
	return true
}
