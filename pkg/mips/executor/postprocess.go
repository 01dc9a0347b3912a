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
	log "github.com/sirupsen/logrus"
)

// postprocess completes execution of the program.  When global memory events
// are enabled, the final record receives the initial and final state of every
// touched address.
func (p *Executor) postprocess() {
	var state = p.state
	//
	p.flushOutput()
	//
	if state.InputStreamPtr != len(state.InputStream) {
		log.Warnf("not all hints were read (%d of %d)", state.InputStreamPtr, len(state.InputStream))
	}
	//
	if state.ProofStreamPtr != len(state.ProofStream) {
		log.Warnf("not all proofs were read (%d of %d)", state.ProofStreamPtr, len(state.ProofStream))
	}
	//
	for name := range p.cycleTracker {
		log.Warnf("cycle tracker %q was never ended", name)
	}
	//
	p.report.TouchedMemoryAddresses = uint64(state.Memory.Len())
	//
	if !p.opts.EmitGlobalMemoryEvents || p.mode == Simple {
		return
	}
	//
	var record = p.record
	// Address zero is always initialised and finalised.
	zero, used := state.Memory.Get(0)
	//
	if !used {
		zero = memory.Cell{Timestamp: 1}
	}
	//
	record.MemoryFinalizeEvents = append(record.MemoryFinalizeEvents, memory.Finalize(0, zero))
	record.MemoryInitializeEvents = append(record.MemoryInitializeEvents, memory.Initialize(0, 0, used))
	//
	for _, addr := range state.Memory.Keys() {
		if addr == 0 {
			continue
		}
		// Addresses in the image are initialised by the program itself.
		if _, ok := p.program.Image[addr]; !ok {
			value, _ := state.UninitializedMemory.Get(addr)
			record.MemoryInitializeEvents = append(record.MemoryInitializeEvents, memory.Initialize(addr, value, true))
		}
		//
		cell, _ := state.Memory.Get(addr)
		record.MemoryFinalizeEvents = append(record.MemoryFinalizeEvents, memory.Finalize(addr, cell))
	}
}
