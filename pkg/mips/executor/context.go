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
	"errors"
	"slices"

	"github.com/consensys/go-zkmips/pkg/mips/hook"
	"github.com/consensys/go-zkmips/pkg/mips/memory"
	"github.com/consensys/go-zkmips/pkg/mips/register"
	"github.com/consensys/go-zkmips/pkg/mips/syscall"
)

// syscallContext is the view of the executor given to a system call handler.
type syscallContext struct {
	executor *Executor
	// Program counter at which execution continues.
	nextPc   uint32
	exitCode uint32
	// Indicates an unconstrained scope was rolled back.
	restored bool
}

func (p *syscallContext) Register(reg register.Id) uint32 {
	return p.executor.register(reg)
}

func (p *syscallContext) WriteRegister(reg register.Id, value uint32) {
	p.executor.rw(reg, value, memory.PositionS2)
}

func (p *syscallContext) Word(addr uint32) uint32 {
	return p.executor.word(addr &^ 3)
}

func (p *syscallContext) Byte(addr uint32) uint8 {
	return p.executor.byteAt(addr)
}

func (p *syscallContext) Pc() uint32 {
	return p.executor.state.Pc
}

func (p *syscallContext) Clk() uint32 {
	return p.executor.state.Clk
}

func (p *syscallContext) GlobalClk() uint64 {
	return p.executor.state.GlobalClk
}

func (p *syscallContext) SetNextPc(pc uint32) {
	p.nextPc = pc
}

func (p *syscallContext) SetExitCode(code uint32) {
	p.exitCode = code
}

func (p *syscallContext) Unconstrained() bool {
	return p.executor.unconstrained
}

func (p *syscallContext) EnterUnconstrained() {
	p.executor.enterUnconstrained()
}

// ExitUnconstrained rolls back the current scope.  Execution then resumes
// immediately after the system call which entered the scope.
func (p *syscallContext) ExitUnconstrained() bool {
	if !p.executor.exitUnconstrained() {
		return false
	}
	//
	p.nextPc = p.executor.state.Pc + 4
	p.restored = true
	//
	return true
}

func (p *syscallContext) Output(fd uint32, bytes []byte) {
	p.executor.writeOutput(fd, bytes)
}

func (p *syscallContext) WritePublicValues(bytes []byte) {
	p.executor.state.PublicValuesStream = append(p.executor.state.PublicValuesStream, bytes...)
}

func (p *syscallContext) PeekHint() ([]byte, bool) {
	var state = p.executor.state
	//
	if state.InputStreamPtr >= len(state.InputStream) {
		return nil, false
	}
	//
	return state.InputStream[state.InputStreamPtr], true
}

func (p *syscallContext) NextHint() ([]byte, bool) {
	hint, ok := p.PeekHint()
	//
	if ok {
		p.executor.state.InputStreamPtr++
	}
	//
	return hint, ok
}

func (p *syscallContext) PushHint(hint []byte) {
	p.executor.state.InputStream = append(p.executor.state.InputStream, hint)
}

func (p *syscallContext) InsertHints(hints [][]byte) {
	var state = p.executor.state
	//
	state.InputStream = slices.Insert(state.InputStream, state.InputStreamPtr, hints...)
}

// StageWord sets the initial value of an address outside the register region
// which has neither been accessed nor staged.
func (p *syscallContext) StageWord(addr uint32, value uint32) error {
	var state = p.executor.state
	//
	if addr < memory.WordRegionStart || state.Memory.Contains(addr) {
		return &syscall.StageError{Addr: addr}
	} else if state.UninitializedMemory.Contains(addr) {
		return &syscall.StageError{Addr: addr, Staged: true}
	}
	//
	state.UninitializedMemory.Insert(addr, value)
	//
	return nil
}

func (p *syscallContext) Hook(fd uint32) (hook.Hook, bool) {
	return p.executor.hooks.Get(fd)
}

func (p *syscallContext) HookEnv() hook.Env {
	return hook.Env{Pc: p.executor.state.Pc, GlobalClk: p.executor.state.GlobalClk}
}

func (p *syscallContext) CommitWord(index uint32, word uint32) {
	p.executor.state.CommittedValueDigest[index] = word
}

func (p *syscallContext) CommitDeferredWord(index uint32, word uint32) {
	p.executor.state.DeferredProofsDigest[index] = word
}

// VerifyDeferredProof consumes the next proof, verifying it (when enabled)
// before folding it into the deferred proofs accumulator.
func (p *syscallContext) VerifyDeferredProof(vkey, pvDigest [syscall.DigestWords]uint32) error {
	var (
		e     = p.executor
		state = e.state
	)
	//
	if state.ProofStreamPtr >= len(state.ProofStream) {
		return errors.New("not enough proofs were written to the runtime")
	}
	//
	proof := state.ProofStream[state.ProofStreamPtr]
	state.ProofStreamPtr++
	//
	if e.opts.DeferredProofVerification {
		if err := e.verifier.VerifyDeferredProof(proof, vkey, pvDigest); err != nil {
			return err
		}
	}
	//
	state.Deferred.Fold(vkey, pvDigest)
	//
	return nil
}
