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
package syscall

import (
	"slices"

	"github.com/consensys/go-zkmips/pkg/mips/hook"
	"github.com/consensys/go-zkmips/pkg/mips/register"
)

// Well known file descriptors.
const (
	FdStdin        = 0
	FdStdout       = 1
	FdStderr       = 2
	FdPublicValues = 13
	FdHint         = 14
)

// DigestWords is the number of words in a public digest.
const DigestWords = 8

// Context is the view of the executing machine available to a system call
// handler.  It is implemented by the executor.
type Context interface {
	// Register returns the current value of a register, without recording an
	// access.
	Register(reg register.Id) uint32
	// WriteRegister writes a register, recording the access when tracing.
	WriteRegister(reg register.Id, value uint32)
	// Word returns the word held at an aligned address, without recording an
	// access.
	Word(addr uint32) uint32
	// Byte returns the byte held at an address, without recording an access.
	Byte(addr uint32) uint8
	// Pc returns the program counter of the system call instruction.
	Pc() uint32
	// Clk returns the clock of the current shard.
	Clk() uint32
	// GlobalClk returns the total number of cycles executed.
	GlobalClk() uint64
	// SetNextPc overrides the program counter at which execution continues.
	SetNextPc(pc uint32)
	// SetExitCode sets the exit code of the program.
	SetExitCode(code uint32)
	// Unconstrained checks whether execution is within an unconstrained scope.
	Unconstrained() bool
	// EnterUnconstrained begins an unconstrained scope, whose effects are
	// discarded when the scope is exited.
	EnterUnconstrained()
	// ExitUnconstrained ends the current unconstrained scope (if any), rolling
	// back all of its effects.  This returns false if there was no scope.
	ExitUnconstrained() bool
	// Output writes bytes to one of the standard output streams.
	Output(fd uint32, bytes []byte)
	// WritePublicValues appends bytes to the public values stream.
	WritePublicValues(bytes []byte)
	// PeekHint returns the next unread hint, or false if all hints are read.
	PeekHint() ([]byte, bool)
	// NextHint reads the next hint, or false if all hints are read.
	NextHint() ([]byte, bool)
	// PushHint appends a hint to the end of the hint stream.
	PushHint(hint []byte)
	// InsertHints inserts zero or more hints immediately before the next
	// unread hint.
	InsertHints(hints [][]byte)
	// StageWord sets the initial value of an address which has not yet been
	// accessed.  Each address can be staged at most once.
	StageWord(addr uint32, value uint32) error
	// Hook returns the hook registered against a given file descriptor.
	Hook(fd uint32) (hook.Hook, bool)
	// HookEnv returns the environment passed to hooks.
	HookEnv() hook.Env
	// CommitWord sets one word of the committed value digest.
	CommitWord(index uint32, word uint32)
	// CommitDeferredWord sets one word of the deferred proofs digest.
	CommitDeferredWord(index uint32, word uint32)
	// VerifyDeferredProof consumes the next proof from the proof stream, and
	// checks it against the given verifying key and public values digest.
	VerifyDeferredProof(vkey [DigestWords]uint32, pvDigest [DigestWords]uint32) error
}

// Handler implements a system call.  A handler optionally returns a value,
// which is written to the result register (otherwise, the result register
// retains the system call code).
type Handler interface {
	// Execute the system call with the given arguments.
	Execute(ctx Context, code Code, arg1 uint32, arg2 uint32) (uint32, bool, error)
	// ExtraCycles returns the number of cycles, beyond that of the system call
	// instruction itself, that this call costs.
	ExtraCycles() uint32
}

// HandlerFunc adapts a function into a handler which costs no extra cycles.
type HandlerFunc func(ctx Context, code Code, arg1 uint32, arg2 uint32) (uint32, bool, error)

// Execute implementation for the Handler interface.
func (p HandlerFunc) Execute(ctx Context, code Code, arg1 uint32, arg2 uint32) (uint32, bool, error) {
	return p(ctx, code, arg1, arg2)
}

// ExtraCycles implementation for the Handler interface.
func (p HandlerFunc) ExtraCycles() uint32 {
	return 0
}

// Table maps system call codes to their handlers.
type Table map[Code]Handler

// Default constructs the default system call table.
func Default() Table {
	var (
		table = make(Table)
		mmap  = HandlerFunc(Mmap)
		halt  = HandlerFunc(Halt)
	)
	//
	table[HALT] = halt
	table[SYSEXITGROUP] = halt
	table[WRITE] = &Write{}
	table[SYSWRITE] = &Write{ReturnCount: true}
	table[ENTER_UNCONSTRAINED] = HandlerFunc(EnterUnconstrained)
	table[EXIT_UNCONSTRAINED] = HandlerFunc(ExitUnconstrained)
	table[COMMIT] = HandlerFunc(Commit)
	table[COMMIT_DEFERRED_PROOFS] = HandlerFunc(CommitDeferredProofs)
	table[HINT_LEN] = HandlerFunc(HintLen)
	table[HINT_READ] = HandlerFunc(HintRead)
	table[VERIFY] = HandlerFunc(Verify)
	table[SYSMMAP] = mmap
	table[SYSMMAP2] = mmap
	table[SYSBRK] = HandlerFunc(Brk)
	table[SYSCLONE] = HandlerFunc(Clone)
	table[SYSREAD] = HandlerFunc(Read)
	table[SYSFCNTL] = HandlerFunc(Fcntl)
	table[SYSSETTHREADAREA] = HandlerFunc(SetThreadArea)
	//
	return table
}

// MaxExtraCycles returns the largest number of extra cycles of any handler in
// this table.
func (p Table) MaxExtraCycles() uint32 {
	var m uint32
	//
	for _, h := range p {
		m = max(m, h.ExtraCycles())
	}
	//
	return m
}

// Codes returns the codes in this table in ascending order.
func (p Table) Codes() []Code {
	var codes = make([]Code, 0, len(p))
	//
	for c := range p {
		codes = append(codes, c)
	}
	//
	slices.Sort(codes)
	//
	return codes
}

// AllowedInUnconstrained checks whether a given call may be made within an
// unconstrained scope.  Other calls could modify memory in ways which cannot be
// rolled back, or produce non-deterministic behaviour.
func AllowedInUnconstrained(code Code) bool {
	return code == EXIT_UNCONSTRAINED || code == WRITE
}
