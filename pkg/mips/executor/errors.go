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
	"fmt"

	"github.com/consensys/go-zkmips/pkg/mips/opcode"
	"github.com/consensys/go-zkmips/pkg/mips/syscall"
)

// ErrEndInUnconstrained indicates the program terminated within an
// unconstrained scope.
var ErrEndInUnconstrained = errors.New("program ended in unconstrained mode")

// ErrBreakpoint indicates a BREAK instruction was encountered.
var ErrBreakpoint = errors.New("breakpoint encountered")

// ErrUnimplemented indicates an instruction which could not be executed.  Every
// UnsupportedInstructionError is also an ErrUnimplemented.
var ErrUnimplemented = errors.New("got unimplemented as opcode")

// ErrTrap indicates a trap instruction (TEQ) fired.
var ErrTrap = errors.New("trap")

// HaltError indicates the program halted with a non-zero exit code.
type HaltError struct {
	ExitCode uint32
}

func (p *HaltError) Error() string {
	return fmt.Sprintf("execution failed with exit code %d", p.ExitCode)
}

// InvalidMemoryAccessError indicates a load or store of a misaligned address,
// or of an address within the register region.
type InvalidMemoryAccessError struct {
	Opcode opcode.Opcode
	Addr   uint32
}

func (p *InvalidMemoryAccessError) Error() string {
	return fmt.Sprintf("invalid memory access for opcode %s and address 0x%08x", p.Opcode, p.Addr)
}

// UnsupportedSyscallError indicates a system call without a handler.
type UnsupportedSyscallError struct {
	Code syscall.Code
}

func (p *UnsupportedSyscallError) Error() string {
	return fmt.Sprintf("unimplemented syscall %s", p.Code)
}

// UnsupportedInstructionError indicates an instruction which cannot be
// executed.
type UnsupportedInstructionError struct {
	Raw uint32
}

func (p *UnsupportedInstructionError) Error() string {
	return fmt.Sprintf("unimplemented instruction 0x%08x", p.Raw)
}

func (p *UnsupportedInstructionError) Unwrap() error {
	return ErrUnimplemented
}

// CycleLimitError indicates the maximum number of cycles was exceeded.
type CycleLimitError struct {
	Limit uint64
}

func (p *CycleLimitError) Error() string {
	return fmt.Sprintf("exceeded cycle limit of %d", p.Limit)
}

// InvalidSyscallUsageError indicates a system call was made within an
// unconstrained scope, where it is not permitted.
type InvalidSyscallUsageError struct {
	Code syscall.Code
}

func (p *InvalidSyscallUsageError) Error() string {
	return fmt.Sprintf("syscall %s called in unconstrained mode", p.Code)
}

// SyscallError wraps an error reported by a system call handler.
type SyscallError struct {
	Code syscall.Code
	Pc   uint32
	Err  error
}

func (p *SyscallError) Error() string {
	return fmt.Sprintf("syscall %s failed at pc 0x%08x: %s", p.Code, p.Pc, p.Err)
}

func (p *SyscallError) Unwrap() error {
	return p.Err
}
