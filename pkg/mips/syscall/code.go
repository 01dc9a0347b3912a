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

import "fmt"

// Code identifies a system call.  Codes defined by the zkVM encode additional
// information in their upper bytes: byte 0 is the identifier of the call, byte
// 1 is non-zero when the call is sent to the syscall table of the proving
// system, and byte 2 is the number of extra cycles the call costs.  The Linux
// style codes (e.g. SYSWRITE) are plain MIPS O32 system call numbers.
type Code uint32

// Codes defined by the zkVM.
//
//nolint:revive
const (
	HALT                   Code = 0x00_00_00_00
	WRITE                  Code = 0x00_00_00_02
	ENTER_UNCONSTRAINED    Code = 0x00_00_00_03
	EXIT_UNCONSTRAINED     Code = 0x00_00_00_04
	COMMIT                 Code = 0x00_00_00_10
	COMMIT_DEFERRED_PROOFS Code = 0x00_00_00_1A
	HINT_LEN               Code = 0x00_00_00_F0
	HINT_READ              Code = 0x00_00_00_F1
	VERIFY                 Code = 0x00_00_00_F2
	SHA_EXTEND             Code = 0x00_30_01_05
	SHA_COMPRESS           Code = 0x00_01_01_06
	KECCAK_PERMUTE         Code = 0x00_01_01_09
)

// Linux (MIPS O32) system calls.
const (
	SYSREAD          Code = 4003
	SYSWRITE         Code = 4004
	SYSBRK           Code = 4045
	SYSFCNTL         Code = 4055
	SYSMMAP          Code = 4090
	SYSCLONE         Code = 4120
	SYSMMAP2         Code = 4210
	SYSEXITGROUP     Code = 4246
	SYSSETTHREADAREA Code = 4283
)

var codeNames = map[Code]string{
	HALT: "HALT", WRITE: "WRITE", ENTER_UNCONSTRAINED: "ENTER_UNCONSTRAINED",
	EXIT_UNCONSTRAINED: "EXIT_UNCONSTRAINED", COMMIT: "COMMIT", COMMIT_DEFERRED_PROOFS: "COMMIT_DEFERRED_PROOFS",
	HINT_LEN: "HINT_LEN", HINT_READ: "HINT_READ", VERIFY: "VERIFY", SHA_EXTEND: "SHA_EXTEND",
	SHA_COMPRESS: "SHA_COMPRESS", KECCAK_PERMUTE: "KECCAK_PERMUTE",
	SYSREAD: "SYSREAD", SYSWRITE: "SYSWRITE", SYSBRK: "SYSBRK", SYSFCNTL: "SYSFCNTL", SYSMMAP: "SYSMMAP",
	SYSCLONE: "SYSCLONE", SYSMMAP2: "SYSMMAP2", SYSEXITGROUP: "SYSEXITGROUP",
	SYSSETTHREADAREA: "SYSSETTHREADAREA",
}

// ID returns the identifier of this call.  For the Linux style calls, this is
// just the code itself.
func (p Code) ID() uint32 {
	if p.IsLinux() {
		return uint32(p)
	}
	//
	return uint32(p) & 0xff
}

// ShouldSend returns true if this call is sent to the syscall table of the
// proving system (i.e. whether a syscall event is emitted for it).
func (p Code) ShouldSend() bool {
	return !p.IsLinux() && (uint32(p)>>8)&0xff != 0
}

// NumCycles returns the number of extra cycles declared by this code.
func (p Code) NumCycles() uint32 {
	if p.IsLinux() {
		return 0
	}
	//
	return (uint32(p) >> 16) & 0xff
}

// IsLinux checks whether this is a Linux style call.
func (p Code) IsLinux() bool {
	return p >= SYSREAD && p <= SYSSETTHREADAREA
}

// CountKey returns the code under which invocations of this call are counted,
// for the purposes of computing syscall nonces.
func (p Code) CountKey() Code {
	switch p {
	case SYSEXITGROUP:
		return HALT
	case SYSWRITE:
		return WRITE
	default:
		return p
	}
}

// IsHalt checks whether this code terminates execution.
func (p Code) IsHalt() bool {
	return p == HALT || p == SYSEXITGROUP
}

func (p Code) String() string {
	if name, ok := codeNames[p]; ok {
		return name
	}
	//
	return fmt.Sprintf("syscall(0x%08x)", uint32(p))
}
