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
package register

import "fmt"

// Id identifies a machine register.  Registers are held in the same versioned
// memory as ordinary data, with each register occupying the address equal to
// its identifier.
type Id uint8

// General purpose registers, followed by the special purpose registers used by
// the executor.
const (
	ZERO Id = iota
	AT
	V0
	V1
	A0
	A1
	A2
	A3
	T0
	T1
	T2
	T3
	T4
	T5
	T6
	T7
	S0
	S1
	S2
	S3
	S4
	S5
	S6
	S7
	T8
	T9
	K0
	K1
	GP
	SP
	FP
	RA
	// LO holds the low word of a multiplication, or the quotient of a division.
	LO
	// HI holds the high word of a multiplication, or the remainder of a division.
	HI
	// HEAP holds the next free address for anonymous mmap allocations.
	HEAP
	// BRK holds the current program break.
	BRK
	// LOCAL_USER holds the thread pointer set by set_thread_area.
	LOCAL_USER //nolint:revive
)

// NumRegisters is the total number of registers, including special purpose ones.
const NumRegisters = uint(LOCAL_USER) + 1

var names = [NumRegisters]string{
	"zero", "at", "v0", "v1", "a0", "a1", "a2", "a3",
	"t0", "t1", "t2", "t3", "t4", "t5", "t6", "t7",
	"s0", "s1", "s2", "s3", "s4", "s5", "s6", "s7",
	"t8", "t9", "k0", "k1", "gp", "sp", "fp", "ra",
	"lo", "hi", "heap", "brk", "local_user",
}

// Addr returns the memory address at which this register is held.
func (p Id) Addr() uint32 {
	return uint32(p)
}

// IsValid checks whether this identifies an actual register.
func (p Id) IsValid() bool {
	return uint(p) < NumRegisters
}

func (p Id) String() string {
	if p.IsValid() {
		return names[p]
	}
	//
	return fmt.Sprintf("r%d", uint8(p))
}
