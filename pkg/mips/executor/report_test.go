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
	"testing"

	"github.com/consensys/go-zkmips/pkg/mips/opcode"
	"github.com/consensys/go-zkmips/pkg/mips/syscall"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
)

func Test_Report_01(t *testing.T) {
	goldie.New(t).Assert(t, "report", []byte(sampleReport().Render(40)))
}

func Test_Report_02(t *testing.T) {
	var (
		r     = sampleReport()
		other = NewReport()
	)
	//
	other.OpcodeCounts[opcode.ADD] = 6
	other.SyscallCounts[syscall.HALT] = 1
	other.CycleTracker["main"] = 10
	other.TouchedMemoryAddresses = 7
	//
	r.Merge(other)
	assert.Equal(t, uint64(1263), r.TotalInstructions())
	assert.Equal(t, uint64(4), r.TotalSyscalls())
	assert.Equal(t, uint64(1210), r.CycleTracker["main"])
	assert.Equal(t, uint64(42), r.TouchedMemoryAddresses)
}

func Test_Report_03(t *testing.T) {
	var r = NewReport()
	// Cycle tracker is omitted when empty
	assert.Equal(t, "opcode counts (0 instructions):\nsyscall counts (0 syscalls):\ntouched memory addresses: 0\n",
		r.String())
}

func sampleReport() *Report {
	var r = NewReport()
	//
	r.OpcodeCounts[opcode.ADD] = 1234
	r.OpcodeCounts[opcode.SW] = 10
	r.OpcodeCounts[opcode.LW] = 10
	r.OpcodeCounts[opcode.SYSCALL] = 3
	r.SyscallCounts[syscall.WRITE] = 2
	r.SyscallCounts[syscall.HALT] = 1
	r.CycleTracker["main"] = 1200
	r.TouchedMemoryAddresses = 42
	//
	return r
}
