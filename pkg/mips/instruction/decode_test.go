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
package instruction

import (
	"testing"

	"github.com/consensys/go-zkmips/pkg/mips/opcode"
)

func Test_Decode_01(t *testing.T) {
	// addiu $29, $0, 5
	checkDecode(t, 0x241D0005, New(opcode.ADD, 29, 0, 5, false, true))
}

func Test_Decode_02(t *testing.T) {
	// addu $31, $30, $29
	checkDecode(t, 0x03DDF821, New(opcode.ADD, 31, 30, 29, false, false))
}

func Test_Decode_03(t *testing.T) {
	// beq $29, $30, 25
	checkDecode(t, 0x13BE0019, New(opcode.BEQ, 29, 30, 100, false, true))
}

func Test_Decode_04(t *testing.T) {
	// j 0x100
	checkDecode(t, 0x08000040, New(opcode.Jumpi, 0, 0x100, 0, true, true))
}

func Test_Decode_05(t *testing.T) {
	// lui $8, 0x1234
	checkDecode(t, 0x3C081234, New(opcode.SLL, 8, 0x1234, 16, true, true))
}

func Test_Decode_06(t *testing.T) {
	// lw $9, -4($29)
	checkDecode(t, 0x8FA9FFFC, New(opcode.LW, 9, 29, 0xfffffffc, false, true))
}

func Test_Decode_07(t *testing.T) {
	checkDecode(t, 0x0000000C, New(opcode.SYSCALL, 2, 4, 5, false, false))
}

func Test_Decode_08(t *testing.T) {
	// clz $3, $4
	checkDecode(t, 0x70801820, New(opcode.CLZ, 3, 4, 0, false, true))
}

func Test_Decode_09(t *testing.T) {
	// sra $2, $3, 4
	checkDecode(t, 0x00031103, New(opcode.SRA, 2, 3, 4, false, true))
}

func Test_Decode_10(t *testing.T) {
	// bal 4
	checkDecode(t, 0x04110004, New(opcode.JumpDirect, 31, 16, 0, true, true))
}

func Test_Decode_11(t *testing.T) {
	// ori $8, $8, 0xffff (zero extended)
	checkDecode(t, 0x3508FFFF, New(opcode.OR, 8, 8, 0xffff, false, true))
}

func Test_Decode_12(t *testing.T) {
	// mfhi $5
	checkDecode(t, 0x00002810, New(opcode.ADD, 5, 33, 0, false, true))
}

func Test_Decode_13(t *testing.T) {
	var insn = Decode(0xFC000000)
	//
	if insn.Opcode != opcode.UNIMPL || insn.Raw != 0xFC000000 {
		t.Errorf("expected unimplemented instruction, got %s", insn.String())
	}
}

func Test_Decode_14(t *testing.T) {
	// bltz $4, -1
	checkDecode(t, 0x0480FFFF, New(opcode.BLTZ, 4, 0, 0xfffffffc, true, true))
}

func Test_Decode_15(t *testing.T) {
	// break
	checkDecode(t, 0x0000000D, Unimplemented(0x0000000D))
	//
	if !Decode(0x0007000D).IsBreak() {
		t.Errorf("expected break")
	} else if Decode(0x0000000C).IsBreak() || Decode(0x3400000D).IsBreak() {
		t.Errorf("unexpected break")
	}
}

func Test_SignExtend_01(t *testing.T) {
	if v := SignExtend(0x8000, 16); v != 0xffff8000 {
		t.Errorf("unexpected value: %08x", v)
	}
	//
	if v := SignExtend(0x7fff, 16); v != 0x7fff {
		t.Errorf("unexpected value: %08x", v)
	}
	//
	if v := SignExtend(0x2000000, 26); v != 0xfe000000 {
		t.Errorf("unexpected value: %08x", v)
	}
}

func checkDecode(t *testing.T, word uint32, expected Instruction) {
	t.Helper()
	//
	if actual := Decode(word); actual != expected {
		t.Errorf("decoding %08x: expected %s, got %s", word, expected.String(), actual.String())
	}
}
