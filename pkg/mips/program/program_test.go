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
package program

import (
	"testing"

	"github.com/consensys/go-zkmips/pkg/mips/opcode"
)

const exampleProgram = `
pc_start: 0x1004
pc_base: 0x1000
text:
  - 0x241d0005
  - 0x241e0025
  - 0x03ddf821
image:
  0x2000: 42
`

func Test_Program_01(t *testing.T) {
	prog, err := ParseFile([]byte(exampleProgram))
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	if prog.PcStart != 0x1004 || prog.PcBase != 0x1000 || prog.Len() != 3 {
		t.Errorf("unexpected program layout: %08x %08x %d", prog.PcStart, prog.PcBase, prog.Len())
	}
	//
	if insn := prog.Fetch(0x1008); insn.Opcode != opcode.ADD || insn.OpA != 31 {
		t.Errorf("unexpected instruction: %s", insn.String())
	}
	// Image includes both data and program text
	if prog.Image[0x2000] != 42 || prog.Image[0x1004] != 0x241e0025 {
		t.Errorf("unexpected image: %v", prog.Image)
	}
}

func Test_Program_02(t *testing.T) {
	prog, err := ParseFile([]byte("pc_start: 0x400\ntext: [0x0000000c]\n"))
	//
	if err != nil {
		t.Fatal(err)
	}
	//
	if prog.PcBase != 0x400 || !prog.Contains(0x400) || prog.Contains(0x404) || prog.Contains(0x3fc) {
		t.Errorf("unexpected program range")
	}
}

func Test_Program_03(t *testing.T) {
	if _, err := ParseFile([]byte("pc_start: 0x400\ntext: [0x0000000c]\nimage: {0x401: 1}\n")); err == nil {
		t.Errorf("expected unaligned image address to fail")
	}
	//
	if _, err := ParseFile([]byte("pc_start: 0x400\ntext: [zzz]\n")); err == nil {
		t.Errorf("expected invalid word to fail")
	}
	//
	if _, err := ParseFile([]byte("pc_start: 0x400\n")); err == nil {
		t.Errorf("expected empty program to fail")
	}
}

func Test_Program_04(t *testing.T) {
	if _, err := ParseFile([]byte("pc_start: 0x400\npc_base: 0x3fe\ntext: [0x0000000c]\n")); err == nil {
		t.Errorf("expected unaligned base to fail")
	}
	//
	if _, err := ParseFile([]byte("pc_start: 0x402\ntext: [0x0000000c]\n")); err == nil {
		t.Errorf("expected unaligned entry point to fail")
	}
	//
	if _, err := ParseFile([]byte("pc_start: 0\npc_base: 0\ntext: [0x0000000c]\n")); err != nil {
		t.Errorf("unexpected error: %s", err)
	}
}
