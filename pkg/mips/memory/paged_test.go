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
package memory

import (
	"slices"
	"testing"
)

func Test_Paged_01(t *testing.T) {
	mem := NewPaged[Cell]()
	//
	if _, ok := mem.Get(0x1000); ok {
		t.Errorf("vacant address reported as occupied")
	}
	//
	if len(mem.pages) != 0 {
		t.Errorf("reading materialised a page")
	}
}

func Test_Paged_02(t *testing.T) {
	mem := NewPaged[Cell]()
	mem.Insert(0x1000, Cell{1, 2, 3})
	//
	if c, ok := mem.Get(0x1000); !ok || c != (Cell{1, 2, 3}) {
		t.Errorf("unexpected cell: %v (%t)", c, ok)
	}
	//
	if old, ok := mem.Insert(0x1000, Cell{4, 5, 6}); !ok || old != (Cell{1, 2, 3}) {
		t.Errorf("unexpected previous cell: %v (%t)", old, ok)
	}
	//
	if mem.Len() != 1 {
		t.Errorf("unexpected length %d", mem.Len())
	}
}

func Test_Paged_03(t *testing.T) {
	mem := NewPaged[uint32]()
	// Registers and data never alias
	for addr := uint32(0); addr < WordRegionStart; addr++ {
		mem.Insert(addr, addr+1)
	}
	//
	mem.Insert(WordRegionStart, 1000)
	//
	for addr := uint32(0); addr < WordRegionStart; addr++ {
		if v, _ := mem.Get(addr); v != addr+1 {
			t.Errorf("register %d clobbered (%d)", addr, v)
		}
	}
}

func Test_Paged_04(t *testing.T) {
	var (
		mem   = NewPaged[uint32]()
		addrs = []uint32{0xfffffffc, 0x40, 0x7ff00000, 2, 0x10000, 0x44}
	)
	//
	for _, a := range addrs {
		mem.Insert(a, a)
	}
	//
	expected := slices.Clone(addrs)
	slices.Sort(expected)
	//
	if keys := mem.Keys(); !slices.Equal(keys, expected) {
		t.Errorf("unexpected keys: %v", keys)
	}
}

func Test_Paged_05(t *testing.T) {
	mem := NewPaged[uint32]()
	mem.Insert(0x2000, 7)
	//
	if v, ok := mem.Remove(0x2000); !ok || v != 7 {
		t.Errorf("unexpected removal: %d (%t)", v, ok)
	}
	//
	if mem.Len() != 0 || len(mem.pages) != 0 {
		t.Errorf("memory not empty after removal")
	}
	//
	if _, ok := mem.Remove(0x2000); ok {
		t.Errorf("removed vacant address")
	}
}

func Test_Paged_06(t *testing.T) {
	mem := NewPaged[uint32]()
	entry := mem.Entry(0x3000)
	//
	if entry.Occupied() {
		t.Errorf("vacant entry reported as occupied")
	}
	//
	if v := entry.OrInsert(9); v != 9 {
		t.Errorf("unexpected value %d", v)
	}
	//
	entry = mem.Entry(0x3000)
	//
	if v := entry.OrInsert(10); !entry.Occupied() || v != 9 {
		t.Errorf("unexpected value %d", v)
	}
}

func Test_Paged_07(t *testing.T) {
	mem := NewPaged[uint32]()
	mem.Insert(0x3000, 1)
	clone := mem.Clone()
	clone.Insert(0x3000, 2)
	clone.Insert(4, 3)
	//
	if v, _ := mem.Get(0x3000); v != 1 {
		t.Errorf("clone is not independent")
	}
	//
	if mem.Contains(4) || clone.Len() != 2 {
		t.Errorf("clone is not independent")
	}
}

func Test_Cell_01(t *testing.T) {
	if !(Cell{0, 1, 9}).Before(Cell{0, 2, 0}) || (Cell{0, 2, 0}).Before(Cell{0, 2, 0}) {
		t.Errorf("unexpected cell ordering")
	}
}
