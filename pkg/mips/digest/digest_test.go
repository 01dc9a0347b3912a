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
package digest

import (
	"testing"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
)

func Test_Accumulator_01(t *testing.T) {
	var acc Accumulator
	//
	if acc.Digest() != (Digest{}) || acc.Count() != 0 {
		t.Errorf("empty accumulator should have zero digest")
	}
}

func Test_Accumulator_02(t *testing.T) {
	var (
		lhs, rhs Accumulator
		vkey     = [Words]uint32{1, 2, 3, 4, 5, 6, 7, 8}
		pv       = [Words]uint32{0xffffffff, 0, 0, 0, 0, 0, 0, 9}
	)
	//
	lhs.Fold(vkey, pv)
	rhs.Fold(vkey, pv)
	//
	if lhs.Digest() != rhs.Digest() {
		t.Errorf("folding is not deterministic: %s vs %s", lhs.Digest(), rhs.Digest())
	} else if lhs.Digest() == (Digest{}) {
		t.Errorf("folding produced zero digest")
	}
	//
	rhs.Fold(vkey, pv)
	//
	if lhs.Digest() == rhs.Digest() || rhs.Count() != 2 {
		t.Errorf("folding twice should change the digest")
	}
}

func Test_Accumulator_03(t *testing.T) {
	var (
		lhs, rhs Accumulator
		vkey     = [Words]uint32{1}
	)
	// order matters
	lhs.Fold(vkey, [Words]uint32{2})
	lhs.Fold(vkey, [Words]uint32{3})
	rhs.Fold(vkey, [Words]uint32{3})
	rhs.Fold(vkey, [Words]uint32{2})
	//
	if lhs.Digest() == rhs.Digest() {
		t.Errorf("folding should not be commutative")
	}
	// restore
	var restored Accumulator
	//
	restored.Restore(lhs.Element(), lhs.Count())
	//
	if restored.Digest() != lhs.Digest() {
		t.Errorf("restored accumulator differs")
	}
}

func Test_FromElement_01(t *testing.T) {
	e := fr.NewElement(0x0102030405)
	d := FromElement(e)
	//
	if d[6] != 0x01 || d[7] != 0x02030405 {
		t.Errorf("unexpected digest %s", d)
	}
}
