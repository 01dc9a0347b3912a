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
	"encoding/binary"
	"fmt"

	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr"
	"github.com/consensys/gnark-crypto/ecc/bls12-377/fr/mimc"
)

// Words is the number of 32bit words in a digest.
const Words = 8

// Digest is a 256bit value represented as eight big-endian words.
type Digest [Words]uint32

// FromElement converts a field element into a digest, using its canonical
// (big-endian) byte representation.
func FromElement(e fr.Element) Digest {
	var (
		digest Digest
		bytes  = e.Bytes()
	)
	//
	for i := range digest {
		digest[i] = binary.BigEndian.Uint32(bytes[4*i:])
	}
	//
	return digest
}

func (p Digest) String() string {
	return fmt.Sprintf("%08x", p[:])
}

// Accumulator folds a sequence of verified deferred proofs into a running
// MiMC digest.  Each step computes
//
//	acc' = MiMC(acc || vkey[0] || ... || vkey[7] || pv[0] || ... || pv[7])
//
// where each word is embedded as a separate element of the scalar field.
type Accumulator struct {
	state fr.Element
	count uint
}

// Fold a verified proof, given its verifying key and public values digest,
// into the accumulator.
func (p *Accumulator) Fold(vkey [Words]uint32, pvDigest [Words]uint32) {
	h := mimc.NewMiMC()
	//
	write := func(e fr.Element) {
		bytes := e.Bytes()
		// canonical elements are always accepted
		if _, err := h.Write(bytes[:]); err != nil {
			panic(err)
		}
	}
	//
	write(p.state)
	//
	for _, w := range vkey {
		write(fr.NewElement(uint64(w)))
	}
	//
	for _, w := range pvDigest {
		write(fr.NewElement(uint64(w)))
	}
	//
	p.state.SetBytes(h.Sum(nil))
	p.count++
}

// Count returns the number of proofs folded so far.
func (p *Accumulator) Count() uint {
	return p.count
}

// Element returns the current state of the accumulator.
func (p *Accumulator) Element() fr.Element {
	return p.state
}

// Digest returns the current state of the accumulator as a digest.
func (p *Accumulator) Digest() Digest {
	return FromElement(p.state)
}

// Restore the accumulator to a given state.
func (p *Accumulator) Restore(state fr.Element, count uint) {
	p.state = state
	p.count = count
}
