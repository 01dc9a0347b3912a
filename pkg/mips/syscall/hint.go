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
	"encoding/binary"
	"fmt"
)

// StageError indicates an attempt to set the initial value of an address
// which either already has a value, or cannot be staged at all.
type StageError struct {
	Addr uint32
	// Staged indicates the address was previously staged, rather than accessed.
	Staged bool
}

func (p *StageError) Error() string {
	if p.Staged {
		return fmt.Sprintf("address 0x%08x already staged", p.Addr)
	}
	//
	return fmt.Sprintf("address 0x%08x already initialised", p.Addr)
}

// HintLen returns the length (in bytes) of the next unread hint, or 0xffffffff
// when every hint has been read.
func HintLen(ctx Context, _ Code, _ uint32, _ uint32) (uint32, bool, error) {
	hint, ok := ctx.PeekHint()
	//
	if !ok {
		return 0xffffffff, true, nil
	}
	//
	return uint32(len(hint)), true, nil
}

// HintRead reads the next hint into memory at a given (word aligned) address.
// The length requested must match that of the hint exactly.  Since the hint is
// not produced by the program, its bytes are staged as the initial values of
// the target addresses, which must not have been accessed already.
func HintRead(ctx Context, code Code, ptr uint32, length uint32) (uint32, bool, error) {
	if ptr%4 != 0 {
		return 0, false, fmt.Errorf("%s: address 0x%08x is not word aligned", code, ptr)
	}
	//
	hint, ok := ctx.NextHint()
	//
	if !ok {
		return 0, false, fmt.Errorf("%s: no hints remaining", code)
	} else if uint32(len(hint)) != length {
		return 0, false, fmt.Errorf("%s: hint has length %d, but %d bytes requested", code, len(hint), length)
	}
	//
	for i := 0; i < len(hint); i += 4 {
		var (
			chunk [4]byte
			addr  = ptr + uint32(i)
		)
		//
		copy(chunk[:], hint[i:])
		//
		if err := ctx.StageWord(addr, binary.LittleEndian.Uint32(chunk[:])); err != nil {
			return 0, false, fmt.Errorf("%s: %w", code, err)
		}
	}
	//
	return 0, false, nil
}
