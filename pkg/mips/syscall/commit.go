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

// Commit sets one word of the committed value digest.
func Commit(ctx Context, code Code, index uint32, word uint32) (uint32, bool, error) {
	if err := checkDigestIndex(code, index); err != nil {
		return 0, false, err
	}
	//
	ctx.CommitWord(index, word)
	//
	return 0, false, nil
}

// CommitDeferredProofs sets one word of the deferred proofs digest.
func CommitDeferredProofs(ctx Context, code Code, index uint32, word uint32) (uint32, bool, error) {
	if err := checkDigestIndex(code, index); err != nil {
		return 0, false, err
	}
	//
	ctx.CommitDeferredWord(index, word)
	//
	return 0, false, nil
}

func checkDigestIndex(code Code, index uint32) error {
	if index >= DigestWords {
		return fmt.Errorf("%s: digest word index %d out of bounds", code, index)
	}
	//
	return nil
}
