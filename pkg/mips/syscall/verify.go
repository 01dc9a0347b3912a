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

// Verify checks the next deferred proof against a verifying key and public
// values digest, both of which are read from memory (eight words each).
func Verify(ctx Context, code Code, vkeyPtr uint32, pvPtr uint32) (uint32, bool, error) {
	if vkeyPtr%4 != 0 || pvPtr%4 != 0 {
		return 0, false, fmt.Errorf("%s: arguments (0x%08x, 0x%08x) are not word aligned", code, vkeyPtr, pvPtr)
	}
	//
	var (
		vkey     = readDigest(ctx, vkeyPtr)
		pvDigest = readDigest(ctx, pvPtr)
	)
	//
	if err := ctx.VerifyDeferredProof(vkey, pvDigest); err != nil {
		return 0, false, fmt.Errorf("%s: %w", code, err)
	}
	//
	return 0, false, nil
}

func readDigest(ctx Context, ptr uint32) [DigestWords]uint32 {
	var digest [DigestWords]uint32
	//
	for i := range digest {
		digest[i] = ctx.Word(ptr + uint32(4*i))
	}
	//
	return digest
}
