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

// EnterUnconstrained begins an unconstrained scope.  The program observes a
// result of 1 within the scope, and 0 once execution resumes after the scope is
// exited (since all effects of the scope, including this result, are then
// rolled back).
func EnterUnconstrained(ctx Context, _ Code, _ uint32, _ uint32) (uint32, bool, error) {
	ctx.EnterUnconstrained()
	//
	return 1, true, nil
}

// ExitUnconstrained ends the current unconstrained scope, rolling back its
// effects.  Outside of a scope, this has no effect.
func ExitUnconstrained(ctx Context, _ Code, _ uint32, _ uint32) (uint32, bool, error) {
	ctx.ExitUnconstrained()
	//
	return 0, true, nil
}
